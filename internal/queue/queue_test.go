package queue

import (
	"testing"
)

func TestRetryQueueArgsRouteBackToWorkQueue(t *testing.T) {
	for _, name := range Queues {
		args := retryQueueArgs(name)

		ttl, ok := args["x-message-ttl"].(int32)
		if !ok || ttl <= 0 {
			t.Errorf("%s_retry: expected a positive x-message-ttl, got %v", name, args["x-message-ttl"])
		}
		if exchange, ok := args["x-dead-letter-exchange"].(string); !ok || exchange != "" {
			t.Errorf("%s_retry: expected default dead-letter exchange, got %v", name, args["x-dead-letter-exchange"])
		}
		if key, ok := args["x-dead-letter-routing-key"].(string); !ok || key != name {
			t.Errorf("%s_retry: expected dead-letter routing key %q, got %v", name, name, args["x-dead-letter-routing-key"])
		}
	}
}
