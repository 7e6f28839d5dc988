package queue

import (
	"encoding/json"
	"fmt"

	"github.com/netweave/intrograph/backend/internal/util"
	"github.com/netweave/intrograph/backend/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

// Queue names for the async maintenance jobs. Each queue gets a matching
// retry and dead-letter queue.
const (
	RebuildQueue = "rebuild_queue"
	DedupeQueue  = "dedupe_queue"
)

// Queues lists every job queue the worker consumes.
var Queues = []string{RebuildQueue, DedupeQueue}

// JobMsg is the payload of every maintenance job; jobs are always scoped
// to one user.
type JobMsg struct {
	UserID int64 `json:"user_id"`
}

func Init() *amqp091.Connection {
	user := util.GetEnv("RABBITMQ_USER")
	pass := util.GetEnv("RABBITMQ_PASSWORD")
	host := util.GetEnv("RABBITMQ_HOST")
	port := util.GetEnv("RABBITMQ_PORT")

	connURL := fmt.Sprintf("amqp://%s:%s@%s:%s/", user, pass, host, port)

	conn, err := amqp091.Dial(connURL)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", "err", err)
	}

	return conn
}

// retryDelayMs is how long a failed job parks in its retry queue before
// the broker dead-letters it back onto the work queue.
const retryDelayMs = 10000

// retryQueueArgs routes expired retry messages back to the work queue
// through the default exchange.
func retryQueueArgs(workQueue string) amqp091.Table {
	return amqp091.Table{
		"x-message-ttl":             int32(retryDelayMs),
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": workQueue,
	}
}

// SetupQueues declares the job queues plus their retry and dead-letter
// companions. Retry queues have no consumer: messages sit there until the
// TTL expires and the broker routes them back to the work queue.
// Declarations are idempotent, so both server and worker run this at boot.
func SetupQueues(ch *amqp091.Channel) error {
	for _, name := range Queues {
		_, err := ch.QueueDeclare(
			name,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", name, err)
		}

		dlqName := name + "_dlq"
		_, err = ch.QueueDeclare(
			dlqName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", dlqName, err)
		}

		retryName := name + "_retry"
		_, err = ch.QueueDeclare(
			retryName,
			true,
			false,
			false,
			false,
			retryQueueArgs(name),
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", retryName, err)
		}
	}
	return nil
}

// PublishJob enqueues a user-scoped job, retrying transient publish
// failures.
func PublishJob(ch *amqp091.Channel, queueName string, msg JobMsg) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	err = util.RetryErr(3, func() error {
		return ch.Publish(
			"",
			queueName,
			false,
			false,
			amqp091.Publishing{
				ContentType: "application/json",
				Body:        body,
			},
		)
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queueName, err)
	}

	logger.Debug("[Queue] Job published", "queue", queueName, "user_id", msg.UserID)
	return nil
}

// HandleProcessingError routes a failed delivery to the retry queue, or to
// the dead-letter queue once it has been retried too often.
func HandleProcessingError(ch *amqp091.Channel, msg amqp091.Delivery, queueName string) {
	retries := 0
	if val, ok := msg.Headers["x-retries"]; ok {
		if v, ok := val.(int32); ok {
			retries = int(v)
		}
	}

	if retries >= 10 {
		dlqName := queueName + "_dlq"
		logger.Info("[Queue] Sending message to DLQ", "dlq", dlqName)
		pubErr := ch.Publish(
			"",
			dlqName,
			false,
			false,
			amqp091.Publishing{
				ContentType: msg.ContentType,
				Body:        msg.Body,
				Headers:     msg.Headers,
			},
		)
		if pubErr != nil {
			logger.Error("Failed to publish to DLQ", "dlq", dlqName, "err", pubErr)
			msg.Nack(false, true)
			return
		}
		msg.Ack(false)
		return
	}

	retryName := queueName + "_retry"
	headers := msg.Headers
	if headers == nil {
		headers = amqp091.Table{}
	}
	headers["x-retries"] = retries + 1

	pubErr := ch.Publish(
		"",
		retryName,
		false,
		false,
		amqp091.Publishing{
			ContentType: msg.ContentType,
			Body:        msg.Body,
			Headers:     headers,
		},
	)
	if pubErr != nil {
		logger.Error("Failed to publish to retry queue", "retry_queue", retryName, "err", pubErr)
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}
