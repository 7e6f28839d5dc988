package graph

import (
	"math"
	"time"

	"github.com/netweave/intrograph/backend/pkg/common"
)

// defaultTypeWeights scales how much a single event of each type counts
// toward an edge's strength before recency decay. Attending a meeting
// together is the strongest signal; a one-off LinkedIn connection the
// weakest of the known types.
var defaultTypeWeights = map[common.EventType]float64{
	common.EventMeetingAttended: 1.0,
	common.EventEmailExchanged:  0.8,
	common.EventMessageSent:     0.7,
	common.EventMessageReceived: 0.5,
	common.EventLinkedIn:        0.5,
}

const unknownTypeWeight = 0.4

func (g *GraphClient) typeWeight(t common.EventType) float64 {
	if w, ok := g.typeWeights[t]; ok {
		return w
	}
	return unknownTypeWeight
}

// recency returns the exponential decay factor for an event observed at t,
// as seen from now. Future timestamps clamp to exactly 1; decay is a
// continuous function of elapsed time, never bucketed.
func (g *GraphClient) recency(now, t time.Time) float64 {
	days := now.Sub(t).Hours() / 24
	if days <= 0 {
		return 1
	}
	return math.Exp(-days / g.halfLifeDays)
}

// Strength converts the evidence events shared by two people into one
// scalar relationship strength in [0,1].
//
// Each event contributes its type weight scaled by recency decay; the
// contributions are summed and capped at 1. The combination is monotone
// non-decreasing in additional recent evidence, bounded in [0,1], and
// tends toward 0 as all evidence ages without reinforcement.
func (g *GraphClient) Strength(events []common.EvidenceEvent, now time.Time) float64 {
	if len(events) == 0 {
		return 0
	}

	total := 0.0
	for _, ev := range events {
		total += g.typeWeight(ev.Type) * g.recency(now, ev.OccurredAt)
	}

	if total > 1 {
		return 1
	}
	if total < 0 {
		return 0
	}
	return total
}
