package graph

import (
	"sort"

	"github.com/netweave/intrograph/backend/pkg/common"
)

// sampleIDsPerGroup bounds the per-group id sample returned by a preview.
const sampleIDsPerGroup = 5

// identityKey is the six-field key that defines evidence duplicates.
type identityKey struct {
	UserID     int64
	SubjectID  string
	ObjectID   string
	Type       common.EventType
	Source     common.EventSource
	OccurredAt int64
}

func keyOf(ev common.EvidenceEvent) identityKey {
	return identityKey{
		UserID:     ev.UserID,
		SubjectID:  ev.SubjectID,
		ObjectID:   ev.ObjectID,
		Type:       ev.Type,
		Source:     ev.Source,
		OccurredAt: ev.OccurredAt.UnixNano(),
	}
}

// DuplicateGroup describes one set of evidence events sharing an identity
// key. KeepID is the earliest-created row, which survives canonically;
// DupeIDs are the rows a destructive run removes.
type DuplicateGroup struct {
	KeepID    int64
	DupeIDs   []int64
	SampleIDs []string
}

// DedupePlan is the result of grouping an evidence set by identity key.
// It is the shared input of the non-destructive preview and the
// destructive sweep, so both always report the same counts.
type DedupePlan struct {
	Groups          []DuplicateGroup
	TotalDuplicates int
}

// DuplicateIDs returns every row id the plan marks for removal, in
// deterministic order.
func (p DedupePlan) DuplicateIDs() []int64 {
	ids := make([]int64, 0, p.TotalDuplicates)
	for _, g := range p.Groups {
		ids = append(ids, g.DupeIDs...)
	}
	return ids
}

// PlanDedupe groups events by the six-field identity key and selects the
// earliest-created event of each group as canonical. Grouping is a single
// O(n) pass; ties on creation time fall back to the lowest row id so the
// plan is deterministic. Running the plan against an already-deduplicated
// set yields no groups, which makes the whole operation idempotent.
func PlanDedupe(events []common.EvidenceEvent) DedupePlan {
	byKey := make(map[identityKey][]common.EvidenceEvent, len(events))
	order := make([]identityKey, 0, len(events))
	for _, ev := range events {
		k := keyOf(ev)
		if _, seen := byKey[k]; !seen {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], ev)
	}

	plan := DedupePlan{}
	for _, k := range order {
		group := byKey[k]
		if len(group) <= 1 {
			continue
		}

		sort.Slice(group, func(i, j int) bool {
			if !group[i].CreatedAt.Equal(group[j].CreatedAt) {
				return group[i].CreatedAt.Before(group[j].CreatedAt)
			}
			return group[i].ID < group[j].ID
		})

		dg := DuplicateGroup{
			KeepID:  group[0].ID,
			DupeIDs: make([]int64, 0, len(group)-1),
		}
		for _, ev := range group[1:] {
			dg.DupeIDs = append(dg.DupeIDs, ev.ID)
			if len(dg.SampleIDs) < sampleIDsPerGroup {
				dg.SampleIDs = append(dg.SampleIDs, ev.PublicID)
			}
		}

		plan.Groups = append(plan.Groups, dg)
		plan.TotalDuplicates += len(dg.DupeIDs)
	}

	return plan
}

// Dedupe returns the canonical evidence set: for every identity key the
// earliest-created event, original order preserved otherwise. It never
// mutates its input.
func Dedupe(events []common.EvidenceEvent) []common.EvidenceEvent {
	plan := PlanDedupe(events)
	if plan.TotalDuplicates == 0 {
		out := make([]common.EvidenceEvent, len(events))
		copy(out, events)
		return out
	}

	drop := make(map[int64]bool, plan.TotalDuplicates)
	for _, id := range plan.DuplicateIDs() {
		drop[id] = true
	}

	out := make([]common.EvidenceEvent, 0, len(events)-plan.TotalDuplicates)
	for _, ev := range events {
		if !drop[ev.ID] {
			out = append(out, ev)
		}
	}
	return out
}
