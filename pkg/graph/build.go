package graph

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/netweave/intrograph/backend/pkg/common"

	"golang.org/x/sync/errgroup"
)

// Graph is one user's weighted, directed relationship graph. It is built
// from a deduplicated evidence snapshot and is immutable afterwards; every
// request builds or receives its own instance.
type Graph struct {
	UserID int64
	Nodes  map[string]common.Person
	Edges  []common.Edge

	out map[string][]common.Edge
}

// Node returns the person behind a node id, if present.
func (g *Graph) Node(id string) (common.Person, bool) {
	p, ok := g.Nodes[id]
	return p, ok
}

// Outgoing returns the edges leaving the given node.
func (g *Graph) Outgoing(id string) []common.Edge {
	return g.out[id]
}

// pairKey identifies an unordered person pair. Evidence pooling is
// bidirectional: an event between A and B feeds the evidence pools of both
// the A->B and the B->A edge, so the two directions always carry the same
// strength. Symmetric UI lookups are therefore the identity.
type pairKey struct {
	a, b string
}

func pairOf(x, y string) pairKey {
	if x < y {
		return pairKey{a: x, b: y}
	}
	return pairKey{a: y, b: x}
}

// Build assembles the relationship graph for one user from the person
// catalog and a deduplicated evidence snapshot. Events owned by other
// users and self-only events (no object party) never contribute. People
// referenced by evidence but missing from the catalog get a bare
// placeholder node so the edge is still traversable.
//
// The result is a pure function of its input: identical evidence produces
// an identical, deterministically ordered edge set.
func (g *GraphClient) Build(
	ctx context.Context,
	userID int64,
	people []common.Person,
	events []common.EvidenceEvent,
	now time.Time,
) (*Graph, error) {
	nodes := make(map[string]common.Person, len(people))
	for _, p := range people {
		nodes[p.PublicID] = p
	}

	pools := make(map[pairKey][]common.EvidenceEvent)
	pairs := make([]pairKey, 0)
	for _, ev := range events {
		if ev.UserID != userID {
			continue
		}
		if ev.SubjectID == "" || ev.ObjectID == "" || ev.SubjectID == ev.ObjectID {
			continue
		}

		k := pairOf(ev.SubjectID, ev.ObjectID)
		if _, seen := pools[k]; !seen {
			pairs = append(pairs, k)
		}
		pools[k] = append(pools[k], ev)

		for _, id := range []string{ev.SubjectID, ev.ObjectID} {
			if _, ok := nodes[id]; !ok {
				nodes[id] = common.Person{PublicID: id, Names: []string{}}
			}
		}
	}

	strengths := make([]float64, len(pairs))
	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelPairs)
	var mu sync.Mutex
	for i, k := range pairs {
		i, k := i, k
		eg.Go(func() error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
				s := g.Strength(pools[k], now)
				mu.Lock()
				strengths[i] = s
				mu.Unlock()
				return nil
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	edges := make([]common.Edge, 0, len(pairs)*2)
	for i, k := range pairs {
		pool := pools[k]
		count := len(pool)
		last := pool[0].OccurredAt
		srcSet := make(map[common.EventSource]bool)
		for _, ev := range pool {
			if ev.OccurredAt.After(last) {
				last = ev.OccurredAt
			}
			srcSet[ev.Source] = true
		}
		sources := make([]common.EventSource, 0, len(srcSet))
		for s := range srcSet {
			sources = append(sources, s)
		}
		sort.Slice(sources, func(x, y int) bool { return sources[x] < sources[y] })

		for _, dir := range [][2]string{{k.a, k.b}, {k.b, k.a}} {
			edges = append(edges, common.Edge{
				FromID:           dir[0],
				ToID:             dir[1],
				Strength:         strengths[i],
				InteractionCount: count,
				Sources:          sources,
				LastInteraction:  last,
			})
		}
	}

	sort.Slice(edges, func(x, y int) bool {
		if edges[x].FromID != edges[y].FromID {
			return edges[x].FromID < edges[y].FromID
		}
		return edges[x].ToID < edges[y].ToID
	})

	out := make(map[string][]common.Edge, len(nodes))
	for _, e := range edges {
		out[e.FromID] = append(out[e.FromID], e)
	}

	return &Graph{
		UserID: userID,
		Nodes:  nodes,
		Edges:  edges,
		out:    out,
	}, nil
}
