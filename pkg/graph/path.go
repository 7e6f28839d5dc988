package graph

import (
	"container/heap"
	"errors"
	"strings"

	"github.com/netweave/intrograph/backend/pkg/common"
)

// ErrSelfTarget is returned when a path query asks for a route from a
// person to themselves.
var ErrSelfTarget = errors.New("source and target are the same person")

type partialPath struct {
	nodes   []string
	edges   []common.Edge
	score   float64
	visited map[string]bool
}

func (p *partialPath) hops() int {
	return len(p.nodes) - 1
}

func (p *partialPath) key() string {
	return strings.Join(p.nodes, "/")
}

// pathHeap orders partial paths best-first: highest score, then fewest
// hops, then lexicographically smallest node sequence. The final tie-break
// keeps the search fully deterministic.
type pathHeap []*partialPath

func (h pathHeap) Len() int { return len(h) }

func (h pathHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score > h[j].score
	}
	if h[i].hops() != h[j].hops() {
		return h[i].hops() < h[j].hops()
	}
	return h[i].key() < h[j].key()
}

func (h pathHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *pathHeap) Push(x any) { *h = append(*h, x.(*partialPath)) }

func (h *pathHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return p
}

// FindPaths searches the graph for up to k distinct paths from source to
// target, each at most maxHops edges long. Pass 0 for maxHops or k to use
// the client defaults; values above MaxHopsLimit and MaxPathsLimit are
// clamped.
//
// The search is best-first over the path score, the product of the edge
// strengths discounted per additional hop. Extending a path can only lower
// its score, so complete paths pop off the frontier in final ranking order
// and a strictly dominating shorter chain always outranks a longer one.
// Each in-progress path carries its own visited set: no returned path
// revisits a node, but the same node may appear in different candidates.
//
// A missing source or target yields an empty result, not an error; absence
// from a sparse graph is an expected state. Returned paths have Score set
// but no rank or explanation; see RankPaths.
func (g *GraphClient) FindPaths(gr *Graph, sourceID, targetID string, maxHops, k int) ([]common.Path, error) {
	if sourceID == targetID {
		return nil, ErrSelfTarget
	}
	if maxHops <= 0 {
		maxHops = g.maxHops
	}
	if maxHops > MaxHopsLimit {
		maxHops = MaxHopsLimit
	}
	if k <= 0 {
		k = g.maxPaths
	}
	if k > MaxPathsLimit {
		k = MaxPathsLimit
	}

	if _, ok := gr.Node(sourceID); !ok {
		return []common.Path{}, nil
	}
	if _, ok := gr.Node(targetID); !ok {
		return []common.Path{}, nil
	}

	frontier := &pathHeap{{
		nodes:   []string{sourceID},
		score:   1,
		visited: map[string]bool{sourceID: true},
	}}
	heap.Init(frontier)

	results := make([]common.Path, 0, k)
	seen := make(map[string]bool)

	for frontier.Len() > 0 && len(results) < k {
		p := heap.Pop(frontier).(*partialPath)

		if p.nodes[len(p.nodes)-1] == targetID {
			if seen[p.key()] {
				continue
			}
			seen[p.key()] = true
			results = append(results, common.Path{
				PersonIDs: p.nodes,
				Edges:     p.edges,
				Score:     p.score,
			})
			continue
		}

		if p.hops() >= maxHops {
			continue
		}

		for _, e := range gr.Outgoing(p.nodes[len(p.nodes)-1]) {
			if p.visited[e.ToID] || e.Strength <= 0 {
				continue
			}

			score := p.score * e.Strength
			if p.hops() >= 1 {
				score *= g.hopPenalty
			}

			nodes := make([]string, len(p.nodes), len(p.nodes)+1)
			copy(nodes, p.nodes)
			edges := make([]common.Edge, len(p.edges), len(p.edges)+1)
			copy(edges, p.edges)
			visited := make(map[string]bool, len(p.visited)+1)
			for id := range p.visited {
				visited[id] = true
			}
			visited[e.ToID] = true

			heap.Push(frontier, &partialPath{
				nodes:   append(nodes, e.ToID),
				edges:   append(edges, e),
				score:   score,
				visited: visited,
			})
		}
	}

	return results, nil
}
