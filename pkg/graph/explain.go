package graph

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/netweave/intrograph/backend/pkg/common"
)

// weakLinkThreshold marks an edge worth calling out as notably weak in a
// path explanation.
const weakLinkThreshold = 0.25

// RankPaths orders the candidate paths by composite score (best first),
// assigns 1-based ranks and synthesizes a human-readable explanation per
// path. It is a read-only presentation step: graph data is never touched
// and identical input always produces identical output.
func (g *GraphClient) RankPaths(gr *Graph, paths []common.Path) []common.Path {
	ranked := make([]common.Path, len(paths))
	copy(ranked, paths)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if len(ranked[i].PersonIDs) != len(ranked[j].PersonIDs) {
			return len(ranked[i].PersonIDs) < len(ranked[j].PersonIDs)
		}
		return strings.Join(ranked[i].PersonIDs, "/") < strings.Join(ranked[j].PersonIDs, "/")
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
		ranked[i].Explanation = g.explainPath(gr, ranked[i])
	}
	return ranked
}

func percent(strength float64) int {
	return int(math.Round(strength * 100))
}

func (g *GraphClient) displayName(gr *Graph, id string) string {
	if p, ok := gr.Node(id); ok {
		return p.DisplayName()
	}
	return id
}

// explainPath renders one path as a chain of named hops with connection
// percentages, e.g. "via Alice (85% connection) → Jane (60% connection)",
// and calls out the weakest link when a hop falls below the threshold.
func (g *GraphClient) explainPath(gr *Graph, p common.Path) string {
	if len(p.Edges) == 0 {
		return ""
	}

	if len(p.Edges) == 1 {
		e := p.Edges[0]
		return fmt.Sprintf("direct connection to %s (%d%% connection)",
			g.displayName(gr, e.ToID), percent(e.Strength))
	}

	var b strings.Builder
	b.WriteString("via ")
	for i, e := range p.Edges {
		if i > 0 {
			b.WriteString(" → ")
		}
		fmt.Fprintf(&b, "%s (%d%% connection)", g.displayName(gr, e.ToID), percent(e.Strength))
	}

	weakest := p.Edges[0]
	for _, e := range p.Edges[1:] {
		if e.Strength < weakest.Strength {
			weakest = e
		}
	}
	if weakest.Strength < weakLinkThreshold {
		fmt.Fprintf(&b, "; weakest link: %s → %s (%d%%)",
			g.displayName(gr, weakest.FromID), g.displayName(gr, weakest.ToID), percent(weakest.Strength))
	}

	return b.String()
}
