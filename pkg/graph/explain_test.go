package graph

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/netweave/intrograph/backend/pkg/common"
)

func TestRankPathsOrderingAndRanks(t *testing.T) {
	g := testClient(t)
	gr := &Graph{Nodes: map[string]common.Person{}}

	paths := []common.Path{
		{PersonIDs: []string{"me", "a", "jane"}, Score: 0.4, Edges: []common.Edge{{FromID: "me", ToID: "a", Strength: 0.8}, {FromID: "a", ToID: "jane", Strength: 0.5}}},
		{PersonIDs: []string{"me", "jane"}, Score: 0.9, Edges: []common.Edge{{FromID: "me", ToID: "jane", Strength: 0.9}}},
		{PersonIDs: []string{"me", "b", "jane"}, Score: 0.4, Edges: []common.Edge{{FromID: "me", ToID: "b", Strength: 0.8}, {FromID: "b", ToID: "jane", Strength: 0.5}}},
	}

	ranked := g.RankPaths(gr, paths)

	if ranked[0].Rank != 1 || ranked[1].Rank != 2 || ranked[2].Rank != 3 {
		t.Fatalf("ranks not 1-based ascending: %+v", ranked)
	}
	if !reflect.DeepEqual(ranked[0].PersonIDs, []string{"me", "jane"}) {
		t.Fatalf("expected highest score first, got %v", ranked[0].PersonIDs)
	}
	// Equal scores and equal length fall back to the lexicographic order.
	if !reflect.DeepEqual(ranked[1].PersonIDs, []string{"me", "a", "jane"}) {
		t.Fatalf("expected lexicographic tie-break, got %v", ranked[1].PersonIDs)
	}
}

func TestExplainDirectConnection(t *testing.T) {
	g := testClient(t)
	gr := &Graph{Nodes: map[string]common.Person{
		"jane": {PublicID: "jane", Names: []string{"Jane"}},
	}}

	p := common.Path{
		PersonIDs: []string{"me", "jane"},
		Edges:     []common.Edge{{FromID: "me", ToID: "jane", Strength: 0.85}},
		Score:     0.85,
	}

	got := g.RankPaths(gr, []common.Path{p})[0].Explanation
	want := "direct connection to Jane (85% connection)"
	if got != want {
		t.Fatalf("explanation = %q, want %q", got, want)
	}
}

func TestExplainMultiHopWithWeakLink(t *testing.T) {
	g := testClient(t)
	gr := &Graph{Nodes: map[string]common.Person{
		"alice": {PublicID: "alice", Names: []string{"Alice"}},
		"jane":  {PublicID: "jane", Names: []string{"Jane"}},
	}}

	p := common.Path{
		PersonIDs: []string{"me", "alice", "jane"},
		Edges: []common.Edge{
			{FromID: "me", ToID: "alice", Strength: 0.85},
			{FromID: "alice", ToID: "jane", Strength: 0.12},
		},
		Score: 0.087,
	}

	got := g.RankPaths(gr, []common.Path{p})[0].Explanation
	if !strings.HasPrefix(got, "via Alice (85% connection) → Jane (12% connection)") {
		t.Fatalf("unexpected explanation prefix: %q", got)
	}
	if !strings.Contains(got, "weakest link: Alice → Jane (12%)") {
		t.Fatalf("expected weakest-link callout, got %q", got)
	}
}

func TestExplainDeterministic(t *testing.T) {
	g := testClient(t)

	events := []common.EvidenceEvent{
		interaction(1, 1, "me", "alice", common.EventEmailExchanged, testNow.AddDate(0, 0, -15)),
		interaction(2, 1, "alice", "jane", common.EventLinkedIn, testNow.AddDate(0, 0, -15)),
	}
	gr, err := g.Build(context.Background(), 1, testPeople(), events, testNow)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	paths, err := g.FindPaths(gr, "me", "jane", 3, 5)
	if err != nil {
		t.Fatalf("FindPaths failed: %v", err)
	}

	first := g.RankPaths(gr, paths)
	second := g.RankPaths(gr, paths)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("ranking is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
