package graph

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/netweave/intrograph/backend/pkg/common"
)

// buildTestGraph assembles a graph from the given evidence for user 1.
func buildTestGraph(t *testing.T, g *GraphClient, events []common.EvidenceEvent) *Graph {
	t.Helper()
	gr, err := g.Build(context.Background(), 1, testPeople(), events, testNow)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return gr
}

func TestFindPathsWarmIntroScenario(t *testing.T) {
	g := testClient(t)

	base := testNow.AddDate(0, 0, -30)
	events := []common.EvidenceEvent{
		interaction(1, 1, "me", "alice", common.EventEmailExchanged, base),
		interaction(2, 1, "me", "alice", common.EventEmailExchanged, base.AddDate(0, 0, 5)),
		interaction(3, 1, "alice", "jane", common.EventLinkedIn, base.AddDate(0, 0, 10)),
	}
	gr := buildTestGraph(t, g, events)

	paths, err := g.FindPaths(gr, "me", "jane", 3, 5)
	if err != nil {
		t.Fatalf("FindPaths failed: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected exactly 1 path, got %d", len(paths))
	}

	want := []string{"me", "alice", "jane"}
	if !reflect.DeepEqual(paths[0].PersonIDs, want) {
		t.Fatalf("expected path %v, got %v", want, paths[0].PersonIDs)
	}
	if paths[0].Score <= 0 || paths[0].Score >= 1 {
		t.Fatalf("expected decayed two-hop score in (0,1), got %f", paths[0].Score)
	}

	ranked := g.RankPaths(gr, paths)
	if ranked[0].Rank != 1 {
		t.Fatalf("expected rank 1, got %d", ranked[0].Rank)
	}
}

func TestFindPathsRespectsMaxHops(t *testing.T) {
	g := testClient(t)

	// Chain me -> alice -> jane, reachable only in 2 hops.
	events := []common.EvidenceEvent{
		interaction(1, 1, "me", "alice", common.EventEmailExchanged, testNow.AddDate(0, 0, -5)),
		interaction(2, 1, "alice", "jane", common.EventEmailExchanged, testNow.AddDate(0, 0, -5)),
	}
	gr := buildTestGraph(t, g, events)

	paths, err := g.FindPaths(gr, "me", "jane", 1, 5)
	if err != nil {
		t.Fatalf("FindPaths failed: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected no paths within 1 hop, got %v", paths)
	}

	paths, err = g.FindPaths(gr, "me", "jane", 2, 5)
	if err != nil {
		t.Fatalf("FindPaths failed: %v", err)
	}
	for _, p := range paths {
		if len(p.PersonIDs)-1 > 2 {
			t.Fatalf("path exceeds maxHops: %v", p.PersonIDs)
		}
	}
	if len(paths) != 1 {
		t.Fatalf("expected 1 path within 2 hops, got %d", len(paths))
	}
}

func TestFindPathsMissingNodes(t *testing.T) {
	g := testClient(t)

	events := []common.EvidenceEvent{
		interaction(1, 1, "me", "alice", common.EventEmailExchanged, testNow.AddDate(0, 0, -5)),
	}
	gr := buildTestGraph(t, g, events)

	paths, err := g.FindPaths(gr, "me", "nobody", 3, 5)
	if err != nil {
		t.Fatalf("missing target must not error, got %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected empty result for missing target, got %v", paths)
	}

	paths, err = g.FindPaths(gr, "ghost", "alice", 3, 5)
	if err != nil {
		t.Fatalf("missing source must not error, got %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected empty result for missing source, got %v", paths)
	}
}

func TestFindPathsSelfTarget(t *testing.T) {
	g := testClient(t)
	gr := buildTestGraph(t, g, nil)

	_, err := g.FindPaths(gr, "me", "me", 3, 5)
	if !errors.Is(err, ErrSelfTarget) {
		t.Fatalf("expected ErrSelfTarget, got %v", err)
	}
}

func TestFindPathsLimitsAndDistinctness(t *testing.T) {
	g := testClient(t)

	// Dense little network: several routes from me to jane.
	events := []common.EvidenceEvent{
		interaction(1, 1, "me", "alice", common.EventMeetingAttended, testNow.AddDate(0, 0, -2)),
		interaction(2, 1, "me", "bob", common.EventMeetingAttended, testNow.AddDate(0, 0, -2)),
		interaction(3, 1, "me", "carol", common.EventMeetingAttended, testNow.AddDate(0, 0, -2)),
		interaction(4, 1, "alice", "jane", common.EventMeetingAttended, testNow.AddDate(0, 0, -2)),
		interaction(5, 1, "bob", "jane", common.EventMeetingAttended, testNow.AddDate(0, 0, -2)),
		interaction(6, 1, "carol", "jane", common.EventMeetingAttended, testNow.AddDate(0, 0, -2)),
		interaction(7, 1, "alice", "bob", common.EventMeetingAttended, testNow.AddDate(0, 0, -2)),
	}
	gr := buildTestGraph(t, g, events)

	paths, err := g.FindPaths(gr, "me", "jane", 4, 2)
	if err != nil {
		t.Fatalf("FindPaths failed: %v", err)
	}
	if len(paths) > 2 {
		t.Fatalf("returned more than k paths: %d", len(paths))
	}

	seen := make(map[string]bool)
	for _, p := range paths {
		key := ""
		visited := make(map[string]bool)
		for _, id := range p.PersonIDs {
			if visited[id] {
				t.Fatalf("path revisits node %s: %v", id, p.PersonIDs)
			}
			visited[id] = true
			key += id + "/"
		}
		if seen[key] {
			t.Fatalf("duplicate path returned: %v", p.PersonIDs)
		}
		seen[key] = true
	}
}

func TestFindPathsShorterDominatingChainRanksFirst(t *testing.T) {
	g := testClient(t)

	// Direct strong link me -> jane plus a weaker two-hop detour.
	events := []common.EvidenceEvent{
		interaction(1, 1, "me", "jane", common.EventMeetingAttended, testNow.AddDate(0, 0, -1)),
		interaction(2, 1, "me", "alice", common.EventMeetingAttended, testNow.AddDate(0, 0, -1)),
		interaction(3, 1, "alice", "jane", common.EventMeetingAttended, testNow.AddDate(0, 0, -1)),
	}
	gr := buildTestGraph(t, g, events)

	paths, err := g.FindPaths(gr, "me", "jane", 3, 5)
	if err != nil {
		t.Fatalf("FindPaths failed: %v", err)
	}
	if len(paths) < 2 {
		t.Fatalf("expected at least 2 paths, got %d", len(paths))
	}

	if !reflect.DeepEqual(paths[0].PersonIDs, []string{"me", "jane"}) {
		t.Fatalf("expected the direct chain first, got %v", paths[0].PersonIDs)
	}
	if paths[0].Score < paths[1].Score {
		t.Fatalf("shorter dominating chain scored below the longer one: %f < %f",
			paths[0].Score, paths[1].Score)
	}
}

func TestFindPathsDeterministicTieBreak(t *testing.T) {
	g := testClient(t)

	// Two symmetric intermediaries with identical evidence; order must be
	// decided by the lexicographic tie-break, not map iteration.
	events := []common.EvidenceEvent{
		interaction(1, 1, "me", "alice", common.EventMeetingAttended, testNow.AddDate(0, 0, -3)),
		interaction(2, 1, "me", "bob", common.EventMeetingAttended, testNow.AddDate(0, 0, -3)),
		interaction(3, 1, "alice", "jane", common.EventMeetingAttended, testNow.AddDate(0, 0, -3)),
		interaction(4, 1, "bob", "jane", common.EventMeetingAttended, testNow.AddDate(0, 0, -3)),
	}
	gr := buildTestGraph(t, g, events)

	for range 5 {
		paths, err := g.FindPaths(gr, "me", "jane", 3, 2)
		if err != nil {
			t.Fatalf("FindPaths failed: %v", err)
		}
		if len(paths) != 2 {
			t.Fatalf("expected 2 paths, got %d", len(paths))
		}
		if !reflect.DeepEqual(paths[0].PersonIDs, []string{"me", "alice", "jane"}) {
			t.Fatalf("tie-break not deterministic, first path %v", paths[0].PersonIDs)
		}
	}
}

func TestFindPathsClampsSearchBounds(t *testing.T) {
	g := testClient(t)

	// Chain me -> n1 -> ... -> n9. n8 sits exactly at the hop ceiling,
	// n9 one edge beyond it.
	occurred := testNow.AddDate(0, 0, -5)
	events := []common.EvidenceEvent{
		interaction(1, 1, "me", "n1", common.EventEmailExchanged, occurred),
	}
	for i := 1; i < 9; i++ {
		events = append(events, interaction(int64(i+1), 1,
			fmt.Sprintf("n%d", i), fmt.Sprintf("n%d", i+1), common.EventEmailExchanged, occurred))
	}
	gr := buildTestGraph(t, g, events)

	paths, err := g.FindPaths(gr, "me", "n8", 1000, 1000)
	if err != nil {
		t.Fatalf("FindPaths failed: %v", err)
	}
	if len(paths) != 1 || len(paths[0].PersonIDs) != 9 {
		t.Fatalf("expected the single 8-hop path at the ceiling, got %v", paths)
	}

	paths, err = g.FindPaths(gr, "me", "n9", 1000, 1000)
	if err != nil {
		t.Fatalf("FindPaths failed: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected no paths past the hop ceiling, got %v", paths)
	}
}
