// Package engine wires the scoring and path-discovery client to the
// process environment.
package engine

import (
	"github.com/netweave/intrograph/backend/internal/util"
	"github.com/netweave/intrograph/backend/pkg/graph"
)

// NewClientFromEnv builds a GraphClient from the process environment,
// falling back to the engine defaults for anything unset.
func NewClientFromEnv() (*graph.GraphClient, error) {
	return graph.NewGraphClient(graph.NewGraphClientParams{
		HalfLifeDays:  util.GetEnvFloat("STRENGTH_HALF_LIFE_DAYS", 0),
		HopPenalty:    util.GetEnvFloat("PATH_HOP_PENALTY", 0),
		MaxHops:       util.GetEnvInt("PATH_MAX_HOPS", 0),
		MaxPaths:      util.GetEnvInt("PATH_MAX_RESULTS", 0),
		ParallelPairs: util.GetEnvInt("GRAPH_PARALLEL_PAIRS", 0),
	})
}
