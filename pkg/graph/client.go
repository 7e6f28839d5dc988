package graph

import (
	"github.com/netweave/intrograph/backend/pkg/common"
)

// Default tuning for the scoring and search engine. HalfLifeDays is the
// e-fold period of the recency decay: a signal loses ~63% of its weight
// over 180 days.
const (
	DefaultHalfLifeDays = 180.0
	DefaultHopPenalty   = 0.85
	DefaultMaxHops      = 4
	DefaultMaxPaths     = 5
)

// Hard ceilings on caller-supplied search bounds. Deeper searches blow up
// the best-first frontier on dense graphs without producing paths anyone
// would ask an intro through.
const (
	MaxHopsLimit  = 8
	MaxPathsLimit = 50
)

// GraphClient is the entry point for the relationship-strength scoring and
// path-discovery engine. It holds the decay and search tuning shared by
// strength computation, graph building and path finding. A GraphClient is
// immutable after construction and safe for concurrent use; every
// invocation operates on its own evidence snapshot.
//
// A GraphClient should be created using NewGraphClient.
type GraphClient struct {
	halfLifeDays  float64
	hopPenalty    float64
	maxHops       int
	maxPaths      int
	parallelPairs int
	typeWeights   map[common.EventType]float64
}

// NewGraphClientParams defines the configuration parameters for creating
// a new GraphClient. Zero values fall back to the package defaults.
//
// HalfLifeDays controls how fast evidence ages out of the strength score.
// HopPenalty discounts each additional hop in a path score.
// MaxHops bounds the path search depth, MaxPaths the result count.
// ParallelPairs controls how many edge strengths are computed concurrently
// during a graph rebuild.
type NewGraphClientParams struct {
	HalfLifeDays  float64
	HopPenalty    float64
	MaxHops       int
	MaxPaths      int
	ParallelPairs int
	TypeWeights   map[common.EventType]float64
}

// NewGraphClient creates and returns a new GraphClient configured with
// the provided parameters.
func NewGraphClient(params NewGraphClientParams) (*GraphClient, error) {
	g := &GraphClient{
		halfLifeDays:  params.HalfLifeDays,
		hopPenalty:    params.HopPenalty,
		maxHops:       params.MaxHops,
		maxPaths:      params.MaxPaths,
		parallelPairs: params.ParallelPairs,
		typeWeights:   params.TypeWeights,
	}
	if g.halfLifeDays <= 0 {
		g.halfLifeDays = DefaultHalfLifeDays
	}
	if g.hopPenalty <= 0 || g.hopPenalty > 1 {
		g.hopPenalty = DefaultHopPenalty
	}
	if g.maxHops <= 0 {
		g.maxHops = DefaultMaxHops
	}
	if g.maxPaths <= 0 {
		g.maxPaths = DefaultMaxPaths
	}
	if g.parallelPairs <= 0 {
		g.parallelPairs = 4
	}
	if g.typeWeights == nil {
		g.typeWeights = defaultTypeWeights
	}

	return g, nil
}
