package bonsai

import "go.uber.org/zap"

// Unbounded is the MaxDepth of a GrowthStrategy that lets trees grow
// until their leaves are pure or cannot be split.
const Unbounded = -1

// GrowthStrategy holds the configuration
// for when a node must not be split further.
type GrowthStrategy struct {
	// MaxDepth is the depth at which nodes
	// become leaves regardless of their
	// dataset. The root has depth 0, so
	// a MaxDepth of 0 grows a single leaf.
	// Negative values mean no limit.
	MaxDepth int
}

// DefaultGrowthStrategy returns the strategy used when growing
// trees without options: unbounded depth.
func DefaultGrowthStrategy() GrowthStrategy {
	return GrowthStrategy{MaxDepth: Unbounded}
}

/*
Exhausted takes the depth of a node and returns whether the strategy
forbids splitting it.
*/
func (gs GrowthStrategy) Exhausted(depth int) bool {
	return gs.MaxDepth >= 0 && depth >= gs.MaxDepth
}

type grower struct {
	strategy GrowthStrategy
	logger   *zap.Logger
}

// Option configures how Fit and Grow build trees.
type Option func(*grower)

/*
MaxDepth returns an Option limiting the depth of grown trees to n
decision levels. A negative n removes the limit.
*/
func MaxDepth(n int) Option {
	return func(g *grower) {
		if n < 0 {
			n = Unbounded
		}
		g.strategy.MaxDepth = n
	}
}

// Strategy returns an Option replacing the whole growth strategy.
func Strategy(gs GrowthStrategy) Option {
	return func(g *grower) { g.strategy = gs }
}

// Logger returns an Option to log the growth of trees with the given
// logger. A nil logger disables logging.
func Logger(l *zap.Logger) Option {
	return func(g *grower) {
		if l == nil {
			l = zap.NewNop()
		}
		g.logger = l
	}
}

func newGrower(opts ...Option) *grower {
	g := &grower{
		strategy: DefaultGrowthStrategy(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}
