package simgo

import (
	"log/slog"

	"github.com/hupe1980/simgo/kb"
	"github.com/hupe1980/simgo/matcher"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	workers          int
	gridAggregator   matcher.Aggregator
	epsilon          float64
	maxParents       int
	strategies       []matcher.Strategy
	kbOptions        []kb.Option
}

// Option configures the Engine.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &simgo.BasicMetricsCollector{}
//	e, _ := simgo.New(k, simgo.WithMetricsCollector(metrics))
//	// ... use e ...
//	stats := metrics.GetStats()
//	fmt.Printf("Matches: %d, Avg latency: %dns\n", stats.MatchCount, stats.MatchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
//	logger := simgo.NewJSONLogger(slog.LevelInfo)
//	e, _ := simgo.New(k, simgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithWorkers bounds the goroutines scoring candidates per match.
// Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithGridAggregator selects how the grid matcher reduces its score
// matrix. Defaults to matcher.BestMatchAverage.
func WithGridAggregator(agg matcher.Aggregator) Option {
	return func(o *options) {
		o.gridAggregator = agg
	}
}

// WithGraphicalModel configures the gm matcher: epsilon is the probability
// floor and maxParents the largest parent count for which a conditional
// table is built. Zero keeps a default.
func WithGraphicalModel(epsilon float64, maxParents int) Option {
	return func(o *options) {
		o.epsilon = epsilon
		o.maxParents = maxParents
	}
}

// WithStrategy registers an additional strategy under s.Name(), replacing a
// built-in one of the same name.
func WithStrategy(s matcher.Strategy) Option {
	return func(o *options) {
		o.strategies = append(o.strategies, s)
	}
}

// WithKnowledgeBaseOptions passes options to the knowledge base built by
// Load and LoadSnapshot.
func WithKnowledgeBaseOptions(optFns ...kb.Option) Option {
	return func(o *options) {
		o.kbOptions = append(o.kbOptions, optFns...)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		gridAggregator:   matcher.BestMatchAverage,
		epsilon:          matcher.DefaultEpsilon,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
