package types

import (
	"context"

	"github.com/mcuadros/go-defaults"
)

func NewOptions() *Options {
	opts := &Options{Ctx: context.Background()}
	defaults.SetDefaults(opts)
	return opts
}

type Options struct {
	Ctx context.Context
	/**
	 * default: 8
	 * upper bound on agent calls dispatched concurrently within one
	 * scheduling round. Ready tasks in the same round are mutually
	 * independent by construction, so any bound is safe.
	 */
	MaxTaskConcurrency int `default:"8"`
	/**
	 * default: false, set it to true to run each round's ready tasks
	 * one by one in discovery order. Mostly useful for debugging and
	 * deterministic tests.
	 */
	SequentialExecution bool `default:"false"`
	/**
	 * default: true, appends the sink summarization task whenever the
	 * plan produced at least one other task.
	 */
	EnableSummary bool `default:"true"`
	/**
	 * default: false, only set it to true when doing testing or developing.
	 */
	MemStore bool `default:"false"`

	// PostgreSQL job store configuration.
	// If both MemStore and PostgresConfig are set, PostgresConfig takes precedence.
	PostgresConfig *PostgresConfig

	// Routes maps task_type to the downstream agent endpoint. Task
	// types without an entry fail with "no endpoint configured"; that
	// fails the task, never the run.
	Routes map[string]string
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string // disable, require, verify-ca, verify-full
}

type Option func(*Options)

func WithContext(ctx context.Context) Option {
	return func(opts *Options) {
		opts.Ctx = ctx
	}
}

func SetMaxTaskConcurrency(concurrency int) Option {
	return func(opts *Options) {
		opts.MaxTaskConcurrency = concurrency
	}
}

func EnableSequentialExecution() Option {
	return func(opts *Options) {
		opts.SequentialExecution = true
	}
}

func DisableSummary() Option {
	return func(opts *Options) {
		opts.EnableSummary = false
	}
}

func EnableMemStore() Option {
	return func(opts *Options) {
		opts.MemStore = true
	}
}

// WithPostgresConfig configures the orchestrator to persist jobs in PostgreSQL
func WithPostgresConfig(config *PostgresConfig) Option {
	return func(opts *Options) {
		opts.PostgresConfig = config
	}
}

func WithRoutes(routes map[string]string) Option {
	return func(opts *Options) {
		opts.Routes = routes
	}
}

func WithRoute(taskType, endpoint string) Option {
	return func(opts *Options) {
		if opts.Routes == nil {
			opts.Routes = make(map[string]string)
		}
		opts.Routes[taskType] = endpoint
	}
}
