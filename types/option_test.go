package types

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOptionsDefaults(t *testing.T) {
	opts := NewOptions()

	assert.Equal(t, context.Background(), opts.Ctx)
	assert.Equal(t, 8, opts.MaxTaskConcurrency)
	assert.False(t, opts.SequentialExecution)
	assert.True(t, opts.EnableSummary)
	assert.False(t, opts.MemStore)
	assert.Nil(t, opts.PostgresConfig)
	assert.Nil(t, opts.Routes)
}

func TestWithPostgresConfig(t *testing.T) {
	config := &PostgresConfig{
		Host:     "dbhost",
		Port:     5433,
		User:     "user",
		Password: "pass",
		Database: "db",
		SSLMode:  "require",
	}

	opts := NewOptions()
	opt := WithPostgresConfig(config)
	opt(opts)

	assert.NotNil(t, opts.PostgresConfig)
	assert.Equal(t, "dbhost", opts.PostgresConfig.Host)
	assert.Equal(t, 5433, opts.PostgresConfig.Port)
	assert.Equal(t, "user", opts.PostgresConfig.User)
	assert.Equal(t, "pass", opts.PostgresConfig.Password)
	assert.Equal(t, "db", opts.PostgresConfig.Database)
	assert.Equal(t, "require", opts.PostgresConfig.SSLMode)
}

func TestOptions_PostgresConfigPrecedence(t *testing.T) {
	opts := NewOptions()

	EnableMemStore()(opts)
	WithPostgresConfig(&PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "user",
		Password: "pass",
		Database: "db",
		SSLMode:  "disable",
	})(opts)

	assert.True(t, opts.MemStore)
	assert.NotNil(t, opts.PostgresConfig)

	// The actual precedence is handled in orchestrator.New.
	// Here we just verify both can be set.
}

func TestMultipleOptions(t *testing.T) {
	opts := NewOptions()

	SetMaxTaskConcurrency(50)(opts)
	EnableSequentialExecution()(opts)
	DisableSummary()(opts)
	WithRoute("search_listings", "http://localhost:9001/invoke")(opts)
	WithRoute("legal_check", "http://localhost:9002/invoke")(opts)

	assert.Equal(t, 50, opts.MaxTaskConcurrency)
	assert.True(t, opts.SequentialExecution)
	assert.False(t, opts.EnableSummary)
	assert.Equal(t, "http://localhost:9001/invoke", opts.Routes["search_listings"])
	assert.Equal(t, "http://localhost:9002/invoke", opts.Routes["legal_check"])
}

func TestWithRoutesReplacesTable(t *testing.T) {
	opts := NewOptions()

	WithRoute("search_listings", "http://old:9001/invoke")(opts)
	WithRoutes(map[string]string{"legal_check": "http://new:9002/invoke"})(opts)

	_, kept := opts.Routes["search_listings"]
	assert.False(t, kept)
	assert.Equal(t, "http://new:9002/invoke", opts.Routes["legal_check"])
}
