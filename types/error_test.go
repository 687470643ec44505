package types_test

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estateflow/orchestrator/types"
)

func TestIsFatal(t *testing.T) {
	fatal := types.NewFatalErrorf("unsatisfiable dependency set: tasks [c d]")
	assert.True(t, types.IsFatal(fatal))
	assert.True(t, types.IsFatal(errors.Trace(fatal)))

	assert.False(t, types.IsFatal(nil))
	assert.False(t, types.IsFatal(errors.New("agent returned status 502")))
	assert.False(t, types.IsFatal(types.NewInvocationErrorf("legal_check", "http://localhost:9002", "timeout")))
}

func TestAsInvocation(t *testing.T) {
	inv := types.NewInvocationError("search_listings", "http://localhost:9001", errors.New("connection refused"))

	got, ok := types.AsInvocation(inv)
	require.True(t, ok)
	assert.Equal(t, "search_listings", got.Agent)
	assert.Equal(t, "http://localhost:9001", got.Endpoint)
	assert.Equal(t, "connection refused", got.Error())

	got, ok = types.AsInvocation(errors.Trace(inv))
	require.True(t, ok)
	assert.Equal(t, "search_listings", got.Agent)

	_, ok = types.AsInvocation(nil)
	assert.False(t, ok)
	_, ok = types.AsInvocation(errors.New("plain"))
	assert.False(t, ok)
}

func TestFailedResultShapes(t *testing.T) {
	// agent-call failures keep agent and endpoint in the record
	inv := types.NewInvocationError("legal_check", "http://localhost:9002", errors.New("agent returned status 502"))
	record := types.FailedResult(inv)
	assert.True(t, types.IsFailure(record))

	status, _ := record.GetString("status")
	assert.Equal(t, "error", status)
	agent, _ := record.GetString("agent")
	assert.Equal(t, "legal_check", agent)
	endpoint, _ := record.GetString("endpoint")
	assert.Equal(t, "http://localhost:9002", endpoint)
	msg, _ := record.GetString(types.ResultKeyError)
	assert.Equal(t, "agent returned status 502", msg)

	// every other failure stores the bare shape
	record = types.FailedResult(errors.NotFoundf("no endpoint configured for task type: legal_check"))
	assert.True(t, types.IsFailure(record))
	status, _ = record.GetString("status")
	assert.Equal(t, "failed", status)
	_, exists := record.Get("agent")
	assert.False(t, exists)
	_, exists = record.Get("endpoint")
	assert.False(t, exists)
}
