package store

import (
	"context"

	"github.com/estateflow/orchestrator/types"
)

/**
 * Update carries the mutable slice of a job record. Nil fields are
 * left untouched, so callers can flip the status without clobbering a
 * previously written payload.
 */
type Update struct {
	Status          *types.JobStatus
	ResponsePayload types.Data
	ErrorMessage    *string
}

func StatusUpdate(status types.JobStatus) Update {
	return Update{Status: &status}
}

func CompletedUpdate(response types.Data) Update {
	status := types.JobCompleted
	return Update{Status: &status, ResponsePayload: response}
}

func FailedUpdate(errMessage string) Update {
	status := types.JobFailed
	return Update{Status: &status, ErrorMessage: &errMessage}
}

/**
 * Store is the job sink the orchestration layer records lifecycle
 * transitions into. Implementations stamp UpdatedAt on every write and
 * CompletedAt when the status turns terminal.
 */
type Store interface {
	Create(ctx context.Context, job *types.Job) error
	Update(ctx context.Context, jobID string, upd Update) error
	Get(ctx context.Context, jobID string) (*types.Job, error)
	GetChildren(ctx context.Context, parentJobID string) ([]*types.Job, error)
}
