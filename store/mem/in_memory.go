package mem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/juju/errors"

	"github.com/estateflow/orchestrator/store"
	"github.com/estateflow/orchestrator/types"
)

var (
	_ store.Store = &memStore{}
)

func NewMemStore() store.Store {
	return &memStore{
		jobs: make(map[string]*types.Job),
		// setup no error as default
		mockErrHandler: defaultNoErr,
	}
}

// NewMemStoreWithErrHandler injects store failures for fault testing.
func NewMemStoreWithErrHandler(errHandler func() error) store.Store {
	return &memStore{
		jobs:           make(map[string]*types.Job),
		mockErrHandler: errHandler,
	}
}

func defaultNoErr() error {
	return nil
}

/**
 * memStore is a job store held in pure memory, it aims to provide a
 * method for debug & testing. NEVER use it in the Production!
 */
type memStore struct {
	mu sync.Mutex

	mockErrHandler func() error

	jobs map[string]*types.Job
}

func (m *memStore) Create(ctx context.Context, job *types.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.jobs[job.JobID]; exists {
		return errors.AlreadyExistsf("job id: %s", job.JobID)
	}

	stored := *job
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.Status == "" {
		stored.Status = types.JobPending
	}
	m.jobs[job.JobID] = &stored
	return m.mockErrHandler()
}

func (m *memStore) Update(ctx context.Context, jobID string, upd store.Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return errors.NotFoundf("job id: %s", jobID)
	}

	now := time.Now().UTC()
	if upd.Status != nil {
		job.Status = *upd.Status
		if job.Status.Terminal() {
			job.CompletedAt = &now
		}
	}
	if upd.ResponsePayload != nil {
		job.ResponsePayload = upd.ResponsePayload
	}
	if upd.ErrorMessage != nil {
		job.ErrorMessage = *upd.ErrorMessage
	}
	job.UpdatedAt = now
	return m.mockErrHandler()
}

func (m *memStore) Get(ctx context.Context, jobID string) (*types.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, errors.NotFoundf("job id: %s", jobID)
	}
	copied := *job
	return &copied, m.mockErrHandler()
}

func (m *memStore) GetChildren(ctx context.Context, parentJobID string) ([]*types.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	children := make([]*types.Job, 0)
	for _, job := range m.jobs {
		if job.ParentJobID != parentJobID {
			continue
		}
		copied := *job
		children = append(children, &copied)
	}
	sort.Slice(children, func(i, j int) bool {
		if children[i].CreatedAt.Equal(children[j].CreatedAt) {
			return children[i].JobID < children[j].JobID
		}
		return children[i].CreatedAt.Before(children[j].CreatedAt)
	})
	return children, m.mockErrHandler()
}
