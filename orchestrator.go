package orchestrator

import (
	"github.com/juju/errors"

	"github.com/estateflow/orchestrator/classify"
	"github.com/estateflow/orchestrator/runtime"
	"github.com/estateflow/orchestrator/service"
	"github.com/estateflow/orchestrator/store"
	"github.com/estateflow/orchestrator/store/mem"
	"github.com/estateflow/orchestrator/store/postgres"
	"github.com/estateflow/orchestrator/types"
)

// New builds an orchestration service with the given options, wiring
// the HTTP agent invoker and the configured job store
func New(classifier classify.Classifier, opts ...types.Option) (*service.Orchestrator, error) {
	options := types.NewOptions()
	for _, opt := range opts {
		opt(options)
	}

	var s store.Store
	var err error

	// PostgresConfig takes precedence over MemStore
	if options.PostgresConfig != nil {
		s, err = postgres.NewPostgresStore(postgres.FromTypesConfig(options.PostgresConfig))
		if err != nil {
			return nil, errors.Annotatef(err, "failed to create PostgreSQL job store")
		}
	} else if options.MemStore {
		s = mem.NewMemStore()
	} else {
		// Default to mem store if not specified
		s = mem.NewMemStore()
	}

	return service.New(classifier, runtime.NewHTTPInvoker(), s, options), nil
}
