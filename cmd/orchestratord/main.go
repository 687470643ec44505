package main

import (
	log "github.com/sirupsen/logrus"

	orchestrator "github.com/estateflow/orchestrator"
	"github.com/estateflow/orchestrator/classify"
	"github.com/estateflow/orchestrator/config"
	"github.com/estateflow/orchestrator/server"
	"github.com/estateflow/orchestrator/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	classifier, err := classify.NewOpenAIClassifier(classify.ClientConfig{
		APIKey: cfg.OpenAIKey,
		Model:  cfg.OpenAIModel,
	})
	if err != nil {
		log.Fatalf("failed to create intent classifier: %v", err)
	}

	opts := []types.Option{types.WithRoutes(cfg.Routes)}
	if cfg.Postgres != nil {
		opts = append(opts, types.WithPostgresConfig(cfg.Postgres))
	} else {
		opts = append(opts, types.EnableMemStore())
		log.Warn("POSTGRES_HOST not set, jobs are kept in memory only")
	}

	service, err := orchestrator.New(classifier, opts...)
	if err != nil {
		log.Fatalf("failed to build orchestrator: %v", err)
	}

	router := server.NewRouter(service)
	log.Infof("listening on %s", cfg.ListenAddr)
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
