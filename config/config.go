package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"github.com/estateflow/orchestrator/types"
)

/**
 * Config is the environment-driven configuration of the orchestrator
 * service. Load reads a .env file when present (development), then the
 * process environment on top of it.
 *
 * Recognized variables:
 *   OPENAI_API_KEY, OPENAI_MODEL
 *   AGENT_SEARCH_URL, AGENT_LEGAL_URL, AGENT_VALUATION_URL,
 *   AGENT_VERIFICATION_URL, AGENT_SUMMARY_URL, AGENT_GENERIC_URL
 *   POSTGRES_HOST, POSTGRES_PORT, POSTGRES_USER, POSTGRES_PASSWORD,
 *   POSTGRES_DB, POSTGRES_SSLMODE
 *   HTTP_LISTEN_ADDR
 */
type Config struct {
	OpenAIKey   string
	OpenAIModel string

	Routes map[string]string

	Postgres *types.PostgresConfig

	ListenAddr string
}

var defaultRoutes = map[string]struct {
	envVar   string
	endpoint string
}{
	types.TaskTypeSearchListings:    {"AGENT_SEARCH_URL", "http://localhost:9001"},
	types.TaskTypeLegalCheck:        {"AGENT_LEGAL_URL", "http://localhost:9002"},
	types.TaskTypeValuationAnalysis: {"AGENT_VALUATION_URL", "http://localhost:9003"},
	types.TaskTypeVerificationScan:  {"AGENT_VERIFICATION_URL", "http://localhost:9004"},
	types.TaskTypeSummarization:     {"AGENT_SUMMARY_URL", "http://localhost:9005"},
	types.TaskTypeGenericHandler:    {"AGENT_GENERIC_URL", "http://localhost:9006"},
}

func Load() (*Config, error) {
	// best effort: absence of a .env file is not an error
	_ = godotenv.Load()

	cfg := &Config{
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel: os.Getenv("OPENAI_MODEL"),
		ListenAddr:  getEnv("HTTP_LISTEN_ADDR", ":8080"),
		Routes:      make(map[string]string, len(defaultRoutes)),
	}

	for taskType, route := range defaultRoutes {
		cfg.Routes[taskType] = getEnv(route.envVar, route.endpoint)
	}

	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		cfg.Postgres = &types.PostgresConfig{
			Host:     host,
			Port:     cast.ToInt(getEnv("POSTGRES_PORT", "5432")),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Database: getEnv("POSTGRES_DB", "orchestrator"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		}
	}

	return cfg, nil
}

// Validate checks the required variables and logs their status with
// secrets masked down to the first and last three characters.
func (c *Config) Validate() error {
	if c.OpenAIKey == "" {
		return errors.NotValidf("OPENAI_API_KEY is not set")
	}
	log.Infof("OPENAI_API_KEY is set (%s)", mask(c.OpenAIKey))

	for taskType, endpoint := range c.Routes {
		if endpoint == "" {
			return errors.NotValidf("empty endpoint for task type %s", taskType)
		}
	}
	return nil
}

func mask(value string) string {
	if len(value) <= 6 {
		return "***"
	}
	return fmt.Sprintf("%s...%s", value[:3], value[len(value)-3:])
}

func getEnv(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
