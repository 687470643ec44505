package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/juju/errors"
	_ "github.com/lib/pq"

	"github.com/estateflow/orchestrator/store"
	"github.com/estateflow/orchestrator/types"
	"github.com/estateflow/orchestrator/utils"
)

var (
	_ store.Store = &pgStore{}
)

// Config holds PostgreSQL connection configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string // disable, require, verify-ca, verify-full
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "orchestrator",
		SSLMode:  "disable",
	}
}

// pgStore implements the job store on PostgreSQL
type pgStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL job store with the given configuration
func NewPostgresStore(config *Config) (store.Store, error) {
	if config == nil {
		config = DefaultConfig()
	}

	db, err := sql.Open("postgres", config.DSN())
	if err != nil {
		return nil, errors.Annotatef(err, "failed to open postgres connection")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Annotatef(err, "failed to ping postgres")
	}

	s := &pgStore{db: db}
	if err := s.initTable(context.Background()); err != nil {
		db.Close()
		return nil, errors.Annotatef(err, "failed to initialize jobs table")
	}

	return s, nil
}

// NewPostgresStoreWithDB creates a new PostgreSQL job store with an existing database connection
func NewPostgresStoreWithDB(db *sql.DB) (store.Store, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	s := &pgStore{db: db}
	if err := s.initTable(context.Background()); err != nil {
		return nil, errors.Annotatef(err, "failed to initialize jobs table")
	}

	return s, nil
}

// initTable creates the jobs table if it doesn't exist
func (p *pgStore) initTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS jobs (
			job_id VARCHAR(255) PRIMARY KEY,
			type VARCHAR(64) NOT NULL,
			status VARCHAR(32) NOT NULL,
			request_payload JSONB NOT NULL,
			response_payload JSONB,
			error_message TEXT,
			retry_count INTEGER NOT NULL DEFAULT 0,
			parent_job_id VARCHAR(255),
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			completed_at TIMESTAMPTZ
		);

		CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
		CREATE INDEX IF NOT EXISTS idx_jobs_type ON jobs(type);
		CREATE INDEX IF NOT EXISTS idx_jobs_parent_job_id ON jobs(parent_job_id);
	`

	_, err := p.db.ExecContext(ctx, query)
	if err != nil {
		return errors.Annotatef(err, "failed to create jobs table")
	}

	return nil
}

func (p *pgStore) Create(ctx context.Context, job *types.Job) error {
	status := job.Status
	if status == "" {
		status = types.JobPending
	}

	requestPayload, err := utils.Serialize(job.RequestPayload)
	if err != nil {
		return errors.Annotatef(err, "failed to serialize request payload for job %s", job.JobID)
	}

	query := `
		INSERT INTO jobs (job_id, type, status, request_payload, retry_count, parent_job_id)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
	`

	if _, err := p.db.ExecContext(ctx, query,
		job.JobID, string(job.Type), string(status), requestPayload, job.RetryCount, job.ParentJobID); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.AlreadyExistsf("job id: %s", job.JobID)
		}
		return errors.Annotatef(err, "failed to create job %s", job.JobID)
	}

	return nil
}

func (p *pgStore) Update(ctx context.Context, jobID string, upd store.Update) error {
	setClauses := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{jobID}

	if upd.Status != nil {
		args = append(args, string(*upd.Status))
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", len(args)))
		if upd.Status.Terminal() {
			setClauses = append(setClauses, "completed_at = CURRENT_TIMESTAMP")
		}
	}
	if upd.ResponsePayload != nil {
		payload, err := utils.Serialize(upd.ResponsePayload)
		if err != nil {
			return errors.Annotatef(err, "failed to serialize response payload for job %s", jobID)
		}
		args = append(args, payload)
		setClauses = append(setClauses, fmt.Sprintf("response_payload = $%d", len(args)))
	}
	if upd.ErrorMessage != nil {
		args = append(args, *upd.ErrorMessage)
		setClauses = append(setClauses, fmt.Sprintf("error_message = $%d", len(args)))
	}

	query := fmt.Sprintf("UPDATE jobs SET %s WHERE job_id = $1", strings.Join(setClauses, ", "))

	result, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Annotatef(err, "failed to update job %s", jobID)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Trace(err)
	}
	if affected == 0 {
		return errors.NotFoundf("job id: %s", jobID)
	}

	return nil
}

const jobColumns = `job_id, type, status, request_payload, response_payload,
	error_message, retry_count, COALESCE(parent_job_id, ''), created_at, updated_at, completed_at`

func (p *pgStore) Get(ctx context.Context, jobID string) (*types.Job, error) {
	query := fmt.Sprintf("SELECT %s FROM jobs WHERE job_id = $1", jobColumns)

	job, err := scanJob(p.db.QueryRowContext(ctx, query, jobID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("job id: %s", jobID)
		}
		return nil, errors.Annotatef(err, "failed to get job %s", jobID)
	}

	return job, nil
}

func (p *pgStore) GetChildren(ctx context.Context, parentJobID string) ([]*types.Job, error) {
	query := fmt.Sprintf("SELECT %s FROM jobs WHERE parent_job_id = $1 ORDER BY created_at, job_id", jobColumns)

	rows, err := p.db.QueryContext(ctx, query, parentJobID)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to list children of job %s", parentJobID)
	}
	defer rows.Close()

	jobs := make([]*types.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, errors.Annotatef(err, "failed to scan job row")
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Annotatef(err, "error iterating rows")
	}

	return jobs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*types.Job, error) {
	var (
		job             types.Job
		jobType         string
		status          string
		requestPayload  []byte
		responsePayload []byte
		errorMessage    sql.NullString
		completedAt     sql.NullTime
	)

	if err := row.Scan(&job.JobID, &jobType, &status, &requestPayload, &responsePayload,
		&errorMessage, &job.RetryCount, &job.ParentJobID, &job.CreatedAt, &job.UpdatedAt, &completedAt); err != nil {
		return nil, err
	}

	job.Type = types.JobType(jobType)
	job.Status = types.JobStatus(status)
	job.ErrorMessage = errorMessage.String
	if completedAt.Valid {
		t := completedAt.Time
		job.CompletedAt = &t
	}

	if len(requestPayload) > 0 {
		if err := utils.Unserialize(requestPayload, &job.RequestPayload); err != nil {
			return nil, errors.Annotatef(err, "failed to decode request payload for job %s", job.JobID)
		}
	}
	if len(responsePayload) > 0 {
		if err := utils.Unserialize(responsePayload, &job.ResponsePayload); err != nil {
			return nil, errors.Annotatef(err, "failed to decode response payload for job %s", job.JobID)
		}
	}

	return &job, nil
}

// Close closes the database connection
func (p *pgStore) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// DSN builds a PostgreSQL connection string from Config
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	if c.User == "" {
		return errors.New("user cannot be empty")
	}
	if c.Database == "" {
		return errors.New("database cannot be empty")
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	validSSLModes := map[string]bool{
		"disable":     true,
		"require":     true,
		"verify-ca":   true,
		"verify-full": true,
	}
	if !validSSLModes[c.SSLMode] {
		return errors.Errorf("invalid sslmode: %s", c.SSLMode)
	}
	return nil
}

// FromTypesConfig converts the option-level config into this package's Config
func FromTypesConfig(c *types.PostgresConfig) *Config {
	return &Config{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Database: c.Database,
		SSLMode:  c.SSLMode,
	}
}
