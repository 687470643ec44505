package types

import "time"

/**
 * Job is the persistent lifecycle record the orchestration layer
 * writes around one request: pending on create, in_progress before
 * planning, then completed with the execution report or failed with
 * the fatal error message. One job_id maps to at most one current
 * status; the core owns no other invariant about concurrent access.
 */
type Job struct {
	JobID           string     `json:"job_id"`
	Type            JobType    `json:"type"`
	Status          JobStatus  `json:"status"`
	RequestPayload  Data       `json:"request_payload"`
	ResponsePayload Data       `json:"response_payload,omitempty"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	RetryCount      int        `json:"retry_count"`
	ParentJobID     string     `json:"parent_job_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}
