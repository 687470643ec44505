package types

// TaskState tracks a single DAG task through one executor run.
type TaskState int32

const (
	TaskNone      TaskState = 0
	TaskPending   TaskState = 1
	TaskReady     TaskState = 2
	TaskRunning   TaskState = 3
	TaskFailed    TaskState = 5
	TaskSucceeded TaskState = 10
)

/**
 * Concluded reports whether the task reached a terminal state.
 * Both success and failure count: a failed dependency unblocks its
 * dependents, it does not cancel them.
 */
func (s TaskState) Concluded() bool {
	return s == TaskSucceeded || s == TaskFailed
}

type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
	JobCancelled  JobStatus = "cancelled"
)

func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

type JobType string

const (
	JobIntentClassification JobType = "intent_classification"
	JobPlanning             JobType = "planning"
	JobSearch               JobType = "search"
	JobValuation            JobType = "valuation"
	JobLegalCheck           JobType = "legal_check"
	JobVerification         JobType = "verification"
	JobSummarization        JobType = "summarization"
)
