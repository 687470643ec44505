package types

const (
	// ResultKeyError marks a stored task result as a failure record.
	ResultKeyError = "error"

	ReportCompleted = "completed"
)

/**
 * FailedResult builds the terminal record stored for a task whose
 * attempt did not produce a structured agent response. It is written
 * exactly once and never mutated afterward. A failed agent call keeps
 * its agent and endpoint in the record via InvocationError; every
 * other failure stores the bare {error, status: "failed"} shape.
 */
func FailedResult(err error) Data {
	if inv, ok := AsInvocation(err); ok {
		return Data{
			"status":       "error",
			"agent":        inv.Agent,
			"endpoint":     inv.Endpoint,
			ResultKeyError: inv.Error(),
		}
	}
	return Data{
		ResultKeyError: err.Error(),
		"status":       "failed",
	}
}

// IsFailure reports whether a stored task result is a failure record.
// Any result carrying an "error" key counts, including the normalized
// `{status: "error", agent, endpoint, error}` shape of a failed agent
// call.
func IsFailure(result Data) bool {
	_, exists := result.Get(ResultKeyError)
	return exists
}

type ExecutionSummary struct {
	TotalTasks      int `json:"total_tasks"`
	SuccessfulTasks int `json:"successful_tasks"`
	FailedTasks     int `json:"failed_tasks"`
}

/**
 * ExecutionReport aggregates one executor run. Status is "completed"
 * whenever the graph itself was satisfiable, even if individual tasks
 * failed; whether partial failure downgrades the surrounding job is
 * the caller's policy, not the executor's.
 */
type ExecutionReport struct {
	Status      string           `json:"status"`
	TaskResults map[string]Data  `json:"task_results"`
	Summary     ExecutionSummary `json:"execution_summary"`
}

func NewExecutionReport(results map[string]Data) *ExecutionReport {
	report := &ExecutionReport{
		Status:      ReportCompleted,
		TaskResults: results,
	}
	report.Summary.TotalTasks = len(results)
	for _, r := range results {
		if IsFailure(r) {
			report.Summary.FailedTasks++
		} else {
			report.Summary.SuccessfulTasks++
		}
	}
	return report
}
