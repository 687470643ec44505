package types

// Task types the executor can route. Each maps to a downstream agent.
const (
	TaskTypeSearchListings    = "search_listings"
	TaskTypeLegalCheck        = "legal_check"
	TaskTypeValuationAnalysis = "valuation_analysis"
	TaskTypeVerificationScan  = "verification_scan"
	TaskTypeSummarization     = "summarization"
	TaskTypeGenericHandler    = "generic_handler"
)

/**
 * DAGTask is a single unit of work addressed to a downstream agent.
 * TaskID doubles as the graph node key and as the namespace for
 * placeholder references ({{task_id.field.path}}) in later payload
 * templates. String values in PayloadTemplate holding a whole
 * placeholder are substituted at execution time; everything else
 * passes through untouched.
 */
type DAGTask struct {
	TaskID          string   `json:"task_id"`
	TaskType        string   `json:"task_type"`
	PayloadTemplate Data     `json:"payload_template"`
	DependsOn       []string `json:"depends_on,omitempty"`
	TimeoutMS       int      `json:"timeout_ms"`
	// ParallelFor names an upstream result list the agent may fan out
	// over. Informational: the executor does not expand it.
	ParallelFor string `json:"parallel_for,omitempty"`
	AgentPrompt string `json:"agent_prompt,omitempty"`
}

type PlannerMeta struct {
	Version   string `json:"version"`
	Strategy  string `json:"strategy"`
	RequestID string `json:"request_id"`
	Intent    string `json:"intent"`
}

// PlannerOutput is immutable once built; the executor only reads it.
type PlannerOutput struct {
	DAG         []DAGTask   `json:"dag"`
	PlannerMeta PlannerMeta `json:"planner_meta"`
}

func (p *PlannerOutput) TaskIDs() []string {
	ids := make([]string, 0, len(p.DAG))
	for _, t := range p.DAG {
		ids = append(ids, t.TaskID)
	}
	return ids
}
