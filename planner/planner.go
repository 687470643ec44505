package planner

import (
	"fmt"

	"github.com/estateflow/orchestrator/types"
)

const (
	Version  = "planner-v2.0.0"
	Strategy = "deterministic-rule-based"
)

/**
 * Planner converts (request_id, intent, slots) into a task DAG with
 * fixed inclusion rules per intent. It is pure: no I/O, no randomness,
 * no failure path. Identical inputs always yield the identical graph,
 * down to task ids and prompts, which keeps structural planning
 * debuggable while the agent ecosystem is iterated on. A future
 * LLM-proposed planner can still use this one as the validation
 * backbone.
 */
type Planner struct {
	enableSummary bool
}

type Option func(*Planner)

// DisableSummary drops the sink summarization task from every plan.
func DisableSummary() Option {
	return func(p *Planner) {
		p.enableSummary = false
	}
}

func New(options ...Option) *Planner {
	p := &Planner{enableSummary: true}
	for _, opt := range options {
		opt(p)
	}
	return p
}

/**
 * stage inclusion sets. A stage shows up "chained" when search is also
 * included (it reads the search task's candidate ids via placeholder),
 * or "standalone" when included alone (it reads listing_ids straight
 * from the slots and has no dependencies).
 */
func includeSearch(intent string) bool {
	return intent == types.IntentFindListings ||
		intent == types.IntentLegalVerification ||
		intent == types.IntentCompareLocations
}

func includeLegal(intent string) bool {
	return intent == types.IntentFindListings ||
		intent == types.IntentLegalVerification
}

func includeValuation(intent string) bool {
	return intent == types.IntentFindListings ||
		intent == types.IntentPriceForecast ||
		intent == types.IntentCompareLocations
}

func includeVerification(intent string) bool {
	return intent == types.IntentFindListings ||
		intent == types.IntentLegalVerification ||
		intent == types.IntentCompareLocations
}

const (
	searchTaskID     = "t1_search"
	summaryTaskID    = "t_final_summary"
	candidateIDsRef  = "{{t1_search.candidates.ids}}"
	candidateListKey = "candidates"
)

func (p *Planner) BuildPlan(requestID, intent string, slots types.Data) *types.PlannerOutput {
	if slots == nil {
		slots = types.Data{}
	}
	tasks := make([]types.DAGTask, 0, 6)

	withSearch := includeSearch(intent)

	// chained task ids encode ordinal position among included tasks:
	// the first chained stage after search becomes t2_<stage> and so on.
	chainID := func(short string) string {
		return fmt.Sprintf("t%d_%s", len(tasks)+1, short)
	}

	if withSearch {
		tasks = append(tasks, types.DAGTask{
			TaskID:   searchTaskID,
			TaskType: types.TaskTypeSearchListings,
			PayloadTemplate: types.Data{
				"property_type": norm(slots, types.SlotPropertyType, ""),
				"max_price_inr": slots[types.SlotMaxPriceINR],
				"near":          norm(slots, types.SlotNear, norm(slots, types.SlotLocation, "")),
				"raw_slots":     slots.Clone(),
			},
			TimeoutMS:   7000,
			AgentPrompt: promptSearch(slots),
		})
	}

	if includeLegal(intent) {
		if withSearch {
			tasks = append(tasks, types.DAGTask{
				TaskID:          chainID("legal"),
				TaskType:        types.TaskTypeLegalCheck,
				PayloadTemplate: types.Data{"listing_ids": candidateIDsRef},
				DependsOn:       []string{searchTaskID},
				TimeoutMS:       8000,
				ParallelFor:     candidateListKey,
				AgentPrompt:     promptLegal(),
			})
		} else {
			tasks = append(tasks, types.DAGTask{
				TaskID:          "t1_legal",
				TaskType:        types.TaskTypeLegalCheck,
				PayloadTemplate: types.Data{"listing_ids": listingIDs(slots)},
				TimeoutMS:       6000,
				AgentPrompt:     promptLegal(),
			})
		}
	}

	if includeValuation(intent) {
		if withSearch {
			tasks = append(tasks, types.DAGTask{
				TaskID:   chainID("valuation"),
				TaskType: types.TaskTypeValuationAnalysis,
				PayloadTemplate: types.Data{
					"listing_ids":   candidateIDsRef,
					"property_type": norm(slots, types.SlotPropertyType, ""),
					"max_price_inr": slots[types.SlotMaxPriceINR],
				},
				DependsOn:   []string{searchTaskID},
				TimeoutMS:   7500,
				ParallelFor: candidateListKey,
				AgentPrompt: promptValuation(),
			})
		} else {
			tasks = append(tasks, types.DAGTask{
				TaskID:   "t1_valuation",
				TaskType: types.TaskTypeValuationAnalysis,
				PayloadTemplate: types.Data{
					"listing_ids":   listingIDs(slots),
					"property_type": norm(slots, types.SlotPropertyType, ""),
					"max_price_inr": slots[types.SlotMaxPriceINR],
				},
				TimeoutMS:   6500,
				AgentPrompt: promptValuation(),
			})
		}
	}

	if includeVerification(intent) {
		if withSearch {
			tasks = append(tasks, types.DAGTask{
				TaskID:          chainID("verification"),
				TaskType:        types.TaskTypeVerificationScan,
				PayloadTemplate: types.Data{"listing_ids": candidateIDsRef},
				DependsOn:       []string{searchTaskID},
				TimeoutMS:       6000,
				ParallelFor:     candidateListKey,
				AgentPrompt:     promptVerification(),
			})
		} else {
			tasks = append(tasks, types.DAGTask{
				TaskID:          "t1_verification",
				TaskType:        types.TaskTypeVerificationScan,
				PayloadTemplate: types.Data{"listing_ids": listingIDs(slots)},
				TimeoutMS:       5000,
				AgentPrompt:     promptVerification(),
			})
		}
	}

	// fallback for unrecognized intents: one generic task instead of an error
	if len(tasks) == 0 {
		tasks = append(tasks, types.DAGTask{
			TaskID:          "t1_generic",
			TaskType:        types.TaskTypeGenericHandler,
			PayloadTemplate: types.Data{"original_slots": slots.Clone()},
			TimeoutMS:       3000,
			AgentPrompt:     promptGeneric(),
		})
	}

	// the summarization task is the sink node: it depends on every
	// other task in the plan and hands their ids to the agent's own
	// aggregation logic.
	if p.enableSummary && len(tasks) > 0 {
		upstream := make([]string, 0, len(tasks))
		for _, t := range tasks {
			if t.TaskType != types.TaskTypeSummarization {
				upstream = append(upstream, t.TaskID)
			}
		}
		tasks = append(tasks, types.DAGTask{
			TaskID:   summaryTaskID,
			TaskType: types.TaskTypeSummarization,
			PayloadTemplate: types.Data{
				"upstream_tasks":  upstream,
				"original_intent": intent,
				"original_slots":  slots.Clone(),
			},
			DependsOn:   upstream,
			TimeoutMS:   4000,
			AgentPrompt: promptSummary(upstream),
		})
	}

	return &types.PlannerOutput{
		DAG: tasks,
		PlannerMeta: types.PlannerMeta{
			Version:   Version,
			Strategy:  Strategy,
			RequestID: requestID,
			Intent:    intent,
		},
	}
}

func norm(slots types.Data, key, def string) string {
	if v, exists := slots.Get(key); exists && v != nil {
		s, _ := slots.GetString(key)
		return s
	}
	return def
}

func listingIDs(slots types.Data) any {
	if v, exists := slots.Get(types.SlotListingIDs); exists && v != nil {
		return v
	}
	return []string{}
}
