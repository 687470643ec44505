package runtime

import (
	"context"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"

	"github.com/estateflow/orchestrator/types"
	"github.com/estateflow/orchestrator/utils"
)

/**
 * Executor drives a planned task graph to completion.
 *
 * Scheduling is readiness-based: every task keeps an unmet-dependency
 * counter, and a task becomes ready exactly when all its dependencies
 * have concluded. Concluded means attempted, not succeeded - a failed
 * ancestor unblocks its dependents, whose placeholder lookups against
 * the failure record then degrade to literal placeholder text.
 *
 * Ready tasks of one round are mutually independent by construction,
 * so they dispatch concurrently onto a worker pool (or one by one in
 * discovery order when SequentialExecution is set).
 */
type Executor struct {
	routes      map[string]string
	invoker     AgentInvoker
	concurrency int
	sequential  bool
}

func NewExecutor(invoker AgentInvoker, opts *types.Options) *Executor {
	if opts == nil {
		opts = types.NewOptions()
	}
	concurrency := opts.MaxTaskConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Executor{
		routes:      opts.Routes,
		invoker:     invoker,
		concurrency: concurrency,
		sequential:  opts.SequentialExecution,
	}
}

/**
 * Execute runs every task of the plan and aggregates their results.
 * Individual task failures are recorded and counted, never raised; the
 * only error this returns is the run-level FatalError for an
 * unsatisfiable dependency set (cycle or edge to a missing task_id),
 * which indicates a planner bug rather than a downstream outage.
 */
func (e *Executor) Execute(ctx context.Context, plan *types.PlannerOutput) (*types.ExecutionReport, error) {
	requestID := plan.PlannerMeta.RequestID
	log.Infof("%s starting DAG execution with %d tasks", requestID, len(plan.DAG))

	tasksByID := make(map[string]*types.DAGTask, len(plan.DAG))
	for i := range plan.DAG {
		task := &plan.DAG[i]
		if _, exists := tasksByID[task.TaskID]; exists {
			return nil, types.NewFatalErrorf("duplicate task id in plan: %s", task.TaskID)
		}
		tasksByID[task.TaskID] = task
	}

	// readiness index: unmet-dependency counters plus the reverse
	// dependency lists used to decrement them. Edges to unknown task
	// ids never decrement, which funnels into the fatal abort below.
	unmet := make(map[string]int, len(plan.DAG))
	dependents := make(map[string][]string, len(plan.DAG))
	states := make(map[string]types.TaskState, len(plan.DAG))
	ready := make([]*types.DAGTask, 0, len(plan.DAG))

	for i := range plan.DAG {
		task := &plan.DAG[i]
		deps := utils.UniqueSlice(append([]string{}, task.DependsOn...))
		unmet[task.TaskID] = len(deps)
		states[task.TaskID] = types.TaskPending
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], task.TaskID)
		}
		if len(deps) == 0 {
			states[task.TaskID] = types.TaskReady
			ready = append(ready, task)
		}
	}

	results := make(map[string]types.Data, len(plan.DAG))
	wp := workerpool.New(e.concurrency)
	defer wp.Stop()

	concluded := 0
	for concluded < len(plan.DAG) {
		if len(ready) == 0 {
			stuck := make([]string, 0, len(plan.DAG)-concluded)
			for _, task := range plan.DAG {
				if !states[task.TaskID].Concluded() {
					stuck = append(stuck, task.TaskID)
				}
			}
			return nil, types.NewFatalErrorf(
				"unsatisfiable dependency set: tasks %v form a cycle or reference missing task ids", stuck)
		}

		round := ready
		ready = nil
		log.Debugf("%s dispatching round of %d ready tasks", requestID, len(round))

		for _, task := range round {
			states[task.TaskID] = types.TaskRunning
		}
		outputs := e.runRound(ctx, wp, requestID, round, results)

		// conclude the round: results become visible to later rounds
		// here, exactly once per task id.
		for i, task := range round {
			result := outputs[i]
			results[task.TaskID] = result
			concluded++
			if types.IsFailure(result) {
				states[task.TaskID] = types.TaskFailed
				msg, _ := result.GetString(types.ResultKeyError)
				log.Errorf("%s task %s failed: %s", requestID, task.TaskID, msg)
			} else {
				states[task.TaskID] = types.TaskSucceeded
				log.Infof("%s task %s completed successfully", requestID, task.TaskID)
			}

			for _, depID := range dependents[task.TaskID] {
				if unmet[depID]--; unmet[depID] == 0 {
					states[depID] = types.TaskReady
					ready = append(ready, tasksByID[depID])
				}
			}
		}
	}

	return types.NewExecutionReport(results), nil
}

// runRound executes one round's tasks. No two tasks of a round can
// depend on each other, and the results table is read-only until the
// round concludes, so concurrent dispatch is race-free.
func (e *Executor) runRound(ctx context.Context, wp *workerpool.WorkerPool, requestID string,
	round []*types.DAGTask, results map[string]types.Data) []types.Data {
	resolver := NewResolver(requestID, results)
	outputs := make([]types.Data, len(round))

	if e.sequential || len(round) == 1 {
		for i, task := range round {
			outputs[i] = e.runTask(ctx, requestID, task, resolver)
		}
		return outputs
	}

	var wg sync.WaitGroup
	for i, task := range round {
		i, task := i, task
		wg.Add(1)
		wp.Submit(func() {
			defer wg.Done()
			outputs[i] = e.runTask(ctx, requestID, task, resolver)
		})
	}
	wg.Wait()
	return outputs
}

func (e *Executor) runTask(ctx context.Context, requestID string, task *types.DAGTask, resolver *Resolver) types.Data {
	log.Infof("%s executing task: %s (%s)", requestID, task.TaskID, task.TaskType)

	endpoint, exists := e.routes[task.TaskType]
	if !exists {
		return types.FailedResult(errors.NotFoundf("no endpoint configured for task type: %s", task.TaskType))
	}

	payload := resolver.ResolvePayload(task.PayloadTemplate)

	result, err := e.invoker.Invoke(ctx, task, endpoint, payload)
	if err != nil {
		return types.FailedResult(err)
	}
	return result
}
