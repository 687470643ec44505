package service

import (
	"context"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"

	"github.com/estateflow/orchestrator/classify"
	"github.com/estateflow/orchestrator/planner"
	"github.com/estateflow/orchestrator/runtime"
	"github.com/estateflow/orchestrator/store"
	"github.com/estateflow/orchestrator/types"
)

/**
 * Orchestrator is the thin layer around the planning/execution core:
 * classify the query, build the deterministic plan, drive the DAG, and
 * record the job lifecycle around it. Partial task failures still
 * complete the job with the report as payload; only a run-level fatal
 * error (unsatisfiable graph) or a collaborator outage fails the job.
 */
type Orchestrator struct {
	classifier classify.Classifier
	planner    *planner.Planner
	executor   *runtime.Executor
	jobs       store.Store
}

func New(classifier classify.Classifier, invoker runtime.AgentInvoker, jobs store.Store, opts *types.Options) *Orchestrator {
	if opts == nil {
		opts = types.NewOptions()
	}
	plannerOpts := make([]planner.Option, 0, 1)
	if !opts.EnableSummary {
		plannerOpts = append(plannerOpts, planner.DisableSummary())
	}
	return &Orchestrator{
		classifier: classifier,
		planner:    planner.New(plannerOpts...),
		executor:   runtime.NewExecutor(invoker, opts),
		jobs:       jobs,
	}
}

// Planner exposes the deterministic planner, mostly for plan preview
// endpoints and tests.
func (o *Orchestrator) Planner() *planner.Planner {
	return o.planner
}

func (o *Orchestrator) Jobs() store.Store {
	return o.jobs
}

/**
 * HandleQuery runs the whole pipeline for one raw user query. The
 * returned report is also persisted as the job's response payload.
 */
func (o *Orchestrator) HandleQuery(ctx context.Context, requestID, query string) (*types.ExecutionReport, error) {
	if err := o.jobs.Create(ctx, &types.Job{
		JobID:          requestID,
		Type:           types.JobPlanning,
		RequestPayload: types.Data{"query": query},
	}); err != nil {
		return nil, errors.Trace(err)
	}
	if err := o.jobs.Update(ctx, requestID, store.StatusUpdate(types.JobInProgress)); err != nil {
		return nil, errors.Trace(err)
	}

	classification, err := o.classifier.Classify(ctx, query)
	if err != nil {
		return nil, o.failJob(ctx, requestID, errors.Annotatef(err, "classification failed"))
	}
	log.Infof("%s classified as intent=%s confidence=%.2f", requestID, classification.Intent, classification.Confidence)

	return o.runPlan(ctx, requestID, classification.Intent, classification.Slots)
}

/**
 * RunIntent skips classification and plans/executes a pre-classified
 * intent. It creates and concludes its own job record, like
 * HandleQuery does.
 */
func (o *Orchestrator) RunIntent(ctx context.Context, requestID, intent string, slots types.Data) (*types.ExecutionReport, error) {
	if err := o.jobs.Create(ctx, &types.Job{
		JobID:          requestID,
		Type:           types.JobPlanning,
		RequestPayload: types.Data{"intent": intent, "slots": slots},
	}); err != nil {
		return nil, errors.Trace(err)
	}
	if err := o.jobs.Update(ctx, requestID, store.StatusUpdate(types.JobInProgress)); err != nil {
		return nil, errors.Trace(err)
	}

	return o.runPlan(ctx, requestID, intent, slots)
}

func (o *Orchestrator) runPlan(ctx context.Context, requestID, intent string, slots types.Data) (*types.ExecutionReport, error) {
	plan := o.planner.BuildPlan(requestID, intent, slots)
	log.Infof("%s planned %d tasks (planner %s)", requestID, len(plan.DAG), plan.PlannerMeta.Version)

	report, err := o.executor.Execute(ctx, plan)
	if err != nil {
		// run-level abort: distinct from per-task failures, which are
		// inside the report and leave the job completed.
		return nil, o.failJob(ctx, requestID, err)
	}

	payload, err := types.DataFrom(report)
	if err != nil {
		return nil, o.failJob(ctx, requestID, err)
	}
	if err := o.jobs.Update(ctx, requestID, store.CompletedUpdate(payload)); err != nil {
		return nil, errors.Trace(err)
	}
	return report, nil
}

func (o *Orchestrator) failJob(ctx context.Context, requestID string, cause error) error {
	if err := o.jobs.Update(ctx, requestID, store.FailedUpdate(cause.Error())); err != nil {
		log.Errorf("%s failed to record job failure: %v", requestID, err)
	}
	return errors.Trace(cause)
}
