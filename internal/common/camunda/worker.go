package camunda

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	apperrors "loan-advisor/internal/common/errors"
	"loan-advisor/internal/common/logger"
	"loan-advisor/internal/common/metrics"
)

// WorkerOptions are the per task type settings of a job worker.
type WorkerOptions struct {
	MaxJobsActive int
	Timeout       time.Duration
}

// StartWorker opens a job worker for taskType. Close the returned worker on
// shutdown.
func StartWorker(client zbc.Client, taskType string, opts WorkerOptions, handler worker.JobHandler, log logger.Logger) worker.JobWorker {
	if opts.MaxJobsActive <= 0 {
		opts.MaxJobsActive = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	w := client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(opts.MaxJobsActive).
		Timeout(opts.Timeout).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": opts.MaxJobsActive,
		"timeout":       opts.Timeout.String(),
	})
	return w
}

// DecodeVariables unmarshals the job variables into In. Malformed variables
// are INVALID_PAYLOAD.
func DecodeVariables[In any](job entities.Job) (*In, error) {
	var input In
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, apperrors.NewInvalidPayloadError("parse job variables: " + err.Error())
	}
	return &input, nil
}

// Runner holds the plumbing every handler shares: timeout, metrics, and
// turning errors into fail or throw commands.
type Runner struct {
	taskType     string
	timeout      time.Duration
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewRunner(taskType string, timeout time.Duration, log logger.Logger) *Runner {
	log = log.WithFields(map[string]interface{}{"taskType": taskType})
	return &Runner{
		taskType:     taskType,
		timeout:      timeout,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

// Run decodes the job, calls execute and completes the job with its output.
func Run[In, Out any](r *Runner, client worker.JobClient, job entities.Job, execute func(context.Context, *In) (*Out, error)) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(r.taskType).Inc()
	defer func() {
		metrics.WorkerJobsActive.WithLabelValues(r.taskType).Dec()
		metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(time.Since(start).Seconds())
	}()

	r.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	input, err := DecodeVariables[In](job)
	if err != nil {
		r.fail(ctx, client, job, err)
		return
	}

	output, err := execute(ctx, input)
	if err != nil {
		r.fail(ctx, client, job, err)
		return
	}

	r.complete(ctx, client, job, output)
}

func (r *Runner) complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		r.fail(ctx, client, job, apperrors.NewInvalidPayloadError("encode output: "+err.Error()))
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		r.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	r.logger.Info("job completed", map[string]interface{}{
		"jobKey": job.Key,
	})
}

func (r *Runner) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(r.taskType, string(apperrors.Normalize(err).Code)).Inc()
	r.errorHandler.HandleJobError(ctx, client, job, err)
}
