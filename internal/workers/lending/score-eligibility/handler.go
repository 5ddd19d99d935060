package scoreeligibility

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"loan-advisor/internal/common/camunda"
	"loan-advisor/internal/common/logger"
	"loan-advisor/internal/loan"
)

const (
	TaskType = "score-eligibility"
)

type Handler struct {
	config *Config
	runner *camunda.Runner
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	if config == nil {
		config = DefaultConfig()
	}
	return &Handler{
		config: config,
		runner: camunda.NewRunner(TaskType, config.Timeout, log),
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

// Execute scores the profile. An incomplete profile is INVALID_ARGUMENT.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	score, err := loan.Score(input.Profile)
	if err != nil {
		return nil, err
	}

	out := &Output{
		EligibilityScore: score,
		EligibilityTier:  loan.TierFor(score),
		Eligible:         score >= h.config.EligibleScore,
	}
	h.logger.Info("eligibility scored", map[string]interface{}{
		"score": score,
		"tier":  out.EligibilityTier,
	})
	return out, nil
}
