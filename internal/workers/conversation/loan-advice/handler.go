package loanadvice

import (
	"context"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"loan-advisor/internal/advice"
	"loan-advisor/internal/common/camunda"
	apperrors "loan-advisor/internal/common/errors"
	"loan-advisor/internal/common/logger"
)

const (
	TaskType = "loan-advice"
)

type Handler struct {
	config  *Config
	advisor *advice.Advisor
	runner  *camunda.Runner
	logger  logger.Logger
}

func NewHandler(config *Config, advisor *advice.Advisor, log logger.Logger) *Handler {
	if config == nil {
		config = DefaultConfig()
	}
	return &Handler{
		config:  config,
		advisor: advisor,
		runner:  camunda.NewRunner(TaskType, config.Timeout, log),
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

// Execute only fails on an empty message. Provider failures are absorbed by
// the advisor and show up as FallbackUsed.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Message) == "" {
		return nil, apperrors.NewInvalidArgumentError("message is required")
	}

	a := h.advisor.Advise(ctx, input.Message)
	return &Output{
		Answer:       a.Text,
		AnswerSource: a.Source,
		Intent:       a.Intent,
		Hints:        a.Hints,
		FallbackUsed: a.Source == advice.SourceFallback,
	}, nil
}
