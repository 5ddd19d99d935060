package recommendloans

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"loan-advisor/internal/common/camunda"
	"loan-advisor/internal/common/logger"
	"loan-advisor/internal/loan"
)

const (
	TaskType = "recommend-loans"
)

type Handler struct {
	config  *Config
	lenders loan.LenderCatalog
	runner  *camunda.Runner
	logger  logger.Logger
}

// NewHandler uses the built-in lender table when lenders is empty.
func NewHandler(config *Config, lenders loan.LenderCatalog, log logger.Logger) *Handler {
	if config == nil {
		config = DefaultConfig()
	}
	if len(lenders) == 0 {
		lenders = loan.DefaultLenderCatalog()
	}
	return &Handler{
		config:  config,
		lenders: lenders,
		runner:  camunda.NewRunner(TaskType, config.Timeout, log),
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	rec, err := loan.Recommend(input.Profile)
	if err != nil {
		return nil, err
	}
	report := loan.BuildReport(rec, h.lenders)

	h.logger.Info("loans recommended", map[string]interface{}{
		"score":       rec.Score,
		"tier":        rec.Tier,
		"suggestions": len(rec.Suggestions),
	})

	return &Output{
		EligibilityScore: rec.Score,
		EligibilityTier:  rec.Tier,
		MaxLoanAmount:    rec.MaxLoanAmount,
		Suggestions:      rec.Suggestions,
		Documents:        report.Documents,
		Lenders:          report.Lenders,
		HasSuggestions:   len(rec.Suggestions) > 0,
	}, nil
}
