package classifyloantype

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"loan-advisor/internal/common/camunda"
	apperrors "loan-advisor/internal/common/errors"
	"loan-advisor/internal/common/logger"
	"loan-advisor/internal/loan"
)

const (
	TaskType = "classify-loan-type"
)

type Handler struct {
	config     *Config
	classifier *loan.Classifier
	lenders    loan.LenderCatalog
	runner     *camunda.Runner
	logger     logger.Logger
}

func NewHandler(config *Config, classifier *loan.Classifier, lenders loan.LenderCatalog, log logger.Logger) *Handler {
	if config == nil {
		config = DefaultConfig()
	}
	if classifier == nil {
		classifier = loan.DefaultClassifier()
	}
	if len(lenders) == 0 {
		lenders = loan.DefaultLenderCatalog()
	}
	return &Handler{
		config:     config,
		classifier: classifier,
		lenders:    lenders,
		runner:     camunda.NewRunner(TaskType, config.Timeout, log),
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

// Execute maps the intake answers onto a loan type. Unknown purposes are
// classified as "other"; only a negative amount is rejected.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Amount < 0 {
		return nil, apperrors.NewInvalidArgumentError(fmt.Sprintf("amount cannot be negative, got %v", input.Amount))
	}

	purpose := h.classifier.ResolvePurpose(input.Purpose)
	rec := h.classifier.Classify(string(purpose), input.Amount, input.HasCollateral)

	h.logger.Info("loan type classified", map[string]interface{}{
		"purpose":       purpose,
		"amount":        input.Amount,
		"hasCollateral": input.HasCollateral,
		"loanType":      rec.LoanType,
		"rulesVersion":  h.classifier.Version(),
	})

	return &Output{
		Purpose:   purpose,
		LoanType:  rec.LoanType,
		Subtype:   rec.Subtype,
		Documents: loan.RequiredDocuments(rec.LoanType),
		Lenders:   h.lenders.Lookup(rec.LoanType),
	}, nil
}
