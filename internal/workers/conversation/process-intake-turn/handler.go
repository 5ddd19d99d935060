package processintaketurn

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"loan-advisor/internal/common/camunda"
	"loan-advisor/internal/common/logger"
	"loan-advisor/internal/intake"
)

const (
	TaskType = "process-intake-turn"
)

type Handler struct {
	config  *Config
	service *intake.Service
	runner  *camunda.Runner
	logger  logger.Logger
}

func NewHandler(config *Config, service *intake.Service, log logger.Logger) *Handler {
	if config == nil {
		config = DefaultConfig()
	}
	return &Handler{
		config:  config,
		service: service,
		runner:  camunda.NewRunner(TaskType, config.Timeout, log),
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

// Execute starts a session or feeds one message into an existing one.
// The process loops on this task until Complete is true.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	var (
		res *intake.TurnResult
		err error
	)
	if input.SessionID == "" {
		res, err = h.service.Start(ctx, input.Flow)
	} else {
		res, err = h.service.Turn(ctx, input.SessionID, input.Message)
	}
	if err != nil {
		return nil, err
	}

	state := res.Session.State
	return &Output{
		SessionID: res.Session.ID,
		Flow:      state.Flow,
		Step:      state.Step,
		Reply:     res.Reply,
		Outcome:   res.Outcome,
		Complete:  state.IsComplete(),
		Answer:    state.Answer,
		Profile:   state.Profile,
	}, nil
}
