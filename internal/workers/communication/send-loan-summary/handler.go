package sendloansummary

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"loan-advisor/internal/common/camunda"
	apperrors "loan-advisor/internal/common/errors"
	"loan-advisor/internal/common/logger"
)

const (
	TaskType = "send-loan-summary"
)

var e164 = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`)

// SESService is the slice of the SES client used here.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SNSService is the slice of the SNS client used here.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// NewAWSClients loads the default credential chain for region.
func NewAWSClients(ctx context.Context, region string) (*ses.Client, *sns.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, nil, fmt.Errorf("load AWS config: %w", err)
	}
	return ses.NewFromConfig(awsCfg), sns.NewFromConfig(awsCfg), nil
}

type Handler struct {
	config    *Config
	sesClient SESService
	snsClient SNSService
	runner    *camunda.Runner
	logger    logger.Logger
	now       func() time.Time
}

// NewHandler treats a nil client as its channel being disabled.
func NewHandler(config *Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Handler {
	if config == nil {
		config = DefaultConfig()
	}
	return &Handler{
		config:    config,
		sesClient: sesClient,
		snsClient: snsClient,
		runner:    camunda.NewRunner(TaskType, config.Timeout, log),
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:       time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

// Execute fails only on malformed contact details. Each enabled channel is
// tried on its own; delivery failures show up in the status so the process
// can carry on without the summary.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	email := strings.TrimSpace(input.Email)
	phone := strings.TrimSpace(input.Phone)

	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperrors.NewInvalidArgumentError(fmt.Sprintf("invalid email address: %s", email))
		}
	}
	if phone != "" && !e164.MatchString(phone) {
		return nil, apperrors.NewInvalidArgumentError(fmt.Sprintf("phone must be in E.164 format: %s", phone))
	}

	out := &Output{
		NotificationID: uuid.New().String(),
		Status:         StatusDisabled,
		Channels:       []string{},
		SentAt:         h.now().UTC().Format(time.RFC3339),
	}

	attempted := 0
	if h.emailEnabled() && email != "" {
		attempted++
		if err := h.sendEmail(ctx, email, renderSubject(input), renderEmailBody(input)); err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"error":          err.Error(),
				"notificationId": out.NotificationID,
			})
		} else {
			out.Channels = append(out.Channels, ChannelEmail)
		}
	}

	if h.smsEnabled() && phone != "" {
		attempted++
		if err := h.sendSMS(ctx, phone, renderSMS(input)); err != nil {
			h.logger.Error("SMS send failed", map[string]interface{}{
				"error":          err.Error(),
				"notificationId": out.NotificationID,
			})
		} else {
			out.Channels = append(out.Channels, ChannelSMS)
		}
	}

	out.Status = deliveryStatus(attempted, len(out.Channels))

	h.logger.Info("loan summary processed", map[string]interface{}{
		"notificationId": out.NotificationID,
		"status":         out.Status,
		"channels":       out.Channels,
	})
	return out, nil
}

func deliveryStatus(attempted, delivered int) string {
	switch {
	case attempted == 0:
		return StatusDisabled
	case delivered == attempted:
		return StatusSent
	case delivered > 0:
		return StatusPartial
	default:
		return StatusFailed
	}
}

func (h *Handler) emailEnabled() bool {
	return h.config.EmailEnabled && h.sesClient != nil
}

func (h *Handler) smsEnabled() bool {
	return h.config.SMSEnabled && h.snsClient != nil
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}
