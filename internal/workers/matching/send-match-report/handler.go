// internal/workers/matching/send-match-report/handler.go
package sendmatchreport

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-match-report"
)

var (
	ErrReportSendFailed = errors.New("REPORT_SEND_FAILED")
)

// Interfaces over the AWS clients so tests can stub delivery.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config    *Config
	db        *sql.DB
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) (*Handler, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(config.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Handler{
		config:    config,
		db:        db,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient: ses.NewFromConfig(awsCfg),
		snsClient: sns.NewFromConfig(awsCfg),
	}, nil
}

// NewHandlerWithClients builds a handler around preconstructed delivery
// clients. Used by tests and local tooling that stub out AWS.
func NewHandlerWithClients(config *Config, db *sql.DB, log logger.Logger, sesClient SESService, snsClient SNSService) *Handler {
	return &Handler{
		config:    config,
		db:        db,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient: sesClient,
		snsClient: snsClient,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "REPORT_SEND_FAILED").Inc()
		h.failJob(client, job, "REPORT_SEND_FAILED", err.Error())
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	reportID := uuid.New().String()
	sentAt := time.Now().UTC().Format(time.RFC3339)

	email, phone := input.Email, input.Phone
	if email == "" && phone == "" && input.StudentID != "" {
		var err error
		email, phone, err = h.getStudentContact(ctx, input.StudentID)
		if err != nil {
			h.logger.Warn("student contact not found", map[string]interface{}{
				"studentId": input.StudentID,
			})
			return &Output{ReportID: reportID, Status: StatusDisabled, SentAt: sentAt}, nil
		}
	}

	subject := buildSubject(input)
	body := buildEmailBody(input)

	var channels []string

	if h.config.EmailEnabled && email != "" {
		if err := h.sendEmail(ctx, email, subject, body); err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"error": err,
				"email": email,
			})
			return &Output{ReportID: reportID, Status: StatusFailed, SentAt: sentAt}, nil
		}
		channels = append(channels, "email")
	}

	if h.config.SMSEnabled && phone != "" && input.Priority == "high" {
		if err := h.sendSMS(ctx, phone, buildSMSBody(input, h.config.SMSMaxMatches)); err != nil {
			h.logger.Error("SMS send failed", map[string]interface{}{
				"error": err,
				"phone": phone,
			})
			return &Output{ReportID: reportID, Status: StatusFailed, SentAt: sentAt}, nil
		}
		channels = append(channels, "sms")
	}

	status := StatusDisabled
	if len(channels) > 0 {
		status = StatusSent
	}

	return &Output{
		ReportID: reportID,
		Status:   status,
		Channels: channels,
		SentAt:   sentAt,
	}, nil
}

func (h *Handler) getStudentContact(ctx context.Context, studentID string) (string, string, error) {
	var email, phone string
	err := h.db.QueryRowContext(ctx,
		`SELECT email, phone FROM students WHERE id = $1`, studentID).
		Scan(&email, &phone)
	return email, phone, err
}

func buildSubject(input *Input) string {
	if len(input.Matches) == 0 {
		return "Your scholarship match report"
	}
	return fmt.Sprintf("%d scholarship matches found for you", len(input.Matches))
}

func buildEmailBody(input *Input) string {
	var b strings.Builder

	name := input.StudentName
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "Hi %s,\n\n", name)

	if len(input.Matches) == 0 {
		b.WriteString("We could not find any scholarships matching your profile right now. Check back soon as new scholarships are added regularly.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "We found %d scholarships matching your profile:\n\n", len(input.Matches))

	for i, m := range input.Matches {
		fmt.Fprintf(&b, "%d. %s (match %d%%)\n", i+1, m.Scholarship.Title, m.TotalScore)
		if m.Scholarship.Amount > 0 {
			fmt.Fprintf(&b, "   Amount: RM%.2f\n", m.Scholarship.Amount)
		}
		if m.Scholarship.Deadline != nil {
			fmt.Fprintf(&b, "   Deadline: %s\n", m.Scholarship.Deadline.Format("2 Jan 2006"))
		}
		for _, reason := range m.MatchReasons {
			fmt.Fprintf(&b, "   %s %s\n", reason.Icon, reason.Text)
		}
		b.WriteString("\n")
	}

	b.WriteString("Log in to review the full details and apply before the deadlines.\n")
	return b.String()
}

func buildSMSBody(input *Input, maxMatches int) string {
	if len(input.Matches) == 0 {
		return "No new scholarship matches this week."
	}

	titles := make([]string, 0, maxMatches)
	for i, m := range input.Matches {
		if i == maxMatches {
			break
		}
		titles = append(titles, m.Scholarship.Title)
	}

	msg := fmt.Sprintf("%d scholarship matches: %s", len(input.Matches), strings.Join(titles, ", "))
	if len(input.Matches) > maxMatches {
		msg += fmt.Sprintf(" and %d more", len(input.Matches)-maxMatches)
	}
	return msg + ". Log in for details."
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
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

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
