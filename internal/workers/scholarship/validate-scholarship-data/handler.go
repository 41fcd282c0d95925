// internal/workers/scholarship/validate-scholarship-data/handler.go
package validatescholarshipdata

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"
	"scholarship-workers/internal/matching"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const (
	TaskType = "validate-scholarship-data"
)

// scholarshipSchema checks the shape of a scraped scholarship document.
// Value-level repairs (negative amounts, out-of-range GPA floors) are
// handled by applyDefaults, not rejected here.
const scholarshipSchema = `{
	"type": "object",
	"required": ["id", "title"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"title": {"type": "string", "minLength": 1},
		"amount": {"type": "number"},
		"deadline": {"type": "string"},
		"eligibleCourses": {"type": "array", "items": {"type": "string"}},
		"description": {"type": "string"},
		"keywords": {"type": "array", "items": {"type": "string"}},
		"category": {"type": "string"},
		"status": {"type": "string"},
		"sourceUrl": {"type": "string"},
		"requirements": {
			"type": "object",
			"properties": {
				"minGPA": {"type": "number"},
				"majors": {"type": "array", "items": {"type": "string"}}
			}
		},
		"provider": {
			"type": "object",
			"properties": {
				"name": {"type": "string"},
				"website": {"type": "string"}
			}
		}
	}
}`

type Handler struct {
	config *Config
	schema *gojsonschema.Schema
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(scholarshipSchema))
	if err != nil {
		return nil, fmt.Errorf("compile scholarship schema: %w", err)
	}
	return &Handler{
		config: config,
		schema: schema,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}, nil
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
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "SCHOLARSHIP_VALIDATION_FAILED").Inc()
		h.failJob(client, job, "SCHOLARSHIP_VALIDATION_FAILED", err.Error())
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if len(input.Scholarship) == 0 {
		return &Output{Valid: false, Errors: []string{"scholarship document is empty"}}, nil
	}

	result, err := h.schema.Validate(gojsonschema.NewBytesLoader(input.Scholarship))
	if err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}

	output := &Output{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		output.Errors = append(output.Errors, desc.String())
	}
	if !output.Valid {
		h.logger.Warn("scholarship failed validation", map[string]interface{}{
			"errors": output.Errors,
		})
		return output, nil
	}

	var s matching.Scholarship
	if err := json.Unmarshal(input.Scholarship, &s); err != nil {
		output.Valid = false
		output.Errors = append(output.Errors, fmt.Sprintf("decode scholarship: %v", err))
		return output, nil
	}

	output.Defaults = h.applyDefaults(&s)
	output.Scholarship = s

	if len(output.Defaults) > 0 {
		h.logger.Info("safe defaults applied", map[string]interface{}{
			"scholarshipId": s.ID,
			"defaults":      output.Defaults,
		})
	}

	return output, nil
}

// applyDefaults repairs recoverable data problems in place and returns the
// names of the repairs made.
func (h *Handler) applyDefaults(s *matching.Scholarship) []string {
	var applied []string

	s.Title = strings.TrimSpace(s.Title)

	if s.Amount < 0 {
		s.Amount = 0
		applied = append(applied, "amount_reset")
	}

	if s.Requirements.MinGPA != nil {
		v := *s.Requirements.MinGPA
		if math.IsNaN(v) || v < 0 || v > h.config.MaxGPA {
			s.Requirements.MinGPA = nil
			applied = append(applied, "min_gpa_dropped")
		}
	}

	if s.Deadline != nil && s.Deadline.IsZero() {
		s.Deadline = nil
		applied = append(applied, "deadline_dropped")
	}

	if s.Status == "" {
		s.Status = "active"
		applied = append(applied, "status_defaulted")
	}

	return applied
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
