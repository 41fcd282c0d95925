// internal/workers/matching/match-scholarships/handler.go
package matchscholarships

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"
	"scholarship-workers/internal/matching"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "match-scholarships"
)

var (
	ErrNoStudent = errors.New("no student profile available")
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	engine *matching.Engine
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, rdb *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  rdb,
		engine: matching.NewEngine(log),
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
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
		bpmnErr := apperrors.ToBPMN(err)
		if errors.Is(err, ErrNoStudent) {
			bpmnErr.Code = "NO_STUDENT_PROFILE"
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()
		h.failJob(client, job, bpmnErr.Code, err.Error())
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	student := input.Student
	if student == nil && input.StudentID != "" {
		var err error
		student, err = h.getStudentProfile(ctx, input.StudentID)
		if err != nil {
			h.logger.Warn("failed to fetch student profile", map[string]interface{}{
				"studentId": input.StudentID,
				"error":     err,
			})
		}
	}
	if student == nil {
		return nil, ErrNoStudent
	}

	scholarships := input.Scholarships
	if len(scholarships) == 0 {
		var err error
		scholarships, err = h.getActiveScholarships(ctx)
		if err != nil {
			return nil, apperrors.NewScholarshipFetchFailedError(err)
		}
	}

	metrics.MatchRunsTotal.Inc()
	metrics.MatchCandidatesScored.Observe(float64(len(scholarships)))

	outcome, err := h.engine.Match(ctx, scholarships, student, matching.Options{
		IncludeNonEligible: input.IncludeNonEligible,
		NonEligibleCap:     h.config.NonEligibleCap,
		Concurrency:        h.config.Concurrency,
		WithLexical:        input.WithLexical || h.config.WithLexical,
	})
	if err != nil {
		return nil, apperrors.NewMatchRunFailedError(err.Error())
	}

	output := &Output{
		Matches:     outcome.Eligible,
		NonEligible: outcome.NonEligible,
		TotalCount:  len(outcome.Eligible),
	}
	if len(outcome.Eligible) > 0 {
		output.TopScore = outcome.Eligible[0].TotalScore
	}

	h.logger.Info("match run complete", map[string]interface{}{
		"studentId":   input.StudentID,
		"candidates":  len(scholarships),
		"matches":     output.TotalCount,
		"topScore":    output.TopScore,
		"nonEligible": len(output.NonEligible),
	})

	return output, nil
}

func (h *Handler) getStudentProfile(ctx context.Context, studentID string) (*matching.StudentProfile, error) {
	cacheKey := "student:profile:" + studentID
	if h.redis != nil {
		if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
			var profile matching.StudentProfile
			if err := json.Unmarshal([]byte(val), &profile); err == nil {
				return &profile, nil
			}
		}
	}

	row := h.db.QueryRowContext(ctx, `
		SELECT name, cgpa, program, major, COALESCE(full_profile, '')
		FROM students WHERE id = $1`, studentID)

	var profile matching.StudentProfile
	err := row.Scan(&profile.Name, &profile.CGPA, &profile.Program, &profile.Major, &profile.FullProfile)
	if err != nil {
		return nil, err
	}

	if h.redis != nil {
		data, _ := json.Marshal(profile)
		h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)
	}

	return &profile, nil
}

func (h *Handler) getActiveScholarships(ctx context.Context) ([]matching.Scholarship, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, title, amount, deadline, eligible_courses, min_gpa, majors,
		       COALESCE(description, ''), keywords, COALESCE(category, ''),
		       COALESCE(provider_name, '')
		FROM scholarships WHERE status = 'active'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scholarships []matching.Scholarship
	for rows.Next() {
		var s matching.Scholarship
		var deadline sql.NullTime
		var minGPA sql.NullFloat64
		var courses, majors, keywords []byte

		err := rows.Scan(&s.ID, &s.Title, &s.Amount, &deadline, &courses,
			&minGPA, &majors, &s.Description, &keywords, &s.Category,
			&s.Provider.Name)
		if err != nil {
			return nil, err
		}

		if deadline.Valid {
			d := deadline.Time
			s.Deadline = &d
		}
		if minGPA.Valid {
			v := minGPA.Float64
			s.Requirements.MinGPA = &v
		}
		if len(courses) > 0 {
			json.Unmarshal(courses, &s.EligibleCourses)
		}
		if len(majors) > 0 {
			json.Unmarshal(majors, &s.Requirements.Majors)
		}
		if len(keywords) > 0 {
			json.Unmarshal(keywords, &s.Keywords)
		}
		s.Status = "active"

		scholarships = append(scholarships, s)
	}
	return scholarships, rows.Err()
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
