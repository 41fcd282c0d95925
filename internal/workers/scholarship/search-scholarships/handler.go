// internal/workers/scholarship/search-scholarships/handler.go
package searchscholarships

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"
	"scholarship-workers/internal/matching"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "search-scholarships"
)

// Searcher is the slice of the Elasticsearch client the worker needs.
type Searcher interface {
	Search(ctx context.Context, index, body string) ([]byte, error)
}

type Handler struct {
	config *Config
	es     Searcher
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, es Searcher, rdb *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		es:     es,
		redis:  rdb,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		bpmnErr := apperrors.ToBPMN(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()
		h.failJob(client, job, bpmnErr.Code, err.Error())
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	size := input.MaxResults
	if size <= 0 {
		size = h.config.MaxResults
	}

	cacheKey := h.cacheKey(input, size)
	if !input.SkipCache && h.redis != nil {
		if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
			var cached Output
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				cached.FromCache = true
				return &cached, nil
			}
		}
	}

	body, err := buildQuery(input.Query, input.Category, size)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	raw, err := h.es.Search(ctx, h.config.Index, body)
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError(err)
	}

	var resp esResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	output := &Output{
		Scholarships: make([]matching.Scholarship, 0, len(resp.Hits.Hits)),
		Total:        resp.Hits.Total.Value,
	}
	for _, hit := range resp.Hits.Hits {
		s := hit.Source
		if s.ID == "" {
			s.ID = hit.ID
		}
		output.Scholarships = append(output.Scholarships, s)
	}

	if h.redis != nil {
		if data, err := json.Marshal(output); err == nil {
			h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)
		}
	}

	h.logger.Info("search complete", map[string]interface{}{
		"query":    input.Query,
		"category": input.Category,
		"total":    output.Total,
		"returned": len(output.Scholarships),
	})

	return output, nil
}

func (h *Handler) cacheKey(input *Input, size int) string {
	return fmt.Sprintf("scholarship:search:%s:%s:%d",
		strings.ToLower(strings.TrimSpace(input.Query)),
		strings.ToLower(strings.TrimSpace(input.Category)),
		size)
}

// buildQuery assembles the search body: a multi_match over the text fields
// when a query string is present, match_all otherwise, always filtered to
// active scholarships and optionally to one category.
func buildQuery(query, category string, size int) (string, error) {
	filters := []map[string]interface{}{
		{"term": map[string]interface{}{"status": "active"}},
	}
	if category != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"category": category},
		})
	}

	var must interface{}
	if strings.TrimSpace(query) != "" {
		must = map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^3", "description", "keywords", "category"},
			},
		}
	} else {
		must = map[string]interface{}{"match_all": map[string]interface{}{}}
	}

	body := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filters,
			},
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	return string(data), nil
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
