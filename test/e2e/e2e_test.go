// test/e2e/e2e_test.go
//
// In-process pipeline tests: raw scholarship documents flow through
// validation, enrichment, matching, and report delivery using the same
// handlers the worker manager registers, with stubbed infrastructure.
package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/matching"

	matchscholarships "scholarship-workers/internal/workers/matching/match-scholarships"
	sendmatchreport "scholarship-workers/internal/workers/matching/send-match-report"
	enrichscholarship "scholarship-workers/internal/workers/scholarship/enrich-scholarship"
	searchscholarships "scholarship-workers/internal/workers/scholarship/search-scholarships"
	validatescholarshipdata "scholarship-workers/internal/workers/scholarship/validate-scholarship-data"
)

// ==========================
// Stubbed Infrastructure
// ==========================

type stubSES struct {
	inputs []*ses.SendEmailInput
}

func (s *stubSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	s.inputs = append(s.inputs, params)
	return &ses.SendEmailOutput{}, nil
}

type stubSNS struct {
	inputs []*sns.PublishInput
}

func (s *stubSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	s.inputs = append(s.inputs, params)
	return &sns.PublishOutput{}, nil
}

// stubSearcher replays a canned Elasticsearch response.
type stubSearcher struct {
	response []byte
	calls    int
}

func (s *stubSearcher) Search(_ context.Context, _, _ string) ([]byte, error) {
	s.calls++
	return s.response, nil
}

func newRedisClient(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

// ==========================
// Fixtures
// ==========================

// rawScholarships are documents as a scraper would deliver them: one clean,
// one needing safe defaults, one expired.
func rawScholarships() []string {
	openDeadline := time.Now().AddDate(1, 0, 0).UTC().Format(time.RFC3339)
	return []string{
		fmt.Sprintf(`{
			"id": "sch-tech",
			"title": "Tech Talent Scholarship",
			"amount": 8000,
			"deadline": %q,
			"eligibleCourses": ["Computer Science", "Engineering"],
			"requirements": {"minGPA": 3.0, "majors": ["Software Engineering"]},
			"status": "active"
		}`, openDeadline),
		`{
			"id": "sch-open",
			"title": "  Merdeka Open Scholarship  ",
			"amount": -50,
			"description": "Open to all students from any field of study."
		}`,
		`{
			"id": "sch-expired",
			"title": "Legacy Grant",
			"amount": 2000,
			"deadline": "2020-01-01T00:00:00Z",
			"status": "active"
		}`,
	}
}

func testStudent() *matching.StudentProfile {
	return &matching.StudentProfile{
		Name:    "Aisyah",
		CGPA:    3.6,
		Program: "Bachelor of Computer Science",
		Major:   "Software Engineering",
	}
}

// ==========================
// Full Pipeline
// ==========================

func TestPipeline_ValidateEnrichMatchReport(t *testing.T) {
	log := logger.NewTestLogger(t)
	ctx := context.Background()

	validator, err := validatescholarshipdata.NewHandler(validatescholarshipdata.LoadConfig(), log)
	require.NoError(t, err)
	enricher := enrichscholarship.NewHandler(enrichscholarship.LoadConfig(), log)

	// 1. Validate the raw documents and keep the usable ones.
	var pool []matching.Scholarship
	for _, doc := range rawScholarships() {
		out, err := validator.Execute(ctx, &validatescholarshipdata.Input{
			Scholarship: json.RawMessage(doc),
		})
		require.NoError(t, err)
		require.True(t, out.Valid, "fixture should validate: %s", doc)
		pool = append(pool, out.Scholarship)
	}
	require.Len(t, pool, 3)

	assert.Equal(t, "Merdeka Open Scholarship", pool[1].Title)
	assert.Zero(t, pool[1].Amount, "negative amount resets to zero")
	assert.Equal(t, "active", pool[1].Status)

	// 2. Enrich: missing keywords and categories get filled in.
	for i := range pool {
		out, err := enricher.Execute(ctx, &enrichscholarship.Input{Scholarship: pool[i]})
		require.NoError(t, err)
		pool[i] = out.Scholarship
	}
	assert.NotEmpty(t, pool[0].Category)
	assert.NotEmpty(t, pool[0].Description)

	// 3. Match the enriched pool against a student profile.
	matcher := matchscholarships.NewHandler(
		matchscholarships.LoadConfig(), nil, newRedisClient(t), log)

	matchOut, err := matcher.Execute(ctx, &matchscholarships.Input{
		StudentID:          "student-1",
		Student:            testStudent(),
		Scholarships:       pool,
		IncludeNonEligible: true,
	})
	require.NoError(t, err)

	require.Equal(t, 2, matchOut.TotalCount)
	assert.Equal(t, 100, matchOut.TopScore)
	assert.Equal(t, "sch-tech", matchOut.Matches[0].Scholarship.ID)
	assert.Equal(t, "sch-open", matchOut.Matches[1].Scholarship.ID)

	require.Len(t, matchOut.NonEligible, 1)
	assert.Equal(t, "sch-expired", matchOut.NonEligible[0].Scholarship.ID)
	assert.Equal(t, "Scholarship deadline has passed", matchOut.NonEligible[0].Reasons[0].Text)

	// 4. Deliver the report over the stubbed channels.
	sesStub := &stubSES{}
	snsStub := &stubSNS{}
	reporter := newReportHandler(t, sesStub, snsStub)

	reportOut, err := reporter.Execute(ctx, &sendmatchreport.Input{
		StudentID:   "student-1",
		StudentName: "Aisyah",
		Email:       "aisyah@example.com",
		Matches:     matchOut.Matches,
	})
	require.NoError(t, err)

	assert.Equal(t, sendmatchreport.StatusSent, reportOut.Status)
	assert.Equal(t, []string{"email"}, reportOut.Channels)
	require.Len(t, sesStub.inputs, 1)

	body := *sesStub.inputs[0].Message.Body.Text.Data
	assert.Contains(t, body, "Hi Aisyah,")
	assert.Contains(t, body, "Tech Talent Scholarship (match 100%)")
	assert.Contains(t, body, "Merdeka Open Scholarship")
	assert.Empty(t, snsStub.inputs)
}

func newReportHandler(t *testing.T, sesStub sendmatchreport.SESService, snsStub sendmatchreport.SNSService) *sendmatchreport.Handler {
	t.Helper()
	cfg := sendmatchreport.LoadConfig()
	cfg.EmailEnabled = true
	cfg.FromEmail = "matches@example.com"
	return sendmatchreport.NewHandlerWithClients(cfg, nil, logger.NewTestLogger(t), sesStub, snsStub)
}

// ==========================
// Search and Cache Round Trip
// ==========================

func TestPipeline_SearchFeedsMatching(t *testing.T) {
	log := logger.NewTestLogger(t)
	ctx := context.Background()

	deadline := time.Now().AddDate(0, 6, 0).UTC().Truncate(time.Second)
	esDoc := map[string]interface{}{
		"hits": map[string]interface{}{
			"total": map[string]interface{}{"value": 1},
			"hits": []map[string]interface{}{
				{
					"_id": "sch-search",
					"_source": matching.Scholarship{
						ID:              "sch-search",
						Title:           "National STEM Excellence Award",
						Amount:          10000,
						Deadline:        &deadline,
						EligibleCourses: []string{"Computer Science"},
						Status:          "active",
					},
				},
			},
		},
	}
	response, err := json.Marshal(esDoc)
	require.NoError(t, err)

	searcher := &stubSearcher{response: response}
	searchHandler := searchscholarships.NewHandler(
		searchscholarships.LoadConfig(), searcher, newRedisClient(t), log)

	searchOut, err := searchHandler.Execute(ctx, &searchscholarships.Input{Query: "stem"})
	require.NoError(t, err)
	require.Len(t, searchOut.Scholarships, 1)
	assert.False(t, searchOut.FromCache)

	// Second identical query comes from the cache.
	cached, err := searchHandler.Execute(ctx, &searchscholarships.Input{Query: "stem"})
	require.NoError(t, err)
	assert.True(t, cached.FromCache)
	assert.Equal(t, 1, searcher.calls)

	// Feed the search results straight into a match run.
	matcher := matchscholarships.NewHandler(
		matchscholarships.LoadConfig(), nil, newRedisClient(t), log)

	matchOut, err := matcher.Execute(ctx, &matchscholarships.Input{
		Student:      testStudent(),
		Scholarships: searchOut.Scholarships,
	})
	require.NoError(t, err)
	require.Equal(t, 1, matchOut.TotalCount)
	assert.Equal(t, "sch-search", matchOut.Matches[0].Scholarship.ID)
	assert.Equal(t, 100, matchOut.TopScore)
}

// ==========================
// Concurrency Determinism
// ==========================

func TestPipeline_ConcurrentMatchingIsDeterministic(t *testing.T) {
	log := logger.NewTestLogger(t)
	ctx := context.Background()

	var pool []matching.Scholarship
	for i := 0; i < 40; i++ {
		minGPA := 2.0 + float64(i%4)*0.5
		pool = append(pool, matching.Scholarship{
			ID:              fmt.Sprintf("sch-%02d", i),
			Title:           fmt.Sprintf("Scholarship %02d", i),
			EligibleCourses: []string{"Computer Science"},
			Requirements:    matching.Requirements{MinGPA: &minGPA},
			Status:          "active",
		})
	}

	serialCfg := matchscholarships.LoadConfig()
	serial := matchscholarships.NewHandler(serialCfg, nil, newRedisClient(t), log)

	pooledCfg := matchscholarships.LoadConfig()
	pooledCfg.Concurrency = 8
	pooled := matchscholarships.NewHandler(pooledCfg, nil, newRedisClient(t), log)

	input := &matchscholarships.Input{Student: testStudent(), Scholarships: pool}

	serialOut, err := serial.Execute(ctx, input)
	require.NoError(t, err)
	pooledOut, err := pooled.Execute(ctx, input)
	require.NoError(t, err)

	require.Equal(t, serialOut.TotalCount, pooledOut.TotalCount)
	for i := range serialOut.Matches {
		assert.Equal(t, serialOut.Matches[i].Scholarship.ID, pooledOut.Matches[i].Scholarship.ID)
		assert.Equal(t, serialOut.Matches[i].TotalScore, pooledOut.Matches[i].TotalScore)
	}
}
