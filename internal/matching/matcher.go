// internal/matching/matcher.go
package matching

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"scholarship-workers/internal/common/logger"
)

const defaultNonEligibleCap = 5

// Engine runs hybrid scholarship matching: a rule-based eligibility gate
// over deadline and GPA, then a content-based openness score, combined
// half-and-half into a 0..100 total. A single Engine is safe for concurrent
// use across match runs.
type Engine struct {
	norm    *Normalizer
	tax     *Taxonomy
	log     logger.Logger
	now     func() time.Time
	bonuses []BonusScorer
}

func NewEngine(log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Engine{
		norm: NewNormalizer(),
		tax:  NewTaxonomy(),
		log:  log,
		now:  time.Now,
	}
}

// WithClock overrides the deadline clock. Intended for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// RegisterBonus adds an extra score source. None ship by default, so the
// total stays rule+content unless a caller opts in.
func (e *Engine) RegisterBonus(b BonusScorer) {
	e.bonuses = append(e.bonuses, b)
}

// Score evaluates a single scholarship against a student without the
// eligibility gate. Callers that need gating should use Match.
func (e *Engine) Score(s *Scholarship, student *StudentProfile) MatchResult {
	return e.score(s, student)
}

func (e *Engine) score(s *Scholarship, student *StudentProfile) MatchResult {
	rule := ruleScore(s, student)

	assessment := assessOpenness(s)
	content := e.scoreContent(assessment, student)

	total := int(math.Round(float64(rule)*0.5 + float64(content.total)*0.5))
	for _, b := range e.bonuses {
		total += b.Score(s, student)
	}
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}

	return MatchResult{
		Scholarship: *s,
		TotalScore:  total,
		Breakdown: Breakdown{
			RuleBasedScore: int(math.Round(float64(rule) * 0.5)),
			ContentScore:   int(math.Round(float64(content.total) * 0.5)),
		},
		Components: Components{
			RuleScore:       rule,
			ContentScore:    content.total,
			ProgramOpenness: content.programScore,
			MajorOpenness:   content.majorScore,
		},
		MatchReasons: e.buildReasons(s, student, assessment),
	}
}

// Match gates, scores and ranks the candidate pool for one student. The
// input slice is never mutated; results are ordered by total score with
// ties broken by input position, so equal inputs always produce equal
// output. The returned error is reserved for context cancellation.
func (e *Engine) Match(ctx context.Context, scholarships []Scholarship, student *StudentProfile, opts Options) (*Outcome, error) {
	now := e.now()

	neCap := opts.NonEligibleCap
	if neCap <= 0 {
		neCap = defaultNonEligibleCap
	}

	outcome := &Outcome{}

	// Gate pass. Sequential so the non-eligible bucket fills in input
	// order regardless of scoring concurrency.
	type candidate struct {
		index       int
		scholarship *Scholarship
	}
	var eligible []candidate
	for i := range scholarships {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s := &scholarships[i]
		gate := applyGate(s, student, now)
		if gate.eligible {
			eligible = append(eligible, candidate{index: i, scholarship: s})
			continue
		}
		if opts.IncludeNonEligible && len(outcome.NonEligible) < neCap {
			outcome.NonEligible = append(outcome.NonEligible, NonEligibleResult{
				Scholarship: *s,
				Reasons:     gate.reasons,
			})
		}
	}

	var model *tfidfModel
	var profileVec map[string]float64
	if opts.WithLexical {
		docs := make([][]string, 0, len(scholarships)+1)
		profileTokens := e.norm.Tokens(BuildProfileText(student))
		docs = append(docs, profileTokens)
		for i := range scholarships {
			docs = append(docs, e.norm.Tokens(BuildDocument(&scholarships[i])))
		}
		model = fitTFIDF(docs)
		profileVec = model.vector(profileTokens)
	}

	type scored struct {
		index  int
		result MatchResult
	}
	results := make([]scored, len(eligible))

	// A panic while scoring one record degrades that record to a zero
	// score instead of aborting the run.
	scoreOne := func(pos int) {
		c := eligible[pos]
		defer func() {
			if rec := recover(); rec != nil {
				e.log.Warn("scoring panic, using zero score", map[string]interface{}{
					"scholarshipId": c.scholarship.ID,
					"panic":         rec,
				})
				results[pos] = scored{index: c.index, result: MatchResult{Scholarship: *c.scholarship}}
			}
		}()
		r := e.score(c.scholarship, student)
		if model != nil {
			vec := model.vector(e.norm.Tokens(BuildDocument(c.scholarship)))
			r.LexicalScore = similarityScore(cosine(profileVec, vec))
		}
		results[pos] = scored{index: c.index, result: r}
	}

	workers := opts.Concurrency
	if workers <= 1 || len(eligible) < 2 {
		for pos := range eligible {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			scoreOne(pos)
		}
	} else {
		if workers > len(eligible) {
			workers = len(eligible)
		}
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for pos := range jobs {
					scoreOne(pos)
				}
			}()
		}
	feed:
		for pos := range eligible {
			select {
			case jobs <- pos:
			case <-ctx.Done():
				break feed
			}
		}
		close(jobs)
		wg.Wait()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].result.TotalScore != results[j].result.TotalScore {
			return results[i].result.TotalScore > results[j].result.TotalScore
		}
		return results[i].index < results[j].index
	})

	outcome.Eligible = make([]MatchResult, len(results))
	for i, r := range results {
		outcome.Eligible[i] = r.result
	}

	e.log.Debug("match run complete", map[string]interface{}{
		"candidates":  len(scholarships),
		"eligible":    len(outcome.Eligible),
		"nonEligible": len(outcome.NonEligible),
	})

	return outcome, nil
}
