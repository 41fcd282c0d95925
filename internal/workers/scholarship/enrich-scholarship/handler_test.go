// internal/workers/scholarship/enrich-scholarship/handler_test.go
package enrichscholarship

import (
	"context"
	"testing"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/matching"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gpaPtr(v float64) *float64 {
	return &v
}

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

func TestHandler_Execute_FillsDescription(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Scholarship: matching.Scholarship{
			ID:              "sch-1",
			Title:           "Tech Talent Scholarship",
			Amount:          5000,
			EligibleCourses: []string{"Computer Science"},
			Requirements:    matching.Requirements{MinGPA: gpaPtr(3.0)},
		},
	})

	require.NoError(t, err)
	assert.True(t, output.Enriched)
	assert.Equal(t,
		"Tech Talent Scholarship. Award amount: $5000. Eligible for: Computer Science. Minimum GPA: 3.",
		output.Scholarship.Description)
	assert.NotEmpty(t, output.Scholarship.Keywords)
	assert.Equal(t, "STEM", output.Scholarship.Category)
}

func TestHandler_Execute_AlreadyComplete(t *testing.T) {
	handler := newTestHandler(t)

	input := &Input{
		Scholarship: matching.Scholarship{
			ID:          "sch-2",
			Title:       "Merit Award",
			Description: "A fully described scholarship",
			Keywords:    []string{"merit"},
			Category:    "Business",
		},
	}

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.False(t, output.Enriched)
	assert.Equal(t, input.Scholarship, output.Scholarship)
}

func TestHandler_Execute_MissingTitle(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Scholarship: matching.Scholarship{ID: "sch-3"},
	})

	assert.ErrorIs(t, err, ErrMissingTitle)
	assert.Nil(t, output)
}

func TestHandler_Execute_RecategorizesGeneral(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Scholarship: matching.Scholarship{
			ID:          "sch-4",
			Title:       "Nursing Futures Fund",
			Description: "Supporting nursing students",
			Keywords:    []string{"nursing"},
			Category:    "General",
		},
	})

	require.NoError(t, err)
	assert.True(t, output.Enriched)
	assert.Equal(t, "Healthcare", output.Scholarship.Category)
}
