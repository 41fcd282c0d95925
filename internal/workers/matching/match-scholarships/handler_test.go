// internal/workers/matching/match-scholarships/handler_test.go
package matchscholarships

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/matching"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		CacheTTL:       10 * time.Minute,
		Timeout:        30 * time.Second,
		NonEligibleCap: 5,
	}
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func gpaPtr(v float64) *float64 {
	return &v
}

func createTestStudent() *matching.StudentProfile {
	return &matching.StudentProfile{
		Name:    "Aisyah",
		CGPA:    3.5,
		Program: "Bachelor of Computer Science",
		Major:   "Software Engineering",
	}
}

func createTestPool() []matching.Scholarship {
	past := time.Now().AddDate(0, -1, 0)
	return []matching.Scholarship{
		{
			ID:    "open",
			Title: "Merit Excellence Award",
		},
		{
			ID:              "partial",
			Title:           "Future Nurses Fund",
			EligibleCourses: []string{"Nursing"},
			Requirements:    matching.Requirements{MinGPA: gpaPtr(3.0)},
		},
		{
			ID:       "expired",
			Title:    "Expired Award",
			Deadline: &past,
		},
	}
}

func newHandler(t *testing.T, db *sql.DB, rdb *redis.Client) *Handler {
	return NewHandler(createTestConfig(), db, rdb, logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_InlinePool(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()
	_, rdb := setupMiniRedis(t)

	handler := newHandler(t, db, rdb)

	output, err := handler.Execute(context.Background(), &Input{
		Student:            createTestStudent(),
		Scholarships:       createTestPool(),
		IncludeNonEligible: true,
	})

	require.NoError(t, err)
	require.NotNil(t, output)

	require.Len(t, output.Matches, 2)
	assert.Equal(t, "open", output.Matches[0].Scholarship.ID)
	assert.Equal(t, 100, output.Matches[0].TotalScore)
	assert.Equal(t, "partial", output.Matches[1].Scholarship.ID)
	assert.Equal(t, 75, output.Matches[1].TotalScore)

	assert.Equal(t, 2, output.TotalCount)
	assert.Equal(t, 100, output.TopScore)

	require.Len(t, output.NonEligible, 1)
	assert.Equal(t, "expired", output.NonEligible[0].Scholarship.ID)
}

func TestHandler_Execute_NonEligibleExcludedByDefault(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()
	_, rdb := setupMiniRedis(t)

	handler := newHandler(t, db, rdb)

	output, err := handler.Execute(context.Background(), &Input{
		Student:      createTestStudent(),
		Scholarships: createTestPool(),
	})

	require.NoError(t, err)
	assert.Len(t, output.Matches, 2)
	assert.Empty(t, output.NonEligible)
}

func TestHandler_Execute_NoStudent(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()
	_, rdb := setupMiniRedis(t)

	handler := newHandler(t, db, rdb)

	output, err := handler.Execute(context.Background(), &Input{
		Scholarships: createTestPool(),
	})

	assert.ErrorIs(t, err, ErrNoStudent)
	assert.Nil(t, output)
}

// ==========================
// Database & Cache Tests
// ==========================

func TestHandler_Execute_FetchScholarshipsFromDB(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	_, rdb := setupMiniRedis(t)

	courses, _ := json.Marshal([]string{"Computer Science"})

	mock.ExpectQuery("SELECT id, title, amount").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "amount", "deadline", "eligible_courses", "min_gpa",
			"majors", "description", "keywords", "category", "provider_name",
		}).
			AddRow("sch-1", "Tech Talent Scholarship", 5000.0, nil, courses, 3.0,
				nil, "For computing students", nil, "STEM", "Yayasan Teknologi").
			AddRow("sch-2", "Merit Excellence Award", 8000.0, nil, nil, nil,
				nil, "", nil, "", ""))

	handler := newHandler(t, db, rdb)

	output, err := handler.Execute(context.Background(), &Input{
		Student: createTestStudent(),
	})

	require.NoError(t, err)
	require.Len(t, output.Matches, 2)
	assert.Equal(t, 100, output.Matches[0].TotalScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_GetStudentProfile_CachesInRedis(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	mr, rdb := setupMiniRedis(t)

	mock.ExpectQuery("SELECT name, cgpa").
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows([]string{"name", "cgpa", "program", "major", "full_profile"}).
			AddRow("Aisyah", 3.5, "Bachelor of Computer Science", "Software Engineering", ""))

	handler := newHandler(t, db, rdb)

	profile, err := handler.getStudentProfile(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, "Aisyah", profile.Name)
	assert.InDelta(t, 3.5, profile.CGPA, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.True(t, mr.Exists("student:profile:student-1"))

	// Second fetch is served from cache; no DB expectation is set.
	cached, err := handler.getStudentProfile(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, profile, cached)
}

func TestHandler_GetStudentProfile_NilRedisFallsThroughToDB(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT name, cgpa").
		WithArgs("student-2").
		WillReturnRows(sqlmock.NewRows([]string{"name", "cgpa", "program", "major", "full_profile"}).
			AddRow("Hafiz", 3.2, "Bachelor of Engineering", "Mechanical Engineering", ""))

	handler := newHandler(t, db, nil)

	profile, err := handler.getStudentProfile(context.Background(), "student-2")
	require.NoError(t, err)
	assert.Equal(t, "Hafiz", profile.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_GetStudentProfile_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	_, rdb := setupMiniRedis(t)

	mock.ExpectQuery("SELECT name, cgpa").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	handler := newHandler(t, db, rdb)

	profile, err := handler.getStudentProfile(context.Background(), "missing")
	assert.Error(t, err)
	assert.Nil(t, profile)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ScholarshipQueryFails(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	_, rdb := setupMiniRedis(t)

	mock.ExpectQuery("SELECT id, title, amount").
		WillReturnError(sql.ErrConnDone)

	handler := newHandler(t, db, rdb)

	output, err := handler.Execute(context.Background(), &Input{
		Student: createTestStudent(),
	})

	assert.Error(t, err)
	assert.Nil(t, output)
}

// ==========================
// Benchmark
// ==========================

func BenchmarkHandler_Execute(b *testing.B) {
	db, _, err := sqlmock.New()
	if err != nil {
		b.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, nil, logger.NewNoOpLogger())
	input := &Input{
		Student:      createTestStudent(),
		Scholarships: createTestPool(),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}
