// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activity-registry.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRegistry(t *testing.T) {
	path := writeRegistry(t, `{
		"version": "1.0.0",
		"lastUpdated": "2026-08-01",
		"activities": [
			{
				"id": "match-scholarships",
				"displayName": "Match Scholarships",
				"category": "matching",
				"taskType": "match-scholarships",
				"errorCodes": ["PARSE_ERROR", "NO_STUDENT_PROFILE"],
				"timeout": "30s",
				"retries": 3
			},
			{
				"id": "search-scholarships",
				"displayName": "Search Scholarships",
				"category": "scholarship",
				"taskType": "search-scholarships"
			}
		]
	}`)

	reg, err := LoadRegistry(path)
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", reg.Version)
	assert.Len(t, reg.Activities, 2)
	assert.Equal(t, []string{"match-scholarships", "search-scholarships"}, reg.TaskTypes())

	activity, ok := reg.FindByTaskType("match-scholarships")
	require.True(t, ok)
	assert.Equal(t, "Match Scholarships", activity.DisplayName)
	assert.Contains(t, activity.ErrorCodes, "NO_STUDENT_PROFILE")

	_, ok = reg.FindByTaskType("unknown-task")
	assert.False(t, ok)
}

func TestLoadRegistry_DuplicateTaskType(t *testing.T) {
	path := writeRegistry(t, `{
		"version": "1.0.0",
		"activities": [
			{"id": "a", "taskType": "match-scholarships"},
			{"id": "b", "taskType": "match-scholarships"}
		]
	}`)

	_, err := LoadRegistry(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate taskType")
}

func TestLoadRegistry_MissingTaskType(t *testing.T) {
	path := writeRegistry(t, `{
		"version": "1.0.0",
		"activities": [{"id": "orphan"}]
	}`)

	_, err := LoadRegistry(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no taskType")
}

func TestLoadRegistry_FileMissing(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
