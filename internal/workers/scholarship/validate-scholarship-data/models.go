// internal/workers/scholarship/validate-scholarship-data/models.go
package validatescholarshipdata

import (
	"encoding/json"

	"scholarship-workers/internal/matching"
)

type Input struct {
	// Scholarship is kept raw so schema validation sees the document as
	// scraped, before any Go-side coercion.
	Scholarship json.RawMessage `json:"scholarship"`
}

type Output struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
	// Defaults lists the safe-default repairs applied to the document.
	Defaults    []string             `json:"defaultsApplied,omitempty"`
	Scholarship matching.Scholarship `json:"scholarship"`
}
