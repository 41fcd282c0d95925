// internal/workers/scholarship/enrich-scholarship/models.go
package enrichscholarship

import "scholarship-workers/internal/matching"

type Input struct {
	Scholarship matching.Scholarship `json:"scholarship"`
}

type Output struct {
	Scholarship matching.Scholarship `json:"scholarship"`
	// Enriched reports whether any field was filled in.
	Enriched bool `json:"enriched"`
}
