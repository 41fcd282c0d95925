// internal/workers/scholarship/search-scholarships/models.go
package searchscholarships

import "scholarship-workers/internal/matching"

type Input struct {
	Query      string `json:"query"`
	Category   string `json:"category,omitempty"`
	MaxResults int    `json:"maxResults,omitempty"`
	SkipCache  bool   `json:"skipCache,omitempty"`
}

type Output struct {
	Scholarships []matching.Scholarship `json:"scholarships"`
	Total        int                    `json:"total"`
	FromCache    bool                   `json:"fromCache"`
}

// esResponse mirrors the slice of the search response the worker reads.
type esResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string               `json:"_id"`
			Source matching.Scholarship `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}
