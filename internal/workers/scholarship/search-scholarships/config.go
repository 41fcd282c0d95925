// internal/workers/scholarship/search-scholarships/config.go
package searchscholarships

import "time"

type Config struct {
	Index      string
	CacheTTL   time.Duration
	Timeout    time.Duration
	MaxResults int
}

func LoadConfig() *Config {
	return &Config{
		Index:      "scholarships",
		CacheTTL:   5 * time.Minute,
		Timeout:    15 * time.Second,
		MaxResults: 20,
	}
}
