// internal/workers/scholarship/enrich-scholarship/config.go
package enrichscholarship

import "time"

type Config struct {
	Timeout     time.Duration
	MaxKeywords int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     10 * time.Second,
		MaxKeywords: 10,
	}
}
