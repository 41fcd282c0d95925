// internal/workers/matching/send-match-report/config.go
package sendmatchreport

import "time"

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	AWSRegion    string
	// SMSMaxMatches caps how many match titles fit in one SMS body.
	SMSMaxMatches int
	Timeout       time.Duration
}

func LoadConfig() *Config {
	return &Config{
		SMSMaxMatches: 3,
		Timeout:       30 * time.Second,
	}
}
