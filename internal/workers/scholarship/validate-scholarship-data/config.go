// internal/workers/scholarship/validate-scholarship-data/config.go
package validatescholarshipdata

import "time"

type Config struct {
	Timeout time.Duration
	// MaxGPA is the top of the CGPA scale; MinGPA requirements beyond it
	// are treated as data errors and dropped.
	MaxGPA float64
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		MaxGPA:  4.0,
	}
}
