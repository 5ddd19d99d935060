package scoreeligibility

import "time"

type Config struct {
	Timeout time.Duration
	// EligibleScore is the lowest score reported as eligible.
	EligibleScore float64
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:       5 * time.Second,
		EligibleScore: 50,
	}
}
