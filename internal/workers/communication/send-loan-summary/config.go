package sendloansummary

import "time"

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	Timeout      time.Duration
}

func DefaultConfig() *Config {
	return &Config{Timeout: 15 * time.Second}
}
