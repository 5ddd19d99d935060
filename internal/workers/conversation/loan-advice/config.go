package loanadvice

import "time"

type Config struct {
	// Timeout bounds the whole job; the provider has its own shorter timeout
	// so the fallback answer still fits inside it.
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{Timeout: 30 * time.Second}
}
