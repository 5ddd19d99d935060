// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Server        ServerConfig            `mapstructure:"server"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Intake        IntakeConfig            `mapstructure:"intake"`
	APIs          APIsConfig              `mapstructure:"apis"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
	Registry      RegistryConfig          `mapstructure:"registry"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig configures the HTTP chat/loan API and its rate limiter.
type ServerConfig struct {
	Address           string `mapstructure:"address"`
	ReadTimeout       int    `mapstructure:"read_timeout"`        // milliseconds
	WriteTimeout      int    `mapstructure:"write_timeout"`       // milliseconds
	RateLimitCapacity int    `mapstructure:"rate_limit_capacity"` // requests per window per client IP
	RateLimitWindow   int    `mapstructure:"rate_limit_window"`   // milliseconds
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig points at the optional lender catalog database.
type PostgresConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// IntakeConfig controls the conversational intake flow.
type IntakeConfig struct {
	// Flow selects the default variant: "loan_type" or "eligibility".
	Flow string `mapstructure:"flow"`
	// MatchMode is "word" (whole token) or "substring" (legacy behaviour).
	MatchMode           string   `mapstructure:"match_mode"`
	AffirmativeKeywords []string `mapstructure:"affirmative_keywords"`
	SessionTTL          int      `mapstructure:"session_ttl"` // seconds
	KeyPrefix           string   `mapstructure:"key_prefix"`
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	GenAI struct {
		Enabled    bool   `mapstructure:"enabled"`
		BaseURL    string `mapstructure:"base_url"`
		APIKey     string `mapstructure:"api_key"`
		Model      string `mapstructure:"model"`
		Timeout    int    `mapstructure:"timeout"` // milliseconds
		MaxRetries int    `mapstructure:"max_retries"`
		MaxTokens  int    `mapstructure:"max_tokens"`
	} `mapstructure:"genai"`
	AWS AWSConfig `mapstructure:"aws"`
}

// AWSConfig drives the loan summary notifications (SES email, SNS SMS).
type AWSConfig struct {
	Region       string `mapstructure:"region"`
	FromEmail    string `mapstructure:"from_email"`
	EmailEnabled bool   `mapstructure:"email_enabled"`
	SMSEnabled   bool   `mapstructure:"sms_enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ObservabilityConfig toggles the OpenTelemetry exporters.
type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// RegistryConfig points at the activity registry describing the worker task types.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}
