// Package config provides configuration structures and validation for the application.
// It handles environment-based configuration for all major components including
// server settings, database connections, message brokers, the payment gateway and
// operational parameters.
package config

import (
	"errors"
	"strings"
	"time"
	_ "time/tzdata"
)

// Supported event brokers
const (
	BrokerKafka = "kafka"
	BrokerAMQP  = "amqp"
)

// Config holds the complete application configuration with settings for all components.
// Each field represents a major subsystem's configuration (e.g., HTTP server, databases,
// message brokers) and is validated during application startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	HTTP        HTTPConfig
	Events      EventsConfig
	Kafka       KafkaConfig
	AMQP        AMQPConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Outbox      OutboxConfig
	WorkerPool  WorkerPoolConfig
	Gateway     GatewayConfig
	Mesomb      MesombConfig
	Payer       PayerConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env      string
	Name     string
	Timezone string // IANA zone used to decide "today" and "this week"
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// HTTPConfig contains edge policies applied by the API gateway
type HTTPConfig struct {
	CORSOrigin      string
	RateLimitWindow time.Duration // Window for the payment rate limiter
	RateLimitMax    int           // Requests allowed per client per window
}

// EventsConfig selects the broker carrying payment status events
type EventsConfig struct {
	Broker string
}

// KafkaConfig contains Kafka configuration
type KafkaConfig struct {
	Brokers           string
	StatusTopic       string
	NumPartitions     int // Number of partitions for topics
	ReplicationFactor int // Replication factor for topics
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	DLQTopic          string // Topic for Dead Letter Queue
}

// AMQPConfig contains RabbitMQ configuration
type AMQPConfig struct {
	URL         string
	Exchange    string
	StatusQueue string
	DLQQueue    string
	Prefetch    int
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// OutboxConfig contains outbox pattern configuration
type OutboxConfig struct {
	PollingInterval  time.Duration
	BatchSize        int
	MaxRetryAttempts int // Maximum number of retry attempts for outbox messages
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of workers in the pool
}

// GatewayConfig contains the savings-side payment client configuration
type GatewayConfig struct {
	RelayURL              string
	Timeout               time.Duration // Upper bound on one collection call
	SimulationFallback    bool          // Simulate outcomes when the relay is unreachable
	SimulationDelay       time.Duration
	SimulationSuccessRate float64
}

// MesombConfig contains credentials for the upstream collection API
type MesombConfig struct {
	ApplicationKey string
	AccessKey      string
	SecretKey      string
	WebhookSecret  string
	BaseURL        string
	Timeout        time.Duration
}

// Configured reports whether all credentials are present.
func (m MesombConfig) Configured() bool {
	return m.ApplicationKey != "" && m.AccessKey != "" && m.SecretKey != ""
}

// WebhookSigningKey is the key provider notifications are signed with,
// falling back to the API secret. Empty means no notification verifies.
func (m MesombConfig) WebhookSigningKey() string {
	if m.WebhookSecret != "" {
		return m.WebhookSecret
	}
	return m.SecretKey
}

// PayerConfig contains the carrier numbering plan
type PayerConfig struct {
	PatternMTN    string
	PatternOrange string
	PatternMoov   string
	CountryCode   string
}

// Location resolves the configured timezone, falling back to UTC.
func (a ApplicationConfig) Location() *time.Location {
	if a.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// validate performs comprehensive validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Application config
	if c.Application.Timezone != "" {
		if _, err := time.LoadLocation(c.Application.Timezone); err != nil {
			validationErrors = append(validationErrors, "APP_TIMEZONE must be a valid IANA zone")
		}
	}

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout < 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must not be negative")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate HTTP edge config
	if c.HTTP.RateLimitWindow <= 0 {
		validationErrors = append(validationErrors, "RATE_LIMIT_WINDOW must be greater than 0")
	}
	if c.HTTP.RateLimitMax <= 0 {
		validationErrors = append(validationErrors, "RATE_LIMIT_MAX_REQUESTS must be greater than 0")
	}

	// Validate broker selection
	switch c.Events.Broker {
	case BrokerKafka:
		if len(c.Kafka.Brokers) == 0 {
			validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
		}
		if c.Kafka.StatusTopic == "" {
			validationErrors = append(validationErrors, "KAFKA_STATUS_TOPIC is required")
		}
		if c.Kafka.ConsumerGroup == "" {
			validationErrors = append(validationErrors, "KAFKA_CONSUMER_GROUP is required")
		}
		if c.Kafka.MinBytes <= 0 {
			validationErrors = append(validationErrors, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
		}
		if c.Kafka.MaxBytes <= 0 {
			validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_BYTES must be greater than 0")
		}
		if c.Kafka.MaxWait <= 0 {
			validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
		}
		if c.Kafka.DLQTopic == "" {
			validationErrors = append(validationErrors, "KAFKA_DLQ_TOPIC is required")
		}
	case BrokerAMQP:
		if c.AMQP.URL == "" {
			validationErrors = append(validationErrors, "AMQP_URL is required")
		}
		if c.AMQP.StatusQueue == "" {
			validationErrors = append(validationErrors, "AMQP_STATUS_QUEUE is required")
		}
		if c.AMQP.DLQQueue == "" {
			validationErrors = append(validationErrors, "AMQP_DLQ_QUEUE is required")
		}
		if c.AMQP.Prefetch <= 0 {
			validationErrors = append(validationErrors, "AMQP_PREFETCH must be greater than 0")
		}
	default:
		validationErrors = append(validationErrors, "EVENTS_BROKER must be one of: kafka, amqp")
	}

	// Validate PostgreSQL config
	if c.Postgres.URL == "" {
		validationErrors = append(validationErrors, "POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.Postgres.ConnMaxLifetime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.Postgres.ConnMaxIdleTime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate MongoDB config
	if c.MongoDB.URI == "" {
		validationErrors = append(validationErrors, "MONGO_URI is required")
	}
	if c.MongoDB.Database == "" {
		validationErrors = append(validationErrors, "MONGO_DATABASE is required")
	}
	if c.MongoDB.Timeout <= 0 {
		validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
	}
	if c.MongoDB.MaxPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MinPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MIN_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MaxConnIdleTime <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate Outbox config
	if c.Outbox.PollingInterval <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_POLLING_INTERVAL must be greater than 0")
	}
	if c.Outbox.BatchSize <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_BATCH_SIZE must be greater than 0")
	}
	if c.Outbox.MaxRetryAttempts <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_MAX_RETRY_ATTEMPTS must be greater than 0")
	}

	// Validate WorkerPool config
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	// Validate Gateway config
	if c.Gateway.RelayURL == "" {
		validationErrors = append(validationErrors, "GATEWAY_RELAY_URL is required")
	}
	if c.Gateway.Timeout <= 0 {
		validationErrors = append(validationErrors, "GATEWAY_TIMEOUT must be greater than 0")
	}
	if c.Gateway.SimulationDelay < 0 {
		validationErrors = append(validationErrors, "GATEWAY_SIMULATION_DELAY must not be negative")
	}
	if c.Gateway.SimulationSuccessRate < 0 || c.Gateway.SimulationSuccessRate > 1 {
		validationErrors = append(validationErrors, "GATEWAY_SIMULATION_SUCCESS_RATE must be between 0 and 1")
	}

	// Validate Mesomb config
	if c.Mesomb.BaseURL == "" {
		validationErrors = append(validationErrors, "MESOMB_BASE_URL is required")
	}
	if c.Mesomb.Timeout <= 0 {
		validationErrors = append(validationErrors, "MESOMB_TIMEOUT must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
