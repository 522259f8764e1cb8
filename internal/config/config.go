package config

import (
	"fmt"
	"time"

	"github.com/studyway/coursegate/pkg/config"
	"github.com/studyway/coursegate/pkg/database"
	"github.com/studyway/coursegate/pkg/kafka"
	"github.com/studyway/coursegate/pkg/validator"
)

// Config holds the full service configuration, loaded from environment
// variables.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development" validate:"oneof=development staging production"`

	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	OTP      OTPConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `env:"SERVER_PORT" envDefault:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// PostgresConfig holds database connection settings.
type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"coursegate"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"coursegate"`
	DBName   string `env:"POSTGRES_DB" envDefault:"coursegate"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	MaxConns int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns int32  `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
}

// Pool converts the section into the connection pool's config.
func (c PostgresConfig) Pool() *database.PostgresConfig {
	return &database.PostgresConfig{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		DBName:   c.DBName,
		SSLMode:  c.SSLMode,
		MaxConns: c.MaxConns,
		MinConns: c.MinConns,
	}
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// Client converts the section into the Redis client's config.
func (c RedisConfig) Client() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.Host,
		Port:     c.Port,
		Password: c.Password,
		DB:       c.DB,
	}
}

// KafkaConfig holds broker settings for the event producer.
type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
}

// Producer converts the section into the producer's config.
func (c KafkaConfig) Producer() kafka.ProducerConfig {
	return kafka.DefaultProducerConfig(c.Brokers)
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret string        `env:"JWT_SECRET,required" validate:"min=32"`
	TTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
	Issuer string        `env:"JWT_ISSUER" envDefault:"coursegate"`
}

// OTPConfig holds verification code delivery settings.
type OTPConfig struct {
	Expiry         time.Duration `env:"OTP_EXPIRY" envDefault:"10m"`
	GatewayURL     string        `env:"OTP_GATEWAY_URL"`
	GatewayAPIKey  string        `env:"OTP_GATEWAY_API_KEY"`
	GatewayTimeout time.Duration `env:"OTP_GATEWAY_TIMEOUT" envDefault:"5s"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := validator.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
