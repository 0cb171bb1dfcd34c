package miniowr

import "time"

// Config defines the configuration options for the MinIO blob store.
type Config struct {
	// Endpoint is the MinIO server endpoint (e.g., "localhost:9000").
	Endpoint string `yaml:"endpoint" validate:"required"`

	// AccessKey is the access key for authentication.
	AccessKey string `yaml:"access_key" validate:"required"`

	// SecretKey is the secret key for authentication.
	SecretKey string `yaml:"secret_key" validate:"required" mask:"true"`

	// Bucket is the bucket holding all stored objects.
	Bucket string `yaml:"bucket" validate:"required"`

	// UseSSL enables HTTPS connection to the MinIO server.
	UseSSL bool `yaml:"use_ssl" default:"false"`

	// EnsureRetries is the number of bucket bootstrap attempts at startup.
	EnsureRetries int `yaml:"ensure_retries" default:"5"`

	// EnsureRetryDelay is the delay between bucket bootstrap attempts.
	EnsureRetryDelay time.Duration `yaml:"ensure_retry_delay" default:"2s"`
}
