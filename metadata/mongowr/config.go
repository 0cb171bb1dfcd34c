package mongowr

import "time"

// Config defines the configuration options for the MongoDB metadata store.
type Config struct {
	// URI is the MongoDB connection string.
	URI string `yaml:"uri" validate:"required" mask:"true"`

	// Database is the database holding the files_metadata collection.
	Database string `yaml:"database" validate:"required"`

	// ConnectTimeout bounds the initial connection attempt.
	ConnectTimeout time.Duration `yaml:"connect_timeout" default:"10s"`

	// PingRetries is the number of readiness checks at startup.
	PingRetries int `yaml:"ping_retries" default:"5"`

	// PingRetryDelay is the delay between readiness checks.
	PingRetryDelay time.Duration `yaml:"ping_retry_delay" default:"2s"`
}
