package httpapi

import (
	"fmt"
	"time"
)

// Config defines configuration options for the HTTP server.
type Config struct {
	// HideErrorDetails is a flag to hide error traces and details in responses.
	HideErrorDetails bool `yaml:"hide_error_details"`

	// Host address to bind the server to (required).
	Host string `yaml:"host" validate:"required"`

	// Port number to listen on (required).
	Port int `yaml:"port" validate:"required"`

	// ReadTimeout is a maximum duration for reading the entire request.
	// Uploads stream through this window, so it is generous by default.
	ReadTimeout time.Duration `yaml:"read_timeout" validate:"required" default:"300s"`

	// WriteTimeout is a maximum duration before timing out writes of the response.
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"required" default:"300s"`

	// IdleTimeout is a maximum amount of time to wait for the next request. Default is 120 seconds.
	IdleTimeout time.Duration `yaml:"idle_timeout" validate:"required" default:"120s"`

	// BodyLimit is the maximum request body size in bytes. Default is 1GiB.
	BodyLimit int `yaml:"body_limit" validate:"required" default:"1073741824"`

	// MaxTags caps how many tags one upload or listing query may carry.
	MaxTags int `yaml:"max_tags" validate:"required" default:"10"`

	// MaxPageSize caps the page size on listing endpoints.
	MaxPageSize int `yaml:"max_page_size" validate:"required" default:"100"`
}

// Address returns the server's listen address in the form "host:port".
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
