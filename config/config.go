// Package config assembles the service configuration from environment
// specific YAML files.
package config

import (
	"github.com/guapman/storage-service/blob/miniowr"
	"github.com/guapman/storage-service/events"
	"github.com/guapman/storage-service/httpapi"
	"github.com/guapman/storage-service/logger"
	"github.com/guapman/storage-service/metadata/mongowr"
)

// Config is the root configuration of the service.
type Config struct {
	ServiceName string `yaml:"service_name" default:"storage-service"`

	Logger logger.Config  `yaml:"logger"`
	HTTP   httpapi.Config `yaml:"http"`
	Minio  miniowr.Config `yaml:"minio"`
	Mongo  mongowr.Config `yaml:"mongo"`
	Kafka  events.Config  `yaml:"kafka"`
}
