package events

import (
	"github.com/IBM/sarama"
	"github.com/code19m/errx"
)

// Config holds configuration for the Kafka event publisher.
type Config struct {
	// Enabled toggles event publishing. When false the service uses a Nop
	// publisher and the broker settings are ignored.
	Enabled bool `yaml:"enabled" default:"false"`

	// Brokers is a comma-separated list of Kafka broker addresses.
	Brokers string `yaml:"brokers" validate:"required_if=Enabled true"`

	// Topic is the destination topic for lifecycle events.
	Topic string `yaml:"topic" default:"storage.file-events"`

	// ClientID identifies this producer to the brokers.
	ClientID string `yaml:"client_id" default:"storage-service"`

	SaslUsername string `yaml:"sasl_username"`
	SaslPassword string `yaml:"sasl_password" mask:"true"`

	KafkaVersion string `yaml:"kafka_version" default:"3.6.0"`
}

func (c Config) getSaramaConfig() (*sarama.Config, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.ClientID = c.ClientID

	version, err := sarama.ParseKafkaVersion(c.KafkaVersion)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	saramaCfg.Version = version

	// Currently support only SASL_PLAINTEXT authentication.
	if c.SaslUsername != "" && c.SaslPassword != "" {
		saramaCfg.Net.SASL.Enable = true
		saramaCfg.Net.SASL.User = c.SaslUsername
		saramaCfg.Net.SASL.Password = c.SaslPassword
		saramaCfg.Net.SASL.Mechanism = sarama.SASLTypePlaintext
	}

	// Required for the sync producer.
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.Return.Errors = true

	return saramaCfg, nil
}
