package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Recognized values of the ENVIRONMENT variable.
const (
	EnvProduction = "production"
	EnvStaging    = "staging"
	EnvDev        = "dev"
	EnvLocal      = "local"
	EnvTest       = "test"
)

// MustLoad reads ./config/${ENVIRONMENT}.yaml, expands ${VAR} references
// from the process environment (a .env file is honored when present),
// applies `default` struct tags and validates the result. Any problem is
// fatal: a service with broken configuration must not start.
func MustLoad() Config {
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if !slices.Contains([]string{EnvProduction, EnvStaging, EnvDev, EnvLocal, EnvTest}, env) {
		fail("ENVIRONMENT variable is not set or invalid; choices are: production, staging, dev, local, test")
	}

	path := fmt.Sprintf("./config/%s.yaml", env)
	data, err := os.ReadFile(path)
	if err != nil {
		fail(fmt.Sprintf("cannot read config file %s: %v", path, err))
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		fail(fmt.Sprintf("cannot parse %s: %v", path, err))
	}

	if err := defaults.Set(&cfg); err != nil {
		fail(fmt.Sprintf("cannot apply config defaults: %v", err))
	}

	validate(&cfg, env)

	printConfig(&cfg)

	return cfg
}

func validate(cfg *Config, env string) {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(cfg)
	if err == nil {
		return
	}

	errs, ok := err.(validator.ValidationErrors) //nolint: errorlint // validator returns this concrete type
	if !ok {
		fail(fmt.Sprintf("config validation failed: %v", err))
	}

	for _, fe := range errs {
		tag := fe.Tag()
		if fe.Param() != "" {
			tag = fmt.Sprintf("%s=%s", tag, fe.Param())
		}
		slog.Error(fmt.Sprintf("invalid %s config field %s: %s", env, fe.Namespace(), tag))
	}
	os.Exit(1)
}

func fail(msg string) {
	slog.Error("[config]: " + msg)
	os.Exit(1)
}
