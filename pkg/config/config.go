package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "WORDFILTER_"

type Config struct {
	ServiceName string `toml:"serviceName"`
	TermsPath   string `toml:"termsPath"`
	Placeholder string `toml:"placeholder"`

	HTTPAddr        string `toml:"httpAddr"`
	LogLevel        string `toml:"logLevel"`
	KafkaAddr       string `toml:"kafkaAddr"`
	KafkaTopic      string `toml:"kafkaTopic"`
	KafkaAuditTopic string `toml:"kafkaAuditTopic"`
	KafkaBatch      int    `toml:"kafkaBatch"`
}

func Default() Config {
	return Config{
		ServiceName: "wordfilter",
		HTTPAddr:    ":8055",
		LogLevel:    "info",
	}
}

// Load decodes the TOML file at path over the defaults and then applies
// WORDFILTER_* environment overrides. A .env file in the working directory
// is loaded first if present. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("[config] failed to load .env: %v", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"SERVICE_NAME":      &c.ServiceName,
		"TERMS_PATH":        &c.TermsPath,
		"PLACEHOLDER":       &c.Placeholder,
		"HTTP_ADDR":         &c.HTTPAddr,
		"LOG_LEVEL":         &c.LogLevel,
		"KAFKA_ADDR":        &c.KafkaAddr,
		"KAFKA_TOPIC":       &c.KafkaTopic,
		"KAFKA_AUDIT_TOPIC": &c.KafkaAuditTopic,
	}
	for key, dst := range strs {
		if v := strings.TrimSpace(os.Getenv(envPrefix + key)); v != "" {
			*dst = v
		}
	}

	if v := strings.TrimSpace(os.Getenv(envPrefix + "KAFKA_BATCH")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sKAFKA_BATCH %q: %w", envPrefix, v, err)
		}
		c.KafkaBatch = n
	}

	return nil
}

// Level parses LogLevel, falling back to info for unknown values.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		log.Warnf("[config] unknown log level %q, using info", c.LogLevel)
		return log.InfoLevel
	}
	return lvl
}
