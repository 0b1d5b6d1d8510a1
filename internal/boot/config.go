package boot

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/sethvargo/go-envconfig"
	"uk.co.dudmesh.multisig/internal/model"
)

type Config struct {
	Env        string `env:"ENV,default=dev"`
	DataDir    string `env:"DATA_DIR,default=./data_store"`
	LogLevel   string `env:"LOG_LEVEL,default=info"`
	ConfigFile string `env:"CONFIG_FILE"`
	Server     struct {
		Host        string `env:"HOST,default=::1"`
		Port        string `env:"PORT,default=6667"`
		MetricsPort string `env:"METRICS_PORT,default=8081"`
	}
	Store struct {
		Backend string `env:"STORE_BACKEND,default=sqlite"`
	}
	Retention struct {
		Duration         time.Duration `env:"RETENTION_DURATION,default=720h"`
		AcceptanceWindow time.Duration `env:"ACCEPTANCE_WINDOW,default=24h"`
		SweepInterval    time.Duration `env:"SWEEP_INTERVAL,default=240h"`
	}
}

// Load reads the environment and then applies the YAML override file, if
// one is named by configFile or CONFIG_FILE.
func Load(configFile string) (*Config, error) {
	config := &Config{}
	if err := envconfig.Process(context.Background(), config); err != nil {
		return nil, fmt.Errorf("parsing env vars: %w", err)
	}

	if configFile != "" {
		config.ConfigFile = configFile
	}
	if config.ConfigFile != "" {
		overrides, err := LoadOverrides(config.ConfigFile)
		if err != nil {
			return nil, err
		}
		overrides.ApplyTo(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.Retention.Duration <= 0 {
		return fmt.Errorf("retention duration must be positive, got %s", c.Retention.Duration)
	}
	if c.Retention.AcceptanceWindow < 0 {
		return fmt.Errorf("acceptance window must not be negative, got %s", c.Retention.AcceptanceWindow)
	}
	if c.Retention.SweepInterval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", c.Retention.SweepInterval)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "dev"
}

func (c *Config) DataDirectory() string {
	return c.DataDir
}

func (c *Config) StoreBackend() string {
	return c.Store.Backend
}

func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

func (c *Config) MetricsAddress() string {
	return ":" + c.Server.MetricsPort
}

func (c *Config) SweepInterval() time.Duration {
	return c.Retention.SweepInterval
}

func (c *Config) Settings() model.Settings {
	return model.Settings{
		RetentionDuration: c.Retention.Duration,
		AcceptanceWindow:  c.Retention.AcceptanceWindow,
	}
}

func (c *Config) Level() log.Lvl {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
