// internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Slade66/number-generator/pkg/run"
)

const EnvPrefix = "NUMGEN"

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	Stream   string `mapstructure:"stream"`
	Group    string `mapstructure:"group"`
}

type OBSConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	AK       string `mapstructure:"ak"`
	SK       string `mapstructure:"sk"`
	Bucket   string `mapstructure:"bucket"`
}

// Enabled reports whether reports should be uploaded to OBS.
func (c OBSConfig) Enabled() bool {
	return c.Endpoint != "" && c.AK != "" && c.SK != "" && c.Bucket != ""
}

type HTTPConfig struct {
	Addr        string `mapstructure:"addr"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// Config is shared by the CLI, the API and the worker.
type Config struct {
	DelayMs   int                `mapstructure:"delay_ms"`
	Seed      int32              `mapstructure:"seed"`
	Observers []run.ObserverSpec `mapstructure:"observers"`
	LogLevel  string             `mapstructure:"log_level"`
	Redis     RedisConfig        `mapstructure:"redis"`
	OBS       OBSConfig          `mapstructure:"obs"`
	HTTP      HTTPConfig         `mapstructure:"http"`

	// HasSeed is false when no seed was configured and a time derived one is used.
	HasSeed bool `mapstructure:"-"`
}

// NewViper returns a viper instance with defaults and environment bindings.
// configFile is optional.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("delay_ms", 500)
	v.SetDefault("log_level", "info")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.stream", "generation_runs")
	v.SetDefault("redis.group", "generator-group")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.metrics_addr", ":9090")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// no default on purpose: an unset seed means a time derived one
	if err := v.BindEnv("seed"); err != nil {
		return nil, fmt.Errorf("bind seed: %w", err)
	}
	// the deployment names used by the existing services
	for key, env := range map[string]string{
		"redis.addr":     "REDIS_ADDR",
		"redis.password": "REDIS_PASSWORD",
		"obs.endpoint":   "OBS_ENDPOINT",
		"obs.ak":         "OBS_AK",
		"obs.sk":         "OBS_SK",
		"obs.bucket":     "OBS_BUCKET",
	} {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	return v, nil
}

// Load decodes the configuration from v.
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	c.HasSeed = v.IsSet("seed")
	if len(c.Observers) == 0 {
		c.Observers = run.DefaultObservers()
	}
	if c.DelayMs < 0 {
		return nil, fmt.Errorf("delay_ms must not be negative, got %d", c.DelayMs)
	}
	return &c, nil
}

// Request turns the local configuration into a run request.
func (c *Config) Request() *run.Request {
	req := &run.Request{
		DelayMs:   c.DelayMs,
		Observers: c.Observers,
	}
	if c.HasSeed {
		seed := c.Seed
		req.Seed = &seed
	}
	return req
}
