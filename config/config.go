package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"

	"github.com/angeloszaimis/netcheck/internal/report"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type TargetsConfig struct {
	HubStatus     string `mapstructure:"hub_status"`
	RailsAutomate string `mapstructure:"rails_automate"`
}

type RequestConfig struct {
	Timeout string `mapstructure:"timeout"`
}

// ProxyConfig describes the forward proxy. An empty Host means no proxy.
type ProxyConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

func (p ProxyConfig) Enabled() bool {
	return p.Host != ""
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type ReportConfig struct {
	Topic  string `mapstructure:"topic"`
	Format string `mapstructure:"format"`
}

type Config struct {
	Environment string        `mapstructure:"environment"`
	Targets     TargetsConfig `mapstructure:"targets"`
	Request     RequestConfig `mapstructure:"request"`
	Proxy       ProxyConfig   `mapstructure:"proxy"`
	Logging     LoggingConfig `mapstructure:"logging"`
	Report      ReportConfig  `mapstructure:"report"`
}

// Load reads the configuration. When path is empty, config.yaml is looked up
// in ./config and the working directory; a missing file is not an error.
// Environment variables override file values, e.g. PROXY_HOST or
// REQUEST_TIMEOUT.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("environment", EnvDev)
	v.SetDefault("targets.hub_status", "")
	v.SetDefault("targets.rails_automate", "")
	v.SetDefault("request.timeout", "5s")
	v.SetDefault("proxy.host", "")
	v.SetDefault("proxy.port", 3128)
	v.SetDefault("proxy.username", "")
	v.SetDefault("proxy.password", "")
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("report.topic", "connectivity-check")
	v.SetDefault("report.format", report.FormatTable)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, fmt.Errorf("read config: %w", err)
		}
		slog.Debug("config file not found, using defaults and environment variables")
	} else {
		slog.Debug("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// RequestTimeout returns the parsed request timeout. Validate guarantees it
// parses.
func (c *Config) RequestTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Request.Timeout)
	return d
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Environment,
			validation.Required,
			validation.In(EnvDev, EnvStaging, EnvProd),
		),
		validation.Field(&c.Targets,
			validation.By(func(value interface{}) error {
				tc, ok := value.(TargetsConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a TargetsConfig")
				}
				return validation.ValidateStruct(&tc,
					validation.Field(&tc.HubStatus,
						validation.Required,
						validation.By(validateTargetURL),
					),
					validation.Field(&tc.RailsAutomate,
						validation.Required,
						validation.By(validateTargetURL),
					),
				)
			}),
		),
		validation.Field(&c.Request,
			validation.By(func(value interface{}) error {
				rc, ok := value.(RequestConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a RequestConfig")
				}
				return validation.ValidateStruct(&rc,
					validation.Field(&rc.Timeout,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
		validation.Field(&c.Proxy,
			validation.By(validateProxy),
		),
		validation.Field(&c.Logging,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.Report,
			validation.By(func(value interface{}) error {
				rc, ok := value.(ReportConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ReportConfig")
				}
				return validation.ValidateStruct(&rc,
					validation.Field(&rc.Topic, validation.Required),
					validation.Field(&rc.Format,
						validation.Required,
						validation.In(report.Formats...),
					),
				)
			}),
		),
	)
}

func validateProxy(value interface{}) error {
	pc, ok := value.(ProxyConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a ProxyConfig")
	}

	if !pc.Enabled() {
		return nil
	}

	return validation.ValidateStruct(&pc,
		validation.Field(&pc.Host,
			validation.By(func(value interface{}) error {
				host, _ := value.(string)
				if net.ParseIP(host) != nil {
					return nil
				}
				if err := is.Host.Validate(host); err != nil {
					return validation.NewError("validation_invalid_host", "invalid host")
				}
				return nil
			}),
		),
		validation.Field(&pc.Port,
			validation.Required,
			validation.Min(1),
			validation.Max(65535),
		),
	)
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}

	if d <= 0 {
		return validation.NewError("validation_invalid_duration", "must be positive")
	}

	return nil
}

func validateTargetURL(value interface{}) error {
	targetURL, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if targetURL == "" {
		return nil
	}

	parsedURL, err := url.Parse(targetURL)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if parsedURL.Hostname() == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	return nil
}
