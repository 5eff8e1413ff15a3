package logger

import (
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type LoggerConfig struct {
	Level       string         `yaml:"level,omitempty" validate:"oneof=trace debug info warn error"`
	Format      string         `yaml:"format,omitempty" validate:"oneof=json console"`
	TimeFormat  string         `yaml:"time_format,omitempty" validate:"oneof=rfc3339 rfc3339nano unix unix_ms"`
	ServiceName string         `yaml:"service_name,omitempty"`
	Env         string         `yaml:"env,omitempty" validate:"oneof=dev staging prod"`
	WithCaller  bool           `yaml:"with_caller,omitempty"`
	Fields      map[string]any `yaml:"fields,omitempty"`
}

// New builds a logger writing to out. The level applies to the returned logger
// only; the global level is untouched.
func New(conf *LoggerConfig, out io.Writer) (logger zerolog.Logger, err error) {
	conf.setDefaults()

	if err = validator.New().Struct(conf); err != nil {
		return logger, fmt.Errorf("logger config validation error: %w", err)
	}

	level, err := zerolog.ParseLevel(conf.Level)
	if err != nil {
		return logger, err
	}

	writer := out
	if conf.Format == "console" {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    conf.Env != "dev",
			TimeFormat: consoleTimeFormat(conf.TimeFormat),
		}
	}

	ctx := zerolog.New(writer).With().
		Timestamp().
		Str("service", conf.ServiceName).
		Str("env", conf.Env)

	if conf.WithCaller {
		ctx = ctx.Caller()
	}
	if len(conf.Fields) > 0 {
		ctx = ctx.Fields(conf.Fields)
	}

	return ctx.Logger().Level(level), nil
}

// ApplyTimeFormat sets zerolog's package-global timestamp format.
func ApplyTimeFormat(conf *LoggerConfig) {
	switch conf.TimeFormat {
	case "unix":
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	case "unix_ms":
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	case "rfc3339":
		zerolog.TimeFieldFormat = time.RFC3339
	default:
		zerolog.TimeFieldFormat = time.RFC3339Nano
	}
}

func consoleTimeFormat(val string) string {
	switch val {
	case "rfc3339":
		return time.RFC3339
	case "rfc3339nano":
		return time.RFC3339Nano
	default:
		return time.Kitchen
	}
}

func (c *LoggerConfig) setDefaults() {
	if c.Env == "" {
		c.Env = "prod"
	}

	// level defaults depend on environment
	if c.Level == "" {
		if c.Env == "dev" {
			c.Level = "debug"
		} else {
			c.Level = "info"
		}
	}

	if c.Format == "" {
		if c.Env == "dev" {
			c.Format = "console"
		} else {
			c.Format = "json"
		}
	}

	if c.TimeFormat == "" {
		c.TimeFormat = "rfc3339nano"
	}
	if !c.WithCaller && c.Env == "dev" {
		c.WithCaller = true
	}
	if c.ServiceName == "" {
		c.ServiceName = "sqlbpage"
	}
}
