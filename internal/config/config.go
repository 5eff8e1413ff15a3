package config

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/overwin/sqlb"
	"github.com/overwin/sqlb/internal/logger"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix  = "SQLBPAGE"
	EnvDSN     = EnvPrefix + "_DSN"
	EnvDialect = EnvPrefix + "_DIALECT"

	DefaultLimit       = 50
	DefaultConcurrency = 4

	redacted = "<redacted>"
)

type Config struct {
	Dialect     string              `yaml:"dialect" validate:"required"`
	DSN         string              `yaml:"dsn" validate:"required"`
	Query       string              `yaml:"query" validate:"required"`
	Args        []any               `yaml:"args,omitempty"`
	Order       []string            `yaml:"order,omitempty"`
	Offset      uint64              `yaml:"offset,omitempty"`
	Limit       uint64              `yaml:"limit,omitempty" validate:"min=1,max=10000"`
	Pages       int                 `yaml:"pages,omitempty" validate:"min=1,max=1000"`
	Concurrency int                 `yaml:"concurrency,omitempty" validate:"min=1,max=64"`
	Logger      logger.LoggerConfig `yaml:"logger" validate:"-"`
}

// Load reads the YAML file at path, applies environment overrides and
// defaults, then validates the result.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	return decode(v)
}

// Parse is Load without the file.
func Parse(content []byte) (*Config, error) {
	v := newViper()
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return decode(v)
}

/*
Keys are read from the environment as SQLBPAGE_<KEY>, with dots in nested keys
replaced by underscores. Empty variables are ignored. The DSN and dialect are
bound explicitly so that they apply even when the file omits them.
*/
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	_ = v.BindEnv("dsn")
	_ = v.BindEnv("dialect")
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config, decodeYAMLTags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func decodeYAMLTags(conf *mapstructure.DecoderConfig) { conf.TagName = "yaml" }

// Dump writes the config as YAML with the DSN redacted.
func (c *Config) Dump(out io.Writer) error {
	dump := *c
	if dump.DSN != "" {
		dump.DSN = redacted
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(dump); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}

func (c *Config) setDefaults() {
	if c.Limit == 0 {
		c.Limit = DefaultLimit
	}
	if c.Pages == 0 {
		c.Pages = 1
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
}

// Validate checks struct tags, then the fields that need parsing.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}

	if _, err := c.ParsedDialect(); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}

	var ords sqlb.Ords
	if err := ords.Parse(c.Order...); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	return nil
}

func (c *Config) ParsedDialect() (sqlb.Dialect, error) {
	return sqlb.ParseDialect(c.Dialect)
}

// DriverName returns the database/sql driver registered for the dialect.
func (c *Config) DriverName() (string, error) {
	dialect, err := c.ParsedDialect()
	if err != nil {
		return "", err
	}

	switch dialect {
	case sqlb.Postgres:
		return "postgres", nil
	case sqlb.MySQL:
		return "mysql", nil
	default:
		return "", fmt.Errorf("no driver for dialect %v", dialect)
	}
}

// Paginated builds the first page query: the configured query with its
// arguments, followed by the configured orderings.
func (c *Config) Paginated() (sqlb.Paginated, error) {
	var ords sqlb.Ords
	if err := ords.Parse(c.Order...); err != nil {
		return sqlb.Paginated{}, err
	}

	inner := sqlb.Exprs{sqlb.ListQ(c.Query, c.Args...)}
	if !ords.IsEmpty() {
		inner = append(inner, ords)
	}
	return sqlb.Paginate(inner, c.Offset, c.Limit), nil
}
