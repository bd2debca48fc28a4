// Package config loads and validates runner configuration.
package config

import (
	stdErrors "errors"
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/shuv-amp/sp-differ/application/schema"
	"github.com/shuv-amp/sp-differ/application/validation"
	"github.com/shuv-amp/sp-differ/domain/entities"
	"github.com/shuv-amp/sp-differ/domain/errors"
	"github.com/shuv-amp/sp-differ/domain/ports"
	"github.com/shuv-amp/sp-differ/infrastructure/parser"
)

// Defaults applied to fields left empty.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultLeft      = "cpp"
	DefaultRight     = "rust"
	DefaultWorker    = "builtin"
)

// validate is a package-level singleton for better performance.
var validate = validator.New()

// documentValidator compiles the config schema once.
var documentValidator = sync.OnceValues(func() (ports.DocumentValidator, error) {
	out, err := Schema()
	if err != nil {
		return nil, err
	}
	return validation.NewSchemaValidator("sp-differ-config.json", out)
})

// Config is the runner configuration.
type Config = entities.RunnerConfig

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the YAML file at path, applies defaults and validates the
// result. An empty path yields Default().
func Load(path string) (*Config, error) {
	return LoadWith(parser.NewYamlConfigParser(), path)
}

// LoadWith is Load with an explicit parser.
func LoadWith(p ports.ConfigParser, path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.ConfigError{Err: fmt.Errorf("read %s: %w", path, err)}
	}

	doc, err := p.Document(data)
	if err != nil {
		return nil, &errors.ConfigError{Err: fmt.Errorf("parse %s: %w", path, err)}
	}
	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}

	cfg, err := p.Parse(data)
	if err != nil {
		return nil, &errors.ConfigError{Err: fmt.Errorf("parse %s: %w", path, err)}
	}

	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateDocument checks a decoded document against Schema. Unknown keys
// and wrongly typed values are reported before any struct decoding.
func ValidateDocument(doc any) error {
	v, err := documentValidator()
	if err != nil {
		return &errors.ConfigError{Err: fmt.Errorf("config schema: %w", err)}
	}
	res, err := v.Validate(doc)
	if err != nil {
		return &errors.ConfigError{Err: err}
	}
	if res.Valid {
		return nil
	}
	first := res.Errors[0]
	return &errors.ConfigError{Field: first.Field, Err: stdErrors.New(first.Message)}
}

// Validate checks cfg against its struct tags. The first failing field is
// reported as a *errors.ConfigError.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if stdErrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &errors.ConfigError{
			Field: fe.Namespace(),
			Err:   fmt.Errorf("failed on '%s' with value %v", fe.Tag(), fe.Value()),
		}
	}
	return &errors.ConfigError{Err: err}
}

// Schema returns the JSON Schema of the configuration document.
func Schema() ([]byte, error) {
	return schema.GenerateSchema(&Config{},
		schema.WithTitle("sp-differ-runner configuration"),
		schema.WithDescription("Worker aliases, compare defaults and logging for sp-differ-runner."),
	)
}

func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.Worker == "" {
		cfg.Worker = DefaultWorker
	}
	if cfg.Left == "" {
		cfg.Left = DefaultLeft
	}
	if cfg.Right == "" {
		cfg.Right = DefaultRight
	}
	if cfg.ExpectedAPIVersion == 0 {
		cfg.ExpectedAPIVersion = 1
	}
}
