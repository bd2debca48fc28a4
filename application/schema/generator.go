// Package schema generates JSON schemas for runner documents.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Option configures GenerateSchema.
type Option func(*generatorConfig)

type generatorConfig struct {
	id          string
	title       string
	description string
}

// WithID sets the schema $id.
func WithID(id string) Option {
	return func(c *generatorConfig) {
		c.id = id
	}
}

// WithTitle sets the schema title.
func WithTitle(title string) Option {
	return func(c *generatorConfig) {
		c.title = title
	}
}

// WithDescription sets the schema description.
func WithDescription(description string) Option {
	return func(c *generatorConfig) {
		c.description = description
	}
}

// GenerateSchema creates a JSON schema (Draft 2020-12) from a Go struct.
// Struct definitions are expanded inline and unknown properties are
// rejected.
func GenerateSchema(v interface{}, opts ...Option) ([]byte, error) {
	var cfg generatorConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(v)
	if cfg.id != "" {
		schema.ID = jsonschema.ID(cfg.id)
	}
	if cfg.title != "" {
		schema.Title = cfg.title
	}
	if cfg.description != "" {
		schema.Description = cfg.description
	}

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return jsonBytes, nil
}
