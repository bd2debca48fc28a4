package entities

// RunnerConfig is the runner's configuration document.
type RunnerConfig struct {
	// Workers maps aliases to worker library or module paths.
	Workers map[string]string `yaml:"workers,omitempty" json:"workers,omitempty" validate:"omitempty,dive,keys,required,endkeys,required"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty" json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`

	// LogFormat is text or json.
	LogFormat string `yaml:"log_format,omitempty" json:"log_format,omitempty" validate:"omitempty,oneof=text json" jsonschema:"enum=text,enum=json"`

	// Worker is the default worker for run.
	Worker string `yaml:"worker,omitempty" json:"worker,omitempty"`

	// Left and Right are the default workers for compare.
	Left  string `yaml:"left,omitempty" json:"left,omitempty"`
	Right string `yaml:"right,omitempty" json:"right,omitempty"`

	// ExpectedAPIVersion is the worker API version the runner accepts.
	// Left unset it defaults to 1; an explicit 0 is rejected.
	ExpectedAPIVersion uint32 `yaml:"expected_api_version,omitempty" json:"expected_api_version,omitempty" validate:"gte=1" jsonschema:"minimum=1"`

	// MaxReplySize caps the reply size copied out of a worker.
	MaxReplySize uint32 `yaml:"max_reply_size,omitempty" json:"max_reply_size,omitempty" validate:"omitempty,gte=4,lte=2147483647"`
}
