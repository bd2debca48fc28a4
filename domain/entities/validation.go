package entities

// ValidationResult represents the outcome of a document validation.
type ValidationResult struct {
	Errors []ValidationError `json:"errors,omitempty"`
	Valid  bool              `json:"valid"`
}

// ValidationError represents a specific validation error.
type ValidationError struct {
	// Field is the dotted path of the offending value; empty for the root.
	Field   string `json:"field"`
	Message string `json:"message"`
}
