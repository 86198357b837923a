package entity

import "errors"

// Domain errors
var (
	// Prompt errors
	ErrPromptNotFound = errors.New("prompt not found")
	ErrPromptExists   = errors.New("prompt already exists")

	// Enhancement errors
	ErrMissingAPIKey   = errors.New("LLM API key is not configured")
	ErrUpstream        = errors.New("LLM API error")
	ErrEmptyCompletion = errors.New("no content received from LLM API")
	ErrParse           = errors.New("failed to parse enhanced prompt")
	ErrUnknownVariant  = errors.New("unknown enhancement variant")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidInput     = errors.New("raw prompt is required and must be a string")
	ErrInvalidParameter = errors.New("invalid parameter")
)
