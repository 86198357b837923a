package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// Variant selects how a completion is turned into an enhanced prompt
type Variant string

const (
	// VariantJSON expects the model to answer with a JSON document
	VariantJSON Variant = "json"
	// VariantTemplate expects bracket-headed sections, e.g. "[SUBJECT] ..."
	VariantTemplate Variant = "template"
)

func (v Variant) Validate() error {
	switch v {
	case VariantJSON, VariantTemplate:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVariant, string(v))
	}
}

// Prompt is a stored raw/enhanced pair. Records are immutable once created.
type Prompt struct {
	ID             string          `json:"id"`
	RawPrompt      string          `json:"rawPrompt"`
	EnhancedPrompt json.RawMessage `json:"enhancedPrompt"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Section is a named block of the template variant output
type Section struct {
	Key    string `yaml:"key"`
	Header string `yaml:"header"`
}

// Instruction is the fixed instruction set sent to the model for one variant
type Instruction struct {
	Variant      Variant   `yaml:"variant"`
	SystemPrompt string    `yaml:"system_prompt"`
	UserPrefix   string    `yaml:"user_prefix"`
	Sections     []Section `yaml:"sections,omitempty"`
}
