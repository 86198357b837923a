package entity

import "encoding/json"

type EnhancePromptRequest struct {
	RawPrompt string  `json:"rawPrompt" validate:"required"`
	Variant   Variant `json:"-"`
}

type EnhancePromptResponse struct {
	ID             string          `json:"id"`
	EnhancedPrompt json.RawMessage `json:"enhancedPrompt"`
}

type ListPromptsRequest struct {
	Limit int
}

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

func (lp *ListPromptsRequest) Normalize() {
	if lp.Limit <= 0 {
		lp.Limit = DefaultListLimit
	}

	lp.Limit = min(lp.Limit, MaxListLimit)
}

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

// ExportResult is an enhanced prompt rendered into a downloadable document
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}
