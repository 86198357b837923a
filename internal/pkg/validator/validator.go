package validator

import (
	"fmt"
	"strings"

	"github.com/futig/prompt-enhancer/internal/entity"
	"github.com/go-playground/validator/v10"
)

// Validator validates incoming API requests
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// ValidateEnhancePrompt checks the raw prompt and the requested variant
func (v *Validator) ValidateEnhancePrompt(req *entity.EnhancePromptRequest) error {
	if err := v.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", entity.ErrInvalidInput, describe(err))
	}

	if req.Variant != "" {
		if err := req.Variant.Validate(); err != nil {
			return fmt.Errorf("%w: %w", entity.ErrInvalidParameter, err)
		}
	}

	return nil
}

// ValidateFormat checks an export format
func (v *Validator) ValidateFormat(format entity.ResultFormat) error {
	if !format.IsValid() {
		return fmt.Errorf("%w: unsupported format %q (allowed: markdown, pdf, docx)", entity.ErrInvalidParameter, string(format))
	}
	return nil
}

func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
