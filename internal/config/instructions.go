package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/futig/prompt-enhancer/internal/entity"
	"gopkg.in/yaml.v3"
)

//go:embed instructions.yaml
var defaultInstructions []byte

// instructionsFile represents the structure of instructions.yaml
type instructionsFile struct {
	Instructions []entity.Instruction `yaml:"instructions"`
}

// LoadInstructions returns the built-in instruction set, overridden per
// variant by the entries of path when path is set.
func LoadInstructions(path string) (map[entity.Variant]entity.Instruction, error) {
	result := make(map[entity.Variant]entity.Instruction)
	if err := mergeInstructions(result, defaultInstructions); err != nil {
		return nil, fmt.Errorf("parse built-in instructions: %w", err)
	}

	if path == "" {
		return result, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instructions file: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("instructions file is empty: %s", path)
	}

	if err := mergeInstructions(result, data); err != nil {
		return nil, fmt.Errorf("parse instructions file %s: %w", path, err)
	}

	return result, nil
}

func mergeInstructions(dst map[entity.Variant]entity.Instruction, data []byte) error {
	var file instructionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}

	for _, ins := range file.Instructions {
		if err := ins.Variant.Validate(); err != nil {
			return err
		}
		if ins.SystemPrompt == "" {
			return fmt.Errorf("%w: system_prompt for variant %s", entity.ErrMissingField, ins.Variant)
		}
		if ins.Variant == entity.VariantTemplate && len(ins.Sections) == 0 {
			return fmt.Errorf("%w: sections for variant %s", entity.ErrMissingField, ins.Variant)
		}
		dst[ins.Variant] = ins
	}

	return nil
}
