// Package completion turns raw model completions into enhanced prompts.
package completion

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/futig/prompt-enhancer/internal/entity"
)

const fence = "```"

// StripCodeFence removes a markdown code fence wrapped around text. The
// opening fence may carry a language tag ("```json").
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, fence) {
		return text
	}

	text = strings.TrimPrefix(text, fence)
	text = strings.TrimLeftFunc(text, isLangTagRune)
	text = strings.TrimSuffix(strings.TrimSpace(text), fence)

	return strings.TrimSpace(text)
}

func isLangTagRune(r rune) bool {
	return r == '-' || r == '_' || r == '+' ||
		('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}

// ParseJSON validates a cleaned completion as a JSON document and returns
// it unchanged.
func ParseJSON(text string) (json.RawMessage, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty document", entity.ErrParse)
	}

	var doc json.RawMessage
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("%w as JSON: %v", entity.ErrParse, err)
	}

	return doc, nil
}

// headerPattern matches "[NAME] rest", tolerating markdown decoration such
// as "**[NAME]**" or "## [NAME]".
var headerPattern = regexp.MustCompile(`^[#*\s]*\[([^\[\]]+)\][*:\s]*(.*)$`)

// ParseSections splits a templated completion into the given sections. Every
// section is present in the result; sections the model left out are empty.
// A completion without any known header is a parse error.
func ParseSections(text string, sections []entity.Section) (map[string]string, error) {
	keys := make(map[string]string, len(sections))
	for _, s := range sections {
		keys[normalizeHeader(s.Header)] = s.Key
	}

	bodies := make(map[string]*strings.Builder, len(sections))
	var current *strings.Builder

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")

		var (
			key   string
			known bool
		)
		m := headerPattern.FindStringSubmatch(line)
		if m != nil {
			key, known = keys[normalizeHeader(m[1])]
		}

		// Bracketed text that names no section ("[f/2.8] exposure") is body.
		if !known {
			if current != nil {
				current.WriteString(line)
				current.WriteByte('\n')
			}
			continue
		}

		current = &strings.Builder{}
		bodies[key] = current
		if m[2] != "" {
			current.WriteString(m[2])
			current.WriteByte('\n')
		}
	}

	if len(bodies) == 0 {
		return nil, fmt.Errorf("%w: no template sections found", entity.ErrParse)
	}

	result := make(map[string]string, len(sections))
	for _, s := range sections {
		if b, ok := bodies[s.Key]; ok {
			result[s.Key] = strings.TrimSpace(b.String())
		} else {
			result[s.Key] = ""
		}
	}

	return result, nil
}

func normalizeHeader(h string) string {
	return strings.ToUpper(strings.Join(strings.Fields(h), " "))
}
