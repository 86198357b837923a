package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/futig/prompt-enhancer/internal/entity"
)

const baseTitle = "Enhanced prompt"

type Formatter interface {
	Format(doc *Document) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format: %s", entity.ErrInvalidParameter, format)
	}
}

// Document is the format-independent rendering of an enhanced prompt
type Document struct {
	Title     string
	RawPrompt string
	Sections  []Section
}

// Section is a top-level key of the enhanced prompt with its rendered text
type Section struct {
	Heading string
	Lines   []string
}

// NewDocument renders the enhanced prompt of p as headed blocks of text.
// Object keys become headings (or "key: value" lines when nested), arrays
// become "- item" lines. Keys keep their document order.
func NewDocument(p *entity.Prompt) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(p.EnhancedPrompt))
	dec.UseNumber()
	value, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("decode enhanced prompt: %w", err)
	}

	doc := &Document{Title: baseTitle, RawPrompt: p.RawPrompt}

	obj, ok := value.(object)
	if !ok {
		doc.Sections = []Section{{Heading: "Result", Lines: renderValue(value, 0)}}
		return doc, nil
	}

	for _, f := range obj {
		doc.Sections = append(doc.Sections, Section{
			Heading: humanize(f.key),
			Lines:   renderValue(f.value, 0),
		})
	}

	return doc, nil
}

// object is a decoded JSON object with its keys in document order
type object []field

type field struct {
	key   string
	value any
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch tok {
	case json.Delim('{'):
		var obj object
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", keyTok)
			}
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj = append(obj, field{key: key, value: value})
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case json.Delim('['):
		arr := []any{}
		for dec.More() {
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return tok, nil
	}
}

func renderValue(v any, depth int) []string {
	indent := strings.Repeat("  ", depth)

	switch val := v.(type) {
	case object:
		var lines []string
		for _, f := range val {
			if isScalar(f.value) {
				lines = append(lines, fmt.Sprintf("%s%s: %s", indent, humanize(f.key), scalarText(f.value)))
				continue
			}
			lines = append(lines, fmt.Sprintf("%s%s:", indent, humanize(f.key)))
			lines = append(lines, renderValue(f.value, depth+1)...)
		}
		return lines
	case []any:
		var lines []string
		for _, item := range val {
			if isScalar(item) {
				lines = append(lines, fmt.Sprintf("%s- %s", indent, scalarText(item)))
				continue
			}
			lines = append(lines, renderValue(item, depth+1)...)
		}
		return lines
	default:
		return []string{indent + scalarText(val)}
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case object, []any:
		return false
	default:
		return true
	}
}

func scalarText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

// humanize turns "overall_mood" into "Overall mood"
func humanize(key string) string {
	s := strings.TrimSpace(strings.ReplaceAll(key, "_", " "))
	if s == "" {
		return key
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// Text joins the document body as plain text
func (d *Document) Text() string {
	var b strings.Builder
	for i, s := range d.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.Heading)
		b.WriteString("\n")
		for _, line := range s.Lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}
