package formatter

import (
	"bytes"
	"fmt"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", doc.Title)
	if doc.RawPrompt != "" {
		fmt.Fprintf(&buf, "> %s\n\n", doc.RawPrompt)
	}

	for _, s := range doc.Sections {
		fmt.Fprintf(&buf, "## %s\n\n", s.Heading)
		for _, line := range s.Lines {
			fmt.Fprintf(&buf, "%s\n", line)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
