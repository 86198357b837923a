package formatter

import (
	"bytes"

	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (f *DOCXFormatter) Format(d *Document) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	title := doc.AddParagraph()
	title.SetStyle("Heading1")
	title.AddRun().AddText(d.Title)

	if d.RawPrompt != "" {
		quote := doc.AddParagraph()
		run := quote.AddRun()
		run.Properties().SetItalic(true)
		run.AddText(d.RawPrompt)
	}

	for _, s := range d.Sections {
		heading := doc.AddParagraph()
		heading.SetStyle("Heading2")
		heading.AddRun().AddText(s.Heading)

		for _, line := range s.Lines {
			doc.AddParagraph().AddRun().AddText(line)
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (f *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
