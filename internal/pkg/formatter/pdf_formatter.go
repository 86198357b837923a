package formatter

import (
	"bytes"
	"os"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the gofpdf family name of the UTF-8 font
	pdfFontName = "DejaVuSans"

	// The container image ships the font next to the binary; the source
	// path is used by `go run` from the repository root.
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"
	pdfFontSourcePath  = "internal/pkg/formatter/ttf/DejaVuSans.ttf"
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

func resolveFontPath() string {
	for _, path := range []string{pdfFontRuntimePath, pdfFontSourcePath} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func (f *PDFFormatter) Format(doc *Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Core fonts only cover latin-1; prefer the bundled UTF-8 font.
	fontName := "Arial"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if fontPath := resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		pdf.AddUTF8Font(pdfFontName, "I", fontPath)
		fontName = pdfFontName
		tr = func(s string) string { return s }
	}

	pdf.SetFont(fontName, "B", 20)
	pdf.Cell(0, 10, tr(doc.Title))
	pdf.Ln(12)

	if doc.RawPrompt != "" {
		pdf.SetFont(fontName, "I", 11)
		_, lh := pdf.GetFontSize()
		pdf.MultiCell(0, lh*1.5, tr(doc.RawPrompt), "", "", false)
		pdf.Ln(4)
	}

	for _, s := range doc.Sections {
		pdf.SetFont(fontName, "B", 14)
		pdf.Cell(0, 8, tr(s.Heading))
		pdf.Ln(9)

		pdf.SetFont(fontName, "", 11)
		_, lh := pdf.GetFontSize()
		for _, line := range s.Lines {
			pdf.MultiCell(0, lh*1.5, tr(line), "", "", false)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (f *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
