package services

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFParserService validates uploaded resumes and extracts their text when
// the scoring model does not return the extracted content itself.
type PDFParserService interface {
	Validate(filePath string) error
	ExtractText(filePath string) (string, error)
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

// Validate checks that the file is a readable PDF with at least one page.
func (p *pdfParserService) Validate(filePath string) error {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return fmt.Errorf("not a readable PDF: %w", err)
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return fmt.Errorf("PDF has no pages")
	}
	return nil
}

func (p *pdfParserService) ExtractText(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := strings.TrimSpace(textBuilder.String())
	if text == "" {
		return "", fmt.Errorf("no text content found in PDF")
	}

	return text, nil
}
