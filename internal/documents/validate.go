package documents

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var pdfMagic = []byte("%PDF-")

// ValidatePDF checks that data is a parseable PDF and returns its page count.
// Returns ErrNotPDF when the file is not a PDF, ErrInvalidFile when the PDF
// cannot be parsed or is empty.
func ValidatePDF(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, ErrInvalidFile
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return 0, ErrNotPDF
	}

	count, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if count == 0 {
		return 0, fmt.Errorf("%w: document has no pages", ErrInvalidFile)
	}
	return count, nil
}
