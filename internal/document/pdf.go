package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

func extractPDF(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", nil
	}

	// The pdf package panics on some malformed object graphs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = newExtractionError(FormatPDF, fmt.Errorf("unreadable page stream: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", newExtractionError(FormatPDF, err)
	}

	var builder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(pageText)
	}

	return builder.String(), nil
}
