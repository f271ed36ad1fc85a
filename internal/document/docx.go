package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var errNoBody = errors.New("word/document.xml has no body element")

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", newExtractionError(FormatDOCX, err)
	}
	defer doc.Close()

	text, err := paragraphText(doc.Editable().GetContent())
	if err != nil {
		return "", newExtractionError(FormatDOCX, err)
	}

	return text, nil
}

// paragraphText walks WordprocessingML and writes every paragraph followed by a line break.
// Empty paragraphs become empty lines.
func paragraphText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	dec.Strict = false

	var (
		builder strings.Builder
		current strings.Builder
		depth   int
		props   int
		inText  bool
		sawBody bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "body":
				sawBody = true
			case "p":
				depth++
			case "pPr", "rPr":
				props++
			case "t":
				inText = depth > 0
			case "tab":
				// Tab stops inside paragraph properties are layout, not text.
				if depth > 0 && props == 0 {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if depth > 0 {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "pPr", "rPr":
				props--
			case "t":
				inText = false
			case "p":
				if depth == 0 {
					continue
				}
				depth--
				// Paragraphs nested in text boxes are flushed with their outer paragraph.
				if depth == 0 {
					builder.WriteString(current.String())
					builder.WriteByte('\n')
					current.Reset()
				}
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	if !sawBody {
		return "", errNoBody
	}

	return builder.String(), nil
}
