// Package document turns uploaded job descriptions and résumés into plain text.
// Extraction is best effort: failures are reported as warnings together with
// whatever text could be recovered.
package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var (
	// ResumeExtensions lists the file types accepted for résumé uploads.
	ResumeExtensions = []string{".pdf"}
	// JobDescriptionExtensions lists the file types accepted for job description uploads.
	JobDescriptionExtensions = []string{".txt", ".pdf", ".md", ".doc", ".docx"}
)

// Extract returns the text of the named file content. The returned error is a
// warning: processing may continue with the (possibly empty) text.
func Extract(name string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDocx(data)
	default:
		return decodeText(data), nil
	}
}

// Accepts reports whether name has one of the given extensions.
func Accepts(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// decodeText reads data as UTF-8, dropping bytes that do not decode.
func decodeText(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}

func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("could not parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("could not parse pdf: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			content = ""
		}
		pages = append(pages, content)
	}

	return strings.Join(pages, "\n"), nil
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("could not parse docx: %w", err)
	}
	defer doc.Close()

	text, err := paragraphText(doc.Editable().GetContent())
	if err != nil {
		return text, fmt.Errorf("could not parse docx: %w", err)
	}

	return text, nil
}

// paragraphText collects the character data of a WordprocessingML body,
// one line per paragraph.
func paragraphText(body string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(body))

	var (
		sb     strings.Builder
		inText bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return strings.TrimSpace(sb.String()), err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
