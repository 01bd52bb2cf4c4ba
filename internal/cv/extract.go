// CV ingestion: pull plain text out of whatever file the user provides.
// Failures come back as descriptive text rather than errors, so the rest
// of the pipeline always has something to work with.

package cv

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText reads a CV file, dispatching on extension (.pdf, .docx,
// .txt). Unreadable files yield an error message string, never a panic.
func ExtractText(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err := readPDF(path)
		if err != nil {
			return fmt.Sprintf("Error reading PDF: %v", err)
		}
		return text
	case ".docx":
		text, err := readDOCX(path)
		if err != nil {
			return fmt.Sprintf("Error reading DOCX: %v", err)
		}
		return text
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Sprintf("Error reading file: %v", err)
		}
		return string(data)
	default:
		return "Unsupported file format"
	}
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// readDOCX walks word/document.xml inside the docx zip, collecting text
// runs and emitting one line per paragraph.
func readDOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	var docXML io.ReadCloser
	for _, file := range zr.File {
		if file.Name == "word/document.xml" {
			docXML, err = file.Open()
			if err != nil {
				return "", err
			}
			break
		}
	}
	if docXML == nil {
		return "", fmt.Errorf("no word/document.xml in %s", filepath.Base(path))
	}
	defer docXML.Close()

	var text strings.Builder
	decoder := xml.NewDecoder(docXML)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch el := token.(type) {
		case xml.CharData:
			text.Write(el)
		case xml.EndElement:
			if el.Name.Local == "p" {
				text.WriteByte('\n')
			}
		}
	}
	return text.String(), nil
}

// ExtractExperience returns the experience section of a CV: everything
// from the first heading containing "experience" up to the next heading.
// CVs without a recognizable section fall back to the whole text.
func ExtractExperience(text string) string {
	lines := strings.Split(text, "\n")
	start := -1
	for i, line := range lines {
		if isHeading(line) && strings.Contains(strings.ToLower(line), "experience") {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return strings.TrimSpace(text)
	}

	end := len(lines)
	for i := start; i < len(lines); i++ {
		if isHeading(lines[i]) && !strings.Contains(strings.ToLower(lines[i]), "experience") {
			end = i
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines[start:end], "\n"))
}

// isHeading guesses whether a line is a section title: short, no
// sentence punctuation, and either all caps or title-ish.
func isHeading(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > 40 {
		return false
	}
	if strings.ContainsAny(trimmed, ".,;") {
		return false
	}
	words := strings.Fields(trimmed)
	return len(words) <= 4
}
