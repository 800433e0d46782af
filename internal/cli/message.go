package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rsc.io/pdf"
)

// readMessage returns the message text. Values ending in .txt or .pdf are
// treated as paths and the file's text is returned instead.
func (app *env) readMessage(message string) (string, error) {
	switch filepath.Ext(message) {
	case ".txt":
		app.logger.Info().Str("path", message).Msg("reading message file")
		bytes, err := os.ReadFile(message)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(bytes)), nil

	case ".pdf":
		app.logger.Info().Str("path", message).Msg("reading message PDF")
		return readPDF(message)

	default:
		return message, nil
	}
}

// readPDF extracts the text of every page, one line per page.
func readPDF(path string) (string, error) {
	file, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}

	pages := []string{}
	for i := 1; i <= file.NumPage(); i++ {
		page := file.Page(i)
		if page.V.IsNull() {
			continue
		}

		var text strings.Builder
		for _, t := range page.Content().Text {
			text.WriteString(t.S)
		}
		pages = append(pages, strings.TrimSpace(text.String()))
	}

	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}
