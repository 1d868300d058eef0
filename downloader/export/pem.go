package export

import (
	"caextractor/downloader/core"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	pemHeader = "-----BEGIN CERTIFICATE-----"
	pemFooter = "-----END CERTIFICATE-----"

	// LineWidth is the number of base64 characters per PEM body line
	LineWidth = 64
)

// PemFile is a certificate written to disk
type PemFile struct {
	CountryCode  string `json:"country"`
	OrdinalIndex int    `json:"index"`
	DisplayName  string `json:"name,omitempty"`
	Path         string `json:"path"`
	PemBody      string `json:"-"`
}

// Normalize strips surrounding whitespace and every space and line break
// from the certificate text found in the trusted list
func Normalize(raw string) string {
	return strings.NewReplacer(" ", "", "\n", "", "\r", "", "\t", "").Replace(strings.TrimSpace(raw))
}

// FormatPEM wraps the normalized certificate text in PEM armor,
// 64 characters per line, every line newline-terminated
func FormatPEM(raw string) string {
	body := Normalize(raw)

	var b strings.Builder
	b.Grow(len(body) + len(body)/LineWidth + len(pemHeader) + len(pemFooter) + 4)
	b.WriteString(pemHeader + "\n")
	for i := 0; i < len(body); i += LineWidth {
		end := i + LineWidth
		if end > len(body) {
			end = len(body)
		}
		b.WriteString(body[i:end])
		b.WriteByte('\n')
	}
	b.WriteString(pemFooter + "\n")
	return b.String()
}

// FileName returns {country}_{index}.pem
func FileName(country string, index int) string {
	return fmt.Sprintf("%s_%d.pem", country, index)
}

// PemWriter writes certificates into a target folder
type PemWriter struct {
	targetFolder string
}

// NewPemWriter creates a writer for targetFolder. The folder must exist.
func NewPemWriter(targetFolder string) *PemWriter {
	return &PemWriter{targetFolder: targetFolder}
}

// Write creates or overwrites {targetFolder}/{country}_{index}.pem
func (w *PemWriter) Write(country string, index int, raw string) (*PemFile, error) {
	body := FormatPEM(raw)
	path := filepath.Join(w.targetFolder, FileName(country, index))

	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return nil, core.FilesystemError("failed to write %s: %w", path, err)
	}

	return &PemFile{
		CountryCode:  country,
		OrdinalIndex: index,
		Path:         path,
		PemBody:      body,
	}, nil
}
