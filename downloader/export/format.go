package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Keystore formats recognized by DetectKeystoreFormat
const (
	FormatJKS     = "JKS"
	FormatJCEKS   = "JCEKS"
	FormatPKCS12  = "PKCS12"
	FormatUnknown = "unknown"
)

var (
	jksMagic   = []byte{0xFE, 0xED, 0xFE, 0xED}
	jceksMagic = []byte{0xCE, 0xCE, 0xCE, 0xCE}
)

// DetectKeystoreFormat reads the magic bytes of a keystore file
func DetectKeystoreFormat(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open keystore: %w", err)
	}
	defer f.Close()

	header := make([]byte, 4)
	if _, err := io.ReadFull(f, header); err != nil {
		return FormatUnknown, nil
	}

	switch {
	case bytes.Equal(header, jksMagic):
		return FormatJKS, nil
	case bytes.Equal(header, jceksMagic):
		return FormatJCEKS, nil
	case header[0] == 0x30:
		// DER SEQUENCE
		return FormatPKCS12, nil
	default:
		return FormatUnknown, nil
	}
}
