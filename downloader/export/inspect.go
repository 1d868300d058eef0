package export

import (
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"time"
)

// CertInfo summarizes a certificate for logging
type CertInfo struct {
	Subject   string
	Issuer    string
	NotBefore time.Time
	NotAfter  time.Time
	Raw       []byte
}

// Inspect decodes normalized base64 certificate text and parses it
func Inspect(normalized string) (*CertInfo, error) {
	der, err := base64.StdEncoding.DecodeString(normalized)
	if err != nil {
		return nil, fmt.Errorf("decoding certificate: %w", err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("parsing certificate: %w", err)
	}

	return &CertInfo{
		Subject:   cert.Subject.String(),
		Issuer:    cert.Issuer.String(),
		NotBefore: cert.NotBefore,
		NotAfter:  cert.NotAfter,
		Raw:       der,
	}, nil
}

// Expired reports whether the certificate is no longer valid at t
func (c *CertInfo) Expired(t time.Time) bool {
	return t.After(c.NotAfter)
}
