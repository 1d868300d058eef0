// Package trustlisttest builds small ETSI TS 119 612 trusted lists for tests.
package trustlisttest

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/xml"
	"math/big"
	"strings"
	"time"
)

const (
	CAQC       = "http://uri.etsi.org/TrstSvc/Svctype/CA/QC"
	CAPKC      = "http://uri.etsi.org/TrstSvc/Svctype/CA/PKC"
	Granted    = "http://uri.etsi.org/TrstSvc/TrustedList/Svcstatus/granted"
	Withdrawn  = "http://uri.etsi.org/TrstSvc/TrustedList/Svcstatus/withdrawn"
	ForWebSite = "http://uri.etsi.org/TrstSvc/TrustedList/SvcInfoExt/ForWebSiteAuthentication"
	ForeSeals  = "http://uri.etsi.org/TrstSvc/TrustedList/SvcInfoExt/ForeSeals"
)

// Service describes one TSPService element
type Service struct {
	Name        string
	Type        string // defaults to CAQC
	Status      string // defaults to Granted
	Extensions  []string
	Certificate string // raw X509Certificate text; omitted when empty
}

// List describes a whole trusted list
type List struct {
	Territory string
	Services  []Service
}

// XML renders the list with the TSL namespace as default namespace,
// the way published national lists do
func (l List) XML() []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<TrustServiceStatusList xmlns="http://uri.etsi.org/02231/v2#" xmlns:ds="http://www.w3.org/2000/09/xmldsig#" TSLTag="http://uri.etsi.org/19612/TSLTag">` + "\n")
	b.WriteString("  <SchemeInformation>\n")
	b.WriteString("    <SchemeTerritory>" + escape(l.Territory) + "</SchemeTerritory>\n")
	b.WriteString("    <ListIssueDateTime>2024-05-02T10:00:00Z</ListIssueDateTime>\n")
	b.WriteString("  </SchemeInformation>\n")
	b.WriteString("  <TrustServiceProviderList>\n")
	b.WriteString("    <TrustServiceProvider>\n")
	b.WriteString("      <TSPInformation><TSPName><Name xml:lang=\"en\">Test TSP</Name></TSPName></TSPInformation>\n")
	b.WriteString("      <TSPServices>\n")
	for _, svc := range l.Services {
		writeService(&b, svc)
	}
	b.WriteString("      </TSPServices>\n")
	b.WriteString("    </TrustServiceProvider>\n")
	b.WriteString("  </TrustServiceProviderList>\n")
	b.WriteString("</TrustServiceStatusList>\n")
	return b.Bytes()
}

func writeService(b *bytes.Buffer, svc Service) {
	typ := svc.Type
	if typ == "" {
		typ = CAQC
	}
	status := svc.Status
	if status == "" {
		status = Granted
	}

	b.WriteString("        <TSPService>\n")
	b.WriteString("          <ServiceInformation>\n")
	b.WriteString("            <ServiceTypeIdentifier>" + typ + "</ServiceTypeIdentifier>\n")
	b.WriteString("            <ServiceName>\n")
	b.WriteString("              <Name xml:lang=\"en\">" + escape(svc.Name) + "</Name>\n")
	b.WriteString("              <Name xml:lang=\"fr\">" + escape(svc.Name) + " (fr)</Name>\n")
	b.WriteString("            </ServiceName>\n")
	b.WriteString("            <ServiceDigitalIdentity>\n")
	b.WriteString("              <DigitalId>\n")
	if svc.Certificate != "" {
		b.WriteString("                <X509Certificate>" + svc.Certificate + "</X509Certificate>\n")
	} else {
		b.WriteString("                <X509SubjectName>CN=" + escape(svc.Name) + "</X509SubjectName>\n")
	}
	b.WriteString("              </DigitalId>\n")
	b.WriteString("            </ServiceDigitalIdentity>\n")
	b.WriteString("            <ServiceStatus>" + status + "</ServiceStatus>\n")
	b.WriteString("            <StatusStartingTime>2016-06-30T22:00:00Z</StatusStartingTime>\n")
	if len(svc.Extensions) > 0 {
		b.WriteString("            <ServiceInformationExtensions>\n")
		for _, ext := range svc.Extensions {
			b.WriteString("              <Extension Critical=\"false\">\n")
			b.WriteString("                <AdditionalServiceInformation>\n")
			b.WriteString("                  <URI xml:lang=\"en\">" + ext + "</URI>\n")
			b.WriteString("                </AdditionalServiceInformation>\n")
			b.WriteString("              </Extension>\n")
		}
		b.WriteString("            </ServiceInformationExtensions>\n")
	}
	b.WriteString("          </ServiceInformation>\n")
	b.WriteString("        </TSPService>\n")
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// Certificate returns a freshly generated self-signed certificate in DER
// and its base64 encoding folded over lines of 76 characters with
// leading spaces, as found in published lists
func Certificate(commonName string) (der []byte, folded string) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		panic(err)
	}
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: commonName, Country: []string{"BE"}},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign,
	}
	der, err = x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		panic(err)
	}
	return der, Fold(base64.StdEncoding.EncodeToString(der), 76)
}

// Fold splits s into lines of width characters, each prefixed with spaces
func Fold(s string, width int) string {
	var b strings.Builder
	for i := 0; i < len(s); i += width {
		end := i + width
		if end > len(s) {
			end = len(s)
		}
		b.WriteString("\n                  ")
		b.WriteString(s[i:end])
	}
	b.WriteString("\n                ")
	return b.String()
}
