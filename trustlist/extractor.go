package trustlist

import (
	"caextractor/downloader/core"
	"caextractor/logging"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// namespaces is the prefix lookup table used by every query
var namespaces = map[string]string{
	"tsl": Namespace,
}

const serviceQuery = "//tsl:TSPService[" +
	"tsl:ServiceInformation/tsl:ServiceTypeIdentifier='" + ServiceTypeCAQC + "' and " +
	"tsl:ServiceInformation/tsl:ServiceStatus='" + StatusGranted + "' and " +
	"tsl:ServiceInformation/tsl:ServiceInformationExtensions/tsl:Extension[" +
	"tsl:AdditionalServiceInformation/tsl:URI[text()='%s']]]"

const (
	nameQuery        = ".//tsl:ServiceName/tsl:Name"
	certificateQuery = ".//tsl:X509Certificate"
	territoryQuery   = "/tsl:TrustServiceStatusList/tsl:SchemeInformation/tsl:SchemeTerritory"
	issueDateQuery   = "/tsl:TrustServiceStatusList/tsl:SchemeInformation/tsl:ListIssueDateTime"
)

// Extractor selects qualified CA services from a trusted list
type Extractor struct {
	name        *xpath.Expr
	certificate *xpath.Expr
	territory   *xpath.Expr
	issueDate   *xpath.Expr
}

// NewExtractor compiles the fixed relative queries
func NewExtractor() (*Extractor, error) {
	e := &Extractor{}
	for _, q := range []struct {
		dst  **xpath.Expr
		expr string
	}{
		{&e.name, nameQuery},
		{&e.certificate, certificateQuery},
		{&e.territory, territoryQuery},
		{&e.issueDate, issueDateQuery},
	} {
		compiled, err := compile(q.expr)
		if err != nil {
			return nil, err
		}
		*q.dst = compiled
	}
	return e, nil
}

// ServiceQuery returns the XPath expression used for the given service type
func ServiceQuery(service ServiceType) string {
	return fmt.Sprintf(serviceQuery, service.ExtensionURI())
}

// Extract parses r and returns the granted CA/QC services tagged for service.
// Matches are returned in document order; entries without a certificate are kept.
func (e *Extractor) Extract(r io.Reader, service ServiceType) (*Result, error) {
	if service.ExtensionURI() == "" {
		return nil, core.UsageError("unsupported service type %d", int(service))
	}

	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, core.ParseError("failed to parse trusted list XML: %w", err)
	}
	if !hasRootElement(doc) {
		return nil, core.ParseError("failed to parse trusted list XML: no root element")
	}

	query, err := compile(ServiceQuery(service))
	if err != nil {
		return nil, err
	}

	nodes, err := selectAll(doc, query)
	if err != nil {
		return nil, err
	}
	logging.LogDebug("🔍 %d %s service(s) matched", len(nodes), service)

	result := &Result{
		Territory:         e.text(doc, e.territory),
		ListIssueDateTime: e.text(doc, e.issueDate),
		Entries:           make([]ServiceEntry, 0, len(nodes)),
	}

	for i, node := range nodes {
		entry := ServiceEntry{
			Index:       i,
			DisplayName: e.text(node, e.name),
		}
		if cert := xmlquery.QuerySelector(node, e.certificate); cert != nil {
			entry.CertificateBase64 = cert.InnerText()
			entry.HasCertificate = true
		}
		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}

func (e *Extractor) text(top *xmlquery.Node, expr *xpath.Expr) string {
	if n := xmlquery.QuerySelector(top, expr); n != nil {
		return strings.TrimSpace(n.InnerText())
	}
	return ""
}

func hasRootElement(doc *xmlquery.Node) bool {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return true
		}
	}
	return false
}

func compile(expr string) (*xpath.Expr, error) {
	compiled, err := xpath.CompileWithNS(expr, namespaces)
	if err != nil {
		return nil, core.ParseError("invalid XPath expression %q: %w", expr, err)
	}
	return compiled, nil
}

// selectAll evaluates expr, turning evaluator panics into parse errors
func selectAll(doc *xmlquery.Node, expr *xpath.Expr) (nodes []*xmlquery.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			nodes = nil
			err = core.ParseError("XPath evaluation failed: %v", r)
		}
	}()
	return xmlquery.QuerySelectorAll(doc, expr), nil
}
