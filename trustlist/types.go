package trustlist

// ServiceEntry is one TSPService matched by the filter
type ServiceEntry struct {
	// Index is the position among all matched services, in document order
	Index int

	DisplayName string

	// CertificateBase64 is the raw X509Certificate text, whitespace included
	CertificateBase64 string
	HasCertificate    bool
}

// Result holds the matches of one trusted list
type Result struct {
	Territory         string // SchemeTerritory, if present
	ListIssueDateTime string
	Entries           []ServiceEntry
}
