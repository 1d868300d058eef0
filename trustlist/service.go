package trustlist

import (
	"caextractor/downloader/core"
)

// ETSI TS 119 612 identifiers used by the service filter
const (
	Namespace = "http://uri.etsi.org/02231/v2#"

	ServiceTypeCAQC = "http://uri.etsi.org/TrstSvc/Svctype/CA/QC"
	StatusGranted   = "http://uri.etsi.org/TrstSvc/TrustedList/Svcstatus/granted"

	ExtForWebSiteAuthentication = "http://uri.etsi.org/TrstSvc/TrustedList/SvcInfoExt/ForWebSiteAuthentication"
	ExtForeSeals                = "http://uri.etsi.org/TrstSvc/TrustedList/SvcInfoExt/ForeSeals"
)

// ServiceType selects which qualified certificates to extract
type ServiceType int

const (
	WebsiteAuth ServiceType = iota + 1 // QWAC
	SealCert                           // QSealC
)

// ParseServiceType maps the CLI names QWAC and QSealC to a ServiceType
func ParseServiceType(name string) (ServiceType, error) {
	switch name {
	case "QWAC":
		return WebsiteAuth, nil
	case "QSealC":
		return SealCert, nil
	default:
		return 0, core.UsageError("invalid service type %q: must be 'QWAC' or 'QSealC'", name)
	}
}

// ExtensionURI is the AdditionalServiceInformation URI tagging the service
func (s ServiceType) ExtensionURI() string {
	switch s {
	case WebsiteAuth:
		return ExtForWebSiteAuthentication
	case SealCert:
		return ExtForeSeals
	default:
		return ""
	}
}

func (s ServiceType) String() string {
	switch s {
	case WebsiteAuth:
		return "QWAC"
	case SealCert:
		return "QSealC"
	default:
		return "unknown"
	}
}
