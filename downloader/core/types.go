package core

import "time"

// ExtractOptions contains everything one extraction run needs
type ExtractOptions struct {
	Service      string // QWAC or QSealC
	Country      string
	TargetFolder string
	DownloadURL  string // template containing {country}
	UserAgent    string // optional
	Timeout      time.Duration
	InputFile    string // read the list from disk instead of downloading it

	KeystorePath     string // optional JKS truststore to extend
	KeystorePassword string
	WriteManifest    bool
}
