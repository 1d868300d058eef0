package downloader

import (
	"caextractor/downloader/core"
	"caextractor/downloader/export"
	"caextractor/downloader/network"
	"caextractor/logging"
	"caextractor/trustlist"
	"fmt"
	"io"
	"strings"
	"time"
)

// Manager orchestrates fetch, extraction and writing of one trusted list
type Manager struct {
	network   *network.Client
	extractor *trustlist.Extractor
	validator *core.Validator
}

// Report summarizes an extraction run
type Report struct {
	Country           string                   `json:"country"`
	Service           string                   `json:"service"`
	Source            string                   `json:"source"`
	Territory         string                   `json:"territory,omitempty"`
	ListIssueDateTime string                   `json:"list_issue_date_time,omitempty"`
	Entries           []trustlist.ServiceEntry `json:"-"`
	Files             []export.PemFile         `json:"files"`
	Keystore          string                   `json:"keystore,omitempty"`
	Manifest          string                   `json:"manifest,omitempty"`
}

// NewManager creates a new Manager instance
func NewManager(timeout time.Duration, userAgent string) (*Manager, error) {
	extractor, err := trustlist.NewExtractor()
	if err != nil {
		return nil, err
	}

	client := network.NewClient(timeout)
	if userAgent != "" {
		client = network.NewClientWithUserAgent(timeout, userAgent)
	}

	return &Manager{
		network:   client,
		extractor: extractor,
		validator: core.NewValidator(),
	}, nil
}

// Extract runs the whole pipeline. Arguments are validated before any
// network access; the first failure aborts the run and files already
// written are left in place.
func (m *Manager) Extract(opts core.ExtractOptions) (*Report, error) {
	service, err := trustlist.ParseServiceType(opts.Service)
	if err != nil {
		return nil, err
	}
	if opts.Country == "" {
		return nil, core.UsageError("country code must not be empty")
	}

	source := opts.InputFile
	if source == "" {
		source, err = network.BuildURL(opts.DownloadURL, opts.Country)
		if err != nil {
			return nil, err
		}
	}

	logging.LogDebug("🔍 Starting %s extraction for %s from %s", service, opts.Country, source)

	body, err := m.open(opts.InputFile, source)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	result, err := m.extractor.Extract(body, service)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Country:           opts.Country,
		Service:           service.String(),
		Source:            source,
		Territory:         result.Territory,
		ListIssueDateTime: result.ListIssueDateTime,
		Entries:           result.Entries,
		Files:             []export.PemFile{},
	}

	if result.Territory != "" && !strings.EqualFold(result.Territory, opts.Country) {
		logging.LogWarn("⚠️ Requested %s but the list declares territory %s", opts.Country, result.Territory)
	}

	if len(result.Entries) == 0 {
		logging.LogInfo("ℹ️  No granted CA/QC services found for %s in %s", service, opts.Country)
		return report, nil
	}

	if err := m.writeAll(opts, result.Entries, report); err != nil {
		return report, err
	}

	logging.LogInfo("✅ Wrote %d certificate(s) for %d matching service(s)", len(report.Files), len(result.Entries))
	return report, nil
}

func (m *Manager) open(inputFile, url string) (io.ReadCloser, error) {
	if inputFile != "" {
		logging.LogDebug("📂 Reading trusted list from %s", inputFile)
		return OpenFile(inputFile)
	}

	body, err := m.network.Fetch(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download trusted list: %w", err)
	}
	return body, nil
}

func (m *Manager) writeAll(opts core.ExtractOptions, entries []trustlist.ServiceEntry, report *Report) error {
	target := opts.TargetFolder
	if target == "" {
		target = "."
	}

	if err := m.validator.ValidateDirectories(target); err != nil {
		return err
	}

	var required int64
	for _, entry := range entries {
		if entry.HasCertificate {
			required += int64(len(export.FormatPEM(entry.CertificateBase64)))
		}
	}
	if err := m.validator.ValidateSpace(required, target); err != nil {
		return err
	}

	var ks *export.KeystoreWriter
	if opts.KeystorePath != "" {
		var err error
		ks, err = export.OpenKeystore(opts.KeystorePath, opts.KeystorePassword)
		if err != nil {
			return err
		}
	}

	writer := export.NewPemWriter(target)
	for _, entry := range entries {
		logging.LogOutput("Extracting: %s", entry.DisplayName)

		if !entry.HasCertificate {
			logging.LogDebug("⏭️ %s has no X509Certificate, index %d left unused", entry.DisplayName, entry.Index)
			continue
		}

		file, err := writer.Write(opts.Country, entry.Index, entry.CertificateBase64)
		if err != nil {
			return err
		}
		file.DisplayName = entry.DisplayName
		report.Files = append(report.Files, *file)
		logging.LogOutput("Wrote %s", file.Path)

		info, err := export.Inspect(export.Normalize(entry.CertificateBase64))
		if err != nil {
			logging.LogWarn("⚠️ %s: certificate could not be parsed: %v", file.Path, err)
			continue
		}
		logging.LogDebug("📜 %s: subject=%q notAfter=%s", file.Path, info.Subject, info.NotAfter.Format(time.DateOnly))
		if info.Expired(time.Now()) {
			logging.LogWarn("⚠️ %s: certificate expired on %s", file.Path, info.NotAfter.Format(time.DateOnly))
		}

		if ks != nil {
			alias := strings.TrimSuffix(export.FileName(opts.Country, entry.Index), ".pem")
			if err := ks.Add(alias, info.Raw); err != nil {
				logging.LogWarn("⚠️ %v", err)
			}
		}
	}

	if ks != nil {
		if err := ks.Save(); err != nil {
			return err
		}
		report.Keystore = opts.KeystorePath
		logging.LogInfo("🔐 Added %d certificate(s) to %s", ks.Added(), opts.KeystorePath)
	}

	if opts.WriteManifest {
		path, err := SaveManifest(target, Manifest{
			Country:           opts.Country,
			Service:           report.Service,
			Source:            report.Source,
			Territory:         report.Territory,
			ListIssueDateTime: report.ListIssueDateTime,
			GeneratedAt:       time.Now().UTC(),
			Files:             report.Files,
		})
		if err != nil {
			return err
		}
		report.Manifest = path
		logging.LogOutput("Wrote %s", path)
	}

	return nil
}
