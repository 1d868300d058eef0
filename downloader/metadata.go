package downloader

import (
	"caextractor/downloader/core"
	"caextractor/downloader/export"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Manifest describes the files produced by one extraction
type Manifest struct {
	Country           string           `json:"country"`
	Service           string           `json:"service"`
	Source            string           `json:"source"`
	Territory         string           `json:"territory,omitempty"`
	ListIssueDateTime string           `json:"list_issue_date_time,omitempty"`
	GeneratedAt       time.Time        `json:"generated_at"`
	Files             []export.PemFile `json:"files"`
}

// ManifestPath returns {targetFolder}/{country}_manifest.json
func ManifestPath(targetFolder, country string) string {
	return filepath.Join(targetFolder, country+"_manifest.json")
}

// SaveManifest writes the manifest next to the PEM files
func SaveManifest(targetFolder string, manifest Manifest) (string, error) {
	path := ManifestPath(targetFolder, manifest.Country)

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", core.FilesystemError("failed to write manifest: %w", err)
	}
	return path, nil
}

// LoadManifest reads a manifest written by SaveManifest
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No manifest file, not an error
		}
		return nil, err
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}

	return &manifest, nil
}
