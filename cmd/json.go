package cmd

import (
	"caextractor/downloader"
	"encoding/json"
	"fmt"
	"io"
)

// CommandOutput structure for JSON output
type CommandOutput struct {
	*downloader.Report
	Error string `json:"error,omitempty"`
}

// OutputJSON writes data as indented JSON
func OutputJSON(w io.Writer, data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %v", err)
	}
	fmt.Fprintln(w, string(jsonData))
	return nil
}
