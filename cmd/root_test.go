package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"caextractor/downloader/core"
	"caextractor/logging"
	"caextractor/trustlist/trustlisttest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	hits   int32
	config string
}

func newFixture(t *testing.T, list trustlisttest.List) *fixture {
	t.Helper()
	f := &fixture{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.hits, 1)
		_, _ = w.Write(list.XML())
	}))
	t.Cleanup(server.Close)

	f.config = filepath.Join(t.TempDir(), "caextractor.toml")
	content := fmt.Sprintf("[general]\nlog_level = \"error\"\n\n[source]\ndownload_url = %q\n", server.URL+"/download/{country}")
	require.NoError(t, os.WriteFile(f.config, []byte(content), 0644))
	return f
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { logging.SetOutput(os.Stdout) })

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func sampleList() trustlisttest.List {
	return trustlisttest.List{
		Territory: "BE",
		Services: []trustlisttest.Service{
			{Name: "Web CA", Extensions: []string{trustlisttest.ForWebSite}, Certificate: "QUFB"},
			{Name: "Seal CA", Extensions: []string{trustlisttest.ForeSeals}, Certificate: "QkJC"},
		},
	}
}

func TestUsageWithMissingArguments(t *testing.T) {
	f := newFixture(t, sampleList())

	out, err := execute(t, "QWAC", "-c", f.config)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "caextractor <service> <country>")
	assert.Equal(t, int32(0), atomic.LoadInt32(&f.hits))
}

func TestInvalidServiceIsUsageError(t *testing.T) {
	f := newFixture(t, sampleList())

	_, err := execute(t, "FOO", "BE", "-c", f.config)
	require.Error(t, err)
	assert.Equal(t, core.KindUsage, core.KindOf(err))
	assert.Equal(t, 2, core.KindOf(err).ExitCode())
	assert.Equal(t, int32(0), atomic.LoadInt32(&f.hits))
}

func TestTooManyArguments(t *testing.T) {
	f := newFixture(t, sampleList())

	_, err := execute(t, "QWAC", "BE", "extra", "-c", f.config)
	require.Error(t, err)
	assert.Equal(t, core.KindUsage, core.KindOf(err))
}

func TestExtractWritesFiles(t *testing.T) {
	f := newFixture(t, sampleList())
	target := filepath.Join(t.TempDir(), "certs")

	out, err := execute(t, "QSealC", "BE", "--target_folder", target, "-c", f.config)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.hits))

	assert.Contains(t, out, "Extracting: Seal CA\n")
	assert.Contains(t, out, "Wrote "+filepath.Join(target, "BE_0.pem"))

	data, err := os.ReadFile(filepath.Join(target, "BE_0.pem"))
	require.NoError(t, err)
	assert.Equal(t, "-----BEGIN CERTIFICATE-----\nQkJC\n-----END CERTIFICATE-----\n", string(data))
}

func TestFlagsBeforeArguments(t *testing.T) {
	f := newFixture(t, sampleList())
	target := t.TempDir()

	_, err := execute(t, "-c", f.config, "--target_folder", target, "QWAC", "BE")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(target, "BE_0.pem"))
	assert.NoError(t, err)
}

func TestJSONOutput(t *testing.T) {
	f := newFixture(t, sampleList())
	target := t.TempDir()

	out, err := execute(t, "QWAC", "BE", "--target_folder", target, "--json", "-c", f.config)
	require.NoError(t, err)
	assert.NotContains(t, out, "Extracting:")

	var decoded struct {
		Country string `json:"country"`
		Service string `json:"service"`
		Files   []struct {
			Path  string `json:"path"`
			Index int    `json:"index"`
			Name  string `json:"name"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "BE", decoded.Country)
	assert.Equal(t, "QWAC", decoded.Service)
	require.Len(t, decoded.Files, 1)
	assert.Equal(t, filepath.Join(target, "BE_0.pem"), decoded.Files[0].Path)
	assert.Equal(t, "Web CA", decoded.Files[0].Name)
}

func TestMissingConfigFileIsUsageError(t *testing.T) {
	_, err := execute(t, "QWAC", "BE", "-c", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Equal(t, core.KindUsage, core.KindOf(err))
}

func TestExitWithError(t *testing.T) {
	var code int
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = os.Exit })

	ExitWithError(core.ParseError("failed to parse trusted list XML: %w", errors.New("EOF")))
	assert.Equal(t, 4, code)

	ExitWithError(fmt.Errorf("download failed: %w", core.TransportError("network request failed")))
	assert.Equal(t, 3, code)

	ExitWithError(errors.New("unexpected"))
	assert.Equal(t, 1, code)
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	reportError(&buf, core.FilesystemError("failed to write BE_0.pem: %w", errors.New("disk full")))
	assert.Equal(t, "❌ filesystem error: failed to write BE_0.pem: disk full\n", buf.String())
}
