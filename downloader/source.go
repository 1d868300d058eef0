package downloader

import (
	"bufio"
	"caextractor/downloader/core"
	"caextractor/logging"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
)

type fileSource struct {
	io.Reader
	file *os.File
}

func (s *fileSource) Close() error {
	return s.file.Close()
}

// OpenFile opens a trusted list stored on disk. Files ending in .xz are
// decompressed on the fly.
func OpenFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.FilesystemError("failed to open input file: %w", err)
	}

	if !strings.HasSuffix(strings.ToLower(path), ".xz") {
		return f, nil
	}

	logging.LogDebug("🗜️ Decompressing xz input %s", path)
	r, err := xz.NewReader(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, core.ParseError("failed to read xz stream: %w", err)
	}
	return &fileSource{Reader: r, file: f}, nil
}
