package cmd

import (
	"caextractor/downloader/core"
	"caextractor/logging"
	"fmt"
	"io"
	"os"
)

var exit = os.Exit

// ExitWithError reports err on stderr and exits with the code of its kind
func ExitWithError(err error) {
	reportError(os.Stderr, err)
	logging.Close()
	exit(core.KindOf(err).ExitCode())
}

func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "❌ %s: %v\n", core.KindOf(err), err)
}
