package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// LogFileName is the file created inside log_path when file logging is enabled
const LogFileName = "caextractor.log"

type preLogEntry struct {
	level   zerolog.Level
	message string
}

var (
	mu sync.Mutex

	// logger starts as a console logger so that errors raised before
	// InitLogger still reach stderr
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).
		Level(zerolog.InfoLevel).With().Timestamp().Logger()

	output      io.Writer = os.Stdout
	logFile     *os.File
	initialized bool

	preLogs     []preLogEntry
	preLogLevel = zerolog.DebugLevel
)

// ParseLevel converts a textual level ("debug", "info", ...) to a zerolog level.
// An empty string means info.
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
	return lvl, nil
}

// InitLogger configures the global logger.
// logPath is optional: when set, JSON lines are also appended to logPath/caextractor.log.
// jsonLogs switches stderr output from the human console format to JSON lines.
func InitLogger(logPath, level string, jsonLogs bool) error {
	return initLogger(os.Stderr, logPath, level, jsonLogs)
}

func initLogger(stderr io.Writer, logPath, level string, jsonLogs bool) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	var console io.Writer = stderr
	if !jsonLogs {
		console = zerolog.ConsoleWriter{Out: stderr, TimeFormat: "15:04:05"}
	}

	writers := []io.Writer{console}

	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	if logPath != "" {
		if err := os.MkdirAll(logPath, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(logPath, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		writers = append(writers, f)
	}

	logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(lvl).With().Timestamp().Logger()
	initialized = true

	// Replay messages captured before the logger existed
	for _, entry := range preLogs {
		logger.WithLevel(entry.level).Msg(entry.message)
	}
	preLogs = nil

	return nil
}

// Close releases the log file, if any
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// SetOutput redirects LogOutput. JSON mode points it at io.Discard.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// PreLog records a message emitted before InitLogger runs.
// Messages are replayed once the logger is initialized.
func PreLog(level string, format string, args ...interface{}) {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	mu.Lock()
	defer mu.Unlock()

	if initialized {
		logger.WithLevel(lvl).Msgf(format, args...)
		return
	}
	if lvl < preLogLevel {
		return
	}
	preLogs = append(preLogs, preLogEntry{level: lvl, message: fmt.Sprintf(format, args...)})
}

// SetPreLogLevel drops buffered messages below level and filters later PreLog calls
func SetPreLogLevel(level string) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	preLogLevel = lvl
	kept := preLogs[:0]
	for _, entry := range preLogs {
		if entry.level >= lvl {
			kept = append(kept, entry)
		}
	}
	preLogs = kept
}

func LogDebug(format string, args ...interface{}) {
	current().Debug().Msgf(format, args...)
}

func LogInfo(format string, args ...interface{}) {
	current().Info().Msgf(format, args...)
}

func LogWarn(format string, args ...interface{}) {
	current().Warn().Msgf(format, args...)
}

func LogError(format string, args ...interface{}) {
	current().Error().Msgf(format, args...)
}

// LogOutput prints user-facing output on stdout, without level or timestamp
func LogOutput(format string, args ...interface{}) {
	mu.Lock()
	w := output
	mu.Unlock()
	fmt.Fprintf(w, format+"\n", args...)
}

func current() *zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	l := logger
	return &l
}
