package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

// LevelTrace sits below slog's debug level and enables per-reduction records.
const LevelTrace = slog.Level(-8)

// LevelNone is above every level the interpreter emits.
const LevelNone = slog.Level(64)

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "none", "":
		return LevelNone, nil
	default:
		return LevelNone, fmt.Errorf("unknown log level %q", s)
	}
}

// fileWriter is an append-only log file that can be reopened after rotation.
type fileWriter struct {
	mu   sync.Mutex
	path string
	fh   *os.File
	sigs chan os.Signal
}

func openFileWriter(path string) (*fileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory for '%s': %w", path, err)
	}
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file '%s': %w", path, err)
	}
	return &fileWriter{path: path, fh: fh}, nil
}

func (w *fileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fh.Write(p)
}

func (w *fileWriter) Reopen() error {
	fh, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w.mu.Lock()
	old := w.fh
	w.fh = fh
	w.mu.Unlock()
	return old.Close()
}

/*
 * listen for SIGHUP so the file can be rotated underneath us
 * mv spirit.log spirit.bak && kill -HUP <pid>
 */
func (w *fileWriter) watchRotation() {
	w.sigs = make(chan os.Signal, 1)
	signal.Notify(w.sigs, syscall.SIGHUP)
	go func() {
		for range w.sigs {
			if err := w.Reopen(); err != nil {
				fmt.Fprintf(os.Stderr, "could not reopen log file: %v\n", err)
			}
		}
	}()
}

func (w *fileWriter) Close() error {
	if w.sigs != nil {
		signal.Stop(w.sigs)
		close(w.sigs)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fh.Close()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a JSON slog.Logger writing to logFile, or to fallback when logFile
// is empty. The returned closer releases the file.
func New(logLevel, logFile string, fallback io.Writer) (*slog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(logLevel)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer = fallback
	var closer io.Closer = nopCloser{}
	if logFile != "" {
		fw, err := openFileWriter(logFile)
		if err != nil {
			return nil, nil, err
		}
		fw.watchRotation()
		out, closer = fw, fw
	}

	options := &slog.HandlerOptions{
		AddSource: false,
		Level:     lvl,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok && l <= LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewJSONHandler(out, options)), closer, nil
}

// Init installs the logger built by New as the slog default.
func Init(logLevel, logFile string) (io.Closer, error) {
	logger, closer, err := New(logLevel, logFile, os.Stderr)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return closer, nil
}
