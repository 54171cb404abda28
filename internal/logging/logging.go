// Package logging routes the standard logger to a rotating file so log
// output never lands on the dashboard's screen.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hotpot-dev/hotpot/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup points the standard logger at cfg.File. An empty path discards all
// output. The returned closer flushes and closes the file.
func Setup(cfg config.LogConfig) (io.Closer, error) {
	if cfg.File == "" {
		log.SetOutput(io.Discard)
		return nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
		return nil, err
	}

	w := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}
	log.SetOutput(w)
	flags := log.LstdFlags
	if cfg.Debug {
		flags |= log.Lmicroseconds | log.Lshortfile
	}
	log.SetFlags(flags)
	return w, nil
}

// Debugf logs only when debug logging is enabled.
func Debugf(enabled bool, format string, args ...any) {
	if enabled {
		log.Printf(format, args...)
	}
}
