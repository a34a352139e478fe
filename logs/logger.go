// Package logs builds the structured logger shared by the commands.
package logs

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
)

var level = new(slog.LevelVar)

type Logger = *slog.Logger

// SetLevel parses one of debug, info, warn or error.
func SetLevel(name string) error {
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return fmt.Errorf("log level %q: %w", name, err)
	}
	return nil
}

func Level() slog.Level {
	return level.Level()
}

// New logs text to terminal and, when file is non-nil, JSON lines to file.
func New(terminal io.Writer, file io.Writer) Logger {
	handlers := []slog.Handler{
		slog.NewTextHandler(terminal, &slog.HandlerOptions{
			Level: level,
		}),
	}
	if file != nil {
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{
			Level: level,
		}))
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

// OpenFile opens <dir>/<name> for appending log lines.
func OpenFile(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
