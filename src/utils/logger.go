package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"elevcoord/src/types"
)

// InitLogger writes the log to stdout and to node<ID>.log in dir. The returned
// function closes the log file.
func InitLogger(nodeID int, level, dir string) (func() error, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("node%d.log", nodeID))
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}

	multiWriter := io.MultiWriter(os.Stdout, logFile)
	slog.SetDefault(slog.New(NewHandler(multiWriter, lvl)))
	return logFile.Close, nil
}

// NewHandler returns the text handler with short timestamps and file:line sources.
func NewHandler(w io.Writer, level slog.Leveler) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format("15:04:05"))
				}
			}
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					file := source.File
					if lastSlash := strings.LastIndexByte(file, '/'); lastSlash >= 0 {
						file = file[lastSlash+1:]
					}
					a.Value = slog.StringValue(fmt.Sprintf("%s:%d", file, source.Line))
				}
			}
			return a
		},
	})
}

func FormatBtnEvent(btnEvent types.ButtonEvent) string {
	switch btnEvent.Button {
	case types.BT_HallUp:
		return fmt.Sprintf("HallUp(%d)", btnEvent.Floor)
	case types.BT_HallDown:
		return fmt.Sprintf("HallDown(%d)", btnEvent.Floor)
	case types.BT_Cab:
		return fmt.Sprintf("Cab(%d)", btnEvent.Floor)
	}
	return "Unknown"
}
