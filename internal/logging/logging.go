package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Init installs the default slog logger. Text goes to stderr; when logFile is
// set, JSON records are also appended to it. The returned closer releases the file.
func Init(environment, logFile string) (io.Closer, error) {
	level := slog.LevelDebug
	if environment == "production" {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	textHandler := slog.NewTextHandler(os.Stderr, opts)
	if logFile == "" {
		slog.SetDefault(slog.New(textHandler))
		return io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	var jsonHandler slog.Handler = slog.NewJSONHandler(f, opts)
	jsonHandler = jsonHandler.WithAttrs([]slog.Attr{
		slog.String("service_type", "rab-dashboard"),
		slog.String("env", environment),
	})

	slog.SetDefault(slog.New(slogmulti.Fanout(jsonHandler, textHandler)))
	slog.Info("logging initialized", "log_file", logFile)
	return f, nil
}
