package di

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/goliatone/go-docsite/internal/logging/console"
	"github.com/goliatone/go-docsite/internal/logging/gologger"
	"github.com/goliatone/go-docsite/internal/runtimeconfig"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// isTerminal is swapped in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// NewLoggerProvider builds the provider named by cfg. The console provider
// writes to w; go-logger picks pretty output on a terminal and JSON otherwise
// unless a format is configured.
func NewLoggerProvider(cfg runtimeconfig.LoggingConfig, w io.Writer) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    ResolveLogFormat(cfg.Format),
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	case "console", "":
		opts := console.Options{Writer: w}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		return console.NewProvider(opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingProviderUnknown, cfg.Provider)
	}
}

// ResolveLogFormat returns format, or the terminal-dependent default when it
// is empty.
func ResolveLogFormat(format string) string {
	if trimmed := strings.TrimSpace(format); trimmed != "" {
		return trimmed
	}
	if isTerminal() {
		return "pretty"
	}
	return "json"
}
