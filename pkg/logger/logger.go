// Package logger owns the wallet service's zerolog root.
//
// main calls Init exactly once with the configured level and format. Every
// adapter (HTTP, event dispatcher, publishers, seeder) is then handed
// Component(name) instead of the root, so each JSON line carries both the
// "service" and the "component" field and can be filtered per subsystem:
//
//	{"level":"info","service":"wallet-api","component":"dispatcher",...}
//
// The returned loggers are values; bind one to a variable before calling
// level methods such as Info or Fatal on it.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ComponentField is the key Component stamps on every entry.
const ComponentField = "component"

// Options is read once by Init.
type Options struct {
	// Level accepts trace, debug, info, warn, error, fatal or off.
	// Anything else means info.
	Level string
	// Pretty switches to zerolog's console writer for local runs.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service, when set, becomes the "service" field.
	Service string
}

var (
	mu   sync.Mutex
	root *zerolog.Logger
)

// Init builds the root logger on first call and returns it. Later calls
// ignore opts and return the existing root.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if root != nil {
		return *root
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	lvl := parseLevel(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	l := zerolog.New(writer(opts)).Level(lvl).With().Timestamp().Caller()
	if opts.Service != "" {
		l = l.Str("service", opts.Service)
	}
	built := l.Logger()
	root = &built
	return built
}

func writer(opts Options) io.Writer {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return out
}

// Get returns the root logger and panics if Init has not run.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if root == nil {
		panic("logger: Get() called before Init()")
	}
	return *root
}

// Component derives a child of the root tagged with ComponentField=name.
func Component(name string) zerolog.Logger {
	return Get().With().Str(ComponentField, name).Logger()
}

// Reset forgets the root so tests can Init again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	root = nil
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
