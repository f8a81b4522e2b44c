// Package logging wires zerolog for the CLI and adapts it to the small
// Logger interface the library packages accept.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger receives progress messages. Packages accept a nil Logger to mean
// silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Setup configures the global zerolog logger for the given verbosity and
// writes human readable lines to out (stderr when nil).
//
//	0: warnings and errors
//	1: info
//	2: debug, with caller information
//	3+: trace
func Setup(verbosity int, out io.Writer) zerolog.Logger {
	switch verbosity {
	case 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case 2:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	if out == nil {
		out = os.Stderr
	}
	console := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
	}

	log.Logger = zerolog.New(console).With().Timestamp().Logger()
	if verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	log.Debug().Int("verbosity", verbosity).Msg("Logger initialized")
	return log.Logger
}

// GetLogger returns the global logger tagged with a component name.
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Adapter makes a zerolog.Logger usable wherever a Logger is accepted.
type Adapter struct {
	zerolog.Logger
}

// New returns a Logger writing to the global logger under component.
func New(component string) *Adapter {
	return &Adapter{Logger: GetLogger(component)}
}

// Infof logs at info level.
func (a *Adapter) Infof(format string, args ...any) {
	a.Logger.Info().Msg(fmt.Sprintf(format, args...))
}

// Warnf logs at warn level.
func (a *Adapter) Warnf(format string, args ...any) {
	a.Logger.Warn().Msg(fmt.Sprintf(format, args...))
}

// Errorf logs at error level.
func (a *Adapter) Errorf(format string, args ...any) {
	a.Logger.Error().Msg(fmt.Sprintf(format, args...))
}

// Debugf logs at debug level.
func (a *Adapter) Debugf(format string, args ...any) {
	a.Logger.Debug().Msg(fmt.Sprintf(format, args...))
}
