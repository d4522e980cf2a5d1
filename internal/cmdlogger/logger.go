package cmdlogger

import "log/slog"

// InvalidConfigPrefix starts the message logged when a config file cannot be used
const InvalidConfigPrefix = "Ignored invalid config file"

// CmdLogger is a slog.Handler that also tracks what has been logged through
// it, so that commands can decide their exit code.
type CmdLogger interface {
	slog.Handler
	SendEverythingToStderr()
	HasErrored() bool
	HasErroredBecauseInvalidConfig() bool
	SetLevel(level slog.Leveler)
}

// installed returns the default handler if it is a CmdLogger.
func installed() (CmdLogger, bool) {
	l, ok := slog.Default().Handler().(CmdLogger)

	return l, ok
}

// SendEverythingToStderr sends all later logs to stderr, keeping stdout free
// for structured output such as JSON.
//
// It does nothing if the default handler is not a CmdLogger.
func SendEverythingToStderr() {
	if l, ok := installed(); ok {
		l.SendEverythingToStderr()
	}
}

// SetLevel changes the lowest level that is logged by the default handler.
func SetLevel(level slog.Leveler) {
	if l, ok := installed(); ok {
		l.SetLevel(level)
	}
}

// HasErrored reports whether an error has been logged, which is always false
// if the default handler is not a CmdLogger.
func HasErrored() bool {
	l, ok := installed()

	return ok && l.HasErrored()
}

// HasErroredBecauseInvalidConfig is like HasErrored, but only counts errors
// about config files that could not be used.
func HasErroredBecauseInvalidConfig() bool {
	l, ok := installed()

	return ok && l.HasErroredBecauseInvalidConfig()
}
