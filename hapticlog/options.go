package hapticlog

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/haptic-sync/beatctl/hapticconfig"
)

// Option sets a parameter of the logger being built.
type Option = hapticconfig.Option[zerolog.Logger]

// WithLevel sets the logger level.
func WithLevel(level zerolog.Level) Option {
	return hapticconfig.OptionFunc[zerolog.Logger](func(logger *zerolog.Logger) {
		l := logger.Level(level)
		*logger = l
	})
}

// WithCaller adds the caller to the log messages.
func WithCaller() Option {
	return hapticconfig.OptionFunc[zerolog.Logger](func(logger *zerolog.Logger) {
		l := logger.With().Caller().Logger()
		*logger = l
	})
}

// WithOutput sets the output writer.
func WithOutput(output io.Writer) Option {
	return hapticconfig.OptionFunc[zerolog.Logger](func(logger *zerolog.Logger) {
		l := logger.Output(output)
		*logger = l
	})
}

// WithTime adds a timestamp to the log messages.
func WithTime() Option {
	return hapticconfig.OptionFunc[zerolog.Logger](func(logger *zerolog.Logger) {
		l := logger.With().Timestamp().Logger()
		*logger = l
	})
}

// WithStack adds a stack-trace hook to error-level log messages.
func WithStack() Option {
	return hapticconfig.OptionFunc[zerolog.Logger](func(logger *zerolog.Logger) {
		l := logger.With().Stack().Logger()
		*logger = l
	})
}

// WithApplicationName tags every log message with the application name.
func WithApplicationName(n string) Option {
	return hapticconfig.OptionFunc[zerolog.Logger](func(logger *zerolog.Logger) {
		l := logger.With().Str(applicationKey, n).Logger()
		*logger = l
	})
}

// WithConsoleWriter enables pretty, human-readable console output with colors.
func WithConsoleWriter(out io.Writer) Option {
	return hapticconfig.OptionFunc[zerolog.Logger](func(logger *zerolog.Logger) {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
		}
		l := logger.Output(consoleWriter)
		*logger = l
	})
}
