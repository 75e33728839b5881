package app

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions configures the global logger.
type LogOptions struct {
	Level string // trace, debug, info, warn or error; empty means info
	File  string // optional rotating JSON log file
}

// SetupLogging points the global zerolog logger at a console writer on out
// and, when opts.File is set, a rotating JSON file. The returned closer
// flushes the file and is never nil.
func SetupLogging(out io.Writer, opts LogOptions) (io.Closer, error) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nopCloser{}, err
		}
		level = parsed
	}
	zerolog.SetGlobalLevel(level)

	console := zerolog.ConsoleWriter{Out: out}
	if opts.File == "" {
		log.Logger = log.Output(console)
		return nopCloser{}, nil
	}

	rotating := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(console, rotating)).With().Timestamp().Logger()
	return rotating, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
