package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger. Local runs get the console writer,
// everything else writes JSON lines.
func Setup(level string, console bool) {
	Configure(os.Stdout, level, console)
}

func Configure(out io.Writer, level string, console bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if console {
		out = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = out
			w.TimeFormat = time.RFC3339
		})
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	// log.Ctx on a context without a logger falls back to the global one
	zerolog.DefaultContextLogger = &log.Logger
}
