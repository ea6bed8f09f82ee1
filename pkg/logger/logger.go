package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env   string // development -> consola legible; resto -> JSON
	Level string // trace, debug, info, warn, error
}

// Logger wrapper sobre zerolog para inyección y consistencia.
type Logger struct {
	zl zerolog.Logger
}

// New crea un logger estructurado y lo deja como logger global de zerolog.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	zl := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
	log.Logger = zl
	return &Logger{zl: zl}
}

// Nop logger que descarta todo (tests).
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Component sublogger con el campo component fijo (ej: "billing").
func (l *Logger) Component(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}

func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Zerolog devuelve el logger interno por si se necesita la API directa.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
