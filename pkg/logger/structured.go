package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var zlog = zerolog.Nop()

// Options 로거 설정
type Options struct {
	Env    string    // local/dev 는 콘솔 출력, 그 외는 JSON
	Level  string    // debug, info, warn, error. 비어 있으면 환경 기준
	Output io.Writer // nil 이면 stdout
}

// InitStructured initializes the global structured zerolog logger
func InitStructured(opts Options) {
	zerolog.TimeFieldFormat = time.RFC3339
	zlog = New(opts)
}

// New 서비스 필드가 붙은 로거 생성
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	dev := isDevelopment(opts.Env)
	if dev {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: opts.Output != nil}
	}

	return zerolog.New(out).
		Level(parseLevel(opts.Level, dev)).
		With().
		Timestamp().
		Str("service", "angple-contents").
		Logger()
}

func isDevelopment(env string) bool {
	switch env {
	case "development", "dev", "local":
		return true
	}
	return false
}

func parseLevel(level string, dev bool) zerolog.Level {
	if lvl, err := zerolog.ParseLevel(level); err == nil && level != "" {
		return lvl
	}
	if dev {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// GetLogger returns the global zerolog logger
func GetLogger() *zerolog.Logger {
	return &zlog
}

// WithRequestID returns a logger with request_id field
func WithRequestID(requestID string) zerolog.Logger {
	return zlog.With().Str("request_id", requestID).Logger()
}

// WithComponent returns a logger with component field
func WithComponent(component string) zerolog.Logger {
	return zlog.With().Str("component", component).Logger()
}
