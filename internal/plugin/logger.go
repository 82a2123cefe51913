package plugin

import (
	"github.com/damoang/angple-contents/pkg/logger"
)

// DefaultLogger zerolog 기반 기본 로거 구현 (component 필드 = prefix)
type DefaultLogger struct {
	prefix string
}

// NewDefaultLogger 새 기본 로거 생성
func NewDefaultLogger(prefix string) *DefaultLogger {
	return &DefaultLogger{prefix: prefix}
}

// Debug 디버그 로그
func (l *DefaultLogger) Debug(msg string, args ...interface{}) {
	lg := logger.WithComponent(l.prefix)
	lg.Debug().Msgf(msg, args...)
}

// Info 정보 로그
func (l *DefaultLogger) Info(msg string, args ...interface{}) {
	lg := logger.WithComponent(l.prefix)
	lg.Info().Msgf(msg, args...)
}

// Warn 경고 로그
func (l *DefaultLogger) Warn(msg string, args ...interface{}) {
	lg := logger.WithComponent(l.prefix)
	lg.Warn().Msgf(msg, args...)
}

// Error 에러 로그
func (l *DefaultLogger) Error(msg string, args ...interface{}) {
	lg := logger.WithComponent(l.prefix)
	lg.Error().Msgf(msg, args...)
}
