// Package audit receives structured injection events. The engine emits
// one event per terminal outcome; what happens to them is the sink's
// business.
package audit

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Event is the terminal record of one injection request
type Event struct {
	CorrelationID string
	ProcessName   string
	WindowClass   string
	ProfileID     string
	Strategy      string
	Success       bool
	Duration      time.Duration
	Fallbacks     int
	FailureKind   string
}

// Sink consumes terminal events
type Sink interface {
	Emit(e Event)
}

// Nop discards everything
type Nop struct{}

func (Nop) Emit(Event) {}

// Config for the file sink
type Config struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// FileSink writes JSON events to a size-rotated file
type FileSink struct {
	logger *zap.Logger
}

// NewFileSink builds a zap JSON logger over a lumberjack writer
func NewFileSink(config Config) (*FileSink, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("audit: empty log path")
	}
	if config.MaxSizeMB <= 0 {
		config.MaxSizeMB = 10
	}

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   config.Path,
		MaxSize:    config.MaxSizeMB,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAgeDays,
	})

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), w, zapcore.InfoLevel)

	return &FileSink{logger: zap.New(core)}, nil
}

func (s *FileSink) Emit(e Event) {
	fields := []zap.Field{
		zap.String("correlation_id", e.CorrelationID),
		zap.String("process", e.ProcessName),
		zap.String("class", e.WindowClass),
		zap.String("profile", e.ProfileID),
		zap.String("strategy", e.Strategy),
		zap.Bool("success", e.Success),
		zap.Duration("duration", e.Duration),
		zap.Int("fallbacks", e.Fallbacks),
	}
	if e.FailureKind != "" {
		fields = append(fields, zap.String("failure_kind", e.FailureKind))
	}
	s.logger.Info("injection", fields...)
}

// Close flushes buffered events
func (s *FileSink) Close() error {
	return s.logger.Sync()
}
