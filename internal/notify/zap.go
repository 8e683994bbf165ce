package notify

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapSink writes events to a zap logger, mapping severity to level.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink wraps logger. A nil logger discards.
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger}
}

// Notify logs e.
func (s *ZapSink) Notify(e Event) {
	lvl := zapcore.InfoLevel
	switch e.Severity {
	case SeverityWarning:
		lvl = zapcore.WarnLevel
	case SeverityError:
		lvl = zapcore.ErrorLevel
	}
	fields := []zap.Field{
		zap.String("kind", string(e.Kind)),
		zap.Stringer("severity", e.Severity),
	}
	if e.ProductID != 0 {
		fields = append(fields, zap.Int("product_id", e.ProductID))
	}
	if ce := s.logger.Check(lvl, e.Message); ce != nil {
		ce.Write(fields...)
	}
}
