package llm

import "go.uber.org/zap"

// CallEvent records metadata about a single model call.
type CallEvent struct {
	Kind       RequestKind
	Model      string
	LatencyMs  int64
	Success    bool
	StatusCode int
	ErrorCode  string
}

// Observer receives events about model calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// ZapObserver logs call events.
type ZapObserver struct {
	logger *zap.Logger
}

func NewZapObserver(logger *zap.Logger) *ZapObserver {
	return &ZapObserver{logger: logger.Named("llm")}
}

func (o *ZapObserver) OnCallComplete(event CallEvent) {
	fields := []zap.Field{
		zap.String("kind", string(event.Kind)),
		zap.String("model", event.Model),
		zap.Int64("latency_ms", event.LatencyMs),
	}
	if event.Success {
		o.logger.Info("llm call", fields...)
		return
	}
	fields = append(fields, zap.String("error_code", event.ErrorCode))
	if event.StatusCode != 0 {
		fields = append(fields, zap.Int("status", event.StatusCode))
	}
	o.logger.Warn("llm call failed", fields...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
