package convert

import (
	"time"

	"go.uber.org/zap"
)

// Option customises a converter
type Option func(*Converter)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger.With(zap.String("component", "convert"))
		}
	}
}

// WithClock sets the time source of Metadata.CreatedAt
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.now = now
		}
	}
}
