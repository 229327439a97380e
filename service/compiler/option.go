package compiler

import (
	"time"

	"go.uber.org/zap"
)

// Option customises a compiler
type Option func(*Compiler)

// WithLogger sets the logger shared by every stage
func WithLogger(logger *zap.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock sets the time source of definition metadata
func WithClock(now func() time.Time) Option {
	return func(c *Compiler) {
		c.now = now
	}
}
