package thing

import (
	"github.com/thingorm/thing/logger"
	"github.com/thingorm/thing/schema"
)

// Config registry config
type Config struct {
	// NamingStrategy tables and foreign keys naming strategy
	NamingStrategy schema.Namer
	// Logger receives messages the mapper can't return, rollback failures for example
	Logger logger.Interface
	// Cast coerces primitive attribute values
	Cast schema.CastFunc
}

// Option registry option
type Option func(*Config)

func (c *Config) apply(opts ...Option) *Config {
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.NamingStrategy == nil {
		c.NamingStrategy = schema.NamingStrategy{}
	}
	if c.Logger == nil {
		c.Logger = logger.Default
	}
	if c.Cast == nil {
		c.Cast = schema.Cast
	}
	return c
}
