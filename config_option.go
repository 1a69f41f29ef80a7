package thing

import (
	"github.com/thingorm/thing/logger"
	"github.com/thingorm/thing/schema"
)

// WithLogger set logger.
func WithLogger(logger logger.Interface) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithNamingStrategy set schema namer.
func WithNamingStrategy(namer schema.Namer) Option {
	return func(c *Config) {
		c.NamingStrategy = namer
	}
}

// WithCast set cast function.
func WithCast(cast schema.CastFunc) Option {
	return func(c *Config) {
		c.Cast = cast
	}
}

// WithTablePrefix prefix table names of the default naming strategy.
func WithTablePrefix(prefix string) Option {
	return func(c *Config) {
		ns, _ := c.NamingStrategy.(schema.NamingStrategy)
		ns.TablePrefix = prefix
		c.NamingStrategy = ns
	}
}

// WithSingularTable use singular table names with the default naming strategy.
func WithSingularTable() Option {
	return func(c *Config) {
		ns, _ := c.NamingStrategy.(schema.NamingStrategy)
		ns.SingularTable = true
		c.NamingStrategy = ns
	}
}
