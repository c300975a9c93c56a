// Package hapticconfig provides a generic functional-options pattern shared
// by every configurable component in this module.
package hapticconfig

// Option applies a configuration to a struct of type T.
type Option[T any] interface {
	Apply(*T)
}

// OptionFunc allows ordinary functions to be used as configuration options.
type OptionFunc[T any] func(*T)

func (o OptionFunc[T]) Apply(c *T) {
	o(c)
}

// ApplyOptions applies a slice of options to a configuration struct.
func ApplyOptions[T any](config *T, options ...Option[T]) {
	for _, opt := range options {
		opt.Apply(config)
	}
}
