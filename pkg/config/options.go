package config

import (
	"github.com/ajitpratap0/sheetsfdw/pkg/errors"
)

// Options is a flat key/value bag attached by the host to a foreign server
// or a foreign table.
type Options map[string]string

// Get returns the option value and whether it was set.
func (o Options) Get(key string) (string, bool) {
	if o == nil {
		return "", false
	}
	v, ok := o[key]
	return v, ok
}

// Require returns the option value, failing with a missing option error
// naming the key when it is not set.
func (o Options) Require(key string) (string, error) {
	v, ok := o.Get(key)
	if !ok {
		return "", errors.MissingOption(key)
	}
	return v, nil
}

// RequireOr returns the option value or def when the option is not set.
func (o Options) RequireOr(key, def string) string {
	if v, ok := o.Get(key); ok {
		return v
	}
	return def
}

// Clone returns a copy that can be modified without touching o.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}
