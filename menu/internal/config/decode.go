package config

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DecodeError reports a document that is not well-formed YAML or that does
// not fit the shape of the target type.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("config: decode: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// defaulter is implemented by types that start from built-in values before
// the document is applied on top.
type defaulter interface {
	setDefaults()
}

// Decode reads one YAML document from r into a value of type T.
//
// Keys use the hyphenated names from the yaml struct tags; Width and Brush
// fields go through their own scalar parsers. The same function serves a
// partial decode (for example into map[string]yaml.Node) and a full typed
// decode of the same content. An empty document yields the zero value, or
// the defaults for types that have them.
func Decode[T any](r io.Reader) (T, error) {
	var v T
	if d, ok := any(&v).(defaulter); ok {
		d.setDefaults()
	}
	if err := yaml.NewDecoder(r).Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return v, nil
		}
		var zero T
		return zero, &DecodeError{Err: err}
	}
	return v, nil
}
