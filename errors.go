// FILE: lixenwraith/optmap/errors.go
package optmap

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArgument is returned when construction arguments name keys
	// that are not part of a type's default-option table.
	ErrInvalidArgument = errors.New("invalid keyword arguments")

	// ErrAttributeNotFound is returned when reading an absent attribute.
	ErrAttributeNotFound = errors.New("attribute not found")

	// ErrTypeExists is returned when a type name is already registered.
	ErrTypeExists = errors.New("type already defined")

	// ErrInvalidType is returned for malformed type declarations.
	ErrInvalidType = errors.New("invalid type declaration")

	// ErrFileNotFound is returned when a configuration file does not exist.
	ErrFileNotFound = errors.New("configuration file not found")

	// ErrUnknownFormat is returned when a file format cannot be determined.
	ErrUnknownFormat = errors.New("unknown configuration format")
)

// InvalidArgumentError lists every caller-supplied key a type did not recognize.
type InvalidArgumentError struct {
	Type string
	Keys []string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid keyword arguments: %s", e.Type, strings.Join(e.Keys, ", "))
}

// Is reports ErrInvalidArgument as the error kind.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}
