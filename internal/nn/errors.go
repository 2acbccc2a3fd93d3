package nn

import (
	"fmt"

	"github.com/born-ml/netshape/internal/tensor"
	"github.com/pkg/errors"
)

// Common errors. The typed errors below match these with errors.Is.
var (
	ErrUnknownLayerType  = errors.New("unknown layer type")
	ErrInvalidParameter  = errors.New("invalid layer parameter")
	ErrIncompatibleShape = errors.New("incompatible input shape")
)

// UnknownLayerTypeError reports a type tag outside the closed variant set.
type UnknownLayerTypeError struct {
	Type string
}

// Error implements the error interface.
func (e *UnknownLayerTypeError) Error() string {
	return fmt.Sprintf("unknown layer type: %q", e.Type)
}

// Is reports whether target is ErrUnknownLayerType.
func (e *UnknownLayerTypeError) Is(target error) bool {
	return target == ErrUnknownLayerType
}

// ConstructionError reports a parameter that failed validation while
// building a layer.
type ConstructionError struct {
	Layer  Kind   // Variant being built
	Param  string // Offending parameter name, empty if not parameter specific
	Reason string // What was violated, citing the offending value
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: parameter %s: %s", e.Layer, e.Param, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Layer, e.Reason)
}

// Is reports whether target is ErrInvalidParameter.
func (e *ConstructionError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// ShapeError reports an input shape a layer cannot accept.
type ShapeError struct {
	Layer  Kind         // Variant that rejected the input
	Input  tensor.Shape // Rejected input shape
	Reason string       // Violated constraint with the offending values
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: input %v: %s", e.Layer, e.Input, e.Reason)
}

// Is reports whether target is ErrIncompatibleShape.
func (e *ShapeError) Is(target error) bool {
	return target == ErrIncompatibleShape
}

func shapeErrorf(kind Kind, input tensor.Shape, format string, args ...any) *ShapeError {
	return &ShapeError{
		Layer:  kind,
		Input:  input.Clone(),
		Reason: fmt.Sprintf(format, args...),
	}
}

func paramErrorf(kind Kind, param, format string, args ...any) *ConstructionError {
	return &ConstructionError{
		Layer:  kind,
		Param:  param,
		Reason: fmt.Sprintf(format, args...),
	}
}
