// Package tensor defines the shape type that flows through the shape-inference
// engine.
//
// No tensor data is ever allocated: a Shape is the only thing a layer
// transforms.
package tensor

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Shape represents the dimensions of a tensor.
//
// By convention the first dimension is the batch size. A Shape returned by a
// layer is always a fresh slice and must be treated as immutable.
type Shape []int

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s)
}

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// CheckedNumElements is NumElements that reports false instead of
// wrapping when the product does not fit in an int. Negative dimensions
// also report false.
func (s Shape) CheckedNumElements() (int, bool) {
	zero := false
	for _, dim := range s {
		if dim < 0 {
			return 0, false
		}
		zero = zero || dim == 0
	}
	if zero {
		return 0, true
	}
	n := 1
	for _, dim := range s {
		if n > math.MaxInt/dim {
			return 0, false
		}
		n *= dim
	}
	return n, true
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return errors.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
//
// Cloning a nil shape returns nil.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// String formats the shape as [d0, d1, ...].
func (s Shape) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, dim := range s {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(dim))
	}
	b.WriteByte(']')
	return b.String()
}

// ParseShape parses a comma-separated shape string such as "1,3,32,32".
//
// Whitespace around dimensions is ignored. Empty and negative dimensions are
// rejected.
func ParseShape(raw string) (Shape, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("empty shape")
	}

	parts := strings.Split(raw, ",")
	shape := make(Shape, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, errors.New("empty dimension")
		}
		dim, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse dimension %q", part)
		}
		if dim < 0 {
			return nil, errors.Errorf("negative dimension %d", dim)
		}
		shape = append(shape, dim)
	}
	return shape, nil
}
