package nn

import (
	"fmt"

	"github.com/born-ml/netshape/internal/tensor"
)

// ReshapeConfig holds the parameters of a Reshape layer.
type ReshapeConfig struct {
	// Shape is the full output shape, batch included.
	Shape tensor.Shape
}

// Reshape replaces the input shape with a target of the same element count.
type Reshape struct {
	layerBase
	target tensor.Shape
}

// NewReshape validates cfg and creates a Reshape layer.
func NewReshape(cfg ReshapeConfig) (*Reshape, error) {
	if err := validateTarget(KindReshape, cfg.Shape); err != nil {
		return nil, err
	}
	return &Reshape{layerBase: layerBase{kind: KindReshape}, target: cfg.Shape.Clone()}, nil
}

// Forward accepts any rank as long as the element count is preserved.
func (r *Reshape) Forward(input tensor.Shape) (tensor.Shape, error) {
	have, ok := input.CheckedNumElements()
	if !ok {
		return nil, countError(KindReshape, input, input)
	}
	want := r.target.NumElements()
	if have != want {
		return nil, shapeErrorf(KindReshape, input,
			"cannot reshape tensor of size %v (%d elements) into shape %v (%d elements)",
			input, have, r.target, want)
	}
	return r.target.Clone(), nil
}

// TargetShape returns a copy of the target shape.
func (r *Reshape) TargetShape() tensor.Shape { return r.target.Clone() }

// String returns a string representation of the layer.
func (r *Reshape) String() string {
	return fmt.Sprintf("Reshape(shape=%v)", r.target)
}
