package nn

import (
	"fmt"

	"github.com/born-ml/netshape/internal/tensor"
)

// Flatten collapses every dimension after the batch dimension.
//
//	[N, C, H, W] -> [N, C*H*W]
type Flatten struct {
	layerBase
}

// NewFlatten creates a Flatten layer.
func NewFlatten() *Flatten {
	return &Flatten{layerBase: layerBase{kind: KindFlatten}}
}

// Forward requires at least 2 dimensions.
func (f *Flatten) Forward(input tensor.Shape) (tensor.Shape, error) {
	if len(input) < 2 {
		return nil, shapeErrorf(KindFlatten, input,
			"expected at least 2 dimensions (batch_size, *), got %dD", len(input))
	}
	features, ok := input[1:].CheckedNumElements()
	if !ok {
		return nil, countError(KindFlatten, input, input[1:])
	}
	return tensor.Shape{input[0], features}, nil
}

// String returns a string representation of the layer.
func (f *Flatten) String() string {
	return "Flatten()"
}

// UnflattenConfig holds the parameters of an Unflatten layer.
type UnflattenConfig struct {
	// Shape is the target shape of the feature dimension, excluding batch.
	Shape tensor.Shape
}

// Unflatten expands the feature dimension of a 2D input into Shape.
//
//	[N, F] -> [N, Shape...]   where F == product(Shape)
type Unflatten struct {
	layerBase
	target tensor.Shape
}

// NewUnflatten validates cfg and creates an Unflatten layer.
func NewUnflatten(cfg UnflattenConfig) (*Unflatten, error) {
	if err := validateTarget(KindUnflatten, cfg.Shape); err != nil {
		return nil, err
	}
	return &Unflatten{layerBase: layerBase{kind: KindUnflatten}, target: cfg.Shape.Clone()}, nil
}

// Forward requires a [batch_size, flattened_dim] input whose flattened
// dimension equals the product of the target shape.
func (u *Unflatten) Forward(input tensor.Shape) (tensor.Shape, error) {
	if err := requireRank(KindUnflatten, input, 2, "(batch_size, flattened_dim)"); err != nil {
		return nil, err
	}
	batch, flat := input[0], input[1]
	want := u.target.NumElements()
	if flat != want {
		return nil, shapeErrorf(KindUnflatten, input,
			"cannot unflatten into [%d, %s]: flattened dimension %d does not match product of target dimensions %d",
			batch, joinDims(u.target), flat, want)
	}

	out := make(tensor.Shape, 0, len(u.target)+1)
	out = append(out, batch)
	return append(out, u.target...), nil
}

// TargetShape returns a copy of the target shape.
func (u *Unflatten) TargetShape() tensor.Shape { return u.target.Clone() }

// String returns a string representation of the layer.
func (u *Unflatten) String() string {
	return fmt.Sprintf("Unflatten(shape=%v)", u.target)
}

func validateTarget(kind Kind, target tensor.Shape) error {
	if len(target) == 0 {
		return paramErrorf(kind, "shape", "must have at least one dimension")
	}
	for i, dim := range target {
		if dim <= 0 {
			return paramErrorf(kind, "shape", "dimension %d must be > 0, got %d", i, dim)
		}
	}
	if _, ok := target.CheckedNumElements(); !ok {
		return paramErrorf(kind, "shape", "element count of %v is out of range", target)
	}
	return nil
}

// countError reports dims whose element count int cannot hold.
func countError(kind Kind, input, dims tensor.Shape) *ShapeError {
	return shapeErrorf(kind, input, "element count of %v is out of range", dims)
}

// joinDims formats a shape without brackets.
func joinDims(s tensor.Shape) string {
	str := s.String()
	return str[1 : len(str)-1]
}
