package nn

import (
	"fmt"

	"github.com/born-ml/netshape/internal/tensor"
)

// LinearConfig holds the parameters of a Linear layer.
type LinearConfig struct {
	// OutFeatures replaces the feature dimension when > 0.
	// Zero leaves the input shape unchanged.
	OutFeatures int
}

// Linear is the shape rule of a fully connected layer.
//
// Input shape:  [batch_size, features]
// Output shape: [batch_size, features], or [batch_size, out_features] when
// OutFeatures is set.
type Linear struct {
	layerBase
	cfg LinearConfig
}

// NewLinear creates a Linear layer that keeps the feature dimension.
func NewLinear() *Linear {
	return &Linear{layerBase: layerBase{kind: KindLinear}}
}

// NewLinearWithConfig validates cfg and creates a Linear layer.
func NewLinearWithConfig(cfg LinearConfig) (*Linear, error) {
	if cfg.OutFeatures < 0 {
		return nil, paramErrorf(KindLinear, "out_features", "must be > 0, got %d", cfg.OutFeatures)
	}
	return &Linear{layerBase: layerBase{kind: KindLinear}, cfg: cfg}, nil
}

// Forward requires a 2D input.
func (l *Linear) Forward(input tensor.Shape) (tensor.Shape, error) {
	if err := requireRank(KindLinear, input, 2, "(batch_size, features)"); err != nil {
		return nil, err
	}
	out := input.Clone()
	if l.cfg.OutFeatures > 0 {
		out[1] = l.cfg.OutFeatures
	}
	return out, nil
}

// Config returns the layer parameters.
func (l *Linear) Config() LinearConfig { return l.cfg }

// String returns a string representation of the layer.
func (l *Linear) String() string {
	if l.cfg.OutFeatures > 0 {
		return fmt.Sprintf("Linear(out_features=%d)", l.cfg.OutFeatures)
	}
	return "Linear()"
}
