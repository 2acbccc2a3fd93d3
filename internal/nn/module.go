// Package nn implements the shape-inference engine for sequential networks.
//
// This package provides:
//   - Layer interface: the closed set of layer variants and their shape rules
//   - Build: the factory turning a (type, params) pair into a validated Layer
//   - Sequential: the forward simulator producing a per-layer Step trace
//
// No tensor data is modeled. Every layer is a pure function of its
// construction parameters and the input shape.
package nn

import (
	"github.com/born-ml/netshape/internal/tensor"
)

// Layer is the interface implemented by every layer variant.
//
// The set of variants is closed: the interface is sealed by an unexported
// method and each variant is identified by its Kind.
//
//	seq := nn.NewSequential(
//	    nn.MustBuild("conv2d", nn.Params{"kernel_size": 3, "padding": 1}),
//	    nn.NewReLU(),
//	    nn.NewFlatten(),
//	)
type Layer interface {
	// Kind returns the variant discriminator.
	Kind() Kind

	// ID returns the lowercase type tag, identical to Kind().String().
	ID() string

	// Forward computes the output shape for the given input shape.
	//
	// It returns a *ShapeError when the input is structurally incompatible
	// with the layer. The returned shape is always a fresh slice.
	Forward(input tensor.Shape) (tensor.Shape, error)

	// String describes the layer and its parameters.
	String() string

	sealed()
}

// layerBase carries the discriminator shared by all variants.
type layerBase struct {
	kind Kind
}

// Kind returns the variant discriminator.
func (b layerBase) Kind() Kind { return b.kind }

// ID returns the lowercase type tag.
func (b layerBase) ID() string { return b.kind.String() }

func (layerBase) sealed() {}

// requireRank returns a ShapeError if input does not have exactly rank
// dimensions. layout names the expected dimensions for the message.
func requireRank(kind Kind, input tensor.Shape, rank int, layout string) error {
	if len(input) != rank {
		return shapeErrorf(kind, input, "expected %dD input %s, got %dD", rank, layout, len(input))
	}
	return nil
}

const layoutNCHW = "(batch_size, channels, height, width)"
