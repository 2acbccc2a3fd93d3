package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/netshape/internal/tensor"
)

// Activation is an element-wise activation. It accepts any shape and never
// fails.
//
// ReLU, Tanh and Sigmoid are Activations distinguished only by Kind.
type Activation struct {
	layerBase
}

// NewReLU creates a ReLU activation: f(x) = max(0, x).
func NewReLU() *Activation {
	return &Activation{layerBase: layerBase{kind: KindReLU}}
}

// NewTanh creates a Tanh activation.
func NewTanh() *Activation {
	return &Activation{layerBase: layerBase{kind: KindTanh}}
}

// NewSigmoid creates a Sigmoid activation: σ(x) = 1 / (1 + exp(-x)).
func NewSigmoid() *Activation {
	return &Activation{layerBase: layerBase{kind: KindSigmoid}}
}

// Forward returns a copy of input.
func (a *Activation) Forward(input tensor.Shape) (tensor.Shape, error) {
	return input.Clone(), nil
}

// String returns a string representation of the layer.
func (a *Activation) String() string {
	switch a.kind {
	case KindReLU:
		return "ReLU()"
	case KindTanh:
		return "Tanh()"
	default:
		return "Sigmoid()"
	}
}

// DefaultNegativeSlope is the LeakyReLU slope used when none is configured.
const DefaultNegativeSlope = 0.01

// LeakyReLU is a leaky rectifier: f(x) = max(0, x) + slope*min(0, x).
type LeakyReLU struct {
	layerBase
	slope float64
}

// NewLeakyReLU creates a LeakyReLU activation with the given negative slope.
func NewLeakyReLU(slope float64) (*LeakyReLU, error) {
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return nil, paramErrorf(KindLeakyReLU, "negative_slope", "must be a finite number, got %g", slope)
	}
	return &LeakyReLU{layerBase: layerBase{kind: KindLeakyReLU}, slope: slope}, nil
}

// Forward returns a copy of input.
func (l *LeakyReLU) Forward(input tensor.Shape) (tensor.Shape, error) {
	return input.Clone(), nil
}

// NegativeSlope returns the slope applied to negative inputs.
func (l *LeakyReLU) NegativeSlope() float64 { return l.slope }

// String returns a string representation of the layer.
func (l *LeakyReLU) String() string {
	return fmt.Sprintf("LeakyReLU(negative_slope=%g)", l.slope)
}
