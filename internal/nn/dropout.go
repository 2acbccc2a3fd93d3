package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/netshape/internal/tensor"
)

// DefaultDropoutProbability is used when no probability is configured.
const DefaultDropoutProbability = 0.5

// Dropout keeps the input shape. Its probability is only validated.
type Dropout struct {
	layerBase
	p float64
}

// NewDropout creates a Dropout layer with probability p in [0, 1].
func NewDropout(p float64) (*Dropout, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, paramErrorf(KindDropout, "p", "dropout probability must be between 0 and 1, got %g", p)
	}
	return &Dropout{layerBase: layerBase{kind: KindDropout}, p: p}, nil
}

// Forward returns a copy of input.
func (d *Dropout) Forward(input tensor.Shape) (tensor.Shape, error) {
	return input.Clone(), nil
}

// P returns the dropout probability.
func (d *Dropout) P() float64 { return d.p }

// String returns a string representation of the layer.
func (d *Dropout) String() string {
	return fmt.Sprintf("Dropout(p=%g)", d.p)
}
