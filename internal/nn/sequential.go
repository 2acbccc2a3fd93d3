package nn

import (
	"fmt"

	"github.com/born-ml/netshape/internal/tensor"
	"github.com/pkg/errors"
)

// Mode selects which input shape each step of a forward simulation receives.
type Mode int

const (
	// ModeDeclared feeds every layer the original input shape, so each
	// layer is checked against the same declared input.
	ModeDeclared Mode = iota

	// ModeChained feeds each layer the output of the previous one. After a
	// failed step the next layer receives the last successful output, or
	// the original input if no step has succeeded yet.
	ModeChained
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeDeclared:
		return "declared"
	case ModeChained:
		return "chained"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps "declared" or "chained" to a Mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "declared", "":
		return ModeDeclared, nil
	case "chained":
		return ModeChained, nil
	default:
		return ModeDeclared, errors.Errorf("unknown forward mode %q (want declared or chained)", name)
	}
}

// ForwardOption configures a forward simulation.
type ForwardOption func(*forwardOptions)

type forwardOptions struct {
	mode Mode
}

// WithMode selects the forward mode. The default is ModeDeclared.
func WithMode(mode Mode) ForwardOption {
	return func(o *forwardOptions) {
		o.mode = mode
	}
}

// Step records the result of applying one layer to one input shape.
//
// Output is non-nil iff Err is nil.
type Step struct {
	Index  int
	Layer  Layer
	Input  tensor.Shape
	Output tensor.Shape
	Err    error
}

// OK reports whether the layer accepted its input.
func (s Step) OK() bool {
	return s.Err == nil
}

// Message returns the error text, or "" for a successful step.
func (s Step) Message() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// Steps is an ordered forward trace.
type Steps []Step

// Failed returns the indexes of failed steps.
func (s Steps) Failed() []int {
	var failed []int
	for i := range s {
		if !s[i].OK() {
			failed = append(failed, i)
		}
	}
	return failed
}

// Final returns the output of the last successful step.
func (s Steps) Final() (tensor.Shape, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].OK() {
			return s[i].Output.Clone(), true
		}
	}
	return nil, false
}

// Forward applies each layer to an input shape and returns one Step per
// layer, in order.
//
// A failing layer never stops the simulation: its error is recorded in its
// Step and the remaining layers still run. A nil layer or a panic inside a
// layer is recorded the same way.
func Forward(layers []Layer, input tensor.Shape, opts ...ForwardOption) Steps {
	var o forwardOptions
	for _, opt := range opts {
		opt(&o)
	}

	steps := make(Steps, 0, len(layers))
	current := input
	for i, layer := range layers {
		step := Step{
			Index: i,
			Layer: layer,
			Input: current.Clone(),
		}
		step.Output, step.Err = forwardLayer(layer, step.Input.Clone())
		steps = append(steps, step)

		if o.mode == ModeChained && step.OK() {
			current = step.Output
		}
	}
	return steps
}

// forwardLayer isolates a single layer call.
func forwardLayer(layer Layer, input tensor.Shape) (out tensor.Shape, err error) {
	if layer == nil {
		return nil, errors.New("nil layer")
	}
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = errors.Errorf("%T: panic during forward: %v", layer, r)
		}
	}()

	out, err = layer.Forward(input)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Sequential is an ordered, strictly linear list of layers.
//
// Example:
//
//	model := nn.NewSequential(
//	    nn.MustBuild("conv2d", nn.Params{"kernel_size": 3, "padding": 1}),
//	    nn.NewReLU(),
//	    nn.NewFlatten(),
//	)
//
//	steps := model.Forward(tensor.Shape{1, 3, 32, 32})
type Sequential struct {
	layers []Layer
}

// NewSequential creates a new Sequential container.
func NewSequential(layers ...Layer) *Sequential {
	return &Sequential{
		layers: append([]Layer(nil), layers...),
	}
}

// Forward simulates the layers against input. See the package-level Forward.
func (s *Sequential) Forward(input tensor.Shape, opts ...ForwardOption) Steps {
	return Forward(s.layers, input, opts...)
}

// Add appends a layer to the sequence.
func (s *Sequential) Add(layer Layer) {
	s.layers = append(s.layers, layer)
}

// Len returns the number of layers in the sequence.
func (s *Sequential) Len() int {
	return len(s.layers)
}

// Layer returns the layer at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential) Layer(index int) Layer {
	if index < 0 || index >= len(s.layers) {
		panic("Sequential.Layer: index out of bounds")
	}
	return s.layers[index]
}

// Layers returns a copy of the layer list.
func (s *Sequential) Layers() []Layer {
	return append([]Layer(nil), s.layers...)
}

// String lists the layers one per line.
func (s *Sequential) String() string {
	str := "Sequential(\n"
	for i, layer := range s.layers {
		str += fmt.Sprintf("  (%d): %v\n", i, layer)
	}
	return str + ")"
}
