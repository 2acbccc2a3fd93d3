package nn

import (
	"fmt"

	"github.com/born-ml/netshape/internal/tensor"
)

// Conv2DConfig holds the validated parameters of a Conv2D layer.
type Conv2DConfig struct {
	KernelSize int // Square kernel size, > 0
	Stride     int // > 0
	Padding    int // Zero padding on each side, >= 0

	// OutChannels replaces the channel dimension when > 0.
	// Zero keeps the input channel count.
	OutChannels int
}

// DefaultConv2DConfig returns a config with stride 1 and no padding.
func DefaultConv2DConfig(kernelSize int) Conv2DConfig {
	return Conv2DConfig{KernelSize: kernelSize, Stride: 1}
}

// Conv2D is the shape rule of a 2D convolutional layer.
//
// Input shape:  [batch, channels, height, width]
// Output shape: [batch, channels, out_h, out_w]
//
// Where:
//
//	out_h = floor((height + 2*padding - kernel_size) / stride) + 1
//	out_w = floor((width + 2*padding - kernel_size) / stride) + 1
//
// Example:
//
//	conv, _ := nn.NewConv2D(nn.Conv2DConfig{KernelSize: 3, Stride: 1, Padding: 1})
//	out, _ := conv.Forward(tensor.Shape{1, 3, 32, 32}) // [1, 3, 32, 32]
type Conv2D struct {
	layerBase
	cfg Conv2DConfig
}

// NewConv2D validates cfg and creates a Conv2D layer.
func NewConv2D(cfg Conv2DConfig) (*Conv2D, error) {
	if err := validateWindow(KindConv2D, cfg.KernelSize, cfg.Stride, cfg.Padding); err != nil {
		return nil, err
	}
	if cfg.OutChannels < 0 {
		return nil, paramErrorf(KindConv2D, "out_channels", "must be > 0, got %d", cfg.OutChannels)
	}
	return &Conv2D{layerBase: layerBase{kind: KindConv2D}, cfg: cfg}, nil
}

// Forward computes [batch, channels, out_h, out_w].
func (c *Conv2D) Forward(input tensor.Shape) (tensor.Shape, error) {
	out, err := windowForward(KindConv2D, input, c.cfg.KernelSize, c.cfg.Stride, c.cfg.Padding)
	if err != nil {
		return nil, err
	}
	if c.cfg.OutChannels > 0 {
		out[1] = c.cfg.OutChannels
	}
	return out, nil
}

// Config returns the layer parameters.
func (c *Conv2D) Config() Conv2DConfig { return c.cfg }

// String returns a string representation of the layer.
func (c *Conv2D) String() string {
	if c.cfg.OutChannels > 0 {
		return fmt.Sprintf("Conv2D(kernel_size=%d, stride=%d, padding=%d, out_channels=%d)",
			c.cfg.KernelSize, c.cfg.Stride, c.cfg.Padding, c.cfg.OutChannels)
	}
	return fmt.Sprintf("Conv2D(kernel_size=%d, stride=%d, padding=%d)",
		c.cfg.KernelSize, c.cfg.Stride, c.cfg.Padding)
}

// ComputeOutputSize computes output spatial dimensions for a given input size.
//
// Returns: [out_height, out_width]. Values <= 0 mean the window does not fit.
func ComputeOutputSize(inputH, inputW, kernelSize, stride, padding int) [2]int {
	return [2]int{
		windowOutput(inputH, kernelSize, stride, padding),
		windowOutput(inputW, kernelSize, stride, padding),
	}
}

// windowOutput is floor((in + 2*padding - kernel) / stride) + 1.
//
// The division floors rather than truncates so that a kernel larger than the
// padded input never yields a positive size.
func windowOutput(in, kernel, stride, padding int) int {
	return floorDiv(in+2*padding-kernel, stride) + 1
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// windowForward applies the sliding-window rule shared by Conv2D and
// MaxPool2D, keeping the channel dimension.
func windowForward(kind Kind, input tensor.Shape, kernel, stride, padding int) (tensor.Shape, error) {
	if err := requireRank(kind, input, 4, layoutNCHW); err != nil {
		return nil, err
	}
	size := ComputeOutputSize(input[2], input[3], kernel, stride, padding)
	if size[0] <= 0 || size[1] <= 0 {
		return nil, shapeErrorf(kind, input,
			"invalid output dimensions %dx%d (height x width); check kernel_size=%d, stride=%d and padding=%d",
			size[0], size[1], kernel, stride, padding)
	}
	return tensor.Shape{input[0], input[1], size[0], size[1]}, nil
}

func validateWindow(kind Kind, kernel, stride, padding int) error {
	if kernel <= 0 {
		return paramErrorf(kind, "kernel_size", "must be > 0, got %d", kernel)
	}
	if stride <= 0 {
		return paramErrorf(kind, "stride", "must be > 0, got %d", stride)
	}
	if padding < 0 {
		return paramErrorf(kind, "padding", "must be >= 0, got %d", padding)
	}
	return nil
}
