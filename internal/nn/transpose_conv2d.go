package nn

import (
	"fmt"

	"github.com/born-ml/netshape/internal/tensor"
)

// TransposeConv2DConfig holds the validated parameters of a TransposeConv2D
// layer. Field semantics match Conv2DConfig.
type TransposeConv2DConfig struct {
	KernelSize  int
	Stride      int
	Padding     int
	OutChannels int
}

// DefaultTransposeConv2DConfig returns a config with stride 1 and no padding.
func DefaultTransposeConv2DConfig(kernelSize int) TransposeConv2DConfig {
	return TransposeConv2DConfig{KernelSize: kernelSize, Stride: 1}
}

// TransposeConv2D is the shape rule of a 2D transposed convolution.
//
//	out_h = (height - 1)*stride - 2*padding + kernel_size
//	out_w = (width - 1)*stride - 2*padding + kernel_size
type TransposeConv2D struct {
	layerBase
	cfg TransposeConv2DConfig
}

// NewTransposeConv2D validates cfg and creates a TransposeConv2D layer.
func NewTransposeConv2D(cfg TransposeConv2DConfig) (*TransposeConv2D, error) {
	if err := validateWindow(KindTransposeConv2D, cfg.KernelSize, cfg.Stride, cfg.Padding); err != nil {
		return nil, err
	}
	if cfg.OutChannels < 0 {
		return nil, paramErrorf(KindTransposeConv2D, "out_channels", "must be > 0, got %d", cfg.OutChannels)
	}
	return &TransposeConv2D{layerBase: layerBase{kind: KindTransposeConv2D}, cfg: cfg}, nil
}

// Forward computes [batch, channels, out_h, out_w].
func (c *TransposeConv2D) Forward(input tensor.Shape) (tensor.Shape, error) {
	if err := requireRank(KindTransposeConv2D, input, 4, layoutNCHW); err != nil {
		return nil, err
	}
	outH := (input[2]-1)*c.cfg.Stride - 2*c.cfg.Padding + c.cfg.KernelSize
	outW := (input[3]-1)*c.cfg.Stride - 2*c.cfg.Padding + c.cfg.KernelSize
	if outH <= 0 || outW <= 0 {
		return nil, shapeErrorf(KindTransposeConv2D, input,
			"invalid output dimensions %dx%d (height x width); check kernel_size=%d, stride=%d and padding=%d",
			outH, outW, c.cfg.KernelSize, c.cfg.Stride, c.cfg.Padding)
	}

	channels := input[1]
	if c.cfg.OutChannels > 0 {
		channels = c.cfg.OutChannels
	}
	return tensor.Shape{input[0], channels, outH, outW}, nil
}

// Config returns the layer parameters.
func (c *TransposeConv2D) Config() TransposeConv2DConfig { return c.cfg }

// String returns a string representation of the layer.
func (c *TransposeConv2D) String() string {
	if c.cfg.OutChannels > 0 {
		return fmt.Sprintf("TransposeConv2D(kernel_size=%d, stride=%d, padding=%d, out_channels=%d)",
			c.cfg.KernelSize, c.cfg.Stride, c.cfg.Padding, c.cfg.OutChannels)
	}
	return fmt.Sprintf("TransposeConv2D(kernel_size=%d, stride=%d, padding=%d)",
		c.cfg.KernelSize, c.cfg.Stride, c.cfg.Padding)
}
