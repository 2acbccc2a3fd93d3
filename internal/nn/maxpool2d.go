package nn

import (
	"fmt"

	"github.com/born-ml/netshape/internal/tensor"
)

// MaxPool2DConfig holds the validated parameters of a MaxPool2D layer.
type MaxPool2DConfig struct {
	KernelSize int // Square pooling window, > 0
	Stride     int // > 0; the factory defaults it to KernelSize
	Padding    int // >= 0
}

// DefaultMaxPool2DConfig returns non-overlapping pooling: stride equals the
// kernel size and there is no padding.
func DefaultMaxPool2DConfig(kernelSize int) MaxPool2DConfig {
	return MaxPool2DConfig{KernelSize: kernelSize, Stride: kernelSize}
}

// MaxPool2D is the shape rule of a 2D max pooling layer.
//
// Input shape:  [batch, channels, height, width]
// Output shape: [batch, channels, out_height, out_width]
//
// The output size uses the same formula as Conv2D. Channels are kept.
//
// Common configurations:
//   - 2x2 pool, stride=2: Reduces spatial dimensions by half (most common)
//   - 3x3 pool, stride=2: Aggressive downsampling
//   - 2x2 pool, stride=1: Overlapping pooling (less common)
type MaxPool2D struct {
	layerBase
	cfg MaxPool2DConfig
}

// NewMaxPool2D validates cfg and creates a MaxPool2D layer.
func NewMaxPool2D(cfg MaxPool2DConfig) (*MaxPool2D, error) {
	if err := validateWindow(KindMaxPool2D, cfg.KernelSize, cfg.Stride, cfg.Padding); err != nil {
		return nil, err
	}
	return &MaxPool2D{layerBase: layerBase{kind: KindMaxPool2D}, cfg: cfg}, nil
}

// Forward computes [batch, channels, out_height, out_width].
func (m *MaxPool2D) Forward(input tensor.Shape) (tensor.Shape, error) {
	return windowForward(KindMaxPool2D, input, m.cfg.KernelSize, m.cfg.Stride, m.cfg.Padding)
}

// Config returns the layer parameters.
func (m *MaxPool2D) Config() MaxPool2DConfig { return m.cfg }

// String returns a string representation of the layer.
func (m *MaxPool2D) String() string {
	return fmt.Sprintf("MaxPool2D(kernel_size=%d, stride=%d, padding=%d)",
		m.cfg.KernelSize, m.cfg.Stride, m.cfg.Padding)
}
