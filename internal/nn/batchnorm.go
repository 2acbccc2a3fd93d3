package nn

import (
	"fmt"

	"github.com/born-ml/netshape/internal/tensor"
)

// BatchNorm2D checks that a 4D input has the configured channel count.
//
// Input shape:  [batch, num_features, height, width]
// Output shape: unchanged
type BatchNorm2D struct {
	layerBase
	numFeatures int
}

// NewBatchNorm2D creates a BatchNorm2D layer over numFeatures channels.
func NewBatchNorm2D(numFeatures int) (*BatchNorm2D, error) {
	if numFeatures <= 0 {
		return nil, paramErrorf(KindBatchNorm2D, "num_features", "must be > 0, got %d", numFeatures)
	}
	return &BatchNorm2D{layerBase: layerBase{kind: KindBatchNorm2D}, numFeatures: numFeatures}, nil
}

// Forward requires rank 4 and a matching channel dimension.
func (b *BatchNorm2D) Forward(input tensor.Shape) (tensor.Shape, error) {
	if err := requireRank(KindBatchNorm2D, input, 4, layoutNCHW); err != nil {
		return nil, err
	}
	if input[1] != b.numFeatures {
		return nil, shapeErrorf(KindBatchNorm2D, input,
			"expected %d channels but got %d", b.numFeatures, input[1])
	}
	return input.Clone(), nil
}

// NumFeatures returns the expected channel count.
func (b *BatchNorm2D) NumFeatures() int { return b.numFeatures }

// String returns a string representation of the layer.
func (b *BatchNorm2D) String() string {
	return fmt.Sprintf("BatchNorm2D(num_features=%d)", b.numFeatures)
}
