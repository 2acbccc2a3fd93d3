package nn

import (
	"strings"
)

// Kind identifies a layer variant.
type Kind int

// Layer variants.
const (
	KindInvalid Kind = iota
	KindLinear
	KindConv2D
	KindMaxPool2D
	KindTransposeConv2D
	KindFlatten
	KindUnflatten
	KindReshape
	KindDropout
	KindBatchNorm2D
	KindReLU
	KindTanh
	KindLeakyReLU
	KindSigmoid

	numKinds
)

var kindNames = [numKinds]string{
	KindInvalid:         "invalid",
	KindLinear:          "linear",
	KindConv2D:          "conv2d",
	KindMaxPool2D:       "maxpool2d",
	KindTransposeConv2D: "transposeconv2d",
	KindFlatten:         "flatten",
	KindUnflatten:       "unflatten",
	KindReshape:         "reshape",
	KindDropout:         "dropout",
	KindBatchNorm2D:     "batchnorm2d",
	KindReLU:            "relu",
	KindTanh:            "tanh",
	KindLeakyReLU:       "leakyrelu",
	KindSigmoid:         "sigmoid",
}

// String returns the lowercase type tag used in configuration documents.
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return kindNames[KindInvalid]
	}
	return kindNames[k]
}

// Valid reports whether k names a layer variant.
func (k Kind) Valid() bool {
	return k > KindInvalid && k < numKinds
}

// Kinds returns every layer variant in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, numKinds-1)
	for k := KindInvalid + 1; k < numKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKind maps a type tag to its Kind.
//
// Matching ignores case and surrounding whitespace, so "Conv2d" and
// " conv2d " both resolve to KindConv2D.
func ParseKind(name string) (Kind, error) {
	tag := strings.ToLower(strings.TrimSpace(name))
	for k := KindInvalid + 1; k < numKinds; k++ {
		if kindNames[k] == tag {
			return k, nil
		}
	}
	return KindInvalid, &UnknownLayerTypeError{Type: name}
}
