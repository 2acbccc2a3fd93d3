package nn

import (
	"fmt"
)

// Build maps a layer type tag and its raw parameters to a validated Layer.
//
// Unknown tags fail with *UnknownLayerTypeError. Missing or malformed
// parameters fail with *ConstructionError. Parameter keys a variant does not
// use are ignored.
//
// Parameters per type:
//
//	linear           out_features (optional)
//	conv2d           kernel_size, stride=1, padding=0, out_channels (optional)
//	transposeconv2d  kernel_size, stride=1, padding=0, out_channels (optional)
//	maxpool2d        kernel_size, stride=kernel_size, padding=0
//	flatten          -
//	unflatten        shape (alias target_shape, unflattened_size)
//	reshape          shape
//	dropout          p=0.5
//	batchnorm2d      num_features (alias shape)
//	relu, tanh, sigmoid -
//	leakyrelu        negative_slope=0.01
func Build(typeName string, params Params) (Layer, error) {
	kind, err := ParseKind(typeName)
	if err != nil {
		return nil, err
	}
	return BuildKind(kind, params)
}

// MustBuild is like Build but panics on error.
func MustBuild(typeName string, params Params) Layer {
	layer, err := Build(typeName, params)
	if err != nil {
		panic(fmt.Sprintf("nn.MustBuild(%q): %v", typeName, err))
	}
	return layer
}

// BuildKind builds a layer of the given kind from raw parameters.
func BuildKind(kind Kind, params Params) (Layer, error) {
	d := &paramDecoder{kind: kind, params: params}

	switch kind {
	case KindLinear:
		cfg := LinearConfig{OutFeatures: d.optionalInt("out_features", 0)}
		if d.err != nil {
			return nil, d.err
		}
		return asLayer(NewLinearWithConfig(cfg))

	case KindConv2D:
		cfg := DefaultConv2DConfig(d.requiredInt("kernel_size"))
		cfg.Stride = d.optionalInt("stride", cfg.Stride)
		cfg.Padding = d.optionalInt("padding", cfg.Padding)
		cfg.OutChannels = d.optionalInt("out_channels", 0)
		if d.err != nil {
			return nil, d.err
		}
		return asLayer(NewConv2D(cfg))

	case KindTransposeConv2D:
		cfg := DefaultTransposeConv2DConfig(d.requiredInt("kernel_size"))
		cfg.Stride = d.optionalInt("stride", cfg.Stride)
		cfg.Padding = d.optionalInt("padding", cfg.Padding)
		cfg.OutChannels = d.optionalInt("out_channels", 0)
		if d.err != nil {
			return nil, d.err
		}
		return asLayer(NewTransposeConv2D(cfg))

	case KindMaxPool2D:
		cfg := DefaultMaxPool2DConfig(d.requiredInt("kernel_size"))
		cfg.Stride = d.optionalInt("stride", cfg.KernelSize)
		cfg.Padding = d.optionalInt("padding", cfg.Padding)
		if d.err != nil {
			return nil, d.err
		}
		return asLayer(NewMaxPool2D(cfg))

	case KindFlatten:
		return NewFlatten(), nil

	case KindUnflatten:
		cfg := UnflattenConfig{Shape: d.requiredShape("shape", "target_shape", "unflattened_size")}
		if d.err != nil {
			return nil, d.err
		}
		return asLayer(NewUnflatten(cfg))

	case KindReshape:
		cfg := ReshapeConfig{Shape: d.requiredShape("shape")}
		if d.err != nil {
			return nil, d.err
		}
		return asLayer(NewReshape(cfg))

	case KindDropout:
		p := d.optionalFloat("p", DefaultDropoutProbability)
		if d.err != nil {
			return nil, d.err
		}
		return asLayer(NewDropout(p))

	case KindBatchNorm2D:
		n := d.requiredInt("num_features", "shape")
		if d.err != nil {
			return nil, d.err
		}
		return asLayer(NewBatchNorm2D(n))

	case KindReLU:
		return NewReLU(), nil

	case KindTanh:
		return NewTanh(), nil

	case KindSigmoid:
		return NewSigmoid(), nil

	case KindLeakyReLU:
		slope := d.optionalFloat("negative_slope", DefaultNegativeSlope)
		if d.err != nil {
			return nil, d.err
		}
		return asLayer(NewLeakyReLU(slope))

	case KindInvalid, numKinds:
	}
	return nil, &UnknownLayerTypeError{Type: kind.String()}
}

// asLayer converts a typed constructor result to (Layer, error) without
// producing a non-nil interface around a nil pointer.
func asLayer[L Layer](layer L, err error) (Layer, error) {
	if err != nil {
		return nil, err
	}
	return layer, nil
}
