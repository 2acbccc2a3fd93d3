package config

import (
	"github.com/born-ml/netshape/internal/nn"
	"github.com/pkg/errors"
)

// BuildLayers constructs a layer for every spec, in order.
//
// The first failure aborts the build: a description with one bad layer
// yields no layers at all.
func BuildLayers(specs []LayerSpec) ([]nn.Layer, error) {
	layers := make([]nn.Layer, 0, len(specs))
	for i, spec := range specs {
		layer, err := nn.Build(spec.Type, spec.Params)
		if err != nil {
			if spec.Line > 0 {
				return nil, errors.WithMessagef(err, "layer %d (%s, line %d)", i, spec.Type, spec.Line)
			}
			return nil, errors.WithMessagef(err, "layer %d (%s)", i, spec.Type)
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

// ParseBlocks parses a document and builds its layers.
//
// The returned error wraps the first *FormatError, *nn.UnknownLayerTypeError
// or *nn.ConstructionError encountered; use errors.As to inspect it.
func ParseBlocks(document []byte) ([]nn.Layer, error) {
	specs, err := Parse(document)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to parse config")
	}
	layers, err := BuildLayers(specs)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to parse config")
	}
	return layers, nil
}
