// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package config reads network descriptions and builds their layers.
//
// # Document Format
//
// A document is YAML or JSON with a top-level "layers" list:
//
//	layers:
//	  - type: conv2d
//	    params: {kernel_size: 3, stride: 1, padding: 1}
//	  - type: relu
//	  - type: maxpool2d
//	    params: {kernel_size: 2}
//	  - type: flatten
//	  - type: linear
//
// # Basic Usage
//
//	layers, err := config.ParseBlocks(document)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	steps := nn.Forward(layers, tensor.Shape{1, 3, 32, 32}, nn.WithMode(nn.ModeChained))
package config

import (
	"github.com/born-ml/netshape/internal/config"
	"github.com/born-ml/netshape/nn"
)

// LayerSpec is a layer description before construction.
type LayerSpec = config.LayerSpec

// FormatError reports a document that cannot be turned into layer specs.
type FormatError = config.FormatError

// FormatError categories, matched with errors.Is.
var (
	ErrMalformedDocument = config.ErrMalformedDocument
	ErrMissingLayers     = config.ErrMissingLayers
	ErrMissingType       = config.ErrMissingType
)

// Parse converts a document into an ordered list of LayerSpecs.
func Parse(document []byte) ([]LayerSpec, error) {
	return config.Parse(document)
}

// BuildLayers constructs a layer for every spec. The first failure aborts.
func BuildLayers(specs []LayerSpec) ([]nn.Layer, error) {
	return config.BuildLayers(specs)
}

// ParseBlocks parses a document and builds its layers.
func ParseBlocks(document []byte) ([]nn.Layer, error) {
	return config.ParseBlocks(document)
}
