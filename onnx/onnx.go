// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package onnx imports the layer sequence of ONNX models.
//
// Models exported from PyTorch, TensorFlow and other frameworks can be
// checked without rewriting them as YAML, provided the graph is a plain
// sequence of supported operators.
//
// # Supported Operators
//
//   - Conv, ConvTranspose, MaxPool (square kernels, symmetric padding)
//   - Gemm, MatMul
//   - Flatten, Reshape (constant target shape)
//   - Dropout, BatchNormalization
//   - Relu, Tanh, Sigmoid, LeakyRelu
//   - Identity, Constant and bias Add (dropped, shapes unchanged)
//
// # Example Usage
//
//	import (
//	    "github.com/born-ml/netshape/nn"
//	    "github.com/born-ml/netshape/onnx"
//	)
//
//	layers, input, err := onnx.Load("lenet.onnx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	steps := nn.Forward(layers, input, nn.WithMode(nn.ModeChained))
package onnx

import (
	"github.com/born-ml/netshape/internal/config"
	"github.com/born-ml/netshape/internal/onnx"
	"github.com/born-ml/netshape/nn"
	"github.com/born-ml/netshape/tensor"
	"github.com/pkg/errors"
)

// Model is a decoded ONNX model.
type Model = onnx.ModelProto

// Imported is the layer sequence recovered from a model.
type Imported = onnx.Imported

// Conversion errors, matched with errors.Is.
var (
	ErrUnsupportedOperator = onnx.ErrUnsupportedOperator
	ErrNotLinear           = onnx.ErrNotLinear
)

// Parse decodes an ONNX model from bytes.
func Parse(data []byte) (*Model, error) {
	return onnx.Parse(data)
}

// ParseFile decodes an ONNX model from file.
func ParseFile(path string) (*Model, error) {
	return onnx.ParseFile(path)
}

// Convert maps a linear model graph to layer specs.
func Convert(model *Model) (*Imported, error) {
	return onnx.Convert(model)
}

// Load reads an ONNX file and builds its layers.
//
// The returned shape is the declared graph input with symbolic dimensions
// set to 1, or nil if the model declares none.
func Load(path string) ([]nn.Layer, tensor.Shape, error) {
	model, err := onnx.ParseFile(path)
	if err != nil {
		return nil, nil, err
	}
	return build(model)
}

// LoadFromBytes is like Load for an in-memory model.
func LoadFromBytes(data []byte) ([]nn.Layer, tensor.Shape, error) {
	model, err := onnx.Parse(data)
	if err != nil {
		return nil, nil, err
	}
	return build(model)
}

func build(model *Model) ([]nn.Layer, tensor.Shape, error) {
	imported, err := onnx.Convert(model)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "failed to import model")
	}
	layers, err := config.BuildLayers(imported.Specs)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "failed to import model")
	}
	return layers, imported.Input, nil
}
