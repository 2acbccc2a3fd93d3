// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers as shape transformations.
//
// # Overview
//
// This package contains:
//   - Layers: Linear, Conv2D, TransposeConv2D, MaxPool2D
//   - Shape layers: Flatten, Unflatten, Reshape
//   - Regularization: Dropout, BatchNorm2D
//   - Activations: ReLU, Tanh, Sigmoid, LeakyReLU
//   - Utilities: Build (layer factory), Forward (shape simulator), Sequential
//
// A layer computes no values. Its Forward maps an input shape to an output
// shape, or reports why the input cannot be accepted.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/netshape/nn"
//	    "github.com/born-ml/netshape/tensor"
//	)
//
//	func main() {
//	    conv, _ := nn.NewConv2D(nn.Conv2DConfig{KernelSize: 3, Stride: 1, Padding: 1})
//	    pool, _ := nn.NewMaxPool2D(nn.DefaultMaxPool2DConfig(2))
//
//	    steps := nn.Forward([]nn.Layer{conv, nn.NewReLU(), pool, nn.NewFlatten()},
//	        tensor.Shape{1, 3, 32, 32}, nn.WithMode(nn.ModeChained))
//	    for _, step := range steps {
//	        fmt.Println(step.Layer, step.Message())
//	    }
//	}
//
// # Factory
//
// Build constructs a layer from a type tag and untyped parameters, as read
// from a configuration document:
//
//	layer, err := nn.Build("conv2d", nn.Params{"kernel_size": 5, "stride": 2})
//
// Unknown tags fail with *UnknownLayerTypeError; bad parameters fail with
// *ConstructionError.
//
// # Forward Modes
//
// ModeDeclared (the default) feeds every layer the same input shape, which
// checks each layer in isolation. ModeChained feeds each layer the output of
// the previous successful step. In both modes a failing layer is recorded in
// its Step and simulation continues.
package nn
