// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package onnx_test

import (
	"path/filepath"
	"testing"

	"github.com/born-ml/netshape/nn"
	"github.com/born-ml/netshape/onnx"
	"github.com/born-ml/netshape/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reluModel is a graph with a single Relu node from "x" to "y".
var reluModel = []byte{
	0x3a, 0x0e, // graph
	0x0a, 0x0c, // node
	0x0a, 0x01, 'x', // input
	0x12, 0x01, 'y', // output
	0x22, 0x04, 'R', 'e', 'l', 'u', // op_type
}

func TestLoadFromBytes(t *testing.T) {
	layers, input, err := onnx.LoadFromBytes(reluModel)
	require.NoError(t, err)
	require.Len(t, layers, 1)
	assert.Equal(t, nn.KindReLU, layers[0].Kind())
	assert.Nil(t, input)

	steps := nn.Forward(layers, tensor.Shape{2, 5})
	assert.Empty(t, steps.Failed())
}

func TestParse(t *testing.T) {
	model, err := onnx.Parse(reluModel)
	require.NoError(t, err)
	require.Len(t, model.Graph.Nodes, 1)

	imported, err := onnx.Convert(model)
	require.NoError(t, err)
	require.Len(t, imported.Specs, 1)
	assert.Equal(t, "relu", imported.Specs[0].Type)
}

func TestLoad_Errors(t *testing.T) {
	_, _, err := onnx.Load(filepath.Join(t.TempDir(), "missing.onnx"))
	assert.Error(t, err)

	_, _, err = onnx.LoadFromBytes([]byte{0x3a, 0x10})
	assert.ErrorContains(t, err, "failed to parse model")
}
