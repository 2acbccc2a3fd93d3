// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package config_test

import (
	"testing"

	"github.com/born-ml/netshape/config"
	"github.com/born-ml/netshape/nn"
	"github.com/born-ml/netshape/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBlocks(t *testing.T) {
	doc := []byte(`{"layers": [
  {"type": "conv2d", "params": {"kernel_size": 3, "stride": 1, "padding": 1}},
  {"type": "relu"},
  {"type": "maxpool2d", "params": {"kernel_size": 2, "stride": 2}},
  {"type": "flatten"},
  {"type": "linear"}
  ]}`)

	layers, err := config.ParseBlocks(doc)
	require.NoError(t, err)

	steps := nn.Forward(layers, tensor.Shape{1, 3, 32, 32}, nn.WithMode(nn.ModeChained))
	final, ok := steps.Final()
	require.True(t, ok)
	assert.Equal(t, tensor.Shape{1, 768}, final)
}

func TestParseBlocks_Errors(t *testing.T) {
	_, err := config.ParseBlocks([]byte("model: {}"))
	assert.ErrorIs(t, err, config.ErrMissingLayers)

	_, err = config.ParseBlocks([]byte("layers:\n  - {}\n"))
	assert.ErrorIs(t, err, config.ErrMissingType)

	_, err = config.ParseBlocks([]byte("layers:\n  - type: softmax\n"))
	assert.ErrorIs(t, err, nn.ErrUnknownLayerType)
}
