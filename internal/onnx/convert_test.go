package onnx

import (
	"testing"

	"github.com/born-ml/netshape/internal/config"
	"github.com/born-ml/netshape/internal/nn"
	"github.com/born-ml/netshape/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convertGraph(t *testing.T, g *graphBuilder) (*Imported, error) {
	t.Helper()
	model, err := Parse(g.encode())
	require.NoError(t, err)
	return Convert(model)
}

func TestConvert_LeNet(t *testing.T) {
	imported, err := convertGraph(t, lenetGraph())
	require.NoError(t, err)

	assert.Equal(t, "lenet", imported.Graph)
	assert.Equal(t, tensor.Shape{1, 1, 28, 28}, imported.Input)

	types := make([]string, len(imported.Specs))
	for i, spec := range imported.Specs {
		types[i] = spec.Type
	}
	assert.Equal(t, []string{
		"conv2d", "relu", "maxpool2d",
		"conv2d", "relu", "maxpool2d",
		"flatten",
		"linear", "relu", "linear", "relu", "linear",
	}, types)

	assert.Equal(t, nn.Params{"kernel_size": 5, "stride": 1, "padding": 0, "out_channels": 6}, imported.Specs[0].Params)
	assert.Equal(t, nn.Params{"kernel_size": 2, "stride": 2, "padding": 0}, imported.Specs[2].Params)
	assert.Equal(t, nn.Params{"out_features": 120}, imported.Specs[7].Params)
	assert.Equal(t, nn.Params{"out_features": 84}, imported.Specs[9].Params)
	assert.Equal(t, nn.Params{"out_features": 10}, imported.Specs[11].Params)
}

// TestConvert_Simulate builds the imported layers and runs them on the
// declared input.
func TestConvert_Simulate(t *testing.T) {
	imported, err := convertGraph(t, lenetGraph())
	require.NoError(t, err)

	layers, err := config.BuildLayers(imported.Specs)
	require.NoError(t, err)

	steps := nn.Forward(layers, imported.Input, nn.WithMode(nn.ModeChained))
	require.Empty(t, steps.Failed())
	assert.Equal(t, tensor.Shape{1, 6, 24, 24}, steps[0].Output)
	assert.Equal(t, tensor.Shape{1, 256}, steps[6].Output)

	final, ok := steps.Final()
	require.True(t, ok)
	assert.Equal(t, tensor.Shape{1, 10}, final)
}

func TestConvert_Operators(t *testing.T) {
	g := &graphBuilder{
		nodes: []*protoBuilder{
			node("ConvTranspose", []string{"x", "up.weight"}, []string{"u"},
				intsAttr("kernel_shape", 4, 4), intsAttr("strides", 2, 2), intsAttr("pads", 1, 1, 1, 1)),
			node("BatchNormalization", []string{"u", "bn.scale", "bn.bias", "bn.mean", "bn.var"}, []string{"b"}),
			node("LeakyRelu", []string{"b"}, []string{"l"}, attrF("alpha", 0.2)),
			node("Identity", []string{"l"}, []string{"i"}),
			node("Tanh", []string{"i"}, []string{"th"}),
			node("Sigmoid", []string{"th"}, []string{"s"}),
			node("Dropout", []string{"s", "ratio"}, []string{"d"}),
			node("Constant", nil, []string{"flat"}, attrTensor("value", int64Tensor("", 0, -1))),
			node("Reshape", []string{"d", "flat"}, []string{"f"}),
			node("Constant", nil, []string{"grid"}, attrTensor("value", int64Tensor("", 1, 8, 16, 16))),
			node("Reshape", []string{"f", "grid"}, []string{"out"}),
		},
		initializers: []*protoBuilder{
			weight("up.weight", 16, 8, 4, 4),
			weight("bn.scale", 8),
			weight("bn.bias", 8),
			weight("bn.mean", 8),
			weight("bn.var", 8),
			floatTensor("ratio", 0.2),
		},
		inputs: []*protoBuilder{valueInfo("x", 1, 16, 8, 8)},
	}

	imported, err := convertGraph(t, g)
	require.NoError(t, err)
	specs := imported.Specs
	require.Len(t, specs, 8)

	assert.Equal(t, "transposeconv2d", specs[0].Type)
	assert.Equal(t, nn.Params{"kernel_size": 4, "stride": 2, "padding": 1, "out_channels": 8}, specs[0].Params)
	assert.Equal(t, nn.Params{"num_features": 8}, specs[1].Params)
	assert.Equal(t, "leakyrelu", specs[2].Type)
	assert.Equal(t, 0.2, specs[2].Params["negative_slope"])
	assert.Equal(t, "tanh", specs[3].Type)
	assert.Equal(t, "sigmoid", specs[4].Type)
	assert.Equal(t, "dropout", specs[5].Type)
	assert.Equal(t, 0.2, specs[5].Params["p"])
	assert.Equal(t, "flatten", specs[6].Type)
	assert.Equal(t, nn.Params{"shape": []int{1, 8, 16, 16}}, specs[7].Params)

	layers, err := config.BuildLayers(specs)
	require.NoError(t, err)
	steps := nn.Forward(layers, imported.Input, nn.WithMode(nn.ModeChained))
	require.Empty(t, steps.Failed())
	final, _ := steps.Final()
	assert.Equal(t, tensor.Shape{1, 8, 16, 16}, final)
}

func TestConvert_DropoutRatio(t *testing.T) {
	g := &graphBuilder{
		nodes:  []*protoBuilder{node("Dropout", []string{"x"}, []string{"y"}, attrF("ratio", 0.3))},
		inputs: []*protoBuilder{valueInfo("x", 1, 10)},
	}
	imported, err := convertGraph(t, g)
	require.NoError(t, err)
	require.Len(t, imported.Specs, 1)
	assert.Equal(t, nn.Params{"p": 0.3}, imported.Specs[0].Params)

	layers, err := config.BuildLayers(imported.Specs)
	require.NoError(t, err)
	assert.Equal(t, "Dropout(p=0.3)", layers[0].String())
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []*protoBuilder
		target  error
		message string
	}{
		{
			name:    "unsupported operator",
			nodes:   []*protoBuilder{node("Softmax", []string{"x"}, []string{"y"})},
			target:  ErrUnsupportedOperator,
			message: "node 0 (Softmax)",
		},
		{
			name: "branch",
			nodes: []*protoBuilder{
				node("Relu", []string{"x"}, []string{"a"}),
				node("Relu", []string{"x"}, []string{"b"}),
			},
			target:  ErrNotLinear,
			message: `expected only "a"`,
		},
		{
			name: "merge",
			nodes: []*protoBuilder{
				node("Relu", []string{"x"}, []string{"a"}),
				node("Add", []string{"a", "x"}, []string{"b"}),
			},
			target: ErrNotLinear,
		},
		{
			name:    "non-uniform padding",
			nodes:   []*protoBuilder{node("MaxPool", []string{"x"}, []string{"y"}, intsAttr("kernel_shape", 2, 2), intsAttr("pads", 0, 1, 0, 1))},
			target:  ErrUnsupportedOperator,
			message: "non-uniform pads",
		},
		{
			name:    "rectangular kernel",
			nodes:   []*protoBuilder{node("MaxPool", []string{"x"}, []string{"y"}, intsAttr("kernel_shape", 2, 3))},
			target:  ErrUnsupportedOperator,
			message: "kernel_shape",
		},
		{
			name:    "ceil mode",
			nodes:   []*protoBuilder{node("MaxPool", []string{"x"}, []string{"y"}, intsAttr("kernel_shape", 2, 2), attrI("ceil_mode", 1))},
			target:  ErrUnsupportedOperator,
			message: "ceil_mode",
		},
		{
			name:    "auto pad",
			nodes:   []*protoBuilder{node("MaxPool", []string{"x"}, []string{"y"}, intsAttr("kernel_shape", 2, 2), attrS("auto_pad", "SAME_UPPER"))},
			target:  ErrUnsupportedOperator,
			message: "auto_pad=SAME_UPPER",
		},
		{
			name:    "flatten axis",
			nodes:   []*protoBuilder{node("Flatten", []string{"x"}, []string{"y"}, attrI("axis", 2))},
			target:  ErrUnsupportedOperator,
			message: "axis=2",
		},
		{
			name: "inferred reshape",
			nodes: []*protoBuilder{
				node("Constant", nil, []string{"s"}, attrTensor("value", int64Tensor("", 1, -1, 4))),
				node("Reshape", []string{"x", "s"}, []string{"y"}),
			},
			target:  ErrUnsupportedOperator,
			message: "inferred dimension",
		},
		{
			name:    "dynamic reshape",
			nodes:   []*protoBuilder{node("Reshape", []string{"x"}, []string{"y"})},
			target:  ErrUnsupportedOperator,
			message: "shape is not a constant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &graphBuilder{
				nodes:  tt.nodes,
				inputs: []*protoBuilder{valueInfo("x", 1, 3, 8, 8)},
			}
			imported, err := convertGraph(t, g)
			require.Error(t, err)
			assert.Nil(t, imported)
			assert.ErrorIs(t, err, tt.target)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestConvert_NilModel(t *testing.T) {
	_, err := Convert(nil)
	assert.Error(t, err)
	_, err = Convert(&ModelProto{})
	assert.Error(t, err)
}
