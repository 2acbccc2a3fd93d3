package nn

import (
	"testing"

	"github.com/born-ml/netshape/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// panicLayer panics on every forward call.
type panicLayer struct {
	layerBase
}

func (p *panicLayer) Forward(tensor.Shape) (tensor.Shape, error) {
	panic("boom")
}

func (p *panicLayer) String() string { return "Panic()" }

func cnnLayers(t *testing.T) []Layer {
	t.Helper()
	return []Layer{
		MustBuild("conv2d", Params{"kernel_size": 3, "stride": 1, "padding": 1}),
		MustBuild("relu", nil),
		MustBuild("maxpool2d", Params{"kernel_size": 2, "stride": 2, "padding": 0}),
		MustBuild("flatten", nil),
		MustBuild("linear", nil),
	}
}

// TestForward_DeclaredMode checks that every step sees the original input.
func TestForward_DeclaredMode(t *testing.T) {
	input := tensor.Shape{1, 3, 32, 32}
	steps := Forward(cnnLayers(t), input)
	require.Len(t, steps, 5)

	for i, step := range steps {
		assert.Equal(t, i, step.Index)
		assert.Equal(t, input, step.Input, "step %d", i)
	}

	assert.Equal(t, tensor.Shape{1, 3, 32, 32}, steps[0].Output)
	assert.Equal(t, tensor.Shape{1, 3, 32, 32}, steps[1].Output)
	assert.Equal(t, tensor.Shape{1, 3, 16, 16}, steps[2].Output)
	assert.Equal(t, tensor.Shape{1, 3072}, steps[3].Output)

	// Linear sees the 4D original input.
	assert.False(t, steps[4].OK())
	assert.Nil(t, steps[4].Output)
	assert.Contains(t, steps[4].Message(), "expected 2D input")
	assert.Equal(t, []int{4}, steps.Failed())
}

// TestForward_ChainedMode runs the conventional conv -> pool -> flatten ->
// linear pipeline.
func TestForward_ChainedMode(t *testing.T) {
	steps := Forward(cnnLayers(t), tensor.Shape{1, 3, 32, 32}, WithMode(ModeChained))
	require.Len(t, steps, 5)

	want := []tensor.Shape{
		{1, 3, 32, 32},
		{1, 3, 32, 32},
		{1, 3, 16, 16},
		{1, 768},
		{1, 768},
	}
	for i, step := range steps {
		require.True(t, step.OK(), "step %d: %s", i, step.Message())
		assert.Equal(t, want[i], step.Output)
		assert.Empty(t, step.Message())
	}
	assert.Equal(t, tensor.Shape{1, 768}, steps[3].Input)

	final, ok := steps.Final()
	require.True(t, ok)
	assert.Equal(t, tensor.Shape{1, 768}, final)
	assert.Empty(t, steps.Failed())
}

func TestForward_ChainedSkipsFailedOutput(t *testing.T) {
	layers := []Layer{
		MustBuild("flatten", nil),
		MustBuild("conv2d", Params{"kernel_size": 3}),
		MustBuild("linear", nil),
	}
	steps := Forward(layers, tensor.Shape{2, 4, 5, 5}, WithMode(ModeChained))
	require.Len(t, steps, 3)

	assert.True(t, steps[0].OK())
	assert.False(t, steps[1].OK())
	// The failed conv contributes nothing; linear receives the flatten output.
	assert.Equal(t, tensor.Shape{2, 100}, steps[2].Input)
	assert.True(t, steps[2].OK())
}

// TestForward_FailureDoesNotAbort mirrors a pipeline whose first layer cannot
// fit its kernel.
func TestForward_FailureDoesNotAbort(t *testing.T) {
	layers := []Layer{
		MustBuild("conv2d", Params{"kernel_size": 5, "stride": 1, "padding": 0}),
		MustBuild("maxpool2d", Params{"kernel_size": 8}),
		MustBuild("flatten", nil),
		MustBuild("linear", nil),
	}
	input := tensor.Shape{1, 3, 4, 4}
	steps := Forward(layers, input)
	require.Len(t, steps, 4)

	assert.False(t, steps[0].OK())
	assert.Contains(t, steps[0].Message(), "invalid output dimensions")
	assert.ErrorIs(t, steps[0].Err, ErrIncompatibleShape)

	assert.False(t, steps[1].OK())
	assert.True(t, steps[2].OK())
	assert.Equal(t, tensor.Shape{1, 48}, steps[2].Output)
	assert.False(t, steps[3].OK())

	for _, step := range steps {
		assert.Equal(t, input, step.Input)
	}
	assert.Equal(t, []int{0, 1, 3}, steps.Failed())
}

// TestForward_NeverPanics checks one step per layer for nil layers,
// panicking layers and degenerate inputs.
func TestForward_NeverPanics(t *testing.T) {
	var nilConv *Conv2D
	layers := []Layer{
		nil,
		&panicLayer{layerBase{kind: KindReLU}},
		nilConv,
		NewFlatten(),
		MustBuild("batchnorm2d", Params{"num_features": 3}),
	}

	for _, input := range []tensor.Shape{nil, {}, {1}, {0, 0, 0, 0}, {1, 3, 32, 32}} {
		for _, mode := range []Mode{ModeDeclared, ModeChained} {
			var steps Steps
			require.NotPanics(t, func() {
				steps = Forward(layers, input, WithMode(mode))
			})
			require.Len(t, steps, len(layers))
			assert.False(t, steps[0].OK())
			assert.Contains(t, steps[0].Message(), "nil layer")
			assert.False(t, steps[1].OK())
			assert.Contains(t, steps[1].Message(), "panic during forward: boom")
			assert.False(t, steps[2].OK())
		}
	}
}

func TestForward_Empty(t *testing.T) {
	steps := Forward(nil, tensor.Shape{1, 2})
	assert.Empty(t, steps)

	_, ok := steps.Final()
	assert.False(t, ok)
}

func TestForward_Deterministic(t *testing.T) {
	layers := cnnLayers(t)
	input := tensor.Shape{1, 3, 32, 32}

	first := Forward(layers, input)
	second := Forward(layers, input)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Output, second[i].Output)
		assert.Equal(t, first[i].Message(), second[i].Message())
	}
}

func TestForward_StepsDoNotAliasInput(t *testing.T) {
	input := tensor.Shape{1, 3, 32, 32}
	steps := Forward(cnnLayers(t), input)

	steps[0].Input[0] = 42
	steps[1].Output[0] = 42
	assert.Equal(t, 1, input[0])
	assert.Equal(t, 1, steps[1].Input[0])
	assert.Equal(t, 1, steps[2].Input[0])
}

func TestSequential(t *testing.T) {
	model := NewSequential(cnnLayers(t)...)
	assert.Equal(t, 5, model.Len())

	model.Add(NewSigmoid())
	assert.Equal(t, 6, model.Len())
	assert.Equal(t, KindSigmoid, model.Layer(5).Kind())
	assert.Panics(t, func() { model.Layer(6) })

	steps := model.Forward(tensor.Shape{1, 3, 32, 32}, WithMode(ModeChained))
	require.Len(t, steps, 6)
	assert.Empty(t, steps.Failed())

	layers := model.Layers()
	layers[0] = nil
	assert.NotNil(t, model.Layer(0))

	assert.Contains(t, model.String(), "(2): MaxPool2D(kernel_size=2, stride=2, padding=0)")
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("chained")
	require.NoError(t, err)
	assert.Equal(t, ModeChained, mode)
	assert.Equal(t, "chained", mode.String())

	mode, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeDeclared, mode)

	_, err = ParseMode("parallel")
	assert.Error(t, err)
}
