// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/netshape/internal/nn"
	"github.com/born-ml/netshape/internal/tensor"
)

// Layer is a shape transformation with a stable identifier.
type Layer = nn.Layer

// Kind identifies a layer variant.
type Kind = nn.Kind

// Layer kinds.
const (
	KindLinear          = nn.KindLinear
	KindConv2D          = nn.KindConv2D
	KindMaxPool2D       = nn.KindMaxPool2D
	KindTransposeConv2D = nn.KindTransposeConv2D
	KindFlatten         = nn.KindFlatten
	KindUnflatten       = nn.KindUnflatten
	KindReshape         = nn.KindReshape
	KindDropout         = nn.KindDropout
	KindBatchNorm2D     = nn.KindBatchNorm2D
	KindReLU            = nn.KindReLU
	KindTanh            = nn.KindTanh
	KindLeakyReLU       = nn.KindLeakyReLU
	KindSigmoid         = nn.KindSigmoid
)

// Kinds returns every supported layer kind.
func Kinds() []Kind {
	return nn.Kinds()
}

// ParseKind resolves a type tag such as "conv2d" to its Kind.
func ParseKind(name string) (Kind, error) {
	return nn.ParseKind(name)
}

// Layers

// Linear represents a fully connected layer.
type Linear = nn.Linear

// LinearConfig configures a Linear layer.
type LinearConfig = nn.LinearConfig

// NewLinear creates a linear layer that keeps the feature dimension.
func NewLinear() *Linear {
	return nn.NewLinear()
}

// NewLinearWithConfig creates a linear layer from cfg.
func NewLinearWithConfig(cfg LinearConfig) (*Linear, error) {
	return nn.NewLinearWithConfig(cfg)
}

// Conv2D represents a 2D convolutional layer.
type Conv2D = nn.Conv2D

// Conv2DConfig configures a Conv2D layer.
type Conv2DConfig = nn.Conv2DConfig

// DefaultConv2DConfig returns a config with stride 1 and no padding.
func DefaultConv2DConfig(kernelSize int) Conv2DConfig {
	return nn.DefaultConv2DConfig(kernelSize)
}

// NewConv2D creates a 2D convolutional layer.
//
// Example:
//
//	conv, err := nn.NewConv2D(nn.Conv2DConfig{KernelSize: 3, Stride: 1, Padding: 1})
func NewConv2D(cfg Conv2DConfig) (*Conv2D, error) {
	return nn.NewConv2D(cfg)
}

// ComputeOutputSize returns the spatial output size of a convolution window.
func ComputeOutputSize(inputH, inputW, kernelSize, stride, padding int) [2]int {
	return nn.ComputeOutputSize(inputH, inputW, kernelSize, stride, padding)
}

// TransposeConv2D represents a 2D transposed convolution.
type TransposeConv2D = nn.TransposeConv2D

// TransposeConv2DConfig configures a TransposeConv2D layer.
type TransposeConv2DConfig = nn.TransposeConv2DConfig

// DefaultTransposeConv2DConfig returns a config with stride 1 and no padding.
func DefaultTransposeConv2DConfig(kernelSize int) TransposeConv2DConfig {
	return nn.DefaultTransposeConv2DConfig(kernelSize)
}

// NewTransposeConv2D creates a 2D transposed convolution layer.
func NewTransposeConv2D(cfg TransposeConv2DConfig) (*TransposeConv2D, error) {
	return nn.NewTransposeConv2D(cfg)
}

// MaxPool2D represents a 2D max pooling layer.
type MaxPool2D = nn.MaxPool2D

// MaxPool2DConfig configures a MaxPool2D layer.
type MaxPool2DConfig = nn.MaxPool2DConfig

// DefaultMaxPool2DConfig returns a config with stride equal to the kernel size.
func DefaultMaxPool2DConfig(kernelSize int) MaxPool2DConfig {
	return nn.DefaultMaxPool2DConfig(kernelSize)
}

// NewMaxPool2D creates a 2D max pooling layer.
func NewMaxPool2D(cfg MaxPool2DConfig) (*MaxPool2D, error) {
	return nn.NewMaxPool2D(cfg)
}

// Flatten collapses all non-batch dimensions.
type Flatten = nn.Flatten

// NewFlatten creates a flatten layer.
func NewFlatten() *Flatten {
	return nn.NewFlatten()
}

// Unflatten expands the feature dimension into a target shape.
type Unflatten = nn.Unflatten

// UnflattenConfig configures an Unflatten layer.
type UnflattenConfig = nn.UnflattenConfig

// NewUnflatten creates an unflatten layer.
func NewUnflatten(cfg UnflattenConfig) (*Unflatten, error) {
	return nn.NewUnflatten(cfg)
}

// Reshape replaces the whole shape, conserving the element count.
type Reshape = nn.Reshape

// ReshapeConfig configures a Reshape layer.
type ReshapeConfig = nn.ReshapeConfig

// NewReshape creates a reshape layer.
func NewReshape(cfg ReshapeConfig) (*Reshape, error) {
	return nn.NewReshape(cfg)
}

// Dropout keeps its input shape.
type Dropout = nn.Dropout

// DefaultDropoutProbability is used when no probability is given.
const DefaultDropoutProbability = nn.DefaultDropoutProbability

// NewDropout creates a dropout layer with probability p in [0, 1].
func NewDropout(p float64) (*Dropout, error) {
	return nn.NewDropout(p)
}

// BatchNorm2D checks the channel count of a 4D input.
type BatchNorm2D = nn.BatchNorm2D

// NewBatchNorm2D creates a batch normalization layer over numFeatures channels.
func NewBatchNorm2D(numFeatures int) (*BatchNorm2D, error) {
	return nn.NewBatchNorm2D(numFeatures)
}

// Activations

// Activation is a parameterless element-wise activation.
type Activation = nn.Activation

// NewReLU creates a ReLU activation.
func NewReLU() *Activation {
	return nn.NewReLU()
}

// NewTanh creates a Tanh activation.
func NewTanh() *Activation {
	return nn.NewTanh()
}

// NewSigmoid creates a Sigmoid activation.
func NewSigmoid() *Activation {
	return nn.NewSigmoid()
}

// LeakyReLU is a ReLU with a negative slope.
type LeakyReLU = nn.LeakyReLU

// DefaultNegativeSlope is used when no slope is given.
const DefaultNegativeSlope = nn.DefaultNegativeSlope

// NewLeakyReLU creates a LeakyReLU activation.
func NewLeakyReLU(slope float64) (*LeakyReLU, error) {
	return nn.NewLeakyReLU(slope)
}

// Factory

// Params holds untyped layer parameters keyed by name.
type Params = nn.Params

// Build maps a type tag and parameters to a validated layer.
//
// Example:
//
//	layer, err := nn.Build("maxpool2d", nn.Params{"kernel_size": 2})
func Build(typeName string, params Params) (Layer, error) {
	return nn.Build(typeName, params)
}

// BuildKind builds a layer of the given kind.
func BuildKind(kind Kind, params Params) (Layer, error) {
	return nn.BuildKind(kind, params)
}

// MustBuild is like Build but panics on error.
func MustBuild(typeName string, params Params) Layer {
	return nn.MustBuild(typeName, params)
}

// Simulation

// Mode selects how Forward feeds inputs to layers.
type Mode = nn.Mode

// Forward modes.
const (
	ModeDeclared = nn.ModeDeclared
	ModeChained  = nn.ModeChained
)

// ParseMode resolves "declared" or "chained".
func ParseMode(name string) (Mode, error) {
	return nn.ParseMode(name)
}

// ForwardOption configures Forward.
type ForwardOption = nn.ForwardOption

// WithMode sets the forward mode.
func WithMode(mode Mode) ForwardOption {
	return nn.WithMode(mode)
}

// Step records the outcome of one layer during simulation.
type Step = nn.Step

// Steps is an ordered simulation result.
type Steps = nn.Steps

// Forward simulates layers on input and returns one Step per layer.
//
// Forward never fails as a whole; per-layer failures are recorded in the
// corresponding Step.
func Forward(layers []Layer, input tensor.Shape, opts ...ForwardOption) Steps {
	return nn.Forward(layers, input, opts...)
}

// Sequential is an ordered container of layers.
type Sequential = nn.Sequential

// NewSequential creates a sequential container.
func NewSequential(layers ...Layer) *Sequential {
	return nn.NewSequential(layers...)
}

// Errors

// Sentinel errors, matched with errors.Is.
var (
	ErrUnknownLayerType  = nn.ErrUnknownLayerType
	ErrInvalidParameter  = nn.ErrInvalidParameter
	ErrIncompatibleShape = nn.ErrIncompatibleShape
)

// UnknownLayerTypeError reports an unsupported type tag.
type UnknownLayerTypeError = nn.UnknownLayerTypeError

// ConstructionError reports an invalid layer parameter.
type ConstructionError = nn.ConstructionError

// ShapeError reports an input shape a layer cannot accept.
type ShapeError = nn.ShapeError
