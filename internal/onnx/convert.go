package onnx

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/born-ml/netshape/internal/config"
	"github.com/born-ml/netshape/internal/nn"
	"github.com/born-ml/netshape/internal/tensor"
	"github.com/pkg/errors"
)

// Conversion errors. Match them with errors.Is.
var (
	ErrUnsupportedOperator = errors.New("unsupported operator")
	ErrNotLinear           = errors.New("graph is not a linear sequence")
)

// Imported is the layer sequence recovered from a model.
type Imported struct {
	Graph string
	Specs []config.LayerSpec

	// Input is the declared shape of the graph input, with symbolic
	// dimensions set to 1. Nil if the model declares none.
	Input tensor.Shape
}

// Convert maps the nodes of a linear ONNX graph to layer specs.
//
// Every node must consume the output of the previous node; weights and
// constants may be consumed freely. Identity nodes and bias additions are
// dropped since they do not change shapes.
func Convert(model *ModelProto) (*Imported, error) {
	if model == nil || model.Graph == nil {
		return nil, errors.New("model has no graph")
	}
	g := model.Graph
	c := &converter{constants: make(map[string]*TensorProto, len(g.Initializers))}
	for i := range g.Initializers {
		c.constants[g.Initializers[i].Name] = &g.Initializers[i]
	}

	out := &Imported{Graph: g.Name}
	for _, in := range g.Inputs {
		if _, isWeight := c.constants[in.Name]; isWeight {
			continue
		}
		c.current = in.Name
		out.Input = inputShape(in.Shape)
		break
	}

	for i := range g.Nodes {
		node := &g.Nodes[i]
		if node.OpType == "Constant" {
			if err := c.addConstant(node); err != nil {
				return nil, errors.WithMessagef(err, "node %d (%s)", i, nodeName(node))
			}
			continue
		}
		if err := c.follow(node); err != nil {
			return nil, errors.WithMessagef(err, "node %d (%s)", i, nodeName(node))
		}

		spec, ok, err := c.convert(node)
		if err != nil {
			return nil, errors.WithMessagef(err, "node %d (%s)", i, nodeName(node))
		}
		if ok {
			out.Specs = append(out.Specs, spec)
		}
	}
	return out, nil
}

type converter struct {
	constants map[string]*TensorProto
	current   string // name of the tensor flowing through the sequence
}

func (c *converter) addConstant(node *NodeProto) error {
	if len(node.Outputs) == 0 {
		return errors.New("constant without output")
	}
	attr := findAttr(node, "value")
	if attr == nil || attr.T == nil {
		return errors.Wrap(ErrUnsupportedOperator, "constant without tensor value")
	}
	c.constants[node.Outputs[0]] = attr.T
	return nil
}

// follow checks that node continues the sequence and advances it.
func (c *converter) follow(node *NodeProto) error {
	if len(node.Outputs) == 0 {
		return errors.New("node has no output")
	}
	var data []string
	for _, in := range node.Inputs {
		if in == "" {
			continue
		}
		if _, isConst := c.constants[in]; !isConst {
			data = append(data, in)
		}
	}
	if len(data) != 1 || (c.current != "" && data[0] != c.current) {
		return errors.Wrapf(ErrNotLinear, "node consumes %v, expected only %q", data, c.current)
	}
	c.current = node.Outputs[0]
	return nil
}

// convert returns the layer spec for node, or false if the node leaves shapes
// unchanged and is dropped.
func (c *converter) convert(node *NodeProto) (config.LayerSpec, bool, error) {
	spec := func(kind nn.Kind, params nn.Params) (config.LayerSpec, bool, error) {
		return config.LayerSpec{Type: kind.String(), Params: params}, true, nil
	}

	switch node.OpType {
	case "Conv", "ConvTranspose", "MaxPool":
		return c.window(node)

	case "Gemm", "MatMul":
		params := nn.Params{}
		if w := c.weight(node, 1); w != nil && len(w.Dims) == 2 {
			col := 1
			if node.OpType == "Gemm" && attrInt(node, "transB", 0) != 0 {
				col = 0
			}
			params["out_features"] = int(w.Dims[col])
		}
		return spec(nn.KindLinear, params)

	case "Flatten":
		if axis := attrInt(node, "axis", 1); axis != 1 {
			return unsupported(node, "axis=%d", axis)
		}
		return spec(nn.KindFlatten, nn.Params{})

	case "Reshape":
		target := c.weight(node, 1)
		if target == nil {
			return unsupported(node, "shape is not a constant")
		}
		dims, err := int64Values(target)
		if err != nil {
			return config.LayerSpec{}, false, err
		}
		if len(dims) == 2 && dims[0] <= 0 && dims[1] == -1 {
			return spec(nn.KindFlatten, nn.Params{})
		}
		shape := make([]int, len(dims))
		for i, d := range dims {
			if d <= 0 {
				return unsupported(node, "inferred dimension in shape %v", dims)
			}
			shape[i] = int(d)
		}
		return spec(nn.KindReshape, nn.Params{"shape": shape})

	case "Dropout":
		p := widen(attrFloat(node, "ratio", float32(nn.DefaultDropoutProbability)))
		if ratio := c.weight(node, 1); ratio != nil {
			values, err := float32Values(ratio)
			if err != nil {
				return config.LayerSpec{}, false, err
			}
			if len(values) == 1 {
				p = widen(values[0])
			}
		}
		return spec(nn.KindDropout, nn.Params{"p": p})

	case "BatchNormalization":
		scale := c.weight(node, 1)
		if scale == nil || len(scale.Dims) != 1 {
			return unsupported(node, "scale is not a 1D constant")
		}
		return spec(nn.KindBatchNorm2D, nn.Params{"num_features": int(scale.Dims[0])})

	case "Relu":
		return spec(nn.KindReLU, nn.Params{})
	case "Tanh":
		return spec(nn.KindTanh, nn.Params{})
	case "Sigmoid":
		return spec(nn.KindSigmoid, nn.Params{})
	case "LeakyRelu":
		alpha := attrFloat(node, "alpha", float32(nn.DefaultNegativeSlope))
		return spec(nn.KindLeakyReLU, nn.Params{"negative_slope": widen(alpha)})

	case "Identity", "Add":
		// Add only reaches here with a constant operand, i.e. a bias.
		return config.LayerSpec{}, false, nil

	default:
		return unsupported(node, "")
	}
}

// window converts Conv, ConvTranspose and MaxPool, which share their
// kernel attributes.
func (c *converter) window(node *NodeProto) (config.LayerSpec, bool, error) {
	if pad := attrString(node, "auto_pad"); pad != "" && pad != "NOTSET" {
		return unsupported(node, "auto_pad=%s", pad)
	}
	if attrInt(node, "ceil_mode", 0) != 0 {
		return unsupported(node, "ceil_mode=1")
	}
	for _, d := range attrInts(node, "dilations") {
		if d != 1 {
			return unsupported(node, "dilations=%v", attrInts(node, "dilations"))
		}
	}
	for _, p := range attrInts(node, "output_padding") {
		if p != 0 {
			return unsupported(node, "output_padding=%v", attrInts(node, "output_padding"))
		}
	}

	kernel, err := uniform(node, "kernel_shape", 0)
	if err != nil {
		return config.LayerSpec{}, false, err
	}
	if kernel == 0 {
		// Conv may omit kernel_shape and infer it from the weight.
		if w := c.weight(node, 1); w != nil && len(w.Dims) == 4 && w.Dims[2] == w.Dims[3] {
			kernel = int(w.Dims[2])
		}
	}
	stride, err := uniform(node, "strides", 1)
	if err != nil {
		return config.LayerSpec{}, false, err
	}
	padding, err := uniform(node, "pads", 0)
	if err != nil {
		return config.LayerSpec{}, false, err
	}

	params := nn.Params{"kernel_size": kernel, "stride": stride, "padding": padding}
	kind := nn.KindMaxPool2D
	switch node.OpType {
	case "Conv":
		kind = nn.KindConv2D
		if w := c.weight(node, 1); w != nil && len(w.Dims) == 4 {
			params["out_channels"] = int(w.Dims[0])
		}
	case "ConvTranspose":
		kind = nn.KindTransposeConv2D
		if w := c.weight(node, 1); w != nil && len(w.Dims) == 4 {
			params["out_channels"] = int(w.Dims[1] * attrInt(node, "group", 1))
		}
	}
	return config.LayerSpec{Type: kind.String(), Params: params}, true, nil
}

// uniform returns the single value shared by every entry of an ints
// attribute, or def if absent. Layers here use square kernels and
// symmetric strides and padding.
func uniform(node *NodeProto, name string, def int) (int, error) {
	values := attrInts(node, name)
	if len(values) == 0 {
		return def, nil
	}
	for _, v := range values[1:] {
		if v != values[0] {
			_, _, err := unsupported(node, "non-uniform %s=%v", name, values)
			return 0, err
		}
	}
	return int(values[0]), nil
}

func unsupported(node *NodeProto, format string, args ...any) (config.LayerSpec, bool, error) {
	if format == "" {
		return config.LayerSpec{}, false, errors.Wrap(ErrUnsupportedOperator, node.OpType)
	}
	return config.LayerSpec{}, false, errors.Wrapf(ErrUnsupportedOperator, node.OpType+" with "+format, args...)
}

// weight returns the constant fed to input i of node, or nil.
func (c *converter) weight(node *NodeProto, i int) *TensorProto {
	if i >= len(node.Inputs) {
		return nil
	}
	return c.constants[node.Inputs[i]]
}

func findAttr(node *NodeProto, name string) *AttributeProto {
	for i := range node.Attributes {
		if node.Attributes[i].Name == name {
			return &node.Attributes[i]
		}
	}
	return nil
}

func attrInt(node *NodeProto, name string, def int64) int64 {
	if a := findAttr(node, name); a != nil {
		return a.I
	}
	return def
}

func attrFloat(node *NodeProto, name string, def float32) float32 {
	if a := findAttr(node, name); a != nil {
		return a.F
	}
	return def
}

func attrInts(node *NodeProto, name string) []int64 {
	if a := findAttr(node, name); a != nil {
		return a.Ints
	}
	return nil
}

// attrString returns a string attribute, or "" if absent.
func attrString(node *NodeProto, name string) string {
	if a := findAttr(node, name); a != nil {
		return strings.TrimSpace(string(a.S))
	}
	return ""
}

func int64Values(t *TensorProto) ([]int64, error) {
	if len(t.Int64Data) > 0 {
		return t.Int64Data, nil
	}
	if t.DataType != TensorProtoInt64 || len(t.RawData)%8 != 0 {
		return nil, errors.Errorf("tensor %q: expected int64 data", t.Name)
	}
	values := make([]int64, len(t.RawData)/8)
	for i := range values {
		values[i] = int64(binary.LittleEndian.Uint64(t.RawData[i*8:])) //nolint:gosec // G115: two's complement.
	}
	return values, nil
}

func float32Values(t *TensorProto) ([]float32, error) {
	if len(t.FloatData) > 0 {
		return t.FloatData, nil
	}
	if t.DataType != TensorProtoFloat || len(t.RawData)%4 != 0 {
		return nil, errors.Errorf("tensor %q: expected float32 data", t.Name)
	}
	values := make([]float32, len(t.RawData)/4)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(t.RawData[i*4:]))
	}
	return values, nil
}

// widen converts f to the float64 with the same shortest decimal form, so
// 0.3 stays 0.3 rather than 0.30000001192092896.
func widen(f float32) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	if err != nil {
		return float64(f)
	}
	return v
}

func inputShape(dims []Dim) tensor.Shape {
	if len(dims) == 0 {
		return nil
	}
	shape := make(tensor.Shape, len(dims))
	for i, d := range dims {
		shape[i] = 1
		if d.Value > 0 {
			shape[i] = int(d.Value)
		}
	}
	return shape
}

func nodeName(node *NodeProto) string {
	if node.Name != "" {
		return node.Name
	}
	return node.OpType
}
