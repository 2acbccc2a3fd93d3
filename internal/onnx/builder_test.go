package onnx

import (
	"encoding/binary"
	"math"
)

// protoBuilder encodes protobuf messages for tests.
type protoBuilder struct {
	data []byte
}

func (b *protoBuilder) tag(field, wire int) {
	b.data = binary.AppendUvarint(b.data, uint64(field<<3|wire)) //nolint:gosec // G115: small field numbers.
}

func (b *protoBuilder) varint(field int, v int64) *protoBuilder {
	b.tag(field, wireVarint)
	b.data = binary.AppendUvarint(b.data, uint64(v)) //nolint:gosec // G115: two's complement.
	return b
}

func (b *protoBuilder) bytes(field int, data []byte) *protoBuilder {
	b.tag(field, wireBytes)
	b.data = binary.AppendUvarint(b.data, uint64(len(data)))
	b.data = append(b.data, data...)
	return b
}

func (b *protoBuilder) str(field int, s string) *protoBuilder {
	return b.bytes(field, []byte(s))
}

func (b *protoBuilder) message(field int, m *protoBuilder) *protoBuilder {
	return b.bytes(field, m.data)
}

func (b *protoBuilder) float32(field int, f float32) *protoBuilder {
	b.tag(field, wire32Bit)
	b.data = binary.LittleEndian.AppendUint32(b.data, math.Float32bits(f))
	return b
}

func (b *protoBuilder) packed(field int, values ...int64) *protoBuilder {
	var inner []byte
	for _, v := range values {
		inner = binary.AppendUvarint(inner, uint64(v)) //nolint:gosec // G115: two's complement.
	}
	return b.bytes(field, inner)
}

func intsAttr(name string, values ...int64) *protoBuilder {
	return (&protoBuilder{}).str(1, name).packed(8, values...).varint(20, AttributeProtoInts)
}

func attrI(name string, v int64) *protoBuilder {
	return (&protoBuilder{}).str(1, name).varint(3, v).varint(20, AttributeProtoInt)
}

func attrF(name string, f float32) *protoBuilder {
	return (&protoBuilder{}).str(1, name).float32(2, f).varint(20, AttributeProtoFloat)
}

func attrS(name, s string) *protoBuilder {
	return (&protoBuilder{}).str(1, name).str(4, s).varint(20, AttributeProtoString)
}

func attrTensor(name string, t *protoBuilder) *protoBuilder {
	return (&protoBuilder{}).str(1, name).message(5, t).varint(20, AttributeProtoTensor)
}

func node(op string, inputs, outputs []string, attrs ...*protoBuilder) *protoBuilder {
	b := &protoBuilder{}
	for _, in := range inputs {
		b.str(1, in)
	}
	for _, out := range outputs {
		b.str(2, out)
	}
	b.str(4, op)
	for _, a := range attrs {
		b.message(5, a)
	}
	return b
}

// weight is a float initializer with dims only; payloads are never read.
func weight(name string, dims ...int64) *protoBuilder {
	return (&protoBuilder{}).packed(1, dims...).varint(2, TensorProtoFloat).str(8, name)
}

func int64Tensor(name string, values ...int64) *protoBuilder {
	raw := make([]byte, 0, 8*len(values))
	for _, v := range values {
		raw = binary.LittleEndian.AppendUint64(raw, uint64(v)) //nolint:gosec // G115: two's complement.
	}
	return (&protoBuilder{}).packed(1, int64(len(values))).varint(2, TensorProtoInt64).str(8, name).bytes(9, raw)
}

func floatTensor(name string, values ...float32) *protoBuilder {
	raw := make([]byte, 0, 4*len(values))
	for _, v := range values {
		raw = binary.LittleEndian.AppendUint32(raw, math.Float32bits(v))
	}
	return (&protoBuilder{}).varint(2, TensorProtoFloat).str(8, name).bytes(9, raw)
}

// valueInfo declares a tensor; a negative dim is written as the symbolic
// "batch" dimension.
func valueInfo(name string, dims ...int64) *protoBuilder {
	shape := &protoBuilder{}
	for _, d := range dims {
		dim := &protoBuilder{}
		if d < 0 {
			dim.str(2, "batch")
		} else {
			dim.varint(1, d)
		}
		shape.message(1, dim)
	}
	tensorType := (&protoBuilder{}).varint(1, TensorProtoFloat).message(2, shape)
	typ := (&protoBuilder{}).message(1, tensorType)
	return (&protoBuilder{}).str(1, name).message(2, typ)
}

type graphBuilder struct {
	name         string
	nodes        []*protoBuilder
	initializers []*protoBuilder
	inputs       []*protoBuilder
	outputs      []*protoBuilder
}

func (g *graphBuilder) encode() []byte {
	graph := &protoBuilder{}
	for _, n := range g.nodes {
		graph.message(1, n)
	}
	graph.str(2, g.name)
	for _, t := range g.initializers {
		graph.message(5, t)
	}
	for _, in := range g.inputs {
		graph.message(11, in)
	}
	for _, out := range g.outputs {
		graph.message(12, out)
	}

	opset := (&protoBuilder{}).str(1, "").varint(2, 13)
	model := (&protoBuilder{}).
		varint(1, 7).
		str(2, "pytorch").
		message(8, opset).
		message(7, graph)
	return model.data
}

// lenetGraph is a LeNet-5 export: conv, relu, pool twice, then three
// fully connected layers.
func lenetGraph() *graphBuilder {
	return &graphBuilder{
		name: "lenet",
		nodes: []*protoBuilder{
			node("Conv", []string{"input", "conv1.weight", "conv1.bias"}, []string{"c1"},
				intsAttr("kernel_shape", 5, 5), intsAttr("strides", 1, 1), intsAttr("pads", 0, 0, 0, 0)),
			node("Relu", []string{"c1"}, []string{"r1"}),
			node("MaxPool", []string{"r1"}, []string{"p1"},
				intsAttr("kernel_shape", 2, 2), intsAttr("strides", 2, 2)),
			node("Conv", []string{"p1", "conv2.weight"}, []string{"c2"},
				intsAttr("kernel_shape", 5, 5)),
			node("Relu", []string{"c2"}, []string{"r2"}),
			node("MaxPool", []string{"r2"}, []string{"p2"},
				intsAttr("kernel_shape", 2, 2), intsAttr("strides", 2, 2)),
			node("Flatten", []string{"p2"}, []string{"f"}, attrI("axis", 1)),
			node("Gemm", []string{"f", "fc1.weight", "fc1.bias"}, []string{"g1"}, attrI("transB", 1)),
			node("Relu", []string{"g1"}, []string{"r3"}),
			node("MatMul", []string{"r3", "fc2.weight"}, []string{"m2"}),
			node("Add", []string{"m2", "fc2.bias"}, []string{"a2"}),
			node("Relu", []string{"a2"}, []string{"r4"}),
			node("Gemm", []string{"r4", "fc3.weight"}, []string{"logits"}, attrI("transB", 1)),
		},
		initializers: []*protoBuilder{
			weight("conv1.weight", 6, 1, 5, 5),
			weight("conv1.bias", 6),
			weight("conv2.weight", 16, 6, 5, 5),
			weight("fc1.weight", 120, 256),
			weight("fc1.bias", 120),
			weight("fc2.weight", 120, 84),
			weight("fc2.bias", 84),
			weight("fc3.weight", 10, 84),
		},
		inputs: []*protoBuilder{
			valueInfo("input", -1, 1, 28, 28),
			valueInfo("conv1.weight", 6, 1, 5, 5),
		},
		outputs: []*protoBuilder{valueInfo("logits", -1, 10)},
	}
}
