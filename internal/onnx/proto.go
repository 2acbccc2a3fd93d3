package onnx

// Subset of the ONNX protobuf schema needed to recover layer shapes.

// ModelProto represents an ONNX model.
type ModelProto struct {
	IRVersion    int64       // field 1
	ProducerName string      // field 2
	Graph        *GraphProto // field 7
}

// GraphProto represents the computation graph.
type GraphProto struct {
	Name         string           // field 2
	Nodes        []NodeProto      // field 1
	Initializers []TensorProto    // field 5
	Inputs       []ValueInfoProto // field 11
	Outputs      []ValueInfoProto // field 12
}

// NodeProto represents a single operation.
type NodeProto struct {
	Inputs     []string         // field 1
	Outputs    []string         // field 2
	Name       string           // field 3
	OpType     string           // field 4, e.g. "Conv"
	Attributes []AttributeProto // field 5
}

// AttributeProto represents a node attribute. Graph values are not decoded.
type AttributeProto struct {
	Name   string       // field 1
	F      float32      // field 2
	I      int64        // field 3
	S      []byte       // field 4
	T      *TensorProto // field 5
	Floats []float32    // field 7
	Ints   []int64      // field 8
	Type   int32        // field 20
}

// TensorProto holds tensor dimensions and, for small constants, values.
type TensorProto struct {
	Dims      []int64   // field 1
	DataType  int32     // field 2
	FloatData []float32 // field 4
	Int64Data []int64   // field 7
	Name      string    // field 8
	RawData   []byte    // field 9
}

// ValueInfoProto describes a graph input or output.
type ValueInfoProto struct {
	Name  string // field 1
	Shape []Dim  // field 2, flattened from type.tensor_type.shape
}

// Dim is one dimension of a ValueInfoProto shape.
type Dim struct {
	Value int64  // Static size, 0 if symbolic
	Param string // Symbolic name such as "batch_size"
}

// ONNX data types (TensorProto.DataType) read by this package.
const (
	TensorProtoFloat = 1 // float32
	TensorProtoInt64 = 7 // int64
)

// ONNX attribute types (AttributeProto.Type).
const (
	AttributeProtoFloat  = 1
	AttributeProtoInt    = 2
	AttributeProtoString = 3
	AttributeProtoTensor = 4
	AttributeProtoFloats = 6
	AttributeProtoInts   = 7
)
