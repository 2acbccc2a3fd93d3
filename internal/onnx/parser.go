package onnx

import (
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// ParseFile parses an ONNX model from file.
//
//nolint:gosec // G304: Path is provided by user, file inclusion is intentional for ONNX model loading
func ParseFile(path string) (*ModelProto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}
	return Parse(data)
}

// Parse parses an ONNX model from bytes.
func Parse(data []byte) (*ModelProto, error) {
	if len(data) == 0 {
		return nil, errors.New("failed to parse model: empty data")
	}
	model := &ModelProto{}
	if err := readModel(&parser{data: data}, model); err != nil {
		return nil, errors.Wrap(err, "failed to parse model")
	}
	if model.Graph == nil {
		return nil, errors.New("failed to parse model: no graph")
	}
	return model, nil
}

// parser implements a minimal protobuf wire format decoder.
type parser struct {
	data []byte
	pos  int
}

// Protobuf wire types.
const (
	wireVarint = 0 // int32, int64, uint32, uint64, sint32, sint64, bool, enum
	wire64Bit  = 1 // fixed64, sfixed64, double
	wireBytes  = 2 // string, bytes, embedded messages, packed repeated fields
	wire32Bit  = 5 // fixed32, sfixed32, float
)

// each calls fn for every field of the message. fn must consume the field
// value, typically falling back to p.skip.
func (p *parser) each(fn func(field, wire int) error) error {
	for p.pos < len(p.data) {
		tag, err := p.readVarint()
		if err != nil {
			return err
		}
		field, wire := int(tag>>3), int(tag&0x7)
		if field == 0 {
			return errors.New("invalid field number 0")
		}
		if err := fn(field, wire); err != nil {
			return errors.WithMessagef(err, "field %d", field)
		}
	}
	return nil
}

func readModel(p *parser, m *ModelProto) error {
	return p.each(func(field, wire int) error {
		var err error
		switch field {
		case 1: // ir_version
			m.IRVersion, err = p.varint(wire)
		case 2: // producer_name
			m.ProducerName, err = p.str(wire)
		case 7: // graph
			var sub *parser
			if sub, err = p.message(wire); err == nil {
				m.Graph = &GraphProto{}
				err = readGraph(sub, m.Graph)
			}
		default:
			err = p.skip(wire)
		}
		return err
	})
}

func readGraph(p *parser, g *GraphProto) error {
	return p.each(func(field, wire int) error {
		var err error
		switch field {
		case 1: // node
			var node NodeProto
			if err = p.embedded(wire, func(sub *parser) error { return readNode(sub, &node) }); err == nil {
				g.Nodes = append(g.Nodes, node)
			}
		case 2: // name
			g.Name, err = p.str(wire)
		case 5: // initializer
			var t TensorProto
			if err = p.embedded(wire, func(sub *parser) error { return readTensor(sub, &t) }); err == nil {
				g.Initializers = append(g.Initializers, t)
			}
		case 11, 12: // input, output
			var vi ValueInfoProto
			if err = p.embedded(wire, func(sub *parser) error { return readValueInfo(sub, &vi) }); err == nil {
				if field == 11 {
					g.Inputs = append(g.Inputs, vi)
				} else {
					g.Outputs = append(g.Outputs, vi)
				}
			}
		default:
			err = p.skip(wire)
		}
		return err
	})
}

func readNode(p *parser, n *NodeProto) error {
	return p.each(func(field, wire int) error {
		var (
			s   string
			err error
		)
		switch field {
		case 1: // input
			if s, err = p.str(wire); err == nil {
				n.Inputs = append(n.Inputs, s)
			}
		case 2: // output
			if s, err = p.str(wire); err == nil {
				n.Outputs = append(n.Outputs, s)
			}
		case 3: // name
			n.Name, err = p.str(wire)
		case 4: // op_type
			n.OpType, err = p.str(wire)
		case 5: // attribute
			var attr AttributeProto
			if err = p.embedded(wire, func(sub *parser) error { return readAttribute(sub, &attr) }); err == nil {
				n.Attributes = append(n.Attributes, attr)
			}
		default:
			err = p.skip(wire)
		}
		return err
	})
}

func readAttribute(p *parser, a *AttributeProto) error {
	return p.each(func(field, wire int) error {
		var (
			v   int64
			err error
		)
		switch field {
		case 1: // name
			a.Name, err = p.str(wire)
		case 2: // f
			a.F, err = p.float32(wire)
		case 3: // i
			a.I, err = p.varint(wire)
		case 4: // s
			a.S, err = p.bytes(wire)
		case 5: // t
			a.T = &TensorProto{}
			err = p.embedded(wire, func(sub *parser) error { return readTensor(sub, a.T) })
		case 7: // floats
			err = p.repeatedFloat32(wire, &a.Floats)
		case 8: // ints
			err = p.repeatedVarint(wire, &a.Ints)
		case 20: // type
			if v, err = p.varint(wire); err == nil {
				a.Type = int32(v) //nolint:gosec // G115: enum value.
			}
		default:
			err = p.skip(wire)
		}
		return err
	})
}

func readTensor(p *parser, t *TensorProto) error {
	return p.each(func(field, wire int) error {
		var (
			v   int64
			err error
		)
		switch field {
		case 1: // dims
			err = p.repeatedVarint(wire, &t.Dims)
		case 2: // data_type
			if v, err = p.varint(wire); err == nil {
				t.DataType = int32(v) //nolint:gosec // G115: enum value.
			}
		case 4: // float_data
			err = p.repeatedFloat32(wire, &t.FloatData)
		case 7: // int64_data
			err = p.repeatedVarint(wire, &t.Int64Data)
		case 8: // name
			t.Name, err = p.str(wire)
		case 9: // raw_data
			var raw []byte
			if raw, err = p.bytes(wire); err == nil {
				t.RawData = raw
			}
		default:
			err = p.skip(wire)
		}
		return err
	})
}

// readValueInfo flattens ValueInfoProto.type.tensor_type.shape.dim into
// vi.Shape.
func readValueInfo(p *parser, vi *ValueInfoProto) error {
	return p.each(func(field, wire int) error {
		switch field {
		case 1: // name
			var err error
			vi.Name, err = p.str(wire)
			return err
		case 2: // type
			return p.embedded(wire, func(typ *parser) error {
				return typ.nested(1, func(tensorType *parser) error { // tensor_type
					return tensorType.nested(2, func(shape *parser) error { // shape
						return shape.nested(1, func(dim *parser) error { // dim
							d, err := readDim(dim)
							if err == nil {
								vi.Shape = append(vi.Shape, d)
							}
							return err
						})
					})
				})
			})
		default:
			return p.skip(wire)
		}
	})
}

func readDim(p *parser) (Dim, error) {
	var d Dim
	err := p.each(func(field, wire int) error {
		var err error
		switch field {
		case 1: // dim_value
			d.Value, err = p.varint(wire)
		case 2: // dim_param
			d.Param, err = p.str(wire)
		default:
			err = p.skip(wire)
		}
		return err
	})
	return d, err
}

// nested calls fn for every occurrence of the embedded message field and
// skips all other fields.
func (p *parser) nested(field int, fn func(*parser) error) error {
	return p.each(func(f, wire int) error {
		if f != field {
			return p.skip(wire)
		}
		return p.embedded(wire, fn)
	})
}

// embedded decodes a length-delimited sub-message with fn.
func (p *parser) embedded(wire int, fn func(*parser) error) error {
	sub, err := p.message(wire)
	if err != nil {
		return err
	}
	return fn(sub)
}

func (p *parser) message(wire int) (*parser, error) {
	data, err := p.bytes(wire)
	if err != nil {
		return nil, err
	}
	return &parser{data: data}, nil
}

func (p *parser) str(wire int) (string, error) {
	data, err := p.bytes(wire)
	return string(data), err
}

func (p *parser) bytes(wire int) ([]byte, error) {
	if err := expectWire(wire, wireBytes); err != nil {
		return nil, err
	}
	return p.readBytes()
}

func (p *parser) varint(wire int) (int64, error) {
	if err := expectWire(wire, wireVarint); err != nil {
		return 0, err
	}
	return p.readVarint()
}

func (p *parser) float32(wire int) (float32, error) {
	if err := expectWire(wire, wire32Bit); err != nil {
		return 0, err
	}
	return p.readFloat32()
}

// repeatedVarint appends one value, or a packed run of values.
func (p *parser) repeatedVarint(wire int, dst *[]int64) error {
	if wire == wireVarint {
		v, err := p.readVarint()
		if err == nil {
			*dst = append(*dst, v)
		}
		return err
	}
	packed, err := p.message(wire)
	if err != nil {
		return err
	}
	for packed.pos < len(packed.data) {
		v, err := packed.readVarint()
		if err != nil {
			return err
		}
		*dst = append(*dst, v)
	}
	return nil
}

// repeatedFloat32 appends one value, or a packed run of values.
func (p *parser) repeatedFloat32(wire int, dst *[]float32) error {
	if wire == wire32Bit {
		v, err := p.readFloat32()
		if err == nil {
			*dst = append(*dst, v)
		}
		return err
	}
	packed, err := p.message(wire)
	if err != nil {
		return err
	}
	for packed.pos < len(packed.data) {
		v, err := packed.readFloat32()
		if err != nil {
			return err
		}
		*dst = append(*dst, v)
	}
	return nil
}

func expectWire(got, want int) error {
	if got != want {
		return errors.Errorf("unexpected wire type %d, want %d", got, want)
	}
	return nil
}

// readVarint reads a varint-encoded int64.
func (p *parser) readVarint() (int64, error) {
	var result uint64
	var shift uint
	for {
		if p.pos >= len(p.data) {
			return 0, io.ErrUnexpectedEOF
		}
		b := p.data[p.pos]
		p.pos++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift >= 64 {
			return 0, errors.New("varint overflow")
		}
	}
	return int64(result), nil //nolint:gosec // G115: Protobuf varint fits in int64.
}

// readBytes reads a length-delimited byte slice.
func (p *parser) readBytes() ([]byte, error) {
	length, err := p.readVarint()
	if err != nil {
		return nil, err
	}
	if length < 0 || length > int64(len(p.data)-p.pos) {
		return nil, io.ErrUnexpectedEOF
	}
	end := p.pos + int(length)
	result := p.data[p.pos:end]
	p.pos = end
	return result, nil
}

// readFloat32 reads a little-endian 32-bit float.
func (p *parser) readFloat32() (float32, error) {
	if p.pos+4 > len(p.data) {
		return 0, io.ErrUnexpectedEOF
	}
	bits := binary.LittleEndian.Uint32(p.data[p.pos:])
	p.pos += 4
	return math.Float32frombits(bits), nil
}

// skip skips a field based on wire type.
func (p *parser) skip(wire int) error {
	switch wire {
	case wireVarint:
		_, err := p.readVarint()
		return err
	case wire64Bit:
		return p.advance(8)
	case wireBytes:
		_, err := p.readBytes()
		return err
	case wire32Bit:
		return p.advance(4)
	default:
		return errors.Errorf("unknown wire type: %d", wire)
	}
}

func (p *parser) advance(n int) error {
	if p.pos+n > len(p.data) {
		return io.ErrUnexpectedEOF
	}
	p.pos += n
	return nil
}
