package nn

import (
	"math"

	"github.com/born-ml/netshape/internal/tensor"
)

// Params is the untyped parameter mapping of a layer description.
//
// Values are numbers, sequences of numbers, or nil. A nil value is treated
// as absent.
type Params map[string]any

// paramDecoder extracts typed values from Params into a variant config.
//
// The first failure is kept in err and later calls become no-ops, so a
// config can be decoded field by field and checked once.
type paramDecoder struct {
	kind   Kind
	params Params
	err    error
}

// lookup returns the first present, non-nil parameter among names.
func (d *paramDecoder) lookup(names ...string) (string, any, bool) {
	for _, name := range names {
		if v, ok := d.params[name]; ok && v != nil {
			return name, v, true
		}
	}
	return names[0], nil, false
}

func (d *paramDecoder) requiredInt(names ...string) int {
	if d.err != nil {
		return 0
	}
	name, v, ok := d.lookup(names...)
	if !ok {
		d.err = paramErrorf(d.kind, name, "missing required parameter")
		return 0
	}
	n, ok := toInt(v)
	switch {
	case ok:
	case intOverflow(v):
		d.err = paramErrorf(d.kind, name, "out of range, got %v", v)
	default:
		d.err = paramErrorf(d.kind, name, "must be an integer, got %v (%T)", v, v)
	}
	return n
}

func (d *paramDecoder) optionalInt(name string, def int) int {
	if d.err != nil {
		return def
	}
	if _, _, ok := d.lookup(name); !ok {
		return def
	}
	return d.requiredInt(name)
}

func (d *paramDecoder) optionalFloat(name string, def float64) float64 {
	if d.err != nil {
		return def
	}
	_, v, ok := d.lookup(name)
	if !ok {
		return def
	}
	f, ok := toFloat(v)
	if !ok {
		d.err = paramErrorf(d.kind, name, "must be a number, got %v (%T)", v, v)
		return def
	}
	return f
}

func (d *paramDecoder) requiredShape(names ...string) tensor.Shape {
	if d.err != nil {
		return nil
	}
	name, v, ok := d.lookup(names...)
	if !ok {
		d.err = paramErrorf(d.kind, name, "missing required parameter")
		return nil
	}
	dims, ok := toInts(v)
	if !ok {
		d.err = paramErrorf(d.kind, name, "must be a list of integers, got %v (%T)", v, v)
		return nil
	}
	return dims
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		if intOverflow(n) {
			return 0, false
		}
		return int(n), true
	case uint:
		if intOverflow(n) {
			return 0, false
		}
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		if intOverflow(n) {
			return 0, false
		}
		return int(n), true
	case uint64:
		if intOverflow(n) {
			return 0, false
		}
		return int(n), true
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int, bool) {
	if !isWhole(f) || !fitsInt(f) {
		return 0, false
	}
	return int(f), true
}

func isWhole(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f)
}

func fitsInt(f float64) bool {
	return f >= float64(math.MinInt) && f < -float64(math.MinInt)
}

// intOverflow reports whether v is a whole number that int cannot hold.
func intOverflow(v any) bool {
	switch n := v.(type) {
	case int64:
		return n < math.MinInt || n > math.MaxInt
	case uint:
		return uint64(n) > math.MaxInt
	case uint32:
		return uint64(n) > math.MaxInt
	case uint64:
		return n > math.MaxInt
	case float32:
		return isWhole(float64(n)) && !fitsInt(float64(n))
	case float64:
		return isWhole(n) && !fitsInt(n)
	default:
		return false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		i, ok := toInt(v)
		return float64(i), ok
	}
}

func toInts(v any) (tensor.Shape, bool) {
	switch s := v.(type) {
	case tensor.Shape:
		return s.Clone(), true
	case []int:
		return tensor.Shape(s).Clone(), true
	case []any:
		out := make(tensor.Shape, len(s))
		for i, elem := range s {
			n, ok := toInt(elem)
			if !ok {
				return nil, false
			}
			out[i] = n
		}
		return out, true
	case []int64:
		out := make(tensor.Shape, len(s))
		for i, n := range s {
			out[i] = int(n)
		}
		return out, true
	case []float64:
		out := make(tensor.Shape, len(s))
		for i, f := range s {
			n, ok := floatToInt(f)
			if !ok {
				return nil, false
			}
			out[i] = n
		}
		return out, true
	default:
		return nil, false
	}
}
