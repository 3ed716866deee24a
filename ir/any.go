// Package ir contains the dynamic value model: the Any tagged union,
// the built-in containers, and the DataType/Device descriptors.
package ir

import (
	"fmt"
	"math"
	"strconv"
)

type TypeIndex int32

// POD type indices. Values below StaticObjectBegin carry their payload
// directly in the Any and compare bitwise.
const (
	TypeIndexNone TypeIndex = iota
	TypeIndexInt
	TypeIndexBool
	TypeIndexFloat
	TypeIndexDataType
	TypeIndexDevice
)

// StaticObjectBegin is the first non-POD type index.
const StaticObjectBegin TypeIndex = 64

const (
	TypeIndexStr TypeIndex = StaticObjectBegin + iota
	TypeIndexBytes
	TypeIndexArray
	TypeIndexMap
	TypeIndexShape
	TypeIndexNDArray
	// TypeIndexObject is shared by all registered object types; their
	// dynamic Go type disambiguates.
	TypeIndexObject
)

func (t TypeIndex) String() string {
	s, ok := map[TypeIndex]string{
		TypeIndexNone:     "None",
		TypeIndexInt:      "Int",
		TypeIndexBool:     "Bool",
		TypeIndexFloat:    "Float",
		TypeIndexDataType: "DataType",
		TypeIndexDevice:   "Device",
		TypeIndexStr:      StrTypeKey,
		TypeIndexBytes:    BytesTypeKey,
		TypeIndexArray:    ArrayTypeKey,
		TypeIndexMap:      MapTypeKey,
		TypeIndexShape:    ShapeTypeKey,
		TypeIndexNDArray:  NDArrayTypeKey,
		TypeIndexObject:   "Object",
	}[t]
	if ok {
		return s
	}
	return "<unknown type index>"
}

// Type keys of the built-in reference types. POD type keys coincide with
// their TypeIndex String form.
const (
	StrTypeKey     = "ir.Str"
	BytesTypeKey   = "ir.Bytes"
	ArrayTypeKey   = "ir.Array"
	MapTypeKey     = "ir.Map"
	ShapeTypeKey   = "ir.Shape"
	NDArrayTypeKey = "ir.NDArray"
)

// Object is implemented by reference values held in an Any. Implementations
// must be pointer types: identity comparisons and identity-keyed maps rely
// on it.
type Object interface {
	TypeKey() string
}

// Any is a dynamic value: either a POD payload (none, bool, int, float,
// DataType, Device) packed into a single word, a string/bytes payload held
// by value, or a reference to an Object.
//
// Any is comparable. For PODs == is bitwise payload equality, for
// strings/bytes it is content equality, and for objects it is identity.
// The zero Any is None.
type Any struct {
	tag TypeIndex
	pod int64
	str string
	obj Object
}

func None() Any { return Any{} }

func FromInt(v int64) Any { return Any{tag: TypeIndexInt, pod: v} }
func FromFloat(v float64) Any {
	return Any{tag: TypeIndexFloat, pod: int64(math.Float64bits(v))}
}
func FromBool(v bool) Any {
	var pod int64
	if v {
		pod = 1
	}
	return Any{tag: TypeIndexBool, pod: pod}
}
func FromString(v string) Any { return Any{tag: TypeIndexStr, str: v} }
func FromBytes(v []byte) Any  { return Any{tag: TypeIndexBytes, str: string(v)} }
func FromDataType(v DataType) Any {
	return Any{tag: TypeIndexDataType, pod: v.pack()}
}
func FromDevice(v Device) Any { return Any{tag: TypeIndexDevice, pod: v.pack()} }

// FromObject wraps an object reference. A nil object yields None.
func FromObject(o Object) Any {
	if o == nil {
		return None()
	}
	switch o.(type) {
	case *Array:
		return Any{tag: TypeIndexArray, obj: o}
	case *Map:
		return Any{tag: TypeIndexMap, obj: o}
	case *Shape:
		return Any{tag: TypeIndexShape, obj: o}
	case *NDArray:
		return Any{tag: TypeIndexNDArray, obj: o}
	default:
		return Any{tag: TypeIndexObject, obj: o}
	}
}

func (a Any) TypeIndex() TypeIndex { return a.tag }
func (a Any) IsNone() bool         { return a.tag == TypeIndexNone }

// IsObjectRef reports whether a holds a non-POD value (string, bytes,
// container, or object reference).
func (a Any) IsObjectRef() bool { return a.tag >= StaticObjectBegin }

// Obj returns the held object reference, or nil for PODs and
// string/bytes payloads.
func (a Any) Obj() Object { return a.obj }

func (a Any) AsInt() (int64, bool) {
	if a.tag != TypeIndexInt {
		return 0, false
	}
	return a.pod, true
}

func (a Any) AsBool() (bool, bool) {
	if a.tag != TypeIndexBool {
		return false, false
	}
	return a.pod != 0, true
}

func (a Any) AsFloat() (float64, bool) {
	if a.tag != TypeIndexFloat {
		return 0, false
	}
	return math.Float64frombits(uint64(a.pod)), true
}

func (a Any) AsDataType() (DataType, bool) {
	if a.tag != TypeIndexDataType {
		return DataType{}, false
	}
	return unpackDataType(a.pod), true
}

func (a Any) AsDevice() (Device, bool) {
	if a.tag != TypeIndexDevice {
		return Device{}, false
	}
	return unpackDevice(a.pod), true
}

func (a Any) AsString() (string, bool) {
	if a.tag != TypeIndexStr {
		return "", false
	}
	return a.str, true
}

func (a Any) AsBytes() ([]byte, bool) {
	if a.tag != TypeIndexBytes {
		return nil, false
	}
	return []byte(a.str), true
}

// TypeKey returns the stable type key of the held value. None is the
// empty key.
func (a Any) TypeKey() string {
	switch a.tag {
	case TypeIndexNone:
		return ""
	case TypeIndexInt, TypeIndexBool, TypeIndexFloat, TypeIndexDataType, TypeIndexDevice:
		return a.tag.String()
	case TypeIndexStr:
		return StrTypeKey
	case TypeIndexBytes:
		return BytesTypeKey
	default:
		return a.obj.TypeKey()
	}
}

// String renders a debug form of the value.
func (a Any) String() string {
	switch a.tag {
	case TypeIndexNone:
		return "None"
	case TypeIndexInt:
		return strconv.FormatInt(a.pod, 10)
	case TypeIndexBool:
		return strconv.FormatBool(a.pod != 0)
	case TypeIndexFloat:
		v, _ := a.AsFloat()
		return strconv.FormatFloat(v, 'g', -1, 64)
	case TypeIndexDataType:
		dt, _ := a.AsDataType()
		return dt.String()
	case TypeIndexDevice:
		d, _ := a.AsDevice()
		return d.String()
	case TypeIndexStr:
		return strconv.Quote(a.str)
	case TypeIndexBytes:
		return fmt.Sprintf("b%s", strconv.Quote(a.str))
	default:
		return fmt.Sprintf("<%s>", a.obj.TypeKey())
	}
}
