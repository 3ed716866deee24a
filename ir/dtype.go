package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// DataTypeCode enumerates scalar element kinds.
type DataTypeCode uint8

const (
	CodeInt    DataTypeCode = 0
	CodeUInt   DataTypeCode = 1
	CodeFloat  DataTypeCode = 2
	CodeBFloat DataTypeCode = 4
	CodeBool   DataTypeCode = 6
)

// DataType describes a scalar element type: code, bit width, and vector
// lanes.
type DataType struct {
	Code  DataTypeCode
	Bits  uint8
	Lanes uint16
}

func (t DataType) pack() int64 {
	return int64(t.Code) | int64(t.Bits)<<8 | int64(t.Lanes)<<16
}

func unpackDataType(v int64) DataType {
	return DataType{
		Code:  DataTypeCode(v & 0xff),
		Bits:  uint8(v >> 8 & 0xff),
		Lanes: uint16(v >> 16 & 0xffff),
	}
}

// ElemBytes returns the byte width of one element, lanes included.
func (t DataType) ElemBytes() int64 {
	return (int64(t.Bits)*int64(t.Lanes) + 7) / 8
}

// String returns the canonical form, e.g. "int32", "float64",
// "bfloat16", "bool", "float32x4".
func (t DataType) String() string {
	var base string
	switch t.Code {
	case CodeInt:
		base = "int" + strconv.Itoa(int(t.Bits))
	case CodeUInt:
		base = "uint" + strconv.Itoa(int(t.Bits))
	case CodeFloat:
		base = "float" + strconv.Itoa(int(t.Bits))
	case CodeBFloat:
		base = "bfloat" + strconv.Itoa(int(t.Bits))
	case CodeBool:
		base = "bool"
	default:
		return fmt.Sprintf("<unknown dtype code %d>", t.Code)
	}
	if t.Lanes != 1 {
		return base + "x" + strconv.Itoa(int(t.Lanes))
	}
	return base
}

// ParseDataType parses the canonical form produced by String.
func ParseDataType(s string) (DataType, error) {
	orig := s
	lanes := uint16(1)
	if i := strings.LastIndexByte(s, 'x'); i != -1 {
		n, err := strconv.ParseUint(s[i+1:], 10, 16)
		if err != nil {
			return DataType{}, fmt.Errorf("bad dtype lanes in %q: %w", orig, err)
		}
		lanes = uint16(n)
		s = s[:i]
	}
	if s == "bool" {
		return DataType{Code: CodeBool, Bits: 8, Lanes: lanes}, nil
	}
	var code DataTypeCode
	switch {
	case strings.HasPrefix(s, "uint"):
		code, s = CodeUInt, s[4:]
	case strings.HasPrefix(s, "int"):
		code, s = CodeInt, s[3:]
	case strings.HasPrefix(s, "bfloat"):
		code, s = CodeBFloat, s[6:]
	case strings.HasPrefix(s, "float"):
		code, s = CodeFloat, s[5:]
	default:
		return DataType{}, fmt.Errorf("unrecognized dtype %q", orig)
	}
	bits, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return DataType{}, fmt.Errorf("bad dtype bits in %q: %w", orig, err)
	}
	return DataType{Code: code, Bits: uint8(bits), Lanes: lanes}, nil
}

func Int32Type() DataType   { return DataType{Code: CodeInt, Bits: 32, Lanes: 1} }
func Int64Type() DataType   { return DataType{Code: CodeInt, Bits: 64, Lanes: 1} }
func Float32Type() DataType { return DataType{Code: CodeFloat, Bits: 32, Lanes: 1} }
func Float64Type() DataType { return DataType{Code: CodeFloat, Bits: 64, Lanes: 1} }
func BoolType() DataType    { return DataType{Code: CodeBool, Bits: 8, Lanes: 1} }
