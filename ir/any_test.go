package ir

import (
	"math"
	"testing"
)

func TestAnyPODEquality(t *testing.T) {
	tests := []struct {
		name string
		a, b Any
		eq   bool
	}{
		{"none == none", None(), None(), true},
		{"int == int", FromInt(3), FromInt(3), true},
		{"int != int", FromInt(3), FromInt(4), false},
		{"int != float", FromInt(3), FromFloat(3.0), false},
		{"bool == bool", FromBool(true), FromBool(true), true},
		{"bool != bool", FromBool(true), FromBool(false), false},
		{"float == float", FromFloat(1.5), FromFloat(1.5), true},
		{"nan == nan bitwise", FromFloat(math.NaN()), FromFloat(math.NaN()), true},
		{"dtype == dtype", FromDataType(Float32Type()), FromDataType(Float32Type()), true},
		{"dtype != dtype", FromDataType(Float32Type()), FromDataType(Int32Type()), false},
		{"device == device", FromDevice(CPU(0)), FromDevice(CPU(0)), true},
		{"device != device", FromDevice(CPU(0)), FromDevice(Device{Type: DeviceCUDA, ID: 0}), false},
		{"str == str", FromString("a"), FromString("a"), true},
		{"str != bytes", FromString("a"), FromBytes([]byte("a")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a == tt.b; got != tt.eq {
				t.Errorf("(%s == %s) = %v, want %v", tt.a, tt.b, got, tt.eq)
			}
		})
	}
}

func TestAnyObjectIdentity(t *testing.T) {
	a := NewArray(FromInt(1))
	b := NewArray(FromInt(1))
	if FromObject(a) != FromObject(a) {
		t.Error("same object should be ==")
	}
	if FromObject(a) == FromObject(b) {
		t.Error("distinct objects should not be ==")
	}
}

func TestAnyTypeKey(t *testing.T) {
	tests := []struct {
		v    Any
		want string
	}{
		{None(), ""},
		{FromInt(1), "Int"},
		{FromBool(true), "Bool"},
		{FromFloat(0), "Float"},
		{FromDataType(BoolType()), "DataType"},
		{FromDevice(CPU(0)), "Device"},
		{FromString("x"), StrTypeKey},
		{FromBytes(nil), BytesTypeKey},
		{FromObject(NewArray()), ArrayTypeKey},
		{FromObject(NewMap()), MapTypeKey},
		{FromObject(NewShape(1)), ShapeTypeKey},
		{FromObject(NewNDArray(Float32Type(), 1)), NDArrayTypeKey},
	}
	for _, tt := range tests {
		if got := tt.v.TypeKey(); got != tt.want {
			t.Errorf("TypeKey(%s) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestAnyAccessors(t *testing.T) {
	if v, ok := FromInt(42).AsInt(); !ok || v != 42 {
		t.Errorf("AsInt = %v, %v", v, ok)
	}
	if _, ok := FromInt(42).AsFloat(); ok {
		t.Error("AsFloat should fail on int")
	}
	if v, ok := FromFloat(2.5).AsFloat(); !ok || v != 2.5 {
		t.Errorf("AsFloat = %v, %v", v, ok)
	}
	if v, ok := FromBool(true).AsBool(); !ok || !v {
		t.Errorf("AsBool = %v, %v", v, ok)
	}
	if v, ok := FromString("hi").AsString(); !ok || v != "hi" {
		t.Errorf("AsString = %q, %v", v, ok)
	}
	dt, ok := FromDataType(Int64Type()).AsDataType()
	if !ok || dt != Int64Type() {
		t.Errorf("AsDataType = %v, %v", dt, ok)
	}
	dev, ok := FromDevice(CPU(3)).AsDevice()
	if !ok || dev != CPU(3) {
		t.Errorf("AsDevice = %v, %v", dev, ok)
	}
	if FromObject(nil) != None() {
		t.Error("FromObject(nil) should be None")
	}
}
