package registry

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/strand-ir/go-strand/ir"
)

// RegisterStruct derives a field table for the Go struct T and registers
// it under typeKey. *T must implement ir.Object. Exported fields are
// mapped in declaration order; the `strand` tag renames a field and adds
// options:
//
//	Name  string  `strand:"name"`
//	Note  string  `strand:"note,ignore"` // excluded from equality
//	Var   ir.Any  `strand:"var,def"`     // introduces definitions
//	Local int64   `strand:"-"`           // not reflected at all
//
// Without a tag the wire name is the snake_case form of the Go name.
func RegisterStruct[T any](typeKey string, kind EqHashKind) error {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("RegisterStruct: %s is not a struct", t)
	}
	if _, ok := any(new(T)).(ir.Object); !ok {
		return fmt.Errorf("RegisterStruct: *%s does not implement ir.Object", t)
	}
	var fields []FieldInfo
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, flags, skip, err := parseTag(sf)
		if err != nil {
			return fmt.Errorf("RegisterStruct: field %s.%s: %w", t, sf.Name, err)
		}
		if skip {
			continue
		}
		static, err := staticTypeOf(sf.Type)
		if err != nil {
			return fmt.Errorf("RegisterStruct: field %s.%s: %w", t, sf.Name, err)
		}
		fields = append(fields, FieldInfo{
			Name:   name,
			Static: static,
			Flags:  flags,
			Get:    makeGetter(i, static),
			Set:    makeSetter(i, static, sf.Type),
		})
	}
	if fields == nil {
		fields = []FieldInfo{}
	}
	return Register(&TypeInfo{
		TypeKey: typeKey,
		EqHash:  kind,
		Fields:  fields,
		New:     func() ir.Object { return any(new(T)).(ir.Object) },
	})
}

// MustRegisterStruct is RegisterStruct for registration blocks; it
// panics on error.
func MustRegisterStruct[T any](typeKey string, kind EqHashKind) {
	if err := RegisterStruct[T](typeKey, kind); err != nil {
		panic(err)
	}
}

func parseTag(sf reflect.StructField) (name string, flags FieldFlags, skip bool, err error) {
	tag := sf.Tag.Get("strand")
	if tag == "-" {
		return "", 0, true, nil
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = snakeCase(sf.Name)
	}
	for _, opt := range parts[1:] {
		switch opt {
		case "ignore":
			flags |= FieldSEqHashIgnore
		case "def":
			flags |= FieldSEqHashDef
		case "":
		default:
			return "", 0, false, fmt.Errorf("unknown strand tag option %q", opt)
		}
	}
	return name, flags, false, nil
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteByte(byte(r - 'A' + 'a'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var (
	anyType      = reflect.TypeOf(ir.Any{})
	dataTypeType = reflect.TypeOf(ir.DataType{})
	ndarrayType  = reflect.TypeOf((*ir.NDArray)(nil))
	objectType   = reflect.TypeOf((*ir.Object)(nil)).Elem()
)

func staticTypeOf(t reflect.Type) (StaticType, error) {
	switch t {
	case anyType:
		return StaticAny, nil
	case dataTypeType:
		return StaticDataType, nil
	case ndarrayType:
		return StaticNDArray, nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return StaticBool, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return StaticInt, nil
	case reflect.Float32, reflect.Float64:
		return StaticFloat, nil
	case reflect.String:
		return StaticString, nil
	}
	if t.Implements(objectType) {
		return StaticObject, nil
	}
	return 0, fmt.Errorf("type %s is not reflectable", t)
}

func makeGetter(idx int, static StaticType) func(ir.Object) ir.Any {
	return func(o ir.Object) ir.Any {
		fv := reflect.ValueOf(o).Elem().Field(idx)
		switch static {
		case StaticBool:
			return ir.FromBool(fv.Bool())
		case StaticInt:
			if fv.CanUint() {
				return ir.FromInt(int64(fv.Uint()))
			}
			return ir.FromInt(fv.Int())
		case StaticFloat:
			return ir.FromFloat(fv.Float())
		case StaticString:
			return ir.FromString(fv.String())
		case StaticDataType:
			return ir.FromDataType(fv.Interface().(ir.DataType))
		case StaticNDArray, StaticObject:
			if fv.IsNil() {
				return ir.None()
			}
			return ir.FromObject(fv.Interface().(ir.Object))
		default: // StaticAny
			return fv.Interface().(ir.Any)
		}
	}
}

func makeSetter(idx int, static StaticType, ft reflect.Type) func(ir.Object, ir.Any) error {
	return func(o ir.Object, v ir.Any) error {
		fv := reflect.ValueOf(o).Elem().Field(idx)
		if v.IsNone() {
			fv.SetZero()
			return nil
		}
		switch static {
		case StaticBool:
			b, ok := v.AsBool()
			if !ok {
				if i, iok := v.AsInt(); iok {
					b, ok = i != 0, true
				}
			}
			if !ok {
				return fmt.Errorf("cannot set %s field from %s", static, v.TypeIndex())
			}
			fv.SetBool(b)
		case StaticInt:
			i, ok := v.AsInt()
			if !ok {
				if b, bok := v.AsBool(); bok {
					ok = true
					if b {
						i = 1
					}
				}
			}
			if !ok {
				return fmt.Errorf("cannot set %s field from %s", static, v.TypeIndex())
			}
			if fv.CanUint() {
				fv.SetUint(uint64(i))
			} else {
				fv.SetInt(i)
			}
		case StaticFloat:
			f, ok := v.AsFloat()
			if !ok {
				return fmt.Errorf("cannot set %s field from %s", static, v.TypeIndex())
			}
			fv.SetFloat(f)
		case StaticString:
			s, ok := v.AsString()
			if !ok {
				return fmt.Errorf("cannot set %s field from %s", static, v.TypeIndex())
			}
			fv.SetString(s)
		case StaticDataType:
			dt, ok := v.AsDataType()
			if !ok {
				return fmt.Errorf("cannot set %s field from %s", static, v.TypeIndex())
			}
			fv.Set(reflect.ValueOf(dt))
		case StaticNDArray, StaticObject:
			obj := v.Obj()
			if obj == nil {
				return fmt.Errorf("cannot set %s field from %s", static, v.TypeIndex())
			}
			ov := reflect.ValueOf(obj)
			if !ov.Type().AssignableTo(ft) {
				return fmt.Errorf("cannot set field of type %s from %s", ft, ov.Type())
			}
			fv.Set(ov)
		default: // StaticAny
			fv.Set(reflect.ValueOf(v))
		}
		return nil
	}
}
