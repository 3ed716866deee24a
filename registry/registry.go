// Package registry holds process-wide reflection metadata for object
// types: type keys, structural-equality kinds, field tables with
// getters/setters, default construction, and repr-bytes hooks.
//
// The registry is populated at startup by registration blocks and is
// treated as immutable afterwards.
package registry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/strand-ir/go-strand/ir"
)

// EqHashKind selects how structural equality treats instances of a type.
type EqHashKind int

const (
	// EqHashUnsupported compares by identity only.
	EqHashUnsupported EqHashKind = iota
	// EqHashUniqueInstance compares by identity only; instances are
	// globally unique by construction.
	EqHashUniqueInstance
	// EqHashConstTreeNode compares by content; identity short-circuits.
	EqHashConstTreeNode
	// EqHashDAGNode compares by content with sharing respected: equal
	// occurrences must map one-to-one across the two sides.
	EqHashDAGNode
	// EqHashFreeVar compares by identity unless a binding maps it.
	EqHashFreeVar
)

func (k EqHashKind) String() string {
	s, ok := map[EqHashKind]string{
		EqHashUnsupported:    "Unsupported",
		EqHashUniqueInstance: "UniqueInstance",
		EqHashConstTreeNode:  "ConstTreeNode",
		EqHashDAGNode:        "DAGNode",
		EqHashFreeVar:        "FreeVar",
	}[k]
	if ok {
		return s
	}
	return "<unknown eq hash kind>"
}

// StaticType is the declared type of a field, which governs how the
// field is encoded on the wire.
type StaticType int

const (
	StaticBool StaticType = iota
	StaticInt
	StaticFloat
	StaticString
	StaticDataType
	StaticNDArray
	StaticObject
	StaticAny
)

func (t StaticType) String() string {
	s, ok := map[StaticType]string{
		StaticBool:     "bool",
		StaticInt:      "int",
		StaticFloat:    "float",
		StaticString:   "string",
		StaticDataType: "dtype",
		StaticNDArray:  "ndarray",
		StaticObject:   "object",
		StaticAny:      "any",
	}[t]
	if ok {
		return s
	}
	return "<unknown static type>"
}

// IsNodeRef reports whether field values of this static type serialize
// as node references rather than inline text.
func (t StaticType) IsNodeRef() bool {
	switch t {
	case StaticNDArray, StaticObject, StaticAny:
		return true
	default:
		return false
	}
}

type FieldFlags uint32

const (
	// FieldSEqHashIgnore excludes the field from structural equality.
	FieldSEqHashIgnore FieldFlags = 1 << iota
	// FieldSEqHashDef marks a field whose subtree introduces
	// definitions: free variables inside it may be mapped.
	FieldSEqHashDef
)

type FieldInfo struct {
	Name   string
	Static StaticType
	Flags  FieldFlags
	Get    func(ir.Object) ir.Any
	Set    func(ir.Object, ir.Any) error
}

// TypeInfo describes one registered object type. A nil Fields slice
// means the type carries no reflection metadata: equality falls back to
// identity and serialization of such values fails unless repr hooks are
// present.
type TypeInfo struct {
	TypeKey string
	EqHash  EqHashKind
	Fields  []FieldInfo

	// New returns a fresh default-initialized instance.
	New func() ir.Object
	// FromRepr rebuilds an instance from its repr bytes.
	FromRepr func([]byte) (ir.Object, error)
	// ReprBytes returns the opaque self-describing serialization of an
	// instance, if the type provides one.
	ReprBytes func(ir.Object) ([]byte, bool)

	goType reflect.Type
}

// Reflective reports whether field metadata is present.
func (ti *TypeInfo) Reflective() bool { return ti.Fields != nil }

// GoType returns the dynamic Go type instances of this type have.
func (ti *TypeInfo) GoType() reflect.Type { return ti.goType }

// Field returns the field named name, or nil.
func (ti *TypeInfo) Field(name string) *FieldInfo {
	for i := range ti.Fields {
		if ti.Fields[i].Name == name {
			return &ti.Fields[i]
		}
	}
	return nil
}

var (
	mu     sync.RWMutex
	byKey  = map[string]*TypeInfo{}
	byType = map[reflect.Type]*TypeInfo{}
)

// Register registers a type. The type key and the dynamic Go type of
// instances must both be unused.
func Register(ti *TypeInfo) error {
	if ti == nil {
		return fmt.Errorf("cannot register nil type info")
	}
	if ti.TypeKey == "" {
		return fmt.Errorf("type info must have a type key")
	}
	if ti.New == nil {
		return fmt.Errorf("type %q must have a New hook", ti.TypeKey)
	}
	ti.goType = reflect.TypeOf(ti.New())

	mu.Lock()
	defer mu.Unlock()
	if _, exists := byKey[ti.TypeKey]; exists {
		return fmt.Errorf("type %q already registered", ti.TypeKey)
	}
	if prev, exists := byType[ti.goType]; exists {
		return fmt.Errorf("go type %s already registered as %q", ti.goType, prev.TypeKey)
	}
	byKey[ti.TypeKey] = ti
	byType[ti.goType] = ti
	return nil
}

// LookupKey looks up a type by its type key.
func LookupKey(key string) *TypeInfo {
	mu.RLock()
	defer mu.RUnlock()
	return byKey[key]
}

// LookupObject looks up the type info of an instance.
func LookupObject(o ir.Object) *TypeInfo {
	if o == nil {
		return nil
	}
	mu.RLock()
	defer mu.RUnlock()
	return byType[reflect.TypeOf(o)]
}

// CreateInit builds a fresh instance of the named type. Non-empty repr
// bytes fully reconstruct the instance via the type's FromRepr hook.
func CreateInit(typeKey string, repr []byte) (ir.Object, error) {
	ti := LookupKey(typeKey)
	if ti == nil {
		return nil, fmt.Errorf("unknown type key %q", typeKey)
	}
	if len(repr) > 0 {
		if ti.FromRepr == nil {
			return nil, fmt.Errorf("type %q has repr bytes but no FromRepr hook", typeKey)
		}
		return ti.FromRepr(repr)
	}
	return ti.New(), nil
}

// GetReprBytes returns the repr bytes of an instance if its type
// provides them.
func GetReprBytes(o ir.Object) ([]byte, bool) {
	ti := LookupObject(o)
	if ti == nil || ti.ReprBytes == nil {
		return nil, false
	}
	return ti.ReprBytes(o)
}
