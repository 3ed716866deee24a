package graphjson

import "errors"

var (
	// ErrCyclicReference reports a node table whose reference graph has
	// a cycle; such a graph cannot be reconstructed bottom-up.
	ErrCyclicReference = errors.New("cyclic reference detected in JSON file")

	// ErrNoReflection reports an attempt to serialize an object whose
	// type has neither field metadata nor repr bytes.
	ErrNoReflection = errors.New("missing reflection registration")

	// ErrBadAttr reports an attribute whose text form cannot be decoded
	// for its field's static type.
	ErrBadAttr = errors.New("wrong value format")

	// ErrBadNodeRef reports a node id outside the node table.
	ErrBadNodeRef = errors.New("node id out of range")

	// ErrBadTensor reports an undecodable tensor blob.
	ErrBadTensor = errors.New("bad tensor blob")
)
