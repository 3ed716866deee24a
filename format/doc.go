// Package format names the output formats a serialized graph can be
// rendered in.
package format
