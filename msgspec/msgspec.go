package msgspec

import (
	"errors"
	"path/filepath"
	"strings"
)

// Indicates that a message definition (or include path entry) could not be parsed. A wrapped error may provide more context.
var ErrParse = errors.New("message definition parse error")

// Indicates that a type referenced by a message could not be found or loaded from the search path.
var ErrDependencyResolution = errors.New("message dependency resolution failed")

// File extension of message definition files
const MsgExt = ".msg"

// Header fields without a package are resolved to this type
const HeaderType = "std_msgs/Header"

var primitiveTypes = map[string]bool{
	"bool":     true,
	"byte":     true,
	"char":     true,
	"int8":     true,
	"uint8":    true,
	"int16":    true,
	"uint16":   true,
	"int32":    true,
	"uint32":   true,
	"int64":    true,
	"uint64":   true,
	"float32":  true,
	"float64":  true,
	"string":   true,
	"time":     true,
	"duration": true,
}

// IsBuiltin reports whether a (non-array) type name is a primitive of the message language.
func IsBuiltin(t string) bool {
	return primitiveTypes[t]
}

// MsgSpec is the parsed form of a single .msg file.
type MsgSpec struct {
	// package the message belongs to, eg "px4"
	Package string
	// name without package, eg "VehicleStatus"
	ShortName string
	// "<package>/<ShortName>"
	FullName string

	Fields    []Field
	Constants []Constant

	// full names of every message type this one depends on (transitively), in first-seen order. Populated by LoadDepends.
	Deps []string

	// original file contents
	Text string
}

// Field is one "<type> <name>" line.
type Field struct {
	Name string
	// type as written, eg "uint8[4]" or "px4/Foo[]"
	Type string
	// type with any array suffix removed, as written
	BaseType string
	// package-qualified base type for non-builtin types, otherwise same as BaseType
	ResolvedType string
	IsArray      bool
	// -1 for unbounded arrays and for non-arrays
	ArrayLen  int
	IsBuiltin bool
	IsHeader  bool
}

// Constant is one "<type> <NAME>=<value>" line.
type Constant struct {
	Type  string
	Name  string
	Value string
}

// FieldNames returns the names of all fields, in declaration order.
func (s *MsgSpec) FieldNames() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

// FieldTypes returns the declared types of all fields, in declaration order.
func (s *MsgSpec) FieldTypes() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Type
	}
	return out
}

// HasHeader reports whether any field is a std_msgs/Header.
func (s *MsgSpec) HasHeader() bool {
	for _, f := range s.Fields {
		if f.IsHeader {
			return true
		}
	}
	return false
}

// ComputeFullTypeName derives "<pkg>/<base name without .msg>" from a message file name or path.
func ComputeFullTypeName(pkg, filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), MsgExt)
	return pkg + "/" + base
}

// splitTypeName splits "pkg/Name" into its parts. Unqualified names return an empty package.
func splitTypeName(full string) (string, string) {
	idx := strings.LastIndex(full, "/")
	if idx < 0 {
		return "", full
	}
	return full[:idx], full[idx+1:]
}
