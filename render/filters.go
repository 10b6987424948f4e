package render

import (
	"errors"
	"strings"

	"github.com/flosch/pongo2/v6"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	errItemNotSliceable = errors.New("item: value is not a list")
	errItemOutOfRange   = errors.New("item: index out of range")
)

// C++ types for message primitives
var cTypes = map[string]string{
	"bool":     "bool",
	"byte":     "uint8_t",
	"char":     "char",
	"int8":     "int8_t",
	"uint8":    "uint8_t",
	"int16":    "int16_t",
	"uint16":   "uint16_t",
	"int32":    "int32_t",
	"uint32":   "uint32_t",
	"int64":    "int64_t",
	"uint64":   "uint64_t",
	"float32":  "float",
	"float64":  "double",
	"string":   "std::string",
	"time":     "uint64_t",
	"duration": "int64_t",
}

func init() {
	registerFilter("camelcase", filterCamelCase)
	registerFilter("ctype", filterCType)
	registerFilter("item", filterItem)
}

func registerFilter(name string, fn pongo2.FilterFunction) {
	if pongo2.FilterExists(name) {
		return
	}
	if err := pongo2.RegisterFilter(name, fn); err != nil {
		panic(err)
	}
}

// CamelCase converts snake_case names ("vehicle_status") to CamelCase ("VehicleStatus").
func CamelCase(s string) string {
	caser := cases.Title(language.Und, cases.NoLower)
	parts := strings.Split(s, "_")
	for i, p := range parts {
		parts[i] = caser.String(p)
	}
	return strings.Join(parts, "")
}

// CType maps a message primitive type to its C++ type. Non-primitive (message) types are returned as "pkg::msg::Name" style, using "::" for package separators.
func CType(t string) string {
	if ct, ok := cTypes[t]; ok {
		return ct
	}
	return strings.ReplaceAll(t, "/", "::msg::")
}

func filterCamelCase(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(CamelCase(in.String())), nil
}

func filterCType(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(CType(in.String())), nil
}

// {{ alias|item:forloop.Counter0 }} picks one element of a merged list
func filterItem(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if !in.CanSlice() {
		return nil, &pongo2.Error{
			OrigError: errItemNotSliceable,
			Sender:    "filter:item",
		}
	}
	idx := param.Integer()
	if idx < 0 || idx >= in.Len() {
		return nil, &pongo2.Error{
			OrigError: errItemOutOfRange,
			Sender:    "filter:item",
		}
	}
	return in.Index(idx), nil
}
