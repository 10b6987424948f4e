package msgspec

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
)

const (
	commentChar  = "#"
	constantChar = "="
)

var identRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
var baseTypeRegex = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9_]*/)?[a-zA-Z][a-zA-Z0-9_]*$`)

// LoadMsgFromFile reads and parses a .msg file, registering the result in ctx under fullName.
func LoadMsgFromFile(ctx *MsgContext, path, fullName string) (*MsgSpec, error) {
	slog.Debug("loading message definition", "path", path, "type", fullName)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	spec, err := LoadMsgFromString(ctx, string(b), fullName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// LoadMsgFromString parses message definition text, registering the result in ctx under fullName.
func LoadMsgFromString(ctx *MsgContext, text, fullName string) (*MsgSpec, error) {
	pkg, short := splitTypeName(fullName)
	if pkg == "" || !identRegex.MatchString(short) {
		return nil, fmt.Errorf("%w: invalid full type name %q", ErrParse, fullName)
	}

	spec := &MsgSpec{
		Package:   pkg,
		ShortName: short,
		FullName:  fullName,
		Text:      text,
	}

	seen := make(map[string]bool)
	for i, line := range strings.Split(text, "\n") {
		clean := strings.TrimSpace(stripComment(line))
		if clean == "" {
			continue
		}

		var name string
		if strings.Contains(clean, constantChar) {
			c, err := parseConstant(line, clean)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			spec.Constants = append(spec.Constants, *c)
			name = c.Name
		} else {
			f, err := parseField(clean, pkg)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			spec.Fields = append(spec.Fields, *f)
			name = f.Name
		}

		if seen[name] {
			return nil, fmt.Errorf("%w: line %d: duplicate name %q", ErrParse, i+1, name)
		}
		seen[name] = true
	}

	if err := ctx.Register(spec); err != nil {
		return nil, err
	}
	return spec, nil
}

func stripComment(line string) string {
	if idx := strings.Index(line, commentChar); idx >= 0 {
		return line[:idx]
	}
	return line
}

func parseConstant(orig, clean string) (*Constant, error) {
	parts := strings.Fields(clean)
	typ := parts[0]
	if !IsBuiltin(typ) || typ == "time" || typ == "duration" {
		return nil, fmt.Errorf("%w: %q is not a legal constant type", ErrParse, typ)
	}

	var name, val string
	if typ == "string" {
		// string constants take everything right of the '=', comment characters included
		rest := strings.TrimSpace(orig)
		rest = strings.TrimSpace(rest[len(typ):])
		idx := strings.Index(rest, constantChar)
		name = strings.TrimSpace(rest[:idx])
		val = strings.TrimSpace(rest[idx+1:])
	} else {
		kv := strings.Split(strings.Join(parts[1:], " "), constantChar)
		if len(kv) != 2 {
			return nil, fmt.Errorf("%w: invalid constant declaration %q", ErrParse, clean)
		}
		name = strings.TrimSpace(kv[0])
		val = strings.TrimSpace(kv[1])
		if err := checkConstantValue(typ, val); err != nil {
			return nil, err
		}
	}

	if !identRegex.MatchString(name) {
		return nil, fmt.Errorf("%w: invalid constant name %q", ErrParse, name)
	}

	return &Constant{
		Type:  typ,
		Name:  name,
		Value: val,
	}, nil
}

func checkConstantValue(typ, val string) error {
	var err error
	switch typ {
	case "bool":
		_, err = strconv.ParseBool(val)
	case "float32":
		_, err = strconv.ParseFloat(val, 32)
	case "float64":
		_, err = strconv.ParseFloat(val, 64)
	case "int8", "int16", "int32", "int64":
		bits, _ := strconv.Atoi(strings.TrimPrefix(typ, "int"))
		_, err = strconv.ParseInt(val, 0, bits)
	case "uint8", "uint16", "uint32", "uint64":
		bits, _ := strconv.Atoi(strings.TrimPrefix(typ, "uint"))
		_, err = strconv.ParseUint(val, 0, bits)
	case "byte", "char":
		_, err = strconv.ParseUint(val, 0, 8)
	}
	if err != nil {
		return fmt.Errorf("%w: invalid %s constant value %q", ErrParse, typ, val)
	}
	return nil
}

func parseField(clean, pkg string) (*Field, error) {
	parts := strings.Fields(clean)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: invalid field declaration %q", ErrParse, clean)
	}
	typ, name := parts[0], parts[1]
	if !identRegex.MatchString(name) {
		return nil, fmt.Errorf("%w: invalid field name %q", ErrParse, name)
	}

	base, isArray, arrayLen, err := parseArrayType(typ)
	if err != nil {
		return nil, err
	}
	if !baseTypeRegex.MatchString(base) {
		return nil, fmt.Errorf("%w: invalid field type %q", ErrParse, typ)
	}

	f := &Field{
		Name:         name,
		Type:         typ,
		BaseType:     base,
		ResolvedType: base,
		IsArray:      isArray,
		ArrayLen:     arrayLen,
		IsBuiltin:    IsBuiltin(base),
	}
	switch {
	case f.IsBuiltin:
	case base == "Header" || base == HeaderType:
		f.IsHeader = true
		f.ResolvedType = HeaderType
	case !strings.Contains(base, "/"):
		f.ResolvedType = pkg + "/" + base
	}
	return f, nil
}

// parseArrayType splits "T", "T[]" or "T[N]".
func parseArrayType(typ string) (string, bool, int, error) {
	open := strings.Index(typ, "[")
	if open < 0 {
		return typ, false, -1, nil
	}
	if !strings.HasSuffix(typ, "]") {
		return "", false, 0, fmt.Errorf("%w: invalid array type %q", ErrParse, typ)
	}
	inner := typ[open+1 : len(typ)-1]
	if inner == "" {
		return typ[:open], true, -1, nil
	}
	n, err := strconv.Atoi(inner)
	if err != nil || n <= 0 {
		return "", false, 0, fmt.Errorf("%w: invalid array length in %q", ErrParse, typ)
	}
	return typ[:open], true, n, nil
}
