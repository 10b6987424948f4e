package msgspec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SearchPath maps a package name to the directories holding its .msg files, in lookup order.
type SearchPath map[string][]string

// IncludePathToSearchPath converts "pkg:dir" include entries into a SearchPath. Directories for the same package keep their relative order.
func IncludePathToSearchPath(entries []string) (SearchPath, error) {
	sp := make(SearchPath)
	for _, e := range entries {
		pkg, dir, ok := strings.Cut(e, ":")
		if !ok || !identRegex.MatchString(pkg) || dir == "" {
			return nil, fmt.Errorf("%w: invalid include path entry %q (expected pkg:dir)", ErrParse, e)
		}
		sp[pkg] = append(sp[pkg], dir)
	}
	return sp, nil
}

// Find returns the path of the .msg file for a package-qualified type, or false if no search directory has one.
func (sp SearchPath) Find(fullName string) (string, bool) {
	pkg, short := splitTypeName(fullName)
	for _, dir := range sp[pkg] {
		p := filepath.Join(dir, short+MsgExt)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, true
		}
	}
	return "", false
}

// LoadDepends loads every message type referenced by spec (recursively) in to ctx, using sp to locate files.
//
// On success spec.Deps holds the transitive dependency full names in first-seen order, and ctx.Depends returns the direct dependencies of spec and of every message loaded along the way. Any dependency that can't be found or parsed returns an error wrapping ErrDependencyResolution.
func LoadDepends(ctx *MsgContext, spec *MsgSpec, sp SearchPath) error {
	var all []string
	seen := map[string]bool{spec.FullName: true}

	var visit func(s *MsgSpec) error
	visit = func(s *MsgSpec) error {
		var direct []string
		for _, f := range s.Fields {
			if f.IsBuiltin {
				continue
			}
			t := f.ResolvedType
			if !containsString(direct, t) {
				direct = append(direct, t)
			}
			if seen[t] {
				continue
			}
			seen[t] = true

			dep, err := loadDependency(ctx, t, sp)
			if err != nil {
				return fmt.Errorf("%s field %q: %w", s.FullName, f.Name, err)
			}
			all = append(all, t)
			if err := visit(dep); err != nil {
				return err
			}
		}
		ctx.setDepends(s.FullName, direct)
		return nil
	}

	if err := visit(spec); err != nil {
		return err
	}
	spec.Deps = all
	return nil
}

func loadDependency(ctx *MsgContext, fullName string, sp SearchPath) (*MsgSpec, error) {
	if ctx.IsRegistered(fullName) {
		return ctx.Get(fullName)
	}
	pkg, _ := splitTypeName(fullName)
	if len(sp[pkg]) == 0 {
		return nil, fmt.Errorf("%w: no search path for package %q (type %s)", ErrDependencyResolution, pkg, fullName)
	}
	p, ok := sp.Find(fullName)
	if !ok {
		return nil, fmt.Errorf("%w: cannot locate message %s in %s", ErrDependencyResolution, fullName, strings.Join(sp[pkg], ", "))
	}
	dep, err := LoadMsgFromFile(ctx, p, fullName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDependencyResolution, err)
	}
	return dep, nil
}

func containsString(l []string, s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}
