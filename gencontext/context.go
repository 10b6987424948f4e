package gencontext

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/kthompson11/ddsgen/msgspec"
)

// Package that generated message types belong to, unless configured otherwise
const DefaultPackage = "px4"

// Scope says whether a message instance is sent or received by the generated client.
type Scope int

const (
	// zero value only; never produced for a built context
	ScopeNone Scope = iota
	ScopeSend
	ScopeReceive
)

func (s Scope) String() string {
	switch s {
	case ScopeSend:
		return "send"
	case ScopeReceive:
		return "receive"
	default:
		return "none"
	}
}

// Config is the per-run configuration for building message contexts. Build a fresh one for every run; nothing in this package keeps a shared default.
type Config struct {
	// package name used for full type names, eg "px4"
	Package string
	// "pkg:dir" entries used to resolve dependent message types
	IncludePaths []string
}

// DefaultConfig returns the standard configuration for a message directory: the std_msgs include path plus msgDir as the px4 package.
func DefaultConfig(msgDir string) Config {
	return NewConfig(DefaultPackage, msgDir, nil)
}

// NewConfig builds a configuration for messages of package pkg stored in msgDir. extra include entries ("pkg:dir") are searched after the standard ones.
func NewConfig(pkg, msgDir string, extra []string) Config {
	includes := []string{
		"std_msgs:./msg/std_msgs",
		fmt.Sprintf("%s:%s", pkg, msgDir),
	}
	includes = append(includes, extra...)
	return Config{
		Package:      pkg,
		IncludePaths: includes,
	}
}

// Instance is one message to generate code for: a definition file, the scope it is used in, and an optional alias.
type Instance struct {
	File  string
	Alias string
	Scope Scope
	// bridge ID from the manifest, -1 when unset
	ID int
}

// MessageContext is the metadata bundle for one message instance. Instances are built once by Build and not modified afterwards.
type MessageContext struct {
	FileNameIn string
	SearchPath msgspec.SearchPath
	MsgContext *msgspec.MsgContext
	Spec       *msgspec.MsgSpec
	Topics     []string
	// every message name known to the manifest
	Msgs    []string
	Scope   Scope
	Package string
	// empty when the instance is not aliased
	Alias string
	ID    int
}

// Build loads the definition for inst, resolves its dependencies and topics, and returns its context. msgs is the full message universe from the manifest.
//
// Each call uses its own msgspec.MsgContext. Dependency failures wrap msgspec.ErrDependencyResolution.
func Build(cfg Config, inst Instance, msgs []string) (*MessageContext, error) {
	if inst.Scope != ScopeSend && inst.Scope != ScopeReceive {
		return nil, fmt.Errorf("message %s: invalid scope %q", inst.File, inst.Scope)
	}

	mctx := msgspec.NewMsgContext()
	fullName := msgspec.ComputeFullTypeName(cfg.Package, filepath.Base(inst.File))
	spec, err := msgspec.LoadMsgFromFile(mctx, inst.File, fullName)
	if err != nil {
		return nil, err
	}

	topics, err := GetTopics(inst.File, spec.ShortName)
	if err != nil {
		return nil, err
	}

	sp := msgspec.SearchPath{}
	if len(cfg.IncludePaths) > 0 {
		sp, err = msgspec.IncludePathToSearchPath(cfg.IncludePaths)
		if err != nil {
			return nil, err
		}
	}

	if err := msgspec.LoadDepends(mctx, spec, sp); err != nil {
		return nil, err
	}

	slog.Debug("built message context", "type", spec.FullName, "scope", inst.Scope, "alias", inst.Alias, "topics", topics, "deps", len(spec.Deps))
	return &MessageContext{
		FileNameIn: inst.File,
		SearchPath: sp,
		MsgContext: mctx,
		Spec:       spec,
		Topics:     topics,
		Msgs:       msgs,
		Scope:      inst.Scope,
		Package:    cfg.Package,
		Alias:      inst.Alias,
		ID:         inst.ID,
	}, nil
}
