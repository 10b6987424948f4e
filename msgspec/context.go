package msgspec

import (
	"fmt"
	"sort"
)

// MsgContext tracks every message spec loaded while processing one message, along with resolved dependencies.
//
// A context is not safe for concurrent use, and should not be shared between unrelated messages: each top-level message gets a fresh context so type names loaded for one message can not leak into another.
type MsgContext struct {
	registered map[string]*MsgSpec
	depends    map[string][]string
}

// Creates a new empty MsgContext
func NewMsgContext() *MsgContext {
	return &MsgContext{
		registered: make(map[string]*MsgSpec),
		depends:    make(map[string][]string),
	}
}

// Register inserts a spec under its full name.
func (c *MsgContext) Register(spec *MsgSpec) error {
	if _, ok := c.registered[spec.FullName]; ok {
		return fmt.Errorf("context already contained a message with name: %s", spec.FullName)
	}
	c.registered[spec.FullName] = spec
	return nil
}

// IsRegistered reports whether a message has been loaded under fullName.
func (c *MsgContext) IsRegistered(fullName string) bool {
	_, ok := c.registered[fullName]
	return ok
}

// Get returns the spec registered under fullName.
func (c *MsgContext) Get(fullName string) (*MsgSpec, error) {
	s, ok := c.registered[fullName]
	if !ok {
		return nil, fmt.Errorf("message not found in context: %s", fullName)
	}
	return s, nil
}

// Depends returns the resolved dependency full names of a message, or nil if LoadDepends has not processed it.
func (c *MsgContext) Depends(fullName string) []string {
	return c.depends[fullName]
}

// Names returns the full names of every registered message, sorted.
func (c *MsgContext) Names() []string {
	out := make([]string, 0, len(c.registered))
	for k := range c.registered {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (c *MsgContext) setDepends(fullName string, deps []string) {
	c.depends[fullName] = deps
}
