package gencontext

import (
	"github.com/kthompson11/ddsgen/msgspec"

	"github.com/flosch/pongo2/v6"
)

// MergedContext holds, for each MessageContext field, the values of every instance in order. Element i of every slice belongs to instance i.
type MergedContext struct {
	FileNameIn []string
	SearchPath []msgspec.SearchPath
	MsgContext []*msgspec.MsgContext
	Spec       []*msgspec.MsgSpec
	Topics     [][]string
	Msgs       [][]string
	Scope      []Scope
	Package    []string
	Alias      []string
	ID         []int
}

// Merge zips a list of message contexts into one MergedContext. An empty list gives an empty MergedContext.
func Merge(contexts []MessageContext) MergedContext {
	var m MergedContext
	if len(contexts) == 0 {
		return m
	}

	n := len(contexts)
	m = MergedContext{
		FileNameIn: make([]string, n),
		SearchPath: make([]msgspec.SearchPath, n),
		MsgContext: make([]*msgspec.MsgContext, n),
		Spec:       make([]*msgspec.MsgSpec, n),
		Topics:     make([][]string, n),
		Msgs:       make([][]string, n),
		Scope:      make([]Scope, n),
		Package:    make([]string, n),
		Alias:      make([]string, n),
		ID:         make([]int, n),
	}
	for i, c := range contexts {
		m.FileNameIn[i] = c.FileNameIn
		m.SearchPath[i] = c.SearchPath
		m.MsgContext[i] = c.MsgContext
		m.Spec[i] = c.Spec
		m.Topics[i] = c.Topics
		m.Msgs[i] = c.Msgs
		m.Scope[i] = c.Scope
		m.Package[i] = c.Package
		m.Alias[i] = c.Alias
		m.ID[i] = c.ID
	}
	return m
}

// Len is the number of merged instances.
func (m MergedContext) Len() int {
	return len(m.FileNameIn)
}

// Globals exposes the merged context as template variables. With no instances the result has no keys.
func (m MergedContext) Globals() pongo2.Context {
	if m.Len() == 0 {
		return pongo2.Context{}
	}
	return pongo2.Context{
		"file_name_in": m.FileNameIn,
		"search_path":  m.SearchPath,
		"msg_context":  m.MsgContext,
		"spec":         m.Spec,
		"topics":       m.Topics,
		"msgs":         m.Msgs,
		"scope":        m.Scope,
		"package":      m.Package,
		"alias":        m.Alias,
		"id":           m.ID,
	}
}
