package gencontext

import (
	"github.com/kthompson11/ddsgen/classifier"
)

// Instances lists the message instances of a manifest in generation order: send, aliased send, receive, aliased receive. Within each group, manifest order is kept.
func Instances(m *classifier.Manifest, msgDir string) []Instance {
	var out []Instance
	for _, name := range m.Send {
		out = append(out, plainInstance(m, msgDir, name, ScopeSend))
	}
	for _, p := range m.AliasSend {
		out = append(out, aliasInstance(msgDir, p, ScopeSend))
	}
	for _, name := range m.Receive {
		out = append(out, plainInstance(m, msgDir, name, ScopeReceive))
	}
	for _, p := range m.AliasReceive {
		out = append(out, aliasInstance(msgDir, p, ScopeReceive))
	}
	return out
}

func plainInstance(m *classifier.Manifest, msgDir, name string, scope Scope) Instance {
	id, ok := m.ID(name)
	if !ok {
		id = -1
	}
	return Instance{
		File:  classifier.DefinitionPath(msgDir, name),
		Scope: scope,
		ID:    id,
	}
}

func aliasInstance(msgDir string, p classifier.AliasPair, scope Scope) Instance {
	return Instance{
		File:  classifier.DefinitionPath(msgDir, p.Source),
		Alias: p.Alias,
		Scope: scope,
		ID:    p.ID,
	}
}

// BuildAll builds the context of every instance in the manifest, in generation order. The first failure stops the pass.
func BuildAll(cfg Config, m *classifier.Manifest, msgDir string) ([]MessageContext, error) {
	insts := Instances(m, msgDir)
	out := make([]MessageContext, 0, len(insts))
	for _, inst := range insts {
		mc, err := Build(cfg, inst, m.AllMessages)
		if err != nil {
			return nil, err
		}
		out = append(out, *mc)
	}
	return out, nil
}
