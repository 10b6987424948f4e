package main

import (
	"fmt"
	"strings"

	"github.com/kthompson11/ddsgen/gencontext"
	"github.com/kthompson11/ddsgen/msgspec"

	"github.com/urfave/cli/v2"
	"github.com/xlab/treeprint"
)

func runDeps(cctx *cli.Context) error {
	configLogger(cctx, cctx.App.ErrWriter)

	g, err := newGenerator(cctx)
	if err != nil {
		return err
	}

	tree := treeprint.NewWithRoot(g.msgDir)
	for _, inst := range gencontext.Instances(g.manifest, g.msgDir) {
		mc, err := gencontext.Build(g.cfg, inst, g.manifest.AllMessages)
		if err != nil {
			return err
		}
		branch := tree.AddBranch(instanceLabel(mc))
		addDepends(branch, mc.MsgContext, mc.Spec.FullName, map[string]bool{mc.Spec.FullName: true})
	}
	fmt.Fprintln(cctx.App.Writer, tree.String())
	return nil
}

func instanceLabel(mc *gencontext.MessageContext) string {
	label := fmt.Sprintf("%s %s", mc.Scope, mc.Spec.FullName)
	if mc.Alias != "" {
		label += " as " + mc.Alias
	}
	return label + " [" + strings.Join(mc.Topics, " ") + "]"
}

// addDepends adds one node per direct dependency of fullName, recursing in to each. A type already on the current path is shown but not expanded again.
func addDepends(tree treeprint.Tree, mctx *msgspec.MsgContext, fullName string, path map[string]bool) {
	for _, dep := range mctx.Depends(fullName) {
		if path[dep] || len(mctx.Depends(dep)) == 0 {
			tree.AddNode(dep)
			continue
		}
		path[dep] = true
		addDepends(tree.AddBranch(dep), mctx, dep, path)
		delete(path, dep)
	}
}
