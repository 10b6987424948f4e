package main

import (
	"fmt"
	"path/filepath"

	"github.com/kthompson11/ddsgen/classifier"
	"github.com/kthompson11/ddsgen/gencontext"
	"github.com/kthompson11/ddsgen/render"

	"github.com/urfave/cli/v2"
)

// generator holds the inputs shared by every command, resolved from flags
type generator struct {
	msgDir   string
	manifest *classifier.Manifest
	cfg      gencontext.Config
}

func newGenerator(cctx *cli.Context) (*generator, error) {
	msgDir, err := filepath.Abs(cctx.String("topic-msg-dir"))
	if err != nil {
		return nil, err
	}

	manifestPath := classifier.ResolvePath(cctx.String("rtps-ids-file"), msgDir)
	m, err := classifier.New(manifestPath, msgDir)
	if err != nil {
		return nil, err
	}

	return &generator{
		msgDir:   msgDir,
		manifest: m,
		cfg:      gencontext.NewConfig(cctx.String("package"), msgDir, cctx.StringSlice("include")),
	}, nil
}

func runGenerate(cctx *cli.Context) error {
	if cctx.NumFlags() == 0 {
		if err := cli.ShowAppHelp(cctx); err != nil {
			return err
		}
		return errUsage
	}
	logger := configLogger(cctx, cctx.App.ErrWriter)

	templateFile := cctx.String("template-file")
	if templateFile == "" {
		return fmt.Errorf("must specify a template file (--template-file)")
	}
	outDir, err := filepath.Abs(cctx.String("client-outdir"))
	if err != nil {
		return err
	}

	g, err := newGenerator(cctx)
	if err != nil {
		return err
	}

	contexts, err := gencontext.BuildAll(g.cfg, g.manifest, g.msgDir)
	if err != nil {
		return err
	}
	merged := gencontext.Merge(contexts)

	opts := render.DefaultOptions()
	opts.FormatGo = cctx.Bool("format-go")
	out, err := render.RenderFile(templateFile, outDir, merged.Globals(), opts)
	if err != nil {
		return err
	}

	logger.Info("generated client code", "output", out, "messages", merged.Len(),
		"send", len(g.manifest.Send)+len(g.manifest.AliasSend),
		"receive", len(g.manifest.Receive)+len(g.manifest.AliasReceive))
	return nil
}
