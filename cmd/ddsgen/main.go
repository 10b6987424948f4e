package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/kthompson11/ddsgen/classifier"
	"github.com/kthompson11/ddsgen/gencontext"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"
)

var (
	version = versioninfo.Short()

	// returned (after printing help) when the tool is invoked without any flags
	errUsage = errors.New("no arguments given")
)

func main() {
	if err := run(os.Args); err != nil {
		if !errors.Is(err, errUsage) {
			slog.Error("fatal", "err", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	return newApp(os.Stdout).Run(args)
}

var generatorFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "topic-msg-dir",
		Aliases: []string{"m"},
		Usage:   "directory holding message definition (.msg) files",
		Value:   "msg",
		EnvVars: []string{"DDSGEN_MSG_DIR"},
	},
	&cli.StringFlag{
		Name:    "rtps-ids-file",
		Aliases: []string{"y"},
		Usage:   "topics manifest (YAML); relative paths are resolved against the message directory",
		Value:   classifier.DefaultManifestFile,
		EnvVars: []string{"DDSGEN_MANIFEST"},
	},
	&cli.StringFlag{
		Name:    "template-file",
		Aliases: []string{"t"},
		Usage:   "client code template file",
		EnvVars: []string{"DDSGEN_TEMPLATE"},
	},
	&cli.StringFlag{
		Name:    "client-outdir",
		Aliases: []string{"u"},
		Usage:   "output directory for generated client code",
		Value:   "src/modules/microdds_client",
		EnvVars: []string{"DDSGEN_OUTDIR"},
	},
	&cli.StringFlag{
		Name:    "package",
		Usage:   "package name of the messages in the message directory",
		Value:   gencontext.DefaultPackage,
		EnvVars: []string{"DDSGEN_PACKAGE"},
	},
	&cli.StringSliceFlag{
		Name:    "include",
		Aliases: []string{"I"},
		Usage:   "additional message search path, as pkg:dir (repeatable)",
	},
	&cli.BoolFlag{
		Name:    "format-go",
		Usage:   "run goimports over generated .go output",
		EnvVars: []string{"DDSGEN_FORMAT_GO"},
	},
	&cli.StringFlag{
		Name:    "log-level",
		Usage:   "log verbosity level (eg: warn, info, debug)",
		Value:   "warn",
		EnvVars: []string{"DDSGEN_LOG_LEVEL", "LOG_LEVEL"},
	},
}

func newApp(w io.Writer) *cli.App {
	app := &cli.App{
		Name:      "ddsgen",
		Usage:     "generate DDS client code from message definitions and a topics manifest",
		Version:   version,
		Writer:    w,
		ErrWriter: os.Stderr,
		Flags:     generatorFlags,
		Action:    runGenerate,
	}
	app.Commands = []*cli.Command{
		&cli.Command{
			Name:   "deps",
			Usage:  "print the message dependency tree of every classified message",
			Action: runDeps,
		},
		&cli.Command{
			Name:  "version",
			Usage: "print version",
			Action: func(cctx *cli.Context) error {
				fmt.Fprintln(cctx.App.Writer, version)
				return nil
			},
		},
	}
	return app
}

func configLogger(cctx *cli.Context, writer io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cctx.String("log-level")) {
	case "error":
		level = slog.LevelError
	case "warn":
		level = slog.LevelWarn
	case "info":
		level = slog.LevelInfo
	case "debug":
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}
