package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/flosch/pongo2/v6"
	"golang.org/x/tools/imports"
)

// Indicates a template file could not be parsed. Nothing has been written when this is returned.
var ErrParse = errors.New("template parse error")

// Template file suffixes removed when computing the output file name. Only the last one is stripped.
var TemplateSuffixes = []string{".em", ".tmpl", ".tpl", ".j2", ".pongo2"}

// Options control template expansion. They are chosen by the caller for each render; nothing is configured process-wide.
type Options struct {
	// disable autoescaping: template text and variable values are written unchanged
	Raw bool
	// render the whole template before writing anything to the output
	Buffered bool
	// run goimports over the result when the output is a .go file; implies Buffered for those files
	FormatGo bool
}

// DefaultOptions are the options used for generating source code.
func DefaultOptions() Options {
	return Options{
		Raw:      true,
		Buffered: true,
	}
}

// Template is a parsed template file, ready to execute.
type Template struct {
	path string
	tpl  *pongo2.Template
	opts Options
}

// Load reads and parses a template file. Templates referenced from it ("include", "extends", "import") are looked up relative to its directory.
func Load(path string, opts Options) (*Template, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	loader, err := pongo2.NewLocalFileSystemLoader(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	set := pongo2.NewSet(filepath.Base(path), loader)

	src := string(b)
	if opts.Raw {
		src = "{% autoescape off %}" + src + "{% endautoescape %}"
	}
	tpl, err := set.FromString(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}

	return &Template{
		path: path,
		tpl:  tpl,
		opts: opts,
	}, nil
}

// Execute expands the template with globals as its variables, writing the result to w. outName is the name of the file being produced; it selects Go formatting.
func (t *Template) Execute(w io.Writer, outName string, globals pongo2.Context) error {
	if t.opts.FormatGo && strings.HasSuffix(outName, ".go") {
		var buf bytes.Buffer
		if err := t.tpl.ExecuteWriter(globals, &buf); err != nil {
			return err
		}
		out, err := imports.Process(outName, buf.Bytes(), nil)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}

	if t.opts.Buffered {
		return t.tpl.ExecuteWriter(globals, w)
	}
	return t.tpl.ExecuteWriterUnbuffered(globals, w)
}

// OutputPath is the file a template renders to: outDir joined with the template base name, minus any templating suffix.
func OutputPath(outDir, templateFile string) string {
	name := filepath.Base(templateFile)
	for _, suf := range TemplateSuffixes {
		if strings.HasSuffix(name, suf) && len(name) > len(suf) {
			name = strings.TrimSuffix(name, suf)
			break
		}
	}
	return filepath.Join(outDir, name)
}

// RenderFile expands templateFile with globals and writes the result under outDir (see OutputPath), creating directories as needed. It returns the output path.
//
// Template parse errors are returned before any file is created. If expansion or writing fails, the partially written output is removed and the failure is returned as is.
func RenderFile(templateFile, outDir string, globals pongo2.Context, opts Options) (string, error) {
	tpl, err := Load(templateFile, opts)
	if err != nil {
		return "", err
	}

	outPath := OutputPath(outDir, templateFile)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return "", err
	}

	if err := tpl.Execute(f, outPath, globals); err != nil {
		_ = f.Close()
		if rmErr := os.Remove(outPath); rmErr != nil {
			slog.Warn("failed to remove partial output", "path", outPath, "err", rmErr)
		}
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(outPath)
		return "", err
	}

	slog.Debug("rendered template", "template", templateFile, "output", outPath)
	return outPath, nil
}
