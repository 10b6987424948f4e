package classifier

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kthompson11/ddsgen/msgspec"

	"gopkg.in/yaml.v3"
)

// Indicates the manifest is malformed, inconsistent, or references a message with no definition file. Wraps msgspec.ErrParse, so either sentinel matches with errors.Is.
var ErrParse = fmt.Errorf("manifest %w", msgspec.ErrParse)

// Name of the manifest file when none is given, relative to the message directory
const DefaultManifestFile = "urtps_bridge_topics.yaml"

// Entry is one item of the manifest "rtps" list.
type Entry struct {
	// message name; for aliased entries this is the alias (public) name
	Msg string `yaml:"msg"`
	// bridge ID, unique across the manifest when set
	ID *int `yaml:"id,omitempty"`
	// name of the message definition an aliased entry reuses
	Alias   string `yaml:"alias,omitempty"`
	Send    bool   `yaml:"send,omitempty"`
	Receive bool   `yaml:"receive,omitempty"`
}

type manifestFile struct {
	RTPS []Entry `yaml:"rtps"`
}

// AliasPair is a message published under a name other than its definition's.
type AliasPair struct {
	Alias  string
	Source string
	// -1 when the manifest entry has no id
	ID int
}

// Manifest is the classified content of a manifest file. It is read-only once constructed.
type Manifest struct {
	Send         []string
	Receive      []string
	AliasSend    []AliasPair
	AliasReceive []AliasPair

	// every message name in the manifest, in manifest order
	AllMessages []string

	ids map[string]int
}

// ResolvePath returns the manifest path to read: absolute paths are used as is, relative paths are taken relative to msgDir.
func ResolvePath(manifestPath, msgDir string) string {
	if manifestPath == "" {
		manifestPath = DefaultManifestFile
	}
	if filepath.IsAbs(manifestPath) {
		return manifestPath
	}
	return filepath.Join(msgDir, manifestPath)
}

// New reads and classifies the manifest at manifestPath, checking every classified message against the definitions in msgDir.
func New(manifestPath, msgDir string) (*Manifest, error) {
	slog.Debug("loading manifest", "path", manifestPath, "msgDir", msgDir)
	f, err := os.Open(manifestPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", manifestPath, err)
	}
	if err := m.Validate(msgDir); err != nil {
		return nil, fmt.Errorf("%s: %w", manifestPath, err)
	}
	return m, nil
}

// Parse decodes and classifies manifest YAML. It does not check for definition files; see Validate.
func Parse(r io.Reader) (*Manifest, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var mf manifestFile
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&mf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty manifest", ErrParse)
		}
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if mf.RTPS == nil {
		return nil, fmt.Errorf("%w: missing 'rtps' list", ErrParse)
	}
	return classify(mf.RTPS)
}

func classify(entries []Entry) (*Manifest, error) {
	m := &Manifest{
		ids: make(map[string]int),
	}
	idOwner := make(map[int]string)

	for i, e := range entries {
		if e.Msg == "" {
			return nil, fmt.Errorf("%w: entry %d has no 'msg' name", ErrParse, i)
		}
		if _, ok := m.ids[e.Msg]; ok {
			return nil, fmt.Errorf("%w: message %q listed more than once", ErrParse, e.Msg)
		}
		if e.Send && e.Receive {
			return nil, fmt.Errorf("%w: message %q marked both send and receive", ErrParse, e.Msg)
		}

		id := -1
		if e.ID != nil {
			id = *e.ID
			if id < 0 {
				return nil, fmt.Errorf("%w: message %q has negative id %d", ErrParse, e.Msg, id)
			}
			if other, ok := idOwner[id]; ok {
				return nil, fmt.Errorf("%w: id %d used by both %q and %q", ErrParse, id, other, e.Msg)
			}
			idOwner[id] = e.Msg
		}
		m.ids[e.Msg] = id
		m.AllMessages = append(m.AllMessages, e.Msg)

		switch {
		case e.Send && e.Alias == "":
			m.Send = append(m.Send, e.Msg)
		case e.Send:
			m.AliasSend = append(m.AliasSend, AliasPair{Alias: e.Msg, Source: e.Alias, ID: id})
		case e.Receive && e.Alias == "":
			m.Receive = append(m.Receive, e.Msg)
		case e.Receive:
			m.AliasReceive = append(m.AliasReceive, AliasPair{Alias: e.Msg, Source: e.Alias, ID: id})
		}
	}
	return m, nil
}

// Validate checks that every message the manifest sends or receives has a definition file in msgDir.
func (m *Manifest) Validate(msgDir string) error {
	var names []string
	names = append(names, m.Send...)
	names = append(names, m.Receive...)
	for _, p := range m.AliasSend {
		names = append(names, p.Source)
	}
	for _, p := range m.AliasReceive {
		names = append(names, p.Source)
	}

	for _, name := range names {
		p := DefinitionPath(msgDir, name)
		st, err := os.Stat(p)
		if err != nil || st.IsDir() {
			return fmt.Errorf("%w: no definition file for message %q (expected %s)", ErrParse, name, p)
		}
	}
	return nil
}

// DefinitionPath is the .msg file for a message name inside msgDir.
func DefinitionPath(msgDir, name string) string {
	return filepath.Join(msgDir, name+msgspec.MsgExt)
}

// Contains reports whether name is listed anywhere in the manifest.
func (m *Manifest) Contains(name string) bool {
	_, ok := m.ids[name]
	return ok
}

// ID returns the bridge ID of a listed message. The second value is false when the message is not listed or has no ID.
func (m *Manifest) ID(name string) (int, bool) {
	id, ok := m.ids[name]
	if !ok || id < 0 {
		return 0, false
	}
	return id, true
}
