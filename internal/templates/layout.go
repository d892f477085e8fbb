package templates

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/start-py-project/internal/model"
)

// Layout declares the files generated into a new project.
type Layout struct {
	// Base is the template holding the shared ignore list.
	Base string `yaml:"base"`

	// Ignore lists the ignore files to compose, in write order.
	Ignore []IgnoreFile `yaml:"ignore"`

	// Scripts lists the helper scripts to copy and make executable.
	Scripts []Script `yaml:"scripts"`
}

// IgnoreFile is one composed ignore file.
type IgnoreFile struct {
	// Path is the file name relative to the project directory.
	Path string `yaml:"path"`

	// Extra is the template appended after the base list. Empty means the
	// file holds the base list only.
	Extra string `yaml:"extra,omitempty"`

	// SkipBlankExtra drops the extra section, separator included, when
	// the extra template is blank.
	SkipBlankExtra bool `yaml:"skip_blank_extra,omitempty"`
}

// Script is one executable helper script.
type Script struct {
	Path     string `yaml:"path"`
	Template string `yaml:"template"`
}

// DefaultLayout parses the embedded layout.yaml.
func DefaultLayout() (*Layout, error) {
	return ParseLayout(rawLayout)
}

// ParseLayout decodes and validates a YAML layout. Unknown keys are
// rejected so a typo cannot silently drop a generated file.
func ParseLayout(data []byte) (*Layout, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var l Layout
	if err := dec.Decode(&l); err != nil && !errors.Is(err, io.EOF) {
		return nil, model.WrapCLIError(model.ExitTemplateError, "failed to parse bundled layout", err)
	}
	if err := l.Validate(); err != nil {
		return nil, model.WrapCLIError(model.ExitTemplateError, "invalid bundled layout", err)
	}
	return &l, nil
}

// Validate checks that every output path is a plain, unique file name
// inside the project directory and that every output names its template.
func (l *Layout) Validate() error {
	if l.Base == "" {
		return fmt.Errorf("base template must be set")
	}
	if len(l.Ignore) == 0 && len(l.Scripts) == 0 {
		return fmt.Errorf("layout declares no files")
	}

	seen := make(map[string]bool)
	check := func(p string) error {
		if err := validateOutputPath(p); err != nil {
			return err
		}
		if seen[p] {
			return fmt.Errorf("output %q is declared more than once", p)
		}
		seen[p] = true
		return nil
	}

	for i, f := range l.Ignore {
		if err := check(f.Path); err != nil {
			return fmt.Errorf("ignore[%d]: %w", i, err)
		}
		if f.SkipBlankExtra && f.Extra == "" {
			return fmt.Errorf("ignore[%d] %q: skip_blank_extra set without extra", i, f.Path)
		}
	}
	for i, s := range l.Scripts {
		if err := check(s.Path); err != nil {
			return fmt.Errorf("scripts[%d]: %w", i, err)
		}
		if s.Template == "" {
			return fmt.Errorf("scripts[%d] %q: template must be set", i, s.Path)
		}
	}
	return nil
}

// TemplateNames returns every template the layout references, each once,
// in first-use order: base, ignore extras, then scripts.
func (l *Layout) TemplateNames() []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	add(l.Base)
	for _, f := range l.Ignore {
		add(f.Extra)
	}
	for _, s := range l.Scripts {
		add(s.Template)
	}
	return names
}

func validateOutputPath(p string) error {
	switch {
	case p == "":
		return fmt.Errorf("path must not be empty")
	case strings.ContainsAny(p, `/\`):
		return fmt.Errorf("path %q must be a plain file name", p)
	case p == "." || p == "..":
		return fmt.Errorf("path %q is not a file name", p)
	case path.Clean(p) != p:
		return fmt.Errorf("path %q is not clean", p)
	}
	return nil
}
