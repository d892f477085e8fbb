// Package templates provides the static resources bundled into the
// start-py-project binary.
//
// Ignore lists and helper scripts are embedded with //go:embed, so the
// binary needs no install-relative paths. Templates are addressed by file
// name (e.g. "sync_to.sh.tmpl") and copied verbatim; there is no
// placeholder substitution. layout.yaml declares which generated file is
// built from which template.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"unicode/utf8"

	"github.com/shinji-kodama/start-py-project/internal/model"
)

// Names of the bundled templates.
const (
	BaseIgnore       = "base_ignore.tmpl"
	GitignoreExtra   = "gitignore_extra.tmpl"
	RsyncignoreExtra = "rsyncignore_extra.tmpl"
	SyncScript       = "sync_to.sh.tmpl"
	InstallScript    = "install_remote.sh.tmpl"
)

//go:embed files/*.tmpl
var files embed.FS

//go:embed layout.yaml
var rawLayout []byte

// Bundled returns the embedded templates as a flat file system keyed by
// template name.
func Bundled() fs.FS {
	sub, err := fs.Sub(files, "files")
	if err != nil {
		// "files" is a valid constant path; fs.Sub cannot fail here.
		panic(err)
	}
	return sub
}

// Load returns the full content of the named template from fsys.
//
// Templates ship with the binary, so a missing or unreadable template means
// a broken build rather than a user mistake; it is reported as a CLIError
// with ExitTemplateError. Content must be valid UTF-8.
func Load(fsys fs.FS, name string) (string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", model.WrapCLIError(model.ExitTemplateError,
				fmt.Sprintf("bundled template not found: %s (the installation is broken)", name), err)
		}
		return "", model.WrapCLIError(model.ExitTemplateError,
			fmt.Sprintf("failed to read bundled template %s", name), err)
	}
	if !utf8.Valid(data) {
		return "", model.NewCLIError(model.ExitTemplateError,
			fmt.Sprintf("bundled template %s is not valid UTF-8", name))
	}
	return string(data), nil
}

// LoadAll loads every named template, stopping at the first failure.
// Duplicate names are read once.
func LoadAll(fsys fs.FS, names []string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, name := range names {
		if _, ok := out[name]; ok {
			continue
		}
		content, err := Load(fsys, name)
		if err != nil {
			return nil, err
		}
		out[name] = content
	}
	return out, nil
}
