// Package ignore composes the ignore files of a new project from a shared
// base list and tool-specific extras.
package ignore

import (
	"strings"
	"unicode"
)

// Normalize strips trailing whitespace from s and terminates it with
// exactly one newline. A blank input becomes "\n".
func Normalize(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace) + "\n"
}

// IsBlank reports whether s contains only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Compose returns the normalized base list followed by a blank line and
// the normalized extra list.
//
// With skipBlankExtra, a blank extra is dropped together with its
// separator, so the result is the base list alone.
func Compose(base, extra string, skipBlankExtra bool) string {
	out := Normalize(base)
	if skipBlankExtra && IsBlank(extra) {
		return out
	}
	return out + "\n" + Normalize(extra)
}

// File is a composed ignore file ready to be written.
type File struct {
	Path    string
	Content string
}

// Spec describes one ignore file: an optional extra template and whether a
// blank extra is dropped. An empty Extra yields the base list only.
type Spec struct {
	Path           string
	Extra          string
	SkipBlankExtra bool
}

// ComposeAll builds every file in specs from base and the extra contents
// keyed by template name. Missing keys read as empty.
func ComposeAll(base string, specs []Spec, extras map[string]string) []File {
	files := make([]File, 0, len(specs))
	for _, s := range specs {
		content := Normalize(base)
		if s.Extra != "" {
			content = Compose(base, extras[s.Extra], s.SkipBlankExtra)
		}
		files = append(files, File{Path: s.Path, Content: content})
	}
	return files
}
