package scaffold

import (
	"fmt"
	"io/fs"
	"os"
)

// textFileMode is the permission requested for generated files before the
// process umask is applied.
const textFileMode fs.FileMode = 0o644

// executeBits grants execute permission to owner, group and other.
const executeBits fs.FileMode = 0o111

// WriteText writes content to path byte for byte, creating or truncating
// the file. No line-ending translation happens on any platform, so the
// generated project is identical everywhere. An existing file keeps its
// permission bits.
func WriteText(path, content string) error {
	if err := os.WriteFile(path, []byte(content), textFileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// MakeExecutable adds execute permission for owner, group and other to
// path. Existing bits, including setuid/setgid/sticky, are kept.
func MakeExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	keep := fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky
	mode := info.Mode()&keep | executeBits
	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("failed to make %s executable: %w", path, err)
	}
	return nil
}
