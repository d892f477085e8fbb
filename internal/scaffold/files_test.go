package scaffold

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permission bits are not supported on Windows")
	}
}

// TestWriteText writes content byte for byte, without touching line
// endings or adding a trailing newline.
func TestWriteText(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"lf", "#!/bin/sh\necho hi\n"},
		{"no trailing newline", "*.log"},
		{"crlf kept verbatim", "a\r\nb\r\n"},
		{"utf-8", "# café ☕\n"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			require.NoError(t, WriteText(path, tt.content))

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(got))
		})
	}
}

// TestWriteText_Overwrites truncates an existing file, which is how the
// composed .gitignore replaces the one uv creates.
func TestWriteText_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("a much longer original content\n"), 0o644))

	require.NoError(t, WriteText(path, "*.log\n"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "*.log\n", string(got))
}

// TestWriteText_MissingDir reports the path in the error.
func TestWriteText_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "file")
	err := WriteText(path, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

// TestMakeExecutable adds 0o111 and leaves the read/write bits alone.
func TestMakeExecutable(t *testing.T) {
	skipOnWindows(t)

	tests := []struct {
		name string
		mode fs.FileMode
		want fs.FileMode
	}{
		{"default file", 0o644, 0o755},
		{"owner only", 0o600, 0o711},
		{"group readable", 0o640, 0o751},
		{"read only", 0o444, 0o555},
		{"already executable", 0o755, 0o755},
		{"partially executable", 0o744, 0o755},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "script.sh")
			require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o600))
			// Chmod explicitly; WriteFile's mode is subject to the umask.
			require.NoError(t, os.Chmod(path, tt.mode))

			require.NoError(t, MakeExecutable(path))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, info.Mode().Perm())
		})
	}
}

// TestMakeExecutable_Idempotent applies the change twice.
func TestMakeExecutable_Idempotent(t *testing.T) {
	skipOnWindows(t)

	path := filepath.Join(t.TempDir(), "script.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o600))
	require.NoError(t, os.Chmod(path, 0o640))

	require.NoError(t, MakeExecutable(path))
	require.NoError(t, MakeExecutable(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o751), info.Mode().Perm())
}

// TestMakeExecutable_Missing fails for a file that does not exist.
func TestMakeExecutable_Missing(t *testing.T) {
	err := MakeExecutable(filepath.Join(t.TempDir(), "nope.sh"))
	assert.Error(t, err)
}
