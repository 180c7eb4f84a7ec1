package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFilePath(t *testing.T) {
	t.Run("rejects empty path", func(t *testing.T) {
		_, err := ValidateFilePath("")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("rejects dangerous shell characters", func(t *testing.T) {
		for _, char := range dangerousChars {
			path := "/tmp/test" + char + "file"
			_, err := ValidateFilePath(path)
			assert.Error(t, err, "expected error for character %q", char)
			assert.Contains(t, err.Error(), "forbidden character")
		}
	})

	t.Run("accepts valid absolute path", func(t *testing.T) {
		tmpDir := t.TempDir()
		testFile := filepath.Join(tmpDir, "test.txt")
		require.NoError(t, os.WriteFile(testFile, []byte("test"), 0644))

		result, err := ValidateFilePath(testFile)
		assert.NoError(t, err)

		// On macOS, /var is a symlink to /private/var, so compare resolved paths
		expectedResolved, _ := filepath.EvalSymlinks(testFile)
		assert.Equal(t, expectedResolved, result)
	})

	t.Run("converts relative path to absolute", func(t *testing.T) {
		result, err := ValidateFilePath("tasks.json")
		assert.NoError(t, err)
		assert.True(t, filepath.IsAbs(result))
	})

	t.Run("expands home directory", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		result, err := ValidateFilePath("~/.todo/tasks.json")
		assert.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".todo", "tasks.json"), result)
	})

	t.Run("resolves symlinks", func(t *testing.T) {
		tmpDir := t.TempDir()
		realFile := filepath.Join(tmpDir, "real.txt")
		require.NoError(t, os.WriteFile(realFile, []byte("test"), 0644))

		linkFile := filepath.Join(tmpDir, "link.txt")
		require.NoError(t, os.Symlink(realFile, linkFile))

		result, err := ValidateFilePath(linkFile)
		assert.NoError(t, err)

		// Result should be the resolved real file path
		expectedResolved, _ := filepath.EvalSymlinks(realFile)
		assert.Equal(t, expectedResolved, result)
	})

	t.Run("handles non-existent file gracefully", func(t *testing.T) {
		tmpDir := t.TempDir()
		nonExistent := filepath.Join(tmpDir, "nonexistent.txt")

		result, err := ValidateFilePath(nonExistent)
		assert.NoError(t, err)
		assert.Contains(t, result, "nonexistent.txt")
	})

	t.Run("cleans path traversal attempts", func(t *testing.T) {
		tmpDir := t.TempDir()
		testFile := filepath.Join(tmpDir, "subdir", "..", "test.txt")
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test.txt"), []byte("test"), 0644))

		result, err := ValidateFilePath(testFile)
		assert.NoError(t, err)
		// Path should be cleaned, not contain ".."
		assert.NotContains(t, result, "..")
	})
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/tasks.json", filepath.Join(home, "tasks.json")},
		{"/abs/tasks.json", "/abs/tasks.json"},
		{"rel/tasks.json", "rel/tasks.json"},
		{"~other/tasks.json", "~other/tasks.json"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpandHome(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSafeReadFile(t *testing.T) {
	t.Run("reads valid file", func(t *testing.T) {
		testFile := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(testFile, []byte("storage = \"file\""), 0o600))

		content, err := SafeReadFile(testFile)
		assert.NoError(t, err)
		assert.Equal(t, "storage = \"file\"", string(content))
	})

	t.Run("rejects dangerous path", func(t *testing.T) {
		_, err := SafeReadFile("/tmp/test;rm -rf /")
		assert.Error(t, err)
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := SafeReadFile(filepath.Join(t.TempDir(), "missing.toml"))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestSafeCreate(t *testing.T) {
	t.Run("creates file with permissions", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.csv")

		f, err := SafeCreate(path, 0o600)
		require.NoError(t, err)
		_, err = f.WriteString("id,title\n")
		require.NoError(t, err)
		require.NoError(t, f.Close())

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("truncates existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.csv")
		require.NoError(t, os.WriteFile(path, []byte("old contents"), 0o600))

		f, err := SafeCreate(path, 0o600)
		require.NoError(t, err)
		require.NoError(t, f.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("rejects dangerous path", func(t *testing.T) {
		_, err := SafeCreate("/tmp/$(whoami).csv", 0o600)
		assert.Error(t, err)
	})
}
