package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteModelFile writes content as a model document in a fresh temp
// directory and returns its path. It fails the test immediately on error.
func WriteModelFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Failed to write model file")
	return path
}
