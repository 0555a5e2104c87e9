package fixtures

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixturesDir returns the absolute path to the fixtures directory.
func fixturesDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}

// ArtifactPath returns the absolute path of a build artifact fixture and
// fails the test when it is missing.
func ArtifactPath(t *testing.T, filename string) string {
	t.Helper()
	path := filepath.Join(fixturesDir(), "artifacts", filename)
	_, err := os.Stat(path)
	require.NoError(t, err, "missing artifact fixture: %s", filename)
	return path
}

// WriteConfig writes a vicinity-config.yaml into a fresh temp dir and
// returns its path.
func WriteConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vicinity-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}
