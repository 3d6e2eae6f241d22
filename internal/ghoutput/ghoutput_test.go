package ghoutput

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAppendsSortedSanitized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	require.NoError(t, os.WriteFile(path, []byte("existing=1\n"), 0o600))
	t.Setenv("GITHUB_OUTPUT", path)

	require.NoError(t, Write(map[string]string{
		"pr_number": "42",
		"commented": "true",
		" ":         "dropped",
		"body":      "line1\r\nline2",
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing=1\nbody=line1%0D%0Aline2\ncommented=true\npr_number=42\n", string(data))
}

func TestWriteWithoutGitHubOutput(t *testing.T) {
	t.Setenv("GITHUB_OUTPUT", "")
	assert.NoError(t, Write(map[string]string{"a": "b"}))
}

func TestAppendSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.md")
	t.Setenv("GITHUB_STEP_SUMMARY", path)

	require.NoError(t, AppendSummary("Merge build complete."))
	require.NoError(t, AppendSummary("  "))
	require.NoError(t, AppendSummary("second\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Merge build complete.\nsecond\n", string(data))
}

func TestAppendSummaryWithoutEnv(t *testing.T) {
	t.Setenv("GITHUB_STEP_SUMMARY", "")
	assert.NoError(t, AppendSummary("text"))
}
