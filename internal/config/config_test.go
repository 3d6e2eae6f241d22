package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadFullConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".env.ci"), "MERGEBOT_RUN_NAME=from-config-env\n")
	writeFile(t, filepath.Join(root, ".github", "mergebot.yaml"), `
repository: deskflow/deskflow
serverURL: https://github.example.com
apiURL: https://github.example.com/api/v3/
envFiles: [.env.ci]
logLevel: debug
timeout: 90s
`)

	cfg, vars, err := Load(filepath.Join(root, ".github", "mergebot.yaml"), LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "deskflow/deskflow", cfg.Repository)
	assert.Equal(t, "https://github.example.com", cfg.ServerURL)
	assert.Equal(t, "https://github.example.com/api/v3/", cfg.APIURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "from-config-env", vars["MERGEBOT_RUN_NAME"])

	d, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)
}

func TestLoadOptionalMissing(t *testing.T) {
	t.Setenv("MERGEBOT_VERSION", "9.9.9")

	cfg, vars, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), LoadOptions{Optional: true})
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
	assert.Equal(t, "9.9.9", vars["MERGEBOT_VERSION"])
}

func TestLoadRequiredMissing(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), LoadOptions{})
	require.Error(t, err)
}

func TestLoadEnvFilesOverrideProcessEnv(t *testing.T) {
	t.Setenv("MERGEBOT_SHA", "from-process")
	dir := t.TempDir()
	envFile := filepath.Join(dir, "local.env")
	writeFile(t, envFile, "MERGEBOT_SHA=from-file\n")

	_, vars, err := Load("", LoadOptions{EnvFiles: []string{envFile}})
	require.NoError(t, err)
	assert.Equal(t, "from-file", vars["MERGEBOT_SHA"])
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"timeout":    "timeout: soon\n",
		"zero":       "timeout: 0s\n",
		"negative":   "timeout: -5s\n",
		"repository": "repository: just-a-name\n",
		"yaml":       "repository: [\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "mergebot.yaml")
			writeFile(t, path, content)
			_, _, err := Load(path, LoadOptions{})
			require.Error(t, err)
		})
	}
}
