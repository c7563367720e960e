package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/releasebuilder/pkgs/errors"
)

func writeConfig(t *testing.T, home, content string) string {
	t.Helper()
	dir := filepath.Join(home, DirName)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Options{Home: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, Config{
		Branch:      "master",
		LogLevel:    "info",
		LogFormat:   "console",
		Concurrency: 4,
	}, cfg)
}

func TestLoadPrecedence(t *testing.T) {
	home := t.TempDir()
	path := writeConfig(t, home, "branch: develop\napi_url: https://ghe.example.com/api/v3\nlog_level: debug\n")

	cfg, err := Load(Options{Home: home})
	require.NoError(t, err)
	assert.Equal(t, "develop", cfg.Branch)
	assert.Equal(t, "https://ghe.example.com/api/v3", cfg.APIURL)
	assert.Equal(t, path, cfg.File)

	t.Setenv("RELEASEBUILDER_BRANCH", "release")
	t.Setenv("RELEASEBUILDER_TOKEN", "from-env")

	cfg, err = Load(Options{Home: home})
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Branch, "env overrides file")
	assert.Equal(t, "from-env", cfg.Token)
	assert.Equal(t, "debug", cfg.LogLevel, "file value kept when env is unset")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("branch", "master", "")
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--branch", "hotfix"}))

	cfg, err = Load(Options{Home: home, Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, "hotfix", cfg.Branch, "changed flag overrides env")
	assert.Equal(t, "debug", cfg.LogLevel, "unchanged flag does not override file")
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("concurrency: 2\n"), 0o600))

	cfg, err := Load(Options{File: path})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Concurrency)

	_, err = Load(Options{File: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrConfig))
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":       "branch: [",
		"zero workers":   "concurrency: 0\n",
		"unknown format": "log_format: xml\n",
		"empty branch":   "branch: \"\"\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			home := t.TempDir()
			writeConfig(t, home, content)

			_, err := Load(Options{Home: home})
			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, errors.ErrConfig), "got %v", err)
		})
	}
}
