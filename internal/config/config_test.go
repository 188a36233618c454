package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeINI(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".boxgen.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "127.0.0.1:5000", cfg.Server.Listen)
	assert.Equal(t, "python3", cfg.Engine.ExecPath)
	assert.Equal(t, "main.py", cfg.Engine.Script)
	assert.Equal(t, "PYTHONPATH", cfg.Engine.PathEnv)
	assert.Zero(t, cfg.Engine.Timeout)
	assert.False(t, cfg.Engine.IsolateArtifacts)
	assert.False(t, cfg.Log.EnableFile)
	assert.Equal(t, ".json", cfg.TemplateExt)
}

func TestLoadConfig_FromExplicitFile(t *testing.T) {
	base := t.TempDir()
	writable := filepath.Join(t.TempDir(), "nested", "tmp")
	path := writeINI(t, `
[default]
base_dir = `+base+`
writable_dir = `+writable+`
template_dir = templates

[server]
listen = 0.0.0.0:8080
shutdown_timeout = 3s

[engine]
exec_path = /usr/bin/python3
script =
timeout = 45s
isolate_artifacts = true

[log]
level = DEBUG
`)
	for _, name := range []string{"BASE_DIR", "WRITABLE_DIR", "LISTEN", "ENGINE_TIMEOUT", "LOG_LEVEL"} {
		t.Setenv(envPrefix+name, "")
	}

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigPath)
	assert.Equal(t, base, cfg.Paths.BaseDir)
	assert.Equal(t, writable, cfg.Paths.WritableDir)
	assert.DirExists(t, writable)
	assert.Equal(t, filepath.Join(base, "templates"), cfg.Paths.TemplatesPath())
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Listen)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/usr/bin/python3", cfg.Engine.ExecPath)
	assert.Empty(t, cfg.Engine.Script)
	assert.Equal(t, 45*time.Second, cfg.Engine.Timeout)
	assert.True(t, cfg.Engine.IsolateArtifacts)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.ini"))
	require.Error(t, err)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	path := writeINI(t, "[engine]\ntimeout = soon\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine.timeout")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"BOXGEN_BASE_DIR":                 "/srv/app",
		"BOXGEN_WRITABLE_DIR":             "/data",
		"BOXGEN_LISTEN":                   ":9000",
		"BOXGEN_ENGINE_SCRIPT":            " ",
		"BOXGEN_ENGINE_TIMEOUT":           "2m",
		"BOXGEN_ENGINE_ISOLATE_ARTIFACTS": "yes",
		"BOXGEN_LOG_LEVEL":                "warn",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookup))

	assert.Equal(t, "/srv/app", cfg.Paths.BaseDir)
	assert.Equal(t, "/data", cfg.Paths.WritableDir)
	assert.Equal(t, ":9000", cfg.Server.Listen)
	assert.Empty(t, cfg.Engine.Script)
	assert.Equal(t, 2*time.Minute, cfg.Engine.Timeout)
	assert.True(t, cfg.Engine.IsolateArtifacts)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "python3", cfg.Engine.ExecPath)
}

func TestApplyEnv_InvalidDuration(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(func(k string) (string, bool) {
		if k == "BOXGEN_ENGINE_TIMEOUT" {
			return "forever", true
		}
		return "", false
	})
	require.Error(t, err)
}

func TestStoragePaths(t *testing.T) {
	p := StoragePaths{BaseDir: "/app", WritableDir: "/tmp/w", TemplateDir: "config_template"}

	assert.Equal(t, "/app/providers.json", p.ProvidersPath())
	assert.Equal(t, "/tmp/w/providers.json", p.FallbackProvidersPath())
	assert.Equal(t, "/tmp/w/config.json", p.ArtifactPath())
	assert.Equal(t, "/app/config_template", p.TemplatesPath())

	p.TemplateDir = "/opt/templates"
	assert.Equal(t, "/opt/templates", p.TemplatesPath())
}

func TestStoragePaths_Resolved(t *testing.T) {
	p := StoragePaths{BaseDir: ".", WritableDir: "tmp"}.resolved()
	assert.True(t, filepath.IsAbs(p.BaseDir))
	assert.True(t, filepath.IsAbs(p.WritableDir))
}
