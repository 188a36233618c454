package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	prompt "github.com/c-bata/go-prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucksec/boxgen/internal/config"
	"github.com/lucksec/boxgen/internal/domain"
)

// echoEngine 把收到的参数写入产物文件
type echoEngine struct {
	indexes []string
}

func (e *echoEngine) Generate(ctx context.Context, templateIndex, optionsJSON, outputPath string) error {
	e.indexes = append(e.indexes, templateIndex)
	return os.WriteFile(outputPath, []byte(optionsJSON), 0644)
}

func newTestConsole(t *testing.T) (*console, *bytes.Buffer, *echoEngine) {
	t.Helper()
	cfg := config.Default()
	cfg.Paths = config.StoragePaths{
		BaseDir:     t.TempDir(),
		WritableDir: t.TempDir(),
		TemplateDir: "config_template",
	}
	require.NoError(t, os.MkdirAll(cfg.Paths.TemplatesPath(), 0755))
	for _, name := range []string{"b.json", "a.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(cfg.Paths.TemplatesPath(), name), []byte("{}"), 0644))
	}

	engine := &echoEngine{}
	out := &bytes.Buffer{}
	return &console{app: newApplication(cfg, engine), out: out}, out, engine
}

func TestConsole_TemplateList(t *testing.T) {
	c, out, _ := newTestConsole(t)

	require.NoError(t, c.handleCommand("template list"))
	assert.Equal(t, "1、a\n2、b\n", out.String())
}

func TestConsole_OptionsSetShowClear(t *testing.T) {
	c, out, _ := newTestConsole(t)

	require.NoError(t, c.handleCommand(`options set {"exclude_protocol": "ssr"}`))
	assert.Equal(t, domain.OptionsDocument{"exclude_protocol": "ssr"}, c.app.options.Get())

	out.Reset()
	require.NoError(t, c.handleCommand("options show"))
	assert.Contains(t, out.String(), `"exclude_protocol": "ssr"`)

	require.NoError(t, c.handleCommand("options clear"))
	assert.Equal(t, domain.OptionsDocument{}, c.app.options.Get())

	require.Error(t, c.handleCommand(`options set [1,2]`))
	require.Error(t, c.handleCommand("options"))
}

func TestConsole_OptionsLoad(t *testing.T) {
	c, _, _ := newTestConsole(t)
	path := filepath.Join(t.TempDir(), "opts.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a": 1}`), 0644))

	require.NoError(t, c.handleCommand("options load "+path))
	assert.Contains(t, c.app.options.Get(), "a")
	require.Error(t, c.handleCommand("options load "+filepath.Join(t.TempDir(), "missing.json")))
}

func TestConsole_Generate(t *testing.T) {
	c, out, engine := newTestConsole(t)
	require.NoError(t, c.handleCommand(`options set {"k":"v"}`))

	out.Reset()
	require.NoError(t, c.handleCommand("generate 2"))
	assert.Equal(t, []string{"1"}, engine.indexes)
	assert.Contains(t, out.String(), `"k":"v"`)
	assert.Contains(t, out.String(), domain.SaveConfigPathKey)

	target := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, c.handleCommand("generate 1 "+target))
	assert.FileExists(t, target)

	require.Error(t, c.handleCommand("generate"))
}

func TestConsole_UnknownCommand(t *testing.T) {
	c, _, _ := newTestConsole(t)
	err := c.handleCommand("deploy now")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deploy")
}

func TestIsExitCommand(t *testing.T) {
	assert.True(t, isExitCommand("exit", true))
	assert.True(t, isExitCommand(" quit ", true))
	assert.False(t, isExitCommand("exit", false))
	assert.False(t, isExitCommand("exits", true))
}

func TestFilterSuggestions(t *testing.T) {
	subs := []prompt.Suggest{{Text: "show"}, {Text: "set"}, {Text: "clear"}}
	got := filterSuggestions(subs, "s")
	require.Len(t, got, 2)
	assert.Equal(t, "show", got[0].Text)
	assert.Equal(t, "set", got[1].Text)
}

func TestConsole_TemplateSuggestions(t *testing.T) {
	c, _, _ := newTestConsole(t)
	got := c.templateSuggestions()
	require.Len(t, got, 2)
	assert.Equal(t, prompt.Suggest{Text: "1", Description: "a"}, got[0])
}
