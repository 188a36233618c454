package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucksec/boxgen/internal/config"
	"github.com/lucksec/boxgen/internal/domain"
)

func newTestPaths(t *testing.T) config.StoragePaths {
	t.Helper()
	return config.StoragePaths{
		BaseDir:     t.TempDir(),
		WritableDir: t.TempDir(),
		TemplateDir: "config_template",
	}
}

func TestProviderRepository_ReadMissingIsEmptyObject(t *testing.T) {
	repo := NewProviderRepository(newTestPaths(t))

	v, err := repo.Read()
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{}, v)

	text, err := repo.Text()
	require.NoError(t, err)
	assert.Equal(t, "{}", text)
}

func TestProviderRepository_ReadWithComments(t *testing.T) {
	paths := newTestPaths(t)
	content := `{
  // 机场订阅
  "subscribes": [{"url": "https://example.com/sub", "tag": "a"}],
  /* 保存路径 */
  "save_config_path": "./config.json"
}`
	require.NoError(t, os.WriteFile(paths.ProvidersPath(), []byte(content), 0644))

	v, err := NewProviderRepository(paths).Read()
	require.NoError(t, err)

	m := v.(map[string]interface{})
	subs := m["subscribes"].([]interface{})
	assert.Equal(t, "https://example.com/sub", subs[0].(map[string]interface{})["url"])
	assert.Equal(t, "./config.json", m["save_config_path"])
}

func TestProviderRepository_ReadMalformedIsIOError(t *testing.T) {
	paths := newTestPaths(t)
	require.NoError(t, os.WriteFile(paths.ProvidersPath(), []byte(`{"a":`), 0644))

	_, err := NewProviderRepository(paths).Read()
	var ioe *domain.IOError
	require.True(t, errors.As(err, &ioe), "err=%v", err)
	assert.Equal(t, "parse", ioe.Op)
}

func TestProviderRepository_ReadDirectoryIsIOError(t *testing.T) {
	paths := newTestPaths(t)
	require.NoError(t, os.Mkdir(paths.ProvidersPath(), 0755))

	_, err := NewProviderRepository(paths).Read()
	var ioe *domain.IOError
	require.True(t, errors.As(err, &ioe), "err=%v", err)
	assert.Equal(t, "read", ioe.Op)
}

func TestProviderRepository_WriteGoesToFallbackOnly(t *testing.T) {
	paths := newTestPaths(t)
	repo := NewProviderRepository(paths)

	v, err := repo.Parse(`{"subscribes":[{"url":"https://example.com/sub?a=1&b=2","tag":"机场"}]}`)
	require.NoError(t, err)
	require.NoError(t, repo.Write(v))

	assert.NoFileExists(t, paths.ProvidersPath())

	data, err := os.ReadFile(paths.FallbackProvidersPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "机场")
	assert.Contains(t, string(data), "a=1&b=2")
	assert.Contains(t, string(data), "\n    \"subscribes\"")

	back, err := decodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, v, back)
}

func TestProviderRepository_WriteFailureIsIOError(t *testing.T) {
	paths := newTestPaths(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	paths.WritableDir = blocker

	err := NewProviderRepository(paths).Write(map[string]interface{}{"a": 1})
	var ioe *domain.IOError
	require.True(t, errors.As(err, &ioe), "err=%v", err)
	assert.Equal(t, "write", ioe.Op)
}

func TestProviderRepository_ParseInvalid(t *testing.T) {
	repo := NewProviderRepository(newTestPaths(t))

	for _, bad := range []string{"", "{", "[1,]"} {
		_, err := repo.Parse(bad)
		var ve *domain.ValidationError
		assert.True(t, errors.As(err, &ve), "Parse(%q) err=%v", bad, err)
	}

	v, err := repo.Parse(`[1, "two"]`)
	require.NoError(t, err)
	assert.Len(t, v, 2)
}
