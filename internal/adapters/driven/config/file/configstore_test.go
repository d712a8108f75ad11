package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DefaultDirName, "config.toml"), store.Path())
}

func TestNewConfigStore_NestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("site = [unclosed"), 0600))

	_, err := NewConfigStore(tmpDir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("site.origin", "https://law.example.org"))
	require.NoError(t, store.Set("remote.limit", 12))
	require.NoError(t, store.Set("filter.min_score", 12.5))
	require.NoError(t, store.Set("feature.enabled", true))

	assert.Equal(t, "https://law.example.org", store.GetString("site.origin"))
	assert.Equal(t, 12, store.GetInt("remote.limit"))
	assert.InDelta(t, 12.5, store.GetFloat("filter.min_score"), 1e-9)
	assert.InDelta(t, 12.0, store.GetFloat("remote.limit"), 1e-9)
	assert.True(t, store.GetBool("feature.enabled"))

	assert.Empty(t, store.GetString("remote.limit"))
	assert.Zero(t, store.GetInt("site.origin"))
	assert.Zero(t, store.GetFloat("site.origin"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("site.origin", "https://law.example.org"))
	require.NoError(t, store.Set("remote.search_url", "https://law.example.org/search"))
	require.NoError(t, store.Set("remote.limit", 12))
	require.NoError(t, store.Set("filter.min_score", 10.0))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[remote]")
	assert.Contains(t, string(raw), "[site]")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "https://law.example.org", reloaded.GetString("site.origin"))
	assert.Equal(t, "https://law.example.org/search", reloaded.GetString("remote.search_url"))
	assert.Equal(t, 12, reloaded.GetInt("remote.limit"))
	assert.InDelta(t, 10.0, reloaded.GetFloat("filter.min_score"), 1e-9)
}

func TestConfigStore_LoadHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[site]
origin = "https://law.example.org"

[filter]
min_score = 15

[ui]
mode = "modal"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "https://law.example.org", store.GetString("site.origin"))
	assert.InDelta(t, 15.0, store.GetFloat("filter.min_score"), 1e-9, "integer literal reads as float")
	assert.Equal(t, "modal", store.GetString("ui.mode"))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Load())
	_, ok := store.Get("site.origin")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("ui.mode", "inline"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Save_Explicit(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	store.data["catalog.path"] = "catalog.yaml"
	require.NoError(t, store.Save())

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "catalog.yaml", reloaded.GetString("catalog.path"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("remote.limit", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("remote.limit")
		}()
	}
	wg.Wait()

	_, ok := store.Get("remote.limit")
	assert.True(t, ok)
}

func TestFlattenMap(t *testing.T) {
	nested := map[string]any{
		"site":   map[string]any{"origin": "https://example.com"},
		"remote": map[string]any{"limit": int64(8), "retry": map[string]any{"max": int64(2)}},
		"flat":   true,
	}

	assert.Equal(t, map[string]any{
		"site.origin":      "https://example.com",
		"remote.limit":     int64(8),
		"remote.retry.max": int64(2),
		"flat":             true,
	}, flattenMap(nested, ""))
}

func TestNestMap(t *testing.T) {
	flat := map[string]any{
		"site.origin":  "https://example.com",
		"remote.limit": 8,
		"ui":           "taken",
		"ui.mode":      "modal",
	}

	nested := nestMap(flat)

	assert.Equal(t, map[string]any{"origin": "https://example.com"}, nested["site"])
	assert.Equal(t, map[string]any{"limit": 8}, nested["remote"])
	assert.Equal(t, "taken", nested["ui"])
	assert.Equal(t, "modal", nested["ui.mode"], "clashing key stays dotted")

	simple := map[string]any{"site.origin": "x", "remote.limit": 8}
	assert.Equal(t, simple, flattenMap(nestMap(simple), ""))
}
