package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Load_UsesDefaultsWhenNoConfigFilesExist(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, _, err := Load(dir, "", Config{}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func Test_Load_ProjectConfigOverridesDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	content := `{
		// trailing comments and commas are fine, this is HuJSON
		"dedup_cache_bytes": 1024,
		"use_damerau": true,
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, sources, err := Load(dir, "", Config{}, nil, nil)
	require.NoError(t, err)
	require.EqualValues(t, 1024, cfg.DedupCacheBytes)
	require.True(t, cfg.UseDamerau)
	require.Equal(t, DefaultConfig().DefaultEditDistance, cfg.DefaultEditDistance, "unset field should keep default")
	require.Equal(t, path, sources.Project)
}

func Test_Load_CliOverridesWinOverProjectConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"dedup_cache_bytes": 1024}`), 0o644))

	cfg, _, err := Load(dir, "", Config{DedupCacheBytes: 2048}, map[string]bool{"dedup_cache_bytes": true}, nil)
	require.NoError(t, err)
	require.EqualValues(t, 2048, cfg.DedupCacheBytes)
}

func Test_Load_ExplicitConfigPathMustExist(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, _, err := Load(dir, "does-not-exist.json", Config{}, nil, nil)
	require.Error(t, err)
}

func Test_Load_RejectsNegativeEditDistance(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, _, err := Load(dir, "", Config{DefaultEditDistance: -1}, map[string]bool{"default_edit_distance": true}, nil)
	require.Error(t, err)
}

func Test_Format_ProducesValidJSON(t *testing.T) {
	t.Parallel()

	out, err := Format(DefaultConfig())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	require.True(t, json.Valid([]byte(out)), "Format output should be valid JSON: %s", out)
}
