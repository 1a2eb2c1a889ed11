package watchconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrelfs/iosvault/internal/watchconfig"
)

func TestLoadDefaultsWhenNoFilesExist(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, sources, err := watchconfig.Load(dir, "", watchconfig.Config{}, false, nil)
	require.NoError(t, err)
	require.Equal(t, watchconfig.DefaultConfig(), cfg)
	require.Empty(t, sources.Global)
	require.Empty(t, sources.Project)
}

func TestProjectConfigOverridesDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	projectFile := filepath.Join(dir, watchconfig.ConfigFileName)

	require.NoError(t, os.WriteFile(projectFile, []byte(`{
		// tick a bit slower for this vault
		"watch_dir": "/srv/vault",
		"tick_interval_ms": 250,
	}`), 0o644))

	cfg, sources, err := watchconfig.Load(dir, "", watchconfig.Config{}, false, nil)
	require.NoError(t, err)
	require.Equal(t, "/srv/vault", cfg.WatchDir)
	require.Equal(t, 250, cfg.TickIntervalMS)
	require.Equal(t, projectFile, sources.Project)
}

func TestCLIOverrideWinsOverProjectConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	projectFile := filepath.Join(dir, watchconfig.ConfigFileName)
	require.NoError(t, os.WriteFile(projectFile, []byte(`{"watch_dir": "/srv/vault"}`), 0o644))

	cfg, _, err := watchconfig.Load(dir, "", watchconfig.Config{WatchDir: "/cli/override"}, true, nil)
	require.NoError(t, err)
	require.Equal(t, "/cli/override", cfg.WatchDir)
}

func TestExplicitConfigPathMustExist(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, _, err := watchconfig.Load(dir, "missing.json", watchconfig.Config{}, false, nil)
	require.Error(t, err)
}
