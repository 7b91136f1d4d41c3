package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	gserrors "git.home.luguber.info/inful/gridsolver/internal/errors"
)

func TestLoadServeConfigDefaults(t *testing.T) {
	// The default path is allowed to be absent.
	t.Chdir(t.TempDir())

	cfg, path, err := loadServeConfig(defaultConfigPath)
	require.NoError(t, err)
	require.Empty(t, path)
	require.Equal(t, "127.0.0.1:4545", cfg.Listener.Addr)
}

func TestLoadServeConfigExplicitMissing(t *testing.T) {
	_, _, err := loadServeConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.True(t, gserrors.IsCategory(err, gserrors.CategoryConfig))
}

func TestLoadServeConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridsolver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listener:\n  addr: \"127.0.0.1:0\"\n"), 0o644))

	cfg, gotPath, err := loadServeConfig(path)
	require.NoError(t, err)
	require.Equal(t, path, gotPath)
	require.Equal(t, "127.0.0.1:0", cfg.Listener.Addr)
	// Unset sections still pick up their defaults.
	require.Equal(t, "127.0.0.1:8090", cfg.Status.Addr)
}

func TestLoadServeConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridsolver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listener: [broken\n"), 0o644))

	_, _, err := loadServeConfig(path)
	require.Error(t, err)
	require.True(t, gserrors.IsCategory(err, gserrors.CategoryConfig))
}
