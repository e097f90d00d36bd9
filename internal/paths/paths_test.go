package paths

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigDir(t *testing.T) {
	t.Setenv(EnvConfigDir, "")

	// Flag wins over everything.
	dir, err := ResolveConfigDir("/custom/config")
	require.NoError(t, err)
	assert.Equal(t, "/custom/config", dir)

	// Environment variable is next.
	t.Setenv(EnvConfigDir, "/env/config")
	dir, err = ResolveConfigDir("")
	require.NoError(t, err)
	assert.Equal(t, "/env/config", dir)
}

func TestDefaultConfigDirLinux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-specific path resolution")
	}

	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "taskvault"), dir)

	t.Setenv("XDG_CONFIG_HOME", "")
	orig := platformDir.homeDir
	platformDir.homeDir = func() (string, error) { return "/home/tester", nil }
	defer func() { platformDir.homeDir = orig }()

	dir, err = DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".config", "taskvault"), dir)
}

func TestResolveDataDir(t *testing.T) {
	t.Setenv(EnvDataDir, "")

	assert.Equal(t, "/flag/data", ResolveDataDir("/flag/data", "/config/data"))
	assert.Equal(t, "/config/data", ResolveDataDir("", "/config/data"))

	t.Setenv(EnvDataDir, "/env/data")
	assert.Equal(t, "/env/data", ResolveDataDir("", ""))

	t.Setenv(EnvDataDir, "")
	assert.Equal(t, DefaultDataDirName, ResolveDataDir("", ""))
}

func TestDBPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/data", DBFileName), DBPath("/data"))
}
