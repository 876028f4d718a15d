package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("AUTOPWN_DATA_DIR", dataDir)
	t.Setenv("AUTOPWN_IN_DOCKER", "")
	t.Setenv("AUTOPWN_HOST", "")
	t.Setenv("AUTOPWN_HTTP_PORT", "")

	cfg := NewConfig()

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8666, cfg.HTTPPort)
	assert.Equal(t, "hashcat", cfg.HashcatBinary)
	assert.Equal(t, 5, cfg.StatusTimer)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, "@every 1m", cfg.DictionarySyncSchedule)
	assert.Equal(t, dataDir, cfg.DataDir)
}

func TestNewConfigCreatesDataLayout(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "autopwn")
	t.Setenv("AUTOPWN_DATA_DIR", dataDir)

	cfg := NewConfig()

	for _, dir := range []string{cfg.HashesDir(), cfg.DictionariesDir(), cfg.CapturesDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestNewConfigDockerBindsAllInterfaces(t *testing.T) {
	t.Setenv("AUTOPWN_DATA_DIR", t.TempDir())
	t.Setenv("AUTOPWN_IN_DOCKER", "true")

	cfg := NewConfig()
	assert.Equal(t, "0.0.0.0", cfg.Host)
}

func TestNewConfigOverrides(t *testing.T) {
	t.Setenv("AUTOPWN_DATA_DIR", t.TempDir())
	t.Setenv("AUTOPWN_HTTP_PORT", "9000")
	t.Setenv("AUTOPWN_HASHCAT_BINARY", "/opt/hashcat/hashcat.bin")
	t.Setenv("AUTOPWN_DEVICE_TYPE", "2")
	t.Setenv("AUTOPWN_POLL_INTERVAL", "500ms")

	cfg := NewConfig()

	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, "/opt/hashcat/hashcat.bin", cfg.HashcatBinary)
	assert.Equal(t, "2", cfg.DeviceType)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
}
