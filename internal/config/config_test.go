package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 0.6, cfg.Tuning.OrderThreshold)
	assert.False(t, cfg.Transcripts.Enabled, "the audit trail must be opt-in")
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
server:
  addr: ":9000"
provider:
  model: gpt-4o
  timeout: 10s
transcripts:
  enabled: true
  path: /tmp/audit.db
tuning:
  order_threshold: 0.5
  history_window: 6
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "gpt-4o", cfg.Provider.Model)
	assert.Equal(t, 10*time.Second, cfg.Provider.Timeout.Std())
	assert.True(t, cfg.Transcripts.Enabled)
	assert.Equal(t, 0.5, cfg.Tuning.OrderThreshold)
	assert.Equal(t, 6, cfg.Tuning.HistoryWindow)
	assert.Equal(t, 0.7, cfg.Tuning.ClassifierThreshold, "untouched knobs keep their defaults")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}
