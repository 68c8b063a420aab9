package config_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/parley/pkg/config"
	"github.com/aretw0/parley/pkg/domain"
)

const sampleConfig = `
listen: ":8080"
log_level: debug
hop_timeout: 5s
session_store:
  backend: redis
  redis:
    address: localhost:6379
    ttl: 24h
services:
  - name: lanekeep_dcm
    decision: lanekeep
    modality: text
  - name: lk
    tag: LK
    endpoint: $LK_HOST:8090
    modality: text
workflows:
  - name: class_lk_dcm
    modality: text
    nodes:
      - service: lanekeep_dcm
        successors: [0, 1]
      - service: lk
        successors: [0]
`

func TestParse(t *testing.T) {
	t.Setenv("LK_HOST", "lk.internal")

	cfg, err := config.Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "redis", cfg.Store.Backend)

	require.Len(t, cfg.Services, 2)
	assert.Equal(t, "lanekeep", cfg.Services[0].Decision)
	assert.Equal(t, "lk.internal:8090", cfg.Services[1].Endpoint, "endpoints expand environment variables")

	timeout, err := cfg.HopTimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, timeout)

	ttl, err := cfg.SessionTTL()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := config.Parse([]byte(`
services:
  - name: lanekeep_dcm
    decision: lanekeep
workflows:
  - name: class_lk_dcm
    nodes:
      - service: lanekeep_dcm
        successors: [0]
`))
	require.NoError(t, err)

	timeout, err := cfg.HopTimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, timeout)

	ttl, err := cfg.SessionTTL()
	require.NoError(t, err)
	assert.Zero(t, ttl)
}

func TestParse_Invalid(t *testing.T) {
	_, err := config.Parse([]byte(`{not yaml`))
	assert.Error(t, err)

	_, err = config.Parse([]byte(`workflows: [{name: w, nodes: [{service: s}]}]`))
	assert.Error(t, err, "services are required")

	_, err = config.Parse([]byte(`services: [{name: s, decision: d}]`))
	assert.Error(t, err, "workflows are required")
}

func TestConfig_GraphSet(t *testing.T) {
	cfg, err := config.Parse([]byte(sampleConfig))
	require.NoError(t, err)

	gs, err := cfg.GraphSet()
	require.NoError(t, err)

	g, err := gs.Default(domain.ModalityText)
	require.NoError(t, err)
	assert.Equal(t, "class_lk_dcm", g.Name)

	// Node IDs are positional.
	next, err := g.NextNode(0, "lk")
	require.NoError(t, err)
	assert.Equal(t, 1, next)
}

func TestConfig_GraphSet_DefaultFlag(t *testing.T) {
	cfg, err := config.Parse([]byte(`
services:
  - name: a
    decision: d
workflows:
  - name: first
    modality: text
    nodes:
      - service: a
  - name: second
    modality: text
    default: true
    nodes:
      - service: a
`))
	require.NoError(t, err)

	gs, err := cfg.GraphSet()
	require.NoError(t, err)

	g, err := gs.Default(domain.ModalityText)
	require.NoError(t, err)
	assert.Equal(t, "second", g.Name, "an explicit default overrides declaration order")
}

func TestConfig_GraphSet_Invalid(t *testing.T) {
	cfg, err := config.Parse([]byte(`
services:
  - name: a
    decision: d
workflows:
  - name: broken
    nodes:
      - service: a
        successors: [5]
`))
	require.NoError(t, err)

	_, err = cfg.GraphSet()
	assert.Error(t, err, "successors out of range must be rejected")
}

func TestConfig_SessionKeys(t *testing.T) {
	active := make([]byte, 32)
	fallback := make([]byte, 32)
	for i := range active {
		active[i] = byte(i)
		fallback[i] = byte(255 - i)
	}
	encoded := base64.StdEncoding.EncodeToString(active) + ", " + base64.StdEncoding.EncodeToString(fallback)
	t.Setenv("PARLEY_SESSION_KEYS", encoded)

	cfg := &config.Config{}
	cfg.Store.EncryptionKeyEnv = "PARLEY_SESSION_KEYS"

	gotActive, gotFallbacks, err := cfg.SessionKeys()
	require.NoError(t, err)
	assert.Equal(t, active, gotActive)
	require.Len(t, gotFallbacks, 1)
	assert.Equal(t, fallback, gotFallbacks[0])

	// Disabled when unconfigured.
	none := &config.Config{}
	gotActive, gotFallbacks, err = none.SessionKeys()
	require.NoError(t, err)
	assert.Nil(t, gotActive)
	assert.Nil(t, gotFallbacks)

	// Wrong-sized keys are rejected.
	t.Setenv("PARLEY_SESSION_KEYS", base64.StdEncoding.EncodeToString([]byte("short")))
	_, _, err = cfg.SessionKeys()
	assert.Error(t, err)

	// A named but unset variable is a startup defect.
	cfg.Store.EncryptionKeyEnv = "PARLEY_MISSING_KEYS"
	_, _, err = cfg.SessionKeys()
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parley.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Workflows, 1)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
