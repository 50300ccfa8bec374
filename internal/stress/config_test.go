package stress_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/randomizedcoder/lfq/internal/queue"
	"github.com/randomizedcoder/lfq/internal/stress"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := stress.DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, stress.ImplLockFree, cfg.Impl)
	require.Equal(t, queue.Unbounded, cfg.Capacity)
}

func TestParse(t *testing.T) {
	cfg, err := stress.Parse([]byte(`
impl: mutex
mode: fill-drain
producers: 3
items_per_producer: 50
capacity: 200
timeout: 5s
`))
	require.NoError(t, err)
	require.Equal(t, stress.ImplMutex, cfg.Impl)
	require.Equal(t, stress.ModeFillDrain, cfg.Mode)
	require.Equal(t, 3, cfg.Producers)
	require.Equal(t, 150, cfg.Total())
	require.Equal(t, 200, cfg.Capacity)
	require.Equal(t, 5*time.Second, cfg.Timeout)
	// untouched fields keep their defaults
	require.Equal(t, stress.DefaultConfig().Ticker, cfg.Ticker)
	require.NoError(t, cfg.Validate())
}

func TestParse_Empty(t *testing.T) {
	cfg, err := stress.Parse(nil)
	require.NoError(t, err)
	require.Equal(t, stress.DefaultConfig(), cfg)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := stress.Parse([]byte("producer: 3\n"))
	require.ErrorIs(t, err, stress.ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "run.yml")
	require.NoError(t, os.WriteFile(file, []byte("consumers: 7\nhard_bound: true\ncapacity: 64\n"), 0o644))

	cfg, err := stress.Load(file)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Consumers)
	require.True(t, cfg.HardBound)
	require.Equal(t, 64, cfg.Capacity)

	_, err = stress.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := stress.DefaultConfig()
	cfg.Impl = stress.ImplChannel
	cfg.Capacity = 32

	data, err := cfg.Marshal()
	require.NoError(t, err)

	back, err := stress.Parse(data)
	require.NoError(t, err)
	require.Equal(t, cfg, back)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*stress.Config)
	}{
		{"unknown impl", func(c *stress.Config) { c.Impl = "ring" }},
		{"unknown mode", func(c *stress.Config) { c.Mode = "spsc" }},
		{"no producers", func(c *stress.Config) { c.Producers = 0 }},
		{"no items", func(c *stress.Config) { c.ItemsPerProducer = 0 }},
		{"no consumers", func(c *stress.Config) { c.Consumers = 0 }},
		{"zero capacity", func(c *stress.Config) { c.Capacity = 0 }},
		{"unbounded channel", func(c *stress.Config) { c.Impl = stress.ImplChannel }},
		{"hard bound on mutex", func(c *stress.Config) {
			c.Impl = stress.ImplMutex
			c.Capacity = 8
			c.HardBound = true
		}},
		{"negative max nodes", func(c *stress.Config) { c.MaxNodes = -1 }},
		{"fill-drain over capacity", func(c *stress.Config) {
			c.Mode = stress.ModeFillDrain
			c.Capacity = c.Total() - 1
		}},
		{"fill-drain over node limit", func(c *stress.Config) {
			c.Mode = stress.ModeFillDrain
			c.MaxNodes = c.Total()
		}},
		{"no timeout", func(c *stress.Config) { c.Timeout = 0 }},
		{"unknown ticker", func(c *stress.Config) { c.Ticker = "tsc" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := stress.DefaultConfig()
			tt.modify(&cfg)
			require.ErrorIs(t, cfg.Validate(), stress.ErrInvalidConfig)
		})
	}
}

func TestValidate_FillDrainWithoutConsumers(t *testing.T) {
	cfg := stress.DefaultConfig()
	cfg.Mode = stress.ModeFillDrain
	cfg.Consumers = 0
	require.NoError(t, cfg.Validate())
}
