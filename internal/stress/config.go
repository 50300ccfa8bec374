package stress

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/randomizedcoder/lfq/internal/queue"
	"github.com/randomizedcoder/lfq/internal/tick"
)

// Queue implementations a run can exercise.
const (
	ImplLockFree = "lockfree"
	ImplChannel  = "channel"
	ImplMutex    = "mutex"
)

// Run modes.
const (
	// ModeMPMC runs producers and consumers at the same time.
	ModeMPMC = "mpmc"
	// ModeFillDrain pushes everything from concurrent producers, checks the
	// length, then pops everything from one goroutine.
	ModeFillDrain = "fill-drain"
)

// Impls lists the accepted values of Config.Impl.
var Impls = []string{ImplLockFree, ImplChannel, ImplMutex}

// Config describes one contention run.
type Config struct {
	Impl             string        `yaml:"impl"`
	Mode             string        `yaml:"mode"`
	Producers        int           `yaml:"producers"`
	Consumers        int           `yaml:"consumers"`
	ItemsPerProducer int           `yaml:"items_per_producer"`
	Capacity         int           `yaml:"capacity"`
	HardBound        bool          `yaml:"hard_bound"`
	MaxNodes         int           `yaml:"max_nodes"`
	Timeout          time.Duration `yaml:"timeout"`
	Progress         time.Duration `yaml:"progress"`
	Ticker           string        `yaml:"ticker"`
	LogLevel         string        `yaml:"log_level"`
}

// DefaultConfig returns an unbounded lock-free MPMC run with one producer
// and one consumer per CPU.
func DefaultConfig() Config {
	return Config{
		Impl:             ImplLockFree,
		Mode:             ModeMPMC,
		Producers:        runtime.NumCPU(),
		Consumers:        runtime.NumCPU(),
		ItemsPerProducer: 100_000,
		Capacity:         queue.Unbounded,
		Timeout:          time.Minute,
		Progress:         tick.DefaultInterval,
		Ticker:           tick.KindAtomic,
		LogLevel:         "INFO",
	}
}

// Parse decodes YAML over the defaults. Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Load reads and parses a configuration file.
func Load(file string) (Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("unable to read configuration file: %w", err)
	}
	return Parse(data)
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Total returns the number of items a run produces.
func (c Config) Total() int {
	return c.Producers * c.ItemsPerProducer
}

// Validate checks that the configuration describes a run that can finish.
func (c Config) Validate() error {
	invalid := func(format string, v ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, v...))
	}

	if !slices.Contains(Impls, c.Impl) {
		return invalid("unknown impl %q", c.Impl)
	}
	if c.Mode != ModeMPMC && c.Mode != ModeFillDrain {
		return invalid("unknown mode %q", c.Mode)
	}
	if c.Producers < 1 || c.ItemsPerProducer < 1 {
		return invalid("need at least one producer and one item per producer")
	}
	if c.Mode == ModeMPMC && c.Consumers < 1 {
		return invalid("mode %s needs at least one consumer", ModeMPMC)
	}
	if c.Capacity != queue.Unbounded && c.Capacity < 1 {
		return invalid("capacity %d is neither positive nor %d", c.Capacity, queue.Unbounded)
	}
	if c.Impl == ImplChannel && c.Capacity == queue.Unbounded {
		return invalid("impl %s cannot be unbounded", ImplChannel)
	}
	if c.Impl != ImplLockFree && (c.HardBound || c.MaxNodes != 0) {
		return invalid("hard_bound and max_nodes only apply to impl %s", ImplLockFree)
	}
	if c.MaxNodes < 0 {
		return invalid("max_nodes %d is negative", c.MaxNodes)
	}
	if c.Mode == ModeFillDrain {
		if c.Capacity != queue.Unbounded && c.Capacity < c.Total() {
			return invalid("capacity %d cannot hold %d items", c.Capacity, c.Total())
		}
		if c.MaxNodes != 0 && c.MaxNodes <= c.Total() {
			return invalid("max_nodes %d cannot hold %d items and the sentinel", c.MaxNodes, c.Total())
		}
	}
	if c.Timeout <= 0 {
		return invalid("timeout must be positive")
	}
	if c.Ticker != tick.KindAtomic && c.Ticker != tick.KindStd {
		return invalid("unknown ticker %q", c.Ticker)
	}
	return nil
}
