package sim

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config groups the tunable parameters of a boarding simulation. The zero
// value is not usable; start from DefaultConfig and override.
type Config struct {
	// Delays is the movement-delay table and bin loading constant.
	Delays DelayConfig `yaml:"delays"`

	// EntryInterval spaces successive passengers at each deck's entrance.
	EntryInterval GaussParam `yaml:"entry_interval"`

	// RowsPerBinGroup overrides the layout's bin row span when positive.
	RowsPerBinGroup int `yaml:"rows_per_bin_group"`

	// Runs is the Monte-Carlo batch size.
	Runs int `yaml:"runs"`

	// Workers caps batch parallelism; 0 means one worker per CPU.
	Workers int `yaml:"workers"`

	// Seed anchors the batch's key; run i uses Key(Seed).RunKey(i).
	Seed int64 `yaml:"seed"`

	// Order supplies the boarding order. Not part of the YAML surface;
	// strategies are selected by name at the command layer.
	Order Orderer `yaml:"-"`
}

// DefaultConfig returns the stock configuration: the standard delay table,
// a 7s mean door interval, and 200 runs.
func DefaultConfig() Config {
	return Config{
		Delays:        DefaultDelays(),
		EntryInterval: GaussParam{Mean: 7.0, Sigma: 1.0},
		Runs:          200,
		Workers:       0,
		Seed:          1,
	}
}

// Validate rejects configurations the simulator cannot run.
func (c *Config) Validate() error {
	if c.Runs < 1 {
		return fmt.Errorf("config: runs must be at least 1, got %d", c.Runs)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative, got %d", c.Workers)
	}
	if c.RowsPerBinGroup < 0 {
		return fmt.Errorf("config: rows_per_bin_group must not be negative, got %d", c.RowsPerBinGroup)
	}
	if c.Delays.BinConstant < 0 {
		return fmt.Errorf("config: bin_constant must not be negative, got %f", c.Delays.BinConstant)
	}
	return nil
}

// WorkerCount resolves Workers against the host.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// LoadConfig reads a YAML config file over the defaults, so partial files
// override only what they mention.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
