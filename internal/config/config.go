// Package config loads the YAML run configuration of the densenet CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/densenet/internal/loader"
	"github.com/born-ml/densenet/internal/nn"
	"github.com/born-ml/densenet/internal/optim"
	"github.com/born-ml/densenet/internal/parallel"
	"github.com/born-ml/densenet/internal/train"
)

// Dataset kinds.
const (
	DataSynthetic = "synthetic"
	DataIDX       = "idx"
)

// Config captures the knobs for a training run.
type Config struct {
	Layers      []int   `yaml:"layers"`
	Epochs      int     `yaml:"epochs"`
	BatchSize   int     `yaml:"batch_size"`
	Workers     int     `yaml:"workers"`
	InitialLR   float64 `yaml:"initial_lr"`
	FinalLR     float64 `yaml:"final_lr"`
	WeightScale float64 `yaml:"weight_scale"`
	Policy      string  `yaml:"policy"`
	Seed        int64   `yaml:"seed"`
	ModelPath   string  `yaml:"model_path"`
	Data        Data    `yaml:"data"`
}

// Data selects the training and evaluation datasets.
type Data struct {
	Kind       string `yaml:"kind"`
	Dir        string `yaml:"dir"`
	TrainItems int    `yaml:"train_items"`
	EvalItems  int    `yaml:"eval_items"`
}

// Overrides captures CLI supplied values. Zero values leave the config alone.
type Overrides struct {
	Epochs    int
	BatchSize int
	Workers   int
	Policy    string
	Seed      int64
	ModelPath string
	DataKind  string
	DataDir   string
}

// Default returns the configuration of the synthetic radial benchmark.
func Default() *Config {
	h := nn.DefaultHyper()
	return &Config{
		Layers:      []int{10, 100, 50, 3},
		Epochs:      h.Epochs,
		BatchSize:   32,
		Workers:     parallel.NumCPU(),
		InitialLR:   h.InitialLR,
		FinalLR:     h.FinalLR,
		WeightScale: h.WeightScale,
		Policy:      train.Hogwild.String(),
		Seed:        1,
		ModelPath:   "densenet.dnet",
		Data: Data{
			Kind:       DataSynthetic,
			TrainItems: 60000,
			EvalItems:  10000,
		},
	}
}

// Load reads a Config from YAML on top of Default and validates it.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Epochs > 0 {
		c.Epochs = o.Epochs
	}
	if o.BatchSize > 0 {
		c.BatchSize = o.BatchSize
	}
	if o.Workers > 0 {
		c.Workers = o.Workers
	}
	if o.Policy != "" {
		c.Policy = o.Policy
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.ModelPath != "" {
		c.ModelPath = o.ModelPath
	}
	if o.DataKind != "" {
		c.Data.Kind = o.DataKind
	}
	if o.DataDir != "" {
		c.Data.Dir = o.DataDir
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if len(c.Layers) < 2 {
		return fmt.Errorf("layers needs at least two sizes (got %v)", c.Layers)
	}
	for i, size := range c.Layers {
		if size <= 0 {
			return fmt.Errorf("layers[%d] must be > 0 (got %d)", i, size)
		}
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be > 0 (got %d)", c.Epochs)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", c.BatchSize)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", c.Workers)
	}
	if c.InitialLR <= 0 || c.FinalLR <= 0 {
		return fmt.Errorf("learning rates must be > 0 (got %g, %g)", c.InitialLR, c.FinalLR)
	}
	if c.WeightScale <= 0 {
		return fmt.Errorf("weight_scale must be > 0 (got %g)", c.WeightScale)
	}
	if _, err := train.ParsePolicy(c.Policy); err != nil {
		return err
	}

	switch c.Data.Kind {
	case DataSynthetic:
		if c.Data.TrainItems <= 0 || c.Data.EvalItems <= 0 {
			return fmt.Errorf("data item counts must be > 0 (got %d, %d)", c.Data.TrainItems, c.Data.EvalItems)
		}
	case DataIDX:
		if c.Data.Dir == "" {
			return errors.New("data.dir is required for idx data")
		}
		if out := c.Layers[len(c.Layers)-1]; out != loader.MNISTClasses {
			return fmt.Errorf("idx data has %d classes, last layer has %d", loader.MNISTClasses, out)
		}
	default:
		return fmt.Errorf("unknown data.kind %q", c.Data.Kind)
	}
	return nil
}

// Hyper returns the network hyperparameters.
func (c *Config) Hyper() nn.Hyper {
	return nn.Hyper{
		InitialLR:   c.InitialLR,
		FinalLR:     c.FinalLR,
		WeightScale: c.WeightScale,
		Epochs:      c.Epochs,
		Workers:     c.Workers,
	}
}

// Schedule returns the linear anneal from initial_lr to final_lr over the
// configured epochs.
func (c *Config) Schedule() optim.Schedule {
	return optim.Linear{Initial: c.InitialLR, Final: c.FinalLR, Epochs: c.Epochs}
}

// TrainOptions returns the trainer options. Validate must have passed.
// The learning rates come from the config even when the network was loaded
// with different stored hyperparameters.
func (c *Config) TrainOptions() train.Options {
	policy, _ := train.ParsePolicy(c.Policy)
	return train.Options{
		Policy:   policy,
		Workers:  c.Workers,
		Epochs:   c.Epochs,
		Schedule: c.Schedule(),
	}
}

// Loaders builds the training and evaluation loaders.
func (c *Config) Loaders() (trainData, evalData loader.Loader) {
	if c.Data.Kind == DataIDX {
		return loader.MNISTTrain(c.Data.Dir, c.BatchSize), loader.MNISTTest(c.Data.Dir, c.BatchSize)
	}
	in, out := c.Layers[0], c.Layers[len(c.Layers)-1]
	return loader.NewSynthetic(c.Data.TrainItems, in, out, c.BatchSize, c.Seed),
		loader.NewSynthetic(c.Data.EvalItems, in, out, c.BatchSize, c.Seed+1)
}
