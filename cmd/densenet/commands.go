package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"

	"github.com/klauspost/cpuid/v2"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/densenet/internal/config"
	"github.com/born-ml/densenet/internal/loader"
	"github.com/born-ml/densenet/internal/matrix"
	"github.com/born-ml/densenet/internal/montage"
	"github.com/born-ml/densenet/internal/nn"
	"github.com/born-ml/densenet/internal/parallel"
	"github.com/born-ml/densenet/internal/profiler"
	"github.com/born-ml/densenet/internal/serialization"
	"github.com/born-ml/densenet/internal/train"
)

// loadConfig reads path, or starts from the defaults when path is empty,
// then applies the overrides and validates.
func loadConfig(path string, o config.Overrides) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyOverrides(o)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runTrain(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to YAML config (defaults when empty)")
	epochs := fs.Int("epochs", 0, "Number of epochs")
	batchSize := fs.Int("batch-size", 0, "Items per batch")
	workers := fs.Int("workers", 0, "Number of worker goroutines")
	policy := fs.String("policy", "", "Update policy: hogwild or serialized")
	seed := fs.Int64("seed", 0, "PRNG seed")
	modelPath := fs.String("model", "", "Model file to resume from and save to")
	dataKind := fs.String("data", "", "Dataset kind: synthetic or idx")
	dataDir := fs.String("data-dir", "", "Directory holding the MNIST files")
	fresh := fs.Bool("fresh", false, "Ignore an existing model file")
	profile := fs.Bool("profile", false, "Print timing of forward, backward and adjust")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath, config.Overrides{
		Epochs:    *epochs,
		BatchSize: *batchSize,
		Workers:   *workers,
		Policy:    *policy,
		Seed:      *seed,
		ModelPath: *modelPath,
		DataKind:  *dataKind,
		DataDir:   *dataDir,
	})
	if err != nil {
		return err
	}

	var prof *profiler.Profiler
	if *profile {
		prof = profiler.New()
	}

	net, err := openNetwork(cfg, *fresh, prof)
	if err != nil {
		return err
	}
	opts := cfg.TrainOptions()
	opts.Logger = log.Default()
	opts.Profiler = prof
	log.Printf("network workers=%d policy=%s schedule=%v\n%s", opts.Workers, cfg.Policy, opts.Schedule, net.Summary())

	trainData, evalData := cfg.Loaders()
	report, err := train.Fit(ctx, net, trainData, evalData, opts)
	if err != nil {
		return err
	}

	if err := serialization.SaveFile(cfg.ModelPath, net); err != nil {
		return err
	}
	log.Printf("saved model path=%s run=%s", cfg.ModelPath, report.RunID)

	if final, ok := report.Final(); ok {
		if _, err := fmt.Fprintf(stdout, "accuracy=%.4f loss=%.4f epochs=%d\n",
			final.Eval.Accuracy(), final.Eval.MeanLoss(), len(report.Epochs)); err != nil {
			return err
		}
	}
	if prof != nil {
		if _, err := prof.WriteTo(stdout); err != nil {
			return err
		}
	}
	return nil
}

// openNetwork resumes from cfg.ModelPath when the file exists and builds a
// fresh network from cfg.Layers otherwise.
func openNetwork(cfg *config.Config, fresh bool, prof *profiler.Profiler) (*nn.Network, error) {
	opts := []nn.Option{nn.WithSeed(cfg.Seed), nn.WithProfiler(prof)}
	if !fresh {
		net, ok, err := serialization.LoadFileIfExists(cfg.ModelPath, opts...)
		if err != nil {
			return nil, err
		}
		if ok {
			h := net.Hyper()
			log.Printf("resumed model path=%s stored_lr=%g->%g stored_weight_scale=%g; training with initial_lr=%g final_lr=%g from config",
				cfg.ModelPath, h.InitialLR, h.FinalLR, h.WeightScale, cfg.InitialLR, cfg.FinalLR)
			return net, nil
		}
	}
	return nn.NewFromSizes(cfg.Layers, cfg.Hyper(), opts...)
}

func runCheck(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to YAML config (defaults when empty)")
	items := fs.Int("items", 10, "Items in the checked batch")
	seed := fs.Int64("seed", 0, "PRNG seed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *items <= 0 {
		return fmt.Errorf("items must be > 0 (got %d)", *items)
	}

	cfg, err := loadConfig(*cfgPath, config.Overrides{Seed: *seed})
	if err != nil {
		return err
	}
	net, err := nn.NewFromSizes(cfg.Layers, cfg.Hyper(), nn.WithSeed(cfg.Seed))
	if err != nil {
		return err
	}

	in, out := net.InputSize(), net.OutputSize()
	//nolint:gosec // Using math/rand for test inputs (not security-critical)
	rng := rand.New(rand.NewSource(cfg.Seed))
	input := nn.Normal(in, *items, 1, rng)
	expected := matrix.New(out, *items)
	for col := range *items {
		expected.Set(rng.Intn(out), col, 1)
	}

	analytic, numeric, err := nn.CheckInputGradient(net, input, expected)
	if err != nil {
		return err
	}
	diff := floats.Distance(analytic.Data(), numeric.Data(), math.Inf(1))
	if _, err := fmt.Fprintf(stdout, "max |analytic - numeric| = %.3g over %d elements\n", diff, analytic.Len()); err != nil {
		return err
	}
	if !analytic.Equal(numeric) {
		return errors.New("gradient check failed")
	}
	_, err = fmt.Fprintln(stdout, "gradient check passed")
	return err
}

func runMontage(args []string) error {
	fs := flag.NewFlagSet("montage", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "", "Directory holding the MNIST files")
	outDir := fs.String("out", ".", "Output directory")
	batchSize := fs.Int("batch-size", 10000, "Images per montage")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataDir == "" {
		return errors.New("-data-dir is required")
	}

	w := &montage.Writer{Dir: *outDir, Logger: log.Default()}
	n, err := w.Write(loader.MNISTTrain(*dataDir, *batchSize))
	if err != nil {
		return err
	}
	log.Printf("wrote %d montages to %s", n, *outDir)
	return nil
}

func runInfo(stdout io.Writer) error {
	features := []cpuid.FeatureID{cpuid.SSE2, cpuid.AVX, cpuid.AVX2, cpuid.FMA3, cpuid.AVX512F, cpuid.ASIMD}
	var supported []string
	for _, f := range features {
		if cpuid.CPU.Supports(f) {
			supported = append(supported, f.String())
		}
	}

	_, err := fmt.Fprintf(stdout, "cpu: %s\nphysical cores: %d\nlogical cores: %d\nfeatures: %v\ndefault workers: %d\n",
		cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores, supported, parallel.NumCPU())
	return err
}
