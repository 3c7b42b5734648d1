// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train fits densenet networks on batched datasets.
//
// Fit runs a fixed number of epochs. Each epoch submits one task per batch to
// a worker pool; a task reads the next batch from the loader, runs forward and
// backward, and applies the update. An evaluation pass follows every epoch.
//
// Example:
//
//	net, _ := nn.NewFromSizes([]int{10, 100, 50, 3}, nn.DefaultHyper())
//	trainData := loader.NewSynthetic(60000, 10, 3, 32, 1)
//	evalData := loader.NewSynthetic(10000, 10, 3, 32, 2)
//
//	report, err := train.Fit(ctx, net, trainData, evalData, train.Options{
//	    Logger: log.Default(),
//	})
package train

import (
	"context"

	"github.com/born-ml/densenet/internal/loader"
	"github.com/born-ml/densenet/internal/nn"
	"github.com/born-ml/densenet/internal/train"
)

// Options configures Fit and Evaluate.
type Options = train.Options

// Policy selects how concurrent batches apply their updates.
type Policy = train.Policy

// Update policies.
const (
	Hogwild    = train.Hogwild
	Serialized = train.Serialized
)

// Totals accumulates batch statistics over one pass.
type Totals = train.Totals

// EpochStats summarizes one epoch.
type EpochStats = train.EpochStats

// Report is the outcome of a Fit run.
type Report = train.Report

// ParsePolicy parses "hogwild" or "serialized".
func ParsePolicy(s string) (Policy, error) {
	return train.ParsePolicy(s)
}

// Fit trains net on trainData and evaluates it on evalData after every
// epoch. It stops early when ctx is cancelled.
func Fit(ctx context.Context, net *nn.Network, trainData, evalData loader.Loader, opts Options) (Report, error) {
	return train.Fit(ctx, net, trainData, evalData, opts)
}

// Evaluate runs one forward-only pass over data.
func Evaluate(ctx context.Context, net *nn.Network, data loader.Loader, opts Options) (Totals, error) {
	return train.Evaluate(ctx, net, data, opts)
}
