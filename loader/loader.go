// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package loader provides the batched datasets consumed by the train package.
//
// Two loaders are included: a synthetic radially labeled dataset and a reader
// for the IDX files of the MNIST handwritten digit set.
//
// Example usage:
//
//	data := loader.MNISTTrain("data/mnist", 32)
//	meta, err := data.Open()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer data.Close()
//
//	for {
//	    batch, err := data.Batch()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    input, expected := batch.Matrices(meta)
//	    // ...
//	}
package loader

import (
	"github.com/born-ml/densenet/internal/loader"
)

// Loader delivers a dataset in batches.
type Loader = loader.Loader

// MetaData describes the shape of a dataset.
type MetaData = loader.MetaData

// BatchData is one batch of items.
type BatchData = loader.BatchData

// IOError reports a failed file operation.
type IOError = loader.IOError

// Synthetic generates a radially labeled dataset.
type Synthetic = loader.Synthetic

// IDX reads MNIST image and label files.
type IDX = loader.IDX

// Loader errors.
var (
	ErrBadSignature = loader.ErrBadSignature
	ErrItemMismatch = loader.ErrItemMismatch
	ErrBadLabel     = loader.ErrBadLabel
	ErrInvalidShape = loader.ErrInvalidShape
	ErrNotOpen      = loader.ErrNotOpen
)

// MNIST file names and class count.
const (
	TrainImages  = loader.TrainImages
	TrainLabels  = loader.TrainLabels
	TestImages   = loader.TestImages
	TestLabels   = loader.TestLabels
	MNISTClasses = loader.MNISTClasses
)

// NewSynthetic creates a synthetic loader of items points in inputSize
// dimensions, labeled with outputSize classes.
func NewSynthetic(items, inputSize, outputSize, batchSize int, seed int64) *Synthetic {
	return loader.NewSynthetic(items, inputSize, outputSize, batchSize, seed)
}

// NewIDX creates a loader for the given image and label files.
func NewIDX(imagePath, labelPath string, batchSize int) *IDX {
	return loader.NewIDX(imagePath, labelPath, batchSize)
}

// MNISTTrain returns a loader for the training files in dir.
func MNISTTrain(dir string, batchSize int) *IDX {
	return loader.MNISTTrain(dir, batchSize)
}

// MNISTTest returns a loader for the test files in dir.
func MNISTTest(dir string, batchSize int) *IDX {
	return loader.MNISTTest(dir, batchSize)
}
