package loader

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"sync"
)

// Synthetic generates a radially labeled dataset.
//
// Each item draws a class r uniformly from [0, OutputSize) and a direction v
// from the standard normal distribution; its input is r·v/‖v‖, a point on the
// sphere of radius r. The class is recoverable from the input norm, so a
// small network can learn it.
//
// Batch b is generated from its own seed derived from (seed, b), which makes
// the data independent of the order in which concurrent callers pull batches.
type Synthetic struct {
	meta MetaData
	seed int64

	mu   sync.Mutex
	open bool
	next int
}

// NewSynthetic creates a synthetic loader.
func NewSynthetic(items, inputSize, outputSize, batchSize int, seed int64) *Synthetic {
	meta := MetaData{
		Items:      items,
		InputSize:  inputSize,
		OutputSize: outputSize,
		BatchSize:  batchSize,
	}
	if batchSize > 0 {
		meta.Batches = batchCount(items, batchSize)
	}
	return &Synthetic{meta: meta, seed: seed}
}

// Open implements Loader.
func (s *Synthetic) Open() (MetaData, error) {
	m := s.meta
	if m.Items <= 0 || m.InputSize <= 0 || m.OutputSize <= 0 || m.BatchSize <= 0 {
		return MetaData{}, fmt.Errorf("%w: items=%d input=%d output=%d batch=%d",
			ErrInvalidShape, m.Items, m.InputSize, m.OutputSize, m.BatchSize)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
	s.next = 0
	return m, nil
}

// MetaData implements Loader.
func (s *Synthetic) MetaData() MetaData {
	return s.meta
}

// Batch implements Loader.
func (s *Synthetic) Batch() (BatchData, error) {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return BatchData{}, ErrNotOpen
	}
	index := s.next
	if index >= s.meta.Batches {
		s.mu.Unlock()
		return BatchData{}, io.EOF
	}
	s.next++
	s.mu.Unlock()

	return s.generate(index), nil
}

// Close implements Loader.
func (s *Synthetic) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	s.next = 0
	return nil
}

func (s *Synthetic) generate(index int) BatchData {
	m := s.meta
	read := min(m.BatchSize, m.Items-index*m.BatchSize)
	batch := BatchData{
		Index:    index,
		Read:     read,
		Input:    make([]float64, read*m.InputSize),
		Expected: make([]float64, read*m.OutputSize),
	}

	//nolint:gosec // Using math/rand for synthetic data (not security-critical)
	rng := rand.New(rand.NewSource(s.seed*1_000_003 + int64(index)))
	for item := 0; item < read; item++ {
		radius := rng.Intn(m.OutputSize)
		batch.Expected[item*m.OutputSize+radius] = 1

		features := batch.Input[item*m.InputSize : (item+1)*m.InputSize]
		sumSquares := 0.0
		for i := range features {
			v := rng.NormFloat64()
			features[i] = v
			sumSquares += v * v
		}
		distance := math.Sqrt(sumSquares)
		if distance == 0 {
			continue
		}
		for i := range features {
			features[i] *= float64(radius) / distance
		}
	}
	return batch
}
