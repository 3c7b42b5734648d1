package loader

import (
	"errors"
	"fmt"

	"github.com/born-ml/densenet/internal/matrix"
)

// Errors returned by loaders.
var (
	ErrBadSignature = errors.New("loader: bad file signature")
	ErrItemMismatch = errors.New("loader: image and label counts differ")
	ErrBadLabel     = errors.New("loader: label out of range")
	ErrInvalidShape = errors.New("loader: invalid dataset shape")
	ErrNotOpen      = errors.New("loader: not open")
)

// IOError reports a failed file operation.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("loader: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// MetaData describes the shape of a dataset.
type MetaData struct {
	Items      int // total items
	InputSize  int // features per item
	OutputSize int // classes
	BatchSize  int
	Batches    int // ceil(Items / BatchSize)

	// Image dimensions, zero for non-image datasets.
	Width, Height int
}

// BatchData is one batch of items.
type BatchData struct {
	Index    int       // zero-based batch number
	Read     int       // items in this batch; the last batch may be short
	Input    []float64 // Read × InputSize, item-major
	Expected []float64 // Read × OutputSize, item-major one-hot
}

// Matrices returns the batch as InputSize×Read and OutputSize×Read matrices,
// one item per column.
func (b BatchData) Matrices(meta MetaData) (input, expected *matrix.Matrix) {
	input = matrix.FromSlice(meta.InputSize, b.Read, b.Input, false)
	expected = matrix.FromSlice(meta.OutputSize, b.Read, b.Expected, false)
	return input, expected
}

// Labels returns the hot class of each item.
func (b BatchData) Labels(meta MetaData) []int {
	labels := make([]int, b.Read)
	for item := range labels {
		row := b.Expected[item*meta.OutputSize : (item+1)*meta.OutputSize]
		for class, v := range row {
			if v > row[labels[item]] {
				labels[item] = class
			}
		}
	}
	return labels
}

// Loader delivers a dataset in batches.
//
// Batch is safe for concurrent use; each call hands out the next unread
// batch and returns io.EOF once all batches have been delivered. Close
// releases resources and resets the read position; call Open to read the
// dataset again.
type Loader interface {
	Open() (MetaData, error)
	MetaData() MetaData
	Batch() (BatchData, error)
	Close() error
}

func batchCount(items, batchSize int) int {
	return (items + batchSize - 1) / batchSize
}
