package loader

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// IDX magic numbers.
const (
	imageMagic = 2051 // 0x00000803: unsigned bytes, 3 dimensions
	labelMagic = 2049 // 0x00000801: unsigned bytes, 1 dimension
)

// MNISTClasses is the number of digit classes.
const MNISTClasses = 10

// Standard MNIST file names.
const (
	TrainImages = "train-images-idx3-ubyte"
	TrainLabels = "train-labels-idx1-ubyte"
	TestImages  = "t10k-images-idx3-ubyte"
	TestLabels  = "t10k-labels-idx1-ubyte"
)

// IDX reads an image file and a label file in IDX format.
//
// Image file layout (big-endian):
//
//	magic number: 2051
//	number of images: 4 bytes
//	number of rows: 4 bytes
//	number of cols: 4 bytes
//	pixel data: unsigned bytes (0-255), one image after another
//
// Label file layout:
//
//	magic number: 2049
//	number of labels: 4 bytes
//	label data: unsigned bytes (0-9)
//
// Pixels are scaled to [0, 1) by dividing by 256; labels become one-hot rows
// over MNISTClasses.
type IDX struct {
	imagePath string
	labelPath string
	batchSize int

	mu     sync.Mutex
	images *os.File
	labels *os.File
	imageR *bufio.Reader
	labelR *bufio.Reader
	meta   MetaData
	read   int
	next   int
}

// NewIDX creates a loader for the given image and label files.
func NewIDX(imagePath, labelPath string, batchSize int) *IDX {
	return &IDX{
		imagePath: imagePath,
		labelPath: labelPath,
		batchSize: batchSize,
	}
}

// MNISTTrain returns a loader for the training files in dir.
func MNISTTrain(dir string, batchSize int) *IDX {
	return NewIDX(filepath.Join(dir, TrainImages), filepath.Join(dir, TrainLabels), batchSize)
}

// MNISTTest returns a loader for the test files in dir.
func MNISTTest(dir string, batchSize int) *IDX {
	return NewIDX(filepath.Join(dir, TestImages), filepath.Join(dir, TestLabels), batchSize)
}

// Open implements Loader. It validates both headers.
func (l *IDX) Open() (MetaData, error) {
	if l.batchSize <= 0 {
		return MetaData{}, fmt.Errorf("%w: batch=%d", ErrInvalidShape, l.batchSize)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.closeFiles()

	images, err := os.Open(l.imagePath)
	if err != nil {
		return MetaData{}, &IOError{Op: "open", Path: l.imagePath, Err: err}
	}
	labels, err := os.Open(l.labelPath)
	if err != nil {
		_ = images.Close()
		return MetaData{}, &IOError{Op: "open", Path: l.labelPath, Err: err}
	}
	l.images, l.labels = images, labels
	l.imageR, l.labelR = bufio.NewReader(images), bufio.NewReader(labels)

	meta, err := l.readHeaders()
	if err != nil {
		_ = l.closeFiles()
		return MetaData{}, err
	}
	l.meta = meta
	l.read, l.next = 0, 0
	return meta, nil
}

// readHeaders checks both magic words before reading the counts and the
// image dimensions.
func (l *IDX) readHeaders() (MetaData, error) {
	imageMagicWord, err := readWord(l.imageR, l.imagePath)
	if err != nil {
		return MetaData{}, err
	}
	if imageMagicWord != imageMagic {
		return MetaData{}, fmt.Errorf("%w: %s: got %d, want %d", ErrBadSignature, l.imagePath, imageMagicWord, imageMagic)
	}
	labelMagicWord, err := readWord(l.labelR, l.labelPath)
	if err != nil {
		return MetaData{}, err
	}
	if labelMagicWord != labelMagic {
		return MetaData{}, fmt.Errorf("%w: %s: got %d, want %d", ErrBadSignature, l.labelPath, labelMagicWord, labelMagic)
	}

	imageCount, err := readWord(l.imageR, l.imagePath)
	if err != nil {
		return MetaData{}, err
	}
	labelCount, err := readWord(l.labelR, l.labelPath)
	if err != nil {
		return MetaData{}, err
	}

	var dims [2]uint32
	if err := binary.Read(l.imageR, binary.BigEndian, &dims); err != nil {
		return MetaData{}, &IOError{Op: "read header", Path: l.imagePath, Err: err}
	}

	items := int(labelCount)
	if int(imageCount) != items {
		return MetaData{}, fmt.Errorf("%w: %d images, %d labels", ErrItemMismatch, imageCount, items)
	}

	height, width := int(dims[0]), int(dims[1])
	return MetaData{
		Items:      items,
		InputSize:  height * width,
		OutputSize: MNISTClasses,
		BatchSize:  l.batchSize,
		Batches:    batchCount(items, l.batchSize),
		Width:      width,
		Height:     height,
	}, nil
}

func readWord(r io.Reader, path string) (uint32, error) {
	var word uint32
	if err := binary.Read(r, binary.BigEndian, &word); err != nil {
		return 0, &IOError{Op: "read header", Path: path, Err: err}
	}
	return word, nil
}

// MetaData implements Loader.
func (l *IDX) MetaData() MetaData {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.meta
}

// Batch implements Loader. Reads are serialized; the byte-to-float
// conversion runs outside the lock.
func (l *IDX) Batch() (BatchData, error) {
	l.mu.Lock()
	if l.images == nil {
		l.mu.Unlock()
		return BatchData{}, ErrNotOpen
	}
	meta := l.meta
	count := min(meta.BatchSize, meta.Items-l.read)
	if count <= 0 {
		l.mu.Unlock()
		return BatchData{}, io.EOF
	}

	pixels := make([]byte, count*meta.InputSize)
	labels := make([]byte, count)
	if _, err := io.ReadFull(l.imageR, pixels); err != nil {
		l.mu.Unlock()
		return BatchData{}, &IOError{Op: "read", Path: l.imagePath, Err: err}
	}
	if _, err := io.ReadFull(l.labelR, labels); err != nil {
		l.mu.Unlock()
		return BatchData{}, &IOError{Op: "read", Path: l.labelPath, Err: err}
	}
	index := l.next
	l.read += count
	l.next++
	l.mu.Unlock()

	batch := BatchData{
		Index:    index,
		Read:     count,
		Input:    make([]float64, len(pixels)),
		Expected: make([]float64, count*MNISTClasses),
	}
	for i, b := range pixels {
		batch.Input[i] = float64(b) / 256
	}
	for item, label := range labels {
		if int(label) >= MNISTClasses {
			return BatchData{}, fmt.Errorf("%w: item %d has label %d", ErrBadLabel, index*meta.BatchSize+item, label)
		}
		batch.Expected[item*MNISTClasses+int(label)] = 1
	}
	return batch, nil
}

// Close implements Loader.
func (l *IDX) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeFiles()
}

// closeFiles closes both files and resets the read position. Callers hold mu.
func (l *IDX) closeFiles() error {
	var firstErr error
	for _, f := range []*os.File{l.images, l.labels} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = &IOError{Op: "close", Path: f.Name(), Err: err}
		}
	}
	l.images, l.labels = nil, nil
	l.imageR, l.labelR = nil, nil
	l.read, l.next = 0, 0
	return firstErr
}
