package serialization

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"

	"github.com/born-ml/densenet/internal/matrix"
	"github.com/born-ml/densenet/internal/nn"
)

// Load reads a network in .dnet format from r. Options are passed to the
// new network.
func Load(r io.Reader, opts ...nn.Option) (*nn.Network, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data, opts...)
}

// Decode parses a complete .dnet file image.
func Decode(data []byte, opts ...nn.Option) (*nn.Network, error) {
	if len(data) < len(MagicBytes) || string(data[:len(MagicBytes)]) != MagicBytes {
		return nil, ErrInvalidMagic
	}
	payload, stored, err := splitChecksum(data)
	if err != nil {
		return nil, err
	}
	if version := order.Uint32(payload[4:8]); version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	if err := ValidateChecksum(ComputeChecksum(payload), stored); err != nil {
		return nil, err
	}

	c := &cursor{data: payload, pos: 8}
	count, err := c.uint32()
	if err != nil {
		return nil, err
	}
	if count > MaxStageCount {
		return nil, fmt.Errorf("%w: %d", ErrTooManyStages, count)
	}

	kinds, err := c.bytes(int(count))
	if err != nil {
		return nil, err
	}
	var affinePositions []int
	for i, k := range kinds {
		switch nn.Kind(k) {
		case nn.KindAffine:
			affinePositions = append(affinePositions, i)
		case nn.KindRectify, nn.KindNormalize:
		default:
			return nil, fmt.Errorf("%w: stage %d has kind %d", nn.ErrUnknownKind, i, k)
		}
	}

	weights := make([]*matrix.Matrix, len(affinePositions))
	for i := range weights {
		if weights[i], err = c.matrix(true); err != nil {
			return nil, fmt.Errorf("weight %d: %w", i, err)
		}
	}
	biases := make([]*matrix.Matrix, len(affinePositions))
	for i := range biases {
		if biases[i], err = c.matrix(false); err != nil {
			return nil, fmt.Errorf("bias %d: %w", i, err)
		}
	}
	stored32 := make([]int, len(affinePositions))
	for i := range stored32 {
		p, err := c.uint32()
		if err != nil {
			return nil, err
		}
		stored32[i] = int(p)
	}
	if err := validatePositions(stored32, affinePositions); err != nil {
		return nil, err
	}

	h, err := c.hyper()
	if err != nil {
		return nil, err
	}
	if c.pos != len(c.data) {
		return nil, &ValidationError{
			Type:    "trailing_data",
			Details: fmt.Sprintf("%d unread bytes", len(c.data)-c.pos),
		}
	}

	stages := make([]nn.Stage, len(kinds))
	affine := 0
	for i, k := range kinds {
		switch nn.Kind(k) {
		case nn.KindAffine:
			d, err := nn.DenseFrom(weights[affine], biases[affine])
			if err != nil {
				return nil, err
			}
			stages[i] = d
			affine++
		case nn.KindRectify:
			stages[i] = nn.ReLU{}
		case nn.KindNormalize:
			stages[i] = nn.Softmax{}
		}
	}
	return nn.FromStages(h, stages, opts...)
}

// LoadFile reads a network from path.
func LoadFile(path string, opts ...nn.Option) (*nn.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	net, err := Load(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return net, nil
}

// LoadFileIfExists reads a network from path. A missing file is not an
// error: it returns ok=false so the caller can build a default network.
func LoadFileIfExists(path string, opts ...nn.Option) (net *nn.Network, ok bool, err error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	net, err = LoadFile(path, opts...)
	if err != nil {
		return nil, false, err
	}
	return net, true, nil
}

// cursor reads little-endian values from a byte slice.
type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, ErrTruncated
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) uint32() (uint32, error) {
	b, err := c.bytes(4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(b), nil
}

func (c *cursor) float64() (float64, error) {
	b, err := c.bytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(order.Uint64(b)), nil
}

// matrix reads rows, cols (or 1 when withCols is false) and the values.
func (c *cursor) matrix(withCols bool) (*matrix.Matrix, error) {
	rows, err := c.uint32()
	if err != nil {
		return nil, err
	}
	cols := uint32(1)
	if withCols {
		if cols, err = c.uint32(); err != nil {
			return nil, err
		}
	}
	if err := validateDims(rows, cols, len(c.data)-c.pos); err != nil {
		return nil, err
	}

	m := matrix.New(int(rows), int(cols))
	values := m.Data()
	for i := range values {
		if values[i], err = c.float64(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (c *cursor) hyper() (nn.Hyper, error) {
	var (
		h   nn.Hyper
		err error
	)
	for _, dst := range []*float64{&h.WeightScale, &h.InitialLR, &h.FinalLR} {
		if *dst, err = c.float64(); err != nil {
			return h, err
		}
	}
	epochs, err := c.uint32()
	if err != nil {
		return h, err
	}
	workers, err := c.uint32()
	if err != nil {
		return h, err
	}
	h.Epochs, h.Workers = int(epochs), int(workers)
	return h, nil
}
