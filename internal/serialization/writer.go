package serialization

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/born-ml/densenet/internal/matrix"
	"github.com/born-ml/densenet/internal/nn"
)

// Save writes net to w in .dnet format.
//
// The parameters are snapshotted under the network's read lock, so Save may
// run while other goroutines train the network.
func Save(w io.Writer, net *nn.Network) error {
	stages := net.Snapshot()
	if len(stages) > MaxStageCount {
		return fmt.Errorf("%w: %d", ErrTooManyStages, len(stages))
	}

	var buf bytes.Buffer
	buf.WriteString(MagicBytes)
	buf.Write(order.AppendUint32(nil, FormatVersion))
	buf.Write(order.AppendUint32(nil, uint32(len(stages))))

	var (
		affine    []*nn.Dense
		positions []int
	)
	for i, s := range stages {
		buf.WriteByte(byte(s.Kind()))
		if d, ok := s.(*nn.Dense); ok {
			affine = append(affine, d)
			positions = append(positions, i)
		}
	}

	for _, d := range affine {
		writeMatrix(&buf, d.Weight, true)
	}
	for _, d := range affine {
		writeMatrix(&buf, d.Bias, false)
	}
	for _, p := range positions {
		buf.Write(order.AppendUint32(nil, uint32(p)))
	}

	h := net.Hyper()
	for _, v := range []float64{h.WeightScale, h.InitialLR, h.FinalLR} {
		buf.Write(order.AppendUint64(nil, math.Float64bits(v)))
	}
	buf.Write(order.AppendUint32(nil, uint32(h.Epochs)))
	buf.Write(order.AppendUint32(nil, uint32(h.Workers)))

	checksum := ComputeChecksum(buf.Bytes())
	buf.Write(checksum[:])

	_, err := buf.WriteTo(w)
	return err
}

// writeMatrix writes rows, optionally cols, then the row-major values.
func writeMatrix(buf *bytes.Buffer, m *matrix.Matrix, withCols bool) {
	buf.Write(order.AppendUint32(nil, uint32(m.Rows())))
	if withCols {
		buf.Write(order.AppendUint32(nil, uint32(m.Cols())))
	}
	data := make([]byte, 0, 8*m.Len())
	for _, v := range m.Data() {
		data = order.AppendUint64(data, math.Float64bits(v))
	}
	buf.Write(data)
}

// SaveFile writes net to path. The data goes to a temporary file in the same
// directory which is renamed over path, so a failed save leaves any existing
// file intact.
func SaveFile(path string, net *nn.Network) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := Save(tmp, net); err != nil {
		return &IOError{Op: "write", Path: tmpName, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &IOError{Op: "sync", Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: "close", Path: tmpName, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
