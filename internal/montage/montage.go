// Package montage renders image datasets as PNG contact sheets.
//
// Every batch becomes image<N>.png, a grid of Columns images per row, and
// labels<N>.txt holding the class of each image laid out in the same grid.
package montage

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/born-ml/densenet/internal/loader"
)

// Columns is the number of images per montage row.
const Columns = 100

// ErrNotImage is returned for datasets without image dimensions.
var ErrNotImage = errors.New("montage: dataset has no image dimensions")

// Writer writes montages of a loader's batches into a directory.
type Writer struct {
	Dir    string
	Logger *log.Logger // nil = silent
}

// Write reads every batch of data and writes its image and label files.
// It returns the number of batches written.
func (w *Writer) Write(data loader.Loader) (int, error) {
	meta, err := data.Open()
	if err != nil {
		return 0, err
	}
	defer func() { _ = data.Close() }()

	if meta.Width <= 0 || meta.Height <= 0 || meta.Width*meta.Height != meta.InputSize {
		return 0, fmt.Errorf("%w: %dx%d for %d features", ErrNotImage, meta.Width, meta.Height, meta.InputSize)
	}
	w.logf("montage dir=%s items=%d batches=%d", w.Dir, meta.Items, meta.Batches)

	written := 0
	for {
		batch, err := data.Batch()
		if errors.Is(err, io.EOF) {
			return written, nil
		}
		if err != nil {
			return written, err
		}

		imagePath := filepath.Join(w.Dir, fmt.Sprintf("image%d.png", batch.Index))
		if err := writePNG(imagePath, Render(batch, meta)); err != nil {
			return written, err
		}
		labelPath := filepath.Join(w.Dir, fmt.Sprintf("labels%d.txt", batch.Index))
		if err := writeLabels(labelPath, batch.Labels(meta), meta.OutputSize); err != nil {
			return written, err
		}
		w.logf("wrote %s %s", imagePath, labelPath)
		written++
	}
}

func (w *Writer) logf(format string, args ...any) {
	if w.Logger != nil {
		w.Logger.Printf(format, args...)
	}
}

// Render lays the batch out as a grayscale grid. Pixel values in [0, 1]
// map to [0, 255]; values outside are clamped.
func Render(batch loader.BatchData, meta loader.MetaData) *image.Gray {
	cols := min(Columns, batch.Read)
	rows := (batch.Read + Columns - 1) / Columns
	img := image.NewGray(image.Rect(0, 0, cols*meta.Width, rows*meta.Height))

	size := meta.Width * meta.Height
	for item := range batch.Read {
		x0 := (item % Columns) * meta.Width
		y0 := (item / Columns) * meta.Height
		pixels := batch.Input[item*size : (item+1)*size]
		for p, v := range pixels {
			img.SetGray(x0+p%meta.Width, y0+p/meta.Width, color.Gray{Y: toByte(v)})
		}
	}
	return img
}

func toByte(v float64) uint8 {
	return uint8(max(0, min(255, v*255)))
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// writeLabels writes one grid row per line. Single digit classes are
// written back to back, wider ones separated by spaces.
func writeLabels(path string, labels []int, classes int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	for i, label := range labels {
		if i > 0 {
			switch {
			case i%Columns == 0:
				_ = bw.WriteByte('\n')
			case classes > 10:
				_ = bw.WriteByte(' ')
			}
		}
		_, _ = bw.WriteString(strconv.Itoa(label))
	}
	_ = bw.WriteByte('\n')
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
