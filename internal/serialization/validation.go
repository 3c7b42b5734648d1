package serialization

import "fmt"

// Validation limits for resource protection against malformed files.
const (
	MaxStageCount = 1024
	MaxDimension  = 1 << 20
)

// validateDims checks a matrix header against the limits and the bytes
// that remain, before anything is allocated.
func validateDims(rows, cols uint32, remaining int) error {
	if rows == 0 || cols == 0 || rows > MaxDimension || cols > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrDimensionTooLarge, rows, cols)
	}
	if uint64(rows)*uint64(cols)*8 > uint64(remaining) {
		return fmt.Errorf("%w: %dx%d matrix needs %d bytes, %d remain",
			ErrTruncated, rows, cols, uint64(rows)*uint64(cols)*8, remaining)
	}
	return nil
}

// validatePositions checks that the stored affine positions agree with the
// kind sequence.
func validatePositions(stored, derived []int) error {
	if len(stored) != len(derived) {
		return &ValidationError{
			Type:    "position_mismatch",
			Details: fmt.Sprintf("%d positions for %d affine stages", len(stored), len(derived)),
		}
	}
	for i := range stored {
		if stored[i] != derived[i] {
			return &ValidationError{
				Type:    "position_mismatch",
				Details: fmt.Sprintf("affine stage %d stored at %d, kinds place it at %d", i, stored[i], derived[i]),
			}
		}
	}
	return nil
}
