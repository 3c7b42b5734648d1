package serialization

import (
	"errors"
	"testing"
)

func TestValidateDims(t *testing.T) {
	tests := []struct {
		name      string
		rows      uint32
		cols      uint32
		remaining int
		wantErr   error
	}{
		{"fits exactly", 2, 3, 48, nil},
		{"zero rows", 0, 3, 48, ErrDimensionTooLarge},
		{"over limit", MaxDimension + 1, 1, 1 << 30, ErrDimensionTooLarge},
		{"not enough bytes", 2, 3, 47, ErrTruncated},
		{"huge product", MaxDimension, MaxDimension, 1 << 20, ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateDims(tt.rows, tt.cols, tt.remaining)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateDims(%d, %d, %d) = %v, want %v", tt.rows, tt.cols, tt.remaining, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePositions(t *testing.T) {
	if err := validatePositions([]int{0, 2}, []int{0, 2}); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}

	var vErr *ValidationError
	if err := validatePositions([]int{0, 3}, []int{0, 2}); !errors.As(err, &vErr) {
		t.Errorf("Expected *ValidationError, got: %v", err)
	}
	if err := validatePositions([]int{0}, []int{0, 2}); !errors.As(err, &vErr) {
		t.Errorf("Expected *ValidationError, got: %v", err)
	} else if vErr.Type != "position_mismatch" {
		t.Errorf("Expected position_mismatch, got %q", vErr.Type)
	}
}
