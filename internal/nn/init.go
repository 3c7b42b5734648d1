package nn

import (
	"math/rand"

	"github.com/born-ml/densenet/internal/matrix"
)

// Normal creates a rows×cols matrix with values drawn from N(0, scale²).
//
// Parameters:
//   - rows, cols: Shape of the matrix
//   - scale: Standard deviation of the distribution
//   - rng: Source of randomness
//
// Returns the initialized matrix.
func Normal(rows, cols int, scale float64, rng *rand.Rand) *matrix.Matrix {
	return matrix.Generate(rows, cols, func(int) float64 {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		return scale * rng.NormFloat64()
	})
}
