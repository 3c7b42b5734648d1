package nn

import "errors"

// Configuration errors. They are returned before any computation runs.
var (
	ErrMissingInputSize  = errors.New("nn: first affine layer needs an explicit input size")
	ErrMissingOutputSize = errors.New("nn: affine layer needs an output size")
	ErrTooFewLayers      = errors.New("nn: at least two layer sizes are required")
	ErrMissingNormalize  = errors.New("nn: pipeline must end with a normalize stage")
	ErrUnknownKind       = errors.New("nn: unknown stage kind")
	ErrParameterShape    = errors.New("nn: inconsistent parameter shapes")
	ErrResultMismatch    = errors.New("nn: batch result does not match pipeline")
	ErrNoGradients       = errors.New("nn: batch result has no back-propagated errors")
)
