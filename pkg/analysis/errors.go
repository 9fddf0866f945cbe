package analysis

import "errors"

// Common errors. Callers match these with errors.Is; the concrete error
// values returned by the engine wrap them with context.
var (
	// ErrInvalidWeight reports an edge weight that is negative or not
	// finite. Surfaced from BuildGraph and everything layered on it.
	ErrInvalidWeight = errors.New("edge weight must be non-negative and finite")

	// ErrPrecondition reports an API used out of order, such as calling
	// SetEdges on a Louvain before SetNodes.
	ErrPrecondition = errors.New("operation called out of order")

	// ErrNumericFailure reports an iterative kernel that diverged or hit
	// NaN and could not recover by re-seeding.
	ErrNumericFailure = errors.New("numeric failure in iterative kernel")

	// ErrUnknownFeature reports a requested feature name outside the
	// closed set understood by the facade.
	ErrUnknownFeature = errors.New("unknown feature")
)
