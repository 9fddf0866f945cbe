package analysis

// ProgressFunc receives a completion fraction in [0, 1]. Kernels invoke it
// from their own goroutine with monotonically non-decreasing values; a nil
// ProgressFunc is equivalent to a no-op.
type ProgressFunc func(fraction float64)

// report clamps the fraction and forwards it to fn. Panics raised inside the
// callback are swallowed so an observer bug cannot corrupt a computation.
func (fn ProgressFunc) report(fraction float64) {
	if fn == nil {
		return
	}
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	defer func() { _ = recover() }()
	fn(fraction)
}

// scaled returns a ProgressFunc that maps this callback onto the
// [offset, offset+span] slice of an overall computation. Used by the facade
// to blend per-kernel progress into one monotone stream.
func (fn ProgressFunc) scaled(offset, span float64) ProgressFunc {
	if fn == nil {
		return nil
	}
	return func(fraction float64) {
		fn.report(offset + span*fraction)
	}
}
