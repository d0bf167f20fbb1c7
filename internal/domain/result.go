package domain

// Result carries the outcome of one item in a multi-item operation.
// Exactly one of Value or Err is meaningful.
type Result[T any] struct {
	Key   string
	Value T
	Err   error
}

func (r Result[T]) OK() bool { return r.Err == nil }

// Succeeded returns the values of the successful results, preserving order.
func Succeeded[T any](results []Result[T]) []T {
	out := make([]T, 0, len(results))
	for _, r := range results {
		if r.OK() {
			out = append(out, r.Value)
		}
	}
	return out
}
