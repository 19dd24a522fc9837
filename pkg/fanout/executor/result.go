package executor

// Result holds the outcome for a single item. Failed items carry their
// error; the batch as a whole never fails because of them. Callers check
// Ok (or Err) per slot to detect partial failure.
type Result[R any] struct {
	// Value is the task's return value. Only meaningful when Err is nil.
	Value R

	// Err is the item's failure, nil on success. Panics inside the
	// task surface here as errors.
	Err error
}

// Ok reports whether the item succeeded.
func (r Result[R]) Ok() bool {
	return r.Err == nil
}

// Failures returns the indexes of failed items, in input order.
func Failures[R any](results []Result[R]) []int {
	var failed []int
	for i, r := range results {
		if !r.Ok() {
			failed = append(failed, i)
		}
	}
	return failed
}

// Values returns the successful values in input order, skipping failed
// slots. len(Values(rs)) == len(rs) - len(Failures(rs)).
func Values[R any](results []Result[R]) []R {
	values := make([]R, 0, len(results))
	for _, r := range results {
		if r.Ok() {
			values = append(values, r.Value)
		}
	}
	return values
}
