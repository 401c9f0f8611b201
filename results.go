package actioncal

import "gonum.org/v1/gonum/stat"

// A ResultSet records exactly one episode result per
// environment instance.
//
// The first completed episode wins: later completions for
// an instance that already has a result are ignored, so
// that every instance contributes one episode from the
// same initial state distribution.
type ResultSet struct {
	returns   []float64
	lengths   []float64
	successes []float64
	recorded  []bool

	hasSuccess bool
	count      int
}

// NewResultSet creates an empty table for numEnvs
// instances.
func NewResultSet(numEnvs int) *ResultSet {
	return &ResultSet{
		returns:   make([]float64, numEnvs),
		lengths:   make([]float64, numEnvs),
		successes: make([]float64, numEnvs),
		recorded:  make([]bool, numEnvs),
	}
}

// Record stores the result for an instance if it has none
// yet, reporting whether the result was stored.
func (r *ResultSet) Record(env int, episodicReturn, episodicLength float64) bool {
	if r.recorded[env] {
		return false
	}
	r.recorded[env] = true
	r.returns[env] = episodicReturn
	r.lengths[env] = episodicLength
	r.count++
	return true
}

// RecordSuccess attaches a success metric to an instance's
// result.
func (r *ResultSet) RecordSuccess(env int, successes float64) {
	r.successes[env] = successes
	r.hasSuccess = true
}

// Count returns the number of recorded results.
func (r *ResultSet) Count() int {
	return r.count
}

// NumEnvs returns the table size.
func (r *ResultSet) NumEnvs() int {
	return len(r.recorded)
}

// Done reports whether every instance has a result.
func (r *ResultSet) Done() bool {
	return r.count == len(r.recorded)
}

// Result returns an instance's recorded return and length.
func (r *ResultSet) Result(env int) (episodicReturn, episodicLength float64, ok bool) {
	if !r.recorded[env] {
		return 0, 0, false
	}
	return r.returns[env], r.lengths[env], true
}

// Returns lists the recorded returns in instance order.
func (r *ResultSet) Returns() []float64 {
	return r.values(r.returns)
}

// Lengths lists the recorded lengths in instance order.
func (r *ResultSet) Lengths() []float64 {
	return r.values(r.lengths)
}

// Successes lists the recorded success metrics in instance
// order, or false if none were recorded.
func (r *ResultSet) Successes() ([]float64, bool) {
	if !r.hasSuccess {
		return nil, false
	}
	return r.values(r.successes), true
}

// ReturnStats returns the mean and population standard
// deviation of the recorded returns.
func (r *ResultSet) ReturnStats() (mean, std float64) {
	return meanStd(r.Returns())
}

// LengthStats is like ReturnStats for episode lengths.
func (r *ResultSet) LengthStats() (mean, std float64) {
	return meanStd(r.Lengths())
}

// SuccessStats is like ReturnStats for the success metric.
func (r *ResultSet) SuccessStats() (mean, std float64, ok bool) {
	vals, ok := r.Successes()
	if !ok {
		return 0, 0, false
	}
	mean, std = meanStd(vals)
	return mean, std, true
}

func (r *ResultSet) values(all []float64) []float64 {
	var res []float64
	for i, v := range all {
		if r.recorded[i] {
			res = append(res, v)
		}
	}
	return res
}

func meanStd(vals []float64) (mean, std float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	return stat.Mean(vals, nil), stat.PopStdDev(vals, nil)
}
