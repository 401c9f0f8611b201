package actioncal

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// A Compensator corrects systematic actuator bias by
// mapping each environment instance's intended action
// through an affine transform fitted from recent history.
//
// The transform for an instance is refit from scratch on
// every step using the full window; with few samples the
// fit can be rank-deficient, in which case the minimum
// norm solution is used.
type Compensator struct {
	History *History

	// Blend is the weight given to the corrected action
	// when mixing it with the raw action.
	Blend float64

	// Clip bounds the components of blended actions.
	Clip float64

	mats   []*mat.Dense
	biases [][]float64
	fitted []bool
}

// NewCompensator creates a Compensator with no fitted
// transforms.
func NewCompensator(history *History, blend, clip float64) *Compensator {
	n := history.NumEnvs()
	return &Compensator{
		History: history,
		Blend:   blend,
		Clip:    clip,
		mats:    make([]*mat.Dense, n),
		biases:  make([][]float64, n),
		fitted:  make([]bool, n),
	}
}

// Observe appends one step of history and refits every
// instance's transform on the updated window.
//
// The predicted and executed slices are packed one row per
// instance, like the History the Compensator was built
// around.
func (co *Compensator) Observe(predicted, executed []float64) {
	co.History.Append(predicted, executed)
	for i := range co.fitted {
		co.refit(i)
	}
}

// Fitted reports whether instance env has a transform yet.
func (co *Compensator) Fitted(env int) bool {
	return co.fitted[env]
}

// Transform returns instance env's fitted matrix and bias.
// The matrix maps predicted actions to executed actions:
// row j holds the input weights for output component j.
//
// It returns false if no transform has been fitted.
func (co *Compensator) Transform(env int) (*mat.Dense, []float64, bool) {
	if !co.fitted[env] {
		return nil, nil, false
	}
	return co.mats[env], co.biases[env], true
}

// Apply corrects a batch of actions, one row per instance,
// and returns the result.
//
// Rows belonging to instances with no fitted transform are
// returned unchanged; corrected rows are blended with the
// raw row and clipped.
func (co *Compensator) Apply(actions []float64) []float64 {
	d := co.History.ActionSize()
	out := append([]float64{}, actions...)
	for env := range co.fitted {
		if !co.fitted[env] {
			continue
		}
		row := out[env*d : (env+1)*d]
		corrected := make([]float64, d)
		for j := 0; j < d; j++ {
			v := co.biases[env][j]
			for k := 0; k < d; k++ {
				v += co.mats[env].At(j, k) * row[k]
			}
			corrected[j] = v
		}
		for j := range row {
			blended := (1-co.Blend)*row[j] + co.Blend*corrected[j]
			row[j] = math.Max(-co.Clip, math.Min(co.Clip, blended))
		}
	}
	return out
}

// refit solves the ordinary least-squares problem mapping
// instance env's predicted actions to its executed actions
// over the current window.
func (co *Compensator) refit(env int) {
	pred, exec := co.History.EnvRows(env)
	if len(pred) == 0 {
		return
	}
	n := len(pred)
	d := co.History.ActionSize()

	// Design matrix: predicted actions with a trailing
	// column of ones, so the bias is solved jointly.
	x := mat.NewDense(n, d+1, nil)
	y := mat.NewDense(n, d, nil)
	for r, row := range pred {
		for c, v := range row {
			x.Set(r, c, v)
		}
		x.Set(r, d, 1)
		for c, v := range exec[r] {
			y.Set(r, c, v)
		}
	}

	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDThin) {
		return
	}
	vals := svd.Values(nil)
	rank := 0
	tol := 1e-12 * vals[0]
	for _, v := range vals {
		if v > tol {
			rank++
		}
	}
	if rank == 0 {
		return
	}
	var params mat.Dense
	svd.SolveTo(&params, y, rank)

	// params is (d+1)xd: the first d rows map inputs to
	// outputs and the last row is the bias.
	a := mat.NewDense(d, d, nil)
	for in := 0; in < d; in++ {
		for out := 0; out < d; out++ {
			a.Set(out, in, params.At(in, out))
		}
	}
	bias := make([]float64, d)
	mat.Row(bias, d, &params)

	co.mats[env] = a
	co.biases[env] = bias
	co.fitted[env] = true
}
