package actioncal

import (
	"math"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec"
)

// A Trainer fits an inverse-dynamics model by masked MSE
// regression over minibatches produced by FlatBatch.Pair.
type Trainer struct {
	IDM *InverseDynamics

	// LearningRate for the Adam update.
	LearningRate float64

	// MaxGradNorm bounds the global gradient norm before
	// each update.
	// Zero disables clipping.
	MaxGradNorm float64

	adam *anysgd.Adam
}

// Step runs one gradient update on a minibatch and returns
// the masked MSE loss.
//
// The inputs, labels, and mask arguments are laid out as
// produced by FlatBatch.Pair for batch rows.
func (t *Trainer) Step(inputs, labels, mask []float64, batch int) float64 {
	params := t.IDM.Parameters()
	c := params[0].Vector.Creator()

	inVec := anydiff.NewConst(floatsToVec(c, inputs))
	labelVec := anydiff.NewConst(floatsToVec(c, labels))
	maskVec := anydiff.NewConst(floatsToVec(c, mask))

	pred := t.IDM.Net.Apply(inVec, batch)
	maskedPred := anydiff.Mul(pred, maskVec)
	maskedLabel := anydiff.Mul(labelVec, maskVec)
	costs := anynet.MSE{}.Cost(maskedLabel, maskedPred, batch)
	cost := anydiff.Scale(anydiff.Sum(costs), c.MakeNumeric(1/float64(batch)))

	grad := anydiff.NewGrad(params...)
	cost.Propagate(anyvec.Ones(c, 1), grad)
	clipGradNorm(grad, t.MaxGradNorm)

	if t.adam == nil {
		t.adam = &anysgd.Adam{}
	}
	scaled := t.adam.Transform(grad)
	scaled.Scale(c.MakeNumeric(-t.LearningRate))
	scaled.AddToVars()

	return numToFloat(anyvec.Sum(cost.Output()))
}

// clipGradNorm rescales grad so that its global L2 norm is
// at most max.
func clipGradNorm(grad anydiff.Grad, max float64) {
	if max <= 0 {
		return
	}
	var sqSum float64
	var c anyvec.Creator
	for _, vec := range grad {
		c = vec.Creator()
		sqSum += numToFloat(vec.Dot(vec))
	}
	norm := math.Sqrt(sqSum)
	if norm <= max || norm == 0 {
		return
	}
	grad.Scale(c.MakeNumeric(max / norm))
}
