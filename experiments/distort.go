package experiments

import (
	"github.com/unixpickle/anyrl"
)

// Distort wraps an environment with an affine actuator
// miscalibration: the action that actually takes effect is
// gain*action + offset.
//
// This stands in for the gap between commanded and
// realized actuation that online compensation is meant to
// cancel.
func Distort(env anyrl.Env, gain, offset float64) anyrl.Env {
	return &distortEnv{Env: env, gain: gain, offset: offset}
}

type distortEnv struct {
	anyrl.Env

	gain   float64
	offset float64
}

func (d *distortEnv) Step(action []float64) ([]float64, float64, bool, error) {
	distorted := make([]float64, len(action))
	for i, x := range action {
		distorted[i] = d.gain*x + d.offset
	}
	return d.Env.Step(distorted)
}
