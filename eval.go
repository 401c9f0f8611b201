package actioncal

import (
	"math/rand"

	"github.com/unixpickle/essentials"
)

// An Evaluator runs a fixed policy until every environment
// instance has completed one episode, compensating the
// policy's actions online.
//
// Per step, the inverse-dynamics model estimates the
// action that actually took effect, the estimate is paired
// with the action that was sent, and each instance's
// affine correction is refit on the updated window.
// An instance's correction is only applied once its window
// holds at least one step; before that, the raw policy
// action is sent unmodified.
type Evaluator struct {
	Agent *Agent
	IDM   *InverseDynamics
	Env   *EpisodeTracker
	Comp  *Compensator

	// Rand is the source for action sampling.
	// If nil, the shared global source is used.
	Rand *rand.Rand

	// StepHook, if non-nil, runs after every simulation
	// step with the number of steps taken so far and the
	// number of instances that have finished.
	StepHook func(steps, completed int)
}

// Run evaluates until every instance has one recorded
// episode result.
func (e *Evaluator) Run() (*ResultSet, error) {
	numEnvs := e.Env.NumEnvs()
	results := NewResultSet(numEnvs)

	obs, err := e.Env.Reset()
	if err != nil {
		return nil, essentials.AddCtx("evaluate", err)
	}

	steps := 0
	for !results.Done() {
		actions := vecToFloats(e.Agent.Actions(obs, numEnvs, e.Rand))
		clipSlice(actions, e.Env.ActionClip())
		actions = e.Comp.Apply(actions)

		prevObs := obs
		var dones []float64
		actionVec := floatsToVec(obs.Creator(), actions)
		obs, _, dones, err = e.Env.Step(actionVec)
		if err != nil {
			return nil, essentials.AddCtx("evaluate", err)
		}

		predicted := e.IDM.Predict(prevObs, obs, numEnvs)
		e.Comp.Observe(vecToFloats(predicted), actions)

		for i, d := range dones {
			if d == 0 {
				continue
			}
			if results.Record(i, e.Env.LastReturn(i), e.Env.LastLength(i)) {
				if sm, ok := e.Env.Env.(SuccessMetric); ok {
					results.RecordSuccess(i, sm.ConsecutiveSuccesses()[i])
				}
			}
		}

		steps++
		if e.StepHook != nil {
			e.StepHook(steps, results.Count())
		}
	}
	return results, nil
}
