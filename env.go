// Package actioncal trains and applies inverse-dynamics
// models for action calibration in continuous-control
// environments.
//
// An inverse-dynamics model predicts the action that was
// executed between two consecutive observations.
// At evaluation time, the model serves as a sensor for
// actuator bias: an online least-squares fit maps the
// actions a policy intends to the actions that actually
// took effect, and the inverse of that bias is blended
// into future actions.
package actioncal

import (
	"errors"

	"github.com/unixpickle/anyrl"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
)

// An Env is a batch of environment instances stepping in
// lockstep.
//
// Observations and actions are packed one row per
// instance.
// An instance that finishes an episode is reset right
// away, so the observation in its row already belongs to
// the fresh episode.
type Env interface {
	// Reset starts every instance over.
	Reset() (anyvec.Vector, error)

	// Step advances every instance by one tick.
	//
	// The rewards and dones slices contain one entry per
	// instance; a done entry is 1 if that instance's
	// episode ended on this tick, and 0 otherwise.
	Step(actions anyvec.Vector) (obs anyvec.Vector, rewards,
		dones []float64, err error)

	NumEnvs() int
	ObsSize() int
	ActionSize() int

	// ActionClip is the symmetric actuator bound: valid
	// action components lie in [-ActionClip, ActionClip].
	ActionClip() float64
}

// A SuccessMetric is implemented by environments that
// track an auxiliary success measure alongside rewards.
type SuccessMetric interface {
	// ConsecutiveSuccesses returns each instance's success
	// counter as of its most recent step.
	//
	// The values must survive the automatic reset of a
	// finished instance: right after a step on which an
	// instance's episode ended, its entry is the completed
	// episode's final counter.
	ConsecutiveSuccesses() []float64
}

// A BatchEnv is an Env backed by individual anyrl.Env
// instances.
type BatchEnv struct {
	creator    anyvec.Creator
	envs       []anyrl.Env
	obsSize    int
	actionSize int
	clip       float64
}

// Vectorize batches a set of single environment instances
// into one Env.
//
// All instances must share the observation size, action
// size, and actuator bound that are passed in.
func Vectorize(c anyvec.Creator, obsSize, actionSize int, clip float64,
	envs []anyrl.Env) (*BatchEnv, error) {
	if len(envs) == 0 {
		return nil, errors.New("vectorize: need at least one environment")
	}
	return &BatchEnv{
		creator:    c,
		envs:       envs,
		obsSize:    obsSize,
		actionSize: actionSize,
		clip:       clip,
	}, nil
}

// NumEnvs returns the number of batched instances.
func (b *BatchEnv) NumEnvs() int {
	return len(b.envs)
}

// ObsSize returns the per-instance observation size.
func (b *BatchEnv) ObsSize() int {
	return b.obsSize
}

// ActionSize returns the per-instance action size.
func (b *BatchEnv) ActionSize() int {
	return b.actionSize
}

// ActionClip returns the symmetric actuator bound.
func (b *BatchEnv) ActionClip() float64 {
	return b.clip
}

// Reset resets every instance and returns the packed
// initial observations.
func (b *BatchEnv) Reset() (anyvec.Vector, error) {
	joined := make([]float64, 0, len(b.envs)*b.obsSize)
	for _, env := range b.envs {
		obs, err := env.Reset()
		if err != nil {
			return nil, essentials.AddCtx("reset batch", err)
		}
		if len(obs) != b.obsSize {
			return nil, errors.New("reset batch: bad observation size")
		}
		joined = append(joined, obs...)
	}
	return b.creator.MakeVectorData(b.creator.MakeNumericList(joined)), nil
}

// Step steps every instance with its row of the action
// batch.
// Instances whose episodes end are reset immediately.
func (b *BatchEnv) Step(actions anyvec.Vector) (anyvec.Vector, []float64,
	[]float64, error) {
	if actions.Len() != len(b.envs)*b.actionSize {
		return nil, nil, nil, errors.New("step batch: bad action size")
	}
	actData := vecToFloats(actions)
	joined := make([]float64, 0, len(b.envs)*b.obsSize)
	rewards := make([]float64, len(b.envs))
	dones := make([]float64, len(b.envs))
	for i, env := range b.envs {
		row := actData[i*b.actionSize : (i+1)*b.actionSize]
		obs, reward, done, err := env.Step(row)
		if err != nil {
			return nil, nil, nil, essentials.AddCtx("step batch", err)
		}
		rewards[i] = reward
		if done {
			dones[i] = 1
			obs, err = env.Reset()
			if err != nil {
				return nil, nil, nil, essentials.AddCtx("step batch", err)
			}
		}
		joined = append(joined, obs...)
	}
	obs := b.creator.MakeVectorData(b.creator.MakeNumericList(joined))
	return obs, rewards, dones, nil
}

// An EpisodeTracker accumulates per-instance episodic
// returns and lengths for an Env.
type EpisodeTracker struct {
	Env

	returns []float64
	lengths []float64

	lastReturns []float64
	lastLengths []float64
}

// TrackEpisodes wraps an Env with episode statistics.
func TrackEpisodes(env Env) *EpisodeTracker {
	n := env.NumEnvs()
	return &EpisodeTracker{
		Env:         env,
		returns:     make([]float64, n),
		lengths:     make([]float64, n),
		lastReturns: make([]float64, n),
		lastLengths: make([]float64, n),
	}
}

// Reset resets the wrapped Env and zeroes the statistics.
func (e *EpisodeTracker) Reset() (anyvec.Vector, error) {
	obs, err := e.Env.Reset()
	if err != nil {
		return nil, err
	}
	for i := range e.returns {
		e.returns[i] = 0
		e.lengths[i] = 0
		e.lastReturns[i] = 0
		e.lastLengths[i] = 0
	}
	return obs, nil
}

// Step steps the wrapped Env and updates the statistics.
func (e *EpisodeTracker) Step(actions anyvec.Vector) (anyvec.Vector,
	[]float64, []float64, error) {
	obs, rewards, dones, err := e.Env.Step(actions)
	if err != nil {
		return nil, nil, nil, err
	}
	for i, r := range rewards {
		e.returns[i] += r
		e.lengths[i]++
		e.lastReturns[i] = e.returns[i]
		e.lastLengths[i] = e.lengths[i]
		if dones[i] > 0 {
			e.returns[i] = 0
			e.lengths[i] = 0
		}
	}
	return obs, rewards, dones, nil
}

// LastReturn returns the episodic return of instance i as
// of its most recent step.
// Right after a step on which i's episode ended, this is
// the completed episode's total return.
func (e *EpisodeTracker) LastReturn(i int) float64 {
	return e.lastReturns[i]
}

// LastLength is like LastReturn for episode lengths.
func (e *EpisodeTracker) LastLength(i int) float64 {
	return e.lastLengths[i]
}
