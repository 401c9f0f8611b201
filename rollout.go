package actioncal

import (
	"math/rand"

	"github.com/unixpickle/anyvec"
)

// A RolloutBuffer stores a fixed policy's trajectory
// through a batch of environment instances, one batched
// entry per timestep.
//
// The done flags recorded with a timestep mark rows whose
// observation begins a fresh episode, i.e. the instance
// was reset on the previous tick.
type RolloutBuffer struct {
	numEnvs    int
	obsSize    int
	actionSize int

	obs     [][]float64
	actions [][]float64
	dones   [][]float64
}

// NewRolloutBuffer creates an empty buffer.
func NewRolloutBuffer(numEnvs, obsSize, actionSize int) *RolloutBuffer {
	return &RolloutBuffer{
		numEnvs:    numEnvs,
		obsSize:    obsSize,
		actionSize: actionSize,
	}
}

// NumSteps returns the number of recorded timesteps.
func (r *RolloutBuffer) NumSteps() int {
	return len(r.obs)
}

// Reset discards the stored trajectory.
func (r *RolloutBuffer) Reset() {
	r.obs = r.obs[:0]
	r.actions = r.actions[:0]
	r.dones = r.dones[:0]
}

// Append records one timestep: the batched observations,
// the actions sampled from them, and the flags marking
// which observation rows are fresh resets.
func (r *RolloutBuffer) Append(obs, actions anyvec.Vector, dones []float64) {
	if obs.Len() != r.numEnvs*r.obsSize ||
		actions.Len() != r.numEnvs*r.actionSize ||
		len(dones) != r.numEnvs {
		panic("rollout buffer: bad step size")
	}
	r.obs = append(r.obs, append([]float64{}, vecToFloats(obs)...))
	r.actions = append(r.actions, append([]float64{}, vecToFloats(actions)...))
	r.dones = append(r.dones, append([]float64{}, dones...))
}

// A FlatBatch is a time-major flattening of a rollout:
// flat row t*NumEnvs+i holds instance i at timestep t.
type FlatBatch struct {
	NumEnvs    int
	ObsSize    int
	ActionSize int

	Obs     []float64
	Actions []float64
	Dones   []float64
}

// Flatten lays the buffer out time-major.
// The stored actions are clipped to the given actuator
// bound so that regression labels match what the simulator
// executed.
func (r *RolloutBuffer) Flatten(clip float64) *FlatBatch {
	batch := &FlatBatch{
		NumEnvs:    r.numEnvs,
		ObsSize:    r.obsSize,
		ActionSize: r.actionSize,
	}
	for t := range r.obs {
		batch.Obs = append(batch.Obs, r.obs[t]...)
		batch.Actions = append(batch.Actions, r.actions[t]...)
		batch.Dones = append(batch.Dones, r.dones[t]...)
	}
	clipSlice(batch.Actions, clip)
	return batch
}

// NumRows returns the number of flat rows.
func (b *FlatBatch) NumRows() int {
	return len(b.Dones)
}

// SampleIndices returns a permutation of the flat rows
// that have a valid same-instance successor.
//
// Rows in the final timestep are excluded: their successor
// lies outside the rollout, so the final flat index can
// never be sampled.
func (b *FlatBatch) SampleIndices(rng *rand.Rand) []int {
	n := b.NumRows() - b.NumEnvs
	if n <= 0 {
		return nil
	}
	return rng.Perm(n)
}

// Minibatches splits sampled indices into at most n
// contiguous chunks that together cover every index.
//
// The chunks all have the same size except that the last
// one absorbs the remainder.
// An empty index set yields no chunks.
func Minibatches(indices []int, n int) [][]int {
	if len(indices) == 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	size := (len(indices) + n - 1) / n
	var res [][]int
	for start := 0; start < len(indices); start += size {
		end := start + size
		if end > len(indices) {
			end = len(indices)
		}
		res = append(res, indices[start:end])
	}
	return res
}

// Pair assembles training arrays for a minibatch of flat
// row indices: concatenated (obs, next obs) inputs, the
// executed actions as labels, and a 0/1 mask with one
// entry per label component.
//
// A sample whose successor observation follows a reset
// is masked to zero; it would otherwise ask the model to
// explain a transition no action produced.
func (b *FlatBatch) Pair(indices []int) (inputs, labels, mask []float64) {
	for _, idx := range indices {
		next := idx + b.NumEnvs
		inputs = append(inputs, b.Obs[idx*b.ObsSize:(idx+1)*b.ObsSize]...)
		inputs = append(inputs, b.Obs[next*b.ObsSize:(next+1)*b.ObsSize]...)
		labels = append(labels, b.Actions[idx*b.ActionSize:(idx+1)*b.ActionSize]...)
		m := 1.0
		if b.Dones[next] > 0.5 {
			m = 0
		}
		for j := 0; j < b.ActionSize; j++ {
			mask = append(mask, m)
		}
	}
	return
}
