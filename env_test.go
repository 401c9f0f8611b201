package actioncal

import (
	"testing"

	"github.com/unixpickle/anyrl"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec64"
)

// countEnv is a single instance whose observation counts
// the steps in the current episode.
type countEnv struct {
	creator    anyvec.Creator
	episodeLen int
	count      int
	lastAction float64
}

func (c *countEnv) Reset() ([]float64, error) {
	c.count = 0
	return c.observation(), nil
}

func (c *countEnv) Step(action []float64) ([]float64, float64, bool, error) {
	c.lastAction = action[0]
	c.count++
	done := c.count >= c.episodeLen
	return c.observation(), 2, done, nil
}

func (c *countEnv) observation() []float64 {
	return []float64{float64(c.count)}
}

func TestBatchEnvAutoReset(t *testing.T) {
	c := anyvec64.DefaultCreator{}
	first := &countEnv{creator: c, episodeLen: 2}
	second := &countEnv{creator: c, episodeLen: 3}
	env, err := Vectorize(c, 1, 1, 1, []anyrl.Env{first, second})
	if err != nil {
		t.Fatal(err)
	}

	obs, err := env.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if data := vecToFloats(obs); data[0] != 0 || data[1] != 0 {
		t.Errorf("bad initial observations: %v", data)
	}

	actions := floatsToVec(c, []float64{0.5, -0.5})
	var dones []float64
	for step := 1; step <= 2; step++ {
		obs, _, dones, err = env.Step(actions)
		if err != nil {
			t.Fatal(err)
		}
	}
	if dones[0] != 1 || dones[1] != 0 {
		t.Errorf("bad done flags after step 2: %v", dones)
	}
	// Instance 0 was reset, so its observation belongs to
	// the new episode.
	if data := vecToFloats(obs); data[0] != 0 || data[1] != 2 {
		t.Errorf("bad observations after auto-reset: %v", data)
	}
	if first.lastAction != 0.5 || second.lastAction != -0.5 {
		t.Errorf("bad action routing: %f, %f", first.lastAction, second.lastAction)
	}
}

func TestEpisodeTracker(t *testing.T) {
	c := anyvec64.DefaultCreator{}
	single := &countEnv{creator: c, episodeLen: 2}
	env, err := Vectorize(c, 1, 1, 1, []anyrl.Env{single})
	if err != nil {
		t.Fatal(err)
	}
	tracker := TrackEpisodes(env)
	if _, err := tracker.Reset(); err != nil {
		t.Fatal(err)
	}

	actions := floatsToVec(c, []float64{0})
	var dones []float64
	for step := 1; step <= 2; step++ {
		_, _, dones, err = tracker.Step(actions)
		if err != nil {
			t.Fatal(err)
		}
	}
	if dones[0] != 1 {
		t.Fatal("episode did not end")
	}
	if tracker.LastReturn(0) != 4 || tracker.LastLength(0) != 2 {
		t.Errorf("bad episode stats: return=%f length=%f",
			tracker.LastReturn(0), tracker.LastLength(0))
	}

	// The accumulators restart for the next episode.
	if _, _, _, err := tracker.Step(actions); err != nil {
		t.Fatal(err)
	}
	if tracker.LastReturn(0) != 2 || tracker.LastLength(0) != 1 {
		t.Errorf("accumulators not reset: return=%f length=%f",
			tracker.LastReturn(0), tracker.LastLength(0))
	}
}
