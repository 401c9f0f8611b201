package experiments

import (
	"math"
	"testing"

	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec64"
)

func floatsToTestVec(c anyvec.Creator, data []float64) anyvec.Vector {
	return c.MakeVectorData(c.MakeNumericList(data))
}

func TestPendulumEpisodeLength(t *testing.T) {
	c := anyvec64.DefaultCreator{}
	env := NewPendulum(c, 9)
	obs, err := env.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if obs.Len() != pendulumObsSize {
		t.Fatalf("expected %d observation components but got %d",
			pendulumObsSize, obs.Len())
	}

	action := floatsToTestVec(c, []float64{0})
	for step := 1; step <= pendulumMaxSteps; step++ {
		_, reward, done, err := env.Step(action)
		if err != nil {
			t.Fatal(err)
		}
		if reward > 0 {
			t.Fatalf("expected non-positive reward but got %f", reward)
		}
		if done != (step == pendulumMaxSteps) {
			t.Fatalf("bad done flag at step %d", step)
		}
	}
}

func TestPendulumUprightCounter(t *testing.T) {
	c := anyvec64.DefaultCreator{}
	env := NewPendulum(c, 10)
	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	// Hold the pendulum exactly upright with no velocity:
	// gravity exerts no torque there, so it stays and the
	// counter grows.
	env.theta = 0
	env.thetaDot = 0

	action := floatsToTestVec(c, []float64{0})
	for i := 0; i < 5; i++ {
		if _, _, _, err := env.Step(action); err != nil {
			t.Fatal(err)
		}
	}
	if env.Upright() != 5 {
		t.Errorf("expected 5 upright steps but got %f", env.Upright())
	}

	// A hard kick breaks the streak.
	env.thetaDot = pendulumMaxSpeed
	for i := 0; i < 3; i++ {
		if _, _, _, err := env.Step(action); err != nil {
			t.Fatal(err)
		}
	}
	if env.Upright() >= 5 {
		t.Errorf("upright streak did not reset: %f", env.Upright())
	}
}

func TestPendulumLastUpright(t *testing.T) {
	c := anyvec64.DefaultCreator{}
	env := NewPendulum(c, 13)
	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	env.theta = 0
	env.thetaDot = 0
	env.steps = pendulumMaxSteps - 3

	action := floatsToTestVec(c, []float64{0})
	for i := 0; i < 3; i++ {
		_, _, done, err := env.Step(action)
		if err != nil {
			t.Fatal(err)
		}
		if done != (i == 2) {
			t.Fatalf("bad done flag on step %d", i)
		}
	}
	if env.Upright() != 3 || env.LastUpright() != 3 {
		t.Fatalf("expected a streak of 3 but got %f (latched %f)",
			env.Upright(), env.LastUpright())
	}

	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	if env.Upright() != 0 {
		t.Errorf("live streak not cleared by reset: %f", env.Upright())
	}
	if env.LastUpright() != 3 {
		t.Errorf("latched streak lost on reset: %f", env.LastUpright())
	}
}

func TestAngleNormalize(t *testing.T) {
	cases := map[float64]float64{
		0:               0,
		math.Pi / 2:     math.Pi / 2,
		2 * math.Pi:     0,
		-math.Pi - 0.1:  math.Pi - 0.1,
		3 * math.Pi / 2: -math.Pi / 2,
	}
	for in, expected := range cases {
		if actual := angleNormalize(in); math.Abs(actual-expected) > 1e-9 {
			t.Errorf("normalize(%f): expected %f but got %f", in, expected, actual)
		}
	}
}
