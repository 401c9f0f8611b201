package experiments

import (
	"math/rand"
	"testing"

	"github.com/unixpickle/actioncal"
	"github.com/unixpickle/anyvec/anyvec64"
)

func TestCompensatedEvaluation(t *testing.T) {
	c := anyvec64.DefaultCreator{}
	flags := &EnvFlags{
		Name:    "CartPole",
		NumEnvs: 2,
		Seed:    13,
		Distort: true,
		Gain:    0.7,
		Offset:  0.1,
	}
	env, err := MakeEnvs(c, flags)
	if err != nil {
		t.Fatal(err)
	}

	history := actioncal.NewHistory(5, env.NumEnvs(), env.ActionSize())
	evaluator := &actioncal.Evaluator{
		Agent: actioncal.NewAgent(c, env.ObsSize(), env.ActionSize()),
		IDM:   actioncal.NewInverseDynamics(c, env.ObsSize(), env.ActionSize()),
		Env:   actioncal.TrackEpisodes(env),
		Comp:  actioncal.NewCompensator(history, 0.2, env.ActionClip()),
		Rand:  rand.New(rand.NewSource(14)),
	}

	results, err := evaluator.Run()
	if err != nil {
		t.Fatal(err)
	}
	if !results.Done() || results.Count() != 2 {
		t.Fatalf("expected 2 results but got %d", results.Count())
	}
	for i := 0; i < 2; i++ {
		ret, length, ok := results.Result(i)
		if !ok || length < 1 || ret != length {
			t.Errorf("instance %d: bad result (%f, %f)", i, ret, length)
		}
	}
}
