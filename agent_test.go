package actioncal

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/anyvec/anyvec64"
)

func TestAgentActionShape(t *testing.T) {
	c := anyvec64.DefaultCreator{}
	agent := NewAgent(c, 3, 2)
	obs := floatsToVec(c, []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6})
	actions := agent.Actions(obs, 2, rand.New(rand.NewSource(5)))
	if actions.Len() != 4 {
		t.Errorf("expected 4 action components but got %d", actions.Len())
	}
}

func TestAgentCheckpoint(t *testing.T) {
	c := anyvec32.CurrentCreator()
	agent := NewAgent(c, 3, 2)
	obs := floatsToVec(c, []float64{0.1, -0.2, 0.3})
	expected := vecToFloats(agent.MeanActions(obs, 1))

	path := filepath.Join(t.TempDir(), "agent")
	if err := agent.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadAgent(path)
	if err != nil {
		t.Fatal(err)
	}

	actual := vecToFloats(loaded.MeanActions(obs, 1))
	for i, x := range actual {
		if x != expected[i] {
			t.Errorf("output %d: expected %f but got %f", i, expected[i], x)
		}
	}
}

func TestInverseDynamicsCheckpoint(t *testing.T) {
	c := anyvec32.CurrentCreator()
	idm := NewInverseDynamics(c, 2, 1)
	prev := floatsToVec(c, []float64{0.1, -0.2})
	next := floatsToVec(c, []float64{0.3, 0.4})
	expected := vecToFloats(idm.Predict(prev, next, 1))

	path := filepath.Join(t.TempDir(), "idm")
	if err := idm.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadInverseDynamics(path)
	if err != nil {
		t.Fatal(err)
	}

	actual := vecToFloats(loaded.Predict(prev, next, 1))
	for i, x := range actual {
		if x != expected[i] {
			t.Errorf("output %d: expected %f but got %f", i, expected[i], x)
		}
	}
}
