package actioncal

import (
	"math"
	"testing"
)

func TestCompensatorColdStart(t *testing.T) {
	comp := NewCompensator(NewHistory(5, 2, 2), 0.2, 1)
	actions := []float64{0.3, -0.7, 0.9, 0.1}
	out := comp.Apply(actions)
	for i, x := range out {
		if x != actions[i] {
			t.Errorf("component %d: expected %f but got %f", i, actions[i], x)
		}
	}
}

func TestCompensatorScalingFit(t *testing.T) {
	// Window of identical pairs: predicted [1, 0] maps to
	// executed [2, 0].
	comp := NewCompensator(NewHistory(3, 1, 2), 1, 10)
	for i := 0; i < 3; i++ {
		comp.Observe([]float64{1, 0}, []float64{2, 0})
	}
	if !comp.Fitted(0) {
		t.Fatal("transform not fitted")
	}
	out := comp.Apply([]float64{1, 0})
	if math.Abs(out[0]-2) > 1e-6 || math.Abs(out[1]) > 1e-6 {
		t.Errorf("expected [2 0] but got %v", out)
	}
}

func TestCompensatorAffineFit(t *testing.T) {
	// y = 2x + 0 over three distinct points: the system is
	// full rank, so the fit is exact.
	comp := NewCompensator(NewHistory(5, 1, 1), 0.2, 5)
	comp.Observe([]float64{1}, []float64{2})
	comp.Observe([]float64{2}, []float64{4})
	comp.Observe([]float64{3}, []float64{6})

	a, b, ok := comp.Transform(0)
	if !ok {
		t.Fatal("transform not fitted")
	}
	if math.Abs(a.At(0, 0)-2) > 1e-8 {
		t.Errorf("expected weight 2 but got %f", a.At(0, 0))
	}
	if math.Abs(b[0]) > 1e-8 {
		t.Errorf("expected zero bias but got %f", b[0])
	}

	// Blend 0.2: raw 1 mixes with corrected 2 to 1.2.
	out := comp.Apply([]float64{1})
	if math.Abs(out[0]-1.2) > 1e-8 {
		t.Errorf("expected 1.2 but got %f", out[0])
	}
}

func TestCompensatorBiasFit(t *testing.T) {
	comp := NewCompensator(NewHistory(5, 1, 1), 1, 5)
	comp.Observe([]float64{1}, []float64{1.5})
	comp.Observe([]float64{2}, []float64{2.5})
	comp.Observe([]float64{3}, []float64{3.5})

	a, b, ok := comp.Transform(0)
	if !ok {
		t.Fatal("transform not fitted")
	}
	if math.Abs(a.At(0, 0)-1) > 1e-8 || math.Abs(b[0]-0.5) > 1e-8 {
		t.Errorf("expected weight 1 bias 0.5 but got %f, %f", a.At(0, 0), b[0])
	}
}

func TestCompensatorClip(t *testing.T) {
	comp := NewCompensator(NewHistory(5, 1, 1), 1, 1)
	comp.Observe([]float64{1}, []float64{2})
	comp.Observe([]float64{2}, []float64{4})
	comp.Observe([]float64{3}, []float64{6})

	out := comp.Apply([]float64{1})
	if out[0] != 1 {
		t.Errorf("expected clipped action 1 but got %f", out[0])
	}
}

func TestCompensatorDeterminism(t *testing.T) {
	steps := [][2][]float64{
		{{0.3, -0.1}, {0.5, 0.2}},
		{{-0.2, 0.8}, {0.1, 0.4}},
		{{0.6, 0.6}, {0.9, -0.3}},
	}
	comp1 := NewCompensator(NewHistory(4, 1, 2), 0.2, 1)
	comp2 := NewCompensator(NewHistory(4, 1, 2), 0.2, 1)
	for _, step := range steps {
		comp1.Observe(step[0], step[1])
		comp2.Observe(step[0], step[1])
	}
	a1, b1, _ := comp1.Transform(0)
	a2, b2, _ := comp2.Transform(0)
	for i := 0; i < 2; i++ {
		if b1[i] != b2[i] {
			t.Errorf("bias %d differs: %f vs %f", i, b1[i], b2[i])
		}
		for j := 0; j < 2; j++ {
			if a1.At(i, j) != a2.At(i, j) {
				t.Errorf("weight (%d,%d) differs: %f vs %f", i, j,
					a1.At(i, j), a2.At(i, j))
			}
		}
	}
}
