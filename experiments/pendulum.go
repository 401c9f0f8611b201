package experiments

import (
	"math"
	"math/rand"

	"github.com/unixpickle/anyvec"
)

const (
	pendulumObsSize    = 3
	pendulumActionSize = 1

	pendulumGravity      = 9.8
	pendulumMass         = 1.0
	pendulumLength       = 1.0
	pendulumDt           = 0.05
	pendulumMaxSpeed     = 8.0
	pendulumMaxTorque    = 2.0
	pendulumMaxSteps     = 200
	pendulumSuccessAngle = 0.2
)

// A Pendulum is a torque-controlled pendulum swing-up
// environment with fixed-length episodes.
//
// The single action component in [-1, 1] scales the
// applied torque.
// Observations are (cos theta, sin theta, thetaDot).
// It tracks consecutive steps spent near upright as a
// success metric.
type Pendulum struct {
	Creator anyvec.Creator
	Rand    *rand.Rand

	theta    float64
	thetaDot float64
	steps    int
	upright  float64

	lastUpright float64
}

// NewPendulum creates an environment with its own seeded
// random source.
func NewPendulum(c anyvec.Creator, seed int64) *Pendulum {
	return &Pendulum{
		Creator: c,
		Rand:    rand.New(rand.NewSource(seed)),
	}
}

// Reset starts a new episode at a random angle.
func (p *Pendulum) Reset() ([]float64, error) {
	p.theta = p.Rand.Float64()*2*math.Pi - math.Pi
	p.thetaDot = p.Rand.Float64()*2 - 1
	p.steps = 0
	p.upright = 0
	return p.observation(), nil
}

// Step applies one tick of pendulum physics.
func (p *Pendulum) Step(action []float64) ([]float64, float64, bool, error) {
	torque := math.Max(-1, math.Min(1, action[0])) * pendulumMaxTorque

	angle := angleNormalize(p.theta)
	reward := -(angle*angle + 0.1*p.thetaDot*p.thetaDot + 0.001*torque*torque)

	p.thetaDot += (-3*pendulumGravity/(2*pendulumLength)*math.Sin(p.theta+math.Pi) +
		3.0/(pendulumMass*pendulumLength*pendulumLength)*torque) * pendulumDt
	p.thetaDot = math.Max(-pendulumMaxSpeed, math.Min(pendulumMaxSpeed, p.thetaDot))
	p.theta += p.thetaDot * pendulumDt
	p.steps++

	if math.Abs(angleNormalize(p.theta)) < pendulumSuccessAngle {
		p.upright++
	} else {
		p.upright = 0
	}
	p.lastUpright = p.upright

	done := p.steps >= pendulumMaxSteps
	return p.observation(), reward, done, nil
}

// Upright returns the number of consecutive steps the
// pendulum has stayed near vertical in the current
// episode.
func (p *Pendulum) Upright() float64 {
	return p.upright
}

// LastUpright returns the streak as of the most recent
// step.
// Unlike Upright, it is not cleared by Reset, so right
// after a step on which the episode ended it is the
// completed episode's final streak even if a new episode
// has already started.
func (p *Pendulum) LastUpright() float64 {
	return p.lastUpright
}

func (p *Pendulum) observation() []float64 {
	return []float64{math.Cos(p.theta), math.Sin(p.theta), p.thetaDot}
}

func angleNormalize(theta float64) float64 {
	m := math.Mod(theta+math.Pi, 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}
	return m - math.Pi
}
