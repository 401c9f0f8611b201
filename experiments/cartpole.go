package experiments

import (
	"math"
	"math/rand"

	"github.com/unixpickle/anyvec"
)

const (
	cartPoleObsSize    = 4
	cartPoleActionSize = 1

	cartPoleGravity        = 9.81
	cartPoleMassCart       = 1.0
	cartPoleMassPole       = 0.1
	cartPoleLength         = 0.5
	cartPoleForceMax       = 10.0
	cartPoleTau            = 0.02
	cartPoleXThreshold     = 2.4
	cartPoleThetaThreshold = 12.0 * math.Pi / 180.0
	cartPoleMaxSteps       = 500
)

// A CartPole is a continuous-force cart-pole balancing
// environment.
//
// The single action component in [-1, 1] scales the force
// applied to the cart.
// Observations are (x, xDot, theta, thetaDot).
// Reward is 1 per step; episodes end when the cart or pole
// leaves its threshold or after cartPoleMaxSteps steps.
type CartPole struct {
	Creator anyvec.Creator
	Rand    *rand.Rand

	x        float64
	xDot     float64
	theta    float64
	thetaDot float64
	steps    int
}

// NewCartPole creates an environment with its own seeded
// random source.
func NewCartPole(c anyvec.Creator, seed int64) *CartPole {
	return &CartPole{
		Creator: c,
		Rand:    rand.New(rand.NewSource(seed)),
	}
}

// Reset starts a new episode near the upright state.
func (c *CartPole) Reset() ([]float64, error) {
	c.x = c.Rand.Float64()*0.1 - 0.05
	c.xDot = c.Rand.Float64()*0.1 - 0.05
	c.theta = c.Rand.Float64()*0.1 - 0.05
	c.thetaDot = c.Rand.Float64()*0.1 - 0.05
	c.steps = 0
	return c.observation(), nil
}

// Step applies one tick of cart-pole physics.
func (c *CartPole) Step(action []float64) ([]float64, float64, bool, error) {
	force := math.Max(-1, math.Min(1, action[0])) * cartPoleForceMax

	totalMass := cartPoleMassCart + cartPoleMassPole
	poleMassLength := cartPoleMassPole * cartPoleLength

	cosTheta := math.Cos(c.theta)
	sinTheta := math.Sin(c.theta)

	temp := (force + poleMassLength*c.thetaDot*c.thetaDot*sinTheta) / totalMass
	thetaAcc := (cartPoleGravity*sinTheta - cosTheta*temp) /
		(cartPoleLength * (4.0/3.0 - cartPoleMassPole*cosTheta*cosTheta/totalMass))
	xAcc := temp - poleMassLength*thetaAcc*cosTheta/totalMass

	c.x += cartPoleTau * c.xDot
	c.xDot += cartPoleTau * xAcc
	c.theta += cartPoleTau * c.thetaDot
	c.thetaDot += cartPoleTau * thetaAcc
	c.steps++

	done := c.x < -cartPoleXThreshold || c.x > cartPoleXThreshold ||
		c.theta < -cartPoleThetaThreshold || c.theta > cartPoleThetaThreshold ||
		c.steps >= cartPoleMaxSteps
	return c.observation(), 1, done, nil
}

func (c *CartPole) observation() []float64 {
	return []float64{c.x, c.xDot, c.theta, c.thetaDot}
}
