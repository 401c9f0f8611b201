package experiments

import "flag"

// EnvFlags holds the options used to construct a batch of
// environments.
type EnvFlags struct {
	// Name is the environment name.
	Name string

	// NumEnvs is the number of batched instances.
	NumEnvs int

	// Seed seeds the environments and action sampling.
	Seed int64

	// Distort simulates a miscalibrated actuator by
	// applying Gain and Offset to every executed action.
	Distort bool
	Gain    float64
	Offset  float64
}

// AddFlags adds the options to the flag package's global
// set of flags.
func (e *EnvFlags) AddFlags() {
	flag.StringVar(&e.Name, "env", "CartPole", "environment name (CartPole or Pendulum)")
	flag.IntVar(&e.NumEnvs, "numenvs", 64, "parallel environment instances")
	flag.Int64Var(&e.Seed, "seed", 0, "random seed")
	flag.BoolVar(&e.Distort, "distort", false, "simulate a miscalibrated actuator")
	flag.Float64Var(&e.Gain, "gain", 0.7, "actuator gain (with -distort)")
	flag.Float64Var(&e.Offset, "offset", 0.1, "actuator offset (with -distort)")
}

// CompFlags holds the options for online action
// compensation.
type CompFlags struct {
	// HistoryLen is the sliding window length in steps.
	HistoryLen int

	// Blend is the weight of the corrected action when
	// mixing it with the raw action.
	Blend float64
}

// AddFlags adds the options to the flag package's global
// set of flags.
func (c *CompFlags) AddFlags() {
	flag.IntVar(&c.HistoryLen, "history", 50, "compensation window length")
	flag.Float64Var(&c.Blend, "blend", 0.2, "compensation blend weight")
}
