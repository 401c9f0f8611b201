package experiments

import (
	"errors"

	"github.com/unixpickle/actioncal"
	"github.com/unixpickle/anyrl"
	"github.com/unixpickle/anyvec"
)

// MakeEnvs constructs the batch of environments named by
// the flags.
//
// Every environment here has a continuous action space
// with actions clipped to [-1, 1]; there is nothing to
// calibrate on a discrete actuator.
func MakeEnvs(c anyvec.Creator, flags *EnvFlags) (actioncal.Env, error) {
	switch flags.Name {
	case "CartPole":
		var envs []anyrl.Env
		for i := 0; i < flags.NumEnvs; i++ {
			var env anyrl.Env = NewCartPole(c, flags.Seed+int64(i))
			if flags.Distort {
				env = Distort(env, flags.Gain, flags.Offset)
			}
			envs = append(envs, env)
		}
		batch, err := actioncal.Vectorize(c, cartPoleObsSize, cartPoleActionSize, 1, envs)
		if err != nil {
			return nil, err
		}
		return batch, nil
	case "Pendulum":
		var pendulums []*Pendulum
		var envs []anyrl.Env
		for i := 0; i < flags.NumEnvs; i++ {
			p := NewPendulum(c, flags.Seed+int64(i))
			pendulums = append(pendulums, p)
			var env anyrl.Env = p
			if flags.Distort {
				env = Distort(env, flags.Gain, flags.Offset)
			}
			envs = append(envs, env)
		}
		batch, err := actioncal.Vectorize(c, pendulumObsSize, pendulumActionSize, 1, envs)
		if err != nil {
			return nil, err
		}
		return &pendulumBatch{BatchEnv: batch, pendulums: pendulums}, nil
	default:
		return nil, errors.New("unknown environment: " + flags.Name)
	}
}

// pendulumBatch surfaces the pendulums' upright streaks
// as the batch's success metric.
//
// It reports the latched streaks rather than the live
// counters: a finished instance is reset inside the batch
// step, which would zero the live counter before a caller
// could read the completed episode's value.
type pendulumBatch struct {
	*actioncal.BatchEnv

	pendulums []*Pendulum
}

func (p *pendulumBatch) ConsecutiveSuccesses() []float64 {
	res := make([]float64, len(p.pendulums))
	for i, pend := range p.pendulums {
		res[i] = pend.LastUpright()
	}
	return res
}

// vecFloats reads a single instance's observation or
// action row, independent of the creator's numeric type.
func vecFloats(vec anyvec.Vector) []float64 {
	switch data := vec.Data().(type) {
	case []float64:
		return data
	case []float32:
		res := make([]float64, len(data))
		for i, x := range data {
			res[i] = float64(x)
		}
		return res
	default:
		panic("unsupported numeric type")
	}
}
