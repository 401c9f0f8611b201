package actioncal

import (
	"math"
	"math/rand"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvecsave"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var a Agent
	serializer.RegisterTypedDeserializer(a.SerializerType(), DeserializeAgent)
}

// An Agent is a Gaussian policy over a continuous action
// space.
//
// Actions are sampled from per-component normal
// distributions whose means come from a feedforward
// network and whose log standard deviations are a learned,
// state-independent vector.
type Agent struct {
	Mean   anynet.Net
	LogStd *anydiff.Var
}

// NewAgent creates a randomly-initialized agent.
func NewAgent(c anyvec.Creator, obsSize, actionSize int) *Agent {
	return &Agent{
		Mean: anynet.Net{
			anynet.NewFC(c, obsSize, 256),
			anynet.Tanh,
			anynet.NewFC(c, 256, 256),
			anynet.Tanh,
			anynet.NewFCZero(c, 256, actionSize),
		},
		LogStd: anydiff.NewVar(c.MakeVector(actionSize)),
	}
}

// LoadAgent reads an agent checkpoint written by Save.
func LoadAgent(path string) (*Agent, error) {
	var res *Agent
	if err := serializer.LoadAny(path, &res); err != nil {
		return nil, essentials.AddCtx("load agent", err)
	}
	return res, nil
}

// Save writes the agent to a checkpoint file.
func (a *Agent) Save(path string) error {
	if err := serializer.SaveAny(path, a); err != nil {
		return essentials.AddCtx("save agent", err)
	}
	return nil
}

// MeanActions computes the deterministic policy output for
// a batch of observation rows.
func (a *Agent) MeanActions(obs anyvec.Vector, batch int) anyvec.Vector {
	return a.Mean.Apply(anydiff.NewConst(obs), batch).Output().Copy()
}

// Actions samples one action per observation row.
func (a *Agent) Actions(obs anyvec.Vector, batch int, r *rand.Rand) anyvec.Vector {
	c := obs.Creator()
	mean := vecToFloats(a.Mean.Apply(anydiff.NewConst(obs), batch).Output())
	logStd := vecToFloats(a.LogStd.Vector)

	noise := c.MakeVector(len(mean))
	anyvec.Rand(noise, anyvec.Normal, r)
	noiseData := vecToFloats(noise)

	dim := len(logStd)
	out := make([]float64, len(mean))
	for i, m := range mean {
		out[i] = m + math.Exp(logStd[i%dim])*noiseData[i]
	}
	return floatsToVec(c, out)
}

// SerializerType is the unique ID used to serialize an
// Agent.
func (a *Agent) SerializerType() string {
	return "github.com/unixpickle/actioncal.Agent"
}

// Serialize serializes the agent.
func (a *Agent) Serialize() ([]byte, error) {
	return serializer.SerializeAny(a.Mean, &anyvecsave.S{Vector: a.LogStd.Vector})
}

// DeserializeAgent deserializes an Agent.
func DeserializeAgent(d []byte) (*Agent, error) {
	var net anynet.Net
	var logStd *anyvecsave.S
	if err := serializer.DeserializeAny(d, &net, &logStd); err != nil {
		return nil, essentials.AddCtx("deserialize agent", err)
	}
	return &Agent{Mean: net, LogStd: anydiff.NewVar(logStd.Vector)}, nil
}
