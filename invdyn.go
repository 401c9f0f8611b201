package actioncal

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var i InverseDynamics
	serializer.RegisterTypedDeserializer(i.SerializerType(), DeserializeInverseDynamics)
}

// An InverseDynamics model predicts the action that was
// executed between two consecutive observations.
type InverseDynamics struct {
	Net anynet.Net
}

// NewInverseDynamics creates a randomly-initialized model.
func NewInverseDynamics(c anyvec.Creator, obsSize, actionSize int) *InverseDynamics {
	return &InverseDynamics{
		Net: anynet.Net{
			anynet.NewFC(c, obsSize*2, 256),
			anynet.Tanh,
			anynet.NewFC(c, 256, 256),
			anynet.Tanh,
			anynet.NewFCZero(c, 256, actionSize),
		},
	}
}

// LoadInverseDynamics reads a model checkpoint written by
// Save.
func LoadInverseDynamics(path string) (*InverseDynamics, error) {
	var res *InverseDynamics
	if err := serializer.LoadAny(path, &res); err != nil {
		return nil, essentials.AddCtx("load inverse dynamics", err)
	}
	return res, nil
}

// Save writes the model to a checkpoint file.
func (i *InverseDynamics) Save(path string) error {
	if err := serializer.SaveAny(path, i); err != nil {
		return essentials.AddCtx("save inverse dynamics", err)
	}
	return nil
}

// Parameters returns the model's learnable parameters.
func (i *InverseDynamics) Parameters() []*anydiff.Var {
	return i.Net.Parameters()
}

// Predict estimates the action that transformed each row
// of prev into the matching row of next.
func (i *InverseDynamics) Predict(prev, next anyvec.Vector, batch int) anyvec.Vector {
	joined := joinRows(prev.Creator(), prev, next, batch)
	return i.Net.Apply(anydiff.NewConst(joined), batch).Output().Copy()
}

// SerializerType is the unique ID used to serialize an
// InverseDynamics.
func (i *InverseDynamics) SerializerType() string {
	return "github.com/unixpickle/actioncal.InverseDynamics"
}

// Serialize serializes the model.
func (i *InverseDynamics) Serialize() ([]byte, error) {
	return serializer.SerializeAny(i.Net)
}

// DeserializeInverseDynamics deserializes an
// InverseDynamics.
func DeserializeInverseDynamics(d []byte) (*InverseDynamics, error) {
	var net anynet.Net
	if err := serializer.DeserializeAny(d, &net); err != nil {
		return nil, essentials.AddCtx("deserialize inverse dynamics", err)
	}
	return &InverseDynamics{Net: net}, nil
}
