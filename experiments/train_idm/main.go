// Command train_idm fits an inverse-dynamics model to the
// transitions produced by a fixed policy running in a
// batch of environments.

package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/unixpickle/actioncal"
	"github.com/unixpickle/actioncal/experiments"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/rip"
)

type Flags struct {
	EnvFlags experiments.EnvFlags

	AgentFile    string
	OutDir       string
	NumSteps     int
	TotalSteps   int
	Minibatches  int
	LearningRate float64
	MaxGradNorm  float64
	Checkpoints  int
	MetricsFile  string
}

func main() {
	flags := &Flags{}
	flags.EnvFlags.AddFlags()
	flag.StringVar(&flags.AgentFile, "agent", "", "policy checkpoint (empty for a random policy)")
	flag.StringVar(&flags.OutDir, "out", "idm_checkpoints", "directory for model checkpoints")
	flag.IntVar(&flags.NumSteps, "steps", 16, "steps per rollout")
	flag.IntVar(&flags.TotalSteps, "total", 1000000, "total environment steps")
	flag.IntVar(&flags.Minibatches, "minibatches", 2, "minibatches per iteration")
	flag.Float64Var(&flags.LearningRate, "lr", 0.0026, "Adam learning rate")
	flag.Float64Var(&flags.MaxGradNorm, "maxgrad", 1, "gradient norm clip")
	flag.IntVar(&flags.Checkpoints, "checkpoints", 10, "number of checkpoints to save")
	flag.StringVar(&flags.MetricsFile, "metrics", "train_idm_metrics.jsonl", "metric log file")
	flag.Parse()
	log.Println("Run with arguments:", os.Args[1:])

	creator := anyvec32.CurrentCreator()
	rng := rand.New(rand.NewSource(flags.EnvFlags.Seed))

	log.Println("Creating environments...")
	env, err := experiments.MakeEnvs(creator, &flags.EnvFlags)
	must(err)

	var agent *actioncal.Agent
	if flags.AgentFile == "" {
		log.Println("No policy checkpoint; using a random policy.")
		agent = actioncal.NewAgent(creator, env.ObsSize(), env.ActionSize())
	} else {
		agent, err = actioncal.LoadAgent(flags.AgentFile)
		must(err)
	}

	idm := actioncal.NewInverseDynamics(creator, env.ObsSize(), env.ActionSize())
	trainer := &actioncal.Trainer{
		IDM:          idm,
		LearningRate: flags.LearningRate,
		MaxGradNorm:  flags.MaxGradNorm,
	}

	metrics, err := experiments.NewMetricWriter(flags.MetricsFile)
	must(err)
	defer metrics.Close()
	must(os.MkdirAll(flags.OutDir, 0755))

	batchSteps := flags.NumSteps * env.NumEnvs()
	numIterations := flags.TotalSteps / batchSteps
	if numIterations == 0 {
		numIterations = 1
	}
	ckptEvery := numIterations / flags.Checkpoints
	if ckptEvery == 0 {
		ckptEvery = 1
	}

	buffer := actioncal.NewRolloutBuffer(env.NumEnvs(), env.ObsSize(), env.ActionSize())
	obs, err := env.Reset()
	must(err)
	dones := make([]float64, env.NumEnvs())

	stopChan := rip.NewRIP().Chan()
	globalStep := 0
	start := time.Now()

	for iteration := 1; iteration <= numIterations; iteration++ {
		select {
		case <-stopChan:
			log.Println("Interrupted; saving final checkpoint.")
			must(idm.Save(checkpointPath(flags.OutDir, globalStep)))
			return
		default:
		}

		buffer.Reset()
		for step := 0; step < flags.NumSteps; step++ {
			globalStep += env.NumEnvs()
			actions := agent.Actions(obs, env.NumEnvs(), rng)
			buffer.Append(obs, actions, dones)
			obs, _, dones, err = env.Step(actions)
			must(err)
		}

		batch := buffer.Flatten(env.ActionClip())
		indices := batch.SampleIndices(rng)
		var loss float64
		for _, mb := range actioncal.Minibatches(indices, flags.Minibatches) {
			inputs, labels, mask := batch.Pair(mb)
			loss = trainer.Step(inputs, labels, mask, len(mb))
		}

		sps := int(float64(globalStep) / time.Since(start).Seconds())
		log.Printf("iteration %d: loss=%f sps=%d", iteration, loss, sps)
		must(metrics.Add(globalStep, "inverse_dynamics_loss", loss))
		must(metrics.Add(globalStep, "sps", float64(sps)))

		if iteration%ckptEvery == 0 || iteration == numIterations {
			path := checkpointPath(flags.OutDir, globalStep)
			must(idm.Save(path))
			log.Println("Saved checkpoint:", path)
		}
	}
}

func checkpointPath(dir string, globalStep int) string {
	return filepath.Join(dir, fmt.Sprintf("idm_%d", globalStep))
}

func must(err error) {
	if err != nil {
		essentials.Die(err)
	}
}
