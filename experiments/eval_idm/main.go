// Command eval_idm evaluates a fixed policy with online
// action compensation: an inverse-dynamics model estimates
// the action that actually took effect each step, and a
// per-environment least-squares correction cancels the
// difference.
//
// Every environment instance contributes exactly one
// episode result.

package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/unixpickle/actioncal"
	"github.com/unixpickle/actioncal/experiments"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/essentials"
)

type Flags struct {
	EnvFlags  experiments.EnvFlags
	CompFlags experiments.CompFlags

	AgentFile   string
	IDMFile     string
	MetricsFile string
}

func main() {
	flags := &Flags{}
	flags.EnvFlags.AddFlags()
	flags.CompFlags.AddFlags()
	flag.StringVar(&flags.AgentFile, "agent", "", "policy checkpoint (required)")
	flag.StringVar(&flags.IDMFile, "idm", "", "inverse-dynamics checkpoint (required)")
	flag.StringVar(&flags.MetricsFile, "metrics", "eval_idm_metrics.jsonl", "metric log file")
	flag.Parse()
	log.Println("Run with arguments:", os.Args[1:])

	if flags.AgentFile == "" || flags.IDMFile == "" {
		essentials.Die("both -agent and -idm are required")
	}

	creator := anyvec32.CurrentCreator()
	rng := rand.New(rand.NewSource(flags.EnvFlags.Seed))

	log.Println("Creating environments...")
	env, err := experiments.MakeEnvs(creator, &flags.EnvFlags)
	must(err)

	agent, err := actioncal.LoadAgent(flags.AgentFile)
	must(err)
	idm, err := actioncal.LoadInverseDynamics(flags.IDMFile)
	must(err)

	metrics, err := experiments.NewMetricWriter(flags.MetricsFile)
	must(err)
	defer metrics.Close()

	tracker := actioncal.TrackEpisodes(env)
	history := actioncal.NewHistory(flags.CompFlags.HistoryLen, env.NumEnvs(),
		env.ActionSize())
	comp := actioncal.NewCompensator(history, flags.CompFlags.Blend, env.ActionClip())

	total := env.NumEnvs()
	progressEvery := total / 10
	if progressEvery == 0 {
		progressEvery = 1
	}
	start := time.Now()
	lastCompleted := 0

	evaluator := &actioncal.Evaluator{
		Agent: agent,
		IDM:   idm,
		Env:   tracker,
		Comp:  comp,
		Rand:  rng,
		StepHook: func(steps, completed int) {
			globalStep := steps * total
			if completed/progressEvery > lastCompleted/progressEvery ||
				completed == total {
				sps := int(float64(globalStep) / time.Since(start).Seconds())
				log.Printf("%d/%d episodes done (sps=%d)", completed, total, sps)
				must(metrics.Add(globalStep, "sps", float64(sps)))
			}
			lastCompleted = completed
		},
	}

	log.Println("Evaluating...")
	results, err := evaluator.Run()
	must(err)

	for i := 0; i < total; i++ {
		ret, length, _ := results.Result(i)
		must(metrics.Add(i, "episodic_return", ret))
		must(metrics.Add(i, "episodic_length", length))
	}
	if successes, ok := results.Successes(); ok {
		for i, s := range successes {
			must(metrics.Add(i, "consecutive_successes", s))
		}
	}

	retMean, retStd := results.ReturnStats()
	lenMean, lenStd := results.LengthStats()
	log.Printf("episodic_return: mean=%f std=%f", retMean, retStd)
	log.Printf("episodic_length: mean=%f std=%f", lenMean, lenStd)
	must(metrics.Add(0, "episodic_return_mean", retMean))
	must(metrics.Add(0, "episodic_return_std", retStd))
	must(metrics.Add(0, "episodic_length_mean", lenMean))
	must(metrics.Add(0, "episodic_length_std", lenStd))
	if mean, std, ok := results.SuccessStats(); ok {
		log.Printf("consecutive_successes: mean=%f std=%f", mean, std)
		must(metrics.Add(0, "consecutive_successes_mean", mean))
		must(metrics.Add(0, "consecutive_successes_std", std))
	}
}

func must(err error) {
	if err != nil {
		essentials.Die(err)
	}
}
