// Package experiment implements functionality for running an experiment
package experiment

import (
	"fmt"
	"io"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	env "github.com/ag-mout/gymnasium-rerun/environment"
	"github.com/ag-mout/gymnasium-rerun/utils/progressbar"
)

// Policy selects an action for an observation.
type Policy func(obs mat.Vector) mat.Vector

// RandomDiscrete returns a policy that samples a 1-dimensional action
// uniformly from {0, …, n-1}.
func RandomDiscrete(n int, seed uint64) Policy {
	rng := rand.New(rand.NewSource(seed))
	return func(mat.Vector) mat.Vector {
		return mat.NewVecDense(1, []float64{float64(rng.Intn(n))})
	}
}

// Online runs a policy in an environment for a fixed number of
// episodes, each capped at a maximum number of steps, reporting
// progress per episode.
type Online struct {
	env      env.Environment
	policy   Policy
	episodes int
	maxSteps int
	bar      *progressbar.ProgressBar
}

// NewOnline creates an experiment running policy in e for episodes
// episodes of at most maxSteps steps each. Progress is drawn to w; a
// nil w draws nothing.
func NewOnline(e env.Environment, policy Policy, episodes, maxSteps int,
	w io.Writer) *Online {
	var bar *progressbar.ProgressBar
	if w != nil {
		bar = progressbar.New(w, 40, episodes)
	}

	return &Online{
		env:      e,
		policy:   policy,
		episodes: episodes,
		maxSteps: maxSteps,
		bar:      bar,
	}
}

// Run runs all episodes. Every episode is reset with the same seed, so
// a deterministic environment plays out the same trajectory each time.
// A nil seed leaves the environment's random state alone.
func (o *Online) Run(seed *uint64) error {
	for episode := 0; episode < o.episodes; episode++ {
		if err := o.RunEpisode(seed); err != nil {
			return fmt.Errorf("run: episode %d: %v", episode, err)
		}

		if o.bar != nil {
			o.bar.Increment()
		}
	}

	if o.bar != nil {
		o.bar.Finish()
	}
	return nil
}

// RunEpisode resets the environment and steps it until the episode
// ends or the step cap is reached.
func (o *Online) RunEpisode(seed *uint64) error {
	obs, _, err := o.env.Reset(seed, nil)
	if err != nil {
		return fmt.Errorf("runEpisode: could not reset: %v", err)
	}

	for i := 0; i < o.maxSteps; i++ {
		step, err := o.env.Step(o.policy(obs))
		if err != nil {
			return fmt.Errorf("runEpisode: could not step: %v", err)
		}

		if step.Last() {
			break
		}
		obs = step.Observation
	}

	return nil
}
