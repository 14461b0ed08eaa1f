// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// TimeStep packages together everything an environment returns from a
// single call to Step: the next observation, the reward for the
// transition, the two episode-ending flags, and the auxiliary info
// mapping. Number is the ordinal of the step within the current
// episode, starting at 1 for the first step after a reset.
//
// Terminated means the environment reached a terminal state of its
// task. Truncated means the episode was cut off for a reason outside
// the task, such as a step limit. The two flags are independent.
type TimeStep struct {
	Observation mat.Vector
	Reward      float64
	Terminated  bool
	Truncated   bool
	Info        map[string]any
	Number      int
}

func New(obs mat.Vector, reward float64, terminated, truncated bool,
	info map[string]any, number int) TimeStep {
	return TimeStep{obs, reward, terminated, truncated, info, number}
}

// Last returns whether a TimeStep ended its episode, either by
// termination or by truncation.
func (t TimeStep) Last() bool {
	return t.Terminated || t.Truncated
}

func (t TimeStep) String() string {
	str := "TimeStep | Reward: %.2f  |  Terminated: %v  |  Truncated: %v  |" +
		"  Step Number: %v"

	return fmt.Sprintf(str, t.Reward, t.Terminated, t.Truncated, t.Number)
}
