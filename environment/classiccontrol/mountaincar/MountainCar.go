// Package mountaincar implements the discrete action classic control
// environment "Mountain Car"
package mountaincar

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/ag-mout/gymnasium-rerun/environment"
	ts "github.com/ag-mout/gymnasium-rerun/timestep"
	"github.com/ag-mout/gymnasium-rerun/utils/floatutils"
)

const (
	MinPosition float64 = -1.2
	MaxPosition float64 = 0.6
	MaxSpeed    float64 = 0.07
	Power       float64 = 0.0015 // Engine power
	Gravity     float64 = 0.0025

	// GoalPosition is the x position at which an episode terminates.
	GoalPosition float64 = 0.45

	// Starting states are drawn uniformly from this position interval,
	// always with zero velocity.
	MinStartPosition float64 = -0.6
	MaxStartPosition float64 = -0.4

	// Discrete actions
	MinAction int = 0
	MaxAction int = 2

	// DefaultCutoff is the step limit after which episodes truncate.
	DefaultCutoff int = 200

	// RGBArray is the only frame-producing render mode.
	RGBArray string = "rgb_array"
)

// MountainCar implements the classic control Mountain Car environment.
// The agent controls a car in a valley between two hills. The car is
// underpowered and cannot drive up the hill unless it rocks back and
// forth from hill to hill, using its momentum to gradually climb
// higher.
//
// State features consist of the x position of the car and its
// velocity, bounded by the MinPosition, MaxPosition, and MaxSpeed
// constants. The sign of the velocity denotes direction. Upon reaching
// the minimum position with leftward velocity, the velocity is set
// to 0.
//
// Actions are 1-dimensional and discrete in (0, 1, 2):
//
//	Action	Meaning
//	  0		Accelerate left
//	  1		Do nothing
//	  2		Accelerate right
//
// The reward is -1 on every step. An episode terminates when the car
// reaches GoalPosition and truncates at the step cutoff.
type MountainCar struct {
	starter        *env.UniformStarter
	positionBounds r1.Interval
	speedBounds    r1.Interval

	state      *mat.VecDense
	steps      int
	cutoff     int
	renderMode string
	closed     bool
}

// New creates a Mountain Car environment. The renderMode must be empty
// (no rendering) or RGBArray; cutoff <= 0 selects DefaultCutoff.
func New(renderMode string, cutoff int, seed uint64) (*MountainCar, error) {
	if renderMode != "" && renderMode != RGBArray {
		return nil, fmt.Errorf("new: no such render mode %q", renderMode)
	}
	if cutoff <= 0 {
		cutoff = DefaultCutoff
	}

	start := r1.Interval{Min: MinStartPosition, Max: MaxStartPosition}

	return &MountainCar{
		starter:        env.NewUniformStarter([]r1.Interval{start}, seed),
		positionBounds: r1.Interval{Min: MinPosition, Max: MaxPosition},
		speedBounds:    r1.Interval{Min: -MaxSpeed, Max: MaxSpeed},
		cutoff:         cutoff,
		renderMode:     renderMode,
	}, nil
}

// Reset starts a new episode from a freshly drawn starting state. A
// non-nil seed reseeds the start-state distribution first.
func (m *MountainCar) Reset(seed *uint64, options map[string]any) (mat.Vector,
	map[string]any, error) {
	if m.closed {
		return nil, nil, fmt.Errorf("reset: environment is closed")
	}

	if seed != nil {
		m.starter.Seed(*seed)
	}

	position := m.starter.Start().AtVec(0)
	m.state = mat.NewVecDense(2, []float64{position, 0})
	m.steps = 0

	return mat.VecDenseCopyOf(m.state), map[string]any{}, nil
}

// Step advances the car by one action.
func (m *MountainCar) Step(action mat.Vector) (ts.TimeStep, error) {
	if m.state == nil {
		return ts.TimeStep{}, fmt.Errorf("step: Reset must be called before " +
			"Step")
	}
	if action.Len() != 1 {
		return ts.TimeStep{}, fmt.Errorf("step: actions should be "+
			"1-dimensional, got %d", action.Len())
	}

	intAction := int(action.AtVec(0))
	if intAction < MinAction || intAction > MaxAction {
		return ts.TimeStep{}, fmt.Errorf("step: illegal action %v ∉ "+
			"(0, 1, 2)", intAction)
	}

	force := float64(intAction) - 1.0
	position, velocity := m.nextState(force)
	m.state = mat.NewVecDense(2, []float64{position, velocity})
	m.steps++

	terminated := position >= GoalPosition
	truncated := !terminated && m.steps >= m.cutoff

	return ts.New(mat.VecDenseCopyOf(m.state), -1.0, terminated, truncated,
		map[string]any{}, m.steps), nil
}

// nextState applies the Mountain Car dynamics for one step of force.
func (m *MountainCar) nextState(force float64) (float64, float64) {
	position, velocity := m.state.AtVec(0), m.state.AtVec(1)

	velocity += force*Power - Gravity*cos3(position)
	velocity = floatutils.ClipInterval(velocity, m.speedBounds)

	position += velocity
	position = floatutils.ClipInterval(position, m.positionBounds)

	// The left wall is inelastic.
	if position <= m.positionBounds.Min && velocity < 0 {
		velocity = 0
	}

	return position, velocity
}

// RenderMode returns the render mode the environment was created with.
func (m *MountainCar) RenderMode() string {
	return m.renderMode
}

// Close releases the environment. Further Resets fail.
func (m *MountainCar) Close() error {
	m.closed = true
	return nil
}

// cos3 is the slope term of the valley, whose height curve is
// sin(3x).
func cos3(position float64) float64 {
	return math.Cos(3 * position)
}

var _ env.Environment = (*MountainCar)(nil)
