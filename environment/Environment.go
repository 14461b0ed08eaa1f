// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"image"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/ag-mout/gymnasium-rerun/timestep"
)

// ListModeSuffix marks render modes that collect a list of frames per
// episode instead of returning a single frame per Render call.
const ListModeSuffix = "_list"

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() mat.Vector
}

// Environment implements a simulated environment with the
// reset-step-render lifecycle.
//
// An episode begins with Reset and proceeds through repeated Step
// calls until the returned TimeStep reports Last. Render produces a
// single frame showing the current state, provided the environment
// was created with a render mode that supports it.
type Environment interface {
	// Reset starts a new episode and returns its first observation
	// together with auxiliary info. A nil seed keeps the current
	// random state, so episodes remain independent draws. The options
	// mapping is environment specific and may be nil.
	Reset(seed *uint64, options map[string]any) (mat.Vector, map[string]any, error)

	// Step advances the environment by one action.
	Step(action mat.Vector) (timestep.TimeStep, error)

	// Render returns a single frame of the current state.
	Render() (image.Image, error)

	// RenderMode returns the render mode the environment was created
	// with, or the empty string if rendering was not requested.
	RenderMode() string

	Close() error
}

// RendersFrames returns whether mode names a render mode that yields
// one frame per Render call. The empty mode and any mode with the
// ListModeSuffix do not.
func RendersFrames(mode string) bool {
	return mode != "" && !strings.HasSuffix(mode, ListModeSuffix)
}
