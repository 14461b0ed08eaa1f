package mountaincar_test

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/ag-mout/gymnasium-rerun/environment/classiccontrol/mountaincar"
)

func action(a int) mat.Vector {
	return mat.NewVecDense(1, []float64{float64(a)})
}

func TestResetIsReproducible(t *testing.T) {
	first, err := mountaincar.New(mountaincar.RGBArray, 0, 1)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	second, err := mountaincar.New(mountaincar.RGBArray, 0, 2)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}

	var seed uint64 = 123
	obs1, _, err := first.Reset(&seed, nil)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	obs2, _, err := second.Reset(&seed, nil)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}

	if obs1.AtVec(0) != obs2.AtVec(0) {
		t.Errorf("same seed should start at the same position: %v vs %v",
			obs1.AtVec(0), obs2.AtVec(0))
	}
	if obs1.AtVec(1) != 0 {
		t.Errorf("starting velocity should be 0, got %v", obs1.AtVec(1))
	}
	if pos := obs1.AtVec(0); pos < mountaincar.MinStartPosition ||
		pos > mountaincar.MaxStartPosition {
		t.Errorf("starting position %v outside [%v, %v]", pos,
			mountaincar.MinStartPosition, mountaincar.MaxStartPosition)
	}
}

func TestStepRespectsBoundsAndReward(t *testing.T) {
	env, err := mountaincar.New("", 0, 42)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	if _, _, err := env.Reset(nil, nil); err != nil {
		t.Fatalf("reset: %v", err)
	}

	// Push left against the wall long enough to hit the position floor.
	for i := 0; i < 300; i++ {
		step, err := env.Step(action(0))
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}

		position := step.Observation.AtVec(0)
		velocity := step.Observation.AtVec(1)
		if position < mountaincar.MinPosition ||
			position > mountaincar.MaxPosition {
			t.Fatalf("position %v escaped its bounds", position)
		}
		if velocity < -mountaincar.MaxSpeed ||
			velocity > mountaincar.MaxSpeed {
			t.Fatalf("velocity %v escaped its bounds", velocity)
		}
		if step.Reward != -1 {
			t.Fatalf("reward should be -1 every step, got %v", step.Reward)
		}

		if step.Last() {
			break
		}
	}
}

func TestEpisodeTruncatesAtCutoff(t *testing.T) {
	env, err := mountaincar.New("", 10, 42)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	env.Reset(nil, nil)

	for i := 0; i < 9; i++ {
		step, err := env.Step(action(1))
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		if step.Last() {
			t.Fatalf("episode ended early at step %d", i+1)
		}
	}

	step, err := env.Step(action(1))
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !step.Truncated || step.Terminated {
		t.Errorf("step 10 should truncate, got %v", step)
	}
	if step.Number != 10 {
		t.Errorf("step number: got %d, want 10", step.Number)
	}
}

func TestStepRejectsIllegalActions(t *testing.T) {
	env, err := mountaincar.New("", 0, 42)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	env.Reset(nil, nil)

	if _, err := env.Step(action(3)); err == nil {
		t.Error("action 3 should be rejected")
	}
	if _, err := env.Step(mat.NewVecDense(2, nil)); err == nil {
		t.Error("2-dimensional actions should be rejected")
	}
	if _, err := env.Step(action(-1)); err == nil {
		t.Error("action -1 should be rejected")
	}
}

func TestRenderProducesFrames(t *testing.T) {
	env, err := mountaincar.New(mountaincar.RGBArray, 0, 42)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	if env.RenderMode() != mountaincar.RGBArray {
		t.Errorf("render mode: got %q", env.RenderMode())
	}

	if _, err := env.Render(); err == nil {
		t.Error("render before reset should fail")
	}

	env.Reset(nil, nil)
	frame, err := env.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	bounds := frame.Bounds()
	if bounds.Dx() != mountaincar.FrameWidth ||
		bounds.Dy() != mountaincar.FrameHeight {
		t.Errorf("frame size: got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderRequiresFrameMode(t *testing.T) {
	env, err := mountaincar.New("", 0, 42)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	env.Reset(nil, nil)

	if _, err := env.Render(); err == nil {
		t.Error("render without a frame-producing mode should fail")
	}
}

func TestNewRejectsUnknownRenderMode(t *testing.T) {
	if _, err := mountaincar.New("human", 0, 42); err == nil {
		t.Error("unknown render mode should be rejected")
	}
}

func TestCloseStopsResets(t *testing.T) {
	env, err := mountaincar.New("", 0, 42)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	if err := env.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, _, err := env.Reset(nil, nil); err == nil {
		t.Error("reset after close should fail")
	}
}
