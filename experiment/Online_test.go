package experiment_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ag-mout/gymnasium-rerun/environment/classiccontrol/mountaincar"
	"github.com/ag-mout/gymnasium-rerun/environment/wrappers"
	"github.com/ag-mout/gymnasium-rerun/experiment"
	"github.com/ag-mout/gymnasium-rerun/recording"
)

func TestOnlineRecordsEveryEpisode(t *testing.T) {
	env, err := mountaincar.New(mountaincar.RGBArray, 5, 42)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}

	sink := recording.NewMemorySink()
	stream, err := recording.NewStream("test", sink)
	if err != nil {
		t.Fatalf("could not create stream: %v", err)
	}

	recorded, err := wrappers.NewRecordWith(env, stream, 0)
	if err != nil {
		t.Fatalf("could not create recorder: %v", err)
	}

	var out bytes.Buffer
	exp := experiment.NewOnline(recorded, experiment.RandomDiscrete(3, 42),
		3, 10, &out)
	if err := exp.Run(nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	if recorded.Episode() != 3 {
		t.Errorf("episodes run: got %d, want 3", recorded.Episode())
	}
	// 5-step cutoff, 3 episodes, every one recorded
	if frames := sink.OfKind(recording.KindImage); len(frames) != 15 {
		t.Errorf("frames recorded: got %d, want 15", len(frames))
	}
	if blueprints := sink.OfKind(recording.KindBlueprint); len(blueprints) != 3 {
		t.Errorf("layouts sent: got %d, want 3", len(blueprints))
	}

	if !strings.Contains(out.String(), "100%") {
		t.Error("progress bar never reached 100%")
	}

	if err := recorded.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestRandomDiscreteStaysInRange(t *testing.T) {
	policy := experiment.RandomDiscrete(3, 7)
	for i := 0; i < 100; i++ {
		a := policy(nil).AtVec(0)
		if a < 0 || a > 2 {
			t.Fatalf("action %v outside {0, 1, 2}", a)
		}
	}
}
