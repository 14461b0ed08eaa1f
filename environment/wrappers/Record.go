// Package wrappers provides environments that wrap other environments,
// adding behaviour around the reset-step lifecycle while staying
// transparent to the caller.
package wrappers

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/exec"
	"strconv"

	"gonum.org/v1/gonum/mat"

	env "github.com/ag-mout/gymnasium-rerun/environment"
	"github.com/ag-mout/gymnasium-rerun/recording"
	ts "github.com/ag-mout/gymnasium-rerun/timestep"
)

// Viewer selects how a recording is displayed while it is produced.
type Viewer int

const (
	// ViewerDisabled produces no live view.
	ViewerDisabled Viewer = iota

	// ViewerSpawn launches an external viewer process and streams the
	// recording to it.
	ViewerSpawn

	// ViewerServe starts an embedded viewer server inside this
	// process; the recording can be watched from a browser.
	ViewerServe
)

// ParseViewer converts a configuration string into a Viewer.
func ParseViewer(name string) (Viewer, error) {
	switch name {
	case "", "disabled":
		return ViewerDisabled, nil
	case "spawn":
		return ViewerSpawn, nil
	case "serve":
		return ViewerServe, nil
	}
	return ViewerDisabled, fmt.Errorf("parseViewer: no such viewer mode %q",
		name)
}

func (v Viewer) String() string {
	switch v {
	case ViewerSpawn:
		return "spawn"
	case ViewerServe:
		return "serve"
	default:
		return "disabled"
	}
}

// ViewerCommand is the executable ViewerSpawn launches. It must accept
// a --listen flag with the address to serve record streams on.
var ViewerCommand = "gymrec-viewer"

const (
	// DefaultSkipEpisodes is the skip-interval used when a
	// configuration does not set one.
	DefaultSkipEpisodes = 100

	// RenderModeSuffix is appended to the wrapped environment's render
	// mode to signal that frames are being recorded.
	RenderModeSuffix = "_recorded"

	// frameTimeline is the timeline recorded entries are indexed on.
	frameTimeline = "frame"

	applicationID = "gymnasium_record"
)

// Record wraps an environment such that each Step is saved to a
// recording: the reward, the action, the episode-ending flags and a
// JPEG-compressed rendered frame, indexed on a per-episode frame
// timeline. The recording goes to a file or to a live viewer, or is
// discarded when neither is configured. Record is transparent to the
// caller: observations, rewards, flags and errors pass through
// unchanged.
//
// Not every episode is recorded. With skipEpisodes 0 or 1 every
// episode is, otherwise only episodes where episode % skipEpisodes
// == 1, counting resets from 1. Note the quirk this inherits: for
// skipEpisodes > 1 the episode numbered 0 can never satisfy the
// predicate, so recording effectively starts at episode 1.
//
// Record is single-threaded and holds no state shared across
// instances. Using a Record after Close is unsupported.
type Record struct {
	env.Environment

	episode      int
	frame        int
	skipEpisodes int
	viewer       Viewer

	rec    *recording.Stream
	server *recording.Server

	seen map[string]bool
	tabs []recording.Tab
}

// NewRecord creates a Record around e. A non-empty filename persists
// the recording to that file. The viewer modes stream it to a live
// viewer instead; requesting both a file and a viewer is a
// configuration error, since file recording is a buffered synchronous
// workflow and viewer streaming a live one. The wrapped environment
// must have a render mode that yields one frame per Render call.
//
// All configuration errors are returned before any sink is opened.
func NewRecord(e env.Environment, filename string, skipEpisodes int,
	viewer Viewer) (*Record, error) {
	if err := validate(e, skipEpisodes); err != nil {
		return nil, err
	}
	if filename != "" && viewer != ViewerDisabled {
		return nil, fmt.Errorf("newRecord: cannot record to both file %q "+
			"and a live viewer; choose one", filename)
	}

	r := &Record{
		Environment:  e,
		skipEpisodes: skipEpisodes,
		viewer:       viewer,
		seen:         make(map[string]bool),
	}

	var sinks []recording.Sink

	if filename != "" {
		sink, err := recording.NewFileSink(filename)
		if err != nil {
			return nil, fmt.Errorf("newRecord: %v", err)
		}
		sinks = append(sinks, sink)
	}

	if viewer != ViewerDisabled {
		// Bring the viewer up first, then attach to it.
		if _, err := r.Render(); err != nil {
			return nil, fmt.Errorf("newRecord: %v", err)
		}

		addr := recording.DefaultViewerAddr
		if r.server != nil {
			addr = r.server.Addr()
		}

		sink, err := recording.NewViewerSink(addr)
		if err != nil {
			r.closeServer()
			return nil, fmt.Errorf("newRecord: %v", err)
		}
		sinks = append(sinks, sink)
	}

	rec, err := recording.NewStream(applicationID, sinks...)
	if err != nil {
		r.closeServer()
		return nil, fmt.Errorf("newRecord: %v", err)
	}
	r.rec = rec

	return r, nil
}

// NewRecordWith creates a Record that logs to an already-open stream.
// It opens no sinks and triggers no viewer; ownership of the stream
// passes to the Record, which disconnects it on Close.
func NewRecordWith(e env.Environment, rec *recording.Stream,
	skipEpisodes int) (*Record, error) {
	if err := validate(e, skipEpisodes); err != nil {
		return nil, err
	}

	return &Record{
		Environment:  e,
		skipEpisodes: skipEpisodes,
		rec:          rec,
		seen:         make(map[string]bool),
	}, nil
}

func validate(e env.Environment, skipEpisodes int) error {
	if mode := e.RenderMode(); !env.RendersFrames(mode) {
		return fmt.Errorf("newRecord: environment render mode %q cannot "+
			"produce single frames", mode)
	}
	if skipEpisodes < 0 {
		return fmt.Errorf("newRecord: skipEpisodes must be non-negative, "+
			"got %d", skipEpisodes)
	}
	return nil
}

// RenderMode returns the wrapped environment's render mode with the
// recording suffix appended.
func (r *Record) RenderMode() string {
	return r.Environment.RenderMode() + RenderModeSuffix
}

// Episode returns the number of resets so far.
func (r *Record) Episode() int {
	return r.episode
}

// Frame returns the number of steps since the most recent reset.
func (r *Record) Frame() int {
	return r.frame
}

// Recording returns the stream this wrapper logs to.
func (r *Record) Recording() *recording.Stream {
	return r.rec
}

// Reset resets the wrapped environment, advances the episode counter
// and rewinds the frame counter. Nothing is logged on reset itself.
func (r *Record) Reset(seed *uint64, options map[string]any) (mat.Vector,
	map[string]any, error) {
	obs, info, err := r.Environment.Reset(seed, options)
	if err != nil {
		return obs, info, err
	}

	r.episode++
	r.frame = 0

	return obs, info, nil
}

// Step performs a step in the wrapped environment and, when the
// current episode is eligible, records it.
func (r *Record) Step(action mat.Vector) (ts.TimeStep, error) {
	step, err := r.Environment.Step(action)
	if err != nil {
		return step, err
	}

	if r.skipEpisodes == 0 || r.skipEpisodes == 1 ||
		r.episode%r.skipEpisodes == 1 {
		if err := r.log(step, action); err != nil {
			return step, fmt.Errorf("step: could not record step: %v", err)
		}
	}

	r.frame++
	return step, nil
}

// log writes one step's entries under the current episode's namespace.
func (r *Record) log(step ts.TimeStep, action mat.Vector) error {
	label := fmt.Sprintf("episode%05d", r.episode)

	r.rec.SetTime(frameTimeline, int64(r.frame))

	err := r.rec.Log(label+"/reward",
		recording.TextLog(strconv.FormatFloat(step.Reward, 'g', -1, 64)))
	if err != nil {
		return err
	}

	if step.Terminated {
		if err := r.rec.Log(label+"/done",
			recording.TextLog("DONE!")); err != nil {
			return err
		}
	}
	if step.Truncated {
		if err := r.rec.Log(label+"/interrupted",
			recording.TextLog("Interrupted")); err != nil {
			return err
		}
	}

	if err := r.rec.Log(label+"/action",
		recording.TextLog(formatAction(action))); err != nil {
		return err
	}

	frame, err := r.Environment.Render()
	if err != nil {
		return err
	}
	err = r.rec.Log(label+"/frames", recording.NewImage(frame).Compress(95))
	if err != nil {
		return err
	}

	return r.updateLayout(label)
}

// updateLayout inserts a viewer tab the first time an episode is
// recorded and re-sends the accumulated layout. Episodes already seen
// are a no-op; tabs are never removed or reordered.
func (r *Record) updateLayout(label string) error {
	if r.seen[label] {
		return nil
	}
	r.seen[label] = true

	r.tabs = append(r.tabs, episodeTab(label))
	return r.rec.SendBlueprint(recording.NewBlueprint(r.tabs))
}

// episodeTab lays out one episode: the frame view beside the action
// and reward logs.
func episodeTab(label string) recording.Tab {
	return recording.Tab{
		Name: label,
		Root: recording.Horizontal(
			recording.Spatial2D("frames", label+"/frames"),
			recording.Vertical(
				recording.TextLogPane("action", label+"/action"),
				recording.TextLogPane("reward", label+"/reward"),
			),
		),
	}
}

// Render displays the live viewer for the configured mode: ViewerSpawn
// launches the viewer process, ViewerServe starts the embedded server.
// The returned frame is always nil; callers wanting frames should
// render the wrapped environment directly.
func (r *Record) Render() (image.Image, error) {
	switch r.viewer {
	case ViewerSpawn:
		cmd := exec.Command(ViewerCommand, "--listen",
			recording.DefaultViewerAddr)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("render: could not spawn viewer %q: %v",
				ViewerCommand, err)
		}
		// The viewer outlives the recording; it is not waited on.
		go cmd.Wait()

	case ViewerServe:
		if r.server != nil {
			return nil, nil
		}
		server, err := recording.NewServer("127.0.0.1:0")
		if err != nil {
			return nil, fmt.Errorf("render: %v", err)
		}
		r.server = server
	}

	return nil, nil
}

// Close disconnects every sink, then closes the wrapped environment.
// Sink teardown is best-effort: a failing sink never prevents the
// others, or the environment, from closing. Suppressed teardown
// failures are logged.
func (r *Record) Close() error {
	if err := r.rec.Disconnect(); err != nil {
		slog.Warn("sink teardown failed", "err", err)
	}
	r.closeServer()

	return r.Environment.Close()
}

func (r *Record) closeServer() {
	if r.server == nil {
		return
	}
	if err := r.server.Close(); err != nil {
		slog.Warn("viewer server teardown failed", "err", err)
	}
	r.server = nil
}

func formatAction(action mat.Vector) string {
	values := make([]float64, action.Len())
	for i := range values {
		values[i] = action.AtVec(i)
	}
	return fmt.Sprint(values)
}
