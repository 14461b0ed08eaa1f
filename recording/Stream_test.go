package recording

import (
	"errors"
	"image"
	"testing"
)

func TestStreamWritesHeaderToEverySink(t *testing.T) {
	first, second := NewMemorySink(), NewMemorySink()

	stream, err := NewStream("app", first, second)
	if err != nil {
		t.Fatalf("could not create stream: %v", err)
	}

	for _, sink := range []*MemorySink{first, second} {
		records := sink.Records()
		if len(records) != 1 || records[0].Kind != KindHeader {
			t.Fatalf("sink should hold exactly the header, got %v", records)
		}
		if records[0].App != "app" {
			t.Errorf("header app: got %q", records[0].App)
		}
		if records[0].Recording != stream.ID().String() {
			t.Errorf("header recording id: got %q, want %q",
				records[0].Recording, stream.ID())
		}
	}
}

func TestStreamFansOutToAllSinks(t *testing.T) {
	first, second := NewMemorySink(), NewMemorySink()
	stream, err := NewStream("app", first, second)
	if err != nil {
		t.Fatalf("could not create stream: %v", err)
	}

	stream.SetTime("frame", 3)
	if err := stream.Log("ep/reward", TextLog("-1")); err != nil {
		t.Fatalf("log: %v", err)
	}

	for _, sink := range []*MemorySink{first, second} {
		texts := sink.OfKind(KindText)
		if len(texts) != 1 {
			t.Fatalf("each sink should receive the entry, got %d", len(texts))
		}
		if texts[0].Path != "ep/reward" || texts[0].Text != "-1" {
			t.Errorf("entry altered: %+v", texts[0])
		}
		if texts[0].Times["frame"] != 3 {
			t.Errorf("timeline position: got %d, want 3",
				texts[0].Times["frame"])
		}
	}
}

func TestStreamSnapshotsTimelinePositions(t *testing.T) {
	sink := NewMemorySink()
	stream, err := NewStream("app", sink)
	if err != nil {
		t.Fatalf("could not create stream: %v", err)
	}

	stream.SetTime("frame", 0)
	stream.Log("ep/reward", TextLog("a"))
	stream.SetTime("frame", 1)
	stream.Log("ep/reward", TextLog("b"))

	texts := sink.OfKind(KindText)
	if texts[0].Times["frame"] != 0 || texts[1].Times["frame"] != 1 {
		t.Errorf("later SetTime must not change already-logged records: "+
			"%v, %v", texts[0].Times, texts[1].Times)
	}
}

func TestStreamLogsCompressedImages(t *testing.T) {
	sink := NewMemorySink()
	stream, err := NewStream("app", sink)
	if err != nil {
		t.Fatalf("could not create stream: %v", err)
	}

	frame := image.NewRGBA(image.Rect(0, 0, 8, 6))
	err = stream.Log("ep/frames", NewImage(frame).Compress(95))
	if err != nil {
		t.Fatalf("log: %v", err)
	}

	images := sink.OfKind(KindImage)
	if len(images) != 1 {
		t.Fatalf("expected one image record, got %d", len(images))
	}
	img := images[0].Image
	if img.MediaType != "image/jpeg" {
		t.Errorf("media type: got %q, want image/jpeg", img.MediaType)
	}
	if img.Width != 8 || img.Height != 6 {
		t.Errorf("dimensions: got %dx%d, want 8x6", img.Width, img.Height)
	}
	if len(img.Data) == 0 {
		t.Error("image payload is empty")
	}
}

func TestStreamLogsUncompressedImagesAsPNG(t *testing.T) {
	sink := NewMemorySink()
	stream, err := NewStream("app", sink)
	if err != nil {
		t.Fatalf("could not create stream: %v", err)
	}

	if err := stream.Log("ep/frames",
		NewImage(image.NewRGBA(image.Rect(0, 0, 2, 2)))); err != nil {
		t.Fatalf("log: %v", err)
	}

	images := sink.OfKind(KindImage)
	if images[0].Image.MediaType != "image/png" {
		t.Errorf("media type: got %q, want image/png",
			images[0].Image.MediaType)
	}
}

// brokenSink fails every operation.
type brokenSink struct {
	closed int
}

func (s *brokenSink) Write(*Record) error { return errors.New("write refused") }
func (s *brokenSink) Close() error {
	s.closed++
	return errors.New("close refused")
}

func TestStreamDisconnectAttemptsEverySink(t *testing.T) {
	broken := &brokenSink{}
	good := NewMemorySink()

	stream := &Stream{sinks: []Sink{broken, good},
		times: make(map[string]int64)}

	if err := stream.Disconnect(); err == nil {
		t.Error("disconnect should report the broken sink")
	}
	if broken.closed != 1 {
		t.Errorf("broken sink closed %d times, want 1", broken.closed)
	}
	if !good.Closed() {
		t.Error("good sink must still be closed after an earlier failure")
	}
}

func TestStreamWithNoSinksDiscards(t *testing.T) {
	stream, err := NewStream("app")
	if err != nil {
		t.Fatalf("could not create sinkless stream: %v", err)
	}

	stream.SetTime("frame", 0)
	if err := stream.Log("ep/reward", TextLog("r")); err != nil {
		t.Errorf("sinkless log should succeed: %v", err)
	}
	if err := stream.SendBlueprint(NewBlueprint(nil)); err != nil {
		t.Errorf("sinkless blueprint should succeed: %v", err)
	}
	if err := stream.Disconnect(); err != nil {
		t.Errorf("sinkless disconnect should succeed: %v", err)
	}
}
