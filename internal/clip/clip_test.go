package clip

import (
	"testing"

	"github.com/coldfire-labs/swftimeline/internal/library"
	"github.com/coldfire-labs/swftimeline/internal/tagcursor"
)

func newTestStatic() *MovieClipStatic {
	m := tagcursor.NewMovieBytes(1, []byte{0, 0})
	return NewMovieClipStatic(1, tagcursor.Whole(m), 6)
}

func TestFrameLabelToNumberIsCaseInsensitive(t *testing.T) {
	s := newTestStatic()
	s.FrameLabels["start"] = 1
	n, ok := s.FrameLabelToNumber("START")
	if !ok || n != 1 {
		t.Fatalf("expected case-insensitive label lookup, got n=%d ok=%v", n, ok)
	}
}

func TestLabelAtFrameReverseLookup(t *testing.T) {
	s := newTestStatic()
	s.FrameLabels["loop"] = 3
	label, ok := s.LabelAtFrame(3)
	if !ok || label != "loop" {
		t.Fatalf("expected reverse lookup to find 'loop', got %q ok=%v", label, ok)
	}
	if _, ok := s.LabelAtFrame(99); ok {
		t.Fatalf("expected no label at frame 99")
	}
}

func TestNewRootStateDefaultsPlayingAndIdentityTransform(t *testing.T) {
	s := newTestStatic()
	state := NewRootState(s, 1)
	if !state.IsPlaying() {
		t.Fatalf("expected new root state to default to playing")
	}
	if state.Transform().ScaleX != 1 {
		t.Fatalf("expected identity transform scale")
	}
}

func TestPlayStopControlPair(t *testing.T) {
	s := newTestStatic()
	state := NewRootState(s, 1)
	state.Stop()
	if state.IsPlaying() {
		t.Fatalf("expected Stop to clear playing flag")
	}
	state.Play()
	if !state.IsPlaying() {
		t.Fatalf("expected Play to set playing flag")
	}
}

func TestInitializedFlagIsSeparateFromPlaying(t *testing.T) {
	s := newTestStatic()
	state := NewRootState(s, 1)
	state.Stop()
	if state.IsInitialized() {
		t.Fatalf("expected not initialized before MarkInitialized")
	}
	state.MarkInitialized()
	if !state.IsInitialized() || state.IsPlaying() {
		t.Fatalf("expected initialized flag independent of playing flag")
	}
}

func TestNewChildStateCarriesDepthAndPlaceFrame(t *testing.T) {
	parentStatic := newTestStatic()
	parent := NewRootState(parentStatic, 1)
	childStatic := newTestStatic()
	child := NewChildState(childStatic, 5, 3, parent, 2)
	if child.Depth() != 5 || child.PlaceFrame() != 3 {
		t.Fatalf("unexpected depth/placeFrame: %d/%d", child.Depth(), child.PlaceFrame())
	}
	if child.Parent != parent {
		t.Fatalf("expected child's parent to be set")
	}
}

func TestInstanceIDsAreUnique(t *testing.T) {
	s := newTestStatic()
	a := NewRootState(s, 1)
	b := NewRootState(s, 1)
	if a.InstanceID() == b.InstanceID() {
		t.Fatalf("expected distinct instance ids")
	}
}

func TestResolveSpriteTimelineRoundTrip(t *testing.T) {
	static := newTestStatic()
	lib := library.New()
	lib.RegisterSprite(9, static)
	sc, err := lib.MustGetSprite("test", 9)
	if err != nil {
		t.Fatalf("must get sprite: %v", err)
	}
	resolved, ok := ResolveSpriteTimeline(sc)
	if !ok || resolved != static {
		t.Fatalf("expected timeline to resolve back to original static, ok=%v", ok)
	}
}
