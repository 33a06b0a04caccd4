package clipevents

import (
	"testing"

	"github.com/coldfire-labs/swftimeline/internal/actionqueue"
	"github.com/coldfire-labs/swftimeline/internal/clip"
	"github.com/coldfire-labs/swftimeline/internal/tagcursor"
)

func newState(swfVersion int) *clip.MovieClipState {
	m := tagcursor.NewMovieBytes(1, []byte{})
	static := clip.NewMovieClipStatic(1, tagcursor.Whole(m), swfVersion)
	return clip.NewRootState(static, 1)
}

func TestDispatchIgnoredBelowMinVersion(t *testing.T) {
	q := actionqueue.NewInMemory()
	d := New(q)
	state := newState(4)
	state.ClipActions = []clip.ClipActionRecord{{Events: clip.ClipEventEnterFrame}}
	d.DispatchEnterFrame(state)
	if q.Len() != 0 {
		t.Fatalf("expected no dispatch below swf_version 5, got %d queued", q.Len())
	}
}

func TestDispatchMatchesEventMask(t *testing.T) {
	q := actionqueue.NewInMemory()
	d := New(q)
	state := newState(6)
	state.ClipActions = []clip.ClipActionRecord{{Events: clip.ClipEventEnterFrame}}
	d.DispatchEnterFrame(state)
	// One for the matched ClipActionRecord, one for the conventional
	// onEnterFrame method call (swf_version >= 6).
	if q.Len() != 2 {
		t.Fatalf("expected 2 queued actions (record + method), got %d", q.Len())
	}
}

func TestDispatchSkipsNonMatchingEventMask(t *testing.T) {
	q := actionqueue.NewInMemory()
	d := New(q)
	state := newState(6)
	state.ClipActions = []clip.ClipActionRecord{{Events: clip.ClipEventUnload}}
	d.DispatchEnterFrame(state)
	// Only the conventional method call should fire; the ClipActionRecord
	// doesn't match EnterFrame.
	if q.Len() != 1 {
		t.Fatalf("expected 1 queued action (method only), got %d", q.Len())
	}
}

func TestHandlerMethodCallsGatedBelowVersion6(t *testing.T) {
	q := actionqueue.NewInMemory()
	d := New(q)
	state := newState(5)
	d.DispatchEnterFrame(state)
	if q.Len() != 0 {
		t.Fatalf("expected no conventional handler-method call below swf_version 6, got %d", q.Len())
	}
}

func TestChildrenDispatchedBeforeParent(t *testing.T) {
	q := actionqueue.NewInMemory()
	d := New(q)
	parent := newState(6)
	childStatic := clip.NewMovieClipStatic(2, tagcursor.Whole(tagcursor.NewMovieBytes(2, []byte{})), 6)
	child := clip.NewChildState(childStatic, 0, 1, parent, 1)
	_ = parent.Children.Insert(child)

	d.DispatchEnterFrame(parent)
	drained := q.Drain()
	if len(drained) != 2 {
		t.Fatalf("expected 2 actions (child method + parent method), got %d", len(drained))
	}
	if drained[0].Target != child {
		t.Fatalf("expected child dispatched before parent")
	}
	if drained[1].Target != parent {
		t.Fatalf("expected parent dispatched after child")
	}
}

func TestKeyPressHandlerConsumesEvent(t *testing.T) {
	q := actionqueue.NewInMemory()
	d := New(q)
	state := newState(6)
	state.ClipActions = []clip.ClipActionRecord{{Events: clip.ClipEventKeyPress, KeyCode: 13}}
	handled := d.DispatchKeyPress(state, 13)
	if !handled {
		t.Fatalf("expected matching KeyPress handler to consume the event")
	}
}

func TestKeyPressHandlerIgnoresMismatchedKeyCode(t *testing.T) {
	q := actionqueue.NewInMemory()
	d := New(q)
	state := newState(6)
	state.ClipActions = []clip.ClipActionRecord{{Events: clip.ClipEventKeyPress, KeyCode: 13}}
	handled := d.DispatchKeyPress(state, 27)
	if handled {
		t.Fatalf("expected mismatched key code not to be handled")
	}
}

func TestDispatchLoadQueuesInitializeOnce(t *testing.T) {
	q := actionqueue.NewInMemory()
	d := New(q)
	state := newState(6)
	d.DispatchLoad(state)
	if !state.IsInitialized() {
		t.Fatalf("expected DispatchLoad to mark initialized")
	}
	countAfterFirst := q.Len()
	d.DispatchLoad(state)
	if q.Len() != countAfterFirst {
		t.Fatalf("expected second DispatchLoad not to re-queue Initialize, got growth from %d to %d", countAfterFirst, q.Len())
	}
}
