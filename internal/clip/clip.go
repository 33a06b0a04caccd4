// Package clip implements MovieClipStatic/MovieClipState (§3, §4.3-§4.6):
// the immutable per-definition timeline and its mutable per-instance
// playhead/child state. MovieClipState implements display.Node directly so
// a sprite instance can be placed as a child of another clip exactly like
// any leaf character — nesting falls out of the type system rather than a
// special case.
//
// Grounded on the teacher's connection/session split (a single type owning
// both static configuration and live mutable state, internal/rtmp/conn in
// the retrieved reference) generalized to the spec's static/instance
// separation.
package clip

import (
	"strings"
	"sync/atomic"

	"github.com/coldfire-labs/swftimeline/internal/actionqueue"
	"github.com/coldfire-labs/swftimeline/internal/display"
	"github.com/coldfire-labs/swftimeline/internal/library"
	"github.com/coldfire-labs/swftimeline/internal/sound"
	"github.com/coldfire-labs/swftimeline/internal/tagcursor"
)

// Flags is the per-instance bitset (§3: {Playing, Initialized}).
type Flags uint8

const (
	FlagPlaying Flags = 1 << iota
	FlagInitialized
)

// MovieClipStatic is the immutable, shared-by-reference result of running
// PreloadEngine once over a tag-stream window (§4.2). Many MovieClipState
// instances (every placement of the same sprite character, plus the root)
// can point at the same MovieClipStatic.
type MovieClipStatic struct {
	CharacterID  uint16
	Bytes        tagcursor.Slice // full tag stream for this timeline (root or DefineSprite body)
	TotalFrames  int
	FrameLabels  map[string]int // lowercased label -> 1-based frame number (§SUPPLEMENTED FEATURES)
	AudioStreamHeader *sound.StreamHeadInfo
	SWFVersion   int // root's header version; nested sprites inherit it (§SUPPLEMENTED FEATURES, gates §4.8)
	TotalBytes   int // scan-progress accounting (§SUPPLEMENTED FEATURES)
}

// NewMovieClipStatic returns an empty static timeline ready for
// PreloadEngine to populate.
func NewMovieClipStatic(characterID uint16, bytes tagcursor.Slice, swfVersion int) *MovieClipStatic {
	return &MovieClipStatic{
		CharacterID: characterID,
		Bytes:       bytes,
		FrameLabels: make(map[string]int),
		SWFVersion:  swfVersion,
		TotalBytes:  bytes.Len(),
	}
}

// FrameLabelToNumber resolves a (case-insensitive) frame label to its
// 1-based frame number (§SUPPLEMENTED FEATURES, used by goto-by-label).
func (s *MovieClipStatic) FrameLabelToNumber(label string) (int, bool) {
	n, ok := s.FrameLabels[strings.ToLower(label)]
	return n, ok
}

// LabelAtFrame performs the reverse lookup: is there a label bound to
// exactly this frame number. O(n) in label count, acceptable since movies
// rarely carry more than a few dozen labels.
func (s *MovieClipStatic) LabelAtFrame(frame int) (string, bool) {
	for label, n := range s.FrameLabels {
		if n == frame {
			return label, true
		}
	}
	return "", false
}

// ClipActionRecord is one ClipEvent handler attached via PlaceObject2+'s
// ClipActionRecords, consulted by ClipEventDispatcher (§4.8).
type ClipActionRecord struct {
	Events   ClipEventMask
	KeyCode  byte // only meaningful when Events has ClipEventKeyPress set
	Bytecode tagcursor.Slice
}

// ClipEventMask is a bitset over the ClipEvent kinds a single
// ClipActionRecord may respond to (§4.8).
type ClipEventMask uint32

const (
	ClipEventLoad ClipEventMask = 1 << iota
	ClipEventEnterFrame
	ClipEventUnload
	ClipEventMouseDown
	ClipEventMouseUp
	ClipEventMouseMove
	ClipEventKeyDown
	ClipEventKeyUp
	ClipEventData
	ClipEventPress
	ClipEventRelease
	ClipEventReleaseOutside
	ClipEventRollOver
	ClipEventRollOut
	ClipEventDragOver
	ClipEventDragOut
	ClipEventKeyPress
	ClipEventConstruct
	ClipEventInitialize
)

var nextInstanceID uint64

// MovieClipState is one placed instance of a MovieClipStatic: the mutable
// playhead, its own child set, and the per-instance flags/handles playback
// mutates frame to frame. It implements display.Node so it can be placed as
// a child of its parent's Children exactly like a leaf character.
type MovieClipState struct {
	instanceID uint64

	Static *MovieClipStatic

	CurrentFrame int // 1-based; 0 before the first run_frame
	TagCursorPos int // byte offset into Static.Bytes where the next tag starts

	Parent   *MovieClipState
	Children *display.Children

	AudioHandle sound.Handle
	ClipActions []ClipActionRecord

	flags Flags

	ScriptObject any // opaque handle to an external ActionScript object, if any

	depth      display.Depth
	placeFrame int
	name       string
	transform  display.Matrix
	cxform     display.Cxform
	visible    bool
	removed    bool
}

// NewRootState constructs the top-level MovieClipState for a loaded movie,
// not placed as anyone's child.
func NewRootState(static *MovieClipStatic, audio sound.Handle) *MovieClipState {
	return &MovieClipState{
		instanceID: atomic.AddUint64(&nextInstanceID, 1),
		Static:     static,
		Children:   display.NewChildren(),
		AudioHandle: audio,
		flags:      FlagPlaying,
		transform:  display.Matrix{ScaleX: 1, ScaleY: 1},
		cxform:     display.Cxform{RedMul: 1, GreenMul: 1, BlueMul: 1, AlphaMul: 1},
		visible:    true,
	}
}

// NewChildState constructs a MovieClipState for a sprite placed as a child,
// used when PlaceObject resolves a SpriteCharacter (§4.5).
func NewChildState(static *MovieClipStatic, depth display.Depth, placeFrame int, parent *MovieClipState, audio sound.Handle) *MovieClipState {
	s := NewRootState(static, audio)
	s.Parent = parent
	s.depth = depth
	s.placeFrame = placeFrame
	return s
}

// InstanceID is a stable per-instance identity, used by the Audio and
// ActionQueue collaborators to key per-instance state (they receive it as
// an opaque `any`/Handle, never this concrete type).
func (s *MovieClipState) InstanceID() uint64 { return s.instanceID }

// IsPlaying reports the Playing flag (§3).
func (s *MovieClipState) IsPlaying() bool { return s.flags&FlagPlaying != 0 }

// SetPlaying sets or clears the Playing flag — the Play()/Stop() control
// pair (§SUPPLEMENTED FEATURES).
func (s *MovieClipState) SetPlaying(playing bool) {
	if playing {
		s.flags |= FlagPlaying
	} else {
		s.flags &^= FlagPlaying
	}
}

// Play is the explicit control action resuming automatic frame advance.
func (s *MovieClipState) Play() { s.SetPlaying(true) }

// Stop is the explicit control action halting automatic frame advance
// without discarding the current display state.
func (s *MovieClipState) Stop() { s.SetPlaying(false) }

// IsInitialized reports the Initialized flag: whether this instance's
// Construct or Initialize lifecycle action has already been queued.
func (s *MovieClipState) IsInitialized() bool { return s.flags&FlagInitialized != 0 }

// MarkInitialized sets the Initialized flag.
func (s *MovieClipState) MarkInitialized() { s.flags |= FlagInitialized }

// --- display.Node implementation ---

func (s *MovieClipState) Depth() display.Depth           { return s.depth }
func (s *MovieClipState) SetDepth(d display.Depth)        { s.depth = d }
func (s *MovieClipState) PlaceFrame() int                 { return s.placeFrame }
func (s *MovieClipState) Transform() display.Matrix       { return s.transform }
func (s *MovieClipState) SetTransform(m display.Matrix)   { s.transform = m }
func (s *MovieClipState) ColorTransform() display.Cxform  { return s.cxform }
func (s *MovieClipState) SetColorTransform(c display.Cxform) { s.cxform = c }
func (s *MovieClipState) Visible() bool                   { return s.visible }
func (s *MovieClipState) SetVisible(v bool)                { s.visible = v }
func (s *MovieClipState) Removed() bool                   { return s.removed }
func (s *MovieClipState) SetRemoved(r bool)                { s.removed = r }
func (s *MovieClipState) CharacterID() uint16 {
	if s.Static == nil {
		return 0
	}
	return s.Static.CharacterID
}
func (s *MovieClipState) Name() string      { return s.name }
func (s *MovieClipState) SetName(n string)  { s.name = n }

// ResolveSpriteTimeline type-asserts a library.SpriteCharacter's opaque
// Timeline field back to *MovieClipStatic. Centralizing the assertion here
// (rather than at every call site) keeps the library<->clip cycle-avoidance
// pattern contained to one place.
func ResolveSpriteTimeline(sc *library.SpriteCharacter) (*MovieClipStatic, bool) {
	static, ok := sc.Timeline.(*MovieClipStatic)
	return static, ok
}

// QueueConstructAction appends this instance's Construct lifecycle action
// to the end of q; playback calls it the first time the instance is placed.
// DoInitAction actions, queued during preload, are already ahead of it.
func (s *MovieClipState) QueueConstructAction(q actionqueue.ActionQueue) {
	q.QueueAction(actionqueue.Action{Kind: actionqueue.KindConstruct, Target: s})
}
