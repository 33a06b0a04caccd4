// Package sound defines the Audio collaborator (§4.7): the boundary between
// this core's tag-driven sound lifecycle bookkeeping and an actual mixer/
// decoder, which is explicitly out of scope (§ Non-goals). Grounded on the
// teacher's media.Subscriber/Stream split (internal/rtmp/media/relay.go in
// the retrieved reference): a narrow interface the playback package calls
// through, plus a default in-memory implementation usable in tests and the
// demo CLI without wiring a real audio backend.
package sound

import (
	"sync"

	"github.com/coldfire-labs/swftimeline/internal/tagcursor"
)

// Handle identifies one clip instance's sound channel — the handle StartSound
// Stop actions and StopSoundsWithHandle target (§4.7). Playback gives a
// placed sprite instance its parent's handle.
type Handle uint64

// StartMode mirrors the SWF StartSound Event/Start/Stop semantics (§4.7).
type StartMode int

const (
	// ModeEvent plays overlapping instances freely.
	ModeEvent StartMode = iota
	// ModeStart plays only if no instance of this sound is already playing
	// on the given handle.
	ModeStart
	// ModeStop halts any playing instance of this sound on the given handle.
	ModeStop
)

// StreamHeadInfo is the metadata a SoundStreamHead[2] tag carries, recorded
// during preload and consulted when the stream actually starts during
// playback.
type StreamHeadInfo struct {
	SampleRate      uint32
	Channels        int
	AvgSamplesPerFrame uint32
}

// Audio is the collaborator interface playback and preload call through.
// All methods are non-fatal on failure: callers wrap errors as
// ResourceError and continue (§7).
type Audio interface {
	// PreloadSoundStreamHead records stream format metadata seen for
	// characterID during the PreloadEngine pass (§4.2).
	PreloadSoundStreamHead(characterID uint16, info StreamHeadInfo) error
	// PreloadSoundStreamBlock hands one frame's worth of streaming audio
	// payload to the collaborator during preload, for characterID's clip.
	PreloadSoundStreamBlock(characterID uint16, payload tagcursor.Slice) error
	// PreloadSoundStreamEnd signals the final End tag was reached while
	// scanning characterID's tag stream.
	PreloadSoundStreamEnd(characterID uint16)

	// StartStream begins (or resumes) streaming playback for handle at
	// characterID's registered stream format (§4.7, pacing tied to
	// SoundStreamBlock delivery during FrameRunner).
	StartStream(handle Handle, characterID uint16) error
	// StartSound applies StartSound/StartSound2 Event/Start/Stop semantics
	// for soundID on handle.
	StartSound(handle Handle, soundID uint16, mode StartMode, loopCount int) error
	// StopStream halts streaming playback for handle.
	StopStream(handle Handle)
	// IsStreamActive reports whether handle currently has a streaming
	// playback in progress, used by FrameRunner's start/stop-on-silence
	// gating (§4.3 step 4, §4.7).
	IsStreamActive(handle Handle) bool
	// IsSoundPlayingWithHandle reports whether soundID currently has an
	// active instance under handle, used by ModeStart's guard.
	IsSoundPlayingWithHandle(handle Handle, soundID uint16) bool
	// StopSoundsWithHandle halts every sound (event and streaming) attached
	// to handle, called when a clip instance is removed (§4.6).
	StopSoundsWithHandle(handle Handle)
}

// streamMeta is preload-time bookkeeping per sprite character.
type streamMeta struct {
	info   StreamHeadInfo
	blocks int
	ended  bool
}

// InMemory is a dependency-free Audio implementation: it tracks what would
// be playing without producing actual sound, suitable for tests and the
// swfplayer CLI's trace mode.
type InMemory struct {
	mu       sync.Mutex
	streams  map[uint16]*streamMeta
	playing  map[Handle]map[uint16]int // handle -> soundID -> active instance count
	streaming map[Handle]uint16        // handle -> characterID currently streaming
}

// NewInMemory returns an empty in-memory Audio collaborator.
func NewInMemory() *InMemory {
	return &InMemory{
		streams:   make(map[uint16]*streamMeta),
		playing:   make(map[Handle]map[uint16]int),
		streaming: make(map[Handle]uint16),
	}
}

func (a *InMemory) PreloadSoundStreamHead(characterID uint16, info StreamHeadInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.streams[characterID] = &streamMeta{info: info}
	return nil
}

func (a *InMemory) PreloadSoundStreamBlock(characterID uint16, payload tagcursor.Slice) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	m, ok := a.streams[characterID]
	if !ok {
		m = &streamMeta{}
		a.streams[characterID] = m
	}
	m.blocks++
	return nil
}

func (a *InMemory) PreloadSoundStreamEnd(characterID uint16) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if m, ok := a.streams[characterID]; ok {
		m.ended = true
	}
}

func (a *InMemory) StartStream(handle Handle, characterID uint16) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.streaming[handle] = characterID
	return nil
}

func (a *InMemory) StopStream(handle Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.streaming, handle)
}

func (a *InMemory) IsStreamActive(handle Handle) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.streaming[handle]
	return ok
}

func (a *InMemory) StartSound(handle Handle, soundID uint16, mode StartMode, loopCount int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	counts, ok := a.playing[handle]
	if !ok {
		counts = make(map[uint16]int)
		a.playing[handle] = counts
	}

	switch mode {
	case ModeStop:
		delete(counts, soundID)
	case ModeStart:
		if counts[soundID] > 0 {
			return nil // already playing on this handle: no-op per §4.7
		}
		if loopCount < 1 {
			loopCount = 1
		}
		counts[soundID] = loopCount
	case ModeEvent:
		if loopCount < 1 {
			loopCount = 1
		}
		counts[soundID] += loopCount
	}
	return nil
}

func (a *InMemory) IsSoundPlayingWithHandle(handle Handle, soundID uint16) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	counts, ok := a.playing[handle]
	if !ok {
		return false
	}
	return counts[soundID] > 0
}

func (a *InMemory) StopSoundsWithHandle(handle Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.playing, handle)
	delete(a.streaming, handle)
}
