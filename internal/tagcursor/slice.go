// Package tagcursor implements the binary tag-stream reader that every other
// component in this repository scans with: a positioned cursor over an
// immutable, shared, sub-sliceable byte buffer (§4.1 of the spec).
//
// Design mirrors the teacher's chunk dechunker (internal/rtmp/chunk in the
// retrieved reference): a small stateful reader delegating header parsing to
// a dedicated function, advancing a position by exactly the bytes consumed,
// and reporting local errors without aborting the whole stream.
package tagcursor

import (
	"fmt"

	coreerrors "github.com/coldfire-labs/swftimeline/internal/errors"
)

// MovieBytes is the immutable byte buffer backing every TimelineSlice derived
// from one loaded movie. Many clips (the root timeline and every nested
// sprite) share the same MovieBytes; only their [start,end) windows differ.
type MovieBytes struct {
	ID   uint32
	Data []byte
}

// NewMovieBytes wraps a decoded movie's tag bytes for sharing across clips.
func NewMovieBytes(id uint32, data []byte) *MovieBytes {
	return &MovieBytes{ID: id, Data: data}
}

// Slice is a (movie, start, end) window — the TimelineSlice of §3. It is a
// small value type: cloning is a 3-word copy, and Sub produces a narrower
// window into the same backing array without copying bytes. The invariant
// start <= end <= len(buffer) holds by construction of Sub/Whole.
type Slice struct {
	movie      *MovieBytes
	start, end int
}

// Whole returns a slice spanning the entire backing buffer.
func Whole(m *MovieBytes) Slice {
	return Slice{movie: m, start: 0, end: len(m.Data)}
}

// Len reports the number of bytes in the window.
func (s Slice) Len() int { return s.end - s.start }

// Bytes returns the windowed bytes. Callers must treat the result as
// read-only; it aliases the shared backing array.
func (s Slice) Bytes() []byte {
	if s.movie == nil {
		return nil
	}
	return s.movie.Data[s.start:s.end]
}

// MovieID identifies the shared buffer this slice was cut from.
func (s Slice) MovieID() uint32 {
	if s.movie == nil {
		return 0
	}
	return s.movie.ID
}

// Valid reports whether the slice has a backing buffer at all (the zero
// value of Slice is not valid — callers use this to detect "no bytes").
func (s Slice) Valid() bool { return s.movie != nil }

// Sub returns the window [relStart, relEnd) relative to this slice's own
// start, still backed by the same buffer. It never widens past the current
// window — sub-slicing is strictly narrowing, matching the invariant a
// nested DefineSprite's bytes can never reach outside its parent's window.
func (s Slice) Sub(relStart, relEnd int) (Slice, error) {
	if relStart < 0 || relEnd < relStart {
		return Slice{}, coreerrors.NewBoundsError("slice.sub", fmt.Errorf("invalid range [%d,%d)", relStart, relEnd))
	}
	abs0 := s.start + relStart
	abs1 := s.start + relEnd
	if abs1 > s.end {
		return Slice{}, coreerrors.NewBoundsError("slice.sub", fmt.Errorf("range [%d,%d) exceeds window of %d bytes", relStart, relEnd, s.Len()))
	}
	return Slice{movie: s.movie, start: abs0, end: abs1}, nil
}

// From returns the suffix of this slice starting at rel (a convenience over
// Sub(rel, s.Len())), used by PreloadEngine to cut a DefineSprite body and a
// DoInitAction's bytecode out of their tag payloads.
func (s Slice) From(rel int) (Slice, error) {
	return s.Sub(rel, s.Len())
}
