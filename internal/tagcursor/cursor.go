package tagcursor

import (
	"encoding/binary"
	"fmt"

	coreerrors "github.com/coldfire-labs/swftimeline/internal/errors"
)

// longFormLength is the escape value (0x3F) in a tag header's 6-bit length
// field signalling that the real length follows as a 4-byte little-endian
// word (§4.1).
const longFormLength = 0x3F

// Header describes one decoded tag header.
type Header struct {
	Code      int
	Length    int // payload length in bytes
	HeaderLen int // 2 or 6, bytes consumed by the header itself
}

// Cursor is a positioned reader over a Slice, yielding (code, length,
// payload) tuples tag by tag. It never mutates the underlying Slice; pos is
// relative to the slice's own window.
type Cursor struct {
	slice Slice
	pos   int
}

// NewCursor returns a cursor positioned at the start of slice.
func NewCursor(slice Slice) *Cursor {
	return &Cursor{slice: slice}
}

// Pos reports the current read position, relative to the cursor's slice.
func (c *Cursor) Pos() int { return c.pos }

// AtEnd reports whether the cursor has consumed the entire slice. A
// well-formed stream always terminates at an End tag before this becomes
// true; reaching AtEnd first is itself a parse anomaly callers may log.
func (c *Cursor) AtEnd() bool { return c.pos >= c.slice.Len() }

// SeekTo repositions the cursor absolutely within its slice, used by
// GotoEngine to rewind tag_cursor_pos to 0 or resume from a saved offset
// (§4.4).
func (c *Cursor) SeekTo(pos int) error {
	if pos < 0 || pos > c.slice.Len() {
		return coreerrors.NewBoundsError("cursor.seekTo", fmt.Errorf("pos=%d len=%d", pos, c.slice.Len()))
	}
	c.pos = pos
	return nil
}

// Slice returns the slice this cursor is reading.
func (c *Cursor) Slice() Slice { return c.slice }

// ReadTagHeader decodes the next tag header and advances past it, leaving
// the cursor positioned at the start of the tag's payload.
func (c *Cursor) ReadTagHeader() (Header, error) {
	rest := c.slice.Bytes()[c.pos:]
	if len(rest) < 2 {
		return Header{}, coreerrors.NewParseError("cursor.readTagHeader", fmt.Errorf("only %d bytes remain, need 2", len(rest)))
	}
	raw := binary.LittleEndian.Uint16(rest[0:2])
	code := int(raw >> 6)
	length := int(raw & 0x3F)
	headerLen := 2

	if length == longFormLength {
		if len(rest) < 6 {
			return Header{}, coreerrors.NewParseError("cursor.readTagHeader", fmt.Errorf("long-form header needs 6 bytes, have %d", len(rest)))
		}
		length = int(binary.LittleEndian.Uint32(rest[2:6]))
		headerLen = 6
	}

	if length < 0 || c.pos+headerLen+length > c.slice.Len() {
		return Header{}, coreerrors.NewParseError("cursor.readTagHeader",
			fmt.Errorf("tag code=%d claims length=%d past end of slice (pos=%d, sliceLen=%d)", code, length, c.pos, c.slice.Len()))
	}

	c.pos += headerLen
	return Header{Code: code, Length: length, HeaderLen: headerLen}, nil
}

// ReadPayload returns a sub-slice of length bytes starting at the cursor's
// current position and advances past it. Call after ReadTagHeader with
// header.Length.
func (c *Cursor) ReadPayload(length int) (Slice, error) {
	payload, err := c.slice.Sub(c.pos, c.pos+length)
	if err != nil {
		return Slice{}, coreerrors.NewBoundsError("cursor.readPayload", err)
	}
	c.pos += length
	return payload, nil
}

// SkipTag reads a header and discards its payload in one step, used by
// callers that only need to scan past a tag they don't otherwise handle.
func (c *Cursor) SkipTag() (Header, error) {
	h, err := c.ReadTagHeader()
	if err != nil {
		return Header{}, err
	}
	c.pos += h.Length
	return h, nil
}

// recoverToNextHeader advances the cursor past count bytes, used by callers
// recovering from a local per-tag parse error by skipping the tag's claimed
// length (or, if the length itself is unknown, a single byte) and resuming
// header scanning at the next boundary (§7: non-fatal tag errors).
func (c *Cursor) recoverToNextHeader(count int) {
	if count <= 0 {
		count = 1
	}
	c.pos += count
	if c.pos > c.slice.Len() {
		c.pos = c.slice.Len()
	}
}

// Recover skips forward by n bytes after a tag-local error, clamped to the
// slice's end. Exported so preload/playback can resume scanning without
// aborting the whole pass when a single tag's payload fails to parse.
func (c *Cursor) Recover(n int) { c.recoverToNextHeader(n) }

// --- primitive readers over a raw byte slice (used for payload contents) ---

// ReadUI8 reads one byte at off.
func ReadUI8(b []byte, off int) (uint8, error) {
	if off < 0 || off >= len(b) {
		return 0, coreerrors.NewBoundsError("tagcursor.ReadUI8", fmt.Errorf("off=%d len=%d", off, len(b)))
	}
	return b[off], nil
}

// ReadUI16LE reads a little-endian uint16 at off.
func ReadUI16LE(b []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(b) {
		return 0, coreerrors.NewBoundsError("tagcursor.ReadUI16LE", fmt.Errorf("off=%d len=%d", off, len(b)))
	}
	return binary.LittleEndian.Uint16(b[off : off+2]), nil
}

// ReadUI32LE reads a little-endian uint32 at off.
func ReadUI32LE(b []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(b) {
		return 0, coreerrors.NewBoundsError("tagcursor.ReadUI32LE", fmt.Errorf("off=%d len=%d", off, len(b)))
	}
	return binary.LittleEndian.Uint32(b[off : off+4]), nil
}

// ReadString reads a null-terminated string starting at off, returning the
// string and the offset just past the terminator. Used for FrameLabel and
// ExportAssets name fields.
func ReadString(b []byte, off int) (string, int, error) {
	if off < 0 || off > len(b) {
		return "", off, coreerrors.NewBoundsError("tagcursor.ReadString", fmt.Errorf("off=%d len=%d", off, len(b)))
	}
	for i := off; i < len(b); i++ {
		if b[i] == 0 {
			return string(b[off:i]), i + 1, nil
		}
	}
	return "", off, coreerrors.NewParseError("tagcursor.ReadString", fmt.Errorf("unterminated string starting at %d", off))
}
