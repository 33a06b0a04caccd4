package tagcursor

import "testing"

// buildShortTag builds a short-form tag header (code, length<0x3F) followed
// by payload bytes.
func buildShortTag(code int, payload []byte) []byte {
	raw := uint16(code<<6) | uint16(len(payload))
	return append([]byte{byte(raw), byte(raw >> 8)}, payload...)
}

// buildLongTag forces the 0x3F escape regardless of payload size.
func buildLongTag(code int, payload []byte) []byte {
	raw := uint16(code<<6) | longFormLength
	b := []byte{byte(raw), byte(raw >> 8)}
	n := uint32(len(payload))
	b = append(b, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
	return append(b, payload...)
}

func TestReadTagHeaderShortForm(t *testing.T) {
	data := buildShortTag(TagShowFrame, nil)
	data = append(data, buildShortTag(TagEnd, nil)...)
	m := NewMovieBytes(1, data)
	c := NewCursor(Whole(m))

	h, err := c.ReadTagHeader()
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if h.Code != TagShowFrame || h.Length != 0 || h.HeaderLen != 2 {
		t.Fatalf("unexpected header: %+v", h)
	}
	if c.Pos() != 2 {
		t.Fatalf("expected pos 2, got %d", c.Pos())
	}

	h2, err := c.ReadTagHeader()
	if err != nil {
		t.Fatalf("read end header: %v", err)
	}
	if h2.Code != TagEnd {
		t.Fatalf("expected End tag, got code %d", h2.Code)
	}
}

func TestReadTagHeaderLongForm(t *testing.T) {
	payload := make([]byte, 100)
	for i := range payload {
		payload[i] = byte(i)
	}
	data := buildLongTag(TagDefineSprite, payload)
	m := NewMovieBytes(1, data)
	c := NewCursor(Whole(m))

	h, err := c.ReadTagHeader()
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if h.Code != TagDefineSprite || h.Length != 100 || h.HeaderLen != 6 {
		t.Fatalf("unexpected header: %+v", h)
	}

	p, err := c.ReadPayload(h.Length)
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if p.Len() != 100 || p.Bytes()[50] != 50 {
		t.Fatalf("unexpected payload contents")
	}
	if !c.AtEnd() {
		t.Fatalf("expected cursor at end after consuming whole buffer")
	}
}

func TestReadTagHeaderRejectsTruncatedStream(t *testing.T) {
	m := NewMovieBytes(1, []byte{0x01})
	c := NewCursor(Whole(m))
	if _, err := c.ReadTagHeader(); err == nil {
		t.Fatalf("expected parse error on 1-byte stream")
	}
}

func TestReadTagHeaderRejectsOverrunClaim(t *testing.T) {
	raw := uint16(TagDoAction<<6) | 50 // claims 50 bytes of payload
	data := []byte{byte(raw), byte(raw >> 8), 0x01, 0x02}
	m := NewMovieBytes(1, data)
	c := NewCursor(Whole(m))
	if _, err := c.ReadTagHeader(); err == nil {
		t.Fatalf("expected parse error for overrunning length claim")
	}
}

func TestSkipTagAdvancesPastPayload(t *testing.T) {
	data := buildShortTag(TagFrameLabel, []byte("start\x00"))
	data = append(data, buildShortTag(TagShowFrame, nil)...)
	m := NewMovieBytes(1, data)
	c := NewCursor(Whole(m))

	h, err := c.SkipTag()
	if err != nil {
		t.Fatalf("skip: %v", err)
	}
	if h.Code != TagFrameLabel {
		t.Fatalf("unexpected code %d", h.Code)
	}
	h2, err := c.ReadTagHeader()
	if err != nil {
		t.Fatalf("read next: %v", err)
	}
	if h2.Code != TagShowFrame {
		t.Fatalf("expected ShowFrame next, got %d", h2.Code)
	}
}

func TestSeekToRewindsForGoto(t *testing.T) {
	data := buildShortTag(TagShowFrame, nil)
	m := NewMovieBytes(1, data)
	c := NewCursor(Whole(m))
	if _, err := c.ReadTagHeader(); err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := c.SeekTo(0); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if c.Pos() != 0 {
		t.Fatalf("expected pos reset to 0, got %d", c.Pos())
	}
	if err := c.SeekTo(9999); err == nil {
		t.Fatalf("expected bounds error seeking past end")
	}
}

func TestRecoverClampsToSliceEnd(t *testing.T) {
	m := NewMovieBytes(1, []byte{1, 2, 3})
	c := NewCursor(Whole(m))
	c.Recover(9999)
	if c.Pos() != 3 {
		t.Fatalf("expected recover to clamp pos to slice len, got %d", c.Pos())
	}
}

func TestReadStringNullTerminated(t *testing.T) {
	b := []byte("hello\x00world")
	s, next, err := ReadString(b, 0)
	if err != nil {
		t.Fatalf("read string: %v", err)
	}
	if s != "hello" {
		t.Fatalf("unexpected string %q", s)
	}
	if next != 6 {
		t.Fatalf("expected next offset 6, got %d", next)
	}
}

func TestReadStringUnterminatedErrors(t *testing.T) {
	b := []byte("no terminator")
	if _, _, err := ReadString(b, 0); err == nil {
		t.Fatalf("expected parse error for unterminated string")
	}
}

func TestReadUI16LEAndUI32LE(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	v16, err := ReadUI16LE(b, 0)
	if err != nil || v16 != 0x0201 {
		t.Fatalf("unexpected ui16: %v err=%v", v16, err)
	}
	v32, err := ReadUI32LE(b, 0)
	if err != nil || v32 != 0x04030201 {
		t.Fatalf("unexpected ui32: %v err=%v", v32, err)
	}
	if _, err := ReadUI32LE(b, 4); err == nil {
		t.Fatalf("expected bounds error reading ui32 past end")
	}
}
