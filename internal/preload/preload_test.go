package preload

import (
	"testing"

	"github.com/coldfire-labs/swftimeline/internal/actionqueue"
	"github.com/coldfire-labs/swftimeline/internal/library"
	"github.com/coldfire-labs/swftimeline/internal/sound"
	"github.com/coldfire-labs/swftimeline/internal/tagcursor"
)

func shortTag(code int, payload []byte) []byte {
	raw := uint16(code<<6) | uint16(len(payload))
	return append([]byte{byte(raw), byte(raw >> 8)}, payload...)
}

func newEngine() *Engine {
	return New(library.New(), sound.NewInMemory(), actionqueue.NewInMemory(), 6)
}

func ui16(v uint16) []byte { return []byte{byte(v), byte(v >> 8)} }

func TestScanRegistersShapeCharacter(t *testing.T) {
	e := newEngine()
	data := shortTag(tagcursor.TagDefineShape, ui16(10))
	data = append(data, shortTag(tagcursor.TagEnd, nil)...)
	m := tagcursor.NewMovieBytes(1, data)

	_, err := e.Scan(0, tagcursor.Whole(m))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if _, kind, ok := e.Library.Get(10); !ok || kind != library.KindShape {
		t.Fatalf("expected shape character registered, ok=%v kind=%v", ok, kind)
	}
}

func TestScanCountsShowFrame(t *testing.T) {
	e := newEngine()
	data := shortTag(tagcursor.TagShowFrame, nil)
	data = append(data, shortTag(tagcursor.TagShowFrame, nil)...)
	data = append(data, shortTag(tagcursor.TagEnd, nil)...)
	m := tagcursor.NewMovieBytes(1, data)

	res, err := e.Scan(0, tagcursor.Whole(m))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if res.TotalFrames != 2 {
		t.Fatalf("expected 2 frames, got %d", res.TotalFrames)
	}
}

func TestScanFrameLabelDedupWarnsAndKeepsFirst(t *testing.T) {
	e := newEngine()
	label := append([]byte("start"), 0)
	data := shortTag(tagcursor.TagFrameLabel, label)
	data = append(data, shortTag(tagcursor.TagShowFrame, nil)...)
	data = append(data, shortTag(tagcursor.TagFrameLabel, label)...)
	data = append(data, shortTag(tagcursor.TagShowFrame, nil)...)
	data = append(data, shortTag(tagcursor.TagEnd, nil)...)
	m := tagcursor.NewMovieBytes(1, data)

	res, err := e.Scan(0, tagcursor.Whole(m))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if res.FrameLabels["start"] != 1 {
		t.Fatalf("expected label 'start' bound to frame 1 (first occurrence kept), got %d", res.FrameLabels["start"])
	}
}

func TestScanRecursesIntoDefineSprite(t *testing.T) {
	e := newEngine()
	inner := shortTag(tagcursor.TagDefineShape, ui16(99))
	inner = append(inner, shortTag(tagcursor.TagShowFrame, nil)...)
	inner = append(inner, shortTag(tagcursor.TagEnd, nil)...)

	spritePayload := append(ui16(5), ui16(1)...) // character id 5, frame count 1
	spritePayload = append(spritePayload, inner...)
	data := shortTag(tagcursor.TagDefineSprite, spritePayload)
	data = append(data, shortTag(tagcursor.TagEnd, nil)...)
	m := tagcursor.NewMovieBytes(1, data)

	_, err := e.Scan(0, tagcursor.Whole(m))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if _, kind, ok := e.Library.Get(99); !ok || kind != library.KindShape {
		t.Fatalf("expected nested shape 99 registered via recursive preload")
	}
	if _, kind, ok := e.Library.Get(5); !ok || kind != library.KindSprite {
		t.Fatalf("expected sprite 5 registered")
	}
}

func TestScanExportAssetsRegistersNames(t *testing.T) {
	e := newEngine()
	payload := ui16(1) // count=1
	payload = append(payload, ui16(7)...)
	payload = append(payload, append([]byte("Hero"), 0)...)
	data := shortTag(tagcursor.TagExportAssets, payload)
	data = append(data, shortTag(tagcursor.TagEnd, nil)...)
	m := tagcursor.NewMovieBytes(1, data)

	_, err := e.Scan(0, tagcursor.Whole(m))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	id, ok := e.Library.ResolveExport("hero")
	if !ok || id != 7 {
		t.Fatalf("expected exported name 'hero' -> id 7, got id=%d ok=%v", id, ok)
	}
}

func TestScanQueuesDoInitActionDedupedByCharacter(t *testing.T) {
	e := newEngine()
	payload := append(ui16(42), []byte{0x00}...) // character id then bytecode stub
	data := shortTag(tagcursor.TagDoInitAction, payload)
	data = append(data, shortTag(tagcursor.TagDoInitAction, payload)...)
	data = append(data, shortTag(tagcursor.TagEnd, nil)...)
	m := tagcursor.NewMovieBytes(1, data)

	_, err := e.Scan(0, tagcursor.Whole(m))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if e.Queue.Len() != 1 {
		t.Fatalf("expected duplicate DoInitAction for same character to dedup, got len %d", e.Queue.Len())
	}
}

func TestScanMalformedHeaderAbortsWithParseError(t *testing.T) {
	e := newEngine()
	m := tagcursor.NewMovieBytes(1, []byte{0x01})
	_, err := e.Scan(0, tagcursor.Whole(m))
	if err == nil {
		t.Fatalf("expected parse error for truncated stream")
	}
}
