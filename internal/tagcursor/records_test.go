package tagcursor

import (
	"bytes"
	"testing"

	"github.com/icza/bitio"
)

// bitWriter is a tiny test-only helper building byte-aligned bit fixtures,
// mirroring the read side's MSB-first convention.
type bitWriter struct {
	buf *bytes.Buffer
	w   *bitio.Writer
}

func newBitWriter() *bitWriter {
	buf := &bytes.Buffer{}
	return &bitWriter{buf: buf, w: bitio.NewWriter(buf)}
}

func (bw *bitWriter) writeBits(v uint64, n byte) {
	if err := bw.w.WriteBits(v, n); err != nil {
		panic(err)
	}
}

func (bw *bitWriter) bytes() []byte {
	if err := bw.w.Close(); err != nil {
		panic(err)
	}
	return bw.buf.Bytes()
}

func TestReadRectRoundTrip(t *testing.T) {
	bw := newBitWriter()
	bw.writeBits(16, 5) // nbits field
	bw.writeBits(uint64(uint16(0)), 16)
	bw.writeBits(uint64(uint16(200)), 16)
	bw.writeBits(uint64(uint16(0)), 16)
	bw.writeBits(uint64(uint16(100)), 16)
	data := bw.bytes()

	r, n, err := ReadRect(data)
	if err != nil {
		t.Fatalf("read rect: %v", err)
	}
	if r.XMin != 0 || r.XMax != 200 || r.YMin != 0 || r.YMax != 100 {
		t.Fatalf("unexpected rect: %+v", r)
	}
	if n <= 0 || n > len(data) {
		t.Fatalf("unexpected byte count: %d", n)
	}
}

func TestReadMatrixIdentityWhenNoFlags(t *testing.T) {
	bw := newBitWriter()
	bw.writeBits(0, 1) // no scale
	bw.writeBits(0, 1) // no rotate
	bw.writeBits(10, 5) // translate nbits
	bw.writeBits(uint64(uint32(5))&0x3FF, 10)
	bw.writeBits(uint64(uint32(7))&0x3FF, 10)
	data := bw.bytes()

	m, _, err := ReadMatrix(data)
	if err != nil {
		t.Fatalf("read matrix: %v", err)
	}
	if m.ScaleX != 1 || m.ScaleY != 1 {
		t.Fatalf("expected identity scale, got %+v", m)
	}
	if m.TranslateX != 5 || m.TranslateY != 7 {
		t.Fatalf("unexpected translation: %+v", m)
	}
}

func TestReadColorTransformNoAlphaDefaultsIdentity(t *testing.T) {
	bw := newBitWriter()
	bw.writeBits(0, 1) // has add
	bw.writeBits(0, 1) // has mul
	bw.writeBits(0, 4) // nbits
	data := bw.bytes()

	ct, _, err := ReadColorTransform(data, false)
	if err != nil {
		t.Fatalf("read cxform: %v", err)
	}
	if ct.RedMul != 1 || ct.GreenMul != 1 || ct.BlueMul != 1 || ct.AlphaMul != 1 {
		t.Fatalf("expected identity multipliers, got %+v", ct)
	}
	if ct.RedAdd != 0 || ct.AlphaAdd != 0 {
		t.Fatalf("expected zero additives, got %+v", ct)
	}
}

func TestValidateRectRejectsDegenerate(t *testing.T) {
	bad := Rect{XMin: 100, XMax: 0, YMin: 0, YMax: 10}
	if err := validateRect(bad); err == nil {
		t.Fatalf("expected error for degenerate rect")
	}
	good := Rect{XMin: 0, XMax: 100, YMin: 0, YMax: 50}
	if err := validateRect(good); err != nil {
		t.Fatalf("unexpected error for valid rect: %v", err)
	}
}
