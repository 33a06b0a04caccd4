package tagcursor

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"

	coreerrors "github.com/coldfire-labs/swftimeline/internal/errors"
)

// Twips are SWF's fixed-point display units: 1 pixel == 20 twips.
type Twips int32

// Rect is the bit-packed RECT record (§3): four signed fields sharing one
// bit width, read MSB-first.
type Rect struct {
	XMin, XMax, YMin, YMax Twips
}

// Matrix is the bit-packed MATRIX record used by PlaceObject variants to
// carry a 2D affine transform.
type Matrix struct {
	ScaleX, ScaleY       float64 // 1.0 when HasScale is false
	RotateSkew0, RotateSkew1 float64
	TranslateX, TranslateY   Twips
}

// Identity returns the MATRIX identity transform.
func Identity() Matrix {
	return Matrix{ScaleX: 1, ScaleY: 1}
}

// ColorTransform is the (possibly alpha-less) CXFORM record applied by
// PlaceObject2+ and button state changes.
type ColorTransform struct {
	RedMul, GreenMul, BlueMul, AlphaMul     float64
	RedAdd, GreenAdd, BlueAdd, AlphaAdd int32
}

// IdentityColorTransform returns a no-op color transform.
func IdentityColorTransform() ColorTransform {
	return ColorTransform{RedMul: 1, GreenMul: 1, BlueMul: 1, AlphaMul: 1}
}

// bitReader wraps bitio.Reader so callers can recover how many whole bytes were consumed (records are always
// byte-aligned at their end per the SWF spec).
type bitReader struct {
	r *bitio.Reader
}

func newBitReader(b []byte) *bitReader {
	return &bitReader{r: bitio.NewReader(bytes.NewReader(b))}
}

func (br *bitReader) readBits(n byte) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	v, err := br.r.ReadBits(n)
	if err != nil {
		return 0, coreerrors.NewParseError("bitreader.readBits", err)
	}
	return v, nil
}

func (br *bitReader) readSigned(n byte) (int32, error) {
	v, err := br.readBits(n)
	if err != nil {
		return 0, err
	}
	return signExtend(v, n), nil
}

func signExtend(v uint64, bits byte) int32 {
	shift := 64 - bits
	return int32(int64(v<<shift) >> shift)
}

// bytesConsumed rounds up to the next whole byte; RECT/MATRIX/CXFORM are
// always byte-aligned once fully read.
func (br *bitReader) bytesConsumed() int {
	return int((br.r.BitsCount + 7) / 8)
}

// ReadRect parses a RECT record starting at the beginning of b, returning
// the record and the number of bytes it occupied.
func ReadRect(b []byte) (Rect, int, error) {
	br := newBitReader(b)
	nbits, err := br.readBits(5)
	if err != nil {
		return Rect{}, 0, coreerrors.NewParseError("records.ReadRect", err)
	}
	n := byte(nbits)
	xmin, err := br.readSigned(n)
	if err != nil {
		return Rect{}, 0, err
	}
	xmax, err := br.readSigned(n)
	if err != nil {
		return Rect{}, 0, err
	}
	ymin, err := br.readSigned(n)
	if err != nil {
		return Rect{}, 0, err
	}
	ymax, err := br.readSigned(n)
	if err != nil {
		return Rect{}, 0, err
	}
	return Rect{
		XMin: Twips(xmin), XMax: Twips(xmax),
		YMin: Twips(ymin), YMax: Twips(ymax),
	}, br.bytesConsumed(), nil
}

// ReadMatrix parses a MATRIX record (§3), used by PlaceObject2/3 to decode
// the per-child transform delta.
func ReadMatrix(b []byte) (Matrix, int, error) {
	br := newBitReader(b)
	m := Identity()

	hasScale, err := br.readBits(1)
	if err != nil {
		return Matrix{}, 0, err
	}
	if hasScale == 1 {
		nbits, err := br.readBits(5)
		if err != nil {
			return Matrix{}, 0, err
		}
		sx, err := br.readSigned(byte(nbits))
		if err != nil {
			return Matrix{}, 0, err
		}
		sy, err := br.readSigned(byte(nbits))
		if err != nil {
			return Matrix{}, 0, err
		}
		m.ScaleX = fixed16(sx)
		m.ScaleY = fixed16(sy)
	}

	hasRotate, err := br.readBits(1)
	if err != nil {
		return Matrix{}, 0, err
	}
	if hasRotate == 1 {
		nbits, err := br.readBits(5)
		if err != nil {
			return Matrix{}, 0, err
		}
		r0, err := br.readSigned(byte(nbits))
		if err != nil {
			return Matrix{}, 0, err
		}
		r1, err := br.readSigned(byte(nbits))
		if err != nil {
			return Matrix{}, 0, err
		}
		m.RotateSkew0 = fixed16(r0)
		m.RotateSkew1 = fixed16(r1)
	}

	nTransBits, err := br.readBits(5)
	if err != nil {
		return Matrix{}, 0, err
	}
	tx, err := br.readSigned(byte(nTransBits))
	if err != nil {
		return Matrix{}, 0, err
	}
	ty, err := br.readSigned(byte(nTransBits))
	if err != nil {
		return Matrix{}, 0, err
	}
	m.TranslateX = Twips(tx)
	m.TranslateY = Twips(ty)

	return m, br.bytesConsumed(), nil
}

// ReadColorTransform parses a CXFORM record. withAlpha selects the
// PlaceObject2+/SoundStreamHead "RGBA" variant versus the plain RGB form
// used elsewhere.
func ReadColorTransform(b []byte, withAlpha bool) (ColorTransform, int, error) {
	br := newBitReader(b)
	ct := IdentityColorTransform()

	hasAdd, err := br.readBits(1)
	if err != nil {
		return ColorTransform{}, 0, err
	}
	hasMul, err := br.readBits(1)
	if err != nil {
		return ColorTransform{}, 0, err
	}
	nbitsRaw, err := br.readBits(4)
	if err != nil {
		return ColorTransform{}, 0, err
	}
	nbits := byte(nbitsRaw)

	readComponent := func() (float64, error) {
		v, err := br.readSigned(nbits)
		if err != nil {
			return 0, err
		}
		return fixed8(v), nil
	}
	readAddComponent := func() (int32, error) {
		return br.readSigned(nbits)
	}

	if hasMul == 1 {
		if ct.RedMul, err = readComponent(); err != nil {
			return ColorTransform{}, 0, err
		}
		if ct.GreenMul, err = readComponent(); err != nil {
			return ColorTransform{}, 0, err
		}
		if ct.BlueMul, err = readComponent(); err != nil {
			return ColorTransform{}, 0, err
		}
		if withAlpha {
			if ct.AlphaMul, err = readComponent(); err != nil {
				return ColorTransform{}, 0, err
			}
		}
	}
	if hasAdd == 1 {
		if ct.RedAdd, err = readAddComponent(); err != nil {
			return ColorTransform{}, 0, err
		}
		if ct.GreenAdd, err = readAddComponent(); err != nil {
			return ColorTransform{}, 0, err
		}
		if ct.BlueAdd, err = readAddComponent(); err != nil {
			return ColorTransform{}, 0, err
		}
		if withAlpha {
			if ct.AlphaAdd, err = readAddComponent(); err != nil {
				return ColorTransform{}, 0, err
			}
		}
	}

	return ct, br.bytesConsumed(), nil
}

// fixed16 converts a 16.16 fixed-point MATRIX scale/rotate field to float64.
func fixed16(v int32) float64 { return float64(v) / 65536.0 }

// fixed8 converts an 8.8 fixed-point CXFORM multiply field to float64.
func fixed8(v int32) float64 { return float64(v) / 256.0 }

// validateRect is a cheap sanity guard callers may invoke to reject obviously
// corrupt bounds (xmin>xmax etc.) without failing the whole preload pass.
func validateRect(r Rect) error {
	if r.XMin > r.XMax || r.YMin > r.YMax {
		return coreerrors.NewParseError("records.validateRect", fmt.Errorf("degenerate rect %+v", r))
	}
	return nil
}
