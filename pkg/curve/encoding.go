package curve

import (
	"fmt"
	"math/big"
)

// SEC1 format bytes.
const (
	formatCompressedEven byte = 0x02
	formatCompressedOdd  byte = 0x03
	formatUncompressed   byte = 0x04
)

// byteLen returns the size of one serialized coordinate.
func (c *Params) byteLen() int {
	return (c.BitSize + 7) / 8
}

// Marshal serializes p in SEC1 form, 33 bytes when compressed and 65 bytes
// otherwise.  The point at infinity serializes to nil.
func (c *Params) Marshal(p Point, compressed bool) []byte {
	if !p.finite {
		return nil
	}
	size := c.byteLen()
	if compressed {
		out := make([]byte, 1+size)
		out[0] = formatCompressedEven
		if p.y.Bit(0) == 1 {
			out[0] = formatCompressedOdd
		}
		p.x.FillBytes(out[1:])
		return out
	}
	out := make([]byte, 1+2*size)
	out[0] = formatUncompressed
	p.x.FillBytes(out[1 : 1+size])
	p.y.FillBytes(out[1+size:])
	return out
}

// ParsePoint decodes a SEC1 compressed or uncompressed point.
func (c *Params) ParsePoint(b []byte) (Point, error) {
	size := c.byteLen()
	if len(b) == 0 {
		return Point{}, makeError(ErrInvalidPointEncoding, "curve: empty point encoding")
	}

	switch b[0] {
	case formatUncompressed:
		if len(b) != 1+2*size {
			str := fmt.Sprintf("curve: uncompressed point must be %d bytes, got %d", 1+2*size, len(b))
			return Point{}, makeError(ErrInvalidPointEncoding, str)
		}
		x := new(big.Int).SetBytes(b[1 : 1+size])
		y := new(big.Int).SetBytes(b[1+size:])
		return c.NewPoint(x, y)

	case formatCompressedEven, formatCompressedOdd:
		if len(b) != 1+size {
			str := fmt.Sprintf("curve: compressed point must be %d bytes, got %d", 1+size, len(b))
			return Point{}, makeError(ErrInvalidPointEncoding, str)
		}
		x := new(big.Int).SetBytes(b[1:])
		if x.Cmp(c.P) >= 0 {
			return Point{}, makeError(ErrInvalidPointEncoding, "curve: x coordinate overflows the field prime")
		}
		y, ok := c.fp.Sqrt(c.rhs(x))
		if !ok {
			str := fmt.Sprintf("curve: no point on %s with x = %s", c.Name, x)
			return Point{}, makeError(ErrPointNotOnCurve, str)
		}
		if y.Bit(0) != uint(b[0]&1) {
			y = c.fp.Neg(y)
		}
		return c.NewPoint(x, y)

	default:
		str := fmt.Sprintf("curve: unknown point format byte 0x%02x", b[0])
		return Point{}, makeError(ErrInvalidPointEncoding, str)
	}
}
