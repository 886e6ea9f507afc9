package curve

import (
	"fmt"
	"math/big"
)

// Point is an affine curve point or the point at infinity.  The zero value is
// the point at infinity.  Points are values: arithmetic always returns a new
// Point and accessors hand out copies of the coordinates.
type Point struct {
	x, y   *big.Int
	finite bool
}

// Infinity returns the identity element of the group.
func Infinity() Point {
	return Point{}
}

// IsInfinity reports whether p is the point at infinity.
func (p Point) IsInfinity() bool {
	return !p.finite
}

// X returns a copy of the x coordinate, or nil for the point at infinity.
func (p Point) X() *big.Int {
	if !p.finite {
		return nil
	}
	return new(big.Int).Set(p.x)
}

// Y returns a copy of the y coordinate, or nil for the point at infinity.
func (p Point) Y() *big.Int {
	if !p.finite {
		return nil
	}
	return new(big.Int).Set(p.y)
}

// Equal reports whether p and q are the same point.
func (p Point) Equal(q Point) bool {
	if !p.finite || !q.finite {
		return p.finite == q.finite
	}
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

// String returns the decimal coordinates of p.
func (p Point) String() string {
	if !p.finite {
		return "(infinity)"
	}
	return fmt.Sprintf("(%s, %s)", p.x, p.y)
}

// NewPoint returns the point (x, y) after checking that the coordinates are
// reduced modulo p and satisfy the curve equation.
func (c *Params) NewPoint(x, y *big.Int) (Point, error) {
	if x == nil || y == nil {
		return Point{}, makeError(ErrPointNotOnCurve, "curve: missing coordinate")
	}
	if x.Sign() < 0 || x.Cmp(c.P) >= 0 || y.Sign() < 0 || y.Cmp(c.P) >= 0 {
		str := fmt.Sprintf("curve: coordinates (%s, %s) are not reduced modulo p", x, y)
		return Point{}, makeError(ErrPointNotOnCurve, str)
	}
	pt := Point{x: new(big.Int).Set(x), y: new(big.Int).Set(y), finite: true}
	if !c.IsOnCurve(pt) {
		str := fmt.Sprintf("curve: point %s is not on %s", pt, c.Name)
		return Point{}, makeError(ErrPointNotOnCurve, str)
	}
	return pt, nil
}

// IsOnCurve reports whether p satisfies y² = x³ + a·x + b (mod p).  The point
// at infinity is on every curve.
func (c *Params) IsOnCurve(p Point) bool {
	if !p.finite {
		return true
	}
	return c.fp.Square(p.y).Cmp(c.rhs(p.x)) == 0
}

// rhs returns x³ + a·x + b mod p.
func (c *Params) rhs(x *big.Int) *big.Int {
	f := c.fp
	x3 := f.Mul(f.Square(x), x)
	return f.Add(f.Add(x3, f.Mul(c.A, x)), c.B)
}
