package curve

import (
	"math/big"
)

var three = big.NewInt(3)

// Neg returns -p.
func (c *Params) Neg(p Point) Point {
	if !p.finite {
		return p
	}
	return Point{x: new(big.Int).Set(p.x), y: c.fp.Neg(p.y), finite: true}
}

// Add returns p + q under the group law.
func (c *Params) Add(p, q Point) Point {
	if !p.finite {
		return q
	}
	if !q.finite {
		return p
	}

	f := c.fp
	var lambda *big.Int
	if p.x.Cmp(q.x) == 0 {
		// Same x means q = ±p.  The inverse case also covers doubling a
		// point with y = 0.
		if f.IsZero(f.Add(p.y, q.y)) {
			return Point{}
		}
		// λ = (3x² + a) / 2y
		num := f.Add(f.Mul(three, f.Square(p.x)), c.A)
		lambda = f.Mul(num, mustInverse(f.Add(p.y, p.y), f.Inverse))
	} else {
		// λ = (y₂ − y₁) / (x₂ − x₁)
		lambda = f.Mul(f.Sub(q.y, p.y), mustInverse(f.Sub(q.x, p.x), f.Inverse))
	}

	x := f.Sub(f.Sub(f.Square(lambda), p.x), q.x)
	y := f.Sub(f.Mul(lambda, f.Sub(p.x, x)), p.y)
	return Point{x: x, y: y, finite: true}
}

// Double returns 2p.
func (c *Params) Double(p Point) Point {
	return c.Add(p, p)
}

// ScalarMult returns k·p.  k is first reduced modulo N, so any integer,
// including a negative one, is accepted and k ≡ 0 yields infinity.
func (c *Params) ScalarMult(k *big.Int, p Point) Point {
	k = c.fn.Reduce(k)
	var acc Point
	for i := k.BitLen() - 1; i >= 0; i-- {
		acc = c.Double(acc)
		if k.Bit(i) == 1 {
			acc = c.Add(acc, p)
		}
	}
	return acc
}

// ScalarBaseMult returns k·G.
func (c *Params) ScalarBaseMult(k *big.Int) Point {
	return c.ScalarMult(k, c.G)
}

// mustInverse panics when the denominator vanishes.  Add only calls it after
// ruling out the cases where that can happen for points on the curve.
func mustInverse(a *big.Int, inverse func(*big.Int) (*big.Int, error)) *big.Int {
	inv, err := inverse(a)
	if err != nil {
		panic(err)
	}
	return inv
}
