// Package curve implements affine point arithmetic on short Weierstrass
// curves y² = x³ + a·x + b and provides the secp256k1 parameters.
//
// Points are immutable values; the zero Point is the point at infinity.  All
// group operations are methods on *Params so that every point is interpreted
// against one shared, read-only set of curve constants:
//
//	c := curve.Secp256k1()
//	q := c.ScalarBaseMult(k)
//	enc := c.Marshal(q, true)
//
// The arithmetic is variable time.
package curve
