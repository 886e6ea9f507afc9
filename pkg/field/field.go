// Package field implements modular arithmetic over a prime modulus.
//
// A Field never mutates its inputs.  Every operation allocates a fresh result
// reduced into [0, m), so values can be shared freely between goroutines.
package field

import (
	"fmt"
	"math/big"
)

var one = big.NewInt(1)

// Field is the ring of integers modulo a prime m.
type Field struct {
	m *big.Int
}

// New returns the field of integers modulo the prime m.  The caller is
// responsible for m being prime; Inverse is only correct for prime moduli.
func New(m *big.Int) *Field {
	if m.Cmp(one) <= 0 {
		panic(fmt.Sprintf("field: modulus %s is not greater than one", m))
	}
	return &Field{m: new(big.Int).Set(m)}
}

// Modulus returns a copy of the field modulus.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.m)
}

// Reduce returns a mod m in [0, m).  Negative values are normalized.
func (f *Field) Reduce(a *big.Int) *big.Int {
	// big.Int.Mod is Euclidean, so the result is never negative.
	return new(big.Int).Mod(a, f.m)
}

// Add returns a + b mod m.
func (f *Field) Add(a, b *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, f.m)
}

// Sub returns a - b mod m.
func (f *Field) Sub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, f.m)
}

// Neg returns -a mod m.
func (f *Field) Neg(a *big.Int) *big.Int {
	r := new(big.Int).Neg(a)
	return r.Mod(r, f.m)
}

// Mul returns a * b mod m.
func (f *Field) Mul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, f.m)
}

// Square returns a² mod m.
func (f *Field) Square(a *big.Int) *big.Int {
	return f.Mul(a, a)
}

// Exp returns a^e mod m for e >= 0.
func (f *Field) Exp(a, e *big.Int) *big.Int {
	return new(big.Int).Exp(f.Reduce(a), e, f.m)
}

// Equal reports whether a ≡ b (mod m).
func (f *Field) Equal(a, b *big.Int) bool {
	return f.Reduce(a).Cmp(f.Reduce(b)) == 0
}

// IsZero reports whether a ≡ 0 (mod m).
func (f *Field) IsZero(a *big.Int) bool {
	return f.Reduce(a).Sign() == 0
}

// Inverse returns x such that a·x ≡ 1 (mod m), computed with the extended
// Euclidean algorithm.  It fails with ErrDomain when a ≡ 0 (mod m).
func (f *Field) Inverse(a *big.Int) (*big.Int, error) {
	r0 := f.Reduce(a)
	if r0.Sign() == 0 {
		return nil, makeError(ErrDomain, "field: zero has no multiplicative inverse")
	}

	// Invariant: t0·a ≡ r0 and t1·a ≡ r1 (mod m).
	r1 := new(big.Int).Set(f.m)
	t0, t1 := big.NewInt(1), big.NewInt(0)
	q, tmp := new(big.Int), new(big.Int)
	for r1.Sign() != 0 {
		q.Quo(r0, r1)

		tmp.Mul(q, r1)
		r0, r1 = r1, new(big.Int).Sub(r0, tmp)

		tmp.Mul(q, t1)
		t0, t1 = t1, new(big.Int).Sub(t0, tmp)
	}

	// r0 is gcd(a, m) here, which is 1 unless m is composite.
	if r0.Cmp(one) != 0 {
		str := fmt.Sprintf("field: %s is not invertible modulo %s", a, f.m)
		return nil, makeError(ErrDomain, str)
	}
	return t0.Mod(t0, f.m), nil
}

// Sqrt returns a square root of a when one exists.  Only moduli congruent to
// 3 mod 4 are supported, for which the root is a^((m+1)/4).
func (f *Field) Sqrt(a *big.Int) (*big.Int, bool) {
	if f.m.Bit(0) != 1 || f.m.Bit(1) != 1 {
		return nil, false
	}
	e := new(big.Int).Add(f.m, one)
	e.Rsh(e, 2)
	root := f.Exp(a, e)
	if f.Square(root).Cmp(f.Reduce(a)) != 0 {
		return nil, false
	}
	return root, true
}
