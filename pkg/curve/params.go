package curve

import (
	"math/big"
	"sync"

	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/field"
)

// Params is the immutable description of a short Weierstrass curve
// y² = x³ + a·x + b over F_p together with a generator G of prime order N.
//
// A Params value is built once and shared by pointer.  None of its methods
// modify it, so it needs no locking.
type Params struct {
	Name    string
	P       *big.Int // field prime
	A, B    *big.Int // curve coefficients
	N       *big.Int // order of G
	G       Point    // generator
	BitSize int

	fp *field.Field
	fn *field.Field
}

// Field returns the coordinate field F_p.
func (c *Params) Field() *field.Field {
	return c.fp
}

// ScalarField returns the field of scalars modulo N.
func (c *Params) ScalarField() *field.Field {
	return c.fn
}

var (
	initonce        sync.Once
	secp256k1Params *Params
)

func mustHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("curve: invalid hex constant " + s)
	}
	return v
}

func initSecp256k1() {
	// p = 2²⁵⁶ − 2³² − 977
	p := mustHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F")
	n := mustHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141")
	gx := mustHex("79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798")
	gy := mustHex("483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8")

	c := &Params{
		Name:    "secp256k1",
		P:       p,
		A:       big.NewInt(0),
		B:       big.NewInt(7),
		N:       n,
		BitSize: 256,
		fp:      field.New(p),
		fn:      field.New(n),
	}
	g, err := c.NewPoint(gx, gy)
	if err != nil {
		panic(err)
	}
	c.G = g
	secp256k1Params = c
}

// Secp256k1 returns the shared secp256k1 parameters.
func Secp256k1() *Params {
	initonce.Do(initSecp256k1)
	return secp256k1Params
}
