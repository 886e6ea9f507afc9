package ecdsa

import (
	"errors"
	"math/big"
	"testing"

	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/curve"
	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/digest"
	"github.com/stretchr/testify/require"
)

// scalarReader yields the given scalars as 32-byte big-endian blocks, then
// repeats the last one forever.
type scalarReader struct {
	scalars []*big.Int
	pos     int
	buf     []byte
}

func newScalarReader(scalars ...int64) *scalarReader {
	r := &scalarReader{}
	for _, s := range scalars {
		r.scalars = append(r.scalars, big.NewInt(s))
	}
	return r
}

func newBigScalarReader(scalars ...*big.Int) *scalarReader {
	return &scalarReader{scalars: scalars}
}

func (r *scalarReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.buf) == 0 {
			i := r.pos
			if i >= len(r.scalars) {
				i = len(r.scalars) - 1
			}
			r.buf = r.scalars[i].FillBytes(make([]byte, 32))
			r.pos++
		}
		c := copy(p[n:], r.buf)
		r.buf = r.buf[c:]
		n += c
	}
	return n, nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy source closed")
}

// zeroReader never yields a usable scalar.
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func newTestEngine() *Engine {
	return NewEngine(curve.Secp256k1())
}

func hashOf(msg string) []byte {
	return digest.SHA256.Sum([]byte(msg))
}

func mustKeyPair(t *testing.T, e *Engine) *KeyPair {
	t.Helper()
	kp, err := e.GenerateKeyPair()
	require.NoError(t, err)
	return kp
}
