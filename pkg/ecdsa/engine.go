package ecdsa

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/curve"
	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/digest"
)

// DefaultMaxAttempts bounds both nonce retries during signing and rejection
// sampling of random scalars.
const DefaultMaxAttempts = 255

// Engine generates keys, signs and verifies over one set of curve
// parameters.  An Engine holds no per-call state and is safe for concurrent
// use as long as its random source is.
type Engine struct {
	params      *curve.Params
	rand        io.Reader
	maxAttempts int
}

// NewEngine creates an engine over params that draws randomness from
// crypto/rand.
func NewEngine(params *curve.Params) *Engine {
	return &Engine{
		params:      params,
		rand:        rand.Reader,
		maxAttempts: DefaultMaxAttempts,
	}
}

// WithRand sets the random source used for private keys and nonces.  It must
// be cryptographically secure outside of tests.
func (e *Engine) WithRand(r io.Reader) *Engine {
	e.rand = r
	return e
}

// WithMaxAttempts sets the retry bound for nonce and scalar sampling.
func (e *Engine) WithMaxAttempts(n int) *Engine {
	if n > 0 {
		e.maxAttempts = n
	}
	return e
}

// Params returns the curve parameters of the engine.
func (e *Engine) Params() *curve.Params {
	return e.params
}

// RandomScalar draws a scalar uniformly from [1, n-1] by rejection sampling.
func (e *Engine) RandomScalar() (*big.Int, error) {
	n := e.params.N
	buf := make([]byte, (n.BitLen()+7)/8)
	for i := 0; i < e.maxAttempts; i++ {
		if _, err := io.ReadFull(e.rand, buf); err != nil {
			str := fmt.Sprintf("ecdsa: random source failed: %v", err)
			return nil, signatureError(ErrEntropyUnavailable, str)
		}
		k := new(big.Int).SetBytes(buf)
		if k.Sign() > 0 && k.Cmp(n) < 0 {
			return k, nil
		}
	}
	str := fmt.Sprintf("ecdsa: random source produced no scalar in [1, n-1] after %d draws", e.maxAttempts)
	return nil, signatureError(ErrEntropyUnavailable, str)
}

// hashToInt interprets a 32-byte message hash as a big-endian integer
// reduced modulo n.
func (e *Engine) hashToInt(hash []byte) (*big.Int, error) {
	if len(hash) != digest.Size {
		str := fmt.Sprintf("ecdsa: message hash must be %d bytes, got %d", digest.Size, len(hash))
		return nil, signatureError(ErrInvalidInputLength, str)
	}
	return e.params.ScalarField().Reduce(new(big.Int).SetBytes(hash)), nil
}

// inRange reports whether 1 <= v <= n-1.
func (e *Engine) inRange(v *big.Int) bool {
	return v != nil && v.Sign() > 0 && v.Cmp(e.params.N) < 0
}
