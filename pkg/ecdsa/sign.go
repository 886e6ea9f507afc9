package ecdsa

import (
	"fmt"
	"math/big"
)

// Sign signs a 32-byte message hash with priv.
//
// Each attempt draws a fresh nonce k, computes r = (k·G).x mod n and
// s = k⁻¹·(z + r·d) mod n, and starts over with a new nonce when either is
// zero.  The nonce must never repeat across messages: two signatures sharing
// k reveal d (see RecoverFromNonceReuse).
func (e *Engine) Sign(priv *PrivateKey, hash []byte) (*Signature, error) {
	if priv == nil || !e.inRange(priv.d) {
		return nil, signatureError(ErrInvalidPrivateKey, "ecdsa: private key must be in [1, n-1]")
	}
	z, err := e.hashToInt(hash)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		k, err := e.RandomScalar()
		if err != nil {
			return nil, err
		}
		sig, ok := e.signWithNonce(priv.d, z, k)
		if !ok {
			log.Debugf("Nonce on attempt %d produced r = 0 or s = 0, drawing a new one", attempt)
			continue
		}
		log.Tracef("Signed hash %x after %d attempt(s)", hash, attempt)
		return sig, nil
	}

	str := fmt.Sprintf("ecdsa: no usable nonce after %d attempts", e.maxAttempts)
	return nil, signatureError(ErrNonceRetriesExhausted, str)
}

// signWithNonce computes the signature of z under d for a fixed nonce
// k in [1, n-1].  It reports false when k yields r = 0 or s = 0.
func (e *Engine) signWithNonce(d, z, k *big.Int) (*Signature, bool) {
	fn := e.params.ScalarField()
	r := fn.Reduce(e.params.ScalarBaseMult(k).X())
	if r.Sign() == 0 {
		return nil, false
	}
	// k is nonzero and n is prime, so the inverse exists.
	kInv, err := fn.Inverse(k)
	if err != nil {
		return nil, false
	}
	s := fn.Mul(kInv, fn.Add(z, fn.Mul(r, d)))
	if s.Sign() == 0 {
		return nil, false
	}
	return &Signature{R: r, S: s}, true
}
