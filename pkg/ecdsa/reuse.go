package ecdsa

import (
	"bytes"
	"fmt"
	"math/big"
)

// RecoverFromRelatedNonces recovers the private key from two signatures
// whose nonces satisfy k₂ = a·k₁ + b.
//
// From s·k = z + r·d for both signatures:
//
//	d = (a·s₂·z₁ − s₁·z₂ + b·s₁·s₂) / (r₂·s₁ − a·r₁·s₂)  mod n
//
// z1 and z2 are the 32-byte message hashes.
func (e *Engine) RecoverFromRelatedNonces(z1 []byte, sig1 *Signature, z2 []byte, sig2 *Signature, a, b *big.Int) (*PrivateKey, error) {
	h1, err := e.hashToInt(z1)
	if err != nil {
		return nil, err
	}
	h2, err := e.hashToInt(z2)
	if err != nil {
		return nil, err
	}
	for _, sig := range []*Signature{sig1, sig2} {
		if sig == nil || !e.inRange(sig.R) || !e.inRange(sig.S) {
			return nil, signatureError(ErrInvalidSignatureRange, "ecdsa: signature r and s must be in [1, n-1]")
		}
	}

	fn := e.params.ScalarField()
	num := fn.Sub(fn.Mul(fn.Mul(a, sig2.S), h1), fn.Mul(sig1.S, h2))
	num = fn.Add(num, fn.Mul(fn.Mul(b, sig1.S), sig2.S))
	den := fn.Sub(fn.Mul(sig2.R, sig1.S), fn.Mul(fn.Mul(a, sig1.R), sig2.S))

	denInv, err := fn.Inverse(den)
	if err != nil {
		return nil, signatureError(ErrKeyNotRecoverable, "ecdsa: signatures do not determine the private key")
	}
	d := fn.Mul(num, denInv)
	if d.Sign() == 0 {
		return nil, signatureError(ErrKeyNotRecoverable, "ecdsa: recovered scalar is zero")
	}
	return &PrivateKey{d: d}, nil
}

// RecoverFromNonceReuse recovers the private key from two signatures over
// different messages made with the same nonce.
func (e *Engine) RecoverFromNonceReuse(z1 []byte, sig1 *Signature, z2 []byte, sig2 *Signature) (*PrivateKey, error) {
	return e.RecoverFromRelatedNonces(z1, sig1, z2, sig2, big.NewInt(1), big.NewInt(0))
}

// NonceReuseFinding reports a pair of records signed under the same key with
// the same nonce.
type NonceReuseFinding struct {
	Pair       [2]int      // indices into the audited records
	A, B       *big.Int    // nonce relationship k₂ = A·k₁ + B
	Pattern    string      // name of the relationship that matched
	PrivateKey *PrivateKey // recovered key
	Verified   bool        // recovered key matches the records' public key
}

// AuditNonceReuse looks for records that share r under the same public key
// and recovers the private key for each such pair.  Only pairs whose
// recovered key matches the public key are reported.  Records that are
// malformed or sign the same hash are skipped.
func (e *Engine) AuditNonceReuse(records []*Record) []NonceReuseFinding {
	type groupKey struct {
		pub string
		r   string
	}
	seen := make(map[groupKey][]int)
	var findings []NonceReuseFinding

	for i, rec := range records {
		if !auditable(rec) {
			continue
		}
		key := groupKey{
			pub: string(rec.PublicKey.SerializeCompressed()),
			r:   rec.Signature.R.String(),
		}
		for _, j := range seen[key] {
			prev := records[j]
			if bytes.Equal(prev.Hash, rec.Hash) {
				continue
			}
			f := e.recoverSharedR(records, j, i)
			if f == nil {
				log.Debugf("Records %d and %d share r but no key matching the public key was recovered", j, i)
				continue
			}
			log.Warnf("Records %d and %d reuse a nonce (%s)", j, i, f.Pattern)
			findings = append(findings, *f)
		}
		seen[key] = append(seen[key], i)
	}
	return findings
}

// recoverSharedR handles two records with equal r, which means k₂ = k₁ or
// k₂ = −k₁.  Only a key matching the public key is returned.
func (e *Engine) recoverSharedR(records []*Record, i, j int) *NonceReuseFinding {
	r1, r2 := records[i], records[j]
	candidates := []struct {
		a       int64
		pattern string
	}{
		{1, "same_nonce"},
		{-1, "negated"},
	}
	for _, c := range candidates {
		a, b := big.NewInt(c.a), big.NewInt(0)
		priv, err := e.RecoverFromRelatedNonces(r1.Hash, r1.Signature, r2.Hash, r2.Signature, a, b)
		if err != nil {
			continue
		}
		if !e.params.ScalarBaseMult(priv.d).Equal(r1.PublicKey.point) {
			continue
		}
		return &NonceReuseFinding{
			Pair:       [2]int{i, j},
			A:          a,
			B:          b,
			Pattern:    c.pattern,
			PrivateKey: priv,
			Verified:   true,
		}
	}
	return nil
}

// AuditRelatedNonces tries every pair of records under the same public key
// assuming k₂ = a·k₁ + b and reports the pairs whose recovered key matches
// the public key.
func (e *Engine) AuditRelatedNonces(records []*Record, a, b *big.Int) []NonceReuseFinding {
	var findings []NonceReuseFinding
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			r1, r2 := records[i], records[j]
			if !auditable(r1) || !auditable(r2) || !r1.PublicKey.Equal(r2.PublicKey) {
				continue
			}
			priv, err := e.RecoverFromRelatedNonces(r1.Hash, r1.Signature, r2.Hash, r2.Signature, a, b)
			if err != nil {
				continue
			}
			if !e.params.ScalarBaseMult(priv.d).Equal(r1.PublicKey.point) {
				continue
			}
			log.Warnf("Records %d and %d use nonces related by k2 = %v*k1 + %v", i, j, a, b)
			findings = append(findings, NonceReuseFinding{
				Pair:       [2]int{i, j},
				A:          new(big.Int).Set(a),
				B:          new(big.Int).Set(b),
				Pattern:    fmt.Sprintf("known_a%v_b%v", a, b),
				PrivateKey: priv,
				Verified:   true,
			})
		}
	}
	return findings
}

func auditable(rec *Record) bool {
	return rec != nil && rec.Signature != nil && rec.Signature.R != nil && rec.PublicKey.IsValid()
}

// String describes the finding without revealing the recovered key.
func (f NonceReuseFinding) String() string {
	if f.A == nil || f.B == nil || (f.A.Cmp(big.NewInt(1)) == 0 && f.B.Sign() == 0) {
		return fmt.Sprintf("records %d and %d share a nonce (key verified: %v)", f.Pair[0], f.Pair[1], f.Verified)
	}
	return fmt.Sprintf("records %d and %d have nonces related by k2 = %v*k1 + %v (key verified: %v)",
		f.Pair[0], f.Pair[1], f.A, f.B, f.Verified)
}
