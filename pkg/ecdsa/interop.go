package ecdsa

import (
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// The functions in this file bridge to the decred secp256k1 implementation
// for DER encoding and for checking results against an independent
// implementation.  The arithmetic in this package never depends on them.

// toModN converts v to a decred scalar.  It reports false when v does not fit
// in 32 bytes or is not reduced modulo n.
func toModN(v *big.Int) (secp256k1.ModNScalar, bool) {
	var s secp256k1.ModNScalar
	if v == nil || v.Sign() < 0 || v.BitLen() > 256 {
		return s, false
	}
	overflow := s.SetByteSlice(v.Bytes())
	return s, !overflow
}

func (sig *Signature) toDecred() (*dcrecdsa.Signature, error) {
	r, okR := toModN(sig.R)
	s, okS := toModN(sig.S)
	if !okR || !okS || r.IsZero() || s.IsZero() {
		return nil, signatureError(ErrInvalidSignatureRange, "ecdsa: signature r and s must be in [1, n-1]")
	}
	return dcrecdsa.NewSignature(&r, &s), nil
}

// SerializeDER returns the canonical DER encoding of sig.  The encoding uses
// the low-S form, so parsing it back may yield (r, n-s), which verifies
// equally.
func (sig *Signature) SerializeDER() ([]byte, error) {
	ds, err := sig.toDecred()
	if err != nil {
		return nil, err
	}
	return ds.Serialize(), nil
}

// ParseDERSignature decodes a strict DER signature.
func ParseDERSignature(der []byte) (*Signature, error) {
	if _, err := dcrecdsa.ParseDERSignature(der); err != nil {
		str := fmt.Sprintf("ecdsa: malformed DER signature: %v", err)
		return nil, signatureError(ErrInvalidSignatureRange, str)
	}

	// The encoding is strict at this point; read the integers back out.
	r, s := new(big.Int), new(big.Int)
	var inner cryptobyte.String
	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!inner.ReadASN1Integer(r) ||
		!inner.ReadASN1Integer(s) {
		return nil, signatureError(ErrInvalidSignatureRange, "ecdsa: malformed DER signature")
	}
	return &Signature{R: r, S: s}, nil
}

// CrossCheck verifies sig with the decred reference implementation.  It only
// supports secp256k1 keys.
func CrossCheck(pub PublicKey, hash []byte, sig *Signature) (bool, error) {
	if !pub.IsValid() {
		return false, signatureError(ErrInvalidPublicKey, "ecdsa: public key is not a finite curve point")
	}
	ref, err := secp256k1.ParsePubKey(pub.SerializeCompressed())
	if err != nil {
		str := fmt.Sprintf("ecdsa: reference implementation rejected public key: %v", err)
		return false, signatureError(ErrInvalidPublicKey, str)
	}
	ds, err := sig.toDecred()
	if err != nil {
		return false, err
	}
	return ds.Verify(hash, ref), nil
}
