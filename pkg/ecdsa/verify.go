package ecdsa

import (
	"math/big"

	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/curve"
)

// Verification holds the intermediate values of one verification.
type Verification struct {
	SInverse *big.Int    // s⁻¹ mod n
	U        *big.Int    // z·s⁻¹ mod n
	V        *big.Int    // r·s⁻¹ mod n
	Point    curve.Point // u·G + v·Q
	Valid    bool
}

// Verify checks sig over a 32-byte message hash against pub.
//
// A signature that does not check out is reported as false with a nil
// error.  Errors are reserved for malformed input: r or s outside [1, n-1],
// a hash of the wrong size or an invalid public key.
func (e *Engine) Verify(pub PublicKey, hash []byte, sig *Signature) (bool, error) {
	v, err := e.VerifyDetailed(pub, hash, sig)
	if err != nil {
		return false, err
	}
	return v.Valid, nil
}

// VerifyDetailed is Verify returning every intermediate value.
func (e *Engine) VerifyDetailed(pub PublicKey, hash []byte, sig *Signature) (*Verification, error) {
	if sig == nil || !e.inRange(sig.R) || !e.inRange(sig.S) {
		return nil, signatureError(ErrInvalidSignatureRange, "ecdsa: signature r and s must be in [1, n-1]")
	}
	if !pub.IsValid() {
		return nil, signatureError(ErrInvalidPublicKey, "ecdsa: public key is not a finite curve point")
	}
	z, err := e.hashToInt(hash)
	if err != nil {
		return nil, err
	}

	fn := e.params.ScalarField()
	sInv, err := fn.Inverse(sig.S)
	if err != nil {
		return nil, err
	}
	u := fn.Mul(z, sInv)
	v := fn.Mul(sig.R, sInv)
	point := e.params.Add(e.params.ScalarBaseMult(u), e.params.ScalarMult(v, pub.point))

	result := &Verification{SInverse: sInv, U: u, V: v, Point: point}
	if point.IsInfinity() {
		log.Debugf("Verification point is infinity")
		return result, nil
	}
	result.Valid = fn.Reduce(point.X()).Cmp(sig.R) == 0
	return result, nil
}
