package ecdsa

import (
	"encoding/hex"
	"fmt"
	"math/big"
)

// SignatureSize is the length of the fixed r‖s encoding.
const SignatureSize = 64

// Signature is an ECDSA signature (r, s).
type Signature struct {
	R *big.Int // x coordinate of k·G reduced modulo n
	S *big.Int // k⁻¹·(z + r·d) mod n
}

// Serialize returns the 64-byte big-endian r‖s encoding.  R and S must fit
// in 32 bytes each, which holds for every signature produced by Sign.
func (sig *Signature) Serialize() []byte {
	out := make([]byte, SignatureSize)
	sig.R.FillBytes(out[:32])
	sig.S.FillBytes(out[32:])
	return out
}

// String returns the r‖s encoding in hex.
func (sig *Signature) String() string {
	return hex.EncodeToString(sig.Serialize())
}

// Equal reports whether two signatures have the same r and s.
func (sig *Signature) Equal(other *Signature) bool {
	return sig.R.Cmp(other.R) == 0 && sig.S.Cmp(other.S) == 0
}

// ParseSignature decodes a 64-byte r‖s signature.  Range checks are left to
// verification.
func ParseSignature(b []byte) (*Signature, error) {
	if len(b) != SignatureSize {
		str := fmt.Sprintf("ecdsa: signature must be %d bytes, got %d", SignatureSize, len(b))
		return nil, signatureError(ErrInvalidInputLength, str)
	}
	return &Signature{
		R: new(big.Int).SetBytes(b[:32]),
		S: new(big.Int).SetBytes(b[32:]),
	}, nil
}
