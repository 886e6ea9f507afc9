package ecdsa

import (
	"fmt"
	"io"
	"math/big"

	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/curve"
)

const redacted = "ecdsa.PrivateKey(redacted)"

// PrivateKey is a secret scalar d in [1, n-1].  It formats as a redacted
// placeholder under every fmt verb; use D to read the scalar on purpose.
type PrivateKey struct {
	d *big.Int
}

// D returns a copy of the private scalar.
func (k *PrivateKey) D() *big.Int {
	return new(big.Int).Set(k.d)
}

// Format implements fmt.Formatter so the scalar never leaks into logs.
func (k *PrivateKey) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, redacted)
}

// String implements fmt.Stringer.
func (k *PrivateKey) String() string {
	return redacted
}

// PublicKey is the curve point Q = d·G.  The zero value is invalid.
type PublicKey struct {
	point  curve.Point
	params *curve.Params
}

// Point returns the public point.
func (pk PublicKey) Point() curve.Point {
	return pk.point
}

// IsValid reports whether pk holds a finite point.
func (pk PublicKey) IsValid() bool {
	return pk.params != nil && !pk.point.IsInfinity()
}

// Equal reports whether two public keys are the same point.
func (pk PublicKey) Equal(other PublicKey) bool {
	return pk.point.Equal(other.point)
}

// SerializeCompressed returns the 33-byte SEC1 compressed encoding.
func (pk PublicKey) SerializeCompressed() []byte {
	if !pk.IsValid() {
		return nil
	}
	return pk.params.Marshal(pk.point, true)
}

// SerializeUncompressed returns the 65-byte SEC1 uncompressed encoding.
func (pk PublicKey) SerializeUncompressed() []byte {
	if !pk.IsValid() {
		return nil
	}
	return pk.params.Marshal(pk.point, false)
}

// String returns the compressed encoding in hex.
func (pk PublicKey) String() string {
	return fmt.Sprintf("%x", pk.SerializeCompressed())
}

// KeyPair bundles a private key with its derived public key.
type KeyPair struct {
	PrivateKey *PrivateKey
	PublicKey  PublicKey
}

// GenerateKeyPair draws a fresh private key from the engine's random source
// and derives its public key.
func (e *Engine) GenerateKeyPair() (*KeyPair, error) {
	d, err := e.RandomScalar()
	if err != nil {
		return nil, err
	}
	log.Debugf("Generated a new %s key pair", e.params.Name)
	return e.keyPair(d), nil
}

// KeyPairFromScalar builds a key pair from a caller-supplied private scalar.
func (e *Engine) KeyPairFromScalar(d *big.Int) (*KeyPair, error) {
	if !e.inRange(d) {
		return nil, signatureError(ErrInvalidPrivateKey, "ecdsa: private key must be in [1, n-1]")
	}
	return e.keyPair(d), nil
}

func (e *Engine) keyPair(d *big.Int) *KeyPair {
	priv := &PrivateKey{d: new(big.Int).Set(d)}
	return &KeyPair{
		PrivateKey: priv,
		PublicKey:  PublicKey{point: e.params.ScalarBaseMult(d), params: e.params},
	}
}

// PublicKeyFromPoint wraps a finite point on the engine's curve.
func (e *Engine) PublicKeyFromPoint(p curve.Point) (PublicKey, error) {
	if p.IsInfinity() || !e.params.IsOnCurve(p) {
		return PublicKey{}, signatureError(ErrInvalidPublicKey, "ecdsa: public key must be a finite point on the curve")
	}
	return PublicKey{point: p, params: e.params}, nil
}

// ParsePublicKey decodes a SEC1 compressed or uncompressed public key.
func (e *Engine) ParsePublicKey(b []byte) (PublicKey, error) {
	p, err := e.params.ParsePoint(b)
	if err != nil {
		str := fmt.Sprintf("ecdsa: invalid public key: %v", err)
		return PublicKey{}, signatureError(ErrInvalidPublicKey, str)
	}
	return e.PublicKeyFromPoint(p)
}
