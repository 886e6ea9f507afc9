package ecdsa

import (
	"errors"
	"math/big"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossCheck_DecredVerifiesOurSignatures(t *testing.T) {
	e := newTestEngine()
	for i := 0; i < 8; i++ {
		kp := mustKeyPair(t, e)
		hash := hashOf(string(rune('a' + i)))
		sig, err := e.Sign(kp.PrivateKey, hash)
		require.NoError(t, err)

		ok, err := CrossCheck(kp.PublicKey, hash, sig)
		require.NoError(t, err)
		assert.True(t, ok, "decred rejected signature %d", i)

		ok, err = CrossCheck(kp.PublicKey, hashOf("other"), sig)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestVerify_AcceptsDecredSignatures(t *testing.T) {
	e := newTestEngine()
	kp := mustKeyPair(t, e)

	var buf [32]byte
	kp.PrivateKey.D().FillBytes(buf[:])
	ref := secp256k1.PrivKeyFromBytes(buf[:])

	hash := hashOf("signed by decred")
	der := dcrecdsa.Sign(ref, hash).Serialize()

	sig, err := ParseDERSignature(der)
	require.NoError(t, err)

	valid, err := e.Verify(kp.PublicKey, hash, sig)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestSerializeDER_RoundTrip(t *testing.T) {
	e := newTestEngine()
	kp := mustKeyPair(t, e)
	hash := hashOf("der")
	sig, err := e.Sign(kp.PrivateKey, hash)
	require.NoError(t, err)

	der, err := sig.SerializeDER()
	require.NoError(t, err)

	parsed, err := ParseDERSignature(der)
	require.NoError(t, err)
	assert.Equal(t, 0, parsed.R.Cmp(sig.R))

	// DER output is low-S, so s either survives or becomes n − s.
	halfOrder := new(big.Int).Rsh(e.Params().N, 1)
	assert.True(t, parsed.S.Cmp(halfOrder) <= 0)
	if parsed.S.Cmp(sig.S) != 0 {
		assert.Equal(t, 0, new(big.Int).Add(parsed.S, sig.S).Cmp(e.Params().N))
	}

	valid, err := e.Verify(kp.PublicKey, hash, parsed)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestDER_Malformed(t *testing.T) {
	_, err := ParseDERSignature([]byte{0x30, 0x01, 0x02})
	assert.True(t, errors.Is(err, ErrInvalidSignatureRange), "unexpected error %v", err)

	_, err = (&Signature{R: big.NewInt(0), S: big.NewInt(1)}).SerializeDER()
	assert.True(t, errors.Is(err, ErrInvalidSignatureRange), "unexpected error %v", err)
}
