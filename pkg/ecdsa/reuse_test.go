package ecdsa

import (
	"errors"
	"math/big"
	"testing"

	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/curve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverFromNonceReuse(t *testing.T) {
	e := newTestEngine().WithRand(newScalarReader(987654321))
	kp, err := e.KeyPairFromScalar(big.NewInt(0x1337))
	require.NoError(t, err)

	h1, h2 := hashOf("first"), hashOf("second")
	sig1, err := e.Sign(kp.PrivateKey, h1)
	require.NoError(t, err)
	sig2, err := e.Sign(kp.PrivateKey, h2)
	require.NoError(t, err)
	require.Equal(t, 0, sig1.R.Cmp(sig2.R), "fixed nonce must repeat r")

	priv, err := e.RecoverFromNonceReuse(h1, sig1, h2, sig2)
	require.NoError(t, err)
	assert.Equal(t, 0, priv.D().Cmp(big.NewInt(0x1337)))
}

func TestRecoverFromRelatedNonces(t *testing.T) {
	// k₂ = 3·k₁ + 5
	k1 := int64(1234567)
	k2 := 3*k1 + 5

	e := newTestEngine().WithRand(newScalarReader(k1, k2))
	d, ok := new(big.Int).SetString("c0ffee00c0ffee00c0ffee00c0ffee00c0ffee00c0ffee00c0ffee00c0ffee00", 16)
	require.True(t, ok)
	kp, err := e.KeyPairFromScalar(d)
	require.NoError(t, err)

	h1, h2 := hashOf("one"), hashOf("two")
	sig1, err := e.Sign(kp.PrivateKey, h1)
	require.NoError(t, err)
	sig2, err := e.Sign(kp.PrivateKey, h2)
	require.NoError(t, err)

	priv, err := e.RecoverFromRelatedNonces(h1, sig1, h2, sig2, big.NewInt(3), big.NewInt(5))
	require.NoError(t, err)
	assert.Equal(t, 0, priv.D().Cmp(d))

	wrong, err := e.RecoverFromRelatedNonces(h1, sig1, h2, sig2, big.NewInt(3), big.NewInt(6))
	if err == nil {
		assert.NotEqual(t, 0, wrong.D().Cmp(d))
	}
}

func TestRecoverFromNonceReuse_SameSignature(t *testing.T) {
	e := newTestEngine()
	kp := mustKeyPair(t, e)
	h := hashOf("only")
	sig, err := e.Sign(kp.PrivateKey, h)
	require.NoError(t, err)

	_, err = e.RecoverFromNonceReuse(h, sig, h, sig)
	assert.True(t, errors.Is(err, ErrKeyNotRecoverable), "unexpected error %v", err)

	_, err = e.RecoverFromNonceReuse(h, &Signature{R: big.NewInt(0), S: sig.S}, h, sig)
	assert.True(t, errors.Is(err, ErrInvalidSignatureRange), "unexpected error %v", err)
}

func TestAuditNonceReuse(t *testing.T) {
	reused := newTestEngine().WithRand(newScalarReader(424242))
	fresh := newTestEngine()

	victim, err := reused.KeyPairFromScalar(big.NewInt(777))
	require.NoError(t, err)
	bystander := mustKeyPair(t, fresh)

	var records []*Record
	add := func(e *Engine, kp *KeyPair, msg string) {
		h := hashOf(msg)
		sig, err := e.Sign(kp.PrivateKey, h)
		require.NoError(t, err)
		records = append(records, &Record{Message: []byte(msg), Hash: h, Signature: sig, PublicKey: kp.PublicKey})
	}
	add(reused, victim, "a")
	add(fresh, bystander, "b")
	add(reused, victim, "c")
	add(reused, victim, "a") // same hash as record 0
	records = append(records, nil)

	findings := fresh.AuditNonceReuse(records)
	require.Len(t, findings, 2)

	assert.Equal(t, [2]int{0, 2}, findings[0].Pair)
	assert.Equal(t, [2]int{2, 3}, findings[1].Pair)
	for _, f := range findings {
		assert.True(t, f.Verified)
		assert.Equal(t, 0, f.PrivateKey.D().Cmp(big.NewInt(777)))
		assert.NotContains(t, f.String(), "777")
	}
}

func TestAuditNonceReuse_Clean(t *testing.T) {
	e := newTestEngine()
	kp := mustKeyPair(t, e)
	var records []*Record
	for _, msg := range []string{"x", "y", "z"} {
		h := hashOf(msg)
		sig, err := e.Sign(kp.PrivateKey, h)
		require.NoError(t, err)
		records = append(records, &Record{Hash: h, Signature: sig, PublicKey: kp.PublicKey})
	}
	assert.Empty(t, e.AuditNonceReuse(records))
}

func TestAuditRelatedNonces(t *testing.T) {
	// k₂ = 2·k₁ + 1
	e := newTestEngine().WithRand(newScalarReader(5000, 10001))
	kp, err := e.KeyPairFromScalar(big.NewInt(31415926))
	require.NoError(t, err)

	var records []*Record
	for _, msg := range []string{"first", "second"} {
		h := hashOf(msg)
		sig, err := e.Sign(kp.PrivateKey, h)
		require.NoError(t, err)
		records = append(records, &Record{Hash: h, Signature: sig, PublicKey: kp.PublicKey})
	}
	records = append(records, signedRecords(t, newTestEngine(), "unrelated")...)

	findings := e.AuditRelatedNonces(records, big.NewInt(2), big.NewInt(1))
	require.Len(t, findings, 1)
	assert.Equal(t, [2]int{0, 1}, findings[0].Pair)
	assert.Equal(t, 0, findings[0].PrivateKey.D().Cmp(big.NewInt(31415926)))

	assert.Empty(t, e.AuditRelatedNonces(records, big.NewInt(2), big.NewInt(2)))
}

func TestAuditNonceReuse_NegatedNonce(t *testing.T) {
	d := big.NewInt(123456789)
	k := big.NewInt(0x5eed)
	n := curve.Secp256k1().N

	e := newTestEngine().WithRand(newBigScalarReader(k, new(big.Int).Sub(n, k)))
	kp, err := e.KeyPairFromScalar(d)
	require.NoError(t, err)

	var records []*Record
	for _, msg := range []string{"k", "n-k"} {
		h := hashOf(msg)
		sig, err := e.Sign(kp.PrivateKey, h)
		require.NoError(t, err)
		records = append(records, &Record{Hash: h, Signature: sig, PublicKey: kp.PublicKey})
	}
	require.Equal(t, 0, records[0].Signature.R.Cmp(records[1].Signature.R), "k and n-k must share r")

	findings := e.AuditNonceReuse(records)
	require.Len(t, findings, 1)
	assert.Equal(t, "negated", findings[0].Pattern)
	assert.True(t, findings[0].Verified)
	assert.Equal(t, 0, findings[0].PrivateKey.D().Cmp(d))
}

func TestAuditNonceReuse_UnverifiedPairSkipped(t *testing.T) {
	e := newTestEngine()
	kp := mustKeyPair(t, e)
	h1, h2 := hashOf("genuine"), hashOf("forged")
	sig, err := e.Sign(kp.PrivateKey, h1)
	require.NoError(t, err)

	// Same r, unrelated s: no nonce relation yields the signer's key.
	forged := &Signature{R: sig.R, S: big.NewInt(987654321)}
	records := []*Record{
		{Hash: h1, Signature: sig, PublicKey: kp.PublicKey},
		{Hash: h2, Signature: forged, PublicKey: kp.PublicKey},
	}
	assert.Empty(t, e.AuditNonceReuse(records))
}
