package ecdsa

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchVerifier_MixedRecords(t *testing.T) {
	e := newTestEngine()
	records := signedRecords(t, e, "m0", "m1", "m2", "m3", "m4")

	// 1: wrong message, 2: r out of range, 3: nil record.
	records[1] = &Record{Hash: hashOf("tampered"), Signature: records[1].Signature, PublicKey: records[1].PublicKey}
	records[2] = &Record{Hash: records[2].Hash, Signature: &Signature{R: big.NewInt(0), S: records[2].Signature.S}, PublicKey: records[2].PublicKey}
	records[3] = nil

	results, err := NewBatchVerifier(e).WithWorkers(2).Verify(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, results, len(records))

	for i, res := range results {
		assert.Equal(t, i, res.Index)
	}
	assert.True(t, results[0].Valid)
	assert.False(t, results[1].Valid)
	assert.NoError(t, results[1].Err)
	assert.True(t, errors.Is(results[2].Err, ErrInvalidSignatureRange), "unexpected error %v", results[2].Err)
	assert.Error(t, results[3].Err)
	assert.True(t, results[4].Valid)

	assert.Equal(t, BatchSummary{Total: 5, Valid: 2, Invalid: 1, Malformed: 2}, Summarize(results))
}

func TestBatchVerifier_Cancelled(t *testing.T) {
	e := newTestEngine()
	records := signedRecords(t, e, "a", "b", "c")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBatchVerifier(e).Verify(ctx, records)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "unexpected error %v", err)
}

func TestBatchVerifier_Empty(t *testing.T) {
	results, err := NewBatchVerifier(newTestEngine()).Verify(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, "0 records: 0 valid, 0 invalid, 0 malformed", Summarize(results).String())
}
