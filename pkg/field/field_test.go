package field

import (
	"crypto/rand"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secp256k1P, _ = new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F", 16)

func TestInverse_SmallPrime(t *testing.T) {
	f := New(big.NewInt(97))
	for a := int64(1); a < 97; a++ {
		inv, err := f.Inverse(big.NewInt(a))
		require.NoError(t, err)
		assert.Equal(t, int64(1), f.Mul(big.NewInt(a), inv).Int64(), "a=%d", a)
		assert.True(t, inv.Sign() >= 0 && inv.Cmp(big.NewInt(97)) < 0, "inverse not reduced")
	}
}

func TestInverse_Secp256k1Prime(t *testing.T) {
	f := New(secp256k1P)
	for i := 0; i < 32; i++ {
		a, err := rand.Int(rand.Reader, secp256k1P)
		require.NoError(t, err)
		if a.Sign() == 0 {
			continue
		}
		inv, err := f.Inverse(a)
		require.NoError(t, err)
		assert.Equal(t, 0, f.Mul(a, inv).Cmp(big.NewInt(1)))
		assert.Equal(t, 0, inv.Cmp(new(big.Int).ModInverse(a, secp256k1P)))
	}
}

func TestInverse_Zero(t *testing.T) {
	f := New(big.NewInt(97))
	for _, a := range []int64{0, 97, -194} {
		_, err := f.Inverse(big.NewInt(a))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDomain), "a=%d: unexpected error %v", a, err)

		var ferr Error
		assert.True(t, errors.As(err, &ferr))
	}
}

func TestInverse_CompositeModulus(t *testing.T) {
	f := New(big.NewInt(15))
	_, err := f.Inverse(big.NewInt(6))
	assert.ErrorIs(t, err, ErrDomain)

	inv, err := f.Inverse(big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, int64(13), inv.Int64())
}

func TestArithmetic_Reduced(t *testing.T) {
	f := New(big.NewInt(7))
	tests := []struct {
		name string
		got  *big.Int
		want int64
	}{
		{"add wraps", f.Add(big.NewInt(5), big.NewInt(4)), 2},
		{"sub negative", f.Sub(big.NewInt(2), big.NewInt(5)), 4},
		{"neg", f.Neg(big.NewInt(3)), 4},
		{"neg zero", f.Neg(big.NewInt(0)), 0},
		{"mul", f.Mul(big.NewInt(3), big.NewInt(5)), 1},
		{"square", f.Square(big.NewInt(-3)), 2},
		{"reduce negative", f.Reduce(big.NewInt(-15)), 6},
		{"exp", f.Exp(big.NewInt(3), big.NewInt(6)), 1},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, test.got.Int64(), test.name)
	}
}

func TestArithmetic_DoesNotMutateInputs(t *testing.T) {
	f := New(big.NewInt(7))
	a, b := big.NewInt(12), big.NewInt(-3)
	f.Add(a, b)
	f.Mul(a, b)
	f.Sub(a, b)
	_, _ = f.Inverse(a)
	assert.Equal(t, int64(12), a.Int64())
	assert.Equal(t, int64(-3), b.Int64())
}

func TestSqrt(t *testing.T) {
	f := New(secp256k1P)
	x := big.NewInt(123456789)
	root, ok := f.Sqrt(f.Square(x))
	require.True(t, ok)
	assert.True(t, root.Cmp(x) == 0 || root.Cmp(f.Neg(x)) == 0)

	// -1 is a non-residue for p ≡ 3 mod 4.
	_, ok = f.Sqrt(big.NewInt(-1))
	assert.False(t, ok)

	// 13 ≡ 1 mod 4 is not supported.
	_, ok = New(big.NewInt(13)).Sqrt(big.NewInt(4))
	assert.False(t, ok)
}

func TestNew_InvalidModulus(t *testing.T) {
	assert.Panics(t, func() { New(big.NewInt(1)) })
}

func TestModulus_IsCopy(t *testing.T) {
	f := New(big.NewInt(97))
	f.Modulus().SetInt64(5)
	assert.Equal(t, int64(97), f.Modulus().Int64())
}
