// Package digest is the message hashing boundary: it turns an arbitrary
// message into the fixed-size hash consumed by signing and verification.
package digest

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// Size is the length in bytes of every digest in this package.
const Size = 32

// ErrUnknownAlgorithm is returned by Lookup for unregistered names.
var ErrUnknownAlgorithm = errors.New("digest: unknown algorithm")

// Digest is a named hash function with a 32-byte output.
type Digest struct {
	name string
	sum  func([]byte) [Size]byte
}

// Name returns the registered name of the digest.
func (d Digest) Name() string {
	return d.name
}

// Sum hashes msg and returns a new 32-byte slice.
func (d Digest) Sum(msg []byte) []byte {
	h := d.sum(msg)
	return h[:]
}

// String implements fmt.Stringer.
func (d Digest) String() string {
	return d.name
}

var (
	// SHA256 is the default digest.
	SHA256 = Digest{name: "sha256", sum: sha256.Sum256}

	// DoubleSHA256 is SHA-256 applied twice, Bitcoin's hash256.
	DoubleSHA256 = Digest{name: "double-sha256", sum: func(msg []byte) [Size]byte {
		first := sha256.Sum256(msg)
		return sha256.Sum256(first[:])
	}}

	// SHA3_256 is FIPS 202 SHA3-256.
	SHA3_256 = Digest{name: "sha3-256", sum: sha3.Sum256}

	// BLAKE3 is BLAKE3 with the default 32-byte output.
	BLAKE3 = Digest{name: "blake3", sum: blake3.Sum256}
)

var registry = map[string]Digest{
	SHA256.name:       SHA256,
	DoubleSHA256.name: DoubleSHA256,
	SHA3_256.name:     SHA3_256,
	BLAKE3.name:       BLAKE3,
}

// Default returns the digest used when none is configured.
func Default() Digest {
	return SHA256
}

// Lookup returns the digest registered under name.
func Lookup(name string) (Digest, error) {
	d, ok := registry[name]
	if !ok {
		return Digest{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownAlgorithm, name, Names())
	}
	return d, nil
}

// Names returns the registered digest names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
