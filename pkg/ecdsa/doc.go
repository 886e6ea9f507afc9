// Package ecdsa implements ECDSA key generation, signing and verification
// over the curves described by package curve, using the explicit field and
// group arithmetic of packages field and curve.
//
// # Quick Start
//
//	import (
//	    "github.com/mahdiidarabi/ecdsa-secp256k1/pkg/curve"
//	    "github.com/mahdiidarabi/ecdsa-secp256k1/pkg/digest"
//	    "github.com/mahdiidarabi/ecdsa-secp256k1/pkg/ecdsa"
//	)
//
//	engine := ecdsa.NewEngine(curve.Secp256k1())
//
//	keys, err := engine.GenerateKeyPair()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	hash := digest.SHA256.Sum([]byte("hello"))
//	sig, err := engine.Sign(keys.PrivateKey, hash)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ok, err := engine.Verify(keys.PublicKey, hash, sig)
//
// Verify returns an error only for malformed input: r or s outside
// [1, n-1], a hash that is not 32 bytes, or an invalid public key.  A
// well-formed signature that does not match returns false and a nil error.
//
// # Signature Files
//
// Records of (message or hash, r, s, public key) can be read from JSON, CSV
// and CBOR files and verified in bulk:
//
//	client := ecdsa.NewClient().
//	    WithParser(&ecdsa.CSVParser{Digest: digest.SHA256}).
//	    WithWorkers(8)
//
//	results, err := client.VerifyFile(ctx, "signatures.csv")
//	fmt.Println(ecdsa.Summarize(results))
//
// # Nonce Reuse
//
// Two signatures made under one key with the same nonce reveal the key.
// AuditNonceReuse finds such pairs in a record set and RecoverFromNonceReuse
// performs the recovery for a single pair.
//
// This package does not attempt constant-time arithmetic and must not be
// used to protect real funds.
package ecdsa
