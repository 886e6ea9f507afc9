package ecdsa

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrInvalidSignatureRange is returned when r or s of a signature handed
	// to verification is missing or outside [1, n-1].
	ErrInvalidSignatureRange = ErrorKind("ErrInvalidSignatureRange")

	// ErrInvalidInputLength is returned when a message hash or a serialized
	// signature does not have the expected fixed size.
	ErrInvalidInputLength = ErrorKind("ErrInvalidInputLength")

	// ErrEntropyUnavailable is returned when the random source fails or keeps
	// producing values that cannot be turned into a scalar.
	ErrEntropyUnavailable = ErrorKind("ErrEntropyUnavailable")

	// ErrNonceRetriesExhausted is returned when signing drew a nonce yielding
	// r = 0 or s = 0 on every allowed attempt.
	ErrNonceRetriesExhausted = ErrorKind("ErrNonceRetriesExhausted")

	// ErrInvalidPrivateKey is returned when a private scalar is outside
	// [1, n-1].
	ErrInvalidPrivateKey = ErrorKind("ErrInvalidPrivateKey")

	// ErrInvalidPublicKey is returned when a public key is the point at
	// infinity or cannot be decoded to a point on the curve.
	ErrInvalidPublicKey = ErrorKind("ErrInvalidPublicKey")

	// ErrKeyNotRecoverable is returned when two signatures do not determine
	// the private key under the assumed nonce relationship.
	ErrKeyNotRecoverable = ErrorKind("ErrKeyNotRecoverable")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to ECDSA key generation, signing or
// verification.  It has full support for errors.Is and errors.As, so the
// caller can ascertain the specific reason for the error by checking the
// underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// signatureError creates an Error given a set of arguments.
func signatureError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
