// Package walkthrough prints every intermediate value of one ECDSA key
// generation, signing and verification run, for teaching purposes.
package walkthrough

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/digest"
	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/ecdsa"
)

const (
	colorGreen = "\x1b[32m"
	colorRed   = "\x1b[31m"
	colorReset = "\x1b[0m"
)

// Result carries the values produced by one run.
type Result struct {
	RandomNumber *big.Int
	KeyPair      *ecdsa.KeyPair
	Message      []byte
	Hash         []byte
	Signature    *ecdsa.Signature
	Verification *ecdsa.Verification
}

// Walkthrough runs the demonstration against an engine.
type Walkthrough struct {
	engine  *ecdsa.Engine
	digest  digest.Digest
	keyPair *ecdsa.KeyPair
	in      *bufio.Reader
	out     io.Writer
	color   bool
}

// New creates a walkthrough that reads the message from in and prints to
// out.  By default it hashes with SHA-256 and draws a fresh key per run.
func New(engine *ecdsa.Engine, in io.Reader, out io.Writer) *Walkthrough {
	return &Walkthrough{
		engine: engine,
		digest: digest.Default(),
		in:     bufio.NewReader(in),
		out:    out,
	}
}

// WithDigest sets the message digest.
func (w *Walkthrough) WithDigest(d digest.Digest) *Walkthrough {
	w.digest = d
	return w
}

// WithKeyPair signs with kp instead of a freshly generated key.
func (w *Walkthrough) WithKeyPair(kp *ecdsa.KeyPair) *Walkthrough {
	w.keyPair = kp
	return w
}

// WithColor enables ANSI colors for the verdict.
func (w *Walkthrough) WithColor(color bool) *Walkthrough {
	w.color = color
	return w
}

// Run prompts for a message and walks through the whole protocol.
func (w *Walkthrough) Run() (*Result, error) {
	return w.run(nil)
}

// RunMessage walks through the protocol for msg without prompting.
func (w *Walkthrough) RunMessage(msg []byte) (*Result, error) {
	return w.run(msg)
}

func (w *Walkthrough) run(msg []byte) (*Result, error) {
	params := w.engine.Params()
	res := &Result{}

	random, err := w.engine.RandomScalar()
	if err != nil {
		return nil, err
	}
	res.RandomNumber = random
	w.printf("Step 1: Generated a random number for demonstration: %s\n", random)

	kp := w.keyPair
	if kp == nil {
		if kp, err = w.engine.GenerateKeyPair(); err != nil {
			return nil, err
		}
	}
	res.KeyPair = kp
	w.printf("Step 2: Generated a private key: %s (This remains private!)\n", kp.PrivateKey.D())
	w.printf("Step 3: Generator Point on the %s curve (constant and public): %v\n", params.Name, params.G)
	w.printf("Step 4: Derived public key from the private key (this can be shared): %v\n", kp.PublicKey.Point())

	if msg == nil {
		w.printf("\nEnter a message to sign: ")
		if msg, err = w.readLine(); err != nil {
			return nil, err
		}
	}
	res.Message = msg
	w.printf("\nStep 5: Message to be signed: '%s'\n", msg)

	res.Hash = w.digest.Sum(msg)
	w.printf("Step 6: %s hash of the message: %x\n", w.digest.Name(), res.Hash)

	sig, err := w.engine.Sign(kp.PrivateKey, res.Hash)
	if err != nil {
		return nil, err
	}
	res.Signature = sig
	w.printf("Step 7: Digital signature created (r, s values combined): %s\n", sig)
	w.printf("\nStep 8: Signature breakdown:\nr: %s\ns: %s\n", sig.R, sig.S)

	v, err := w.engine.VerifyDetailed(kp.PublicKey, res.Hash, sig)
	if err != nil {
		return nil, err
	}
	res.Verification = v
	w.printf("Step 9: Calculated inverse of s: %s\n", v.SInverse)
	w.printf("Step 10: Calculated u: %s\nCalculated v: %s\n", v.U, v.V)
	if v.Point.IsInfinity() {
		w.printf("Step 11: Resulting point u·G + v·Q is the point at infinity\n")
	} else {
		w.printf("Step 11: Resulting point u·G + v·Q: x = %s, y = %s\n", v.Point.X(), v.Point.Y())
	}

	if v.Valid {
		w.verdict(colorGreen, "Step 12: The signature is valid: x mod n equals r, so the message was signed by the holder of the private key.")
	} else {
		w.verdict(colorRed, "Step 12: The signature is not valid: x mod n differs from r.")
	}
	return res, nil
}

func (w *Walkthrough) readLine() ([]byte, error) {
	line, err := w.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

func (w *Walkthrough) verdict(color, text string) {
	if w.color {
		w.printf("\n%s%s%s\n", color, text, colorReset)
		return
	}
	w.printf("\n%s\n", text)
}

func (w *Walkthrough) printf(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}
