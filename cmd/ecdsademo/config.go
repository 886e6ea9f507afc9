package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/curve"
	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/digest"
	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/ecdsa"
	"github.com/mattn/go-colorable"
)

const (
	defaultDigest     = "sha256"
	defaultDebugLevel = "info"
	defaultFormat     = "json"
)

// config defines the options shared by all commands.
type config struct {
	Digest     string `long:"digest" description:"Message digest {sha256,double-sha256,sha3-256,blake3}"`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level {trace,debug,info,warn,error,critical,off}"`
	LogFile    string `long:"logfile" description:"Also write logs to this file, rotated at 10 MiB"`
	NoColor    bool   `long:"nocolor" description:"Disable colored output"`

	stdin  io.Reader
	stdout io.Writer
	color  bool

	engine *ecdsa.Engine
	digest digest.Digest
}

// defaultConfig returns the configuration used before options are parsed.
func defaultConfig() *config {
	return &config{
		Digest:     defaultDigest,
		DebugLevel: defaultDebugLevel,
		stdin:      os.Stdin,
		stdout:     os.Stdout,
	}
}

// setup validates the shared options and initializes logging.  Every command
// calls it before doing any work.
func (cfg *config) setup() error {
	d, err := digest.Lookup(cfg.Digest)
	if err != nil {
		return err
	}
	cfg.digest = d

	if err := setLogLevels(cfg.DebugLevel); err != nil {
		return err
	}
	logWrite.Init(cfg.NoColor)
	if cfg.LogFile != "" {
		if err := initLogRotator(cfg.LogFile); err != nil {
			return err
		}
	}

	if cfg.stdout == io.Writer(os.Stdout) && !cfg.NoColor && useColor(os.Stdout) {
		cfg.stdout = colorable.NewColorableStdout()
		cfg.color = true
	}

	cfg.engine = ecdsa.NewEngine(curve.Secp256k1())
	demoLog.Debugf("Using digest %s", cfg.digest)
	return nil
}

// keyPair returns the key pair for privKeyHex, or a fresh ephemeral one when
// it is empty.
func (cfg *config) keyPair(privKeyHex string) (*ecdsa.KeyPair, error) {
	if privKeyHex == "" {
		demoLog.Infof("No private key given, generating an ephemeral one")
		return cfg.engine.GenerateKeyPair()
	}
	d, ok := new(big.Int).SetString(strings.TrimPrefix(privKeyHex, "0x"), 16)
	if !ok {
		return nil, fmt.Errorf("invalid private key hex")
	}
	return cfg.engine.KeyPairFromScalar(d)
}

// messageHash returns the hash to sign or verify, taken verbatim from
// hashHex or computed from message.
func (cfg *config) messageHash(message, hashHex string) ([]byte, error) {
	switch {
	case hashHex != "" && message != "":
		return nil, fmt.Errorf("--message and --hash are mutually exclusive")
	case hashHex != "":
		h, err := hex.DecodeString(strings.TrimPrefix(hashHex, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid hash hex: %w", err)
		}
		return h, nil
	default:
		return cfg.digest.Sum([]byte(message)), nil
	}
}

func (cfg *config) printf(format string, args ...interface{}) {
	fmt.Fprintf(cfg.stdout, format, args...)
}

// newParser builds the command line parser with every command registered.
func newParser(cfg *config) (*flags.Parser, error) {
	parser := flags.NewParser(cfg, flags.HelpFlag|flags.PassDoubleDash)

	commands := []struct {
		name, short, long string
		data              interface{}
	}{
		{"demo", "Interactive signing walkthrough",
			"Generates a key, prompts for a message, signs it and verifies the signature, printing every intermediate value.",
			&demoCommand{cfg: cfg}},
		{"keygen", "Generate a key pair",
			"Generates a private key and prints it with its SEC1 public key encodings.",
			&keygenCommand{cfg: cfg}},
		{"sign", "Sign messages",
			"Signs one or more messages and prints the signatures, optionally writing them to a record file.",
			&signCommand{cfg: cfg, Format: defaultFormat}},
		{"verify", "Verify a signature",
			"Verifies one signature against a public key and a message or hash.",
			&verifyCommand{cfg: cfg}},
		{"batchverify", "Verify a signature record file",
			"Verifies every record of a JSON, CSV or CBOR signature file concurrently.",
			&batchVerifyCommand{cfg: cfg, Format: defaultFormat}},
		{"audit", "Audit a signature record file for nonce reuse",
			"Looks for signatures sharing a nonce, or with nonces related by k2 = a*k1 + b, and recovers the private key.",
			&auditCommand{cfg: cfg, Format: defaultFormat}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			return nil, err
		}
	}
	return parser, nil
}
