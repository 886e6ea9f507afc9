package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/mahdiidarabi/ecdsa-secp256k1/internal/walkthrough"
	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/ecdsa"
)

type demoCommand struct {
	cfg *config

	Message    string `short:"m" long:"message" description:"Message to sign instead of prompting for one"`
	PrivateKey string `long:"privkey" description:"Private key in hex (default: fresh ephemeral key)"`
}

func (c *demoCommand) Execute(args []string) error {
	if err := c.cfg.setup(); err != nil {
		return err
	}

	w := walkthrough.New(c.cfg.engine, c.cfg.stdin, c.cfg.stdout).
		WithDigest(c.cfg.digest).
		WithColor(c.cfg.color)
	if c.PrivateKey != "" {
		kp, err := c.cfg.keyPair(c.PrivateKey)
		if err != nil {
			return err
		}
		w.WithKeyPair(kp)
	}

	var err error
	if c.Message != "" {
		_, err = w.RunMessage([]byte(c.Message))
	} else {
		_, err = w.Run()
	}
	return err
}

type keygenCommand struct {
	cfg *config
}

func (c *keygenCommand) Execute(args []string) error {
	if err := c.cfg.setup(); err != nil {
		return err
	}
	kp, err := c.cfg.engine.GenerateKeyPair()
	if err != nil {
		return err
	}
	c.cfg.printf("private key:           %064x\n", kp.PrivateKey.D())
	c.cfg.printf("public key (compressed):   %x\n", kp.PublicKey.SerializeCompressed())
	c.cfg.printf("public key (uncompressed): %x\n", kp.PublicKey.SerializeUncompressed())
	return nil
}

type signCommand struct {
	cfg *config

	Messages   []string `short:"m" long:"message" description:"Message to sign (repeatable)"`
	Hash       string   `long:"hash" description:"32-byte message hash in hex to sign instead of a message"`
	PrivateKey string   `long:"privkey" description:"Private key in hex (default: fresh ephemeral key)"`
	DER        bool     `long:"der" description:"Also print the DER encoding of each signature"`
	Out        string   `short:"o" long:"out" description:"Write the signed records to this file"`
	Format     string   `long:"format" description:"Record file format {json,csv,cbor}"`
}

func (c *signCommand) Execute(args []string) error {
	if err := c.cfg.setup(); err != nil {
		return err
	}
	if len(c.Messages) == 0 && c.Hash == "" {
		return fmt.Errorf("nothing to sign: use --message or --hash")
	}
	if len(c.Messages) > 0 && c.Hash != "" {
		return fmt.Errorf("--message and --hash are mutually exclusive")
	}

	kp, err := c.cfg.keyPair(c.PrivateKey)
	if err != nil {
		return err
	}
	c.cfg.printf("public key: %s\n", kp.PublicKey)

	type input struct {
		message []byte
		hash    []byte
	}
	var inputs []input
	if c.Hash != "" {
		h, err := c.cfg.messageHash("", c.Hash)
		if err != nil {
			return err
		}
		inputs = append(inputs, input{hash: h})
	}
	for _, msg := range c.Messages {
		inputs = append(inputs, input{message: []byte(msg), hash: c.cfg.digest.Sum([]byte(msg))})
	}

	records := make([]*ecdsa.Record, 0, len(inputs))
	for _, in := range inputs {
		sig, err := c.cfg.engine.Sign(kp.PrivateKey, in.hash)
		if err != nil {
			return err
		}
		c.cfg.printf("hash:      %x\nr:         %064x\ns:         %064x\nsignature: %s\n", in.hash, sig.R, sig.S, sig)
		if c.DER {
			der, err := sig.SerializeDER()
			if err != nil {
				return err
			}
			c.cfg.printf("der:       %x\n", der)
		}
		records = append(records, &ecdsa.Record{
			Message:   in.message,
			Hash:      in.hash,
			Signature: sig,
			PublicKey: kp.PublicKey,
		})
	}

	if c.Out == "" {
		return nil
	}
	format, err := ecdsa.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	f, err := os.Create(c.Out)
	if err != nil {
		return fmt.Errorf("failed to create record file: %w", err)
	}
	defer f.Close()
	if err := ecdsa.WriteRecords(f, format, records); err != nil {
		return err
	}
	demoLog.Infof("Wrote %d records to %s", len(records), c.Out)
	return nil
}

type verifyCommand struct {
	cfg *config

	PublicKey  string `long:"pubkey" required:"true" description:"SEC1 public key in hex"`
	Message    string `short:"m" long:"message" description:"Signed message"`
	Hash       string `long:"hash" description:"32-byte message hash in hex"`
	Signature  string `short:"s" long:"signature" description:"64-byte r||s signature in hex"`
	DER        string `long:"der" description:"DER signature in hex"`
	CrossCheck bool   `long:"crosscheck" description:"Also verify with the decred secp256k1 implementation"`
}

func (c *verifyCommand) Execute(args []string) error {
	if err := c.cfg.setup(); err != nil {
		return err
	}

	pubBytes, err := hex.DecodeString(strings.TrimPrefix(c.PublicKey, "0x"))
	if err != nil {
		return fmt.Errorf("invalid public key hex: %w", err)
	}
	pub, err := c.cfg.engine.ParsePublicKey(pubBytes)
	if err != nil {
		return err
	}
	hash, err := c.cfg.messageHash(c.Message, c.Hash)
	if err != nil {
		return err
	}

	var sig *ecdsa.Signature
	switch {
	case c.Signature != "" && c.DER != "":
		return fmt.Errorf("--signature and --der are mutually exclusive")
	case c.Signature != "":
		b, err := hex.DecodeString(strings.TrimPrefix(c.Signature, "0x"))
		if err != nil {
			return fmt.Errorf("invalid signature hex: %w", err)
		}
		if sig, err = ecdsa.ParseSignature(b); err != nil {
			return err
		}
	case c.DER != "":
		b, err := hex.DecodeString(strings.TrimPrefix(c.DER, "0x"))
		if err != nil {
			return fmt.Errorf("invalid DER hex: %w", err)
		}
		if sig, err = ecdsa.ParseDERSignature(b); err != nil {
			return err
		}
	default:
		return fmt.Errorf("missing --signature or --der")
	}

	valid, err := c.cfg.engine.Verify(pub, hash, sig)
	if err != nil {
		return err
	}
	if c.CrossCheck {
		ref, err := ecdsa.CrossCheck(pub, hash, sig)
		if err != nil {
			return err
		}
		if ref != valid {
			return fmt.Errorf("decred cross-check disagrees: engine says %v, decred says %v", valid, ref)
		}
		c.cfg.printf("decred cross-check agrees\n")
	}
	if !valid {
		c.cfg.printf("signature is NOT valid\n")
		return errInvalidSignature
	}
	c.cfg.printf("signature is valid\n")
	return nil
}

type batchVerifyCommand struct {
	cfg *config

	Format  string `long:"format" description:"Record file format {json,csv,cbor}"`
	Workers int    `short:"w" long:"workers" description:"Number of parallel workers (0 = one per CPU)"`

	Args struct {
		File string `positional-arg-name:"file" description:"Signature record file"`
	} `positional-args:"yes" required:"yes"`
}

func (c *batchVerifyCommand) Execute(args []string) error {
	if err := c.cfg.setup(); err != nil {
		return err
	}
	client, err := c.cfg.client(c.Format)
	if err != nil {
		return err
	}

	results, err := client.WithWorkers(c.Workers).VerifyFile(context.Background(), c.Args.File)
	if err != nil {
		return err
	}
	for _, res := range results {
		switch {
		case res.Err != nil:
			c.cfg.printf("record %d: malformed: %v\n", res.Index, res.Err)
		case res.Valid:
			c.cfg.printf("record %d: valid\n", res.Index)
		default:
			c.cfg.printf("record %d: NOT valid\n", res.Index)
		}
	}
	summary := ecdsa.Summarize(results)
	c.cfg.printf("%v\n", summary)
	if summary.Valid != summary.Total {
		return errInvalidSignature
	}
	return nil
}

type auditCommand struct {
	cfg *config

	Format string `long:"format" description:"Record file format {json,csv,cbor}"`
	A      int64  `short:"a" long:"known-a" description:"Known affine coefficient a (k2 = a*k1 + b)"`
	B      int64  `short:"b" long:"known-b" description:"Known affine offset b (k2 = a*k1 + b)"`

	Search   bool   `long:"search" description:"Search for an affine nonce relationship (tries common patterns first)"`
	ARange   string `long:"a-range" description:"Range for a values in the search (format: min,max)"`
	BRange   string `long:"b-range" description:"Range for b values in the search (format: min,max)"`
	MaxPairs int    `long:"max-pairs" description:"Maximum record pairs to test in the search"`
	Workers  int    `short:"w" long:"workers" description:"Number of parallel workers (0 = one per CPU)"`

	Args struct {
		File string `positional-arg-name:"file" description:"Signature record file"`
	} `positional-args:"yes" required:"yes"`
}

func (c *auditCommand) Execute(args []string) error {
	if err := c.cfg.setup(); err != nil {
		return err
	}
	client, err := c.cfg.client(c.Format)
	if err != nil {
		return err
	}

	if c.Search {
		return c.search(client)
	}

	var findings []ecdsa.NonceReuseFinding
	if c.A != 0 || c.B != 0 {
		c.cfg.printf("Using known relationship: k2 = %d*k1 + %d\n", c.A, c.B)
		findings, err = client.AuditFileWithRelationship(c.Args.File, big.NewInt(c.A), big.NewInt(c.B))
	} else {
		findings, err = client.AuditFile(c.Args.File)
	}
	if err != nil {
		return err
	}

	if len(findings) == 0 {
		c.cfg.printf("No nonce reuse found.\n")
		return nil
	}
	for _, f := range findings {
		c.cfg.printf("[+] %v\n    private key: %064x\n", f, f.PrivateKey.D())
	}
	return nil
}

func (c *auditCommand) search(client *ecdsa.Client) error {
	config := ecdsa.DefaultSearchConfig()
	config.Workers = c.Workers
	if c.MaxPairs > 0 {
		config.MaxPairs = c.MaxPairs
	}
	var err error
	if c.ARange != "" {
		if config.ARange, err = parseRange(c.ARange); err != nil {
			return fmt.Errorf("invalid --a-range: %w", err)
		}
	}
	if c.BRange != "" {
		if config.BRange, err = parseRange(c.BRange); err != nil {
			return fmt.Errorf("invalid --b-range: %w", err)
		}
	}

	c.cfg.printf("Searching a in [%d,%d], b in [%d,%d]...\n",
		config.ARange[0], config.ARange[1], config.BRange[0], config.BRange[1])
	f, err := client.WithSearchConfig(config).SearchFile(context.Background(), c.Args.File)
	if err != nil {
		return err
	}
	if f == nil {
		c.cfg.printf("No nonce relationship found.\n")
		return nil
	}
	c.cfg.printf("[+] %v\n    pattern: %s\n    private key: %064x\n", f, f.Pattern, f.PrivateKey.D())
	return nil
}

// parseRange parses an inclusive "min,max" range.
func parseRange(s string) ([2]int64, error) {
	var r [2]int64
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return r, fmt.Errorf("expected min,max, got %q", s)
	}
	for i, part := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return r, err
		}
		r[i] = v
	}
	if r[0] > r[1] {
		return r, fmt.Errorf("min %d is greater than max %d", r[0], r[1])
	}
	return r, nil
}

// client returns a record file client for the named format.
func (cfg *config) client(formatName string) (*ecdsa.Client, error) {
	format, err := ecdsa.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}
	parser, err := ecdsa.NewParser(format, cfg.engine, cfg.digest)
	if err != nil {
		return nil, err
	}
	return ecdsa.NewClient().WithEngine(cfg.engine).WithParser(parser), nil
}
