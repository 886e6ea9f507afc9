package ecdsa

import (
	"context"
	"fmt"
	"math/big"

	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/curve"
	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/digest"
)

// Client provides a high-level API for verifying and auditing signature
// files.
type Client struct {
	engine  *Engine
	parser  SignatureParser
	workers int
	search  SearchConfig
}

// NewClient creates a new client over secp256k1 that reads JSON files and
// hashes messages with SHA-256.
func NewClient() *Client {
	engine := NewEngine(curve.Secp256k1())
	return &Client{
		engine: engine,
		parser: &JSONParser{Engine: engine, Digest: digest.Default()},
		search: DefaultSearchConfig(),
	}
}

// WithEngine sets the engine used for verification.
func (c *Client) WithEngine(engine *Engine) *Client {
	c.engine = engine
	return c
}

// WithParser sets a custom signature parser.
func (c *Client) WithParser(parser SignatureParser) *Client {
	c.parser = parser
	return c
}

// WithWorkers sets the number of batch verification workers.  Zero means
// one per CPU.
func (c *Client) WithWorkers(n int) *Client {
	c.workers = n
	return c
}

// WithSearchConfig sets the configuration used by SearchFile.
func (c *Client) WithSearchConfig(config SearchConfig) *Client {
	c.search = config
	return c
}

// Engine returns the engine used by the client.
func (c *Client) Engine() *Engine {
	return c.engine
}

// LoadFile parses the records stored at source.
func (c *Client) LoadFile(source string) ([]*Record, error) {
	records, err := c.parser.ParseRecords(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signatures: %w", err)
	}
	log.Debugf("Loaded %d records from %s", len(records), source)
	return records, nil
}

// VerifyFile verifies every record stored at source.
func (c *Client) VerifyFile(ctx context.Context, source string) ([]BatchResult, error) {
	records, err := c.LoadFile(source)
	if err != nil {
		return nil, err
	}
	return c.VerifyRecords(ctx, records)
}

// VerifyRecords verifies in-memory records.
func (c *Client) VerifyRecords(ctx context.Context, records []*Record) ([]BatchResult, error) {
	return NewBatchVerifier(c.engine).WithWorkers(c.workers).Verify(ctx, records)
}

// AuditFile scans the records stored at source for nonce reuse.
func (c *Client) AuditFile(source string) ([]NonceReuseFinding, error) {
	records, err := c.LoadFile(source)
	if err != nil {
		return nil, err
	}
	return c.engine.AuditNonceReuse(records), nil
}

// AuditFileWithRelationship scans the records stored at source for nonce
// pairs related by k₂ = a·k₁ + b.
func (c *Client) AuditFileWithRelationship(source string, a, b *big.Int) ([]NonceReuseFinding, error) {
	records, err := c.LoadFile(source)
	if err != nil {
		return nil, err
	}
	return c.engine.AuditRelatedNonces(records, a, b), nil
}

// SearchFile searches the records stored at source for a pair whose nonces
// are related by a small affine relationship.  The result is nil when no
// relationship was found.
func (c *Client) SearchFile(ctx context.Context, source string) (*NonceReuseFinding, error) {
	records, err := c.LoadFile(source)
	if err != nil {
		return nil, err
	}
	config := c.search
	if config.Workers == 0 {
		config.Workers = c.workers
	}
	return NewNonceSearch(c.engine).WithConfig(config).Search(ctx, records)
}
