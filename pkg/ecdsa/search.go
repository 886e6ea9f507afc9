package ecdsa

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Relation is a candidate nonce relationship k₂ = A·k₁ + B.
type Relation struct {
	A    *big.Int
	B    *big.Int
	Name string // human-readable description
}

// CommonRelations returns the relationships produced by typical nonce
// generation bugs, most likely first.
func CommonRelations() []Relation {
	return []Relation{
		{big.NewInt(1), big.NewInt(0), "same_nonce"},
		{big.NewInt(1), big.NewInt(1), "counter_+1"},
		{big.NewInt(1), big.NewInt(-1), "counter_-1"},
		{big.NewInt(1), big.NewInt(2), "counter_+2"},
		{big.NewInt(1), big.NewInt(-2), "counter_-2"},
		{big.NewInt(-1), big.NewInt(0), "negated"},
		{big.NewInt(2), big.NewInt(0), "doubled"},
	}
}

// SearchConfig configures a nonce relationship search.
type SearchConfig struct {
	// ARange defines the range for a values [Min, Max] (inclusive)
	ARange [2]int64

	// BRange defines the range for b values [Min, Max] (inclusive)
	BRange [2]int64

	// MaxPairs limits the number of record pairs to test
	MaxPairs int

	// Workers controls parallelization (0 = one per CPU)
	Workers int

	// Relations are tried, in order, before the range search
	Relations []Relation

	// SkipCommon leaves CommonRelations out of the first phase
	SkipCommon bool
}

// DefaultSearchConfig returns the default search configuration.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		ARange:   [2]int64{-100, 100},
		BRange:   [2]int64{-100, 100},
		MaxPairs: 100,
	}
}

// errFound stops the remaining workers once a key has been recovered.
var errFound = errors.New("ecdsa: key recovered")

// NonceSearch looks for a pair of records whose nonces are related by
// k₂ = a·k₁ + b for small a and b, and recovers the signing key.
type NonceSearch struct {
	engine *Engine
	config SearchConfig
}

// NewNonceSearch creates a search with DefaultSearchConfig.
func NewNonceSearch(e *Engine) *NonceSearch {
	return &NonceSearch{engine: e, config: DefaultSearchConfig()}
}

// WithConfig sets the search configuration.
func (s *NonceSearch) WithConfig(config SearchConfig) *NonceSearch {
	s.config = config
	return s
}

// Search tries the configured relations first, then every (a, b) in the
// configured ranges.  It returns nil and a nil error when nothing matched,
// and the context error when ctx is done first.
func (s *NonceSearch) Search(ctx context.Context, records []*Record) (*NonceReuseFinding, error) {
	pairs := s.candidatePairs(records)
	log.Infof("Searching %d record pairs for related nonces", len(pairs))
	if len(pairs) == 0 {
		return nil, nil
	}

	relations := s.config.Relations
	if !s.config.SkipCommon {
		relations = append(append([]Relation(nil), relations...), CommonRelations()...)
	}
	for _, rel := range relations {
		for _, p := range pairs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if f := s.try(records, p, rel.A, rel.B); f != nil {
				f.Pattern = rel.Name
				return f, nil
			}
		}
	}
	log.Debugf("No known relationship matched, starting range search")

	return s.rangeSearch(ctx, records, pairs)
}

func (s *NonceSearch) rangeSearch(ctx context.Context, records []*Record, pairs [][2]int) (*NonceReuseFinding, error) {
	aRange, bRange := s.config.ARange, s.config.BRange
	workers := s.config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		tested int64
		once   sync.Once
		found  *NonceReuseFinding
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, p := range pairs {
		if gctx.Err() != nil {
			break
		}
		p := p
		g.Go(func() error {
			var err error
			eachInRange(aRange, func(a int64) bool {
				// a = 0 makes k₂ independent of k₁.
				if a == 0 {
					return true
				}
				return eachInRange(bRange, func(b int64) bool {
					if err = gctx.Err(); err != nil {
						return false
					}
					if n := atomic.AddInt64(&tested, 1); n%10000 == 0 {
						log.Debugf("Tested %d combinations", n)
					}
					f := s.try(records, p, big.NewInt(a), big.NewInt(b))
					if f == nil {
						return true
					}
					once.Do(func() {
						f.Pattern = fmt.Sprintf("brute_force_a%d_b%d", a, b)
						found = f
					})
					err = errFound
					return false
				})
			})
			return err
		})
	}

	err := g.Wait()
	log.Debugf("Tested %d combinations", atomic.LoadInt64(&tested))
	switch {
	case errors.Is(err, errFound):
		return found, nil
	case err != nil:
		return nil, err
	default:
		return nil, ctx.Err()
	}
}

// eachInRange calls fn for every v in the inclusive range r, in order,
// until fn returns false.  It reports whether the range was exhausted.  An
// empty range (r[0] > r[1]) calls nothing.
func eachInRange(r [2]int64, fn func(int64) bool) bool {
	if r[0] > r[1] {
		return true
	}
	for v := r[0]; ; v++ {
		if !fn(v) {
			return false
		}
		// Checked before incrementing: r[1] may be MaxInt64.
		if v == r[1] {
			return true
		}
	}
}

// candidatePairs lists record pairs signed under the same key over
// different hashes, up to MaxPairs.
func (s *NonceSearch) candidatePairs(records []*Record) [][2]int {
	var pairs [][2]int
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			if s.config.MaxPairs > 0 && len(pairs) >= s.config.MaxPairs {
				return pairs
			}
			r1, r2 := records[i], records[j]
			if !auditable(r1) || !auditable(r2) || !r1.PublicKey.Equal(r2.PublicKey) || bytes.Equal(r1.Hash, r2.Hash) {
				continue
			}
			pairs = append(pairs, [2]int{i, j})
		}
	}
	return pairs
}

// try recovers the key for pair p under k₂ = a·k₁ + b and returns a finding
// when it matches the records' public key.
func (s *NonceSearch) try(records []*Record, p [2]int, a, b *big.Int) *NonceReuseFinding {
	r1, r2 := records[p[0]], records[p[1]]
	priv, err := s.engine.RecoverFromRelatedNonces(r1.Hash, r1.Signature, r2.Hash, r2.Signature, a, b)
	if err != nil {
		return nil
	}
	if !s.engine.params.ScalarBaseMult(priv.d).Equal(r1.PublicKey.point) {
		return nil
	}
	log.Warnf("Records %d and %d use nonces related by k2 = %v*k1 + %v", p[0], p[1], a, b)
	return &NonceReuseFinding{
		Pair:       p,
		A:          a,
		B:          b,
		PrivateKey: priv,
		Verified:   true,
	}
}
