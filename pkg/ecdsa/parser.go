package ecdsa

import (
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/curve"
	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/digest"
)

// SignatureParser defines the interface for parsing signature records from
// various sources.
type SignatureParser interface {
	// ParseRecords parses the records stored at source.
	ParseRecords(source string) ([]*Record, error)
}

// NewParser returns the parser for format using engine to decode public keys
// and d to hash records that carry only a message.
func NewParser(format Format, engine *Engine, d digest.Digest) (SignatureParser, error) {
	switch format {
	case FormatJSON:
		return &JSONParser{Engine: engine, Digest: d}, nil
	case FormatCSV:
		return &CSVParser{Engine: engine, Digest: d}, nil
	case FormatCBOR:
		return &CBORParser{Engine: engine, Digest: d}, nil
	default:
		return nil, fmt.Errorf("unknown signature file format %q", format)
	}
}

// recordBuilder holds the settings shared by all parsers.
type recordBuilder struct {
	engine *Engine
	digest digest.Digest
}

func newRecordBuilder(e *Engine, d digest.Digest) recordBuilder {
	if e == nil {
		e = NewEngine(curve.Secp256k1())
	}
	if d.Name() == "" {
		d = digest.Default()
	}
	return recordBuilder{engine: e, digest: d}
}

// build assembles a record.  An explicit hash wins over hashing message.
func (b recordBuilder) build(message, hash []byte, r, s *big.Int, pub []byte) (*Record, error) {
	if hash == nil {
		if message == nil {
			return nil, fmt.Errorf("missing message or hash field")
		}
		hash = b.digest.Sum(message)
	}
	pk, err := b.engine.ParsePublicKey(pub)
	if err != nil {
		return nil, err
	}
	return &Record{
		Message:   message,
		Hash:      hash,
		Signature: &Signature{R: r, S: s},
		PublicKey: pk,
	}, nil
}

// JSONParser parses records from JSON files.
type JSONParser struct {
	Engine *Engine
	Digest digest.Digest

	MessageField   string // Field name for message (default: "message")
	HashField      string // Field name for the hash (default: "hash")
	RField         string // Field name for r (default: "r")
	SField         string // Field name for s (default: "s")
	PublicKeyField string // Field name for the public key (default: "public_key")
}

// ParseRecords parses records from a JSON file.
//
// Expected format:
//
//	[
//	  {"message": "...", "r": "...", "s": "...", "public_key": "02..."},
//	  {"hash": "...", "r": "...", "s": "...", "public_key": "03..."}
//	]
//
// r and s are hex strings or decimal numbers; hash and public_key are hex.
func (p *JSONParser) ParseRecords(jsonFile string) ([]*Record, error) {
	file, err := os.Open(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()
	return p.Decode(file)
}

// Decode parses records from r.
func (p *JSONParser) Decode(r io.Reader) ([]*Record, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber() // Preserve large numbers as json.Number instead of float64

	var items []map[string]interface{}
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	messageField := orDefault(p.MessageField, "message")
	hashField := orDefault(p.HashField, "hash")
	rField := orDefault(p.RField, "r")
	sField := orDefault(p.SField, "s")
	pubField := orDefault(p.PublicKeyField, "public_key")

	builder := newRecordBuilder(p.Engine, p.Digest)
	records := make([]*Record, 0, len(items))
	for i, item := range items {
		var message, hash []byte
		if v, ok := item[messageField]; ok {
			str, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("record %d: message field must be a string", i)
			}
			message = []byte(str)
		}
		if v, ok := item[hashField]; ok {
			h, err := parseHexField(v)
			if err != nil {
				return nil, fmt.Errorf("record %d: failed to parse hash: %w", i, err)
			}
			hash = h
		}

		r, err := parseBigInt(item[rField])
		if err != nil {
			return nil, fmt.Errorf("record %d: failed to parse r: %w", i, err)
		}
		s, err := parseBigInt(item[sField])
		if err != nil {
			return nil, fmt.Errorf("record %d: failed to parse s: %w", i, err)
		}
		pub, err := parseHexField(item[pubField])
		if err != nil {
			return nil, fmt.Errorf("record %d: failed to parse public key: %w", i, err)
		}

		rec, err := builder.build(message, hash, r, s, pub)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// CSVParser parses records from CSV files with a header row.
type CSVParser struct {
	Engine *Engine
	Digest digest.Digest

	MessageCol   string // Column name for message (default: "message")
	HashCol      string // Column name for the hash (default: "hash")
	RCol         string // Column name for r (default: "r")
	SCol         string // Column name for s (default: "s")
	PublicKeyCol string // Column name for the public key (default: "public_key")
}

// ParseRecords parses records from a CSV file.
func (p *CSVParser) ParseRecords(csvFile string) ([]*Record, error) {
	file, err := os.Open(csvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return p.Decode(file)
}

// Decode parses records from r.  Empty message or hash cells count as
// absent.
func (p *CSVParser) Decode(r io.Reader) ([]*Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}
	column := func(name, def string) int {
		if i, ok := index[orDefault(name, def)]; ok {
			return i
		}
		return -1
	}
	messageIdx := column(p.MessageCol, "message")
	hashIdx := column(p.HashCol, "hash")
	rIdx := column(p.RCol, "r")
	sIdx := column(p.SCol, "s")
	pubIdx := column(p.PublicKeyCol, "public_key")

	if rIdx == -1 || sIdx == -1 || pubIdx == -1 {
		return nil, fmt.Errorf("missing required columns: r, s or public_key")
	}

	builder := newRecordBuilder(p.Engine, p.Digest)
	records := make([]*Record, 0)
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		cell := func(i int) string {
			if i < 0 || i >= len(row) {
				return ""
			}
			return row[i]
		}

		var message, hash []byte
		if v := cell(messageIdx); v != "" {
			message = []byte(v)
		}
		if v := cell(hashIdx); v != "" {
			if hash, err = decodeHex(v); err != nil {
				return nil, fmt.Errorf("row %d: failed to parse hash: %w", line, err)
			}
		}
		r, err := parseBigInt(cell(rIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to parse r: %w", line, err)
		}
		s, err := parseBigInt(cell(sIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to parse s: %w", line, err)
		}
		pub, err := decodeHex(cell(pubIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to parse public key: %w", line, err)
		}

		rec, err := builder.build(message, hash, r, s, pub)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// CBORParser parses records from CBOR files written by WriteRecords.
type CBORParser struct {
	Engine *Engine
	Digest digest.Digest
}

// ParseRecords parses records from a CBOR file.
func (p *CBORParser) ParseRecords(cborFile string) ([]*Record, error) {
	file, err := os.Open(cborFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return p.Decode(file)
}

// Decode parses records from r.
func (p *CBORParser) Decode(r io.Reader) ([]*Record, error) {
	var items []cborRecord
	if err := cbor.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse CBOR: %w", err)
	}

	builder := newRecordBuilder(p.Engine, p.Digest)
	records := make([]*Record, 0, len(items))
	for i, item := range items {
		if item.R == nil || item.S == nil {
			return nil, fmt.Errorf("record %d: missing r or s", i)
		}
		r := new(big.Int).SetBytes(item.R)
		s := new(big.Int).SetBytes(item.S)
		rec, err := builder.build(item.Message, item.Hash, r, s, item.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// decodeHex decodes a hex string, handling 0x prefix.
func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.TrimPrefix(s, "0X")
	if s == "" {
		return nil, fmt.Errorf("empty hex value")
	}
	return hex.DecodeString(s)
}

func parseHexField(val interface{}) ([]byte, error) {
	s, ok := val.(string)
	if !ok {
		return nil, fmt.Errorf("expected hex string, got %T", val)
	}
	return decodeHex(s)
}

// parseBigInt parses a big integer from a hex string (with or without 0x) or
// a decimal JSON number.
func parseBigInt(val interface{}) (*big.Int, error) {
	switch v := val.(type) {
	case string:
		s := strings.TrimPrefix(strings.TrimSpace(v), "0x")
		s = strings.TrimPrefix(s, "0X")
		z, ok := new(big.Int).SetString(s, 16)
		if !ok {
			return nil, fmt.Errorf("invalid hex number: %q", v)
		}
		return z, nil

	case json.Number:
		z, ok := new(big.Int).SetString(string(v), 10)
		if !ok {
			return nil, fmt.Errorf("invalid number format: %s", v)
		}
		return z, nil

	case nil:
		return nil, fmt.Errorf("missing value")

	default:
		return nil, fmt.Errorf("unsupported type: %T", val)
	}
}
