package ecdsa

import (
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Record is one signed message as stored in a signature file.
type Record struct {
	Message   []byte // original message, optional
	Hash      []byte // 32-byte message hash that was signed
	Signature *Signature
	PublicKey PublicKey
}

// Format names a signature file encoding.
type Format string

// Supported signature file encodings.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatCBOR Format = "cbor"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatCSV, FormatCBOR:
		return f, nil
	default:
		return "", fmt.Errorf("unknown signature file format %q", s)
	}
}

// jsonRecord is the on-disk JSON layout written by WriteRecords.
type jsonRecord struct {
	Message   string `json:"message,omitempty"`
	Hash      string `json:"hash"`
	R         string `json:"r"`
	S         string `json:"s"`
	PublicKey string `json:"public_key"`
}

// cborRecord is the on-disk CBOR layout.  Integer keys keep records compact.
type cborRecord struct {
	Message   []byte `cbor:"1,keyasint,omitempty"`
	Hash      []byte `cbor:"2,keyasint"`
	R         []byte `cbor:"3,keyasint"`
	S         []byte `cbor:"4,keyasint"`
	PublicKey []byte `cbor:"5,keyasint"`
}

var csvHeader = []string{"message", "hash", "r", "s", "public_key"}

func hexInt(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.Text(16)
}

// checkWritable reports the first record that cannot be encoded.
func checkWritable(records []*Record) error {
	for i, rec := range records {
		switch {
		case rec == nil:
			return fmt.Errorf("record %d is nil", i)
		case rec.Signature == nil || rec.Signature.R == nil || rec.Signature.S == nil:
			return fmt.Errorf("record %d: missing signature", i)
		case rec.Signature.R.Sign() < 0 || rec.Signature.S.Sign() < 0:
			return fmt.Errorf("record %d: negative signature value", i)
		case !rec.PublicKey.IsValid():
			return fmt.Errorf("record %d: missing public key", i)
		}
	}
	return nil
}

// WriteRecords encodes records to w in the given format.  Nothing is written
// when a record lacks its signature or public key.
func WriteRecords(w io.Writer, format Format, records []*Record) error {
	if err := checkWritable(records); err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		out := make([]jsonRecord, 0, len(records))
		for _, rec := range records {
			out = append(out, jsonRecord{
				Message:   string(rec.Message),
				Hash:      hex.EncodeToString(rec.Hash),
				R:         hexInt(rec.Signature.R),
				S:         hexInt(rec.Signature.S),
				PublicKey: hex.EncodeToString(rec.PublicKey.SerializeCompressed()),
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil

	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(csvHeader); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		for _, rec := range records {
			row := []string{
				string(rec.Message),
				hex.EncodeToString(rec.Hash),
				hexInt(rec.Signature.R),
				hexInt(rec.Signature.S),
				hex.EncodeToString(rec.PublicKey.SerializeCompressed()),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write record: %w", err)
			}
		}
		cw.Flush()
		return cw.Error()

	case FormatCBOR:
		out := make([]cborRecord, 0, len(records))
		for _, rec := range records {
			out = append(out, cborRecord{
				Message:   rec.Message,
				Hash:      rec.Hash,
				R:         rec.Signature.R.Bytes(),
				S:         rec.Signature.S.Bytes(),
				PublicKey: rec.PublicKey.SerializeCompressed(),
			})
		}
		if err := cbor.NewEncoder(w).Encode(out); err != nil {
			return fmt.Errorf("failed to encode CBOR: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unknown signature file format %q", format)
	}
}
