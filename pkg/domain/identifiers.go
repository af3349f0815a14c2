// Package domain defines the typed identifiers shared across services.
//
// All three identifier types are opaque fixed-width values. Callers compare
// them for equality and render them as 0x-prefixed lowercase hex; any other
// structure is an implementation detail of the deriving side. Typed wrappers
// keep a BucketID from ever being passed where a Fingerprint is expected.
package domain

import (
	"encoding/hex"
	"strings"
	"unicode/utf8"

	dErrors "opus/pkg/domain-errors"
)

const (
	// BucketIDSize is the width of a paper bucket identifier in bytes.
	BucketIDSize = 32
	// FingerprintSize is the width of a content fingerprint in bytes.
	FingerprintSize = 32
	// AuthorAddressSize is the width of a ledger author address in bytes.
	AuthorAddressSize = 20
)

// BucketID is the stable identity of a paper, derived from its title and
// author. It is the primary key of the registry.
type BucketID [BucketIDSize]byte

// Fingerprint is the stable identity of one version's exact text.
type Fingerprint [FingerprintSize]byte

// AuthorAddress identifies an author on the ledger. Input parsing accepts
// mixed-case hex; the stored form is canonical (lowercase), so two spellings
// of the same address always compare equal after parsing.
type AuthorAddress [AuthorAddressSize]byte

// ParseBucketID parses a 0x-prefixed 64-hex-char bucket identifier.
func ParseBucketID(s string) (BucketID, error) {
	var id BucketID
	raw, err := parseHex(s, BucketIDSize, "bucket id")
	if err != nil {
		return id, err
	}
	copy(id[:], raw)
	if id.IsZero() {
		return BucketID{}, dErrors.New(dErrors.CodeInvalidInput, "bucket id cannot be zero")
	}
	return id, nil
}

// ParseFingerprint parses a 0x-prefixed 64-hex-char content fingerprint.
func ParseFingerprint(s string) (Fingerprint, error) {
	var fp Fingerprint
	raw, err := parseHex(s, FingerprintSize, "fingerprint")
	if err != nil {
		return fp, err
	}
	copy(fp[:], raw)
	return fp, nil
}

// ParseAuthorAddress parses a 0x-prefixed 40-hex-char ledger address.
func ParseAuthorAddress(s string) (AuthorAddress, error) {
	var addr AuthorAddress
	raw, err := parseHex(s, AuthorAddressSize, "author address")
	if err != nil {
		return addr, err
	}
	copy(addr[:], raw)
	if addr.IsZero() {
		return AuthorAddress{}, dErrors.New(dErrors.CodeInvalidInput, "author address cannot be zero")
	}
	return addr, nil
}

func (id BucketID) String() string { return encodeHex(id[:]) }

func (id BucketID) IsZero() bool { return id == BucketID{} }

func (fp Fingerprint) String() string { return encodeHex(fp[:]) }

func (fp Fingerprint) IsZero() bool { return fp == Fingerprint{} }

func (a AuthorAddress) String() string { return encodeHex(a[:]) }

func (a AuthorAddress) IsZero() bool { return a == AuthorAddress{} }

// Bytes returns a copy of the address bytes for hashing.
func (a AuthorAddress) Bytes() []byte {
	out := make([]byte, AuthorAddressSize)
	copy(out, a[:])
	return out
}

func parseHex(s string, size int, what string) ([]byte, error) {
	if s == "" {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", what)
	}
	if !utf8.ValidString(s) {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not valid UTF-8", what)
	}
	trimmed, ok := strings.CutPrefix(s, "0x")
	if !ok {
		trimmed, ok = strings.CutPrefix(s, "0X")
	}
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must start with 0x", what)
	}
	if len(trimmed) != size*2 {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must be %d hex characters", what, size*2)
	}
	raw, err := hex.DecodeString(strings.ToLower(trimmed))
	if err != nil {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s contains non-hex characters", what)
	}
	return raw, nil
}

func encodeHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
