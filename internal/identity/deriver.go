// Package identity derives the registry's content-addressed identifiers.
//
// Both derivations are pure functions over their inputs, computable by a
// client before any network round trip. The server re-derives and compares,
// so client and server agree on a paper's identity without a handshake.
//
// The hash is Keccak-256 over the tight packing of the inputs, matching the
// ledger-side derivation (keccak256(titleBytes ++ addressBytes)), so bucket
// identifiers minted here are interchangeable with ones minted on-ledger.
package identity

import (
	"golang.org/x/crypto/sha3"

	"opus/pkg/domain"
	dErrors "opus/pkg/domain-errors"
)

// DeriveBucketID computes the bucket identifier for (title, author).
// Deterministic and collision-resistant; identical pairs always yield the
// identical id. The title is hashed as exact bytes, no normalization.
func DeriveBucketID(title string, author domain.AuthorAddress) (domain.BucketID, error) {
	if title == "" {
		return domain.BucketID{}, dErrors.New(dErrors.CodeValidation, "title cannot be empty")
	}
	if author.IsZero() {
		return domain.BucketID{}, dErrors.New(dErrors.CodeValidation, "author address cannot be zero")
	}

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(title))
	h.Write(author.Bytes())

	var id domain.BucketID
	h.Sum(id[:0])
	return id, nil
}

// DeriveFingerprint computes the content fingerprint of one version's exact
// text. Defined for every string including the empty string; any byte change
// changes the result.
func DeriveFingerprint(content string) domain.Fingerprint {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(content))

	var fp domain.Fingerprint
	h.Sum(fp[:0])
	return fp
}
