package handler

import (
	"opus/pkg/domain"
	dErrors "opus/pkg/domain-errors"
)

// RegisterRequest is the POST /registry/papers body. BucketID is optional;
// when present it must match the server-side derivation for title and caller.
type RegisterRequest struct {
	Title       string `json:"title"`
	Fingerprint string `json:"fingerprint"`
	BucketID    string `json:"bucket_id,omitempty"`
}

func (r *RegisterRequest) ParsedFingerprint() (domain.Fingerprint, error) {
	if r.Fingerprint == "" {
		return domain.Fingerprint{}, dErrors.New(dErrors.CodeValidation, "fingerprint is required")
	}
	return domain.ParseFingerprint(r.Fingerprint)
}

func (r *RegisterRequest) ParsedBucketID() (domain.BucketID, error) {
	if r.BucketID == "" {
		return domain.BucketID{}, nil
	}
	return domain.ParseBucketID(r.BucketID)
}

// AddVersionRequest is the POST /registry/papers/{bucketID}/versions body.
type AddVersionRequest struct {
	Fingerprint string `json:"fingerprint"`
	Description string `json:"description"`
}

func (r *AddVersionRequest) ParsedFingerprint() (domain.Fingerprint, error) {
	if r.Fingerprint == "" {
		return domain.Fingerprint{}, dErrors.New(dErrors.CodeValidation, "fingerprint is required")
	}
	return domain.ParseFingerprint(r.Fingerprint)
}
