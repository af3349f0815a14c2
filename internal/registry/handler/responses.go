package handler

import (
	"time"

	"opus/internal/registry/models"
	"opus/internal/registry/service"
)

type TitleCheckResponse struct {
	Exists   bool   `json:"exists"`
	BucketID string `json:"bucket_id,omitempty"`
	Owner    string `json:"owner,omitempty"`
}

func FromTitleCheck(check service.TitleCheck) TitleCheckResponse {
	resp := TitleCheckResponse{Exists: check.Exists}
	if check.Exists {
		resp.BucketID = check.BucketID.String()
		resp.Owner = check.Owner.String()
	}
	return resp
}

type VersionResponse struct {
	Fingerprint    string    `json:"fingerprint"`
	Description    string    `json:"description"`
	Timestamp      time.Time `json:"timestamp"`
	SequenceNumber int       `json:"sequence_number"`
}

type PaperResponse struct {
	BucketID           string            `json:"bucket_id"`
	Title              string            `json:"title"`
	Author             string            `json:"author"`
	CurrentFingerprint string            `json:"current_fingerprint"`
	CreatedAt          time.Time         `json:"created_at"`
	VersionCount       int               `json:"version_count"`
	Versions           []VersionResponse `json:"versions"`
}

func FromPaper(record *models.PaperRecord) PaperResponse {
	versions := make([]VersionResponse, 0, len(record.Versions))
	for _, v := range record.Versions {
		versions = append(versions, FromVersion(v))
	}
	return PaperResponse{
		BucketID:           record.BucketID.String(),
		Title:              record.Title,
		Author:             record.Author.String(),
		CurrentFingerprint: record.CurrentFingerprint.String(),
		CreatedAt:          record.CreatedAt,
		VersionCount:       record.VersionCount,
		Versions:           versions,
	}
}

func FromVersion(entry models.VersionEntry) VersionResponse {
	return VersionResponse{
		Fingerprint:    entry.Fingerprint.String(),
		Description:    entry.Description,
		Timestamp:      entry.Timestamp,
		SequenceNumber: entry.SequenceNumber,
	}
}

type PaperListResponse struct {
	Papers []PaperResponse `json:"papers"`
}

func FromPapers(records []*models.PaperRecord) PaperListResponse {
	papers := make([]PaperResponse, 0, len(records))
	for _, record := range records {
		papers = append(papers, FromPaper(record))
	}
	return PaperListResponse{Papers: papers}
}
