package paper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"opus/internal/registry/models"
	"opus/pkg/domain"
	dErrors "opus/pkg/domain-errors"
)

// PostgresStore persists papers in PostgreSQL across two tables: papers holds
// the aggregate row, paper_versions holds the append-only chain. The store is
// pure I/O; version sequencing is the one thing it owns, done in a single
// atomic statement so concurrent appends stay gapless.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const uniqueViolation = "23505"

func (s *PostgresStore) Create(ctx context.Context, record *models.PaperRecord) error {
	if record == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "paper record is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create paper: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO papers (bucket_id, title, author, current_fingerprint, created_at, version_count)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		record.BucketID.String(),
		record.Title,
		record.Author.String(),
		record.CurrentFingerprint.String(),
		record.CreatedAt,
		record.VersionCount,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			if pqErr.Constraint == "papers_title_key" {
				return dErrors.New(dErrors.CodeConflict, "paper title already registered")
			}
			return dErrors.New(dErrors.CodeConflict, "bucket id already registered")
		}
		return fmt.Errorf("insert paper: %w", err)
	}

	for _, v := range record.Versions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO paper_versions (bucket_id, sequence_number, fingerprint, description, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, record.BucketID.String(), v.SequenceNumber, v.Fingerprint.String(), v.Description, v.Timestamp); err != nil {
			return fmt.Errorf("insert paper version: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create paper: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByBucketID(ctx context.Context, bucketID domain.BucketID) (*models.PaperRecord, error) {
	query := `
		SELECT bucket_id, title, author, current_fingerprint, created_at, version_count
		FROM papers
		WHERE bucket_id = $1
	`
	return s.loadOne(ctx, query, bucketID.String())
}

func (s *PostgresStore) FindByTitle(ctx context.Context, title string) (*models.PaperRecord, error) {
	query := `
		SELECT bucket_id, title, author, current_fingerprint, created_at, version_count
		FROM papers
		WHERE title = $1
	`
	return s.loadOne(ctx, query, title)
}

func (s *PostgresStore) AppendVersion(ctx context.Context, bucketID domain.BucketID, fingerprint domain.Fingerprint, description string, now time.Time) (models.VersionEntry, error) {
	// Single statement: bump the aggregate row and insert the chain link with
	// the sequence number the bump produced. No row means no such paper.
	query := `
		WITH bumped AS (
			UPDATE papers
			SET version_count = version_count + 1,
			    current_fingerprint = $2
			WHERE bucket_id = $1
			RETURNING version_count
		)
		INSERT INTO paper_versions (bucket_id, sequence_number, fingerprint, description, created_at)
		SELECT $1, bumped.version_count, $2, $3, $4 FROM bumped
		RETURNING sequence_number
	`
	var seq int
	err := s.db.QueryRowContext(ctx, query, bucketID.String(), fingerprint.String(), description, now).Scan(&seq)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.VersionEntry{}, dErrors.New(dErrors.CodeNotFound, "paper not found")
		}
		return models.VersionEntry{}, fmt.Errorf("append paper version: %w", err)
	}
	return models.VersionEntry{
		Fingerprint:    fingerprint,
		Description:    description,
		Timestamp:      now,
		SequenceNumber: seq,
	}, nil
}

func (s *PostgresStore) ListByAuthor(ctx context.Context, author domain.AuthorAddress) ([]*models.PaperRecord, error) {
	query := `
		SELECT bucket_id, title, author, current_fingerprint, created_at, version_count
		FROM papers
		WHERE author = $1
		ORDER BY created_at, bucket_id
	`
	rows, err := s.db.QueryContext(ctx, query, author.String())
	if err != nil {
		return nil, fmt.Errorf("list papers by author: %w", err)
	}
	defer rows.Close()

	records := make([]*models.PaperRecord, 0)
	for rows.Next() {
		record, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scan paper: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate papers: %w", err)
	}

	for _, record := range records {
		if err := s.loadVersions(ctx, record); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *PostgresStore) loadOne(ctx context.Context, query string, arg any) (*models.PaperRecord, error) {
	record, err := scanPaper(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dErrors.New(dErrors.CodeNotFound, "paper not found")
		}
		return nil, fmt.Errorf("find paper: %w", err)
	}
	if err := s.loadVersions(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *PostgresStore) loadVersions(ctx context.Context, record *models.PaperRecord) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sequence_number, fingerprint, description, created_at
		FROM paper_versions
		WHERE bucket_id = $1
		ORDER BY sequence_number
	`, record.BucketID.String())
	if err != nil {
		return fmt.Errorf("load paper versions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.VersionEntry
		var fingerprint string
		if err := rows.Scan(&entry.SequenceNumber, &fingerprint, &entry.Description, &entry.Timestamp); err != nil {
			return fmt.Errorf("scan paper version: %w", err)
		}
		entry.Fingerprint, err = domain.ParseFingerprint(fingerprint)
		if err != nil {
			return fmt.Errorf("parse stored fingerprint: %w", err)
		}
		record.Versions = append(record.Versions, entry)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate paper versions: %w", err)
	}
	return nil
}

type paperRow interface {
	Scan(dest ...any) error
}

func scanPaper(row paperRow) (*models.PaperRecord, error) {
	var record models.PaperRecord
	var bucketID, author, fingerprint string
	if err := row.Scan(&bucketID, &record.Title, &author, &fingerprint, &record.CreatedAt, &record.VersionCount); err != nil {
		return nil, err
	}
	var err error
	if record.BucketID, err = domain.ParseBucketID(bucketID); err != nil {
		return nil, fmt.Errorf("parse stored bucket id: %w", err)
	}
	if record.Author, err = domain.ParseAuthorAddress(author); err != nil {
		return nil, fmt.Errorf("parse stored author: %w", err)
	}
	if record.CurrentFingerprint, err = domain.ParseFingerprint(fingerprint); err != nil {
		return nil, fmt.Errorf("parse stored fingerprint: %w", err)
	}
	return &record, nil
}
