package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"opus/internal/platform/middleware"
	"opus/internal/registry/models"
	"opus/internal/registry/service"
	"opus/pkg/domain"
	dErrors "opus/pkg/domain-errors"
	"opus/pkg/platform/httputil"
)

// Service is the registry surface the handler needs.
type Service interface {
	CheckTitleExists(ctx context.Context, title string) (service.TitleCheck, error)
	RegisterPaper(ctx context.Context, title string, author domain.AuthorAddress, fingerprint domain.Fingerprint, suppliedBucketID domain.BucketID) (*models.PaperRecord, error)
	AddVersion(ctx context.Context, bucketID domain.BucketID, author domain.AuthorAddress, fingerprint domain.Fingerprint, description string) (models.VersionEntry, error)
	GetPaper(ctx context.Context, bucketID domain.BucketID) (*models.PaperRecord, error)
	GetAuthorPapers(ctx context.Context, author domain.AuthorAddress) ([]*models.PaperRecord, error)
}

// Handler wires registry endpoints to the registry service.
type Handler struct {
	service Service
	logger  *slog.Logger
	auth    func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithAuth sets the middleware applied to write routes. Tests that inject the
// author into the request context can leave it unset.
func WithAuth(auth func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.auth = auth
	}
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: service, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts registry endpoints on the router. Reads are open; writes
// require an authenticated author.
func (h *Handler) Register(r chi.Router) {
	r.Get("/registry/titles", h.HandleCheckTitle)
	r.Get("/registry/papers/{bucketID}", h.HandleGetPaper)
	r.Get("/registry/authors/{address}/papers", h.HandleGetAuthorPapers)

	writes := r
	if h.auth != nil {
		writes = r.With(h.auth)
	}
	writes.Post("/registry/papers", h.HandleRegister)
	writes.Post("/registry/papers/{bucketID}/versions", h.HandleAddVersion)
}

// HandleCheckTitle handles GET /registry/titles?title=...
func (h *Handler) HandleCheckTitle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	title := r.URL.Query().Get("title")
	check, err := h.service.CheckTitleExists(ctx, title)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromTitleCheck(check))
}

// HandleRegister handles POST /registry/papers.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	start := time.Now()

	author, ok := middleware.GetAuthor(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	fingerprint, err := req.ParsedFingerprint()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	bucketID, err := req.ParsedBucketID()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.RegisterPaper(ctx, req.Title, author, fingerprint, bucketID)
	if err != nil {
		h.logger.WarnContext(ctx, "paper registration failed",
			"request_id", requestID,
			"author", author.String(),
			"error", err,
		)
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			httputil.WriteErrorReason(w, err, "duplicate_title")
			return
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "paper registered",
		"request_id", requestID,
		"author", author.String(),
		"bucket_id", record.BucketID.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromPaper(record))
}

// HandleAddVersion handles POST /registry/papers/{bucketID}/versions.
func (h *Handler) HandleAddVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	author, ok := middleware.GetAuthor(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	bucketID, err := domain.ParseBucketID(chi.URLParam(r, "bucketID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[AddVersionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	fingerprint, err := req.ParsedFingerprint()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entry, err := h.service.AddVersion(ctx, bucketID, author, fingerprint, req.Description)
	if err != nil {
		h.logger.WarnContext(ctx, "version append failed",
			"request_id", requestID,
			"author", author.String(),
			"bucket_id", bucketID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromVersion(entry))
}

// HandleGetPaper handles GET /registry/papers/{bucketID}.
func (h *Handler) HandleGetPaper(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bucketID, err := domain.ParseBucketID(chi.URLParam(r, "bucketID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.GetPaper(ctx, bucketID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPaper(record))
}

// HandleGetAuthorPapers handles GET /registry/authors/{address}/papers.
func (h *Handler) HandleGetAuthorPapers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	author, err := domain.ParseAuthorAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	records, err := h.service.GetAuthorPapers(ctx, author)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPapers(records))
}
