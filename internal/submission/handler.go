package submission

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"opus/internal/platform/middleware"
	"opus/pkg/domain"
	dErrors "opus/pkg/domain-errors"
	"opus/pkg/platform/httputil"
)

// Handler exposes the submission workflow. The caller's identity always
// comes from the authenticated context, never the request body.
type Handler struct {
	service *Service
	logger  *slog.Logger
	auth    func(http.Handler) http.Handler
}

type HandlerOption func(*Handler)

// WithAuth sets the middleware applied to submission routes. Tests that
// inject the author into the request context can leave it unset.
func WithAuth(auth func(http.Handler) http.Handler) HandlerOption {
	return func(h *Handler) {
		h.auth = auth
	}
}

func NewHandler(service *Service, logger *slog.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{service: service, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	routes := r
	if h.auth != nil {
		routes = r.With(h.auth)
	}
	routes.Post("/submissions", h.HandleSubmitPaper)
	routes.Post("/submissions/{bucketID}/versions", h.HandleSubmitVersion)
}

type SubmitPaperRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type SubmitVersionRequest struct {
	Content     string `json:"content"`
	Description string `json:"description"`
}

type SubmitResponse struct {
	BucketID          string  `json:"bucket_id"`
	Fingerprint       string  `json:"fingerprint"`
	SequenceNumber    int     `json:"sequence_number"`
	SimilarityPercent float64 `json:"similarity_percent"`
	Unchecked         bool    `json:"unchecked,omitempty"`
}

// HandleSubmitPaper handles POST /submissions.
func (h *Handler) HandleSubmitPaper(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	caller, ok := middleware.GetAuthor(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[SubmitPaperRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.SubmitPaper(ctx, caller, req.Title, req.Content)
	if err != nil {
		h.logger.WarnContext(ctx, "paper submission rejected",
			"request_id", requestID,
			"author", caller.String(),
			"error", err,
		)
		writeSubmissionError(w, err)
		return
	}

	resp := SubmitResponse{
		BucketID:       result.Paper.BucketID.String(),
		Fingerprint:    result.Paper.CurrentFingerprint.String(),
		SequenceNumber: 1,
		Unchecked:      result.Unchecked,
	}
	if result.Similarity != nil {
		resp.SimilarityPercent = result.Similarity.SimilarityPercent
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

// HandleSubmitVersion handles POST /submissions/{bucketID}/versions.
func (h *Handler) HandleSubmitVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	caller, ok := middleware.GetAuthor(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	bucketID, err := domain.ParseBucketID(chi.URLParam(r, "bucketID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[SubmitVersionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.SubmitVersion(ctx, caller, bucketID, req.Content, req.Description)
	if err != nil {
		h.logger.WarnContext(ctx, "version submission rejected",
			"request_id", requestID,
			"author", caller.String(),
			"bucket_id", bucketID.String(),
			"error", err,
		)
		writeSubmissionError(w, err)
		return
	}

	resp := SubmitResponse{
		BucketID:       bucketID.String(),
		Fingerprint:    result.Version.Fingerprint.String(),
		SequenceNumber: result.Version.SequenceNumber,
		Unchecked:      result.Unchecked,
	}
	if result.Similarity != nil {
		resp.SimilarityPercent = result.Similarity.SimilarityPercent
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

// writeSubmissionError attaches the machine-readable reason to the outcomes
// clients branch on.
func writeSubmissionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUseAddVersion):
		httputil.WriteErrorReason(w, err, "use_add_version")
	case errors.Is(err, ErrDuplicateTitle):
		httputil.WriteErrorReason(w, err, "duplicate_title")
	case errors.Is(err, ErrAuthorBanned):
		httputil.WriteErrorReason(w, err, "author_banned")
	default:
		httputil.WriteError(w, err)
	}
}
