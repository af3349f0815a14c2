package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"opus/internal/gate/models"
	"opus/pkg/domain"
	"opus/pkg/platform/httputil"
)

type Service interface {
	GetState(ctx context.Context, author domain.AuthorAddress) (*models.ThrottleState, error)
}

// Handler exposes the gate's read surface. Checks are recorded only by the
// submission workflow, never over HTTP directly.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/gate/authors/{address}", h.HandleGetState)
}

// HandleGetState handles GET /gate/authors/{address}.
func (h *Handler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	author, err := domain.ParseAuthorAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	state, err := h.service.GetState(ctx, author)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, state)
}
