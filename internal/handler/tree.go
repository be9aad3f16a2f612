package handler

import (
	"log/slog"
	"net/http"

	"citrusreach/internal/domain/services"
	"citrusreach/internal/httputil"
)

// TreeHandler serves the nested sidebar tree.
type TreeHandler struct {
	trees  services.TreeService
	logger *slog.Logger
}

// NewTreeHandler creates a new tree handler.
func NewTreeHandler(trees services.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{trees: trees, logger: logger}
}

// GetTree returns the caller's full non-archived forest for one kind.
// GET /api/{kind}/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
		return
	}

	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	tree, err := h.trees.Tree(r.Context(), kind, userID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}
