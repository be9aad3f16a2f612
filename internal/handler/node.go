package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"citrusreach/internal/domain/models"
	"citrusreach/internal/domain/services"
	"citrusreach/internal/httputil"
)

// NodeHandler handles content node HTTP requests for all three kinds.
type NodeHandler struct {
	nodes  services.NodeService
	logger *slog.Logger
}

// NewNodeHandler creates a new node handler.
func NewNodeHandler(nodes services.NodeService, logger *slog.Logger) *NodeHandler {
	return &NodeHandler{nodes: nodes, logger: logger}
}

// CreateNode creates a new node.
// POST /api/{kind}
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
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

	var req createNodeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	node, err := h.nodes.Create(r.Context(), kind, &services.CreateNodeRequest{
		OwnerID:  userID,
		Title:    req.Title,
		ParentID: req.ParentID,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, node)
}

// ListNodes lists the caller's non-archived nodes one sidebar level at a
// time.
// GET /api/{kind}?parent_id=...
func (h *NodeHandler) ListNodes(w http.ResponseWriter, r *http.Request) {
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

	var parentID *string
	if r.URL.Query().Has("parent_id") {
		v := r.URL.Query().Get("parent_id")
		parentID = &v
	}

	nodes, err := h.nodes.List(r.Context(), kind, userID, parentID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	if nodes == nil {
		nodes = []models.Node{}
	}

	httputil.RespondJSON(w, http.StatusOK, listNodesResponse{Nodes: nodes, Total: len(nodes)})
}

// GetNode retrieves a node by id. Published nodes are readable without
// authentication.
// GET /api/{kind}/{id}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "node id is required")
		return
	}

	node, err := h.nodes.Get(r.Context(), kind, id, httputil.GetUserID(r))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, node)
}

// UpdateNode applies a partial update.
// PATCH /api/{kind}/{id}
func (h *NodeHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "node id is required")
		return
	}

	var req updateNodeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	node, err := h.nodes.Update(r.Context(), kind, id, httputil.GetUserID(r), req.toService())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, node)
}

// ArchiveNode soft-deletes a node and its whole subtree.
// POST /api/{kind}/{id}/archive
func (h *NodeHandler) ArchiveNode(w http.ResponseWriter, r *http.Request) {
	h.cascade(w, r, h.nodes.Archive)
}

// RestoreNode un-archives a node and the descendants archived with it.
// POST /api/{kind}/{id}/restore
func (h *NodeHandler) RestoreNode(w http.ResponseWriter, r *http.Request) {
	h.cascade(w, r, h.nodes.Restore)
}

// RemoveNode permanently deletes a single node.
// DELETE /api/{kind}/{id}
func (h *NodeHandler) RemoveNode(w http.ResponseWriter, r *http.Request) {
	h.cascade(w, r, h.nodes.Remove)
}

func (h *NodeHandler) cascade(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, kind models.Kind, id, callerID string) error) {
	kind, err := kindFromRequest(r)
	if err != nil {
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "node id is required")
		return
	}

	if err := op(r.Context(), kind, id, httputil.GetUserID(r)); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint.
// GET /health
func (h *NodeHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}
