package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citrusreach/internal/domain"
	"citrusreach/internal/domain/models"
	"citrusreach/internal/domain/services"
	"citrusreach/internal/httputil"
)

type fakeNodeService struct {
	createFn  func(ctx context.Context, kind models.Kind, req *services.CreateNodeRequest) (*models.Node, error)
	listFn    func(ctx context.Context, kind models.Kind, ownerID string, parentID *string) ([]models.Node, error)
	getFn     func(ctx context.Context, kind models.Kind, id, callerID string) (*models.Node, error)
	updateFn  func(ctx context.Context, kind models.Kind, id, callerID string, req *services.UpdateNodeRequest) (*models.Node, error)
	archiveFn func(ctx context.Context, kind models.Kind, id, callerID string) error
	restoreFn func(ctx context.Context, kind models.Kind, id, callerID string) error
	removeFn  func(ctx context.Context, kind models.Kind, id, callerID string) error
}

func (f *fakeNodeService) Create(ctx context.Context, kind models.Kind, req *services.CreateNodeRequest) (*models.Node, error) {
	return f.createFn(ctx, kind, req)
}

func (f *fakeNodeService) List(ctx context.Context, kind models.Kind, ownerID string, parentID *string) ([]models.Node, error) {
	return f.listFn(ctx, kind, ownerID, parentID)
}

func (f *fakeNodeService) Get(ctx context.Context, kind models.Kind, id, callerID string) (*models.Node, error) {
	return f.getFn(ctx, kind, id, callerID)
}

func (f *fakeNodeService) Update(ctx context.Context, kind models.Kind, id, callerID string, req *services.UpdateNodeRequest) (*models.Node, error) {
	return f.updateFn(ctx, kind, id, callerID, req)
}

func (f *fakeNodeService) Archive(ctx context.Context, kind models.Kind, id, callerID string) error {
	return f.archiveFn(ctx, kind, id, callerID)
}

func (f *fakeNodeService) Restore(ctx context.Context, kind models.Kind, id, callerID string) error {
	return f.restoreFn(ctx, kind, id, callerID)
}

func (f *fakeNodeService) Remove(ctx context.Context, kind models.Kind, id, callerID string) error {
	return f.removeFn(ctx, kind, id, callerID)
}

var _ services.NodeService = (*fakeNodeService)(nil)

// newNodeMux wires the fake through the same route patterns the server uses
// so PathValue resolution is exercised for real.
func newNodeMux(svc services.NodeService) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewNodeHandler(svc, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/{kind}", h.CreateNode)
	mux.HandleFunc("GET /api/{kind}", h.ListNodes)
	mux.HandleFunc("GET /api/{kind}/{id}", h.GetNode)
	mux.HandleFunc("PATCH /api/{kind}/{id}", h.UpdateNode)
	mux.HandleFunc("POST /api/{kind}/{id}/archive", h.ArchiveNode)
	mux.HandleFunc("POST /api/{kind}/{id}/restore", h.RestoreNode)
	mux.HandleFunc("DELETE /api/{kind}/{id}", h.RemoveNode)
	mux.HandleFunc("GET /health", h.HealthCheck)
	return mux
}

func authenticated(r *http.Request, userID string) *http.Request {
	return httputil.WithUserID(r, userID)
}

func TestCreateNodeHandler(t *testing.T) {
	svc := &fakeNodeService{
		createFn: func(_ context.Context, kind models.Kind, req *services.CreateNodeRequest) (*models.Node, error) {
			assert.Equal(t, models.KindDocument, kind)
			assert.Equal(t, "user_1", req.OwnerID)
			assert.Equal(t, "My doc", req.Title)
			return &models.Node{ID: "n1", OwnerID: req.OwnerID, Title: req.Title}, nil
		},
	}
	mux := newNodeMux(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/documents", strings.NewReader(`{"title":"My doc"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authenticated(req, "user_1"))

	require.Equal(t, http.StatusCreated, rec.Code)
	var node models.Node
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &node))
	assert.Equal(t, "n1", node.ID)
}

func TestCreateNodeRequiresAuth(t *testing.T) {
	mux := newNodeMux(&fakeNodeService{})

	req := httptest.NewRequest(http.MethodPost, "/api/documents", strings.NewReader(`{"title":"x"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestCreateNodeRejectsBadJSON(t *testing.T) {
	mux := newNodeMux(&fakeNodeService{})

	req := httptest.NewRequest(http.MethodPost, "/api/documents", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authenticated(req, "user_1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownCollectionIs404(t *testing.T) {
	mux := newNodeMux(&fakeNodeService{})

	req := httptest.NewRequest(http.MethodPost, "/api/widgets", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authenticated(req, "user_1"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListNodesHandler(t *testing.T) {
	var gotParent *string
	svc := &fakeNodeService{
		listFn: func(_ context.Context, kind models.Kind, ownerID string, parentID *string) ([]models.Node, error) {
			assert.Equal(t, models.KindProfile, kind)
			assert.Equal(t, "user_1", ownerID)
			gotParent = parentID
			return []models.Node{{ID: "a"}, {ID: "b"}}, nil
		},
	}
	mux := newNodeMux(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/profiles?parent_id=p1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authenticated(req, "user_1"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotParent)
	assert.Equal(t, "p1", *gotParent)

	var resp listNodesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Nodes, 2)
}

func TestListNodesEmptyIsArrayNotNull(t *testing.T) {
	svc := &fakeNodeService{
		listFn: func(_ context.Context, _ models.Kind, _ string, parentID *string) ([]models.Node, error) {
			assert.Nil(t, parentID, "absent query parameter means root level")
			return nil, nil
		},
	}
	mux := newNodeMux(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authenticated(req, "user_1"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"nodes":[]`)
}

func TestGetNodeWithoutAuth(t *testing.T) {
	svc := &fakeNodeService{
		getFn: func(_ context.Context, _ models.Kind, id, callerID string) (*models.Node, error) {
			assert.Equal(t, "n1", id)
			assert.Empty(t, callerID)
			return &models.Node{ID: id, IsPublished: true}, nil
		},
	}
	mux := newNodeMux(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/documents/n1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// Forbidden and not-found must be indistinguishable on the wire: same status,
// same body.
func TestGetNodeHidesExistenceFromStrangers(t *testing.T) {
	respond := func(err error) *httptest.ResponseRecorder {
		svc := &fakeNodeService{
			getFn: func(_ context.Context, _ models.Kind, _, _ string) (*models.Node, error) {
				return nil, err
			},
		}
		mux := newNodeMux(svc)
		req := httptest.NewRequest(http.MethodGet, "/api/documents/n1", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, authenticated(req, "user_2"))
		return rec
	}

	forbidden := respond(domain.ErrForbidden)
	notFound := respond(domain.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, forbidden.Code)
	assert.Equal(t, http.StatusNotFound, notFound.Code)
	assert.Equal(t, notFound.Body.String(), forbidden.Body.String())
}

func TestUpdateNodeNullClearsIcon(t *testing.T) {
	var got *services.UpdateNodeRequest
	svc := &fakeNodeService{
		updateFn: func(_ context.Context, _ models.Kind, id, callerID string, req *services.UpdateNodeRequest) (*models.Node, error) {
			assert.Equal(t, "n1", id)
			assert.Equal(t, "user_1", callerID)
			got = req
			return &models.Node{ID: id}, nil
		},
	}
	mux := newNodeMux(svc)

	body := `{"title":"renamed","icon":null}`
	req := httptest.NewRequest(http.MethodPatch, "/api/documents/n1", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authenticated(req, "user_1"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	require.NotNil(t, got.Title)
	assert.Equal(t, "renamed", *got.Title)
	assert.True(t, got.ClearIcon, "explicit null must clear the icon")
	assert.Nil(t, got.Icon)
	assert.False(t, got.ClearCoverImage, "omitted field must stay untouched")
	assert.Nil(t, got.Content)
}

func TestUpdateNodeSetsIcon(t *testing.T) {
	var got *services.UpdateNodeRequest
	svc := &fakeNodeService{
		updateFn: func(_ context.Context, _ models.Kind, _, _ string, req *services.UpdateNodeRequest) (*models.Node, error) {
			got = req
			return &models.Node{ID: "n1"}, nil
		},
	}
	mux := newNodeMux(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/documents/n1", strings.NewReader(`{"icon":"🍊"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authenticated(req, "user_1"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Icon)
	assert.Equal(t, "🍊", *got.Icon)
	assert.False(t, got.ClearIcon)
}

func TestValidationErrorIs400(t *testing.T) {
	svc := &fakeNodeService{
		updateFn: func(_ context.Context, _ models.Kind, _, _ string, _ *services.UpdateNodeRequest) (*models.Node, error) {
			return nil, domain.ErrValidation
		},
	}
	mux := newNodeMux(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/documents/n1", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authenticated(req, "user_1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCascadeEndpoints(t *testing.T) {
	calls := map[string]string{}
	svc := &fakeNodeService{
		archiveFn: func(_ context.Context, kind models.Kind, id, callerID string) error {
			calls["archive"] = string(kind) + "/" + id + "/" + callerID
			return nil
		},
		restoreFn: func(_ context.Context, kind models.Kind, id, callerID string) error {
			calls["restore"] = string(kind) + "/" + id + "/" + callerID
			return nil
		},
		removeFn: func(_ context.Context, kind models.Kind, id, callerID string) error {
			calls["remove"] = string(kind) + "/" + id + "/" + callerID
			return nil
		},
	}
	mux := newNodeMux(svc)

	for _, tc := range []struct {
		name   string
		method string
		path   string
	}{
		{"archive", http.MethodPost, "/api/events/n1/archive"},
		{"restore", http.MethodPost, "/api/events/n1/restore"},
		{"remove", http.MethodDelete, "/api/events/n1"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, authenticated(req, "user_1"))

		assert.Equal(t, http.StatusNoContent, rec.Code, tc.name)
		assert.Equal(t, "event/n1/user_1", calls[tc.name])
		assert.Empty(t, rec.Body.String(), tc.name)
	}
}

func TestCascadeForbiddenIs404(t *testing.T) {
	svc := &fakeNodeService{
		archiveFn: func(_ context.Context, _ models.Kind, _, _ string) error {
			return domain.ErrForbidden
		},
	}
	mux := newNodeMux(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/documents/n1/archive", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authenticated(req, "user_2"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	mux := newNodeMux(&fakeNodeService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
