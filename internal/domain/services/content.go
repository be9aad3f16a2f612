package services

import (
	"context"

	"citrusreach/internal/domain/models"
)

// CreateNodeRequest carries the inputs for creating a node. OwnerID comes
// from the verified caller identity, never from the request body.
type CreateNodeRequest struct {
	OwnerID  string  `json:"-"`
	Title    string  `json:"title"`
	ParentID *string `json:"parent_id,omitempty"`
}

// UpdateNodeRequest carries a partial update of a node's mutable fields.
// Nil pointers leave the field unchanged; the Clear flags express an
// explicit JSON null (clear icon / cover image).
type UpdateNodeRequest struct {
	Title           *string
	Content         *string
	Icon            *string
	ClearIcon       bool
	CoverImage      *string
	ClearCoverImage bool
	IsPublished     *bool
}

// NodeService is the content tree store: owner-scoped CRUD over the three
// parallel hierarchies with cascade-consistent archive and restore.
type NodeService interface {
	// Create inserts a new private, unarchived node for the owner.
	Create(ctx context.Context, kind models.Kind, req *CreateNodeRequest) (*models.Node, error)

	// List returns the owner's non-archived nodes under parentID
	// (nil = root), newest first.
	List(ctx context.Context, kind models.Kind, ownerID string, parentID *string) ([]models.Node, error)

	// Get returns a node if it is publicly visible or if callerID is its
	// owner. callerID may be empty for unauthenticated reads.
	Get(ctx context.Context, kind models.Kind, id, callerID string) (*models.Node, error)

	// Update applies a partial update after verifying ownership.
	Update(ctx context.Context, kind models.Kind, id, callerID string, req *UpdateNodeRequest) (*models.Node, error)

	// Archive soft-deletes the node and every descendant.
	Archive(ctx context.Context, kind models.Kind, id, callerID string) error

	// Restore un-archives the node and the descendants archived with it,
	// detaching the node to root when its parent is missing or archived.
	Restore(ctx context.Context, kind models.Kind, id, callerID string) error

	// Remove hard-deletes the single record, detaching its direct children
	// to root level.
	Remove(ctx context.Context, kind models.Kind, id, callerID string) error
}

// TreeService builds the nested sidebar tree for one owner and kind.
type TreeService interface {
	Tree(ctx context.Context, kind models.Kind, ownerID string) (*models.Tree, error)
}
