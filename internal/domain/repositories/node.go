package repositories

import (
	"context"
	"time"

	"citrusreach/internal/domain/models"
)

// NodeRepository defines data access for one kind's node table. Each kind
// gets its own repository bound to its table; the service layer holds one
// repository per kind and runs the same algorithms against all of them.
type NodeRepository interface {
	// Kind reports which hierarchy this repository is bound to.
	Kind() models.Kind

	// Create inserts a new node and fills in its id and timestamps.
	Create(ctx context.Context, node *models.Node) error

	// GetByID retrieves a node by id regardless of owner or archive state.
	// Authorization and visibility checks belong to the service layer.
	GetByID(ctx context.Context, id string) (*models.Node, error)

	// Update persists the node's mutable fields.
	Update(ctx context.Context, node *models.Node) error

	// Delete removes the single record. It does not touch children.
	Delete(ctx context.Context, id string) error

	// ListChildren lists non-archived nodes of an owner under the given
	// parent (nil = root level), ordered by created_at descending.
	ListChildren(ctx context.Context, ownerID string, parentID *string) ([]models.Node, error)

	// ListByParents lists all nodes of an owner whose parent_id is in the
	// given set, archived ones included. One call per BFS level keeps
	// cascades at O(depth) queries instead of O(nodes).
	ListByParents(ctx context.Context, ownerID string, parentIDs []string) ([]models.Node, error)

	// MarkArchived sets is_archived on the given ids, stamping archived_at
	// only on rows that were not already archived. Re-marking an archived
	// row must not overwrite its original stamp.
	MarkArchived(ctx context.Context, ids []string, at time.Time) error

	// MarkRestored clears is_archived and archived_at on the given ids.
	MarkRestored(ctx context.Context, ids []string) error

	// ClearParent detaches a node to root level.
	ClearParent(ctx context.Context, id string) error

	// DetachChildren clears parent_id on every direct child of the given
	// node, so a hard delete never leaves dangling parent references.
	DetachChildren(ctx context.Context, ownerID, parentID string) error

	// ListActiveByOwner retrieves all non-archived nodes of an owner as a
	// flat list (metadata for tree building, content included).
	ListActiveByOwner(ctx context.Context, ownerID string) ([]models.Node, error)
}
