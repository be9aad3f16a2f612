package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"citrusreach/internal/domain"
	"citrusreach/internal/domain/models"
	"citrusreach/internal/domain/repositories"
)

const nodeColumns = "id, owner_id, parent_id, title, content, icon, cover_image, is_published, is_archived, archived_at, created_at, updated_at"

// nodeRepository implements repositories.NodeRepository against one kind's
// table. The same implementation serves documents, profiles and events; only
// the bound table differs.
type nodeRepository struct {
	pool  *pgxpool.Pool
	kind  models.Kind
	table string
}

// NewNodeRepository creates a node repository bound to the given kind.
func NewNodeRepository(config *RepositoryConfig, kind models.Kind) repositories.NodeRepository {
	return &nodeRepository{
		pool:  config.Pool,
		kind:  kind,
		table: config.Tables.ForKind(kind),
	}
}

func (r *nodeRepository) Kind() models.Kind { return r.kind }

// Create inserts a new node.
func (r *nodeRepository) Create(ctx context.Context, node *models.Node) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, parent_id, title, content, icon, cover_image, is_published, is_archived, archived_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`, r.table)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		node.ID,
		node.OwnerID,
		node.ParentID,
		node.Title,
		node.Content,
		node.Icon,
		node.CoverImage,
		node.IsPublished,
		node.IsArchived,
		node.ArchivedAt,
		node.CreatedAt,
		node.UpdatedAt,
	).Scan(&node.CreatedAt, &node.UpdatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("%s %s: %w", r.kind, node.ID, domain.ErrConflict)
		}
		return fmt.Errorf("create %s: %w", r.kind, err)
	}

	return nil
}

// GetByID retrieves a node by id regardless of owner or archive state.
func (r *nodeRepository) GetByID(ctx context.Context, id string) (*models.Node, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, nodeColumns, r.table)

	node, err := scanNode(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("%s %s: %w", r.kind, id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get %s: %w", r.kind, err)
	}

	return node, nil
}

// Update persists the node's mutable fields.
func (r *nodeRepository) Update(ctx context.Context, node *models.Node) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, content = $2, icon = $3, cover_image = $4, is_published = $5, updated_at = $6
		WHERE id = $7
	`, r.table)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		node.Title,
		node.Content,
		node.Icon,
		node.CoverImage,
		node.IsPublished,
		node.UpdatedAt,
		node.ID,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.kind, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", r.kind, node.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes the single record without touching children.
func (r *nodeRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.table)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.kind, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", r.kind, id, domain.ErrNotFound)
	}

	return nil
}

// ListChildren lists non-archived children of an owner under parentID
// (nil = root level), newest first.
func (r *nodeRepository) ListChildren(ctx context.Context, ownerID string, parentID *string) ([]models.Node, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND parent_id IS NULL AND NOT is_archived
			ORDER BY created_at DESC
		`, nodeColumns, r.table)
		args = append(args, ownerID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND parent_id = $2 AND NOT is_archived
			ORDER BY created_at DESC
		`, nodeColumns, r.table)
		args = append(args, ownerID, *parentID)
	}

	return r.queryNodes(ctx, query, args...)
}

// ListByParents lists all nodes of an owner whose parent is in the given
// set, archived ones included. Used by the cascade worklist, one call per
// level.
func (r *nodeRepository) ListByParents(ctx context.Context, ownerID string, parentIDs []string) ([]models.Node, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1 AND parent_id = ANY($2)
	`, nodeColumns, r.table)

	return r.queryNodes(ctx, query, ownerID, parentIDs)
}

// MarkArchived sets is_archived on the given ids. The archived_at stamp is
// written only where the row was not already archived, so a row archived
// independently earlier keeps its original stamp and a later restore of an
// ancestor will not resurrect it.
func (r *nodeRepository) MarkArchived(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET is_archived = TRUE, archived_at = $2, updated_at = $2
		WHERE id = ANY($1) AND NOT is_archived
	`, r.table)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, ids, at); err != nil {
		return fmt.Errorf("archive %s nodes: %w", r.kind, err)
	}

	return nil
}

// MarkRestored clears is_archived and archived_at on the given ids.
func (r *nodeRepository) MarkRestored(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET is_archived = FALSE, archived_at = NULL, updated_at = NOW()
		WHERE id = ANY($1)
	`, r.table)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("restore %s nodes: %w", r.kind, err)
	}

	return nil
}

// ClearParent detaches a node to root level.
func (r *nodeRepository) ClearParent(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = NULL, updated_at = NOW()
		WHERE id = $1
	`, r.table)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("clear %s parent: %w", r.kind, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", r.kind, id, domain.ErrNotFound)
	}

	return nil
}

// DetachChildren clears parent_id on every direct child of the given node.
func (r *nodeRepository) DetachChildren(ctx context.Context, ownerID, parentID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = NULL, updated_at = NOW()
		WHERE owner_id = $1 AND parent_id = $2
	`, r.table)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, ownerID, parentID); err != nil {
		return fmt.Errorf("detach %s children: %w", r.kind, err)
	}

	return nil
}

// ListActiveByOwner retrieves all non-archived nodes of an owner as a flat
// list for tree building.
func (r *nodeRepository) ListActiveByOwner(ctx context.Context, ownerID string) ([]models.Node, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1 AND NOT is_archived
		ORDER BY created_at DESC
	`, nodeColumns, r.table)

	return r.queryNodes(ctx, query, ownerID)
}

func (r *nodeRepository) queryNodes(ctx context.Context, query string, args ...interface{}) ([]models.Node, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s nodes: %w", r.kind, err)
	}
	defer rows.Close()

	var nodes []models.Node
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.kind, err)
		}
		nodes = append(nodes, *node)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s nodes: %w", r.kind, err)
	}

	return nodes, nil
}

func scanNode(row pgx.Row) (*models.Node, error) {
	var node models.Node
	err := row.Scan(
		&node.ID,
		&node.OwnerID,
		&node.ParentID,
		&node.Title,
		&node.Content,
		&node.Icon,
		&node.CoverImage,
		&node.IsPublished,
		&node.IsArchived,
		&node.ArchivedAt,
		&node.CreatedAt,
		&node.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &node, nil
}
