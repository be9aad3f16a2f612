package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"citrusreach/internal/config"
	"citrusreach/internal/domain"
	"citrusreach/internal/domain/models"
	"citrusreach/internal/domain/repositories"
)

// Archive soft-deletes the node and every descendant. The whole cascade runs
// in one transaction: a mid-cascade failure rolls back instead of leaving an
// archived parent with live children.
//
// Traversal is an iterative breadth-first worklist with one batched child
// query per level, marking each level before descending into the next so a
// node's own flag is always set before its children are visited.
func (s *Store) Archive(ctx context.Context, kind models.Kind, id, callerID string) error {
	if callerID == "" {
		return fmt.Errorf("archive %s: %w", kind, domain.ErrUnauthorized)
	}

	repo, err := s.repo(kind)
	if err != nil {
		return err
	}

	var visited []string
	err = s.tx.ExecTx(ctx, func(ctx context.Context) error {
		node, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if node.OwnerID != callerID {
			return fmt.Errorf("%s %s: %w", kind, id, domain.ErrForbidden)
		}

		now := time.Now().UTC()
		seen := map[string]bool{node.ID: true}
		frontier := []string{node.ID}

		for depth := 0; len(frontier) > 0; depth++ {
			if depth > config.MaxCascadeDepth {
				return fmt.Errorf("archive %s %s: cascade exceeded depth %d, parent links are corrupted", kind, id, config.MaxCascadeDepth)
			}

			if err := repo.MarkArchived(ctx, frontier, now); err != nil {
				return err
			}
			visited = append(visited, frontier...)

			children, err := repo.ListByParents(ctx, callerID, frontier)
			if err != nil {
				return err
			}

			frontier = frontier[:0]
			for _, child := range children {
				if seen[child.ID] {
					continue
				}
				seen[child.ID] = true
				frontier = append(frontier, child.ID)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	// Archived nodes must disappear from public reads immediately.
	for _, nodeID := range visited {
		s.invalidate(ctx, kind, nodeID)
	}

	s.logger.Info("subtree archived",
		"kind", kind,
		"id", id,
		"owner_id", callerID,
		"node_count", len(visited),
	)

	return nil
}

// Restore un-archives the node and the descendants that were archived with
// it. Two rules shape the cascade:
//
//   - Parent repair: if the node's parent is missing or still archived, the
//     node is detached to root level so it never silently reappears under a
//     hidden parent.
//   - Stamp gating: a descendant is restored only if its archived_at stamp
//     is not older than the target's. Descendants the owner archived
//     independently before the ancestor keep their stamp from that earlier
//     operation and stay archived, subtree included.
//
// Rows archived before stamps existed carry no archived_at and are always
// restored, matching the historical unconditional cascade.
func (s *Store) Restore(ctx context.Context, kind models.Kind, id, callerID string) error {
	if callerID == "" {
		return fmt.Errorf("restore %s: %w", kind, domain.ErrUnauthorized)
	}

	repo, err := s.repo(kind)
	if err != nil {
		return err
	}

	var restored int
	err = s.tx.ExecTx(ctx, func(ctx context.Context) error {
		node, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if node.OwnerID != callerID {
			return fmt.Errorf("%s %s: %w", kind, id, domain.ErrForbidden)
		}

		// Capture the stamp before clearing it; it gates the cascade.
		threshold := node.ArchivedAt

		if node.ParentID != nil {
			if err := s.repairParentLink(ctx, repo, node); err != nil {
				return err
			}
		}

		seen := map[string]bool{node.ID: true}
		frontier := []string{node.ID}

		for depth := 0; len(frontier) > 0; depth++ {
			if depth > config.MaxCascadeDepth {
				return fmt.Errorf("restore %s %s: cascade exceeded depth %d, parent links are corrupted", kind, id, config.MaxCascadeDepth)
			}

			if err := repo.MarkRestored(ctx, frontier); err != nil {
				return err
			}
			restored += len(frontier)

			children, err := repo.ListByParents(ctx, callerID, frontier)
			if err != nil {
				return err
			}

			frontier = frontier[:0]
			for _, child := range children {
				if seen[child.ID] {
					continue
				}
				seen[child.ID] = true
				// Only descend into descendants this cascade restores.
				// A child left archived keeps its whole subtree as-is.
				if child.IsArchived && restorable(threshold, child.ArchivedAt) {
					frontier = append(frontier, child.ID)
				}
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("subtree restored",
		"kind", kind,
		"id", id,
		"owner_id", callerID,
		"node_count", restored,
	)

	return nil
}

// repairParentLink detaches the node to root level when its parent is
// missing or still archived. A missing parent (left behind by a hard delete)
// is treated the same as an archived one.
func (s *Store) repairParentLink(ctx context.Context, repo repositories.NodeRepository, node *models.Node) error {
	parent, err := repo.GetByID(ctx, *node.ParentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			node.ParentID = nil
			return repo.ClearParent(ctx, node.ID)
		}
		return err
	}

	if parent.IsArchived {
		node.ParentID = nil
		return repo.ClearParent(ctx, node.ID)
	}

	return nil
}

// restorable reports whether a descendant's stamp allows it to ride this
// restore cascade.
func restorable(threshold, archivedAt *time.Time) bool {
	if threshold == nil || archivedAt == nil {
		return true
	}
	return !archivedAt.Before(*threshold)
}

// Remove hard-deletes the single record. Direct children are detached to
// root level in the same transaction so no parent reference ever dangles.
func (s *Store) Remove(ctx context.Context, kind models.Kind, id, callerID string) error {
	if callerID == "" {
		return fmt.Errorf("remove %s: %w", kind, domain.ErrUnauthorized)
	}

	repo, err := s.repo(kind)
	if err != nil {
		return err
	}

	err = s.tx.ExecTx(ctx, func(ctx context.Context) error {
		node, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if node.OwnerID != callerID {
			return fmt.Errorf("%s %s: %w", kind, id, domain.ErrForbidden)
		}

		if err := repo.DetachChildren(ctx, callerID, id); err != nil {
			return err
		}

		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, kind, id)

	s.logger.Info("node removed", "kind", kind, "id", id, "owner_id", callerID)

	return nil
}
