package content

import (
	"context"
	"fmt"
	"log/slog"

	"citrusreach/internal/domain"
	"citrusreach/internal/domain/models"
	"citrusreach/internal/domain/repositories"
	"citrusreach/internal/domain/services"
)

// treeService implements services.TreeService.
type treeService struct {
	repos  map[models.Kind]repositories.NodeRepository
	logger *slog.Logger
}

// NewTreeService creates a sidebar tree builder over the same per-kind
// repositories the store uses.
func NewTreeService(repos []repositories.NodeRepository, logger *slog.Logger) services.TreeService {
	byKind := make(map[models.Kind]repositories.NodeRepository, len(repos))
	for _, r := range repos {
		byKind[r.Kind()] = r
	}
	return &treeService{repos: byKind, logger: logger}
}

// Tree builds the nested non-archived forest for one owner and kind from a
// single flat query, nesting in two passes over an id map.
func (s *treeService) Tree(ctx context.Context, kind models.Kind, ownerID string) (*models.Tree, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("tree %s: %w", kind, domain.ErrUnauthorized)
	}

	repo, ok := s.repos[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrValidation, kind)
	}

	nodes, err := repo.ListActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// First pass: create all tree nodes.
	nodeMap := make(map[string]*models.TreeNode, len(nodes))
	for _, n := range nodes {
		nodeMap[n.ID] = &models.TreeNode{
			ID:          n.ID,
			ParentID:    n.ParentID,
			Title:       n.Title,
			Icon:        n.Icon,
			IsPublished: n.IsPublished,
			CreatedAt:   n.CreatedAt,
			Children:    []*models.TreeNode{},
		}
	}

	// Second pass: nest children under parents. A node whose parent is not
	// in the map (legacy dangling reference) surfaces at root rather than
	// vanishing.
	roots := make([]*models.TreeNode, 0)
	for _, n := range nodes {
		treeNode := nodeMap[n.ID]
		if n.ParentID == nil {
			roots = append(roots, treeNode)
			continue
		}
		if parent, exists := nodeMap[*n.ParentID]; exists {
			parent.Children = append(parent.Children, treeNode)
		} else {
			roots = append(roots, treeNode)
		}
	}

	s.logger.Debug("sidebar tree built",
		"kind", kind,
		"owner_id", ownerID,
		"node_count", len(nodes),
	)

	return &models.Tree{Kind: kind, Nodes: roots}, nil
}
