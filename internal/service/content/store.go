// Package content implements the content tree store: owner-scoped forests of
// documents, profiles and events with cascade-consistent archive and restore.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"citrusreach/internal/domain"
	"citrusreach/internal/domain/models"
	"citrusreach/internal/domain/repositories"
	"citrusreach/internal/domain/services"
	"citrusreach/internal/kinds"
)

// PublishedCache is a read cache for publicly visible nodes. Implementations
// must only ever hold published, non-archived nodes.
type PublishedCache interface {
	// Get returns the cached node, or nil on miss.
	Get(ctx context.Context, kind models.Kind, id string) (*models.Node, error)
	Set(ctx context.Context, kind models.Kind, node *models.Node) error
	Invalidate(ctx context.Context, kind models.Kind, id string) error
}

// Store implements services.NodeService over one repository per kind.
type Store struct {
	repos  map[models.Kind]repositories.NodeRepository
	tx     repositories.TransactionManager
	kinds  *kinds.Registry
	cache  PublishedCache // optional, may be nil
	logger *slog.Logger
}

// NewStore creates the content tree store. The cache is optional.
func NewStore(
	repos []repositories.NodeRepository,
	tx repositories.TransactionManager,
	registry *kinds.Registry,
	cache PublishedCache,
	logger *slog.Logger,
) *Store {
	byKind := make(map[models.Kind]repositories.NodeRepository, len(repos))
	for _, r := range repos {
		byKind[r.Kind()] = r
	}
	return &Store{
		repos:  byKind,
		tx:     tx,
		kinds:  registry,
		cache:  cache,
		logger: logger,
	}
}

var _ services.NodeService = (*Store)(nil)

func (s *Store) repo(kind models.Kind) (repositories.NodeRepository, error) {
	r, ok := s.repos[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrValidation, kind)
	}
	return r, nil
}

// Create inserts a new private, unarchived node for the owner.
func (s *Store) Create(ctx context.Context, kind models.Kind, req *services.CreateNodeRequest) (*models.Node, error) {
	if req.OwnerID == "" {
		return nil, fmt.Errorf("create %s: %w", kind, domain.ErrUnauthorized)
	}

	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}

	settings, err := s.kinds.Get(kind)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = settings.PlaceholderTitle
	}
	if err := validateTitle(title, settings.MaxTitleLength); err != nil {
		return nil, err
	}

	parentID := normalizeParentID(req.ParentID)
	if parentID != nil {
		if err := s.checkParent(ctx, repo, req.OwnerID, *parentID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	node := &models.Node{
		ID:        uuid.NewString(),
		OwnerID:   req.OwnerID,
		ParentID:  parentID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := repo.Create(ctx, node); err != nil {
		return nil, err
	}

	s.logger.Info("node created",
		"kind", kind,
		"id", node.ID,
		"owner_id", node.OwnerID,
		"root", node.ParentID == nil,
	)

	return node, nil
}

// checkParent enforces the parent invariant: the parent must exist, belong to
// the same owner and kind, and not be archived. Any violation surfaces as a
// single validation error so a guessing caller learns nothing about other
// owners' nodes.
func (s *Store) checkParent(ctx context.Context, repo repositories.NodeRepository, ownerID, parentID string) error {
	parent, err := repo.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: parent %s does not exist", domain.ErrValidation, parentID)
		}
		return err
	}
	if parent.OwnerID != ownerID {
		return fmt.Errorf("%w: parent %s does not exist", domain.ErrValidation, parentID)
	}
	if parent.IsArchived {
		return fmt.Errorf("%w: parent %s is archived", domain.ErrValidation, parentID)
	}
	return nil
}

// List returns the owner's non-archived nodes under parentID (nil = root),
// newest first.
func (s *Store) List(ctx context.Context, kind models.Kind, ownerID string, parentID *string) ([]models.Node, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("list %s: %w", kind, domain.ErrUnauthorized)
	}

	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}

	return repo.ListChildren(ctx, ownerID, normalizeParentID(parentID))
}

// Get returns a node if it is publicly visible or if callerID is its owner.
func (s *Store) Get(ctx context.Context, kind models.Kind, id, callerID string) (*models.Node, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}

	// Anonymous reads of published nodes are the hot path.
	if callerID == "" && s.cache != nil {
		if cached, err := s.cache.Get(ctx, kind, id); err != nil {
			s.logger.Warn("published cache read failed", "kind", kind, "id", id, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	node, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if node.PubliclyVisible() {
		if callerID == "" && s.cache != nil {
			if err := s.cache.Set(ctx, kind, node); err != nil {
				s.logger.Warn("published cache write failed", "kind", kind, "id", id, "error", err)
			}
		}
		return node, nil
	}

	if callerID == "" || callerID != node.OwnerID {
		return nil, fmt.Errorf("%s %s: %w", kind, id, domain.ErrForbidden)
	}

	return node, nil
}

// Update applies a partial update after verifying ownership.
func (s *Store) Update(ctx context.Context, kind models.Kind, id, callerID string, req *services.UpdateNodeRequest) (*models.Node, error) {
	if callerID == "" {
		return nil, fmt.Errorf("update %s: %w", kind, domain.ErrUnauthorized)
	}

	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}

	settings, err := s.kinds.Get(kind)
	if err != nil {
		return nil, err
	}

	node, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if node.OwnerID != callerID {
		return nil, fmt.Errorf("%s %s: %w", kind, id, domain.ErrForbidden)
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			title = settings.PlaceholderTitle
		}
		if err := validateTitle(title, settings.MaxTitleLength); err != nil {
			return nil, err
		}
		node.Title = title
	}
	if req.Content != nil {
		if err := validateContent(*req.Content); err != nil {
			return nil, err
		}
		node.Content = *req.Content
	}
	if req.ClearIcon {
		node.Icon = nil
	} else if req.Icon != nil {
		node.Icon = req.Icon
	}
	if req.ClearCoverImage {
		node.CoverImage = nil
	} else if req.CoverImage != nil {
		node.CoverImage = req.CoverImage
	}
	if req.IsPublished != nil {
		node.IsPublished = *req.IsPublished
	}

	node.UpdatedAt = time.Now().UTC()
	if err := repo.Update(ctx, node); err != nil {
		return nil, err
	}

	s.invalidate(ctx, kind, id)

	return node, nil
}

// invalidate drops a node from the published cache, if one is configured.
func (s *Store) invalidate(ctx context.Context, kind models.Kind, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, kind, id); err != nil {
		s.logger.Warn("published cache invalidation failed", "kind", kind, "id", id, "error", err)
	}
}

// normalizeParentID maps an empty-string parent id to nil (root level).
func normalizeParentID(parentID *string) *string {
	if parentID != nil && *parentID == "" {
		return nil
	}
	return parentID
}
