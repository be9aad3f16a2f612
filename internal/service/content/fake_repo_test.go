package content

import (
	"context"
	"fmt"
	"sort"
	"time"

	"citrusreach/internal/domain"
	"citrusreach/internal/domain/models"
	"citrusreach/internal/domain/repositories"
)

// fakeNodeRepo is an in-memory NodeRepository mirroring the postgres
// implementation's semantics, including the archive stamp rules.
type fakeNodeRepo struct {
	kind  models.Kind
	nodes map[string]*models.Node
	seq   map[string]int
	next  int

	// failOn, when set, makes the named method return an error. Used to
	// exercise mid-cascade failure handling.
	failOn string
}

func newFakeNodeRepo(kind models.Kind) *fakeNodeRepo {
	return &fakeNodeRepo{
		kind:  kind,
		nodes: make(map[string]*models.Node),
		seq:   make(map[string]int),
	}
}

func (f *fakeNodeRepo) Kind() models.Kind { return f.kind }

func (f *fakeNodeRepo) Create(_ context.Context, node *models.Node) error {
	if f.failOn == "Create" {
		return fmt.Errorf("fake create failure")
	}
	if _, exists := f.nodes[node.ID]; exists {
		return fmt.Errorf("%s %s: %w", f.kind, node.ID, domain.ErrConflict)
	}
	copied := *node
	f.nodes[node.ID] = &copied
	f.next++
	f.seq[node.ID] = f.next
	return nil
}

func (f *fakeNodeRepo) GetByID(_ context.Context, id string) (*models.Node, error) {
	node, ok := f.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", f.kind, id, domain.ErrNotFound)
	}
	copied := *node
	return &copied, nil
}

func (f *fakeNodeRepo) Update(_ context.Context, node *models.Node) error {
	stored, ok := f.nodes[node.ID]
	if !ok {
		return fmt.Errorf("%s %s: %w", f.kind, node.ID, domain.ErrNotFound)
	}
	stored.Title = node.Title
	stored.Content = node.Content
	stored.Icon = node.Icon
	stored.CoverImage = node.CoverImage
	stored.IsPublished = node.IsPublished
	stored.UpdatedAt = node.UpdatedAt
	return nil
}

func (f *fakeNodeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.nodes[id]; !ok {
		return fmt.Errorf("%s %s: %w", f.kind, id, domain.ErrNotFound)
	}
	delete(f.nodes, id)
	return nil
}

func (f *fakeNodeRepo) ListChildren(_ context.Context, ownerID string, parentID *string) ([]models.Node, error) {
	var out []models.Node
	for _, node := range f.nodes {
		if node.OwnerID != ownerID || node.IsArchived {
			continue
		}
		if !sameParent(node.ParentID, parentID) {
			continue
		}
		out = append(out, *node)
	}
	f.sortNewestFirst(out)
	return out, nil
}

func (f *fakeNodeRepo) ListByParents(_ context.Context, ownerID string, parentIDs []string) ([]models.Node, error) {
	if f.failOn == "ListByParents" {
		return nil, fmt.Errorf("fake query failure")
	}
	parents := make(map[string]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}
	var out []models.Node
	for _, node := range f.nodes {
		if node.OwnerID != ownerID || node.ParentID == nil {
			continue
		}
		if parents[*node.ParentID] {
			out = append(out, *node)
		}
	}
	f.sortNewestFirst(out)
	return out, nil
}

func (f *fakeNodeRepo) MarkArchived(_ context.Context, ids []string, at time.Time) error {
	if f.failOn == "MarkArchived" {
		return fmt.Errorf("fake archive failure")
	}
	for _, id := range ids {
		node, ok := f.nodes[id]
		if !ok || node.IsArchived {
			continue
		}
		stamp := at
		node.IsArchived = true
		node.ArchivedAt = &stamp
		node.UpdatedAt = at
	}
	return nil
}

func (f *fakeNodeRepo) MarkRestored(_ context.Context, ids []string) error {
	for _, id := range ids {
		node, ok := f.nodes[id]
		if !ok {
			continue
		}
		node.IsArchived = false
		node.ArchivedAt = nil
		node.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (f *fakeNodeRepo) ClearParent(_ context.Context, id string) error {
	node, ok := f.nodes[id]
	if !ok {
		return fmt.Errorf("%s %s: %w", f.kind, id, domain.ErrNotFound)
	}
	node.ParentID = nil
	return nil
}

func (f *fakeNodeRepo) DetachChildren(_ context.Context, ownerID, parentID string) error {
	for _, node := range f.nodes {
		if node.OwnerID == ownerID && node.ParentID != nil && *node.ParentID == parentID {
			node.ParentID = nil
		}
	}
	return nil
}

func (f *fakeNodeRepo) ListActiveByOwner(_ context.Context, ownerID string) ([]models.Node, error) {
	var out []models.Node
	for _, node := range f.nodes {
		if node.OwnerID == ownerID && !node.IsArchived {
			out = append(out, *node)
		}
	}
	f.sortNewestFirst(out)
	return out, nil
}

// sortNewestFirst orders by created_at descending with insertion order as a
// deterministic tie-break, mirroring the SQL ORDER BY.
func (f *fakeNodeRepo) sortNewestFirst(nodes []models.Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if !nodes[i].CreatedAt.Equal(nodes[j].CreatedAt) {
			return nodes[i].CreatedAt.After(nodes[j].CreatedAt)
		}
		return f.seq[nodes[i].ID] > f.seq[nodes[j].ID]
	})
}

// stored returns the live record for assertions.
func (f *fakeNodeRepo) stored(id string) *models.Node {
	return f.nodes[id]
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

var _ repositories.NodeRepository = (*fakeNodeRepo)(nil)

// fakeTxManager runs the function directly; the fakes have no transactional
// behavior to coordinate.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
