package models

import (
	"fmt"
	"time"
)

// Kind discriminates the three parallel content hierarchies. Each kind is an
// independent forest; a node's parent must always be of the same kind.
type Kind string

const (
	KindDocument Kind = "document"
	KindProfile  Kind = "profile"
	KindEvent    Kind = "event"
)

// Kinds lists all valid kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindDocument, KindProfile, KindEvent}
}

// ParseKind converts a string (typically a URL segment) into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindDocument, KindProfile, KindEvent:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown kind %q", s)
	}
}

func (k Kind) String() string { return string(k) }

// Node is a single record in an owner-scoped content forest. ParentID nil
// means root level. ArchivedAt records when the node was soft-deleted and is
// what lets a restore cascade skip descendants that were archived
// independently before the ancestor.
type Node struct {
	ID          string     `json:"id" db:"id"`
	OwnerID     string     `json:"owner_id" db:"owner_id"`
	ParentID    *string    `json:"parent_id" db:"parent_id"` // NULL = root level
	Title       string     `json:"title" db:"title"`
	Content     string     `json:"content" db:"content"`
	Icon        *string    `json:"icon,omitempty" db:"icon"`
	CoverImage  *string    `json:"cover_image,omitempty" db:"cover_image"`
	IsPublished bool       `json:"is_published" db:"is_published"`
	IsArchived  bool       `json:"is_archived" db:"is_archived"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty" db:"archived_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// PubliclyVisible reports whether any caller may read the node. Archive
// supersedes publish: an archived node is never publicly visible.
func (n *Node) PubliclyVisible() bool {
	return n.IsPublished && !n.IsArchived
}
