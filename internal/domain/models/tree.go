package models

import "time"

// Tree is the root of a kind's sidebar tree for one owner.
type Tree struct {
	Kind  Kind        `json:"kind"`
	Nodes []*TreeNode `json:"nodes"`
}

// TreeNode is a node in the sidebar tree with nested children (metadata only,
// no content payload).
type TreeNode struct {
	ID          string      `json:"id"`
	ParentID    *string     `json:"parent_id"`
	Title       string      `json:"title"`
	Icon        *string     `json:"icon,omitempty"`
	IsPublished bool        `json:"is_published"`
	CreatedAt   time.Time   `json:"created_at"`
	Children    []*TreeNode `json:"children"` // Pointers for proper nesting
}
