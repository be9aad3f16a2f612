package config

import "time"

const (
	// MaxTitleLength caps node titles. 255 fits PostgreSQL VARCHAR(255)
	// and keeps sidebar labels reasonable.
	MaxTitleLength = 255

	// MaxContentBytes caps a node's content payload. The payload is opaque
	// to the tree core; the cap only protects the store from runaway
	// bodies.
	MaxContentBytes = 1 << 20

	// MaxCascadeDepth bounds archive/restore traversal. The forest is
	// acyclic by construction, so hitting this limit means corrupted
	// parent links.
	MaxCascadeDepth = 64

	// PublishedCacheTTL is how long a publicly visible node may be served
	// from cache after its last write.
	PublishedCacheTTL = 5 * time.Minute
)
