package domain

import "time"

// Bookmark represents one saved link belonging to a single user.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier, assigned by the store at
	// creation time. Stable for the lifetime of the entity.
	ID string `json:"id"`

	// OwnerID is the identifier of the user who owns the bookmark.
	OwnerID string `json:"owner_id"`

	// ─────────────────────────────
	// User-supplied content
	// ─────────────────────────────

	// Title is the display string shown in the list. Never empty.
	Title string `json:"title"`

	// URL is an absolute http(s) URL.
	// Example: https://example.com/some/page
	URL string `json:"url"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is assigned by the store at persistence time and is the
	// sole sort key for display ordering (newest first).
	CreatedAt time.Time `json:"created_at"`
}
