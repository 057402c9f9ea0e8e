package sync

import "github.com/Nasirkc/smart-bookmark/internal/domain"

// EventKind identifies what a session event describes.
type EventKind string

const (
	// EventList signals the visible set changed; consumers re-read the
	// snapshot via Session.Bookmarks.
	EventList EventKind = "list"
	// EventHealth signals a connection-health transition.
	EventHealth EventKind = "health"
	// EventNotice signals an externally-originated insert worth
	// surfacing to the user. Local inserts echoing back never notice.
	EventNotice EventKind = "notice"
)

// Event is a session notification delivered on Session.Events.
type Event struct {
	Kind     EventKind
	Health   Health          // set for EventHealth
	Bookmark domain.Bookmark // set for EventNotice
}
