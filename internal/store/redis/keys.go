package redis

const (
	// KeyPrefixBookmark is the prefix for bookmark value keys
	KeyPrefixBookmark = "bookmarks:item:"
	// KeyPrefixOwner is the prefix for per-user bookmark id sets
	KeyPrefixOwner = "bookmarks:owner:"

	// ChannelInserted is the pub/sub channel carrying every insert event.
	// It is shared across users; consumers filter by owner_id client-side.
	ChannelInserted = "bookmarks:events:inserted"
	// ChannelDeletedPrefix is the prefix for per-user delete event channels.
	ChannelDeletedPrefix = "bookmarks:events:deleted:"
)

// BookmarkKey returns the Redis key holding one bookmark's JSON value
func BookmarkKey(id string) string {
	return KeyPrefixBookmark + id
}

// OwnerSetKey returns the Redis key for a user's set of bookmark ids
func OwnerSetKey(ownerID string) string {
	return KeyPrefixOwner + ownerID
}

// InsertChannel returns the shared insert event channel
func InsertChannel() string {
	return ChannelInserted
}

// DeleteChannel returns the per-user delete event channel
func DeleteChannel(ownerID string) string {
	return ChannelDeletedPrefix + ownerID
}
