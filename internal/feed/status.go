package feed

// Status classifies the state of a change-feed subscription.
type Status string

const (
	// StatusSubscribed means both event channels are attached and events
	// are flowing.
	StatusSubscribed Status = "subscribed"
	// StatusChannelError means the feed connection failed.
	StatusChannelError Status = "channel_error"
	// StatusClosed means the subscription was shut down.
	StatusClosed Status = "closed"
	// StatusTimedOut means the transport gave up waiting for the server.
	StatusTimedOut Status = "timed_out"
)
