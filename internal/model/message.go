package model

import "time"

// Message moderation states.  New messages wait for an admin to
// audit them; only passed messages appear in the public listing.
const (
	MessageStatePending  = 1 // waiting for admin audit
	MessageStatePassed   = 2 // approved, publicly visible
	MessageStateRejected = 3 // declined by an admin
)

// Message is a short free-text post written by a user and subject
// to admin moderation.  Authors see their own messages regardless
// of state.  This struct corresponds to a row in the `messages`
// table.
//
// Fields:
//  ID      – primary key identifier.
//  UserID  – author of the message.
//  Content – free-text body.
//  Time    – creation timestamp, used for recency ordering.
//  State   – moderation state (see MessageState* constants).
type Message struct {
	ID      uint64    // messages.id
	UserID  uint64    // messages.user_id
	Content string    // messages.content
	Time    time.Time // messages.time
	State   int       // messages.state
}
