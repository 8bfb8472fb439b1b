package domain

import "time"

// ChangeKind names the mutation behind a ChangeEvent.
type ChangeKind string

const (
	PostCreated     ChangeKind = "created"
	PostUpdated     ChangeKind = "updated"
	PostPublished   ChangeKind = "published"
	PostUnpublished ChangeKind = "unpublished"
	PostDeleted     ChangeKind = "deleted"
)

// ChangeEvent tells readers that data they rendered is stale.
type ChangeEvent struct {
	Kind   ChangeKind `json:"kind"`
	PostID uint       `json:"postId"`
	At     time.Time  `json:"at"`
}

// NewChangeEvent stamps an event with the current time.
func NewChangeEvent(kind ChangeKind, postID uint) ChangeEvent {
	return ChangeEvent{Kind: kind, PostID: postID, At: time.Now().UTC()}
}
