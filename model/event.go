package model

import "time"

type FeedEventType string

const (
	FeedEventPostCreated FeedEventType = "post.created"
	FeedEventPostDeleted FeedEventType = "post.deleted"
)

// FeedEvent tells live clients that the public feed changed and is worth re-polling.
type FeedEvent struct {
	Type      FeedEventType `json:"type"`
	PostId    string        `json:"postId"`
	Timestamp time.Time     `json:"timestamp"`
}
