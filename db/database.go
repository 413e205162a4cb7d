package db

import (
	"context"
	"time"

	"github.com/hushmail/hushmail-be/model"
)

type Database interface {
	PostDatabase
	ResponseDatabase
	Ping(ctx context.Context) error
	Close() error
}

type CreatePost struct {
	Owner          string
	Content        string
	Username       *string // nil for anonymous posts
	ProfilePicture *string
	IsPublic       bool
	Timestamp      time.Time
}

type CreateResponse struct {
	PostId         string
	Content        string
	Username       *string
	ProfilePicture *string
	Timestamp      time.Time
}

// PostsListQuery selects posts ordered by timestamp DESC, id DESC.
type PostsListQuery struct {
	// From restricts results to posts strictly older than From. When LastId is also set,
	// posts with timestamp == From and id < LastId are included too.
	From   *time.Time
	LastId string
	// PublicOnly restricts results to public posts.
	PublicOnly bool
	// Owner restricts results to one owner's posts when non-empty.
	Owner string
	// Limit <= 0 means no limit.
	Limit int
}

type PostDatabase interface {
	CreatePost(ctx context.Context, req *CreatePost) (postId string, err error)
	// GetPostById returns nil, nil when no post has that id (including malformed ids).
	GetPostById(ctx context.Context, id string) (*model.Post, error)
	GetPosts(ctx context.Context, query *PostsListQuery) ([]*model.Post, error)
	DeletePost(ctx context.Context, id string) error
}

type ResponseDatabase interface {
	// CreateResponse inserts the response and increments the parent's response count as one operation.
	CreateResponse(ctx context.Context, req *CreateResponse) (responseId string, err error)
	// GetResponses returns a post's responses ordered by timestamp DESC, id DESC.
	GetResponses(ctx context.Context, postId string) ([]*model.Response, error)
}
