package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/hushmail/hushmail-be/app"
	appDb "github.com/hushmail/hushmail-be/db"
	"github.com/hushmail/hushmail-be/model"
	"github.com/hushmail/hushmail-be/util"
)

// Notifier receives feed changes for live clients. Publish must not block.
type Notifier interface {
	Publish(event *model.FeedEvent)
}

type noopNotifier struct{}

func (noopNotifier) Publish(*model.FeedEvent) {}

type PostController struct {
	db   appDb.Database
	live Notifier
	now  func() time.Time
}

func NewPostController(db appDb.Database, live Notifier) *PostController {
	if live == nil {
		live = noopNotifier{}
	}
	return &PostController{db: db, live: live, now: time.Now}
}

type CreatePostReq struct {
	Content  string `json:"content" validate:"notblank"`
	IsPublic *bool  `json:"isPublic" validate:"required"`
	// Anonymous hides the author fields. The post stays listable and deletable by its owner.
	Anonymous bool `json:"anonymous"`
}

func (pc *PostController) CreatePost(ctx context.Context, caller *model.Identity, req *CreatePostReq) (string, *util.HTTPError) {
	if caller == nil {
		return "", &util.UnauthenticatedHTTPErr
	}
	if httpErr := util.ValidateStruct(req); httpErr != nil {
		return "", httpErr
	}

	create := &appDb.CreatePost{
		Owner:     caller.Id,
		Content:   req.Content,
		IsPublic:  *req.IsPublic,
		Timestamp: pc.timestamp(),
	}
	if !req.Anonymous {
		create.Username, create.ProfilePicture = caller.Author()
	}
	id, err := pc.db.CreatePost(ctx, create)
	if err != nil {
		return "", util.BuildDbHTTPErr(err)
	}
	if create.IsPublic {
		pc.live.Publish(&model.FeedEvent{Type: model.FeedEventPostCreated, PostId: id, Timestamp: create.Timestamp})
	}
	return id, nil
}

func (pc *PostController) DeletePost(ctx context.Context, caller *model.Identity, postId string) *util.HTTPError {
	if caller == nil {
		return &util.UnauthenticatedHTTPErr
	}
	if postId == "" {
		return util.ValidationHTTPErr(map[string]string{"postId": "PostId is required"})
	}
	post, err := pc.db.GetPostById(ctx, postId)
	if err != nil {
		return util.BuildDbHTTPErr(err)
	}
	if post == nil {
		return util.NotFoundHTTPErr("post not found")
	}
	if !post.CanDelete(caller) {
		return util.ForbiddenHTTPErr("cannot delete another user's post")
	}
	if err := pc.db.DeletePost(ctx, postId); err != nil {
		return util.BuildDbHTTPErr(err)
	}
	if post.IsPublic {
		pc.live.Publish(&model.FeedEvent{Type: model.FeedEventPostDeleted, PostId: postId, Timestamp: pc.timestamp()})
	}
	return nil
}

// GetPostById hides private posts from everyone but their owner.
func (pc *PostController) GetPostById(ctx context.Context, caller *model.Identity, postId string) (*model.Post, *util.HTTPError) {
	post, err := pc.db.GetPostById(ctx, postId)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if post == nil || !post.VisibleTo(caller) {
		return nil, util.NotFoundHTTPErr("post not found")
	}
	return post, nil
}

func (pc *PostController) GetPostsByOwner(ctx context.Context, caller *model.Identity) ([]*model.Post, *util.HTTPError) {
	if caller == nil {
		return nil, &util.UnauthenticatedHTTPErr
	}
	posts, err := app.GetPostsByOwner(ctx, pc.db, caller.Id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return posts, nil
}

func (pc *PostController) GetPublicPostsPage(ctx context.Context, cursor *app.PostCursor, limit int) ([]*model.Post, *app.PostCursor, *util.HTTPError) {
	posts, next, err := app.GetPublicPostsPage(ctx, pc.db, cursor, limit)
	if errors.Is(err, app.ErrMalformedCursor) {
		return nil, nil, util.BadRequestHTTPErr("malformed cursor", err)
	}
	if err != nil {
		return nil, nil, util.BuildDbHTTPErr(err)
	}
	return posts, next, nil
}

func (pc *PostController) GetAllPublicPosts(ctx context.Context) ([]*model.Post, *util.HTTPError) {
	posts, err := app.GetAllPublicPosts(ctx, pc.db)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return posts, nil
}

// timestamp is truncated to milliseconds so echoed cursors match every store exactly.
func (pc *PostController) timestamp() time.Time {
	return pc.now().UTC().Truncate(time.Millisecond)
}
