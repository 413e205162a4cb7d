package app

import (
	"context"
	"errors"

	appDb "github.com/hushmail/hushmail-be/db"
	"github.com/hushmail/hushmail-be/model"
)

// GetPublicPostsPage returns up to limit public posts older than cursor, newest first.
// limit <= 0 returns every remaining post. An empty page comes with a nil next cursor.
func GetPublicPostsPage(ctx context.Context, db appDb.PostDatabase, cursor *PostCursor, limit int) ([]*model.Post, *PostCursor, error) {
	posts, next, err := (&mostRecentCursor{cursor: cursor, publicOnly: true}).Posts(ctx, db, limit)
	if errors.Is(err, appDb.ErrMalformedId) {
		return nil, nil, ErrMalformedCursor
	}
	return posts, next, err
}

func GetAllPublicPosts(ctx context.Context, db appDb.PostDatabase) ([]*model.Post, error) {
	posts, _, err := GetPublicPostsPage(ctx, db, nil, 0)
	return posts, err
}

// GetPostsByOwner returns every post of owner, public and private, newest first.
func GetPostsByOwner(ctx context.Context, db appDb.PostDatabase, owner string) ([]*model.Post, error) {
	posts, _, err := (&mostRecentCursor{owner: owner}).Posts(ctx, db, 0)
	return posts, err
}
