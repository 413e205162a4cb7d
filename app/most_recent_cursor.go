package app

import (
	"context"

	appDb "github.com/hushmail/hushmail-be/db"
	"github.com/hushmail/hushmail-be/model"
)

type mostRecentCursor struct {
	cursor     *PostCursor
	publicOnly bool
	owner      string
}

func (mrc *mostRecentCursor) Posts(ctx context.Context, db appDb.PostDatabase, limit int) (posts []*model.Post, next *PostCursor, err error) {
	query := &appDb.PostsListQuery{
		PublicOnly: mrc.publicOnly,
		Owner:      mrc.owner,
		Limit:      limit,
	}
	if mrc.cursor != nil {
		from := mrc.cursor.LastTimestamp
		query.From = &from
		query.LastId = mrc.cursor.LastId
	}
	posts, err = db.GetPosts(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	return posts, buildCursorForNextPage(posts), nil
}

// buildCursorForNextPage returns nil once a page comes back empty.
func buildCursorForNextPage(previousPosts []*model.Post) *PostCursor {
	if len(previousPosts) == 0 {
		return nil
	}
	last := previousPosts[len(previousPosts)-1]
	return &PostCursor{
		LastTimestamp: last.Timestamp,
		LastId:        last.Id,
	}
}
