package planetscale

import (
	"context"
	"strconv"
	"strings"
	"time"

	appDb "github.com/hushmail/hushmail-be/db"
	"github.com/hushmail/hushmail-be/db/dao"
	"github.com/hushmail/hushmail-be/model"
	"github.com/upper/db/v4"
)

type PostDB struct {
	sess db.Session
}

func getPostDB(sess db.Session) *PostDB {
	return &PostDB{sess}
}

func (pdb *PostDB) CreatePost(ctx context.Context, post *appDb.CreatePost) (string, error) {
	res, err := pdb.sess.SQL().
		InsertInto("post").
		Columns("owner", "content", "username", "profile_picture", "is_public", "created_at").
		Values(post.Owner, post.Content, post.Username, post.ProfilePicture, post.IsPublic, post.Timestamp).
		ExecContext(ctx)
	if err != nil {
		return "", err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

func (pdb *PostDB) DeletePost(ctx context.Context, id string) error {
	postId, err := parseId(id)
	if err != nil {
		return err
	}
	_, err = pdb.sess.SQL().
		DeleteFrom("post").
		Where("id = ?", postId).
		ExecContext(ctx)
	return err
}

type flattenedPost struct {
	Id                 int64          `db:"id"`
	Owner              string         `db:"owner"`
	Content            string         `db:"content"`
	Username           dao.NullString `db:"username"`
	ProfilePicture     dao.NullString `db:"profile_picture"`
	IsPublic           bool           `db:"is_public"`
	ResponseCount      int            `db:"response_count"`
	AcceptingResponses bool           `db:"accepting_responses"`
	CreatedAt          time.Time      `db:"created_at"`
}

var postColumns = []interface{}{
	"p.id",
	"p.owner",
	"p.content",
	"p.username",
	"p.profile_picture",
	"p.is_public",
	"p.response_count",
	"p.accepting_responses",
	"p.created_at",
}

func (pdb *PostDB) GetPostById(ctx context.Context, id string) (*model.Post, error) {
	postId, err := parseId(id)
	if err != nil {
		return nil, nil
	}
	var post flattenedPost
	if err := pdb.sess.SQL().
		Select(postColumns...).
		From("post AS p").
		Where("p.id = ?", postId).
		IteratorContext(ctx).
		One(&post); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return buildPostFromFlattened(&post), nil
}

func (pdb *PostDB) GetPosts(ctx context.Context, query *appDb.PostsListQuery) ([]*model.Post, error) {
	where, args, err := buildPostsWhere(query)
	if err != nil {
		return nil, err
	}
	selector := pdb.sess.SQL().
		Select(postColumns...).
		From("post AS p")
	if where != "" {
		selector = selector.Where(append([]interface{}{where}, args...)...)
	}
	selector = selector.OrderBy("p.created_at DESC", "p.id DESC")
	if query.Limit > 0 {
		selector = selector.Limit(query.Limit)
	}

	var flattenedPosts []flattenedPost
	if err := selector.IteratorContext(ctx).All(&flattenedPosts); err != nil {
		return nil, err
	}
	posts := make([]*model.Post, len(flattenedPosts))
	for i := range flattenedPosts {
		posts[i] = buildPostFromFlattened(&flattenedPosts[i])
	}
	return posts, nil
}

// buildPostsWhere renders the filter half of a PostsListQuery. An empty clause means no filter.
func buildPostsWhere(query *appDb.PostsListQuery) (string, []interface{}, error) {
	var clauses []string
	var args []interface{}
	if query.PublicOnly {
		clauses = append(clauses, "p.is_public = ?")
		args = append(args, true)
	}
	if query.Owner != "" {
		clauses = append(clauses, "p.owner = ?")
		args = append(args, query.Owner)
	}
	if query.From != nil {
		if query.LastId == "" {
			clauses = append(clauses, "p.created_at < ?")
			args = append(args, *query.From)
		} else {
			lastId, err := parseId(query.LastId)
			if err != nil {
				return "", nil, err
			}
			clauses = append(clauses, "(p.created_at < ? OR (p.created_at = ? AND p.id < ?))")
			args = append(args, *query.From, *query.From, lastId)
		}
	}
	return strings.Join(clauses, " AND "), args, nil
}

func buildPostFromFlattened(post *flattenedPost) *model.Post {
	return &model.Post{
		Id:                 strconv.FormatInt(post.Id, 10),
		Owner:              post.Owner,
		Content:            post.Content,
		Username:           post.Username.AsPtr(),
		ProfilePicture:     post.ProfilePicture.AsPtr(),
		IsPublic:           post.IsPublic,
		Timestamp:          post.CreatedAt.UTC(),
		ResponseCount:      post.ResponseCount,
		AcceptingResponses: post.AcceptingResponses,
	}
}

func parseId(id string) (int64, error) {
	parsed, err := strconv.ParseInt(id, 10, 64)
	if err != nil || parsed <= 0 {
		return 0, appDb.ErrMalformedId
	}
	return parsed, nil
}
