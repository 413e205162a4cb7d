package planetscale

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	appDb "github.com/hushmail/hushmail-be/db"
	"github.com/hushmail/hushmail-be/db/dao"
	"github.com/hushmail/hushmail-be/model"
	"github.com/upper/db/v4"
)

type ResponseDB struct {
	sess db.Session
}

func getResponseDB(sess db.Session) *ResponseDB {
	return &ResponseDB{sess}
}

func (rdb *ResponseDB) CreateResponse(ctx context.Context, req *appDb.CreateResponse) (string, error) {
	postId, err := parseId(req.PostId)
	if err != nil {
		return "", appDb.ErrPostNotFound
	}
	var responseId int64
	err = rdb.sess.TxContext(ctx, func(sess db.Session) error {
		res, err := sess.SQL().
			Update("post").
			Set("response_count = response_count + ?", 1).
			Where("id = ?", postId).
			ExecContext(ctx)
		if err != nil {
			return err
		}
		if affected, err := res.RowsAffected(); err != nil {
			return err
		} else if affected == 0 {
			return appDb.ErrPostNotFound
		}

		res, err = sess.SQL().
			InsertInto("response").
			Columns("post_id", "content", "username", "profile_picture", "created_at").
			Values(postId, req.Content, req.Username, req.ProfilePicture, req.Timestamp).
			ExecContext(ctx)
		if err != nil {
			return err
		}
		responseId, err = res.LastInsertId()
		return err
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(responseId, 10), nil
}

type flattenedResponse struct {
	Id             int64          `db:"id"`
	PostId         int64          `db:"post_id"`
	Content        string         `db:"content"`
	Username       dao.NullString `db:"username"`
	ProfilePicture dao.NullString `db:"profile_picture"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (rdb *ResponseDB) GetResponses(ctx context.Context, postId string) ([]*model.Response, error) {
	id, err := parseId(postId)
	if err != nil {
		return []*model.Response{}, nil
	}
	var flattenedResponses []flattenedResponse
	if err := rdb.sess.SQL().
		Select("id", "post_id", "content", "username", "profile_picture", "created_at").
		From("response").
		Where("post_id = ?", id).
		OrderBy("created_at DESC", "id DESC").
		IteratorContext(ctx).
		All(&flattenedResponses); err != nil {
		return nil, err
	}
	responses := make([]*model.Response, len(flattenedResponses))
	for i, flattened := range flattenedResponses {
		responses[i] = &model.Response{
			Id:             strconv.FormatInt(flattened.Id, 10),
			PostId:         strconv.FormatInt(flattened.PostId, 10),
			Content:        flattened.Content,
			Username:       flattened.Username.AsPtr(),
			ProfilePicture: flattened.ProfilePicture.AsPtr(),
			Timestamp:      flattened.CreatedAt.UTC(),
		}
	}
	return responses, nil
}
