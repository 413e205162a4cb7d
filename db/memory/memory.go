// Package memory is a process-local Database used for local development and tests.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	appDb "github.com/hushmail/hushmail-be/db"
	"github.com/hushmail/hushmail-be/model"
)

type MemoryDB struct {
	mu        sync.RWMutex
	nextId    uint64
	posts     map[string]*model.Post
	responses map[string]*model.Response
}

func New() *MemoryDB {
	return &MemoryDB{
		posts:     make(map[string]*model.Post),
		responses: make(map[string]*model.Response),
	}
}

// newId returns fixed-width ids so that string order matches insertion order.
func (mdb *MemoryDB) newId() string {
	mdb.nextId++
	id := strconv.FormatUint(mdb.nextId, 10)
	for len(id) < 12 {
		id = "0" + id
	}
	return id
}

func (mdb *MemoryDB) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (mdb *MemoryDB) Close() error {
	return nil
}

func (mdb *MemoryDB) CreatePost(ctx context.Context, req *appDb.CreatePost) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	id := mdb.newId()
	mdb.posts[id] = &model.Post{
		Id:                 id,
		Owner:              req.Owner,
		Content:            req.Content,
		Username:           copyStr(req.Username),
		ProfilePicture:     copyStr(req.ProfilePicture),
		IsPublic:           req.IsPublic,
		Timestamp:          req.Timestamp,
		ResponseCount:      0,
		AcceptingResponses: true,
	}
	return id, nil
}

func (mdb *MemoryDB) GetPostById(ctx context.Context, id string) (*model.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()
	post, ok := mdb.posts[id]
	if !ok {
		return nil, nil
	}
	return copyPost(post), nil
}

func (mdb *MemoryDB) GetPosts(ctx context.Context, query *appDb.PostsListQuery) ([]*model.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()

	posts := []*model.Post{}
	for _, post := range mdb.posts {
		if query.PublicOnly && !post.IsPublic {
			continue
		}
		if query.Owner != "" && post.Owner != query.Owner {
			continue
		}
		if query.From != nil && !olderThanCursor(post, query) {
			continue
		}
		posts = append(posts, copyPost(post))
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].Timestamp.Equal(posts[j].Timestamp) {
			return posts[i].Timestamp.After(posts[j].Timestamp)
		}
		return posts[i].Id > posts[j].Id
	})
	if query.Limit > 0 && len(posts) > query.Limit {
		posts = posts[:query.Limit]
	}
	return posts, nil
}

func olderThanCursor(post *model.Post, query *appDb.PostsListQuery) bool {
	if post.Timestamp.Before(*query.From) {
		return true
	}
	return query.LastId != "" && post.Timestamp.Equal(*query.From) && post.Id < query.LastId
}

func (mdb *MemoryDB) DeletePost(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	delete(mdb.posts, id)
	return nil
}

// SetAcceptingResponses toggles whether a post takes new responses.
func (mdb *MemoryDB) SetAcceptingResponses(id string, accepting bool) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	if post, ok := mdb.posts[id]; ok {
		post.AcceptingResponses = accepting
	}
}

func (mdb *MemoryDB) CreateResponse(ctx context.Context, req *appDb.CreateResponse) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	post, ok := mdb.posts[req.PostId]
	if !ok {
		return "", appDb.ErrPostNotFound
	}
	id := mdb.newId()
	mdb.responses[id] = &model.Response{
		Id:             id,
		PostId:         req.PostId,
		Content:        req.Content,
		Username:       copyStr(req.Username),
		ProfilePicture: copyStr(req.ProfilePicture),
		Timestamp:      req.Timestamp,
	}
	post.ResponseCount++
	return id, nil
}

func (mdb *MemoryDB) GetResponses(ctx context.Context, postId string) ([]*model.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()
	responses := []*model.Response{}
	for _, response := range mdb.responses {
		if response.PostId != postId {
			continue
		}
		cp := *response
		responses = append(responses, &cp)
	}
	sort.Slice(responses, func(i, j int) bool {
		if !responses[i].Timestamp.Equal(responses[j].Timestamp) {
			return responses[i].Timestamp.After(responses[j].Timestamp)
		}
		return responses[i].Id > responses[j].Id
	})
	return responses, nil
}

func copyPost(post *model.Post) *model.Post {
	cp := *post
	cp.Username = copyStr(post.Username)
	cp.ProfilePicture = copyStr(post.ProfilePicture)
	return &cp
}

func copyStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
