package memory

import (
	"context"
	"testing"
	"time"

	appDb "github.com/hushmail/hushmail-be/db"
)

func TestGetPosts_OrderAndFilters(t *testing.T) {
	ctx := context.Background()
	mdb := New()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mk := func(owner string, public bool, at time.Time) string {
		id, err := mdb.CreatePost(ctx, &appDb.CreatePost{Owner: owner, Content: "x", IsPublic: public, Timestamp: at})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		return id
	}
	a := mk("a@test", true, base)
	b := mk("b@test", true, base.Add(time.Second))
	c := mk("a@test", false, base.Add(2*time.Second))
	d := mk("b@test", true, base.Add(time.Second)) // ties with b

	public, err := mdb.GetPosts(ctx, &appDb.PostsListQuery{PublicOnly: true})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := []string{d, b, a}
	if len(public) != len(want) {
		t.Fatalf("len=%d want=%d", len(public), len(want))
	}
	for i, id := range want {
		if public[i].Id != id {
			t.Fatalf("public[%d]=%s want=%s", i, public[i].Id, id)
		}
	}

	owned, _ := mdb.GetPosts(ctx, &appDb.PostsListQuery{Owner: "a@test"})
	if len(owned) != 2 || owned[0].Id != c || owned[1].Id != a {
		t.Fatalf("owned=%v", owned)
	}

	from := base.Add(time.Second)
	older, _ := mdb.GetPosts(ctx, &appDb.PostsListQuery{PublicOnly: true, From: &from})
	if len(older) != 1 || older[0].Id != a {
		t.Fatalf("older without lastId=%v", older)
	}
	tie, _ := mdb.GetPosts(ctx, &appDb.PostsListQuery{PublicOnly: true, From: &from, LastId: d})
	if len(tie) != 2 || tie[0].Id != b || tie[1].Id != a {
		t.Fatalf("older with lastId=%v", tie)
	}

	limited, _ := mdb.GetPosts(ctx, &appDb.PostsListQuery{PublicOnly: true, Limit: 1})
	if len(limited) != 1 || limited[0].Id != d {
		t.Fatalf("limited=%v", limited)
	}
}

func TestCreateResponse_IncrementsCount(t *testing.T) {
	ctx := context.Background()
	mdb := New()
	postId, _ := mdb.CreatePost(ctx, &appDb.CreatePost{Owner: "a@test", Content: "x", IsPublic: true, Timestamp: time.Now()})

	for i := 0; i < 3; i++ {
		if _, err := mdb.CreateResponse(ctx, &appDb.CreateResponse{PostId: postId, Content: "r", Timestamp: time.Now()}); err != nil {
			t.Fatalf("create response: %v", err)
		}
	}
	post, _ := mdb.GetPostById(ctx, postId)
	if post.ResponseCount != 3 {
		t.Fatalf("responseCount=%d want=3", post.ResponseCount)
	}
	if _, err := mdb.CreateResponse(ctx, &appDb.CreateResponse{PostId: "missing", Content: "r"}); err != appDb.ErrPostNotFound {
		t.Fatalf("err=%v want=%v", err, appDb.ErrPostNotFound)
	}
}

func TestDeletePost_KeepsResponses(t *testing.T) {
	ctx := context.Background()
	mdb := New()
	postId, _ := mdb.CreatePost(ctx, &appDb.CreatePost{Owner: "a@test", Content: "x", IsPublic: true, Timestamp: time.Now()})
	_, _ = mdb.CreateResponse(ctx, &appDb.CreateResponse{PostId: postId, Content: "r", Timestamp: time.Now()})

	if err := mdb.DeletePost(ctx, postId); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if post, _ := mdb.GetPostById(ctx, postId); post != nil {
		t.Fatalf("post still present: %+v", post)
	}
	responses, _ := mdb.GetResponses(ctx, postId)
	if len(responses) != 1 {
		t.Fatalf("responses=%d want=1", len(responses))
	}
}
