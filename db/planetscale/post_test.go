package planetscale

import (
	"testing"
	"time"

	appDb "github.com/hushmail/hushmail-be/db"
)

func TestBuildPostsWhere(t *testing.T) {
	from := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	where, args, err := buildPostsWhere(&appDb.PostsListQuery{})
	if err != nil || where != "" || len(args) != 0 {
		t.Fatalf("empty query: where=%q args=%v err=%v", where, args, err)
	}

	where, args, err = buildPostsWhere(&appDb.PostsListQuery{PublicOnly: true, From: &from})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "p.is_public = ? AND p.created_at < ?"; where != want {
		t.Fatalf("where=%q want=%q", where, want)
	}
	if len(args) != 2 || args[0] != true || args[1] != from {
		t.Fatalf("args=%v", args)
	}

	where, args, err = buildPostsWhere(&appDb.PostsListQuery{Owner: "a@test", From: &from, LastId: "42"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "p.owner = ? AND (p.created_at < ? OR (p.created_at = ? AND p.id < ?))"; where != want {
		t.Fatalf("where=%q want=%q", where, want)
	}
	if len(args) != 4 || args[3] != int64(42) {
		t.Fatalf("args=%v", args)
	}

	if _, _, err := buildPostsWhere(&appDb.PostsListQuery{From: &from, LastId: "abc"}); err != appDb.ErrMalformedId {
		t.Fatalf("err=%v want=%v", err, appDb.ErrMalformedId)
	}
}
