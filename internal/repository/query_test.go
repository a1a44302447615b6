package repository

import (
	"testing"
)

func TestJoinQueryBuild(t *testing.T) {
	q := NewJoinQuery("likes", "videos.id", "videos.title", "users.username").
		Join(JoinSpec{Table: "videos", LocalKey: "likes.target_id", ForeignKey: "id"}).
		Join(JoinSpec{Table: "users", LocalKey: "videos.owner_id", ForeignKey: "id"}).
		Where("likes.user_id = ?", "u1").
		Where("likes.target_kind = ?", "video").
		OrderBy("likes.created_at", true).
		OrderBy("likes.id", true)

	sql, args := q.Build(10, 20)

	want := "SELECT videos.id, videos.title, users.username FROM likes" +
		" JOIN videos ON likes.target_id = videos.id" +
		" JOIN users ON videos.owner_id = users.id" +
		" WHERE likes.user_id = $1 AND likes.target_kind = $2" +
		" ORDER BY likes.created_at DESC, likes.id DESC" +
		" LIMIT $3 OFFSET $4"
	if sql != want {
		t.Errorf("sql mismatch:\n got %s\nwant %s", sql, want)
	}

	if len(args) != 4 || args[0] != "u1" || args[1] != "video" || args[2] != 10 || args[3] != 20 {
		t.Errorf("args = %v", args)
	}
}

func TestJoinQueryBuildCount(t *testing.T) {
	q := NewJoinQuery("playlists", "playlists.id").
		Where("playlists.owner_id = ?", "u1").
		Where("(playlists.is_public OR playlists.owner_id = ?)", "u1").
		OrderBy("playlists.created_at", true)

	sql, args := q.BuildCount()

	want := "SELECT COUNT(*) FROM playlists" +
		" WHERE playlists.owner_id = $1 AND (playlists.is_public OR playlists.owner_id = $2)"
	if sql != want {
		t.Errorf("count sql mismatch:\n got %s\nwant %s", sql, want)
	}
	if len(args) != 2 {
		t.Errorf("count args = %v", args)
	}
}

func TestJoinQueryOuterJoinAndAlias(t *testing.T) {
	q := NewJoinQuery("notifications", "notifications.id", "sender.username").
		Join(JoinSpec{Table: "users", Alias: "sender", LocalKey: "notifications.sender_id", ForeignKey: "id", Outer: true})

	sql, _ := q.Build(10, 0)

	want := "SELECT notifications.id, sender.username FROM notifications" +
		" LEFT JOIN users AS sender ON notifications.sender_id = sender.id" +
		" LIMIT $1 OFFSET $2"
	if sql != want {
		t.Errorf("sql mismatch:\n got %s\nwant %s", sql, want)
	}
}

func TestOrderByExprArgsExcludedFromCount(t *testing.T) {
	q := NewJoinQuery("videos", "videos.id").
		Where("videos.is_published").
		Where("videos.category = ?", "music").
		OrderByExpr("ts_rank(search_vec, plainto_tsquery(?)) DESC", "cats")

	sql, args := q.Build(10, 0)
	if len(args) != 4 { // category, rank query, limit, offset
		t.Fatalf("build args = %v", args)
	}
	wantSQL := "SELECT videos.id FROM videos" +
		" WHERE videos.is_published AND videos.category = $1" +
		" ORDER BY ts_rank(search_vec, plainto_tsquery($2)) DESC" +
		" LIMIT $3 OFFSET $4"
	if sql != wantSQL {
		t.Errorf("sql mismatch:\n got %s\nwant %s", sql, wantSQL)
	}

	countSQL, countArgs := q.BuildCount()
	if len(countArgs) != 1 {
		t.Errorf("count args should omit order-by args, got %v", countArgs)
	}
	wantCount := "SELECT COUNT(*) FROM videos WHERE videos.is_published AND videos.category = $1"
	if countSQL != wantCount {
		t.Errorf("count sql mismatch:\n got %s\nwant %s", countSQL, wantCount)
	}
}

func TestBuildIsRestartable(t *testing.T) {
	q := NewJoinQuery("videos", "videos.id").Where("videos.is_published = ?", true)

	first, firstArgs := q.Build(5, 0)
	second, secondArgs := q.Build(5, 0)

	if first != second {
		t.Error("repeated Build produced different SQL")
	}
	if len(firstArgs) != len(secondArgs) {
		t.Error("repeated Build produced different args")
	}
	if len(q.args) != 1 {
		t.Errorf("Build mutated the query's own args: %v", q.args)
	}
}
