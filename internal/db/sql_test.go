package db

import (
	"context"
	"strings"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yatube/yatube/internal/models"
)

// dryRunRepositories returns repositories over a Postgres dialect that builds
// statements without a server, and the SQL each statement produced
func dryRunRepositories(t *testing.T) (*Repositories, *[]string) {
	t.Helper()
	database, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost dbname=yatube sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
		NowFunc:              nowUTC,
	})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}

	var statements []string
	record := func(tx *gorm.DB) {
		statements = append(statements, tx.Statement.SQL.String())
	}
	cb := database.Callback()
	for _, err := range []error{
		cb.Create().After("gorm:create").Register("yatube:record_sql", record),
		cb.Query().After("gorm:query").Register("yatube:record_sql", record),
		cb.Update().After("gorm:update").Register("yatube:record_sql", record),
		cb.Delete().After("gorm:delete").Register("yatube:record_sql", record),
	} {
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
	}

	return NewRepositories(database), &statements
}

func lastStatement(t *testing.T, statements *[]string) string {
	t.Helper()
	if len(*statements) == 0 {
		t.Fatal("no statement was built")
	}
	return (*statements)[len(*statements)-1]
}

func TestFollowSQL(t *testing.T) {
	repos, statements := dryRunRepositories(t)

	if _, err := repos.Follows.Follow(context.Background(), 3, 7); err != nil {
		t.Fatalf("Follow() error = %v", err)
	}
	sql := lastStatement(t, statements)

	for _, want := range []string{
		`INSERT INTO "follows" ("user_id","author_id")`,
		`ON CONFLICT ("user_id","author_id") DO NOTHING`,
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("Follow SQL %q does not contain %q", sql, want)
		}
	}
}

func TestUnfollowSQL(t *testing.T) {
	repos, statements := dryRunRepositories(t)

	if _, err := repos.Follows.Unfollow(context.Background(), 3, 7); err != nil {
		t.Fatalf("Unfollow() error = %v", err)
	}
	sql := lastStatement(t, statements)

	if !strings.HasPrefix(sql, `DELETE FROM "follows" WHERE`) || !strings.Contains(sql, "user_id = $1 AND author_id = $2") {
		t.Errorf("Unfollow SQL = %q, want a delete scoped to the edge", sql)
	}
}

func TestPostFilterSQL(t *testing.T) {
	tests := []struct {
		name   string
		filter PostFilter
		want   []string
		reject []string
	}{
		{"all", PostFilter{}, nil, []string{"WHERE"}},
		{"author", PostFilter{AuthorID: 1}, []string{"posts.author_id = $1"}, []string{"follows"}},
		{"group", PostFilter{GroupID: 2}, []string{"posts.group_id = $1"}, []string{"author_id"}},
		{"followed authors", PostFilter{FollowerID: 3}, []string{"posts.author_id IN (SELECT author_id FROM follows WHERE user_id = $1)"}, nil},
		{"author and group", PostFilter{AuthorID: 1, GroupID: 2}, []string{"posts.author_id = $1", "posts.group_id = $2"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos, statements := dryRunRepositories(t)
			if _, err := repos.Posts.Count(context.Background(), tt.filter); err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			sql := lastStatement(t, statements)

			if !strings.HasPrefix(sql, `SELECT count(*) FROM "posts"`) {
				t.Errorf("Count SQL = %q", sql)
			}
			for _, want := range tt.want {
				if !strings.Contains(sql, want) {
					t.Errorf("SQL %q does not contain %q", sql, want)
				}
			}
			for _, reject := range tt.reject {
				if strings.Contains(sql, reject) {
					t.Errorf("SQL %q unexpectedly contains %q", sql, reject)
				}
			}
		})
	}
}

func TestPostUpdateSQL(t *testing.T) {
	repos, statements := dryRunRepositories(t)

	post := &models.Post{ID: 5, AuthorID: 9, Text: "edited", Image: "posts/a.gif"}
	post.PubDate = nowUTC()
	post.SetGroup(2)
	if err := repos.Posts.Update(context.Background(), post); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	sql := lastStatement(t, statements)

	if !strings.HasPrefix(sql, `UPDATE "posts" SET`) {
		t.Fatalf("Update SQL = %q", sql)
	}
	for _, want := range []string{`"text"=`, `"group_id"=`, `"image"=`, `"id" = $4`} {
		if !strings.Contains(sql, want) {
			t.Errorf("Update SQL %q does not contain %q", sql, want)
		}
	}
	for _, column := range []string{"author_id", "pub_date"} {
		if strings.Contains(sql, column) {
			t.Errorf("Update SQL %q writes %s", sql, column)
		}
	}
}

func TestFollowExistsSQL(t *testing.T) {
	repos, statements := dryRunRepositories(t)

	if _, err := repos.Follows.Exists(context.Background(), 3, 7); err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	sql := lastStatement(t, statements)
	if !strings.HasPrefix(sql, `SELECT count(*) FROM "follows" WHERE user_id = $1 AND author_id = $2`) {
		t.Errorf("Exists SQL = %q", sql)
	}
}
