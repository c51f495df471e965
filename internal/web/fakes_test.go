package web

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
)

// fakeDB is an in-memory stand-in for the Postgres repositories
type fakeDB struct {
	mu       sync.Mutex
	nextID   int64
	now      time.Time
	users    map[int64]*models.User
	groups   map[int64]*models.Group
	posts    map[int64]*models.Post
	comments []*models.Comment
	follows  map[[2]int64]bool
	failing  bool
	// failUpdates makes only post updates fail
	failUpdates bool
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		now:     time.Date(2022, 5, 1, 12, 0, 0, 0, time.UTC),
		users:   map[int64]*models.User{},
		groups:  map[int64]*models.Group{},
		posts:   map[int64]*models.Post{},
		follows: map[[2]int64]bool{},
	}
}

var errFakeStore = errors.New("store unavailable")

func (f *fakeDB) id() int64 {
	f.nextID++
	return f.nextID
}

// tick returns a strictly increasing timestamp
func (f *fakeDB) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

func (f *fakeDB) stores() Stores {
	return Stores{
		Users:    fakeUsers{f},
		Groups:   fakeGroups{f},
		Posts:    fakePosts{f},
		Comments: fakeComments{f},
		Follows:  fakeFollows{f},
	}
}

func (f *fakeDB) addUser(username string) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &models.User{ID: f.id(), Username: username, CreatedAt: f.now}
	f.users[u.ID] = u
	return u
}

func (f *fakeDB) addGroup(title, slug string) *models.Group {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := &models.Group{ID: f.id(), Title: title, Slug: slug, Description: "about " + title}
	f.groups[g.ID] = g
	return g
}

func (f *fakeDB) addPost(author *models.User, text string, group *models.Group) *models.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &models.Post{ID: f.id(), Text: text, AuthorID: author.ID, PubDate: f.tick()}
	if group != nil {
		p.SetGroup(group.ID)
	}
	f.posts[p.ID] = p
	return p
}

func (f *fakeDB) post(id int64) models.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.posts[id]
}

func (f *fakeDB) postCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}

func (f *fakeDB) commentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.comments)
}

func (f *fakeDB) followCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.follows)
}

// hydrate returns a copy of p with its relations attached, as Preload would
func (f *fakeDB) hydrate(p *models.Post) *models.Post {
	cp := *p
	cp.Author = f.users[p.AuthorID]
	cp.Group = nil
	if p.GroupID.Valid {
		cp.Group = f.groups[p.GroupID.Int64]
	}
	return &cp
}

type fakeUsers struct{ *fakeDB }

func (f fakeUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, errFakeStore
	}
	return f.users[id], nil
}

func (f fakeUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, errFakeStore
	}
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f fakeUsers) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username {
			return db.ErrDuplicate
		}
	}
	user.ID = f.id()
	f.users[user.ID] = user
	return nil
}

type fakeGroups struct{ *fakeDB }

func (f fakeGroups) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.groups[id], nil
}

func (f fakeGroups) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.groups {
		if g.Slug == slug {
			return g, nil
		}
	}
	return nil, nil
}

func (f fakeGroups) List(ctx context.Context) ([]*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	groups := make([]*models.Group, 0, len(f.groups))
	for _, g := range f.groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Title < groups[j].Title })
	return groups, nil
}

type fakePosts struct{ *fakeDB }

func (f fakePosts) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, errFakeStore
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	return f.hydrate(p), nil
}

func (f fakePosts) matching(filter db.PostFilter) []*models.Post {
	var out []*models.Post
	for _, p := range f.posts {
		if filter.AuthorID != 0 && p.AuthorID != filter.AuthorID {
			continue
		}
		if filter.GroupID != 0 && (!p.GroupID.Valid || p.GroupID.Int64 != filter.GroupID) {
			continue
		}
		if filter.FollowerID != 0 && !f.follows[[2]int64{filter.FollowerID, p.AuthorID}] {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PubDate.Equal(out[j].PubDate) {
			return out[i].PubDate.After(out[j].PubDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (f fakePosts) Count(ctx context.Context, filter db.PostFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return 0, errFakeStore
	}
	return int64(len(f.matching(filter))), nil
}

func (f fakePosts) List(ctx context.Context, filter db.PostFilter, offset, limit int) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.matching(filter)
	var out []*models.Post
	for i := offset; i < len(all) && i < offset+limit; i++ {
		out = append(out, f.hydrate(all[i]))
	}
	return out, nil
}

func (f fakePosts) Create(ctx context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if post.PubDate.IsZero() {
		post.PubDate = f.tick()
	}
	post.ID = f.id()
	stored := *post
	stored.Author, stored.Group = nil, nil
	f.posts[post.ID] = &stored
	return nil
}

func (f fakePosts) Update(ctx context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing || f.failUpdates {
		return errFakeStore
	}
	stored, ok := f.posts[post.ID]
	if !ok {
		return errors.New("post not found")
	}
	stored.Text = post.Text
	stored.GroupID = post.GroupID
	stored.Image = post.Image
	return nil
}

type fakeComments struct{ *fakeDB }

func (f fakeComments) Create(ctx context.Context, comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment.ID = f.id()
	comment.Created = f.tick()
	f.comments = append(f.comments, comment)
	return nil
}

func (f fakeComments) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Comment
	for _, c := range f.comments {
		if c.PostID.Valid && c.PostID.Int64 == postID {
			cp := *c
			cp.Author = f.users[c.AuthorID]
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeFollows struct{ *fakeDB }

func (f fakeFollows) Follow(ctx context.Context, userID, authorID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]int64{userID, authorID}
	if f.follows[key] {
		return false, nil
	}
	f.follows[key] = true
	return true, nil
}

func (f fakeFollows) Unfollow(ctx context.Context, userID, authorID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]int64{userID, authorID}
	if !f.follows[key] {
		return false, nil
	}
	delete(f.follows, key)
	return true, nil
}

func (f fakeFollows) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.follows[[2]int64{userID, authorID}], nil
}
