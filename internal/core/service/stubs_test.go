package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirpyerre/postboard/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byName  map[string]*domain.User
	nextID  int64
	findErr error // if set, FindByNickname and FindByID return this error
	creates int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byName: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[user.Nickname]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	r.creates++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.byName[stored.Nickname] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByNickname(_ context.Context, nickname string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byName[nickname]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byName {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) remove(nickname string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byName, nickname)
}

type stubPostRepo struct {
	mu        sync.Mutex
	byID      map[int64]domain.Post
	nextID    int64
	createErr error
	listCalls int
	findCalls int
	// afterList runs once the listing has been read, before it is returned.
	afterList func()
}

func newStubPostRepo(posts ...domain.Post) *stubPostRepo {
	r := &stubPostRepo{byID: make(map[int64]domain.Post)}
	for _, p := range posts {
		r.byID[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *stubPostRepo) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	stored := *post
	stored.ID = r.nextID
	r.byID[stored.ID] = stored
	return &stored, nil
}

func (r *stubPostRepo) List(_ context.Context) ([]domain.Post, error) {
	r.mu.Lock()
	r.listCalls++
	out := make([]domain.Post, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	hook := r.afterList
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if hook != nil {
		hook()
	}
	return out, nil
}

func (r *stubPostRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *stubPostRepo) FindByID(_ context.Context, id int64) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return &p, nil
}

func (r *stubPostRepo) FindByIDs(_ context.Context, ids []int64) (map[int64]domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int64]domain.Post, len(ids))
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type stubPostCache struct {
	mu          sync.Mutex
	posts       map[int64]domain.Post
	lists       map[int64][]domain.Post
	generation  int64
	readErr     error
	writeErr    error
	invalidated int
}

func newStubPostCache() *stubPostCache {
	return &stubPostCache{posts: make(map[int64]domain.Post), lists: make(map[int64][]domain.Post)}
}

func (c *stubPostCache) GetPost(_ context.Context, id int64) (*domain.Post, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, false, c.readErr
	}
	p, ok := c.posts[id]
	if !ok {
		return nil, false, nil
	}
	return &p, true, nil
}

func (c *stubPostCache) SetPost(_ context.Context, post domain.Post) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.posts[post.ID] = post
	return nil
}

func (c *stubPostCache) ListGeneration(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return 0, c.readErr
	}
	return c.generation, nil
}

func (c *stubPostCache) GetList(_ context.Context, gen int64) ([]domain.Post, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, false, c.readErr
	}
	list, ok := c.lists[gen]
	return list, ok, nil
}

func (c *stubPostCache) SetList(_ context.Context, gen int64, posts []domain.Post) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.lists[gen] = posts
	return nil
}

func (c *stubPostCache) InvalidateList(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.generation++
	return nil
}

type commentKey struct{ userID, postID int64 }

type stubCommentRepo struct {
	mu        sync.Mutex
	byKey     map[commentKey]domain.Comment
	order     []commentKey
	upsertErr error
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{byKey: make(map[commentKey]domain.Comment)}
}

func (r *stubCommentRepo) Upsert(_ context.Context, userID, postID int64, content string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	key := commentKey{userID, postID}
	c, ok := r.byKey[key]
	if !ok {
		c = domain.Comment{UserID: userID, PostID: postID, CreatedAt: at}
		r.order = append(r.order, key)
	}
	c.Content = content
	c.UpdatedAt = at
	r.byKey[key] = c
	return nil
}

func (r *stubCommentRepo) Delete(_ context.Context, userID, postID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := commentKey{userID, postID}
	if _, ok := r.byKey[key]; !ok {
		return false, nil
	}
	delete(r.byKey, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (r *stubCommentRepo) ListByUser(_ context.Context, userID int64) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Comment
	for _, k := range r.order {
		if k.userID == userID {
			out = append(out, r.byKey[k])
		}
	}
	return out, nil
}
