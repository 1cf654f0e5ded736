package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirpyerre/postboard/internal/core/domain"
)

type commentKey struct{ userID, postID int64 }

// memoryStore backs every repository port with maps so the router can be
// exercised end to end.
type memoryStore struct {
	mu       sync.Mutex
	users    map[int64]domain.User
	posts    map[int64]domain.Post
	comments map[commentKey]domain.Comment
	nextUser int64
	nextPost int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    map[int64]domain.User{},
		posts:    map[int64]domain.Post{},
		comments: map[commentKey]domain.Comment{},
	}
}

type memoryUsers struct{ *memoryStore }

func (s memoryUsers) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Nickname == user.Nickname {
			return nil, domain.ErrUserExists
		}
	}
	s.nextUser++
	created := *user
	created.ID = s.nextUser
	s.users[created.ID] = created
	return &created, nil
}

func (s memoryUsers) FindByNickname(_ context.Context, nickname string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Nickname == nickname {
			found := u
			return &found, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s memoryUsers) FindByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

type memoryPosts struct{ *memoryStore }

func (s memoryPosts) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPost++
	created := *post
	created.ID = s.nextPost
	s.posts[created.ID] = created
	return &created, nil
}

func (s memoryPosts) List(_ context.Context) ([]domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s memoryPosts) FindByID(_ context.Context, id int64) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return &p, nil
}

func (s memoryPosts) FindByIDs(_ context.Context, ids []int64) (map[int64]domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]domain.Post, len(ids))
	for _, id := range ids {
		if p, ok := s.posts[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type memoryComments struct{ *memoryStore }

func (s memoryComments) Upsert(_ context.Context, userID, postID int64, content string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := commentKey{userID, postID}
	c, ok := s.comments[key]
	if !ok {
		c = domain.Comment{UserID: userID, PostID: postID, CreatedAt: at}
	}
	c.Content = content
	c.UpdatedAt = at
	s.comments[key] = c
	return nil
}

func (s memoryComments) Delete(_ context.Context, userID, postID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := commentKey{userID, postID}
	_, ok := s.comments[key]
	delete(s.comments, key)
	return ok, nil
}

func (s memoryComments) ListByUser(_ context.Context, userID int64) ([]domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Comment
	for _, c := range s.comments {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PostID < out[j].PostID })
	return out, nil
}

func (s *memoryStore) commentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.comments)
}

func (s *memoryStore) userCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// noCache always misses.
type noCache struct{}

func (noCache) GetPost(context.Context, int64) (*domain.Post, bool, error) { return nil, false, nil }
func (noCache) SetPost(context.Context, domain.Post) error { return nil }
func (noCache) ListGeneration(context.Context) (int64, error) { return 0, nil }
func (noCache) GetList(context.Context, int64) ([]domain.Post, bool, error) { return nil, false, nil }
func (noCache) SetList(context.Context, int64, []domain.Post) error { return nil }
func (noCache) InvalidateList(context.Context) error { return nil }
