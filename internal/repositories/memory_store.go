package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/samber/lo"
)

// MemoryStore keeps every entity in process memory and implements all the
// repository interfaces. Foreign key behaviour of the postgres schema
// (SET NULL for posts, CASCADE for comments and follows) is applied by hand.
type MemoryStore struct {
	mu       sync.RWMutex
	now      func() time.Time
	nextID   uint
	users    map[uint]*models.User
	groups   map[uint]*models.Group
	posts    map[uint]*models.Post
	comments map[uint]*models.Comment
	follows  map[followKey]*models.Follow
}

type followKey struct {
	userID, authorID uint
}

var (
	_ UserRepository    = (*MemoryStore)(nil)
	_ GroupRepository   = (*MemoryStore)(nil)
	_ PostRepository    = (*MemoryStore)(nil)
	_ CommentRepository = (*MemoryStore)(nil)
	_ FollowRepository  = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:      time.Now,
		users:    make(map[uint]*models.User),
		groups:   make(map[uint]*models.Group),
		posts:    make(map[uint]*models.Post),
		comments: make(map[uint]*models.Comment),
		follows:  make(map[followKey]*models.Follow),
	}
}

// SetClock replaces the time source used for creation timestamps.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) id() uint {
	s.nextID++
	return s.nextID
}

// === Users ===

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username ||
			sameOptional(u.Email, user.Email) ||
			sameOptional(u.FirebaseUID, user.FirebaseUID) {
			return ErrDuplicate
		}
	}
	user.ID = s.id()
	user.CreatedAt = s.now()
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.Username == username })
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.Email != nil && *u.Email == email })
}

func (s *MemoryStore) GetUserByFirebaseUID(_ context.Context, firebaseUID string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.FirebaseUID != nil && *u.FirebaseUID == firebaseUID })
}

func (s *MemoryStore) findUser(match func(*models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	for _, u := range s.users {
		if u.ID == user.ID {
			continue
		}
		if u.Username == user.Username ||
			sameOptional(u.Email, user.Email) ||
			sameOptional(u.FirebaseUID, user.FirebaseUID) {
			return ErrDuplicate
		}
	}
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)

	for _, p := range s.posts {
		if p.AuthorID != nil && *p.AuthorID == id {
			p.AuthorID = nil
		}
	}
	for cid, c := range s.comments {
		if c.AuthorID == id {
			delete(s.comments, cid)
		}
	}
	for key := range s.follows {
		if key.userID == id || key.authorID == id {
			delete(s.follows, key)
		}
	}
	return nil
}

// === Groups ===

func (s *MemoryStore) CreateGroup(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.groups {
		if g.Title == group.Title || g.Slug == group.Slug {
			return ErrDuplicate
		}
	}
	group.ID = s.id()
	stored := *group
	s.groups[group.ID] = &stored
	return nil
}

func (s *MemoryStore) GetGroupByID(_ context.Context, id uint) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *g
	return &out, nil
}

func (s *MemoryStore) GetGroupBySlug(_ context.Context, slug string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.groups {
		if g.Slug == slug {
			out := *g
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListGroups(_ context.Context) ([]models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := lo.MapToSlice(s.groups, func(_ uint, g *models.Group) models.Group { return *g })
	sort.Slice(groups, func(i, j int) bool { return groups[i].Title < groups[j].Title })
	return groups, nil
}

func (s *MemoryStore) DeleteGroup(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[id]; !ok {
		return ErrNotFound
	}
	delete(s.groups, id)
	for _, p := range s.posts {
		if p.GroupID != nil && *p.GroupID == id {
			p.GroupID = nil
		}
	}
	return nil
}

// === Posts ===

func (s *MemoryStore) CreatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.AuthorID != nil {
		if _, ok := s.users[*post.AuthorID]; !ok {
			return ErrNotFound
		}
	}
	if post.GroupID != nil {
		if _, ok := s.groups[*post.GroupID]; !ok {
			return ErrNotFound
		}
	}
	post.ID = s.id()
	post.PubDate = s.now()
	stored := *post
	stored.Author, stored.Group = nil, nil
	s.posts[post.ID] = &stored
	return nil
}

func (s *MemoryStore) GetPostByID(_ context.Context, id uint) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.resolve(p), nil
}

func (s *MemoryStore) UpdatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[post.ID]
	if !ok {
		return ErrNotFound
	}
	if post.GroupID != nil {
		if _, ok := s.groups[*post.GroupID]; !ok {
			return ErrNotFound
		}
	}
	p.Text = post.Text
	p.GroupID = post.GroupID
	p.Image = post.Image
	return nil
}

func (s *MemoryStore) DeletePost(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

func (s *MemoryStore) CountPosts(_ context.Context, filter models.PostFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.filtered(filter))), nil
}

func (s *MemoryStore) ListPosts(_ context.Context, filter models.PostFilter, offset, limit int) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := s.filtered(filter)
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].PubDate.Equal(posts[j].PubDate) {
			return posts[i].PubDate.After(posts[j].PubDate)
		}
		return posts[i].ID > posts[j].ID
	})

	if offset >= len(posts) {
		return []models.Post{}, nil
	}
	end := min(offset+limit, len(posts))
	return lo.Map(posts[offset:end], func(p *models.Post, _ int) models.Post { return *s.resolve(p) }), nil
}

func (s *MemoryStore) filtered(filter models.PostFilter) []*models.Post {
	var followed map[uint]bool
	if filter.FollowerID != nil {
		followed = make(map[uint]bool)
		for key := range s.follows {
			if key.userID == *filter.FollowerID {
				followed[key.authorID] = true
			}
		}
	}

	return lo.Filter(lo.Values(s.posts), func(p *models.Post, _ int) bool {
		if filter.GroupID != nil && (p.GroupID == nil || *p.GroupID != *filter.GroupID) {
			return false
		}
		if filter.AuthorID != nil && (p.AuthorID == nil || *p.AuthorID != *filter.AuthorID) {
			return false
		}
		if followed != nil && (p.AuthorID == nil || !followed[*p.AuthorID]) {
			return false
		}
		return true
	})
}

// resolve copies a stored post and attaches copies of its author and group.
func (s *MemoryStore) resolve(p *models.Post) *models.Post {
	out := *p
	if p.AuthorID != nil {
		if u, ok := s.users[*p.AuthorID]; ok {
			author := *u
			out.Author = &author
		}
	}
	if p.GroupID != nil {
		if g, ok := s.groups[*p.GroupID]; ok {
			group := *g
			out.Group = &group
		}
	}
	return &out
}

// === Comments ===

func (s *MemoryStore) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[comment.PostID]; !ok {
		return ErrNotFound
	}
	if _, ok := s.users[comment.AuthorID]; !ok {
		return ErrNotFound
	}
	comment.ID = s.id()
	comment.Created = s.now()
	stored := *comment
	stored.Post, stored.Author = nil, nil
	s.comments[comment.ID] = &stored
	return nil
}

func (s *MemoryStore) GetCommentsByPostID(_ context.Context, postID uint) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := make([]models.Comment, 0)
	for _, c := range s.comments {
		if c.PostID != postID {
			continue
		}
		out := *c
		if u, ok := s.users[c.AuthorID]; ok {
			author := *u
			out.Author = &author
		}
		comments = append(comments, out)
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].Created.Equal(comments[j].Created) {
			return comments[i].Created.Before(comments[j].Created)
		}
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

// === Follows ===

func (s *MemoryStore) EnsureFollow(_ context.Context, userID, authorID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return ErrNotFound
	}
	if _, ok := s.users[authorID]; !ok {
		return ErrNotFound
	}
	key := followKey{userID, authorID}
	if _, ok := s.follows[key]; ok {
		return nil
	}
	s.follows[key] = &models.Follow{ID: s.id(), UserID: userID, AuthorID: authorID, CreatedAt: s.now()}
	return nil
}

func (s *MemoryStore) RemoveFollow(_ context.Context, userID, authorID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.follows, followKey{userID, authorID})
	return nil
}

func (s *MemoryStore) IsFollowing(_ context.Context, userID, authorID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.follows[followKey{userID, authorID}]
	return ok, nil
}

func (s *MemoryStore) CountFollowers(_ context.Context, authorID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(lo.CountBy(lo.Keys(s.follows), func(k followKey) bool { return k.authorID == authorID })), nil
}

func (s *MemoryStore) CountFollowing(_ context.Context, userID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(lo.CountBy(lo.Keys(s.follows), func(k followKey) bool { return k.userID == userID })), nil
}

func sameOptional(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}
