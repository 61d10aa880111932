package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/prn-tf/photofeed/internal/domain"
	"github.com/prn-tf/photofeed/internal/repository"
)

// postRepository implements repository.PostRepository in memory.
type postRepository struct {
	mu    sync.RWMutex
	posts map[int64]*domain.Post
}

// NewPostRepository creates a new in-memory post repository.
func NewPostRepository() repository.PostRepository {
	return &postRepository{
		posts: make(map[int64]*domain.Post),
	}
}

// Create creates a new post.
func (r *postRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := post.Clone()
	stored.ID = nextID(r.posts)
	r.posts[stored.ID] = stored

	return stored.Clone(), nil
}

// GetByID retrieves a post by ID.
func (r *postRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, domain.NewDomainError(domain.ErrPostNotFound, "lookup failed", fmt.Sprintf("post %d", id))
	}
	return post.Clone(), nil
}

// UpdateDescription replaces the description of an existing post.
func (r *postRepository) UpdateDescription(ctx context.Context, id int64, description string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, domain.NewDomainError(domain.ErrPostNotFound, "cannot update", fmt.Sprintf("post %d", id))
	}
	post.Description = description

	return post.Clone(), nil
}

// List returns posts ordered by PostDate, ties broken by ID, then windowed by
// opts.Offset and opts.Limit. A zero limit yields an empty page.
func (r *postRepository) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.Post], error) {
	r.mu.RLock()
	all := make([]*domain.Post, 0, len(r.posts))
	for _, post := range r.posts {
		all = append(all, post.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if opts.Descending {
			a, b = b, a
		}
		if a.PostDate.Equal(b.PostDate) {
			return a.ID < b.ID
		}
		return a.PostDate.Before(b.PostDate)
	})

	result := &repository.ListResult[domain.Post]{
		Items:  []*domain.Post{},
		Total:  int64(len(all)),
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}

	if opts.Offset >= len(all) || opts.Limit <= 0 {
		return result, nil
	}

	end := opts.Offset + opts.Limit
	if end > len(all) || end < opts.Offset {
		end = len(all)
	}
	result.Items = all[opts.Offset:end]

	return result, nil
}

// Ensure postRepository implements repository.PostRepository.
var _ repository.PostRepository = (*postRepository)(nil)
