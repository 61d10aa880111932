package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/prn-tf/photofeed/internal/domain"
	"github.com/prn-tf/photofeed/internal/repository"
)

// imageRepository implements repository.ImageRepository in memory.
// It only holds metadata; the lock is never held across file I/O.
type imageRepository struct {
	mu     sync.RWMutex
	images map[int64]*domain.Image
}

// NewImageRepository creates a new in-memory image repository.
func NewImageRepository() repository.ImageRepository {
	return &imageRepository{
		images: make(map[int64]*domain.Image),
	}
}

// Create creates new image metadata.
func (r *imageRepository) Create(ctx context.Context, image *domain.Image) (*domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := image.Clone()
	stored.ID = nextID(r.images)
	r.images[stored.ID] = stored

	return stored.Clone(), nil
}

// GetByID retrieves image metadata by ID.
func (r *imageRepository) GetByID(ctx context.Context, id int64) (*domain.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	image, ok := r.images[id]
	if !ok {
		return nil, domain.NewDomainError(domain.ErrImageNotFound, "lookup failed", fmt.Sprintf("image %d", id))
	}
	return image.Clone(), nil
}

// ListByPostID returns the images of one post, sorted by ID.
func (r *imageRepository) ListByPostID(ctx context.Context, postID int64) ([]*domain.Image, error) {
	r.mu.RLock()
	images := make([]*domain.Image, 0)
	for _, image := range r.images {
		if image.PostID == postID {
			images = append(images, image.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(images, func(i, j int) bool { return images[i].ID < images[j].ID })
	return images, nil
}

// Ensure imageRepository implements repository.ImageRepository.
var _ repository.ImageRepository = (*imageRepository)(nil)
