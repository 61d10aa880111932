// Package repository defines data access interfaces for photofeed.
// These interfaces abstract the entity stores, keeping the service layer free of
// locking and indexing details.
package repository

import (
	"context"

	"github.com/prn-tf/photofeed/internal/domain"
)

// =============================================================================
// User Repository
// =============================================================================

// UserRepository defines the interface for user data access.
// Implementations must be safe for concurrent use.
type UserRepository interface {
	// Create assigns the next user ID and stores the user.
	// Returns domain.ErrEmailAlreadyExists if the email is already indexed.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// Update applies patch to the stored user in a single step, swapping the
	// email index entry when the email changes.
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)

	// List returns all users in no particular order.
	List(ctx context.Context) ([]*domain.User, error)

	// ExistsByEmail checks if a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// =============================================================================
// Post Repository
// =============================================================================

// PostRepository defines the interface for post data access.
// Implementations must be safe for concurrent use.
type PostRepository interface {
	// Create assigns the next post ID and stores the post.
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)

	// GetByID retrieves a post by ID.
	GetByID(ctx context.Context, id int64) (*domain.Post, error)

	// UpdateDescription replaces the description of an existing post.
	UpdateDescription(ctx context.Context, id int64, description string) (*domain.Post, error)

	// List returns one page of posts ordered by PostDate.
	List(ctx context.Context, opts ListOptions) (*ListResult[domain.Post], error)
}

// =============================================================================
// Image Repository
// =============================================================================

// ImageRepository defines the interface for image metadata access.
// It never touches the image bytes.
type ImageRepository interface {
	// Create assigns the next image ID and stores the metadata.
	Create(ctx context.Context, image *domain.Image) (*domain.Image, error)

	// GetByID retrieves image metadata by ID.
	GetByID(ctx context.Context, id int64) (*domain.Image, error)

	// ListByPostID returns the metadata of all images attached to a post.
	ListByPostID(ctx context.Context, postID int64) ([]*domain.Image, error)
}

// =============================================================================
// Common Types
// =============================================================================

// ListOptions contains common pagination options.
type ListOptions struct {
	// Offset is the number of records to skip.
	Offset int

	// Limit is the maximum number of records to return.
	Limit int

	// Descending specifies descending order if true.
	Descending bool
}

// ListResult is a generic paginated list result.
type ListResult[T any] struct {
	// Items is the list of items.
	Items []*T

	// Total is the total number of items (without pagination).
	Total int64

	// Offset is the current offset.
	Offset int

	// Limit is the current limit.
	Limit int
}

// Repositories holds all repository instances.
type Repositories struct {
	User  UserRepository
	Post  PostRepository
	Image ImageRepository
}
