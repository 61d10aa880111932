package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prn-tf/photofeed/internal/domain"
	"github.com/prn-tf/photofeed/internal/metrics"
	"github.com/prn-tf/photofeed/internal/repository"
)

const entityPost = "post"

// PostFinder is the read-only view of posts that other services validate against.
type PostFinder interface {
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
}

// PostService handles post operations. Authors are validated through a
// UserFinder; there is no lock shared with the user store, so a lookup and
// the following write are not one transaction.
type PostService struct {
	postRepo repository.PostRepository
	users    UserFinder
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewPostService creates a new PostService.
func NewPostService(
	postRepo repository.PostRepository,
	users UserFinder,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		users:    users,
		metrics:  m,
		logger:   logger.With().Str("service", "post").Logger(),
	}
}

// ListPostsInput selects one page of the feed.
type ListPostsInput struct {
	// From is the number of posts to skip.
	From int

	// Size is the maximum number of posts to return. Zero yields an empty page.
	Size int

	// Sort is "asc" or "desc" in any letter case.
	Sort string
}

// CreatePostInput contains the data needed to create a post.
type CreatePostInput struct {
	AuthorID    int64
	Description string
}

// UpdatePostInput replaces the description of a post.
// AuthorID must still reference an existing user.
type UpdatePostInput struct {
	ID          int64
	AuthorID    int64
	Description string
}

// List returns one page of posts ordered by creation time.
func (s *PostService) List(ctx context.Context, input ListPostsInput) ([]*domain.Post, error) {
	posts, err := s.list(ctx, input)
	s.metrics.RecordOperation(entityPost, "list", err)
	if err != nil {
		logFailure(s.logger, err).
			Int("from", input.From).
			Int("size", input.Size).
			Str("sort", input.Sort).
			Msg("failed to list posts")
		return nil, err
	}
	return posts, nil
}

func (s *PostService) list(ctx context.Context, input ListPostsInput) ([]*domain.Post, error) {
	order, err := domain.ParseSortOrder(input.Sort)
	if err != nil {
		return nil, err
	}
	if input.From < 0 {
		return nil, domain.NewDomainError(domain.ErrNegativeFrom, fmt.Sprintf("got %d", input.From), "")
	}
	if input.Size < 0 {
		return nil, domain.NewDomainError(domain.ErrNegativeSize, fmt.Sprintf("got %d", input.Size), "")
	}

	result, err := s.postRepo.List(ctx, repository.ListOptions{
		Offset:     input.From,
		Limit:      input.Size,
		Descending: order.IsDescending(),
	})
	if err != nil {
		return nil, classify(err)
	}
	return result.Items, nil
}

// GetByID retrieves a post by ID. A zero ID never matches.
func (s *PostService) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.getByID(ctx, id)
	s.metrics.RecordOperation(entityPost, "get", err)
	if err != nil {
		logFailure(s.logger, err).Int64("post_id", id).Msg("post lookup failed")
		return nil, err
	}
	return post, nil
}

func (s *PostService) getByID(ctx context.Context, id int64) (*domain.Post, error) {
	if id <= 0 {
		return nil, domain.NewDomainError(domain.ErrPostNotFound, "lookup failed", fmt.Sprintf("post %d", id))
	}
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	return post, nil
}

// Create creates a new post. The author is resolved before the description
// is validated, so an unknown author wins over a blank description.
func (s *PostService) Create(ctx context.Context, input CreatePostInput) (*domain.Post, error) {
	post, err := s.create(ctx, input)
	s.metrics.RecordOperation(entityPost, "create", err)
	if err != nil {
		logFailure(s.logger, err).Int64("author_id", input.AuthorID).Msg("failed to create post")
		return nil, err
	}

	s.metrics.AddEntities(entityPost, 1)
	s.logger.Info().
		Int64("post_id", post.ID).
		Int64("author_id", post.AuthorID).
		Msg("post created")

	return post, nil
}

func (s *PostService) create(ctx context.Context, input CreatePostInput) (*domain.Post, error) {
	if _, err := s.users.GetByID(ctx, input.AuthorID); err != nil {
		return nil, classify(err)
	}
	if domain.IsBlank(input.Description) {
		return nil, domain.ErrDescriptionRequired
	}

	post, err := s.postRepo.Create(ctx, domain.NewPost(input.AuthorID, input.Description))
	if err != nil {
		return nil, classify(err)
	}
	return post, nil
}

// Update replaces the description of an existing post. Checks run in order:
// author exists, ID present, post exists, description not blank.
func (s *PostService) Update(ctx context.Context, input UpdatePostInput) (*domain.Post, error) {
	post, err := s.update(ctx, input)
	s.metrics.RecordOperation(entityPost, "update", err)
	if err != nil {
		logFailure(s.logger, err).Int64("post_id", input.ID).Msg("failed to update post")
		return nil, err
	}

	s.logger.Info().Int64("post_id", post.ID).Msg("post updated")
	return post, nil
}

func (s *PostService) update(ctx context.Context, input UpdatePostInput) (*domain.Post, error) {
	if _, err := s.users.GetByID(ctx, input.AuthorID); err != nil {
		return nil, classify(err)
	}
	if input.ID <= 0 {
		return nil, domain.ErrPostIDRequired
	}
	if _, err := s.postRepo.GetByID(ctx, input.ID); err != nil {
		return nil, classify(err)
	}
	if domain.IsBlank(input.Description) {
		return nil, domain.ErrDescriptionRequired
	}

	post, err := s.postRepo.UpdateDescription(ctx, input.ID, input.Description)
	if err != nil {
		return nil, classify(err)
	}
	return post, nil
}

// Ensure PostService can serve as a PostFinder.
var _ PostFinder = (*PostService)(nil)
