package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/photofeed/internal/domain"
	"github.com/prn-tf/photofeed/internal/metrics"
	"github.com/prn-tf/photofeed/internal/repository"
	"github.com/prn-tf/photofeed/internal/storage"
)

const entityImage = "image"

// ImageService attaches image files to posts and serves them back.
// Bytes go through a storage.Backend; only metadata is kept in the repository,
// and no repository lock is held while bytes are transferred.
type ImageService struct {
	imageRepo repository.ImageRepository
	posts     PostFinder
	storage   storage.Backend
	metrics   *metrics.Metrics
	logger    zerolog.Logger

	now func() time.Time
}

// NewImageService creates a new ImageService.
func NewImageService(
	imageRepo repository.ImageRepository,
	posts PostFinder,
	storage storage.Backend,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *ImageService {
	return &ImageService{
		imageRepo: imageRepo,
		posts:     posts,
		storage:   storage,
		metrics:   m,
		logger:    logger.With().Str("service", "image").Logger(),
		now:       time.Now,
	}
}

// ListForPost returns the metadata of all images attached to postID.
// An unknown post simply has no images.
func (s *ImageService) ListForPost(ctx context.Context, postID int64) ([]*domain.Image, error) {
	images, err := s.imageRepo.ListByPostID(ctx, postID)
	s.metrics.RecordOperation(entityImage, "list", err)
	if err != nil {
		s.logger.Error().Err(err).Int64("post_id", postID).Msg("failed to list images")
		return nil, classify(err)
	}
	return images, nil
}

// SaveAll stores files for a post, one at a time and in order.
//
// The batch stops at the first file that fails. Images saved before that
// file stay committed and are returned alongside the error, so the caller
// can report exactly which files made it.
func (s *ImageService) SaveAll(ctx context.Context, postID int64, files []domain.ImageFile) ([]*domain.Image, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		err = classify(err)
		s.metrics.RecordOperation(entityImage, "create", err)
		logFailure(s.logger, err).Int64("post_id", postID).Msg("cannot attach images")
		return nil, err
	}

	saved := make([]*domain.Image, 0, len(files))
	for i, file := range files {
		image, err := s.save(ctx, post, file)
		s.metrics.RecordOperation(entityImage, "create", err)
		if err != nil {
			logFailure(s.logger, err).
				Int64("post_id", post.ID).
				Str("file_name", file.Name).
				Int("index", i).
				Int("saved", len(saved)).
				Msg("failed to save image, stopping batch")
			return saved, err
		}
		saved = append(saved, image)
	}

	s.logger.Info().
		Int64("post_id", post.ID).
		Int("count", len(saved)).
		Msg("images saved")

	return saved, nil
}

// save writes one file to storage and records its metadata.
func (s *ImageService) save(ctx context.Context, post *domain.Post, file domain.ImageFile) (*domain.Image, error) {
	fileName := storage.GenerateFileName(s.now(), file.Name)
	key := storage.ImageKey(post.AuthorID, post.ID, fileName)

	path, err := s.storage.Store(ctx, key, file.Data)
	if err != nil {
		return nil, classify(err)
	}
	s.metrics.RecordImageStored(len(file.Data))

	image, err := s.imageRepo.Create(ctx, &domain.Image{
		PostID:           post.ID,
		OriginalFileName: file.Name,
		FilePath:         path,
	})
	if err != nil {
		return nil, classify(err)
	}

	s.metrics.AddEntities(entityImage, 1)
	s.logger.Debug().
		Int64("image_id", image.ID).
		Int64("post_id", post.ID).
		Str("path", path).
		Int("size", len(file.Data)).
		Msg("image saved")

	return image, nil
}

// GetImageData returns the bytes and original file name of an image.
func (s *ImageService) GetImageData(ctx context.Context, imageID int64) (*domain.ImageData, error) {
	data, err := s.getImageData(ctx, imageID)
	s.metrics.RecordOperation(entityImage, "get", err)
	if err != nil {
		logFailure(s.logger, err).Int64("image_id", imageID).Msg("failed to load image")
		return nil, err
	}

	s.metrics.RecordImageServed(len(data.Data))
	return data, nil
}

func (s *ImageService) getImageData(ctx context.Context, imageID int64) (*domain.ImageData, error) {
	if imageID <= 0 {
		return nil, domain.NewDomainError(domain.ErrImageNotFound, "lookup failed", fmt.Sprintf("image %d", imageID))
	}

	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return nil, classify(err)
	}

	data, err := s.storage.Retrieve(ctx, image.FilePath)
	if err != nil {
		return nil, classify(err)
	}

	return &domain.ImageData{
		Data: data,
		Name: image.OriginalFileName,
	}, nil
}
