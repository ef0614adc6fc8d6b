package service

import (
	"context"

	"github.com/devi-jewellers/rate-service/internal/domain/entity"
	"github.com/devi-jewellers/rate-service/internal/domain/repository"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
)

// ImageService manages uploaded image metadata. Binary payloads never pass
// through this service; callers store files elsewhere and register URLs here.
type ImageService struct {
	repo   repository.ImageRepository
	logger logger.Logger
}

// NewImageService creates an image service.
func NewImageService(repo repository.ImageRepository, log logger.Logger) *ImageService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &ImageService{repo: repo, logger: log}
}

// Save validates and appends an image record.
func (s *ImageService) Save(ctx context.Context, img *entity.Image) (*entity.Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	saved, err := s.repo.Insert(ctx, img)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Image registered", map[string]interface{}{
		"id":       saved.ID,
		"category": saved.Category,
	})
	return saved, nil
}

// List returns every image, newest first.
func (s *ImageService) List(ctx context.Context) ([]entity.Image, error) {
	return s.repo.All(ctx)
}

// Latest returns the most recently uploaded image.
func (s *ImageService) Latest(ctx context.Context) (*entity.Image, error) {
	return s.repo.Latest(ctx)
}

// ByCategory returns the images filed under a category, newest first.
func (s *ImageService) ByCategory(ctx context.Context, category string) ([]entity.Image, error) {
	return s.repo.ByCategory(ctx, category)
}
