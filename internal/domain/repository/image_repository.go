package repository

import (
	"context"
	"errors"

	"github.com/devi-jewellers/rate-service/internal/domain/entity"
)

// ErrNoImages is returned when no image records match a query.
var ErrNoImages = errors.New("no images found")

// ImageRepository defines storage for uploaded image metadata.
type ImageRepository interface {
	// EnsureSchema creates the images table if absent.
	EnsureSchema(ctx context.Context) error

	// Insert appends an image record and returns it with its assigned ID.
	Insert(ctx context.Context, img *entity.Image) (*entity.Image, error)

	// All returns every image ordered by upload time descending.
	All(ctx context.Context) ([]entity.Image, error)

	// Latest returns the most recently uploaded image, or ErrNoImages.
	Latest(ctx context.Context) (*entity.Image, error)

	// ByCategory returns images in a category ordered by upload time descending.
	ByCategory(ctx context.Context, category string) ([]entity.Image, error)
}
