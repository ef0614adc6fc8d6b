package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/devi-jewellers/rate-service/internal/domain/entity"
	"github.com/devi-jewellers/rate-service/internal/domain/repository"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
)

const imagesSchema = `
CREATE TABLE IF NOT EXISTS images (
	id SERIAL PRIMARY KEY,
	url TEXT NOT NULL,
	category VARCHAR(100),
	file_name TEXT,
	uploaded_at TIMESTAMP NOT NULL DEFAULT NOW()
)`

const insertImageSQL = `
INSERT INTO images (url, category, file_name)
VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
RETURNING id, url, COALESCE(category, ''), COALESCE(file_name, ''), uploaded_at`

const selectImagesSQL = `
SELECT id, url, COALESCE(category, ''), COALESCE(file_name, ''), uploaded_at
FROM images`

// PostgresImageRepository implements repository.ImageRepository.
type PostgresImageRepository struct {
	pool   Pool
	logger logger.Logger
}

// NewPostgresImageRepository creates an image repository over the given pool.
func NewPostgresImageRepository(pool Pool, log logger.Logger) *PostgresImageRepository {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &PostgresImageRepository{pool: pool, logger: log}
}

// EnsureSchema creates the images table if absent.
func (r *PostgresImageRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, imagesSchema); err != nil {
		return &OperationError{Op: "ensure images schema", Err: err}
	}
	return nil
}

// Insert appends an image record.
func (r *PostgresImageRepository) Insert(ctx context.Context, img *entity.Image) (*entity.Image, error) {
	var saved entity.Image
	err := r.pool.QueryRow(ctx, insertImageSQL, img.URL, img.Category, img.FileName).Scan(
		&saved.ID,
		&saved.URL,
		&saved.Category,
		&saved.FileName,
		&saved.UploadedAt,
	)
	if err != nil {
		return nil, &OperationError{Op: "insert image", Err: err}
	}
	return &saved, nil
}

// All returns every image ordered by upload time descending.
func (r *PostgresImageRepository) All(ctx context.Context) ([]entity.Image, error) {
	rows, err := r.pool.Query(ctx, selectImagesSQL+" ORDER BY uploaded_at DESC")
	if err != nil {
		return nil, &OperationError{Op: "list images", Err: err}
	}
	defer rows.Close()

	return scanImages(rows)
}

// Latest returns the most recently uploaded image, or repository.ErrNoImages.
func (r *PostgresImageRepository) Latest(ctx context.Context) (*entity.Image, error) {
	var img entity.Image
	err := r.pool.QueryRow(ctx, selectImagesSQL+" ORDER BY uploaded_at DESC LIMIT 1").Scan(
		&img.ID,
		&img.URL,
		&img.Category,
		&img.FileName,
		&img.UploadedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNoImages
	}
	if err != nil {
		return nil, &OperationError{Op: "read latest image", Err: err}
	}
	return &img, nil
}

// ByCategory returns images in a category ordered by upload time descending.
func (r *PostgresImageRepository) ByCategory(ctx context.Context, category string) ([]entity.Image, error) {
	rows, err := r.pool.Query(ctx, selectImagesSQL+" WHERE category = $1 ORDER BY uploaded_at DESC", category)
	if err != nil {
		return nil, &OperationError{Op: "list images by category", Err: err}
	}
	defer rows.Close()

	return scanImages(rows)
}

func scanImages(rows pgx.Rows) ([]entity.Image, error) {
	images := make([]entity.Image, 0)
	for rows.Next() {
		var img entity.Image
		if err := rows.Scan(&img.ID, &img.URL, &img.Category, &img.FileName, &img.UploadedAt); err != nil {
			return nil, &OperationError{Op: "scan image row", Err: err}
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, &OperationError{Op: "iterate image rows", Err: err}
	}
	return images, nil
}
