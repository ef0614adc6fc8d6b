package entity

import (
	"errors"
	"time"
)

// ErrImageURLRequired is returned when an image record has no URL.
var ErrImageURLRequired = errors.New("image url must not be empty")

// Image is metadata for an uploaded promotional image. Rows are append-only;
// there is no reconciliation invariant on this table.
type Image struct {
	ID         int       `json:"id"`
	URL        string    `json:"url"`
	Category   string    `json:"category,omitempty"`
	FileName   string    `json:"fileName,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Validate ensures the image record can be stored.
func (i *Image) Validate() error {
	if i.URL == "" {
		return ErrImageURLRequired
	}
	return nil
}
