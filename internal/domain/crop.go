package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Crop name length limits.
const (
	CropNameMinLength = 2
	CropNameMaxLength = 100
)

// Crop-specific validation errors
var (
	// ErrCropIDEmpty is returned when a crop ID is nil.
	ErrCropIDEmpty = errors.New("crop ID cannot be empty")

	// ErrCropNameLength is returned when a crop name is outside the allowed length.
	ErrCropNameLength = errors.New("crop name must be between 2 and 100 characters")
)

// Crop is a kind of plantation (soy, corn, coffee...) that farms can grow.
// Crop names are unique across the registry.
type Crop struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCrop creates a new Crop with a fresh ID and timestamps.
// Returns an error if validation fails.
func NewCrop(name string) (*Crop, error) {
	now := time.Now().UTC()
	crop := &Crop{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := crop.Validate(); err != nil {
		return nil, err
	}

	return crop, nil
}

// Validate checks if the Crop has valid data.
func (c *Crop) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCropIDEmpty
	}

	n := utf8.RuneCountInString(c.Name)
	if n < CropNameMinLength || n > CropNameMaxLength {
		return NewValidationError("name", "must be between 2 and 100 characters", ErrCropNameLength)
	}

	return nil
}

// Rename changes the crop's name and updates UpdatedAt.
// The crop is left untouched if the new name is invalid.
func (c *Crop) Rename(name string) error {
	orig := c.Name
	c.Name = strings.TrimSpace(name)

	if err := c.Validate(); err != nil {
		c.Name = orig
		return err
	}

	c.UpdatedAt = time.Now().UTC()
	return nil
}
