package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// CityMaxLength is the longest city name a farm can carry.
const CityMaxLength = 30

// Farm-specific validation errors
var (
	ErrFarmIDEmpty         = errors.New("farm ID cannot be empty")
	ErrFarmNameEmpty       = errors.New("farm name cannot be empty")
	ErrFarmProducerIDEmpty = errors.New("farm producer ID cannot be empty")
	ErrFarmCityInvalid     = errors.New("farm city must be between 1 and 30 characters")
	ErrFarmStateInvalid    = errors.New("farm state must be a two-letter code")
)

var stateCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)

// Farm is a rural property owned by exactly one producer. It is the aggregate
// root for its area measurements and its crop associations.
//
// Version increases on every persisted mutation and is used for optimistic
// concurrency control.
type Farm struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Areas      FarmAreas `json:"areas"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	ProducerID uuid.UUID `json:"producer_id"`
	Crops      []*Crop   `json:"crops"`
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewFarm creates a new Farm with a fresh ID, version 1 and no crops.
// Returns an error if validation fails, including area composition.
func NewFarm(
	name string,
	areas FarmAreas,
	city string,
	state string,
	producerID uuid.UUID,
) (*Farm, error) {
	now := time.Now().UTC()
	farm := &Farm{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(name),
		Areas:      areas,
		City:       strings.TrimSpace(city),
		State:      strings.ToUpper(strings.TrimSpace(state)),
		ProducerID: producerID,
		Crops:      []*Crop{},
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := farm.Validate(); err != nil {
		return nil, err
	}

	return farm, nil
}

// Validate checks if the Farm has valid data.
func (f *Farm) Validate() error {
	if f.ID == uuid.Nil {
		return ErrFarmIDEmpty
	}

	if f.Name == "" {
		return NewValidationError("name", "cannot be empty", ErrFarmNameEmpty)
	}

	if f.ProducerID == uuid.Nil {
		return ErrFarmProducerIDEmpty
	}

	if n := utf8.RuneCountInString(f.City); n == 0 || n > CityMaxLength {
		return NewValidationError("city", "must be between 1 and 30 characters", ErrFarmCityInvalid)
	}

	if !stateCodeRegex.MatchString(f.State) {
		return NewValidationError("state", "must be a two-letter code", ErrFarmStateInvalid)
	}

	return f.Areas.Validate()
}

// CropIDs returns the set of crops currently associated with the farm.
func (f *Farm) CropIDs() CropIDSet {
	ids := make([]uuid.UUID, 0, len(f.Crops))
	for _, c := range f.Crops {
		ids = append(ids, c.ID)
	}
	return NewCropIDSet(ids...)
}

// AttachCrops appends crops that are not yet associated.
func (f *Farm) AttachCrops(crops []*Crop) {
	current := f.CropIDs()
	for _, c := range crops {
		if current.Contains(c.ID) {
			continue
		}
		current[c.ID] = struct{}{}
		f.Crops = append(f.Crops, c)
	}
}

// RetainCrops keeps only the crops whose ids are in keep.
func (f *Farm) RetainCrops(keep CropIDSet) {
	kept := make([]*Crop, 0, len(keep))
	for _, c := range f.Crops {
		if keep.Contains(c.ID) {
			kept = append(kept, c)
		}
	}
	f.Crops = kept
}
