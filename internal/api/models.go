package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/agrofarm-api/internal/api/shared"
	"github.com/phrazzld/agrofarm-api/internal/domain"
	"github.com/phrazzld/agrofarm-api/internal/service"
	"github.com/phrazzld/agrofarm-api/internal/store"
)

// DateLayout is the wire format of calendar dates such as birth_date.
const DateLayout = "2006-01-02"

// Request payloads

// CreateProducerRequest defines the payload for registering a producer.
type CreateProducerRequest struct {
	Name      string `json:"name"       validate:"required,max=255"`
	CPF       string `json:"cpf"        validate:"omitempty,len=11,cpf"`
	CNPJ      string `json:"cnpj"       validate:"omitempty,len=14,cnpj"`
	Email     string `json:"email"      validate:"omitempty,email"`
	Phone     string `json:"phone"      validate:"omitempty,e164"`
	BirthDate string `json:"birth_date" validate:"required,datetime=2006-01-02"`
}

// UpdateProducerRequest is a partial producer update. Omitted fields keep
// their stored value; an empty string clears cpf, cnpj, email or phone.
type UpdateProducerRequest struct {
	Name      *string `json:"name"       validate:"omitempty,min=1,max=255"`
	CPF       *string `json:"cpf"`
	CNPJ      *string `json:"cnpj"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	BirthDate *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
}

// Validate checks the struct tags, then the optional contact fields, which
// may be sent empty to clear them. CPF and CNPJ are checked by the domain.
func (r *UpdateProducerRequest) Validate() error {
	if err := shared.ValidateStruct(r); err != nil {
		return err
	}
	if r.Email != nil && *r.Email != "" && shared.ValidateVar(*r.Email, "email") != nil {
		return domain.NewValidationError("email", "invalid email format", domain.ErrValidation)
	}
	if r.Phone != nil && *r.Phone != "" && shared.ValidateVar(*r.Phone, "e164") != nil {
		return domain.NewValidationError("phone", "must be an international phone number", domain.ErrValidation)
	}
	return nil
}

// CropRequest defines the payload for creating or renaming a crop.
type CropRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// CreateFarmRequest defines the payload for registering a farm.
type CreateFarmRequest struct {
	Name           string      `json:"name"            validate:"required,max=255"`
	TotalArea      float64     `json:"total_area"      validate:"gt=0"`
	ArableArea     float64     `json:"arable_area"     validate:"gt=0"`
	VegetationArea float64     `json:"vegetation_area" validate:"gt=0"`
	City           string      `json:"city"            validate:"required,max=30"`
	State          string      `json:"state"           validate:"required,len=2,alpha"`
	ProducerID     uuid.UUID   `json:"producer_id"     validate:"required"`
	CropIDs        []uuid.UUID `json:"crop_ids"        validate:"omitempty,dive,required"`
}

// UpdateFarmRequest is a partial farm update. Crop associations are changed
// through the farm crops endpoints, not here.
type UpdateFarmRequest struct {
	Name           *string    `json:"name"            validate:"omitempty,min=1,max=255"`
	TotalArea      *float64   `json:"total_area"      validate:"omitempty,gt=0"`
	ArableArea     *float64   `json:"arable_area"     validate:"omitempty,gt=0"`
	VegetationArea *float64   `json:"vegetation_area" validate:"omitempty,gt=0"`
	City           *string    `json:"city"            validate:"omitempty,min=1,max=30"`
	State          *string    `json:"state"           validate:"omitempty,len=2,alpha"`
	ProducerID     *uuid.UUID `json:"producer_id"`
	Version        *int       `json:"version"         validate:"omitempty,gte=1"`
}

// FarmCropsRequest carries the crop ids to associate or dissociate.
type FarmCropsRequest struct {
	CropIDs []uuid.UUID `json:"crop_ids" validate:"required,min=1,dive,required"`
}

// Response payloads

// ProducerResponse is the wire form of a producer.
type ProducerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CPF       string    `json:"cpf,omitempty"`
	CNPJ      string    `json:"cnpj,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	BirthDate string    `json:"birth_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CropResponse is the wire form of a crop.
type CropResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FarmResponse is the wire form of a farm with its crops.
type FarmResponse struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	TotalArea      float64        `json:"total_area"`
	ArableArea     float64        `json:"arable_area"`
	VegetationArea float64        `json:"vegetation_area"`
	City           string         `json:"city"`
	State          string         `json:"state"`
	ProducerID     uuid.UUID      `json:"producer_id"`
	Crops          []CropResponse `json:"crops"`
	Version        int            `json:"version"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// PageResponse is the list envelope shared by every paged endpoint.
type PageResponse[T any] struct {
	Items       []T `json:"items"`
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
}

func producerToResponse(p *domain.Producer) ProducerResponse {
	return ProducerResponse{
		ID:        p.ID,
		Name:      p.Name,
		CPF:       p.CPF,
		CNPJ:      p.CNPJ,
		Email:     p.Email,
		Phone:     p.Phone,
		BirthDate: p.BirthDate.Format(DateLayout),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func cropToResponse(c *domain.Crop) CropResponse {
	return CropResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func farmToResponse(f *domain.Farm) FarmResponse {
	crops := make([]CropResponse, len(f.Crops))
	for i, c := range f.Crops {
		crops[i] = cropToResponse(c)
	}

	return FarmResponse{
		ID:             f.ID,
		Name:           f.Name,
		TotalArea:      f.Areas.Total,
		ArableArea:     f.Areas.Arable,
		VegetationArea: f.Areas.Vegetation,
		City:           f.City,
		State:          f.State,
		ProducerID:     f.ProducerID,
		Crops:          crops,
		Version:        f.Version,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

// pageToResponse converts a store page, mapping each item with conv.
func pageToResponse[T any, R any](page *store.Page[T], conv func(T) R) PageResponse[R] {
	items := make([]R, len(page.Items))
	for i, item := range page.Items {
		items[i] = conv(item)
	}
	return PageResponse[R]{
		Items:       items,
		TotalItems:  page.TotalItems,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
	}
}

func (r CreateProducerRequest) details() (domain.ProducerDetails, error) {
	birth, err := time.Parse(DateLayout, r.BirthDate)
	if err != nil {
		return domain.ProducerDetails{}, domain.NewValidationError("birth_date", "must be a date in YYYY-MM-DD format", err)
	}
	return domain.ProducerDetails{
		Name:      r.Name,
		CPF:       r.CPF,
		CNPJ:      r.CNPJ,
		Email:     r.Email,
		Phone:     r.Phone,
		BirthDate: birth,
	}, nil
}

func (r UpdateProducerRequest) patch() (service.ProducerPatch, error) {
	p := service.ProducerPatch{
		Name:  r.Name,
		CPF:   r.CPF,
		CNPJ:  r.CNPJ,
		Email: r.Email,
		Phone: r.Phone,
	}
	if r.BirthDate != nil {
		birth, err := time.Parse(DateLayout, *r.BirthDate)
		if err != nil {
			return service.ProducerPatch{}, domain.NewValidationError("birth_date", "must be a date in YYYY-MM-DD format", err)
		}
		p.BirthDate = &birth
	}
	return p, nil
}

func (r CreateFarmRequest) input() service.CreateFarmInput {
	return service.CreateFarmInput{
		Name: r.Name,
		Areas: domain.FarmAreas{
			Total:      r.TotalArea,
			Arable:     r.ArableArea,
			Vegetation: r.VegetationArea,
		},
		City:       r.City,
		State:      r.State,
		ProducerID: r.ProducerID,
		CropIDs:    r.CropIDs,
	}
}

func (r UpdateFarmRequest) input() service.UpdateFarmInput {
	return service.UpdateFarmInput{
		Name:       r.Name,
		City:       r.City,
		State:      r.State,
		ProducerID: r.ProducerID,
		Areas: domain.AreaPatch{
			Total:      r.TotalArea,
			Arable:     r.ArableArea,
			Vegetation: r.VegetationArea,
		},
		Version: r.Version,
	}
}
