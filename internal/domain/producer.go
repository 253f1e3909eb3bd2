package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Producer-specific validation errors
var (
	ErrProducerIDEmpty        = errors.New("producer ID cannot be empty")
	ErrProducerNameEmpty      = errors.New("producer name cannot be empty")
	ErrProducerBirthDateEmpty = errors.New("producer birth date cannot be empty")
)

// Producer is a rural producer, the owner of zero or more farms.
// CPF and CNPJ are optional digit-only tax identifiers; an empty string means absent.
type Producer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CPF       string    `json:"cpf,omitempty"`
	CNPJ      string    `json:"cnpj,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	BirthDate time.Time `json:"birth_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProducerDetails carries the mutable fields of a producer.
type ProducerDetails struct {
	Name      string
	CPF       string
	CNPJ      string
	Email     string
	Phone     string
	BirthDate time.Time
}

// NewProducer creates a new Producer with a fresh ID and timestamps.
// Returns an error if validation fails.
func NewProducer(details ProducerDetails) (*Producer, error) {
	now := time.Now().UTC()
	producer := &Producer{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	producer.apply(details)

	if err := producer.Validate(); err != nil {
		return nil, err
	}

	return producer, nil
}

// Validate checks if the Producer has valid data.
func (p *Producer) Validate() error {
	if p.ID == uuid.Nil {
		return ErrProducerIDEmpty
	}

	if p.Name == "" {
		return NewValidationError("name", "cannot be empty", ErrProducerNameEmpty)
	}

	if p.CPF != "" && !ValidCPF(p.CPF) {
		return NewValidationError("cpf", "must be 11 digits with valid check digits", ErrInvalidCPF)
	}

	if p.CNPJ != "" && !ValidCNPJ(p.CNPJ) {
		return NewValidationError("cnpj", "must be 14 digits with valid check digits", ErrInvalidCNPJ)
	}

	if p.BirthDate.IsZero() {
		return NewValidationError("birth_date", "cannot be empty", ErrProducerBirthDateEmpty)
	}

	return nil
}

// Update replaces the producer's details and updates UpdatedAt.
// The producer is left untouched if the new details are invalid.
func (p *Producer) Update(details ProducerDetails) error {
	orig := *p
	p.apply(details)

	if err := p.Validate(); err != nil {
		*p = orig
		return err
	}

	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Details returns the producer's current mutable fields.
func (p *Producer) Details() ProducerDetails {
	return ProducerDetails{
		Name:      p.Name,
		CPF:       p.CPF,
		CNPJ:      p.CNPJ,
		Email:     p.Email,
		Phone:     p.Phone,
		BirthDate: p.BirthDate,
	}
}

func (p *Producer) apply(d ProducerDetails) {
	p.Name = strings.TrimSpace(d.Name)
	p.CPF = d.CPF
	p.CNPJ = d.CNPJ
	p.Email = strings.TrimSpace(d.Email)
	p.Phone = d.Phone
	p.BirthDate = d.BirthDate.UTC().Truncate(24 * time.Hour)
}
