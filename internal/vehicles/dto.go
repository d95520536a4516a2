package vehicles

import (
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/angelmondragon/autocenter-backend/pkg/types"
	"github.com/google/uuid"
)

type MakeDTO struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	LogoURL *string   `json:"logo_url,omitempty"`
}

type MakeInput struct {
	Name    string  `json:"name" validate:"required,max=80"`
	LogoURL *string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

type ModelDTO struct {
	ID     uuid.UUID `json:"id"`
	MakeID uuid.UUID `json:"make_id"`
	Name   string    `json:"name"`
}

type ModelInput struct {
	Name string `json:"name" validate:"required,max=120"`
}

type VariantDTO struct {
	ID       uuid.UUID       `json:"id"`
	ModelID  uuid.UUID       `json:"model_id"`
	Name     string          `json:"name"`
	YearFrom int             `json:"year_from"`
	YearTo   *int            `json:"year_to,omitempty"`
	Engine   *string         `json:"engine,omitempty"`
	Fuel     *enums.FuelType `json:"fuel,omitempty"`
}

type VariantInput struct {
	Name     string          `json:"name" validate:"required,max=120"`
	YearFrom int             `json:"year_from" validate:"required,gte=1900,lte=2100"`
	YearTo   *int            `json:"year_to,omitempty" validate:"omitempty,gte=1900,lte=2100"`
	Engine   *string         `json:"engine,omitempty" validate:"omitempty,max=60"`
	Fuel     *enums.FuelType `json:"fuel,omitempty"`
}

// CustomerVehicleDTO is a car in the customer's garage.
type CustomerVehicleDTO struct {
	ID        uuid.UUID  `json:"id"`
	Plate     string     `json:"plate"`
	Make      string     `json:"make"`
	Model     string     `json:"model"`
	Year      *int       `json:"year,omitempty"`
	Color     *string    `json:"color,omitempty"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CreateCustomerVehicleInput struct {
	Plate     string     `json:"plate" validate:"required,max=10"`
	Make      string     `json:"make" validate:"required,max=80"`
	Model     string     `json:"model" validate:"required,max=120"`
	Year      *int       `json:"year,omitempty" validate:"omitempty,gte=1900,lte=2100"`
	Color     *string    `json:"color,omitempty" validate:"omitempty,max=40"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
}

// UpdateCustomerVehicleInput patches a garage entry; variant_id: null unlinks the variant.
type UpdateCustomerVehicleInput struct {
	Make      *string                `json:"make,omitempty" validate:"omitempty,max=80"`
	Model     *string                `json:"model,omitempty" validate:"omitempty,max=120"`
	Year      *int                   `json:"year,omitempty" validate:"omitempty,gte=1900,lte=2100"`
	Color     *string                `json:"color,omitempty" validate:"omitempty,max=40"`
	VariantID types.Patch[uuid.UUID] `json:"variant_id"`
}

// LookupDTO is the plate lookup response.
type LookupDTO struct {
	Plate         string `json:"plate"`
	Format        string `json:"format"`
	Make          string `json:"make"`
	Model         string `json:"model"`
	Year          *int   `json:"year,omitempty"`
	ModelYear     *int   `json:"model_year,omitempty"`
	Color         string `json:"color,omitempty"`
	Fuel          string `json:"fuel,omitempty"`
	ChassisSuffix string `json:"chassis_suffix,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	Provider      string `json:"provider"`
	Cached        bool   `json:"cached"`
}

func newMakeDTO(m *models.VehicleMake) MakeDTO {
	return MakeDTO{ID: m.ID, Name: m.Name, LogoURL: m.LogoURL}
}

func newModelDTO(m *models.VehicleModel) ModelDTO {
	return ModelDTO{ID: m.ID, MakeID: m.MakeID, Name: m.Name}
}

func newVariantDTO(m *models.VehicleVariant) VariantDTO {
	return VariantDTO{
		ID:       m.ID,
		ModelID:  m.ModelID,
		Name:     m.Name,
		YearFrom: m.YearFrom,
		YearTo:   m.YearTo,
		Engine:   m.Engine,
		Fuel:     m.Fuel,
	}
}

func newCustomerVehicleDTO(m *models.CustomerVehicle) *CustomerVehicleDTO {
	return &CustomerVehicleDTO{
		ID:        m.ID,
		Plate:     m.Plate,
		Make:      m.Make,
		Model:     m.Model,
		Year:      m.Year,
		Color:     m.Color,
		VariantID: m.VariantID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
