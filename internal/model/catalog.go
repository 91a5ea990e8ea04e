package model

import "github.com/google/uuid"

type Place struct {
	ID       uuid.UUID  `json:"id"`
	AgencyID uuid.UUID  `json:"agency_id"`
	Name     string     `json:"name"`
	AreaID   *uuid.UUID `json:"area_id,omitempty"`
}

// EntranceFee is the admission price of a place for travellers of one
// country. A missing (place, country) pair is a valid zero-priced
// state, not an error.
type EntranceFee struct {
	ID        uuid.UUID `json:"id"`
	PlaceID   uuid.UUID `json:"place_id"`
	CountryID uuid.UUID `json:"country_id"`
	Amount    float64   `json:"amount"`
}

// ListItem is a labelled reference row (room types, season names,
// countries, guide types, route names) kept in a single catalogue
// table and distinguished by category.
type ListItem struct {
	ID       uuid.UUID `json:"id"`
	AgencyID uuid.UUID `json:"agency_id"`
	Category string    `json:"category"`
	Name     string    `json:"name"`
}

const (
	ListCategoryRoomType   = "ROOM_TYPE"
	ListCategorySeasonName = "SEASON_NAME"
	ListCategoryCountry    = "COUNTRY"
	ListCategoryGuideType  = "GUIDE_TYPE"
	ListCategoryRoute      = "ROUTE"
)

type Meal struct {
	ID       uuid.UUID `json:"id"`
	AgencyID uuid.UUID `json:"agency_id"`
	Name     string    `json:"name"`
}

type Restaurant struct {
	ID       uuid.UUID `json:"id"`
	AgencyID uuid.UUID `json:"agency_id"`
	Name     string    `json:"name"`
}

type ExtraService struct {
	ID       uuid.UUID `json:"id"`
	AgencyID uuid.UUID `json:"agency_id"`
	Name     string    `json:"name"`
}

// TransportationFee is one flat catalogue row; the fee-type and
// vehicle-type names are denormalized for display grouping.
type TransportationFee struct {
	ID              uuid.UUID `json:"id"`
	AgencyID        uuid.UUID `json:"agency_id"`
	FeeTypeID       uuid.UUID `json:"fee_type_id"`
	FeeTypeName     string    `json:"fee_type_name"`
	VehicleTypeID   uuid.UUID `json:"vehicle_type_id"`
	VehicleTypeName string    `json:"vehicle_type_name"`
	Amount          float64   `json:"amount"`
}
