package model

import (
	"time"

	"github.com/google/uuid"
)

// Quotation is the header record. It is owned by the client/booking
// side of the system; this service only reads its id, dates, company
// and active flag.
type Quotation struct {
	ID                      uuid.UUID  `json:"id"`
	AgencyID                uuid.UUID  `json:"agency_id"`
	ClientID                uuid.UUID  `json:"client_id"`
	TransportationCompanyID *uuid.UUID `json:"transportation_company_id,omitempty"`
	Arrival                 time.Time  `json:"arrival_date"`
	Departure               time.Time  `json:"departure_date"`
	GroupName               string     `json:"group_name"`
	CountryID               *uuid.UUID `json:"country_id,omitempty"`
	Active                  bool       `json:"active"`
}

// RouteEntry is one calendar day of the itinerary with its place
// visits, meals and extra services. Display-name fields on the
// children are filled on read, never stored.
type RouteEntry struct {
	ID                   uuid.UUID               `json:"id"`
	AgencyID             uuid.UUID               `json:"agency_id"`
	QuotationID          uuid.UUID               `json:"quotation_id"`
	Date                 time.Time               `json:"date"`
	RouteID              uuid.UUID               `json:"route_id"`
	RouteName            string                  `json:"route_name" gorm:"-"`
	TransportationType   string                  `json:"transportation_type"`
	TransportationAmount float64                 `json:"transportation_amount"`
	Places               []PlaceVisit            `json:"places" gorm:"-"`
	Meals                []MealSelection         `json:"meals" gorm:"-"`
	ExtraServices        []ExtraServiceSelection `json:"extra_services" gorm:"-"`
}

type PlaceVisit struct {
	ID              uuid.UUID  `json:"id"`
	RouteEntryID    uuid.UUID  `json:"route_entry_id"`
	PlaceID         uuid.UUID  `json:"place_id"`
	PlaceName       string     `json:"place_name" gorm:"-"`
	EntranceFeePP   float64    `json:"entrance_fee_pp"`
	NoFeeConfigured bool       `json:"no_fee_configured" gorm:"-"`
	GuideTypeID     *uuid.UUID `json:"guide_type_id,omitempty"`
	GuideCost       float64    `json:"guide_cost"`
}

type MealSelection struct {
	ID             uuid.UUID `json:"id"`
	RouteEntryID   uuid.UUID `json:"route_entry_id"`
	MealID         uuid.UUID `json:"meal_id"`
	MealName       string    `json:"meal_name" gorm:"-"`
	RestaurantID   uuid.UUID `json:"restaurant_id"`
	RestaurantName string    `json:"restaurant_name" gorm:"-"`
	AmountPP       float64   `json:"amount_pp"`
}

type ExtraServiceSelection struct {
	ID           uuid.UUID `json:"id"`
	RouteEntryID uuid.UUID `json:"route_entry_id"`
	ServiceID    uuid.UUID `json:"service_id"`
	ServiceName  string    `json:"service_name" gorm:"-"`
	CostPP       float64   `json:"cost_pp"`
}

// AccommodationOption is one alternative lodging package inside a
// quotation. OptionID is the caller-assigned ordinal that, together
// with the agency and quotation, forms the natural key.
type AccommodationOption struct {
	AgencyID    uuid.UUID  `json:"agency_id"`
	QuotationID uuid.UUID  `json:"quotation_id"`
	OptionID    int        `json:"option_id"`
	Name        string     `json:"name"`
	SortOrder   int        `json:"sort_order"`
	Rooms       []RoomLine `json:"rooms" gorm:"-"`
}

// RoomLine keys on (agency, quotation, option, season, rate). The
// amounts are copied from the resolved rate at save time so a later
// rate edit does not silently reprice an issued quotation.
type RoomLine struct {
	AgencyID               uuid.UUID `json:"agency_id"`
	QuotationID            uuid.UUID `json:"quotation_id"`
	OptionID               int       `json:"option_id"`
	HotelID                uuid.UUID `json:"hotel_id"`
	HotelName              string    `json:"hotel_name" gorm:"-"`
	SeasonID               uuid.UUID `json:"season_id"`
	RateID                 uuid.UUID `json:"rate_id"`
	RoomTypeID             uuid.UUID `json:"room_type_id"`
	RoomTypeName           string    `json:"room_type_name" gorm:"-"`
	Nights                 int       `json:"nights"`
	Guests                 int       `json:"guests"`
	RateAmount             float64   `json:"rate_amount"`
	HalfBoardAmount        *float64  `json:"half_board_amount,omitempty"`
	FullBoardAmount        *float64  `json:"full_board_amount,omitempty"`
	SingleSupplementAmount *float64  `json:"single_supplement_amount,omitempty"`
}

// Total is the line's contribution to the option total: the base
// nightly amount across the stay. Board upgrades and the single
// supplement stay displayed per line.
func (l RoomLine) Total() float64 {
	return l.RateAmount * float64(l.Nights)
}

// AccommodationDeletes lists the targeted removals a caller declares
// alongside an option save.
type AccommodationDeletes struct {
	HotelIDs []uuid.UUID `json:"hotel_ids"`
	RateIDs  []uuid.UUID `json:"rate_ids"`
}

// AccommodationOptionSave pairs one option payload with its declared
// deletions; a batch of these is applied in a single transaction.
type AccommodationOptionSave struct {
	Option  AccommodationOption  `json:"option"`
	Deletes AccommodationDeletes `json:"deletes"`
}

// TotalsBreakdown is a quotation's cost structure evaluated against a
// single accommodation option.
type TotalsBreakdown struct {
	EntranceFees      float64 `json:"entrance_fees"`
	GuideCosts        float64 `json:"guide_costs"`
	MealCosts         float64 `json:"meal_costs"`
	ExtraServiceCosts float64 `json:"extra_service_costs"`
	Transportation    float64 `json:"transportation"`
	Accommodation     float64 `json:"accommodation"`
	GrandTotal        float64 `json:"grand_total"`
}

// QuoteDocument is the flattened read model handed to the XLSX/PDF
// cost-sheet generators.
type QuoteDocument struct {
	Quotation Quotation
	Entries   []RouteEntry
	Option    *AccommodationOption
	Totals    TotalsBreakdown
}
