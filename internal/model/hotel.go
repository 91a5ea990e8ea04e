package model

import (
	"time"

	"github.com/google/uuid"
)

// Window is an inclusive [Start, End] date range. Both ends are dates
// (midnight UTC); End is the last day the window covers.
type Window struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

func (w Window) Contains(day time.Time) bool {
	return !day.Before(w.Start) && !day.After(w.End)
}

// Overlaps uses the closed-interval test: two windows intersect when
// each starts no later than the other ends.
func (w Window) Overlaps(other Window) bool {
	return !w.Start.After(other.End) && !other.Start.After(w.End)
}

// EndOfDay returns the last instant of the window's final day.
func (w Window) EndOfDay() time.Time {
	y, m, d := w.End.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}

type Hotel struct {
	ID       uuid.UUID  `json:"id"`
	AgencyID uuid.UUID  `json:"agency_id"`
	Name     string     `json:"name"`
	AreaID   *uuid.UUID `json:"area_id,omitempty"`
	ChainID  *uuid.UUID `json:"chain_id,omitempty"`
	Stars    *int       `json:"stars,omitempty"`
}

// Contract is a hotel's active-dealing window. Contracts for one hotel
// must never overlap; they are independent of seasons and rates.
type Contract struct {
	ID            uuid.UUID `json:"id"`
	AgencyID      uuid.UUID `json:"agency_id"`
	HotelID       uuid.UUID `json:"hotel_id"`
	Window        Window    `json:"window"`
	AttachmentRef *string   `json:"attachment_ref,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Season struct {
	ID        uuid.UUID `json:"id"`
	AgencyID  uuid.UUID `json:"agency_id"`
	HotelID   uuid.UUID `json:"hotel_id"`
	NameID    uuid.UUID `json:"name_id"`
	Name      string    `json:"name" gorm:"-"`
	Window    Window    `json:"window"`
	CreatedAt time.Time `json:"created_at"`
}

// Rate prices one room type within a season. Window is optional; when
// nil the rate covers the whole season window.
type Rate struct {
	ID                     uuid.UUID `json:"id"`
	AgencyID               uuid.UUID `json:"agency_id"`
	SeasonID               uuid.UUID `json:"season_id"`
	RoomTypeID             uuid.UUID `json:"room_type_id"`
	RoomTypeName           string    `json:"room_type_name" gorm:"-"`
	Window                 *Window   `json:"window,omitempty"`
	Amount                 float64   `json:"amount"`
	HalfBoardAmount        *float64  `json:"half_board_amount,omitempty"`
	FullBoardAmount        *float64  `json:"full_board_amount,omitempty"`
	SingleSupplementAmount *float64  `json:"single_supplement_amount,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
}

// EffectiveWindow is the rate's own window when set, else the season's.
func (r Rate) EffectiveWindow(season Season) Window {
	if r.Window != nil {
		return *r.Window
	}
	return season.Window
}

// SeasonRates is one season with its rate lines, as loaded into a
// resolution snapshot or the season-rate tree.
type SeasonRates struct {
	Season Season `json:"season"`
	Rates  []Rate `json:"rates"`
}

// HotelSeasonRates is one node of the season-rate tree returned by the
// availability query.
type HotelSeasonRates struct {
	Hotel   Hotel         `json:"hotel"`
	Seasons []SeasonRates `json:"seasons"`
}

// SeasonRateFilter narrows the season-rate tree query.
type SeasonRateFilter struct {
	HotelID *uuid.UUID
	AreaID  *uuid.UUID
	ChainID *uuid.UUID
	Stars   *int
}
