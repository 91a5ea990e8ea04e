package pricing

import (
	"github.com/google/uuid"

	"github.com/nurpe/tourquote/internal/model"
)

// FeeKey addresses one entrance-fee row: admission to a place for
// travellers of one country.
type FeeKey struct {
	PlaceID   uuid.UUID
	CountryID uuid.UUID
}

// FeeIndex is the entrance-fee catalogue snapshot handed to the
// aggregation functions.
type FeeIndex map[FeeKey]float64

func BuildFeeIndex(fees []model.EntranceFee) FeeIndex {
	index := make(FeeIndex, len(fees))
	for _, f := range fees {
		index[FeeKey{PlaceID: f.PlaceID, CountryID: f.CountryID}] = f.Amount
	}
	return index
}

// EntranceFeeLine is one visited place priced for the traveller
// country. A place with no fee configured stays in the result at zero
// with the flag set so the caller can warn without failing.
type EntranceFeeLine struct {
	PlaceID         uuid.UUID
	PlaceName       string
	Amount          float64
	NoFeeConfigured bool
}

// EntranceFees prices every visit for the given country and returns
// the per-visit lines with their sum.
func EntranceFees(visits []model.PlaceVisit, countryID uuid.UUID, index FeeIndex) ([]EntranceFeeLine, float64) {
	lines := make([]EntranceFeeLine, 0, len(visits))
	var total float64
	for _, v := range visits {
		line := EntranceFeeLine{PlaceID: v.PlaceID, PlaceName: v.PlaceName}
		if amount, ok := index[FeeKey{PlaceID: v.PlaceID, CountryID: countryID}]; ok {
			line.Amount = amount
		} else {
			line.NoFeeConfigured = true
		}
		lines = append(lines, line)
		total += line.Amount
	}
	return lines, total
}

type TransportationVehicle struct {
	VehicleTypeID   uuid.UUID `json:"vehicle_type_id"`
	VehicleTypeName string    `json:"vehicle_type_name"`
	Amount          float64   `json:"amount"`
}

type TransportationFeeGroup struct {
	FeeTypeID   uuid.UUID               `json:"fee_type_id"`
	FeeTypeName string                  `json:"fee_type_name"`
	Vehicles    []TransportationVehicle `json:"vehicles"`
}

// GroupTransportationFees buckets the flat catalogue rows by fee type,
// then vehicle type, preserving first-seen order and display names.
// Pure shaping for presentation; it selects nothing.
func GroupTransportationFees(rows []model.TransportationFee) []TransportationFeeGroup {
	groups := make([]TransportationFeeGroup, 0)
	index := make(map[uuid.UUID]int)
	for _, row := range rows {
		pos, ok := index[row.FeeTypeID]
		if !ok {
			groups = append(groups, TransportationFeeGroup{
				FeeTypeID:   row.FeeTypeID,
				FeeTypeName: row.FeeTypeName,
			})
			pos = len(groups) - 1
			index[row.FeeTypeID] = pos
		}
		groups[pos].Vehicles = append(groups[pos].Vehicles, TransportationVehicle{
			VehicleTypeID:   row.VehicleTypeID,
			VehicleTypeName: row.VehicleTypeName,
			Amount:          row.Amount,
		})
	}
	return groups
}

// QuotationTotals sums the route-side costs with the room totals of
// the single option being evaluated. Options are mutually independent
// alternatives; totals are never merged across them. Route entries are
// expected enriched (entrance fees already priced per traveller
// country).
func QuotationTotals(entries []model.RouteEntry, option *model.AccommodationOption) model.TotalsBreakdown {
	var b model.TotalsBreakdown
	for _, entry := range entries {
		b.Transportation += entry.TransportationAmount
		for _, visit := range entry.Places {
			b.EntranceFees += visit.EntranceFeePP
			b.GuideCosts += visit.GuideCost
		}
		for _, meal := range entry.Meals {
			b.MealCosts += meal.AmountPP
		}
		for _, svc := range entry.ExtraServices {
			b.ExtraServiceCosts += svc.CostPP
		}
	}
	if option != nil {
		for _, room := range option.Rooms {
			b.Accommodation += room.Total()
		}
	}
	b.GrandTotal = b.EntranceFees + b.GuideCosts + b.MealCosts +
		b.ExtraServiceCosts + b.Transportation + b.Accommodation
	return b
}
