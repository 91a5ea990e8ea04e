package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/tourquote/internal/model"
)

// QuotationRepository persists the quotation line items. Two
// strategies coexist on purpose: route entries are replaced wholesale,
// accommodation options are upserted with caller-declared deletes.
type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

// ReplaceRouteEntries drops every stored route entry of the quotation
// (children cascade) and inserts the payload, all in one transaction.
// An empty payload clears the itinerary.
func (r *QuotationRepository) ReplaceRouteEntries(ctx context.Context, agencyID, quotationID uuid.UUID, entries []model.RouteEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			DELETE FROM route_entries WHERE agency_id = ? AND quotation_id = ?
		`, agencyID, quotationID).Error; err != nil {
			return err
		}

		for _, entry := range entries {
			var entryID uuid.UUID
			err := tx.Raw(`
				INSERT INTO route_entries (
					agency_id, quotation_id, date, route_id,
					transportation_type, transportation_amount
				) VALUES (?, ?, ?, ?, ?, ?)
				RETURNING id
			`, agencyID, quotationID, entry.Date, entry.RouteID,
				entry.TransportationType, entry.TransportationAmount).
				Scan(&entryID).Error
			if err != nil {
				return err
			}

			for _, visit := range entry.Places {
				if err := tx.Exec(`
					INSERT INTO place_visits (route_entry_id, place_id, entrance_fee_pp, guide_type_id, guide_cost)
					VALUES (?, ?, ?, ?, ?)
				`, entryID, visit.PlaceID, visit.EntranceFeePP, visit.GuideTypeID, visit.GuideCost).Error; err != nil {
					return err
				}
			}
			for _, meal := range entry.Meals {
				if err := tx.Exec(`
					INSERT INTO meal_selections (route_entry_id, meal_id, restaurant_id, amount_pp)
					VALUES (?, ?, ?, ?)
				`, entryID, meal.MealID, meal.RestaurantID, meal.AmountPP).Error; err != nil {
					return err
				}
			}
			for _, svc := range entry.ExtraServices {
				if err := tx.Exec(`
					INSERT INTO extra_service_selections (route_entry_id, service_id, cost_pp)
					VALUES (?, ?, ?)
				`, entryID, svc.ServiceID, svc.CostPP).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// ListRouteEntries reads the stored itinerary tree in date order.
// Display names are resolved by the service layer.
func (r *QuotationRepository) ListRouteEntries(ctx context.Context, agencyID, quotationID uuid.UUID) ([]model.RouteEntry, error) {
	var entryRows []struct {
		ID                   uuid.UUID
		AgencyID             uuid.UUID
		QuotationID          uuid.UUID
		Date                 time.Time
		RouteID              uuid.UUID
		TransportationType   string
		TransportationAmount float64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, agency_id, quotation_id, date, route_id,
			transportation_type, transportation_amount
		FROM route_entries
		WHERE agency_id = ? AND quotation_id = ?
		ORDER BY date ASC
	`, agencyID, quotationID).Scan(&entryRows).Error
	if err != nil {
		return nil, err
	}
	if len(entryRows) == 0 {
		return []model.RouteEntry{}, nil
	}

	entryIDs := make([]uuid.UUID, 0, len(entryRows))
	entries := make([]model.RouteEntry, 0, len(entryRows))
	pos := make(map[uuid.UUID]int, len(entryRows))
	for _, row := range entryRows {
		entryIDs = append(entryIDs, row.ID)
		entries = append(entries, model.RouteEntry{
			ID:                   row.ID,
			AgencyID:             row.AgencyID,
			QuotationID:          row.QuotationID,
			Date:                 row.Date,
			RouteID:              row.RouteID,
			TransportationType:   row.TransportationType,
			TransportationAmount: row.TransportationAmount,
		})
		pos[row.ID] = len(entries) - 1
	}

	var visits []model.PlaceVisit
	err = r.db.WithContext(ctx).Raw(`
		SELECT id, route_entry_id, place_id, entrance_fee_pp, guide_type_id, guide_cost
		FROM place_visits
		WHERE route_entry_id IN (?)
		ORDER BY id
	`, entryIDs).Scan(&visits).Error
	if err != nil {
		return nil, err
	}
	for _, v := range visits {
		p := pos[v.RouteEntryID]
		entries[p].Places = append(entries[p].Places, v)
	}

	var meals []model.MealSelection
	err = r.db.WithContext(ctx).Raw(`
		SELECT id, route_entry_id, meal_id, restaurant_id, amount_pp
		FROM meal_selections
		WHERE route_entry_id IN (?)
		ORDER BY id
	`, entryIDs).Scan(&meals).Error
	if err != nil {
		return nil, err
	}
	for _, m := range meals {
		p := pos[m.RouteEntryID]
		entries[p].Meals = append(entries[p].Meals, m)
	}

	var services []model.ExtraServiceSelection
	err = r.db.WithContext(ctx).Raw(`
		SELECT id, route_entry_id, service_id, cost_pp
		FROM extra_service_selections
		WHERE route_entry_id IN (?)
		ORDER BY id
	`, entryIDs).Scan(&services).Error
	if err != nil {
		return nil, err
	}
	for _, s := range services {
		p := pos[s.RouteEntryID]
		entries[p].ExtraServices = append(entries[p].ExtraServices, s)
	}

	return entries, nil
}

// SaveAccommodation applies the whole batch in one transaction: per
// option the header is upserted, the declared deletions removed, and
// each room line upserted by its natural key. A failure anywhere rolls
// back every statement.
func (r *QuotationRepository) SaveAccommodation(ctx context.Context, agencyID, quotationID uuid.UUID, saves []model.AccommodationOptionSave) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, save := range saves {
			opt := save.Option
			if err := tx.Exec(`
				INSERT INTO accommodation_options (agency_id, quotation_id, option_id, name, sort_order)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT (agency_id, quotation_id, option_id)
				DO UPDATE SET name = EXCLUDED.name, sort_order = EXCLUDED.sort_order
			`, agencyID, quotationID, opt.OptionID, opt.Name, opt.SortOrder).Error; err != nil {
				return err
			}

			for _, hotelID := range save.Deletes.HotelIDs {
				if err := tx.Exec(`
					DELETE FROM room_lines
					WHERE agency_id = ? AND quotation_id = ? AND option_id = ? AND hotel_id = ?
				`, agencyID, quotationID, opt.OptionID, hotelID).Error; err != nil {
					return err
				}
			}
			for _, rateID := range save.Deletes.RateIDs {
				if err := tx.Exec(`
					DELETE FROM room_lines
					WHERE agency_id = ? AND quotation_id = ? AND option_id = ? AND rate_id = ?
				`, agencyID, quotationID, opt.OptionID, rateID).Error; err != nil {
					return err
				}
			}

			for _, room := range opt.Rooms {
				if err := tx.Exec(`
					INSERT INTO room_lines (
						agency_id, quotation_id, option_id, hotel_id, season_id, rate_id,
						room_type_id, nights, guests, rate_amount,
						half_board_amount, full_board_amount, single_supplement_amount
					) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
					ON CONFLICT (agency_id, quotation_id, option_id, season_id, rate_id)
					DO UPDATE SET
						hotel_id = EXCLUDED.hotel_id,
						room_type_id = EXCLUDED.room_type_id,
						nights = EXCLUDED.nights,
						guests = EXCLUDED.guests,
						rate_amount = EXCLUDED.rate_amount,
						half_board_amount = EXCLUDED.half_board_amount,
						full_board_amount = EXCLUDED.full_board_amount,
						single_supplement_amount = EXCLUDED.single_supplement_amount
				`, agencyID, quotationID, opt.OptionID, room.HotelID, room.SeasonID, room.RateID,
					room.RoomTypeID, room.Nights, room.Guests, room.RateAmount,
					room.HalfBoardAmount, room.FullBoardAmount, room.SingleSupplementAmount).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// ListAccommodationOptions returns the options sorted by sort order
// then name, each with its room lines and resolved display names.
func (r *QuotationRepository) ListAccommodationOptions(ctx context.Context, agencyID, quotationID uuid.UUID) ([]model.AccommodationOption, error) {
	var optionRows []struct {
		AgencyID    uuid.UUID
		QuotationID uuid.UUID
		OptionID    int
		Name        string
		SortOrder   int
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT agency_id, quotation_id, option_id, name, sort_order
		FROM accommodation_options
		WHERE agency_id = ? AND quotation_id = ?
		ORDER BY sort_order ASC, name ASC
	`, agencyID, quotationID).Scan(&optionRows).Error
	if err != nil {
		return nil, err
	}
	if len(optionRows) == 0 {
		return []model.AccommodationOption{}, nil
	}

	options := make([]model.AccommodationOption, 0, len(optionRows))
	pos := make(map[int]int, len(optionRows))
	for _, row := range optionRows {
		options = append(options, model.AccommodationOption{
			AgencyID:    row.AgencyID,
			QuotationID: row.QuotationID,
			OptionID:    row.OptionID,
			Name:        row.Name,
			SortOrder:   row.SortOrder,
		})
		pos[row.OptionID] = len(options) - 1
	}

	var roomRows []struct {
		AgencyID               uuid.UUID
		QuotationID            uuid.UUID
		OptionID               int
		HotelID                uuid.UUID
		HotelName              string
		SeasonID               uuid.UUID
		RateID                 uuid.UUID
		RoomTypeID             uuid.UUID
		RoomTypeName           string
		Nights                 int
		Guests                 int
		RateAmount             float64
		HalfBoardAmount        *float64
		FullBoardAmount        *float64
		SingleSupplementAmount *float64
	}
	err = r.db.WithContext(ctx).Raw(`
		SELECT rl.agency_id, rl.quotation_id, rl.option_id,
			rl.hotel_id, COALESCE(h.name, '') AS hotel_name,
			rl.season_id, rl.rate_id,
			rl.room_type_id, COALESCE(li.name, '') AS room_type_name,
			rl.nights, rl.guests, rl.rate_amount,
			rl.half_board_amount, rl.full_board_amount, rl.single_supplement_amount
		FROM room_lines rl
		LEFT JOIN hotels h ON h.id = rl.hotel_id
		LEFT JOIN list_items li ON li.id = rl.room_type_id
		WHERE rl.agency_id = ? AND rl.quotation_id = ?
		ORDER BY rl.option_id ASC, hotel_name ASC, room_type_name ASC
	`, agencyID, quotationID).Scan(&roomRows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range roomRows {
		p, ok := pos[row.OptionID]
		if !ok {
			continue
		}
		options[p].Rooms = append(options[p].Rooms, model.RoomLine{
			AgencyID:               row.AgencyID,
			QuotationID:            row.QuotationID,
			OptionID:               row.OptionID,
			HotelID:                row.HotelID,
			HotelName:              row.HotelName,
			SeasonID:               row.SeasonID,
			RateID:                 row.RateID,
			RoomTypeID:             row.RoomTypeID,
			RoomTypeName:           row.RoomTypeName,
			Nights:                 row.Nights,
			Guests:                 row.Guests,
			RateAmount:             row.RateAmount,
			HalfBoardAmount:        row.HalfBoardAmount,
			FullBoardAmount:        row.FullBoardAmount,
			SingleSupplementAmount: row.SingleSupplementAmount,
		})
	}
	return options, nil
}
