package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/tourquote/internal/model"
)

// RateRepository reads and writes the validity records: hotel
// contracts, seasons and their rates.
type RateRepository struct {
	db *gorm.DB
}

func NewRateRepository(db *gorm.DB) *RateRepository {
	return &RateRepository{db: db}
}

type contractRow struct {
	ID            uuid.UUID
	AgencyID      uuid.UUID
	HotelID       uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	AttachmentRef *string
	CreatedAt     time.Time
}

func (row contractRow) toModel() model.Contract {
	return model.Contract{
		ID:            row.ID,
		AgencyID:      row.AgencyID,
		HotelID:       row.HotelID,
		Window:        model.Window{Start: row.StartDate, End: row.EndDate},
		AttachmentRef: row.AttachmentRef,
		CreatedAt:     row.CreatedAt,
	}
}

func (r *RateRepository) GetContract(ctx context.Context, agencyID, id uuid.UUID) (*model.Contract, error) {
	var row contractRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, agency_id, hotel_id, start_date, end_date, attachment_ref, created_at
		FROM hotel_contracts
		WHERE agency_id = ? AND id = ?
		LIMIT 1
	`, agencyID, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	contract := row.toModel()
	return &contract, nil
}

func (r *RateRepository) ListContractsForHotel(ctx context.Context, agencyID, hotelID uuid.UUID) ([]model.Contract, error) {
	var rows []contractRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, agency_id, hotel_id, start_date, end_date, attachment_ref, created_at
		FROM hotel_contracts
		WHERE agency_id = ? AND hotel_id = ?
		ORDER BY start_date ASC
	`, agencyID, hotelID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	contracts := make([]model.Contract, 0, len(rows))
	for _, row := range rows {
		contracts = append(contracts, row.toModel())
	}
	return contracts, nil
}

func (r *RateRepository) CreateContract(ctx context.Context, contract model.Contract) (*model.Contract, error) {
	var row contractRow
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO hotel_contracts (agency_id, hotel_id, start_date, end_date, attachment_ref)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, agency_id, hotel_id, start_date, end_date, attachment_ref, created_at
	`, contract.AgencyID, contract.HotelID, contract.Window.Start, contract.Window.End, contract.AttachmentRef).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	saved := row.toModel()
	return &saved, nil
}

func (r *RateRepository) UpdateContract(ctx context.Context, contract model.Contract) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE hotel_contracts
		SET start_date = ?, end_date = ?, attachment_ref = ?
		WHERE agency_id = ? AND id = ?
	`, contract.Window.Start, contract.Window.End, contract.AttachmentRef, contract.AgencyID, contract.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RateRepository) DeleteContract(ctx context.Context, agencyID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Exec(`
		DELETE FROM hotel_contracts WHERE agency_id = ? AND id = ?
	`, agencyID, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type seasonRow struct {
	ID        uuid.UUID
	AgencyID  uuid.UUID
	HotelID   uuid.UUID
	NameID    uuid.UUID
	Name      string
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
}

func (row seasonRow) toModel() model.Season {
	return model.Season{
		ID:        row.ID,
		AgencyID:  row.AgencyID,
		HotelID:   row.HotelID,
		NameID:    row.NameID,
		Name:      row.Name,
		Window:    model.Window{Start: row.StartDate, End: row.EndDate},
		CreatedAt: row.CreatedAt,
	}
}

func (r *RateRepository) GetSeason(ctx context.Context, agencyID, id uuid.UUID) (*model.Season, error) {
	var row seasonRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT s.id, s.agency_id, s.hotel_id, s.name_id,
			COALESCE(li.name, '') AS name,
			s.start_date, s.end_date, s.created_at
		FROM hotel_seasons s
		LEFT JOIN list_items li ON li.id = s.name_id
		WHERE s.agency_id = ? AND s.id = ?
		LIMIT 1
	`, agencyID, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	season := row.toModel()
	return &season, nil
}

func (r *RateRepository) CreateSeason(ctx context.Context, season model.Season) (*model.Season, error) {
	var row seasonRow
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO hotel_seasons (agency_id, hotel_id, name_id, start_date, end_date)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, agency_id, hotel_id, name_id, '' AS name, start_date, end_date, created_at
	`, season.AgencyID, season.HotelID, season.NameID, season.Window.Start, season.Window.End).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	saved := row.toModel()
	return &saved, nil
}

func (r *RateRepository) UpdateSeason(ctx context.Context, season model.Season) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE hotel_seasons
		SET name_id = ?, start_date = ?, end_date = ?
		WHERE agency_id = ? AND id = ?
	`, season.NameID, season.Window.Start, season.Window.End, season.AgencyID, season.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RateRepository) DeleteSeason(ctx context.Context, agencyID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Exec(`
		DELETE FROM hotel_seasons WHERE agency_id = ? AND id = ?
	`, agencyID, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type rateRow struct {
	ID                     uuid.UUID
	AgencyID               uuid.UUID
	SeasonID               uuid.UUID
	RoomTypeID             uuid.UUID
	RoomTypeName           string
	StartDate              *time.Time
	EndDate                *time.Time
	Amount                 float64
	HalfBoardAmount        *float64
	FullBoardAmount        *float64
	SingleSupplementAmount *float64
	CreatedAt              time.Time
}

func (row rateRow) toModel() model.Rate {
	rate := model.Rate{
		ID:                     row.ID,
		AgencyID:               row.AgencyID,
		SeasonID:               row.SeasonID,
		RoomTypeID:             row.RoomTypeID,
		RoomTypeName:           row.RoomTypeName,
		Amount:                 row.Amount,
		HalfBoardAmount:        row.HalfBoardAmount,
		FullBoardAmount:        row.FullBoardAmount,
		SingleSupplementAmount: row.SingleSupplementAmount,
		CreatedAt:              row.CreatedAt,
	}
	if row.StartDate != nil && row.EndDate != nil {
		rate.Window = &model.Window{Start: *row.StartDate, End: *row.EndDate}
	}
	return rate
}

func (r *RateRepository) GetRate(ctx context.Context, agencyID, id uuid.UUID) (*model.Rate, error) {
	var row rateRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT r.id, r.agency_id, r.season_id, r.room_type_id,
			COALESCE(li.name, '') AS room_type_name,
			r.start_date, r.end_date, r.amount,
			r.half_board_amount, r.full_board_amount, r.single_supplement_amount,
			r.created_at
		FROM hotel_rates r
		LEFT JOIN list_items li ON li.id = r.room_type_id
		WHERE r.agency_id = ? AND r.id = ?
		LIMIT 1
	`, agencyID, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	rate := row.toModel()
	return &rate, nil
}

func (r *RateRepository) CreateRate(ctx context.Context, rate model.Rate) (*model.Rate, error) {
	var start, end *time.Time
	if rate.Window != nil {
		start, end = &rate.Window.Start, &rate.Window.End
	}
	var row rateRow
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO hotel_rates (
			agency_id, season_id, room_type_id, start_date, end_date,
			amount, half_board_amount, full_board_amount, single_supplement_amount
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, agency_id, season_id, room_type_id, '' AS room_type_name,
			start_date, end_date, amount,
			half_board_amount, full_board_amount, single_supplement_amount, created_at
	`, rate.AgencyID, rate.SeasonID, rate.RoomTypeID, start, end,
		rate.Amount, rate.HalfBoardAmount, rate.FullBoardAmount, rate.SingleSupplementAmount).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	saved := row.toModel()
	return &saved, nil
}

func (r *RateRepository) UpdateRate(ctx context.Context, rate model.Rate) error {
	var start, end *time.Time
	if rate.Window != nil {
		start, end = &rate.Window.Start, &rate.Window.End
	}
	res := r.db.WithContext(ctx).Exec(`
		UPDATE hotel_rates
		SET room_type_id = ?, start_date = ?, end_date = ?, amount = ?,
			half_board_amount = ?, full_board_amount = ?, single_supplement_amount = ?
		WHERE agency_id = ? AND id = ?
	`, rate.RoomTypeID, start, end, rate.Amount,
		rate.HalfBoardAmount, rate.FullBoardAmount, rate.SingleSupplementAmount,
		rate.AgencyID, rate.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RateRepository) DeleteRate(ctx context.Context, agencyID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Exec(`
		DELETE FROM hotel_rates WHERE agency_id = ? AND id = ?
	`, agencyID, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListSeasonRatesForHotel loads the immutable snapshot the resolver
// works on: every season of the hotel overlapping the stay window,
// with its rates.
func (r *RateRepository) ListSeasonRatesForHotel(ctx context.Context, agencyID, hotelID uuid.UUID, stay model.Window) ([]model.SeasonRates, error) {
	var seasonRows []seasonRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT s.id, s.agency_id, s.hotel_id, s.name_id,
			COALESCE(li.name, '') AS name,
			s.start_date, s.end_date, s.created_at
		FROM hotel_seasons s
		LEFT JOIN list_items li ON li.id = s.name_id
		WHERE s.agency_id = ? AND s.hotel_id = ?
			AND s.start_date <= ? AND s.end_date >= ?
		ORDER BY s.start_date ASC, s.created_at ASC
	`, agencyID, hotelID, stay.End, stay.Start).Scan(&seasonRows).Error
	if err != nil {
		return nil, err
	}
	if len(seasonRows) == 0 {
		return []model.SeasonRates{}, nil
	}

	seasonIDs := make([]uuid.UUID, 0, len(seasonRows))
	for _, row := range seasonRows {
		seasonIDs = append(seasonIDs, row.ID)
	}

	var rateRows []rateRow
	err = r.db.WithContext(ctx).Raw(`
		SELECT r.id, r.agency_id, r.season_id, r.room_type_id,
			COALESCE(li.name, '') AS room_type_name,
			r.start_date, r.end_date, r.amount,
			r.half_board_amount, r.full_board_amount, r.single_supplement_amount,
			r.created_at
		FROM hotel_rates r
		LEFT JOIN list_items li ON li.id = r.room_type_id
		WHERE r.agency_id = ? AND r.season_id IN (?)
		ORDER BY r.created_at ASC
	`, agencyID, seasonIDs).Scan(&rateRows).Error
	if err != nil {
		return nil, err
	}

	bySeason := make(map[uuid.UUID][]model.Rate, len(seasonRows))
	for _, row := range rateRows {
		bySeason[row.SeasonID] = append(bySeason[row.SeasonID], row.toModel())
	}

	snapshot := make([]model.SeasonRates, 0, len(seasonRows))
	for _, row := range seasonRows {
		snapshot = append(snapshot, model.SeasonRates{
			Season: row.toModel(),
			Rates:  bySeason[row.ID],
		})
	}
	return snapshot, nil
}

// SeasonRateTree returns Hotel -> Season -> Rate for every season
// overlapping [arrival, departure). Departure is the check-out day,
// so a season starting on it is excluded.
func (r *RateRepository) SeasonRateTree(ctx context.Context, agencyID uuid.UUID, arrival, departure time.Time, filter model.SeasonRateFilter) ([]model.HotelSeasonRates, error) {
	query := `
		SELECT h.id AS hotel_id, h.agency_id, h.name AS hotel_name, h.area_id, h.chain_id, h.stars,
			s.id AS season_id, s.name_id,
			COALESCE(sn.name, '') AS season_name,
			s.start_date AS season_start, s.end_date AS season_end, s.created_at AS season_created_at,
			r.id AS rate_id, r.room_type_id,
			COALESCE(rt.name, '') AS room_type_name,
			r.start_date AS rate_start, r.end_date AS rate_end,
			r.amount, r.half_board_amount, r.full_board_amount, r.single_supplement_amount
		FROM hotels h
		JOIN hotel_seasons s ON s.hotel_id = h.id AND s.agency_id = h.agency_id
		LEFT JOIN hotel_rates r ON r.season_id = s.id AND r.agency_id = s.agency_id
		LEFT JOIN list_items sn ON sn.id = s.name_id
		LEFT JOIN list_items rt ON rt.id = r.room_type_id
		WHERE h.agency_id = ?
			AND s.start_date < ? AND s.end_date >= ?
	`
	args := []interface{}{agencyID, departure, arrival}

	if filter.HotelID != nil {
		query += " AND h.id = ?"
		args = append(args, *filter.HotelID)
	}
	if filter.AreaID != nil {
		query += " AND h.area_id = ?"
		args = append(args, *filter.AreaID)
	}
	if filter.ChainID != nil {
		query += " AND h.chain_id = ?"
		args = append(args, *filter.ChainID)
	}
	if filter.Stars != nil {
		query += " AND h.stars = ?"
		args = append(args, *filter.Stars)
	}
	query += " ORDER BY h.name ASC, s.start_date ASC, rt.name ASC"

	var rows []struct {
		HotelID                uuid.UUID
		AgencyID               uuid.UUID
		HotelName              string
		AreaID                 *uuid.UUID
		ChainID                *uuid.UUID
		Stars                  *int
		SeasonID               uuid.UUID
		NameID                 uuid.UUID
		SeasonName             string
		SeasonStart            time.Time
		SeasonEnd              time.Time
		SeasonCreatedAt        time.Time
		RateID                 *uuid.UUID
		RoomTypeID             *uuid.UUID
		RoomTypeName           string
		RateStart              *time.Time
		RateEnd                *time.Time
		Amount                 *float64
		HalfBoardAmount        *float64
		FullBoardAmount        *float64
		SingleSupplementAmount *float64
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	tree := make([]model.HotelSeasonRates, 0)
	hotelPos := make(map[uuid.UUID]int)
	seasonPos := make(map[uuid.UUID]int)

	for _, row := range rows {
		hp, ok := hotelPos[row.HotelID]
		if !ok {
			tree = append(tree, model.HotelSeasonRates{Hotel: model.Hotel{
				ID:       row.HotelID,
				AgencyID: row.AgencyID,
				Name:     row.HotelName,
				AreaID:   row.AreaID,
				ChainID:  row.ChainID,
				Stars:    row.Stars,
			}})
			hp = len(tree) - 1
			hotelPos[row.HotelID] = hp
		}

		sp, ok := seasonPos[row.SeasonID]
		if !ok {
			tree[hp].Seasons = append(tree[hp].Seasons, model.SeasonRates{Season: model.Season{
				ID:        row.SeasonID,
				AgencyID:  row.AgencyID,
				HotelID:   row.HotelID,
				NameID:    row.NameID,
				Name:      row.SeasonName,
				Window:    model.Window{Start: row.SeasonStart, End: row.SeasonEnd},
				CreatedAt: row.SeasonCreatedAt,
			}})
			sp = len(tree[hp].Seasons) - 1
			seasonPos[row.SeasonID] = sp
		}

		if row.RateID == nil {
			continue
		}
		rate := model.Rate{
			ID:                     *row.RateID,
			AgencyID:               row.AgencyID,
			SeasonID:               row.SeasonID,
			RoomTypeID:             *row.RoomTypeID,
			RoomTypeName:           row.RoomTypeName,
			Amount:                 *row.Amount,
			HalfBoardAmount:        row.HalfBoardAmount,
			FullBoardAmount:        row.FullBoardAmount,
			SingleSupplementAmount: row.SingleSupplementAmount,
		}
		if row.RateStart != nil && row.RateEnd != nil {
			rate.Window = &model.Window{Start: *row.RateStart, End: *row.RateEnd}
		}
		tree[hp].Seasons[sp].Rates = append(tree[hp].Seasons[sp].Rates, rate)
	}
	return tree, nil
}
