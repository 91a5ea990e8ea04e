package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/tourquote/internal/model"
)

// CatalogRepository serves the keyed lookups the quotation builder
// needs: places, entrance fees, meals, restaurants, extra services,
// labelled list items, the transportation-fee catalogue and the
// quotation header.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetQuotation(ctx context.Context, agencyID, id uuid.UUID) (*model.Quotation, error) {
	var row struct {
		ID                      uuid.UUID
		AgencyID                uuid.UUID
		ClientID                uuid.UUID
		TransportationCompanyID *uuid.UUID
		Arrival                 time.Time
		Departure               time.Time
		GroupName               string
		CountryID               *uuid.UUID
		Active                  bool
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, agency_id, client_id, transportation_company_id,
			arrival, departure, group_name, country_id, active
		FROM quotations
		WHERE agency_id = ? AND id = ?
		LIMIT 1
	`, agencyID, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.Quotation{
		ID:                      row.ID,
		AgencyID:                row.AgencyID,
		ClientID:                row.ClientID,
		TransportationCompanyID: row.TransportationCompanyID,
		Arrival:                 row.Arrival,
		Departure:               row.Departure,
		GroupName:               row.GroupName,
		CountryID:               row.CountryID,
		Active:                  row.Active,
	}, nil
}

func (r *CatalogRepository) ListPlaces(ctx context.Context, agencyID uuid.UUID, ids []uuid.UUID) ([]model.Place, error) {
	if len(ids) == 0 {
		return []model.Place{}, nil
	}
	var places []model.Place
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, agency_id, name, area_id
		FROM places
		WHERE agency_id = ? AND id IN (?)
	`, agencyID, ids).Scan(&places).Error
	if err != nil {
		return nil, err
	}
	return places, nil
}

func (r *CatalogRepository) ListEntranceFees(ctx context.Context, placeIDs []uuid.UUID) ([]model.EntranceFee, error) {
	if len(placeIDs) == 0 {
		return []model.EntranceFee{}, nil
	}
	var fees []model.EntranceFee
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, place_id, country_id, amount
		FROM entrance_fees
		WHERE place_id IN (?)
	`, placeIDs).Scan(&fees).Error
	if err != nil {
		return nil, err
	}
	return fees, nil
}

func (r *CatalogRepository) ListMeals(ctx context.Context, agencyID uuid.UUID, ids []uuid.UUID) ([]model.Meal, error) {
	if len(ids) == 0 {
		return []model.Meal{}, nil
	}
	var meals []model.Meal
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, agency_id, name FROM meals WHERE agency_id = ? AND id IN (?)
	`, agencyID, ids).Scan(&meals).Error
	if err != nil {
		return nil, err
	}
	return meals, nil
}

func (r *CatalogRepository) ListRestaurants(ctx context.Context, agencyID uuid.UUID, ids []uuid.UUID) ([]model.Restaurant, error) {
	if len(ids) == 0 {
		return []model.Restaurant{}, nil
	}
	var restaurants []model.Restaurant
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, agency_id, name FROM restaurants WHERE agency_id = ? AND id IN (?)
	`, agencyID, ids).Scan(&restaurants).Error
	if err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (r *CatalogRepository) ListExtraServices(ctx context.Context, agencyID uuid.UUID, ids []uuid.UUID) ([]model.ExtraService, error) {
	if len(ids) == 0 {
		return []model.ExtraService{}, nil
	}
	var services []model.ExtraService
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, agency_id, name FROM extra_services WHERE agency_id = ? AND id IN (?)
	`, agencyID, ids).Scan(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *CatalogRepository) ListItems(ctx context.Context, agencyID uuid.UUID, ids []uuid.UUID) ([]model.ListItem, error) {
	if len(ids) == 0 {
		return []model.ListItem{}, nil
	}
	var items []model.ListItem
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, agency_id, category, name FROM list_items WHERE agency_id = ? AND id IN (?)
	`, agencyID, ids).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CatalogRepository) ListTransportationFees(ctx context.Context, agencyID uuid.UUID) ([]model.TransportationFee, error) {
	var fees []model.TransportationFee
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, agency_id, fee_type_id, fee_type_name, vehicle_type_id, vehicle_type_name, amount
		FROM transportation_fees
		WHERE agency_id = ?
		ORDER BY fee_type_name ASC, vehicle_type_name ASC
	`, agencyID).Scan(&fees).Error
	if err != nil {
		return nil, err
	}
	return fees, nil
}
