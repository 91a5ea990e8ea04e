package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/tourquote/internal/model"
)

// RateStore is the validity-record storage the services run against.
// Satisfied by repository.RateRepository.
type RateStore interface {
	GetContract(ctx context.Context, agencyID, id uuid.UUID) (*model.Contract, error)
	ListContractsForHotel(ctx context.Context, agencyID, hotelID uuid.UUID) ([]model.Contract, error)
	CreateContract(ctx context.Context, contract model.Contract) (*model.Contract, error)
	UpdateContract(ctx context.Context, contract model.Contract) error
	DeleteContract(ctx context.Context, agencyID, id uuid.UUID) error

	GetSeason(ctx context.Context, agencyID, id uuid.UUID) (*model.Season, error)
	CreateSeason(ctx context.Context, season model.Season) (*model.Season, error)
	UpdateSeason(ctx context.Context, season model.Season) error
	DeleteSeason(ctx context.Context, agencyID, id uuid.UUID) error

	GetRate(ctx context.Context, agencyID, id uuid.UUID) (*model.Rate, error)
	CreateRate(ctx context.Context, rate model.Rate) (*model.Rate, error)
	UpdateRate(ctx context.Context, rate model.Rate) error
	DeleteRate(ctx context.Context, agencyID, id uuid.UUID) error

	ListSeasonRatesForHotel(ctx context.Context, agencyID, hotelID uuid.UUID, stay model.Window) ([]model.SeasonRates, error)
	SeasonRateTree(ctx context.Context, agencyID uuid.UUID, arrival, departure time.Time, filter model.SeasonRateFilter) ([]model.HotelSeasonRates, error)
}

// CatalogStore provides the keyed lookups the quotation builder
// enriches responses with. Satisfied by repository.CatalogRepository.
type CatalogStore interface {
	GetQuotation(ctx context.Context, agencyID, id uuid.UUID) (*model.Quotation, error)
	ListPlaces(ctx context.Context, agencyID uuid.UUID, ids []uuid.UUID) ([]model.Place, error)
	ListEntranceFees(ctx context.Context, placeIDs []uuid.UUID) ([]model.EntranceFee, error)
	ListMeals(ctx context.Context, agencyID uuid.UUID, ids []uuid.UUID) ([]model.Meal, error)
	ListRestaurants(ctx context.Context, agencyID uuid.UUID, ids []uuid.UUID) ([]model.Restaurant, error)
	ListExtraServices(ctx context.Context, agencyID uuid.UUID, ids []uuid.UUID) ([]model.ExtraService, error)
	ListItems(ctx context.Context, agencyID uuid.UUID, ids []uuid.UUID) ([]model.ListItem, error)
	ListTransportationFees(ctx context.Context, agencyID uuid.UUID) ([]model.TransportationFee, error)
}

// QuotationStore persists quotation line items. Satisfied by
// repository.QuotationRepository.
type QuotationStore interface {
	ReplaceRouteEntries(ctx context.Context, agencyID, quotationID uuid.UUID, entries []model.RouteEntry) error
	ListRouteEntries(ctx context.Context, agencyID, quotationID uuid.UUID) ([]model.RouteEntry, error)
	SaveAccommodation(ctx context.Context, agencyID, quotationID uuid.UUID, saves []model.AccommodationOptionSave) error
	ListAccommodationOptions(ctx context.Context, agencyID, quotationID uuid.UUID) ([]model.AccommodationOption, error)
}

// Cache is the read-through cache in front of the season-rate tree.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	DelByPrefix(ctx context.Context, prefix string) error
}
