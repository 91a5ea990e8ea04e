package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/tourquote/internal/model"
	"github.com/nurpe/tourquote/internal/pricing"
)

// RateService owns the validity records: contract, season and rate
// writes are gated by the pricing validators, and every season or rate
// write drops the agency's cached season-rate trees.
type RateService struct {
	repo     RateStore
	cache    Cache
	cacheTTL int
	now      func() time.Time
}

func NewRateService(repo RateStore, cache Cache, cacheTTLSecs int) *RateService {
	return &RateService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTLSecs,
		now:      time.Now,
	}
}

type ContractInput struct {
	HotelID       uuid.UUID
	Window        model.Window
	AttachmentRef *string
}

func (s *RateService) CreateContract(ctx context.Context, principal model.Principal, input ContractInput) (*model.Contract, error) {
	candidate := model.Contract{
		AgencyID:      principal.AgencyID,
		HotelID:       input.HotelID,
		Window:        input.Window,
		AttachmentRef: input.AttachmentRef,
	}
	existing, err := s.repo.ListContractsForHotel(ctx, principal.AgencyID, input.HotelID)
	if err != nil {
		return nil, err
	}
	if err := pricing.ValidateContractDoesNotOverlap(candidate, existing); err != nil {
		return nil, err
	}
	return s.repo.CreateContract(ctx, candidate)
}

func (s *RateService) UpdateContract(ctx context.Context, principal model.Principal, id uuid.UUID, input ContractInput) (*model.Contract, error) {
	current, err := s.repo.GetContract(ctx, principal.AgencyID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	current.Window = input.Window
	if input.AttachmentRef != nil {
		current.AttachmentRef = input.AttachmentRef
	}

	existing, err := s.repo.ListContractsForHotel(ctx, principal.AgencyID, current.HotelID)
	if err != nil {
		return nil, err
	}
	if err := pricing.ValidateContractDoesNotOverlap(*current, existing); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateContract(ctx, *current); err != nil {
		return nil, mapNotFound(err)
	}
	return current, nil
}

func (s *RateService) DeleteContract(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	return mapNotFound(s.repo.DeleteContract(ctx, principal.AgencyID, id))
}

type SeasonInput struct {
	HotelID uuid.UUID
	NameID  uuid.UUID
	Window  model.Window
}

func (s *RateService) CreateSeason(ctx context.Context, principal model.Principal, input SeasonInput) (*model.Season, error) {
	// Seasons of one hotel may overlap; only the window itself is
	// checked. The resolver carries the tie-break.
	if err := pricing.ValidateWindow(input.Window); err != nil {
		return nil, err
	}
	season, err := s.repo.CreateSeason(ctx, model.Season{
		AgencyID: principal.AgencyID,
		HotelID:  input.HotelID,
		NameID:   input.NameID,
		Window:   input.Window,
	})
	if err != nil {
		return nil, err
	}
	s.invalidateTrees(ctx, principal.AgencyID)
	return season, nil
}

func (s *RateService) UpdateSeason(ctx context.Context, principal model.Principal, id uuid.UUID, input SeasonInput) (*model.Season, error) {
	if err := pricing.ValidateWindow(input.Window); err != nil {
		return nil, err
	}
	current, err := s.repo.GetSeason(ctx, principal.AgencyID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	current.NameID = input.NameID
	current.Window = input.Window
	if err := s.repo.UpdateSeason(ctx, *current); err != nil {
		return nil, mapNotFound(err)
	}
	s.invalidateTrees(ctx, principal.AgencyID)
	return current, nil
}

func (s *RateService) DeleteSeason(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if err := mapNotFound(s.repo.DeleteSeason(ctx, principal.AgencyID, id)); err != nil {
		return err
	}
	s.invalidateTrees(ctx, principal.AgencyID)
	return nil
}

type RateInput struct {
	RoomTypeID             uuid.UUID
	Window                 *model.Window
	Amount                 float64
	HalfBoardAmount        *float64
	FullBoardAmount        *float64
	SingleSupplementAmount *float64
}

func (s *RateService) CreateRate(ctx context.Context, principal model.Principal, seasonID uuid.UUID, input RateInput) (*model.Rate, error) {
	season, err := s.repo.GetSeason(ctx, principal.AgencyID, seasonID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if err := pricing.EnsureSeasonNotExpired(*season, s.now()); err != nil {
		return nil, err
	}
	if _, err := pricing.RateWindowWithinSeason(*season, input.Window); err != nil {
		return nil, err
	}
	rate, err := s.repo.CreateRate(ctx, model.Rate{
		AgencyID:               principal.AgencyID,
		SeasonID:               seasonID,
		RoomTypeID:             input.RoomTypeID,
		Window:                 input.Window,
		Amount:                 input.Amount,
		HalfBoardAmount:        input.HalfBoardAmount,
		FullBoardAmount:        input.FullBoardAmount,
		SingleSupplementAmount: input.SingleSupplementAmount,
	})
	if err != nil {
		return nil, err
	}
	s.invalidateTrees(ctx, principal.AgencyID)
	return rate, nil
}

func (s *RateService) UpdateRate(ctx context.Context, principal model.Principal, id uuid.UUID, input RateInput) (*model.Rate, error) {
	current, err := s.repo.GetRate(ctx, principal.AgencyID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	season, err := s.repo.GetSeason(ctx, principal.AgencyID, current.SeasonID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if err := pricing.EnsureSeasonNotExpired(*season, s.now()); err != nil {
		return nil, err
	}
	if _, err := pricing.RateWindowWithinSeason(*season, input.Window); err != nil {
		return nil, err
	}

	current.RoomTypeID = input.RoomTypeID
	current.Window = input.Window
	current.Amount = input.Amount
	current.HalfBoardAmount = input.HalfBoardAmount
	current.FullBoardAmount = input.FullBoardAmount
	current.SingleSupplementAmount = input.SingleSupplementAmount
	if err := s.repo.UpdateRate(ctx, *current); err != nil {
		return nil, mapNotFound(err)
	}
	s.invalidateTrees(ctx, principal.AgencyID)
	return current, nil
}

func (s *RateService) DeleteRate(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	current, err := s.repo.GetRate(ctx, principal.AgencyID, id)
	if err != nil {
		return mapNotFound(err)
	}
	season, err := s.repo.GetSeason(ctx, principal.AgencyID, current.SeasonID)
	if err != nil {
		return mapNotFound(err)
	}
	// An expired season freezes its rates against deletion too.
	if err := pricing.EnsureSeasonNotExpired(*season, s.now()); err != nil {
		return err
	}
	if err := mapNotFound(s.repo.DeleteRate(ctx, principal.AgencyID, id)); err != nil {
		return err
	}
	s.invalidateTrees(ctx, principal.AgencyID)
	return nil
}

// SeasonRateTree serves the availability tree through the cache.
func (s *RateService) SeasonRateTree(ctx context.Context, principal model.Principal, arrival, departure time.Time, filter model.SeasonRateFilter) ([]model.HotelSeasonRates, error) {
	if !departure.After(arrival) {
		return nil, pricing.ErrInvalidStay
	}

	key := s.treeKey(principal.AgencyID, arrival, departure, filter)
	var tree []model.HotelSeasonRates
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &tree); ok {
			return tree, nil
		}
	}

	tree, err := s.repo.SeasonRateTree(ctx, principal.AgencyID, arrival, departure, filter)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, tree, s.cacheTTL)
	}
	return tree, nil
}

// PriceStay resolves the hotel's nightly rates for one room type over
// the stay and aggregates them. Nights no season or rate covers come
// back unresolved rather than failing the call.
func (s *RateService) PriceStay(ctx context.Context, principal model.Principal, hotelID, roomTypeID uuid.UUID, arrival, departure time.Time) (*pricing.StaySummary, error) {
	snapshot, err := s.repo.ListSeasonRatesForHotel(ctx, principal.AgencyID, hotelID, model.Window{Start: arrival, End: departure})
	if err != nil {
		return nil, err
	}
	summary, err := pricing.ResolveStay(arrival, departure, snapshot, roomTypeID)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *RateService) treeKey(agencyID uuid.UUID, arrival, departure time.Time, filter model.SeasonRateFilter) string {
	key := fmt.Sprintf("season-rates:%s:%s:%s", agencyID, arrival.Format("2006-01-02"), departure.Format("2006-01-02"))
	if filter.HotelID != nil {
		key += ":h=" + filter.HotelID.String()
	}
	if filter.AreaID != nil {
		key += ":a=" + filter.AreaID.String()
	}
	if filter.ChainID != nil {
		key += ":c=" + filter.ChainID.String()
	}
	if filter.Stars != nil {
		key += fmt.Sprintf(":s=%d", *filter.Stars)
	}
	return key
}

func (s *RateService) invalidateTrees(ctx context.Context, agencyID uuid.UUID) {
	if s.cache == nil {
		return
	}
	_ = s.cache.DelByPrefix(ctx, fmt.Sprintf("season-rates:%s", agencyID))
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
