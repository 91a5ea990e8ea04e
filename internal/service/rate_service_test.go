package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/tourquote/internal/model"
	"github.com/nurpe/tourquote/internal/pricing"
)

type fakeRateStore struct {
	contracts map[uuid.UUID]model.Contract
	seasons   map[uuid.UUID]model.Season
	rates     map[uuid.UUID]model.Rate
	treeCalls int
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{
		contracts: map[uuid.UUID]model.Contract{},
		seasons:   map[uuid.UUID]model.Season{},
		rates:     map[uuid.UUID]model.Rate{},
	}
}

func (f *fakeRateStore) GetContract(_ context.Context, agencyID, id uuid.UUID) (*model.Contract, error) {
	c, ok := f.contracts[id]
	if !ok || c.AgencyID != agencyID {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (f *fakeRateStore) ListContractsForHotel(_ context.Context, agencyID, hotelID uuid.UUID) ([]model.Contract, error) {
	var out []model.Contract
	for _, c := range f.contracts {
		if c.AgencyID == agencyID && c.HotelID == hotelID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRateStore) CreateContract(_ context.Context, contract model.Contract) (*model.Contract, error) {
	contract.ID = uuid.New()
	contract.CreatedAt = time.Now()
	f.contracts[contract.ID] = contract
	return &contract, nil
}

func (f *fakeRateStore) UpdateContract(_ context.Context, contract model.Contract) error {
	if _, ok := f.contracts[contract.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.contracts[contract.ID] = contract
	return nil
}

func (f *fakeRateStore) DeleteContract(_ context.Context, agencyID, id uuid.UUID) error {
	c, ok := f.contracts[id]
	if !ok || c.AgencyID != agencyID {
		return gorm.ErrRecordNotFound
	}
	delete(f.contracts, id)
	return nil
}

func (f *fakeRateStore) GetSeason(_ context.Context, agencyID, id uuid.UUID) (*model.Season, error) {
	s, ok := f.seasons[id]
	if !ok || s.AgencyID != agencyID {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (f *fakeRateStore) CreateSeason(_ context.Context, season model.Season) (*model.Season, error) {
	season.ID = uuid.New()
	season.CreatedAt = time.Now()
	f.seasons[season.ID] = season
	return &season, nil
}

func (f *fakeRateStore) UpdateSeason(_ context.Context, season model.Season) error {
	if _, ok := f.seasons[season.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.seasons[season.ID] = season
	return nil
}

func (f *fakeRateStore) DeleteSeason(_ context.Context, agencyID, id uuid.UUID) error {
	s, ok := f.seasons[id]
	if !ok || s.AgencyID != agencyID {
		return gorm.ErrRecordNotFound
	}
	delete(f.seasons, id)
	return nil
}

func (f *fakeRateStore) GetRate(_ context.Context, agencyID, id uuid.UUID) (*model.Rate, error) {
	r, ok := f.rates[id]
	if !ok || r.AgencyID != agencyID {
		return nil, gorm.ErrRecordNotFound
	}
	return &r, nil
}

func (f *fakeRateStore) CreateRate(_ context.Context, rate model.Rate) (*model.Rate, error) {
	rate.ID = uuid.New()
	rate.CreatedAt = time.Now()
	f.rates[rate.ID] = rate
	return &rate, nil
}

func (f *fakeRateStore) UpdateRate(_ context.Context, rate model.Rate) error {
	if _, ok := f.rates[rate.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.rates[rate.ID] = rate
	return nil
}

func (f *fakeRateStore) DeleteRate(_ context.Context, agencyID, id uuid.UUID) error {
	r, ok := f.rates[id]
	if !ok || r.AgencyID != agencyID {
		return gorm.ErrRecordNotFound
	}
	delete(f.rates, id)
	return nil
}

func (f *fakeRateStore) ListSeasonRatesForHotel(_ context.Context, agencyID, hotelID uuid.UUID, stay model.Window) ([]model.SeasonRates, error) {
	var out []model.SeasonRates
	for _, s := range f.seasons {
		if s.AgencyID != agencyID || s.HotelID != hotelID || !s.Window.Overlaps(stay) {
			continue
		}
		sr := model.SeasonRates{Season: s}
		for _, r := range f.rates {
			if r.SeasonID == s.ID {
				sr.Rates = append(sr.Rates, r)
			}
		}
		out = append(out, sr)
	}
	return out, nil
}

func (f *fakeRateStore) SeasonRateTree(_ context.Context, _ uuid.UUID, _, _ time.Time, _ model.SeasonRateFilter) ([]model.HotelSeasonRates, error) {
	f.treeCalls++
	return []model.HotelSeasonRates{{Hotel: model.Hotel{Name: "Grand Sayat"}}}, nil
}

type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string][]byte{}} }

func (f *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (f *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeCache) DelByPrefix(_ context.Context, prefix string) error {
	for key := range f.entries {
		if strings.HasPrefix(key, prefix) {
			delete(f.entries, key)
		}
	}
	return nil
}

func testPrincipal() model.Principal {
	return model.Principal{UserID: uuid.New(), AgencyID: uuid.New(), Role: "manager"}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateContractRejectsOverlap(t *testing.T) {
	store := newFakeRateStore()
	svc := NewRateService(store, nil, 0)
	principal := testPrincipal()
	hotelID := uuid.New()

	first, err := svc.CreateContract(context.Background(), principal, ContractInput{
		HotelID: hotelID,
		Window:  model.Window{Start: day(2026, 1, 1), End: day(2026, 6, 30)},
	})
	require.NoError(t, err)

	_, err = svc.CreateContract(context.Background(), principal, ContractInput{
		HotelID: hotelID,
		Window:  model.Window{Start: day(2026, 6, 30), End: day(2026, 12, 31)},
	})
	require.ErrorIs(t, err, pricing.ErrOverlappingContract)
	var conflict *pricing.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first.ID, conflict.ConflictingID)

	// Adjacent with no shared day is fine.
	_, err = svc.CreateContract(context.Background(), principal, ContractInput{
		HotelID: hotelID,
		Window:  model.Window{Start: day(2026, 7, 1), End: day(2026, 12, 31)},
	})
	require.NoError(t, err)
}

func TestUpdateContractIgnoresOwnWindow(t *testing.T) {
	store := newFakeRateStore()
	svc := NewRateService(store, nil, 0)
	principal := testPrincipal()
	hotelID := uuid.New()

	created, err := svc.CreateContract(context.Background(), principal, ContractInput{
		HotelID: hotelID,
		Window:  model.Window{Start: day(2026, 1, 1), End: day(2026, 3, 31)},
	})
	require.NoError(t, err)

	// Shrinking within the contract's own span must not conflict with itself.
	updated, err := svc.UpdateContract(context.Background(), principal, created.ID, ContractInput{
		Window: model.Window{Start: day(2026, 1, 15), End: day(2026, 3, 15)},
	})
	require.NoError(t, err)
	assert.Equal(t, day(2026, 1, 15), updated.Window.Start)
}

func TestRateWritesFrozenAfterSeasonExpiry(t *testing.T) {
	store := newFakeRateStore()
	svc := NewRateService(store, nil, 0)
	svc.now = func() time.Time { return day(2025, 2, 1) }
	principal := testPrincipal()

	season, err := svc.CreateSeason(context.Background(), principal, SeasonInput{
		HotelID: uuid.New(),
		NameID:  uuid.New(),
		Window:  model.Window{Start: day(2025, 1, 1), End: day(2025, 3, 31)},
	})
	require.NoError(t, err)

	rate, err := svc.CreateRate(context.Background(), principal, season.ID, RateInput{
		RoomTypeID: uuid.New(),
		Amount:     90,
	})
	require.NoError(t, err)

	// Clock moves past the season's last day.
	svc.now = func() time.Time { return day(2025, 4, 1).Add(8 * time.Hour) }

	_, err = svc.CreateRate(context.Background(), principal, season.ID, RateInput{RoomTypeID: uuid.New(), Amount: 80})
	require.ErrorIs(t, err, pricing.ErrExpiredSeason)

	_, err = svc.UpdateRate(context.Background(), principal, rate.ID, RateInput{RoomTypeID: rate.RoomTypeID, Amount: 95})
	require.ErrorIs(t, err, pricing.ErrExpiredSeason)

	err = svc.DeleteRate(context.Background(), principal, rate.ID)
	require.ErrorIs(t, err, pricing.ErrExpiredSeason)

	// The season record itself stays editable.
	_, err = svc.UpdateSeason(context.Background(), principal, season.ID, SeasonInput{
		HotelID: season.HotelID,
		NameID:  season.NameID,
		Window:  model.Window{Start: day(2025, 1, 1), End: day(2025, 4, 30)},
	})
	require.NoError(t, err)
}

func TestRateWindowMustFitSeason(t *testing.T) {
	store := newFakeRateStore()
	svc := NewRateService(store, nil, 0)
	svc.now = func() time.Time { return day(2026, 1, 1) }
	principal := testPrincipal()

	season, err := svc.CreateSeason(context.Background(), principal, SeasonInput{
		HotelID: uuid.New(),
		NameID:  uuid.New(),
		Window:  model.Window{Start: day(2026, 6, 1), End: day(2026, 8, 31)},
	})
	require.NoError(t, err)

	_, err = svc.CreateRate(context.Background(), principal, season.ID, RateInput{
		RoomTypeID: uuid.New(),
		Window:     &model.Window{Start: day(2026, 5, 15), End: day(2026, 7, 1)},
		Amount:     120,
	})
	require.ErrorIs(t, err, pricing.ErrRateOutsideSeason)

	// No explicit window inherits the season's.
	rate, err := svc.CreateRate(context.Background(), principal, season.ID, RateInput{
		RoomTypeID: uuid.New(),
		Amount:     120,
	})
	require.NoError(t, err)
	assert.Nil(t, rate.Window)
}

func TestSeasonRateTreeCacheRoundTrip(t *testing.T) {
	store := newFakeRateStore()
	cache := newFakeCache()
	svc := NewRateService(store, cache, 300)
	svc.now = func() time.Time { return day(2026, 1, 1) }
	principal := testPrincipal()

	arrival, departure := day(2026, 7, 1), day(2026, 7, 8)

	_, err := svc.SeasonRateTree(context.Background(), principal, arrival, departure, model.SeasonRateFilter{})
	require.NoError(t, err)
	_, err = svc.SeasonRateTree(context.Background(), principal, arrival, departure, model.SeasonRateFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, store.treeCalls, "second read must come from cache")

	// A season write drops the agency's cached trees.
	_, err = svc.CreateSeason(context.Background(), principal, SeasonInput{
		HotelID: uuid.New(),
		NameID:  uuid.New(),
		Window:  model.Window{Start: day(2026, 7, 1), End: day(2026, 7, 31)},
	})
	require.NoError(t, err)

	_, err = svc.SeasonRateTree(context.Background(), principal, arrival, departure, model.SeasonRateFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, store.treeCalls)
}

func TestSeasonRateTreeRejectsInvertedStay(t *testing.T) {
	svc := NewRateService(newFakeRateStore(), nil, 0)
	_, err := svc.SeasonRateTree(context.Background(), testPrincipal(), day(2026, 7, 8), day(2026, 7, 1), model.SeasonRateFilter{})
	require.ErrorIs(t, err, pricing.ErrInvalidStay)
}

func TestPriceStay(t *testing.T) {
	store := newFakeRateStore()
	svc := NewRateService(store, nil, 0)
	svc.now = func() time.Time { return day(2026, 1, 1) }
	principal := testPrincipal()
	hotelID := uuid.New()
	roomTypeID := uuid.New()

	season, err := svc.CreateSeason(context.Background(), principal, SeasonInput{
		HotelID: hotelID,
		NameID:  uuid.New(),
		Window:  model.Window{Start: day(2026, 7, 1), End: day(2026, 7, 31)},
	})
	require.NoError(t, err)
	_, err = svc.CreateRate(context.Background(), principal, season.ID, RateInput{RoomTypeID: roomTypeID, Amount: 110})
	require.NoError(t, err)

	summary, err := svc.PriceStay(context.Background(), principal, hotelID, roomTypeID, day(2026, 7, 10), day(2026, 7, 14))
	require.NoError(t, err)
	assert.Equal(t, 4, len(summary.PerNight))
	assert.Equal(t, 0, summary.UnresolvedCount)
	assert.InDelta(t, 440, summary.Total, 0.001)
}

func TestContractNotFoundMapped(t *testing.T) {
	svc := NewRateService(newFakeRateStore(), nil, 0)
	_, err := svc.UpdateContract(context.Background(), testPrincipal(), uuid.New(), ContractInput{
		Window: model.Window{Start: day(2026, 1, 1), End: day(2026, 2, 1)},
	})
	require.ErrorIs(t, err, ErrNotFound)
}
