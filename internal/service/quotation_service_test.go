package service

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/tourquote/internal/model"
)

type fakeCatalogStore struct {
	quotations  map[uuid.UUID]model.Quotation
	places      map[uuid.UUID]model.Place
	fees        []model.EntranceFee
	meals       map[uuid.UUID]model.Meal
	restaurants map[uuid.UUID]model.Restaurant
	services    map[uuid.UUID]model.ExtraService
	items       map[uuid.UUID]model.ListItem
	transport   []model.TransportationFee
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{
		quotations:  map[uuid.UUID]model.Quotation{},
		places:      map[uuid.UUID]model.Place{},
		meals:       map[uuid.UUID]model.Meal{},
		restaurants: map[uuid.UUID]model.Restaurant{},
		services:    map[uuid.UUID]model.ExtraService{},
		items:       map[uuid.UUID]model.ListItem{},
	}
}

func (f *fakeCatalogStore) GetQuotation(_ context.Context, agencyID, id uuid.UUID) (*model.Quotation, error) {
	q, ok := f.quotations[id]
	if !ok || q.AgencyID != agencyID {
		return nil, gorm.ErrRecordNotFound
	}
	return &q, nil
}

func (f *fakeCatalogStore) ListPlaces(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]model.Place, error) {
	var out []model.Place
	for _, id := range ids {
		if p, ok := f.places[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) ListEntranceFees(_ context.Context, placeIDs []uuid.UUID) ([]model.EntranceFee, error) {
	wanted := map[uuid.UUID]bool{}
	for _, id := range placeIDs {
		wanted[id] = true
	}
	var out []model.EntranceFee
	for _, fee := range f.fees {
		if wanted[fee.PlaceID] {
			out = append(out, fee)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) ListMeals(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]model.Meal, error) {
	var out []model.Meal
	for _, id := range ids {
		if m, ok := f.meals[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) ListRestaurants(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]model.Restaurant, error) {
	var out []model.Restaurant
	for _, id := range ids {
		if r, ok := f.restaurants[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) ListExtraServices(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]model.ExtraService, error) {
	var out []model.ExtraService
	for _, id := range ids {
		if s, ok := f.services[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) ListItems(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]model.ListItem, error) {
	var out []model.ListItem
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) ListTransportationFees(_ context.Context, _ uuid.UUID) ([]model.TransportationFee, error) {
	return f.transport, nil
}

type fakeQuotationStore struct {
	entries map[uuid.UUID][]model.RouteEntry
	options map[uuid.UUID][]model.AccommodationOption
}

func newFakeQuotationStore() *fakeQuotationStore {
	return &fakeQuotationStore{
		entries: map[uuid.UUID][]model.RouteEntry{},
		options: map[uuid.UUID][]model.AccommodationOption{},
	}
}

func (f *fakeQuotationStore) ReplaceRouteEntries(_ context.Context, agencyID, quotationID uuid.UUID, entries []model.RouteEntry) error {
	stored := make([]model.RouteEntry, len(entries))
	for i, e := range entries {
		e.ID = uuid.New()
		e.AgencyID = agencyID
		e.QuotationID = quotationID
		stored[i] = e
	}
	f.entries[quotationID] = stored
	return nil
}

func (f *fakeQuotationStore) ListRouteEntries(_ context.Context, _, quotationID uuid.UUID) ([]model.RouteEntry, error) {
	src := f.entries[quotationID]
	out := make([]model.RouteEntry, len(src))
	copy(out, src)
	return out, nil
}

func (f *fakeQuotationStore) SaveAccommodation(_ context.Context, agencyID, quotationID uuid.UUID, saves []model.AccommodationOptionSave) error {
	options := f.options[quotationID]
	for _, save := range saves {
		idx := -1
		for i := range options {
			if options[i].OptionID == save.Option.OptionID {
				idx = i
				break
			}
		}
		if idx < 0 {
			options = append(options, model.AccommodationOption{
				AgencyID:    agencyID,
				QuotationID: quotationID,
				OptionID:    save.Option.OptionID,
			})
			idx = len(options) - 1
		}
		options[idx].Name = save.Option.Name
		options[idx].SortOrder = save.Option.SortOrder

		dropHotel := map[uuid.UUID]bool{}
		for _, id := range save.Deletes.HotelIDs {
			dropHotel[id] = true
		}
		dropRate := map[uuid.UUID]bool{}
		for _, id := range save.Deletes.RateIDs {
			dropRate[id] = true
		}
		kept := options[idx].Rooms[:0]
		for _, room := range options[idx].Rooms {
			if !dropHotel[room.HotelID] && !dropRate[room.RateID] {
				kept = append(kept, room)
			}
		}
		options[idx].Rooms = kept

		for _, room := range save.Option.Rooms {
			room.AgencyID = agencyID
			room.QuotationID = quotationID
			room.OptionID = save.Option.OptionID
			replaced := false
			for i := range options[idx].Rooms {
				if options[idx].Rooms[i].SeasonID == room.SeasonID && options[idx].Rooms[i].RateID == room.RateID {
					options[idx].Rooms[i] = room
					replaced = true
					break
				}
			}
			if !replaced {
				options[idx].Rooms = append(options[idx].Rooms, room)
			}
		}
	}
	f.options[quotationID] = options
	return nil
}

func (f *fakeQuotationStore) ListAccommodationOptions(_ context.Context, _, quotationID uuid.UUID) ([]model.AccommodationOption, error) {
	src := f.options[quotationID]
	out := make([]model.AccommodationOption, len(src))
	copy(out, src)
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

type stubGenerator struct {
	payload []byte
	lastDoc model.QuoteDocument
}

func (g *stubGenerator) Generate(doc model.QuoteDocument) ([]byte, error) {
	g.lastDoc = doc
	return g.payload, nil
}

type builderFixture struct {
	svc       *QuotationService
	catalog   *fakeCatalogStore
	quotes    *fakeQuotationStore
	excel     *stubGenerator
	pdf       *stubGenerator
	principal model.Principal
	quotation model.Quotation
}

func newBuilderFixture(t *testing.T) *builderFixture {
	t.Helper()
	catalog := newFakeCatalogStore()
	quotes := newFakeQuotationStore()
	excel := &stubGenerator{payload: []byte("xlsx")}
	pdf := &stubGenerator{payload: []byte("pdf")}
	principal := testPrincipal()
	countryID := uuid.New()
	quotation := model.Quotation{
		ID:        uuid.New(),
		AgencyID:  principal.AgencyID,
		ClientID:  uuid.New(),
		Arrival:   day(2026, 7, 1),
		Departure: day(2026, 7, 8),
		GroupName: "Alpine Circle / July",
		CountryID: &countryID,
		Active:    true,
	}
	catalog.quotations[quotation.ID] = quotation
	return &builderFixture{
		svc:       NewQuotationService(quotes, catalog, excel, pdf),
		catalog:   catalog,
		quotes:    quotes,
		excel:     excel,
		pdf:       pdf,
		principal: principal,
		quotation: quotation,
	}
}

func TestSaveStep1ReadYourWrite(t *testing.T) {
	fx := newBuilderFixture(t)
	ctx := context.Background()

	fortress := model.Place{ID: uuid.New(), Name: "Old Fortress"}
	museum := model.Place{ID: uuid.New(), Name: "City Museum"}
	fx.catalog.places[fortress.ID] = fortress
	fx.catalog.places[museum.ID] = museum
	// The fortress has a fee for the traveller country; the museum does not.
	fx.catalog.fees = append(fx.catalog.fees, model.EntranceFee{
		ID: uuid.New(), PlaceID: fortress.ID, CountryID: *fx.quotation.CountryID, Amount: 12,
	})
	route := model.ListItem{ID: uuid.New(), Category: model.ListCategoryRoute, Name: "Capital Loop"}
	fx.catalog.items[route.ID] = route
	lunch := model.Meal{ID: uuid.New(), Name: "Lunch"}
	fx.catalog.meals[lunch.ID] = lunch
	tavern := model.Restaurant{ID: uuid.New(), Name: "Riverside Tavern"}
	fx.catalog.restaurants[tavern.ID] = tavern

	saved, err := fx.svc.SaveStep1(ctx, fx.principal, fx.quotation.ID, []model.RouteEntry{{
		Date:                 day(2026, 7, 1),
		RouteID:              route.ID,
		TransportationType:   "bus",
		TransportationAmount: 150,
		Places: []model.PlaceVisit{
			{PlaceID: fortress.ID, EntranceFeePP: 12},
			{PlaceID: museum.ID},
		},
		Meals: []model.MealSelection{
			{MealID: lunch.ID, RestaurantID: tavern.ID, AmountPP: 18},
		},
	}})
	require.NoError(t, err)
	require.Len(t, saved, 1)

	entry := saved[0]
	assert.Equal(t, "Capital Loop", entry.RouteName)
	require.Len(t, entry.Places, 2)
	assert.Equal(t, "Old Fortress", entry.Places[0].PlaceName)
	assert.False(t, entry.Places[0].NoFeeConfigured)
	assert.Equal(t, "City Museum", entry.Places[1].PlaceName)
	assert.True(t, entry.Places[1].NoFeeConfigured, "missing fee is flagged, not an error")
	require.Len(t, entry.Meals, 1)
	assert.Equal(t, "Lunch", entry.Meals[0].MealName)
	assert.Equal(t, "Riverside Tavern", entry.Meals[0].RestaurantName)
}

func TestEntranceFeesPricedFromCatalog(t *testing.T) {
	fx := newBuilderFixture(t)
	ctx := context.Background()

	ruins := model.Place{ID: uuid.New(), Name: "Hilltop Ruins"}
	fx.catalog.places[ruins.ID] = ruins

	// The payload claims a fee, but the catalogue has none configured
	// for the traveller country. The stored amount must not leak into
	// the read or the totals.
	saved, err := fx.svc.SaveStep1(ctx, fx.principal, fx.quotation.ID, []model.RouteEntry{{
		Date:    day(2026, 7, 2),
		RouteID: uuid.New(),
		Places: []model.PlaceVisit{
			{PlaceID: ruins.ID, EntranceFeePP: 50},
		},
	}})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	require.Len(t, saved[0].Places, 1)
	assert.True(t, saved[0].Places[0].NoFeeConfigured)
	assert.Zero(t, saved[0].Places[0].EntranceFeePP)

	_, err = fx.svc.SaveAccommodation(ctx, fx.principal, fx.quotation.ID, []model.AccommodationOptionSave{{
		Option: model.AccommodationOption{OptionID: 1, Name: "Standard"},
	}})
	require.NoError(t, err)

	totals, err := fx.svc.Totals(ctx, fx.principal, fx.quotation.ID, 1)
	require.NoError(t, err)
	assert.Zero(t, totals.EntranceFees)
}

func TestSaveStep1EmptyPayloadClears(t *testing.T) {
	fx := newBuilderFixture(t)
	ctx := context.Background()

	_, err := fx.svc.SaveStep1(ctx, fx.principal, fx.quotation.ID, []model.RouteEntry{
		{Date: day(2026, 7, 1), RouteID: uuid.New()},
		{Date: day(2026, 7, 2), RouteID: uuid.New()},
	})
	require.NoError(t, err)

	cleared, err := fx.svc.SaveStep1(ctx, fx.principal, fx.quotation.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, cleared)
}

func TestSaveStep1GuardsQuotationState(t *testing.T) {
	fx := newBuilderFixture(t)
	ctx := context.Background()

	_, err := fx.svc.SaveStep1(ctx, fx.principal, uuid.New(), nil)
	require.ErrorIs(t, err, ErrNotFound)

	inactive := fx.quotation
	inactive.Active = false
	fx.catalog.quotations[inactive.ID] = inactive
	_, err = fx.svc.SaveStep1(ctx, fx.principal, inactive.ID, nil)
	require.ErrorIs(t, err, ErrQuotationInactive)

	// A foreign agency must not see the quotation at all.
	other := testPrincipal()
	_, err = fx.svc.SaveStep1(ctx, other, fx.quotation.ID, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSaveAccommodationIdempotentAndScoped(t *testing.T) {
	fx := newBuilderFixture(t)
	ctx := context.Background()

	hotelA, hotelB := uuid.New(), uuid.New()
	lineA := model.RoomLine{HotelID: hotelA, SeasonID: uuid.New(), RateID: uuid.New(), Nights: 3, Guests: 2, RateAmount: 100}
	lineB := model.RoomLine{HotelID: hotelB, SeasonID: uuid.New(), RateID: uuid.New(), Nights: 3, Guests: 2, RateAmount: 140}
	save := []model.AccommodationOptionSave{
		{Option: model.AccommodationOption{OptionID: 1, Name: "Standard", SortOrder: 1, Rooms: []model.RoomLine{lineA, lineB}}},
		{Option: model.AccommodationOption{OptionID: 2, Name: "Comfort", SortOrder: 2, Rooms: []model.RoomLine{lineB}}},
	}

	first, err := fx.svc.SaveAccommodation(ctx, fx.principal, fx.quotation.ID, save)
	require.NoError(t, err)
	second, err := fx.svc.SaveAccommodation(ctx, fx.principal, fx.quotation.ID, save)
	require.NoError(t, err)
	assert.Equal(t, first, second, "resubmitting the same batch changes nothing")

	// Dropping hotel A from option 1 leaves option 2 untouched.
	_, err = fx.svc.SaveAccommodation(ctx, fx.principal, fx.quotation.ID, []model.AccommodationOptionSave{{
		Option:  model.AccommodationOption{OptionID: 1, Name: "Standard", SortOrder: 1},
		Deletes: model.AccommodationDeletes{HotelIDs: []uuid.UUID{hotelA}},
	}})
	require.NoError(t, err)

	options, err := fx.svc.GetAccommodation(ctx, fx.principal, fx.quotation.ID)
	require.NoError(t, err)
	require.Len(t, options, 2)
	require.Len(t, options[0].Rooms, 1)
	assert.Equal(t, hotelB, options[0].Rooms[0].HotelID)
	require.Len(t, options[1].Rooms, 1)
	assert.Equal(t, hotelB, options[1].Rooms[0].HotelID)
}

func TestTotals(t *testing.T) {
	fx := newBuilderFixture(t)
	ctx := context.Background()

	place := model.Place{ID: uuid.New(), Name: "Old Fortress"}
	fx.catalog.places[place.ID] = place
	fx.catalog.fees = append(fx.catalog.fees, model.EntranceFee{
		ID: uuid.New(), PlaceID: place.ID, CountryID: *fx.quotation.CountryID, Amount: 12,
	})

	_, err := fx.svc.SaveStep1(ctx, fx.principal, fx.quotation.ID, []model.RouteEntry{{
		Date:                 day(2026, 7, 1),
		RouteID:              uuid.New(),
		TransportationType:   "bus",
		TransportationAmount: 150,
		Places: []model.PlaceVisit{
			{PlaceID: place.ID, EntranceFeePP: 12, GuideCost: 40},
		},
		Meals: []model.MealSelection{
			{MealID: uuid.New(), RestaurantID: uuid.New(), AmountPP: 18},
		},
		ExtraServices: []model.ExtraServiceSelection{
			{ServiceID: uuid.New(), CostPP: 5},
		},
	}})
	require.NoError(t, err)

	_, err = fx.svc.SaveAccommodation(ctx, fx.principal, fx.quotation.ID, []model.AccommodationOptionSave{{
		Option: model.AccommodationOption{OptionID: 1, Name: "Standard", Rooms: []model.RoomLine{
			{HotelID: uuid.New(), SeasonID: uuid.New(), RateID: uuid.New(), Nights: 3, Guests: 2, RateAmount: 100},
		}},
	}})
	require.NoError(t, err)

	totals, err := fx.svc.Totals(ctx, fx.principal, fx.quotation.ID, 1)
	require.NoError(t, err)
	assert.InDelta(t, 12, totals.EntranceFees, 0.001)
	assert.InDelta(t, 40, totals.GuideCosts, 0.001)
	assert.InDelta(t, 18, totals.MealCosts, 0.001)
	assert.InDelta(t, 5, totals.ExtraServiceCosts, 0.001)
	assert.InDelta(t, 150, totals.Transportation, 0.001)
	assert.InDelta(t, 300, totals.Accommodation, 0.001)
	assert.InDelta(t, 525, totals.GrandTotal, 0.001)

	_, err = fx.svc.Totals(ctx, fx.principal, fx.quotation.ID, 9)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestExportFileNames(t *testing.T) {
	fx := newBuilderFixture(t)
	ctx := context.Background()

	_, err := fx.svc.SaveAccommodation(ctx, fx.principal, fx.quotation.ID, []model.AccommodationOptionSave{{
		Option: model.AccommodationOption{OptionID: 1, Name: "Standard"},
	}})
	require.NoError(t, err)

	xlsx, err := fx.svc.ExportExcel(ctx, fx.principal, fx.quotation.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "quote-Alpine-Circle---July-20260701-20260708.xlsx", xlsx.FileName)
	assert.Equal(t, []byte("xlsx"), xlsx.Content)
	assert.Equal(t, fx.quotation.ID, fx.excel.lastDoc.Quotation.ID)

	pdf, err := fx.svc.ExportPDF(ctx, fx.principal, fx.quotation.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "quote-Alpine-Circle---July-20260701-20260708.pdf", pdf.FileName)
}
