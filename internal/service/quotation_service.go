package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nurpe/tourquote/internal/model"
	"github.com/nurpe/tourquote/internal/pricing"
)

type ExcelGenerator interface {
	Generate(doc model.QuoteDocument) ([]byte, error)
}

type PDFGenerator interface {
	Generate(doc model.QuoteDocument) ([]byte, error)
}

// QuotationService orchestrates the quotation builder: the step-1
// itinerary save, the accommodation options, totals and cost-sheet
// exports. Catalog lookups happen in-process; route data is never
// fetched back over HTTP.
type QuotationService struct {
	quotes  QuotationStore
	catalog CatalogStore
	excel   ExcelGenerator
	pdf     PDFGenerator
}

func NewQuotationService(quotes QuotationStore, catalog CatalogStore, excel ExcelGenerator, pdf PDFGenerator) *QuotationService {
	return &QuotationService{quotes: quotes, catalog: catalog, excel: excel, pdf: pdf}
}

func (s *QuotationService) requireActiveQuotation(ctx context.Context, agencyID, quotationID uuid.UUID) (*model.Quotation, error) {
	quotation, err := s.catalog.GetQuotation(ctx, agencyID, quotationID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if !quotation.Active {
		return nil, ErrQuotationInactive
	}
	return quotation, nil
}

// SaveStep1 replaces the quotation's whole itinerary with the payload
// and answers with the freshly re-read, enriched tree so callers see
// exactly what was stored. An empty payload clears every route day.
func (s *QuotationService) SaveStep1(ctx context.Context, principal model.Principal, quotationID uuid.UUID, entries []model.RouteEntry) ([]model.RouteEntry, error) {
	if _, err := s.requireActiveQuotation(ctx, principal.AgencyID, quotationID); err != nil {
		return nil, err
	}
	if err := s.quotes.ReplaceRouteEntries(ctx, principal.AgencyID, quotationID, entries); err != nil {
		return nil, err
	}
	return s.GetStep1(ctx, principal, quotationID)
}

// GetStep1 reads the stored itinerary and resolves display names and
// entrance-fee availability for the quotation's traveller country.
func (s *QuotationService) GetStep1(ctx context.Context, principal model.Principal, quotationID uuid.UUID) ([]model.RouteEntry, error) {
	quotation, err := s.catalog.GetQuotation(ctx, principal.AgencyID, quotationID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	entries, err := s.quotes.ListRouteEntries(ctx, principal.AgencyID, quotationID)
	if err != nil {
		return nil, err
	}
	if err := s.enrichRouteEntries(ctx, quotation, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *QuotationService) enrichRouteEntries(ctx context.Context, quotation *model.Quotation, entries []model.RouteEntry) error {
	var placeIDs, mealIDs, restaurantIDs, serviceIDs, routeIDs []uuid.UUID
	seen := map[uuid.UUID]bool{}
	collect := func(dst *[]uuid.UUID, id uuid.UUID) {
		if !seen[id] {
			seen[id] = true
			*dst = append(*dst, id)
		}
	}
	for _, entry := range entries {
		collect(&routeIDs, entry.RouteID)
		for _, v := range entry.Places {
			collect(&placeIDs, v.PlaceID)
		}
		for _, m := range entry.Meals {
			collect(&mealIDs, m.MealID)
			collect(&restaurantIDs, m.RestaurantID)
		}
		for _, svc := range entry.ExtraServices {
			collect(&serviceIDs, svc.ServiceID)
		}
	}

	agencyID := quotation.AgencyID

	places, err := s.catalog.ListPlaces(ctx, agencyID, placeIDs)
	if err != nil {
		return err
	}
	placeNames := make(map[uuid.UUID]string, len(places))
	for _, p := range places {
		placeNames[p.ID] = p.Name
	}

	fees, err := s.catalog.ListEntranceFees(ctx, placeIDs)
	if err != nil {
		return err
	}
	feeIndex := pricing.BuildFeeIndex(fees)

	meals, err := s.catalog.ListMeals(ctx, agencyID, mealIDs)
	if err != nil {
		return err
	}
	mealNames := make(map[uuid.UUID]string, len(meals))
	for _, m := range meals {
		mealNames[m.ID] = m.Name
	}

	restaurants, err := s.catalog.ListRestaurants(ctx, agencyID, restaurantIDs)
	if err != nil {
		return err
	}
	restaurantNames := make(map[uuid.UUID]string, len(restaurants))
	for _, r := range restaurants {
		restaurantNames[r.ID] = r.Name
	}

	services, err := s.catalog.ListExtraServices(ctx, agencyID, serviceIDs)
	if err != nil {
		return err
	}
	serviceNames := make(map[uuid.UUID]string, len(services))
	for _, svc := range services {
		serviceNames[svc.ID] = svc.Name
	}

	items, err := s.catalog.ListItems(ctx, agencyID, routeIDs)
	if err != nil {
		return err
	}
	routeNames := make(map[uuid.UUID]string, len(items))
	for _, item := range items {
		routeNames[item.ID] = item.Name
	}

	country := uuid.Nil
	if quotation.CountryID != nil {
		country = *quotation.CountryID
	}

	for i := range entries {
		entries[i].RouteName = routeNames[entries[i].RouteID]
		// The catalogue owns the entrance fee, not the saved payload.
		// A missing fee for the traveller country is a valid state:
		// price it at zero and flag it, don't fail.
		feeLines, _ := pricing.EntranceFees(entries[i].Places, country, feeIndex)
		for j := range entries[i].Places {
			visit := &entries[i].Places[j]
			visit.PlaceName = placeNames[visit.PlaceID]
			visit.EntranceFeePP = feeLines[j].Amount
			visit.NoFeeConfigured = feeLines[j].NoFeeConfigured
		}
		for j := range entries[i].Meals {
			meal := &entries[i].Meals[j]
			meal.MealName = mealNames[meal.MealID]
			meal.RestaurantName = restaurantNames[meal.RestaurantID]
		}
		for j := range entries[i].ExtraServices {
			svc := &entries[i].ExtraServices[j]
			svc.ServiceName = serviceNames[svc.ServiceID]
		}
	}
	return nil
}

// SaveAccommodation upserts the option batch and answers with the
// stored state. Submitting the same payload twice leaves the rows
// unchanged.
func (s *QuotationService) SaveAccommodation(ctx context.Context, principal model.Principal, quotationID uuid.UUID, saves []model.AccommodationOptionSave) ([]model.AccommodationOption, error) {
	if _, err := s.requireActiveQuotation(ctx, principal.AgencyID, quotationID); err != nil {
		return nil, err
	}
	if err := s.quotes.SaveAccommodation(ctx, principal.AgencyID, quotationID, saves); err != nil {
		return nil, err
	}
	return s.quotes.ListAccommodationOptions(ctx, principal.AgencyID, quotationID)
}

func (s *QuotationService) GetAccommodation(ctx context.Context, principal model.Principal, quotationID uuid.UUID) ([]model.AccommodationOption, error) {
	if _, err := s.catalog.GetQuotation(ctx, principal.AgencyID, quotationID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.quotes.ListAccommodationOptions(ctx, principal.AgencyID, quotationID)
}

// Totals prices the quotation against one accommodation option.
func (s *QuotationService) Totals(ctx context.Context, principal model.Principal, quotationID uuid.UUID, optionID int) (model.TotalsBreakdown, error) {
	entries, err := s.GetStep1(ctx, principal, quotationID)
	if err != nil {
		return model.TotalsBreakdown{}, err
	}
	option, err := s.findOption(ctx, principal, quotationID, optionID)
	if err != nil {
		return model.TotalsBreakdown{}, err
	}
	return pricing.QuotationTotals(entries, option), nil
}

func (s *QuotationService) findOption(ctx context.Context, principal model.Principal, quotationID uuid.UUID, optionID int) (*model.AccommodationOption, error) {
	options, err := s.quotes.ListAccommodationOptions(ctx, principal.AgencyID, quotationID)
	if err != nil {
		return nil, err
	}
	for i := range options {
		if options[i].OptionID == optionID {
			return &options[i], nil
		}
	}
	return nil, fmt.Errorf("%w: accommodation option %d", ErrNotFound, optionID)
}

// TransportationOptions shapes the fee catalogue for presentation.
func (s *QuotationService) TransportationOptions(ctx context.Context, principal model.Principal) ([]pricing.TransportationFeeGroup, error) {
	rows, err := s.catalog.ListTransportationFees(ctx, principal.AgencyID)
	if err != nil {
		return nil, err
	}
	return pricing.GroupTransportationFees(rows), nil
}

type ExportResult struct {
	FileName string
	Content  []byte
}

func (s *QuotationService) buildDocument(ctx context.Context, principal model.Principal, quotationID uuid.UUID, optionID int) (*model.QuoteDocument, error) {
	quotation, err := s.catalog.GetQuotation(ctx, principal.AgencyID, quotationID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	entries, err := s.GetStep1(ctx, principal, quotationID)
	if err != nil {
		return nil, err
	}
	option, err := s.findOption(ctx, principal, quotationID, optionID)
	if err != nil {
		return nil, err
	}
	return &model.QuoteDocument{
		Quotation: *quotation,
		Entries:   entries,
		Option:    option,
		Totals:    pricing.QuotationTotals(entries, option),
	}, nil
}

func (s *QuotationService) ExportExcel(ctx context.Context, principal model.Principal, quotationID uuid.UUID, optionID int) (*ExportResult, error) {
	doc, err := s.buildDocument(ctx, principal, quotationID, optionID)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.Generate(*doc)
	if err != nil {
		return nil, err
	}
	return &ExportResult{FileName: s.buildFileName(doc, "xlsx"), Content: content}, nil
}

func (s *QuotationService) ExportPDF(ctx context.Context, principal model.Principal, quotationID uuid.UUID, optionID int) (*ExportResult, error) {
	doc, err := s.buildDocument(ctx, principal, quotationID, optionID)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Generate(*doc)
	if err != nil {
		return nil, err
	}
	return &ExportResult{FileName: s.buildFileName(doc, "pdf"), Content: content}, nil
}

func (s *QuotationService) buildFileName(doc *model.QuoteDocument, ext string) string {
	group := sanitizeFileName(doc.Quotation.GroupName)
	if group == "" {
		group = doc.Quotation.ID.String()
	}
	period := fmt.Sprintf("%s-%s",
		doc.Quotation.Arrival.Format("20060102"),
		doc.Quotation.Departure.Format("20060102"))
	return fmt.Sprintf("quote-%s-%s.%s", group, period, ext)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
