package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/tourquote/internal/http/middleware"
	"github.com/nurpe/tourquote/internal/model"
	"github.com/nurpe/tourquote/internal/pricing"
	"github.com/nurpe/tourquote/internal/service"
)

type Handler struct {
	rates      *service.RateService
	quotations *service.QuotationService
	log        zerolog.Logger
}

func NewHandler(rates *service.RateService, quotations *service.QuotationService, log zerolog.Logger) *Handler {
	return &Handler{rates: rates, quotations: quotations, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/season-rates", h.seasonRates)
	protected.GET("/hotels/:hotelId/stay-price", h.stayPrice)

	protected.POST("/hotels/:hotelId/contracts", h.createContract)
	protected.PUT("/contracts/:id", h.updateContract)
	protected.DELETE("/contracts/:id", h.deleteContract)

	protected.POST("/hotels/:hotelId/seasons", h.createSeason)
	protected.PUT("/seasons/:id", h.updateSeason)
	protected.DELETE("/seasons/:id", h.deleteSeason)

	protected.POST("/seasons/:seasonId/rates", h.createRate)
	protected.PUT("/rates/:id", h.updateRate)
	protected.DELETE("/rates/:id", h.deleteRate)

	protected.POST("/quotations/step1", h.saveStep1)
	protected.GET("/quotations/:id/step1", h.getStep1)
	protected.POST("/quotations/:id/accommodation", h.saveAccommodation)
	protected.GET("/quotations/:id/accommodation", h.getAccommodation)
	protected.GET("/quotations/:id/totals", h.totals)
	protected.POST("/quotations/:id/export", h.exportExcel)
	protected.POST("/quotations/:id/export/pdf", h.exportPDF)

	protected.GET("/transportation-fees/options", h.transportationOptions)
}

func (h *Handler) seasonRates(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	arrival, err := parseDate(c.Query("arrival_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid arrival_date"})
		return
	}
	departure, err := parseDate(c.Query("departure_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departure_date"})
		return
	}

	var filter model.SeasonRateFilter
	if raw := strings.TrimSpace(c.Query("hotel_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hotel_id"})
			return
		}
		filter.HotelID = &id
	}
	if raw := strings.TrimSpace(c.Query("area_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid area_id"})
			return
		}
		filter.AreaID = &id
	}
	if raw := strings.TrimSpace(c.Query("chain_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chain_id"})
			return
		}
		filter.ChainID = &id
	}
	if raw := strings.TrimSpace(c.Query("stars")); raw != "" {
		stars, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stars"})
			return
		}
		filter.Stars = &stars
	}

	tree, err := h.rates.SeasonRateTree(c.Request.Context(), principal, arrival, departure, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hotels": tree})
}

func (h *Handler) stayPrice(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	hotelID, err := uuid.Parse(c.Param("hotelId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hotel id"})
		return
	}
	roomTypeID, err := uuid.Parse(strings.TrimSpace(c.Query("room_type_id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room_type_id"})
		return
	}
	arrival, err := parseDate(c.Query("arrival_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid arrival_date"})
		return
	}
	departure, err := parseDate(c.Query("departure_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departure_date"})
		return
	}

	summary, err := h.rates.PriceStay(c.Request.Context(), principal, hotelID, roomTypeID, arrival, departure)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type contractRequest struct {
	StartDate     string  `json:"start_date" binding:"required"`
	EndDate       string  `json:"end_date" binding:"required"`
	AttachmentRef *string `json:"attachment_ref"`
}

func (r contractRequest) toInput(hotelID uuid.UUID) (service.ContractInput, error) {
	window, err := parseWindow(r.StartDate, r.EndDate)
	if err != nil {
		return service.ContractInput{}, err
	}
	return service.ContractInput{HotelID: hotelID, Window: window, AttachmentRef: r.AttachmentRef}, nil
}

func (h *Handler) createContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	hotelID, err := uuid.Parse(c.Param("hotelId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hotel id"})
		return
	}
	var req contractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.toInput(hotelID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract window"})
		return
	}

	contract, err := h.rates.CreateContract(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (h *Handler) updateContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}
	var req contractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.toInput(uuid.Nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract window"})
		return
	}

	contract, err := h.rates.UpdateContract(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) deleteContract(c *gin.Context) {
	h.deleteByID(c, "invalid contract id", h.rates.DeleteContract)
}

type seasonRequest struct {
	NameID    string `json:"name_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

func (r seasonRequest) toInput(hotelID uuid.UUID) (service.SeasonInput, error) {
	nameID, err := uuid.Parse(strings.TrimSpace(r.NameID))
	if err != nil {
		return service.SeasonInput{}, err
	}
	window, err := parseWindow(r.StartDate, r.EndDate)
	if err != nil {
		return service.SeasonInput{}, err
	}
	return service.SeasonInput{HotelID: hotelID, NameID: nameID, Window: window}, nil
}

func (h *Handler) createSeason(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	hotelID, err := uuid.Parse(c.Param("hotelId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hotel id"})
		return
	}
	var req seasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.toInput(hotelID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid season payload"})
		return
	}

	season, err := h.rates.CreateSeason(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, season)
}

func (h *Handler) updateSeason(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid season id"})
		return
	}
	var req seasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.toInput(uuid.Nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid season payload"})
		return
	}

	season, err := h.rates.UpdateSeason(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, season)
}

func (h *Handler) deleteSeason(c *gin.Context) {
	h.deleteByID(c, "invalid season id", h.rates.DeleteSeason)
}

type rateRequest struct {
	RoomTypeID             string   `json:"room_type_id" binding:"required"`
	StartDate              string   `json:"start_date"`
	EndDate                string   `json:"end_date"`
	Amount                 float64  `json:"amount"`
	HalfBoardAmount        *float64 `json:"half_board_amount"`
	FullBoardAmount        *float64 `json:"full_board_amount"`
	SingleSupplementAmount *float64 `json:"single_supplement_amount"`
}

func (r rateRequest) toInput() (service.RateInput, error) {
	roomTypeID, err := uuid.Parse(strings.TrimSpace(r.RoomTypeID))
	if err != nil {
		return service.RateInput{}, err
	}
	input := service.RateInput{
		RoomTypeID:             roomTypeID,
		Amount:                 r.Amount,
		HalfBoardAmount:        r.HalfBoardAmount,
		FullBoardAmount:        r.FullBoardAmount,
		SingleSupplementAmount: r.SingleSupplementAmount,
	}
	// Both bounds or neither; a rate without its own window follows
	// the season's.
	if strings.TrimSpace(r.StartDate) != "" || strings.TrimSpace(r.EndDate) != "" {
		window, err := parseWindow(r.StartDate, r.EndDate)
		if err != nil {
			return service.RateInput{}, err
		}
		input.Window = &window
	}
	return input, nil
}

func (h *Handler) createRate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	seasonID, err := uuid.Parse(c.Param("seasonId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid season id"})
		return
	}
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rate payload"})
		return
	}

	rate, err := h.rates.CreateRate(c.Request.Context(), principal, seasonID, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rate)
}

func (h *Handler) updateRate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rate id"})
		return
	}
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rate payload"})
		return
	}

	rate, err := h.rates.UpdateRate(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

func (h *Handler) deleteRate(c *gin.Context) {
	h.deleteByID(c, "invalid rate id", h.rates.DeleteRate)
}

type saveStep1Request struct {
	QuotationID string              `json:"quotation_id" binding:"required"`
	Entries     []routeEntryPayload `json:"entries"`
}

type routeEntryPayload struct {
	Date                 string                 `json:"date" binding:"required"`
	RouteID              string                 `json:"route_id" binding:"required"`
	TransportationType   string                 `json:"transportation_type"`
	TransportationAmount float64                `json:"transportation_amount"`
	Places               []placeVisitPayload    `json:"places"`
	Meals                []mealSelectionPayload `json:"meals"`
	ExtraServices        []extraServicePayload  `json:"extra_services"`
}

type placeVisitPayload struct {
	PlaceID       string  `json:"place_id" binding:"required"`
	EntranceFeePP float64 `json:"entrance_fee_pp"`
	GuideTypeID   *string `json:"guide_type_id"`
	GuideCost     float64 `json:"guide_cost"`
}

type mealSelectionPayload struct {
	MealID       string  `json:"meal_id" binding:"required"`
	RestaurantID string  `json:"restaurant_id" binding:"required"`
	AmountPP     float64 `json:"amount_pp"`
}

type extraServicePayload struct {
	ServiceID string  `json:"service_id" binding:"required"`
	CostPP    float64 `json:"cost_pp"`
}

func (p routeEntryPayload) toModel() (model.RouteEntry, error) {
	date, err := parseDate(p.Date)
	if err != nil {
		return model.RouteEntry{}, err
	}
	routeID, err := uuid.Parse(strings.TrimSpace(p.RouteID))
	if err != nil {
		return model.RouteEntry{}, err
	}
	entry := model.RouteEntry{
		Date:                 date,
		RouteID:              routeID,
		TransportationType:   p.TransportationType,
		TransportationAmount: p.TransportationAmount,
	}
	for _, place := range p.Places {
		placeID, err := uuid.Parse(strings.TrimSpace(place.PlaceID))
		if err != nil {
			return model.RouteEntry{}, err
		}
		visit := model.PlaceVisit{
			PlaceID:       placeID,
			EntranceFeePP: place.EntranceFeePP,
			GuideCost:     place.GuideCost,
		}
		if place.GuideTypeID != nil {
			guideTypeID, err := uuid.Parse(strings.TrimSpace(*place.GuideTypeID))
			if err != nil {
				return model.RouteEntry{}, err
			}
			visit.GuideTypeID = &guideTypeID
		}
		entry.Places = append(entry.Places, visit)
	}
	for _, meal := range p.Meals {
		mealID, err := uuid.Parse(strings.TrimSpace(meal.MealID))
		if err != nil {
			return model.RouteEntry{}, err
		}
		restaurantID, err := uuid.Parse(strings.TrimSpace(meal.RestaurantID))
		if err != nil {
			return model.RouteEntry{}, err
		}
		entry.Meals = append(entry.Meals, model.MealSelection{
			MealID:       mealID,
			RestaurantID: restaurantID,
			AmountPP:     meal.AmountPP,
		})
	}
	for _, svc := range p.ExtraServices {
		serviceID, err := uuid.Parse(strings.TrimSpace(svc.ServiceID))
		if err != nil {
			return model.RouteEntry{}, err
		}
		entry.ExtraServices = append(entry.ExtraServices, model.ExtraServiceSelection{
			ServiceID: serviceID,
			CostPP:    svc.CostPP,
		})
	}
	return entry, nil
}

func (h *Handler) saveStep1(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	var req saveStep1Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quotationID, err := uuid.Parse(strings.TrimSpace(req.QuotationID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quotation_id"})
		return
	}
	entries := make([]model.RouteEntry, 0, len(req.Entries))
	for _, payload := range req.Entries {
		entry, err := payload.toModel()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid route entry"})
			return
		}
		entries = append(entries, entry)
	}

	saved, err := h.quotations.SaveStep1(c.Request.Context(), principal, quotationID, entries)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": saved})
}

func (h *Handler) getStep1(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quotation id"})
		return
	}

	entries, err := h.quotations.GetStep1(c.Request.Context(), principal, quotationID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

type saveAccommodationRequest struct {
	Options []model.AccommodationOptionSave `json:"options" binding:"required"`
}

func (h *Handler) saveAccommodation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quotation id"})
		return
	}
	var req saveAccommodationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	options, err := h.quotations.SaveAccommodation(c.Request.Context(), principal, quotationID, req.Options)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": options})
}

func (h *Handler) getAccommodation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quotation id"})
		return
	}

	options, err := h.quotations.GetAccommodation(c.Request.Context(), principal, quotationID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": options})
}

func (h *Handler) totals(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quotation id"})
		return
	}
	optionID, err := strconv.Atoi(strings.TrimSpace(c.Query("option_id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid option_id"})
		return
	}

	totals, err := h.quotations.Totals(c.Request.Context(), principal, quotationID, optionID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

func (h *Handler) transportationOptions(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	groups, err := h.quotations.TransportationOptions(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fee_types": groups})
}

type exportRequest struct {
	OptionID int `json:"option_id" binding:"required"`
}

func (h *Handler) exportExcel(c *gin.Context) {
	const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	h.export(c, contentType, h.quotations.ExportExcel)
}

func (h *Handler) exportPDF(c *gin.Context) {
	h.export(c, "application/pdf", h.quotations.ExportPDF)
}

func (h *Handler) export(c *gin.Context, contentType string, generate func(ctx context.Context, principal model.Principal, quotationID uuid.UUID, optionID int) (*service.ExportResult, error)) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quotation id"})
		return
	}
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := generate(c.Request.Context(), principal, quotationID, req.OptionID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}

func (h *Handler) deleteByID(c *gin.Context, invalidMsg string, del func(ctx context.Context, principal model.Principal, id uuid.UUID) error) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidMsg})
		return
	}
	if err := del(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var conflict *pricing.ConflictError
	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error(), "conflicting_id": conflict.ConflictingID})
	case errors.Is(err, pricing.ErrOverlappingContract),
		errors.Is(err, pricing.ErrExpiredSeason),
		errors.Is(err, service.ErrQuotationInactive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, pricing.ErrInvalidWindow),
		errors.Is(err, pricing.ErrRateOutsideSeason),
		errors.Is(err, pricing.ErrInvalidStay),
		errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseWindow(startRaw, endRaw string) (model.Window, error) {
	start, err := parseDate(startRaw)
	if err != nil {
		return model.Window{}, err
	}
	end, err := parseDate(endRaw)
	if err != nil {
		return model.Window{}, err
	}
	return model.Window{Start: start, End: end}, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
