package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/tourquote/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the quotation cost sheet: a summary with the totals
// breakdown, a per-day itinerary sheet and the room lines of the
// selected accommodation option.
func (g *Generator) Generate(doc model.QuoteDocument) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, doc); err != nil {
		return nil, err
	}

	itinerarySheet := "Itinerary"
	file.NewSheet(itinerarySheet)
	if err := g.writeItinerary(file, itinerarySheet, doc); err != nil {
		return nil, err
	}

	if doc.Option != nil {
		roomSheet := "Accommodation"
		file.NewSheet(roomSheet)
		if err := g.writeRooms(file, roomSheet, *doc.Option); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, doc model.QuoteDocument) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Group")
	set("B1", doc.Quotation.GroupName)
	set("A2", "Arrival")
	set("B2", formatDate(doc.Quotation.Arrival))
	set("A3", "Departure")
	set("B3", formatDate(doc.Quotation.Departure))
	if doc.Option != nil {
		set("A4", "Accommodation option")
		set("B4", doc.Option.Name)
	}

	tableRow := 6
	set(fmt.Sprintf("A%d", tableRow), "Cost item")
	set(fmt.Sprintf("B%d", tableRow), "Amount")

	lines := []struct {
		label  string
		amount float64
	}{
		{"Entrance fees", doc.Totals.EntranceFees},
		{"Guide services", doc.Totals.GuideCosts},
		{"Meals", doc.Totals.MealCosts},
		{"Extra services", doc.Totals.ExtraServiceCosts},
		{"Transportation", doc.Totals.Transportation},
		{"Accommodation", doc.Totals.Accommodation},
	}
	for i, line := range lines {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), line.label)
		set(fmt.Sprintf("B%d", row), line.amount)
	}
	totalRow := tableRow + 1 + len(lines)
	set(fmt.Sprintf("A%d", totalRow), "Grand total")
	set(fmt.Sprintf("B%d", totalRow), doc.Totals.GrandTotal)

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "B", 18)
	return nil
}

func (g *Generator) writeItinerary(file *excelize.File, sheet string, doc model.QuoteDocument) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Date",
		"Route",
		"Transport",
		"Transport cost",
		"Entrance fees",
		"Guide",
		"Meals",
		"Extra services",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, entry := range doc.Entries {
		var fees, guide, meals, services float64
		for _, visit := range entry.Places {
			fees += visit.EntranceFeePP
			guide += visit.GuideCost
		}
		for _, meal := range entry.Meals {
			meals += meal.AmountPP
		}
		for _, svc := range entry.ExtraServices {
			services += svc.CostPP
		}

		row := 2 + i
		set(fmt.Sprintf("A%d", row), formatDate(entry.Date))
		set(fmt.Sprintf("B%d", row), entry.RouteName)
		set(fmt.Sprintf("C%d", row), entry.TransportationType)
		set(fmt.Sprintf("D%d", row), entry.TransportationAmount)
		set(fmt.Sprintf("E%d", row), fees)
		set(fmt.Sprintf("F%d", row), guide)
		set(fmt.Sprintf("G%d", row), meals)
		set(fmt.Sprintf("H%d", row), services)
	}

	_ = file.SetColWidth(sheet, "A", "A", 12)
	_ = file.SetColWidth(sheet, "B", "C", 24)
	_ = file.SetColWidth(sheet, "D", "H", 15)
	return nil
}

func (g *Generator) writeRooms(file *excelize.File, sheet string, option model.AccommodationOption) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Hotel",
		"Room type",
		"Nights",
		"Guests",
		"Rate per night",
		"Line total",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, room := range option.Rooms {
		row := 2 + i
		set(fmt.Sprintf("A%d", row), room.HotelName)
		set(fmt.Sprintf("B%d", row), room.RoomTypeName)
		set(fmt.Sprintf("C%d", row), room.Nights)
		set(fmt.Sprintf("D%d", row), room.Guests)
		set(fmt.Sprintf("E%d", row), room.RateAmount)
		set(fmt.Sprintf("F%d", row), room.Total())
	}

	_ = file.SetColWidth(sheet, "A", "B", 32)
	_ = file.SetColWidth(sheet, "C", "D", 10)
	_ = file.SetColWidth(sheet, "E", "F", 16)
	return nil
}

func formatDate(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format("02.01.2006")
}
