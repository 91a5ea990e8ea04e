package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/tourquote/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders the quotation cost sheet as a single-document PDF:
// header, totals table, itinerary and the selected option's room lines.
func (g *Generator) Generate(doc model.QuoteDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Tour quotation", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Group: %s", safeValue(doc.Quotation.GroupName)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Travel period: %s - %s", formatDate(doc.Quotation.Arrival), formatDate(doc.Quotation.Departure)), "", 1, "C", false, 0, "")
	if doc.Option != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Accommodation option: %s", safeValue(doc.Option.Name)), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	g.writeTotals(pdf, doc.Totals)
	pdf.Ln(4)
	g.writeItinerary(pdf, doc.Entries)
	if doc.Option != nil && len(doc.Option.Rooms) > 0 {
		pdf.Ln(4)
		g.writeRooms(pdf, *doc.Option)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeTotals(pdf *gofpdf.Fpdf, totals model.TotalsBreakdown) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Cost breakdown", "", 1, "L", false, 0, "")

	widths := []float64{120, 60}
	drawTableRow(pdf, g.fontName, []string{"Cost item", "Amount"}, widths, true)
	rows := []struct {
		label  string
		amount float64
	}{
		{"Entrance fees", totals.EntranceFees},
		{"Guide services", totals.GuideCosts},
		{"Meals", totals.MealCosts},
		{"Extra services", totals.ExtraServiceCosts},
		{"Transportation", totals.Transportation},
		{"Accommodation", totals.Accommodation},
	}
	for _, row := range rows {
		drawTableRow(pdf, g.fontName, []string{row.label, formatAmount(row.amount)}, widths, false)
	}
	drawTableRow(pdf, g.fontName, []string{"Grand total", formatAmount(totals.GrandTotal)}, widths, true)
}

func (g *Generator) writeItinerary(pdf *gofpdf.Fpdf, entries []model.RouteEntry) {
	if len(entries) == 0 {
		return
	}
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Itinerary", "", 1, "L", false, 0, "")

	widths := []float64{24, 66, 30, 30, 30}
	drawTableRow(pdf, g.fontName, []string{"Date", "Route", "Transport", "Fees + guide", "Meals + extras"}, widths, true)
	for _, entry := range entries {
		var feesGuide, mealsExtras float64
		for _, visit := range entry.Places {
			feesGuide += visit.EntranceFeePP + visit.GuideCost
		}
		for _, meal := range entry.Meals {
			mealsExtras += meal.AmountPP
		}
		for _, svc := range entry.ExtraServices {
			mealsExtras += svc.CostPP
		}
		drawTableRow(pdf, g.fontName, []string{
			formatDate(entry.Date),
			safeValue(entry.RouteName),
			formatAmount(entry.TransportationAmount),
			formatAmount(feesGuide),
			formatAmount(mealsExtras),
		}, widths, false)
	}
}

func (g *Generator) writeRooms(pdf *gofpdf.Fpdf, option model.AccommodationOption) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Accommodation", "", 1, "L", false, 0, "")

	widths := []float64{60, 40, 18, 18, 22, 22}
	drawTableRow(pdf, g.fontName, []string{"Hotel", "Room type", "Nights", "Guests", "Rate", "Total"}, widths, true)
	for _, room := range option.Rooms {
		drawTableRow(pdf, g.fontName, []string{
			safeValue(room.HotelName),
			safeValue(room.RoomTypeName),
			fmt.Sprintf("%d", room.Nights),
			fmt.Sprintf("%d", room.Guests),
			formatAmount(room.RateAmount),
			formatAmount(room.Total()),
		}, widths, false)
	}
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}
