// Package reporting renders a SessionSummary to PDF: a header, a
// statistics grid, a rule-hit table, and a footer, built over gofpdf.
package reporting

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf"

	"github.com/airhound/airhound/internal/bridge/ingest"
)

// Exporter renders session summaries to PDF.
type Exporter struct{}

// NewExporter returns a ready Exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// ExportSessionSummary renders summary into a standalone PDF document.
func (e *Exporter) ExportSessionSummary(board string, summary ingest.SessionSummary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	e.addHeader(pdf, board, summary)
	e.addStatistics(pdf, summary)
	e.addRuleTable(pdf, summary)
	e.addFooter(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("reporting: generate pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) addHeader(pdf *gofpdf.Fpdf, board string, summary ingest.SessionSummary) {
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 14, "AirHound Session Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 7, fmt.Sprintf("Board: %s", board), "", 1, "L", false, 0, "")

	if !summary.Start.IsZero() {
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(120, 120, 120)
		period := fmt.Sprintf("Session window: %s to %s",
			summary.Start.Format("2006-01-02 15:04:05"),
			summary.End.Format("2006-01-02 15:04:05"))
		pdf.CellFormat(0, 6, period, "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)
}

func (e *Exporter) addStatistics(pdf *gofpdf.Fpdf, summary ingest.SessionSummary) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Session Overview", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	stats := []struct {
		label string
		value string
	}{
		{"Total Events", fmt.Sprintf("%d", summary.TotalEvents)},
		{"Distinct Rules Fired", fmt.Sprintf("%d", len(summary.RuleCounts))},
		{"Strongest RSSI", fmt.Sprintf("%d dBm", summary.StrongestRSSI)},
		{"Weakest RSSI", fmt.Sprintf("%d dBm", summary.WeakestRSSI)},
	}

	colWidth := 85.0
	for i, stat := range stats {
		x := 20.0
		if i%2 == 1 {
			x = 105.0
		}
		pdf.SetXY(x, pdf.GetY())

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(50, 7, stat.label+":", "", 0, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 11)
		pdf.SetTextColor(0, 102, 204)
		pdf.CellFormat(colWidth-50, 7, stat.value, "", 0, "R", false, 0, "")

		if i%2 == 1 {
			pdf.Ln(7)
		}
	}
	pdf.Ln(10)
}

func (e *Exporter) addRuleTable(pdf *gofpdf.Fpdf, summary ingest.SessionSummary) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Rule Hits", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(summary.RuleCounts) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 7, "No rules fired during this session", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	names := make([]string, 0, len(summary.RuleCounts))
	for name := range summary.RuleCounts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return summary.RuleCounts[names[i]] > summary.RuleCounts[names[j]] })

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(120, 8, "Rule", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 8, "Hits", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, name := range names {
		pdf.CellFormat(120, 7, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, fmt.Sprintf("%d", summary.RuleCounts[name]), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(8)
}

func (e *Exporter) addFooter(pdf *gofpdf.Fpdf) {
	pdf.SetY(-20)
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(3)

	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, "Generated by airhound-bridge", "", 1, "C", false, 0, "")
}
