// Package report renders printable reports.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/metrics"
	"github.com/go-pdf/fpdf"
)

var finalizedColumns = []struct {
	title string
	width float64
	align string
}{
	{"Initiative", 50, "L"},
	{"Closed", 22, "C"},
	{"Estimate", 20, "R"},
	{"Consumed", 20, "R"},
	{"Variance", 28, "R"},
	{"Accuracy", 30, "C"},
	{"Days", 14, "R"},
}

// FinalizedPDF writes the finalized-initiatives report to w.
func FinalizedPDF(w io.Writer, rows []metrics.InitiativeMetrics, generatedAt time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Finalized initiatives", true)
	pdf.SetCreationDate(generatedAt)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Finalized initiatives")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, "Generated "+generatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(12)

	if len(rows) == 0 {
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 8, "No initiatives have been finalized yet.")
		return output(pdf, w)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range finalizedColumns {
		pdf.CellFormat(c.width, 8, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	var estimated, consumed float64
	for _, m := range rows {
		if m.Initiative.HasEstimate() {
			estimated += m.Initiative.Estimate()
		}
		consumed += m.Consumed
		cells := finalizedCells(m)
		for n, c := range finalizedColumns {
			pdf.CellFormat(c.width, 7, cells[n], "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("%d initiatives, %s estimated, %s consumed", len(rows), hours(estimated), hours(consumed)))
	return output(pdf, w)
}

// finalizedCells renders one table row. Variance and accuracy come from m
// as computed, so the report agrees with every other view.
func finalizedCells(m metrics.InitiativeMetrics) []string {
	i := m.Initiative
	closed := ""
	if i.ClosedAt != nil {
		closed = i.ClosedAt.Format("2006-01-02")
	}
	estimate, variance := "-", "-"
	if i.HasEstimate() {
		estimate = hours(i.Estimate())
		variance = "pending"
	}
	if m.VarianceOK {
		variance = fmt.Sprintf("%+.1fh (%+.0f%%)", m.Variance, m.VariancePct)
	}
	return []string{i.Name, closed, estimate, hours(m.Consumed), variance, accuracyLabel(m.Accuracy), fmt.Sprint(m.DaysWorked)}
}

func accuracyLabel(a domain.Accuracy) string {
	switch a {
	case domain.AccuracyOnTarget:
		return "On target"
	case domain.AccuracyOver:
		return "Over estimate"
	case domain.AccuracyUnder:
		return "Under estimate"
	case domain.AccuracyPending:
		return "Pending"
	default:
		return "No estimate"
	}
}

func output(pdf *fpdf.Fpdf, w io.Writer) error {
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func hours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}
