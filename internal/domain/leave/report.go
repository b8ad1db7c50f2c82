package leave

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// RenderStatisticsPDF writes a one page A4 report of stats to w.
func RenderStatisticsPDF(w io.Writer, stats Statistics, generatedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Leave statistics %d", stats.Year), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Leave Statistics %d", stats.Year))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, "Generated "+generatedAt.UTC().Format(time.RFC3339))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Overview")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	overview := []struct {
		label string
		value int
	}{
		{"Total leaves", stats.Overview.TotalLeaves},
		{"Pending", stats.Overview.PendingLeaves},
		{"Approved", stats.Overview.ApprovedLeaves},
		{"Rejected", stats.Overview.RejectedLeaves},
		{"Employees", stats.Overview.TotalEmployees},
	}
	for _, row := range overview {
		pdf.CellFormat(60, 7, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", row.value), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Requests by month")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for _, name := range monthNames {
		pdf.CellFormat(15, 7, name, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	for _, count := range stats.MonthlyLeaves {
		pdf.CellFormat(15, 7, fmt.Sprintf("%d", count), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Requests by type")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, t := range Types {
		pdf.CellFormat(60, 7, string(t), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", stats.LeaveTypeStats[t]), "1", 1, "R", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
