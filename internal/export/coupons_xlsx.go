// Package export renders loan ledgers as spreadsheets for collectors.
package export

import (
	"fmt"
	"time"

	"github.com/segyhp/coop-billing/internal/domain"
	"github.com/segyhp/coop-billing/pkg/utils"

	"github.com/xuri/excelize/v2"
)

const couponSheet = "Coupons"

var couponHeaders = []string{"Period", "Due Date", "Nominal Due", "Remaining Owed", "Status"}

// CouponLedgerXLSX writes the loan header, the coupon table and the ledger
// summary to a single sheet. It returns the file bytes and a download name.
func CouponLedgerXLSX(ledger *domain.CouponLedgerResponse, today time.Time) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", couponSheet); err != nil {
		return nil, "", err
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	overdueStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#C00000"},
	})

	loan := ledger.Loan

	// Loan header
	_ = f.SetCellValue(couponSheet, "A1", fmt.Sprintf("Loan %s", loan.LoanID))
	_ = f.SetCellStyle(couponSheet, "A1", "A1", titleStyle)
	_ = f.SetCellValue(couponSheet, "A2", "Member")
	_ = f.SetCellValue(couponSheet, "B2", fmt.Sprintf("%s (%s)", loan.MemberName, loan.MemberID))
	_ = f.SetCellValue(couponSheet, "A3", "Total Debt")
	_ = f.SetCellValue(couponSheet, "B3", loan.TotalDebt.InexactFloat64())
	_ = f.SetCellValue(couponSheet, "A4", "Remaining Debt")
	_ = f.SetCellValue(couponSheet, "B4", loan.RemainingDebt.InexactFloat64())
	_ = f.SetCellValue(couponSheet, "A5", "Status")
	_ = f.SetCellValue(couponSheet, "B5", loan.Status)
	_ = f.SetCellValue(couponSheet, "A6", "As Of")
	_ = f.SetCellValue(couponSheet, "B6", today.Format(utils.DateLayout))

	// Coupon table
	const headerRow = 8
	for i, header := range couponHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(couponSheet, cell, header)
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(couponHeaders), headerRow)
	_ = f.SetCellStyle(couponSheet, first, last, headerStyle)

	row := headerRow + 1
	for _, c := range ledger.Coupons {
		values := []any{
			c.Period,
			c.DueDate.Format(utils.DateLayout),
			c.NominalDue.InexactFloat64(),
			c.RemainingOwed.InexactFloat64(),
			c.Status.String(),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(couponSheet, cell, v)
		}
		if c.Status == domain.CouponOverdue {
			start, _ := excelize.CoordinatesToCellName(1, row)
			end, _ := excelize.CoordinatesToCellName(len(couponHeaders), row)
			_ = f.SetCellStyle(couponSheet, start, end, overdueStyle)
		}
		row++
	}

	// Summary
	row++
	summary := []struct {
		label string
		value any
	}{
		{"Paid", ledger.Summary.Paid},
		{"Partially Paid", ledger.Summary.PartiallyPaid},
		{"Overdue", ledger.Summary.Overdue},
		{"Upcoming", ledger.Summary.Upcoming},
		{"Overdue Amount", ledger.Summary.OverdueAmount.InexactFloat64()},
		{"Outstanding", ledger.Summary.Outstanding.InexactFloat64()},
	}
	for _, s := range summary {
		_ = f.SetCellValue(couponSheet, fmt.Sprintf("A%d", row), s.label)
		_ = f.SetCellValue(couponSheet, fmt.Sprintf("B%d", row), s.value)
		row++
	}

	_ = f.SetColWidth(couponSheet, "A", "A", 16)
	_ = f.SetColWidth(couponSheet, "B", "E", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("coupons_%s_%s.xlsx", loan.LoanID, today.Format(utils.DateLayout))
	return buf.Bytes(), filename, nil
}
