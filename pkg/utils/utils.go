package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// TruncateToDate drops the time-of-day component, keeping t's location
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsDateBefore compares the calendar dates of a and b, each read in its own
// location. Time of day never matters.
func IsDateBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

// IsWorkingDay reports whether t falls on Monday through Friday
func IsWorkingDay(t time.Time) bool {
	day := t.Weekday()
	return day != time.Saturday && day != time.Sunday
}

// NextWorkingDay returns the first working day strictly after t.
// A working-day input still advances; the result is never t itself.
func NextWorkingDay(t time.Time) time.Time {
	next := TruncateToDate(t).AddDate(0, 0, 1)
	for !IsWorkingDay(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// AddWorkingDays advances t by n working days, one day at a time
func AddWorkingDays(t time.Time, n int) time.Time {
	current := TruncateToDate(t)
	for i := 0; i < n; i++ {
		current = NextWorkingDay(current)
	}
	return current
}

// ParseDate parses a YYYY-MM-DD string as midnight in loc
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, value, loc)
}

// CalculateInterestRate returns the flat interest percentage for a loan amount.
// Small loans carry a higher rate so the interest stays a whole 100,000.
func CalculateInterestRate(amount decimal.Decimal) decimal.Decimal {
	switch {
	case amount.Equal(decimal.NewFromInt(300000)):
		return decimal.RequireFromString("33.33")
	case amount.Equal(decimal.NewFromInt(400000)):
		return decimal.NewFromInt(25)
	default:
		return decimal.NewFromInt(20)
	}
}

// CalculateTotalDebt returns principal plus flat interest, rounded to whole units
// Formula: Principal + Principal * Rate / 100
func CalculateTotalDebt(principal decimal.Decimal, ratePercent decimal.Decimal) decimal.Decimal {
	interest := principal.Mul(ratePercent).Div(hundred)
	return principal.Add(interest).Round(0)
}

// CalculateInstallment splits the total debt over the tenor, rounding up to a
// whole currency unit
func CalculateInstallment(totalDebt decimal.Decimal, tenor int) decimal.Decimal {
	if tenor <= 0 {
		return decimal.Zero
	}
	return totalDebt.Div(decimal.NewFromInt(int64(tenor))).RoundCeil(0)
}

// PercentOf returns percent% of amount, rounded to whole units
func PercentOf(amount decimal.Decimal, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred).Round(0)
}
