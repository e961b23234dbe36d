package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-01 is a Monday
func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestIsWorkingDay(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected bool
	}{
		{name: "monday", date: day(1), expected: true},
		{name: "friday", date: day(5), expected: true},
		{name: "saturday", date: day(6), expected: false},
		{name: "sunday", date: day(7), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsWorkingDay(tt.date))
		})
	}
}

func TestNextWorkingDay(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected time.Time
	}{
		{name: "wednesday moves to thursday", date: day(3), expected: day(4)},
		{name: "friday skips the weekend", date: day(5), expected: day(8)},
		{name: "saturday moves to monday", date: day(6), expected: day(8)},
		{name: "sunday moves to monday", date: day(7), expected: day(8)},
		{name: "time of day is dropped", date: day(3).Add(17 * time.Hour), expected: day(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextWorkingDay(tt.date))
		})
	}
}

func TestAddWorkingDays(t *testing.T) {
	assert.Equal(t, day(3), AddWorkingDays(day(3), 0))
	assert.Equal(t, day(10), AddWorkingDays(day(3), 5))
	assert.Equal(t, day(8), AddWorkingDays(day(5), 1))
	assert.Equal(t, day(15), AddWorkingDays(day(1), 10))
}

func TestIsDateBefore(t *testing.T) {
	assert.True(t, IsDateBefore(day(2).Add(23*time.Hour), day(3)))
	assert.False(t, IsDateBefore(day(3).Add(23*time.Hour), day(3)))
	assert.False(t, IsDateBefore(day(3), day(3).Add(time.Hour)))
}

func TestParseDate(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)

	parsed, err := ParseDate("2024-01-03", jakarta)
	require.NoError(t, err)
	assert.Equal(t, 3, parsed.Day())
	assert.Equal(t, jakarta, parsed.Location())

	_, err = ParseDate("03/01/2024", nil)
	assert.Error(t, err)
}

func TestCalculateInterestRate(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		expected string
	}{
		{name: "smallest loan", amount: 300000, expected: "33.33"},
		{name: "400k loan", amount: 400000, expected: "25"},
		{name: "standard loan", amount: 1000000, expected: "20"},
		{name: "largest loan", amount: 3000000, expected: "20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateInterestRate(decimal.NewFromInt(tt.amount))
			assert.True(t, result.Equal(decimal.RequireFromString(tt.expected)),
				"Expected %v, but got %v", tt.expected, result)
		})
	}
}

func TestCalculateTotalDebtAndInstallment(t *testing.T) {
	tests := []struct {
		name                string
		principal           int64
		tenor               int
		expectedTotal       int64
		expectedInstallment int64
	}{
		{
			name:                "1,000,000 over 12",
			principal:           1000000,
			tenor:               12,
			expectedTotal:       1200000,
			expectedInstallment: 100000,
		},
		{
			name:                "400,000 over 4",
			principal:           400000,
			tenor:               4,
			expectedTotal:       500000,
			expectedInstallment: 125000,
		},
		{
			name:                "300,000 over 4 rounds the installment up",
			principal:           300000,
			tenor:               4,
			expectedTotal:       399990, // 300,000 + 99,990
			expectedInstallment: 99998,  // 99,997.5 rounded up
		},
		{
			name:                "1,500,000 over 14",
			principal:           1500000,
			tenor:               14,
			expectedTotal:       1800000,
			expectedInstallment: 128572, // 128,571.43 rounded up
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal := decimal.NewFromInt(tt.principal)
			total := CalculateTotalDebt(principal, CalculateInterestRate(principal))
			assert.True(t, total.Equal(decimal.NewFromInt(tt.expectedTotal)), "total %v", total)

			installment := CalculateInstallment(total, tt.tenor)
			assert.True(t, installment.Equal(decimal.NewFromInt(tt.expectedInstallment)), "installment %v", installment)
		})
	}

	assert.True(t, CalculateInstallment(decimal.NewFromInt(1000), 0).IsZero())
}

func TestPercentOf(t *testing.T) {
	assert.True(t, PercentOf(decimal.NewFromInt(1000000), decimal.NewFromInt(5)).Equal(decimal.NewFromInt(50000)))
	assert.True(t, PercentOf(decimal.NewFromInt(300000), decimal.NewFromInt(5)).Equal(decimal.NewFromInt(15000)))
}
