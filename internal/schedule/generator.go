// Package schedule derives loan due dates and reconciles them against the
// amount a member has repaid. Everything here is a pure function of its
// inputs.
package schedule

import (
	"time"

	"github.com/segyhp/coop-billing/internal/domain"
	customError "github.com/segyhp/coop-billing/pkg/errors"
	"github.com/segyhp/coop-billing/pkg/utils"
)

// billingCycleDays is the number of working days a standard loan is spread over
const billingCycleDays = 20

// StepInterval returns the number of working days between consecutive due
// dates for a tenor.
//
// Tenors 12 through 18 all floor to a step of 1, the same as daily billing.
// The formula is kept as is; only tenor 4 steps by more than one day among
// the standard products.
func StepInterval(tenor int) int {
	switch {
	case tenor == 4:
		return 5
	case tenor >= billingCycleDays:
		return 1
	case tenor <= 0:
		return 1
	default:
		return max(1, billingCycleDays/tenor)
	}
}

// Generate returns the tenor due dates of a loan disbursed on disbursement.
// The first due date is the next working day strictly after disbursement,
// and each following one is StepInterval(tenor) working days later.
func Generate(disbursement time.Time, tenor int) ([]domain.ScheduleEntry, error) {
	if tenor <= 0 {
		return nil, customError.WrapInvalidInput("tenor must be positive, got %d", tenor)
	}
	if disbursement.IsZero() {
		return nil, customError.WrapInvalidInput("disbursement date is required")
	}

	interval := StepInterval(tenor)
	entries := make([]domain.ScheduleEntry, 0, tenor)

	current := utils.NextWorkingDay(disbursement)
	for period := 1; period <= tenor; period++ {
		entries = append(entries, domain.ScheduleEntry{
			Period:  period,
			DueDate: current,
		})
		current = utils.AddWorkingDays(current, interval)
	}

	return entries, nil
}
