package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/segyhp/coop-billing/internal/domain"
	customError "github.com/segyhp/coop-billing/pkg/errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDB is set when TEST_DATABASE_URL points at a scratch postgres database
var testDB *sqlx.DB

func TestMain(m *testing.M) {
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			panic("failed to connect to test database: " + err.Error())
		}

		schema, err := os.ReadFile("../../scripts/init.sql")
		if err != nil {
			panic("failed to read init.sql: " + err.Error())
		}
		db.MustExec(string(schema))
		testDB = db
	}

	code := m.Run()

	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
	testDB.MustExec("TRUNCATE installments, savings, loans, loan_applications, cash_book")
}

func seedLoan(t *testing.T, loanID, memberID, status string) *domain.Loan {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	application := &domain.Application{
		ID:            uuid.New(),
		ApplicationID: "APP-" + loanID,
		MemberID:      memberID,
		MemberName:    "Siti",
		Amount:        decimal.NewFromInt(320000),
		Tenor:         4,
		Collector:     "Budi",
		Status:        domain.ApplicationStatusApproved,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, NewApplicationRepository(testDB).Create(ctx, application))

	loan := &domain.Loan{
		ID:            uuid.New(),
		LoanID:        loanID,
		MemberID:      memberID,
		MemberName:    "Siti",
		ApplicationID: application.ApplicationID,
		Principal:     decimal.NewFromInt(320000),
		InterestRate:  decimal.NewFromInt(25),
		TotalDebt:     decimal.NewFromInt(400000),
		Tenor:         4,
		Installment:   decimal.NewFromInt(100000),
		RemainingDebt: decimal.NewFromInt(400000),
		Status:        status,
		Collector:     "Budi",
		ApprovedAt:    now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, NewLoanRepository(testDB).Create(ctx, loan))
	return loan
}

func TestLoanRepository(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewLoanRepository(testDB)

	seedLoan(t, "LOAN-1", "MBR-1", domain.LoanStatusActive)
	seedLoan(t, "LOAN-2", "MBR-1", domain.LoanStatusPaidOff)
	seedLoan(t, "LOAN-3", "MBR-2", domain.LoanStatusDefault)

	loan, err := repo.GetByLoanID(ctx, "LOAN-1")
	require.NoError(t, err)
	assert.True(t, loan.TotalDebt.Equal(decimal.NewFromInt(400000)))
	assert.Nil(t, loan.DisbursedAt)

	_, err = repo.GetByLoanID(ctx, "LOAN-404")
	assert.ErrorIs(t, err, customError.ErrLoanNotFound)

	loans, err := repo.GetByMemberID(ctx, "MBR-1")
	require.NoError(t, err)
	assert.Len(t, loans, 2)

	open, err := repo.ListOpen(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 2)

	disbursed := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	loan.DisbursedAt = &disbursed
	loan.RemainingDebt = decimal.NewFromInt(300000)
	require.NoError(t, repo.Update(ctx, loan))

	loan, err = repo.GetByLoanID(ctx, "LOAN-1")
	require.NoError(t, err)
	assert.True(t, loan.RemainingDebt.Equal(decimal.NewFromInt(300000)))
	require.NotNil(t, loan.DisbursedAt)
	assert.True(t, loan.DisbursedAt.Equal(disbursed))

	err = repo.Update(ctx, &domain.Loan{LoanID: "LOAN-404"})
	assert.ErrorIs(t, err, customError.ErrLoanNotFound)
}

func TestLoanRepository_UpdateStatus(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewLoanRepository(testDB)

	seedLoan(t, "LOAN-1", "MBR-1", domain.LoanStatusActive)

	loan, err := repo.GetByLoanID(ctx, "LOAN-1")
	require.NoError(t, err)
	stale := *loan

	// A payment lands between the sweep's read and its write
	loan.RemainingDebt = decimal.NewFromInt(300000)
	require.NoError(t, repo.Update(ctx, loan))

	stale.Status = domain.LoanStatusDefault
	changed, err := repo.UpdateStatus(ctx, &stale, domain.LoanStatusActive)
	require.NoError(t, err)
	assert.False(t, changed)

	loan.Status = domain.LoanStatusDefault
	changed, err = repo.UpdateStatus(ctx, loan, domain.LoanStatusActive)
	require.NoError(t, err)
	assert.True(t, changed)

	loan, err = repo.GetByLoanID(ctx, "LOAN-1")
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusDefault, loan.Status)
	assert.True(t, loan.RemainingDebt.Equal(decimal.NewFromInt(300000)))
}

func TestLoanRepository_ConcurrentPaymentsSerialize(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewLoanRepository(testDB)
	tx := NewTxManager(testDB)

	seedLoan(t, "LOAN-1", "MBR-1", domain.LoanStatusActive)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- tx.WithinTx(ctx, func(ctx context.Context) error {
				loan, err := repo.GetByLoanIDForUpdate(ctx, "LOAN-1")
				if err != nil {
					return err
				}
				// Widen the window between read and write
				time.Sleep(50 * time.Millisecond)
				loan.RemainingDebt = loan.RemainingDebt.Sub(decimal.NewFromInt(100000))
				return repo.Update(ctx, loan)
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	loan, err := repo.GetByLoanID(ctx, "LOAN-1")
	require.NoError(t, err)
	assert.True(t, loan.RemainingDebt.Equal(decimal.NewFromInt(200000)), "got %s", loan.RemainingDebt)
}

func TestApplicationRepository(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewApplicationRepository(testDB)

	seedLoan(t, "LOAN-1", "MBR-1", domain.LoanStatusActive)

	require.NoError(t, repo.UpdateStatus(ctx, "APP-LOAN-1", domain.ApplicationStatusDisbursed))

	application, err := repo.GetByApplicationID(ctx, "APP-LOAN-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusDisbursed, application.Status)

	_, err = repo.GetByApplicationID(ctx, "APP-404")
	assert.ErrorIs(t, err, customError.ErrApplicationNotFound)

	err = NewTxManager(testDB).WithinTx(ctx, func(ctx context.Context) error {
		locked, err := repo.GetByApplicationIDForUpdate(ctx, "APP-LOAN-1")
		if err != nil {
			return err
		}
		assert.Equal(t, domain.ApplicationStatusDisbursed, locked.Status)
		return nil
	})
	require.NoError(t, err)
}

func TestPaymentAndSavingsRepositories(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	payments := NewPaymentRepository(testDB)
	savings := NewSavingsRepository(testDB)

	seedLoan(t, "LOAN-1", "MBR-1", domain.LoanStatusActive)

	for _, amount := range []int64{100000, 50000} {
		require.NoError(t, payments.Create(ctx, &domain.Installment{
			ID:             uuid.New(),
			LoanID:         "LOAN-1",
			MemberID:       "MBR-1",
			Amount:         decimal.NewFromInt(amount),
			SavingsApplied: decimal.Zero,
			RemainingDebt:  decimal.Zero,
			Collector:      "Budi",
			PaidAt:         time.Now(),
		}))
	}

	list, err := payments.GetByLoanID(ctx, "LOAN-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	total := list[0].Amount.Add(list[1].Amount)
	assert.True(t, total.Equal(decimal.NewFromInt(150000)))

	require.NoError(t, savings.Create(ctx, &domain.SavingsEntry{
		ID: uuid.New(), MemberID: "MBR-1", Deposit: decimal.NewFromInt(20000), Withdrawal: decimal.Zero, Officer: "Admin", CreatedAt: time.Now(),
	}))
	require.NoError(t, savings.Create(ctx, &domain.SavingsEntry{
		ID: uuid.New(), MemberID: "MBR-1", Deposit: decimal.Zero, Withdrawal: decimal.NewFromInt(5000), Officer: "Admin", CreatedAt: time.Now(),
	}))

	balance, err := savings.GetBalance(ctx, "MBR-1")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(15000)))

	balance, err = savings.GetBalance(ctx, "MBR-NONE")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestSavingsRepository_ConcurrentWithdrawalsCannotOverdraw(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	savings := NewSavingsRepository(testDB)
	tx := NewTxManager(testDB)

	require.NoError(t, savings.Create(ctx, &domain.SavingsEntry{
		ID: uuid.New(), MemberID: "MBR-1", Deposit: decimal.NewFromInt(30000), Withdrawal: decimal.Zero, Officer: "Admin", CreatedAt: time.Now(),
	}))

	errInsufficient := errors.New("insufficient")
	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- tx.WithinTx(ctx, func(ctx context.Context) error {
				balance, err := savings.GetBalanceForUpdate(ctx, "MBR-1")
				if err != nil {
					return err
				}
				amount := decimal.NewFromInt(20000)
				if balance.LessThan(amount) {
					return errInsufficient
				}
				time.Sleep(50 * time.Millisecond)
				return savings.Create(ctx, &domain.SavingsEntry{
					ID: uuid.New(), MemberID: "MBR-1", Deposit: decimal.Zero, Withdrawal: amount, Officer: "Budi", CreatedAt: time.Now(),
				})
			})
		}()
	}
	wg.Wait()
	close(errs)

	var rejected int
	for err := range errs {
		if errors.Is(err, errInsufficient) {
			rejected++
			continue
		}
		require.NoError(t, err)
	}
	assert.Equal(t, 1, rejected)

	balance, err := savings.GetBalance(ctx, "MBR-1")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(10000)))
}

func TestCashBookRepository(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewCashBookRepository(testDB)

	day := time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC)
	entries := []*domain.CashEntry{
		{ID: uuid.New(), Kind: domain.CashKindCapital, Category: "Capital", Description: "Opening capital", Amount: decimal.NewFromInt(1000000), Officer: "Admin", CreatedAt: day},
		{ID: uuid.New(), Kind: domain.CashKindExpense, Category: "Stationery", Description: "Receipt books", Amount: decimal.NewFromInt(25000), Officer: "Admin", CreatedAt: day.Add(time.Hour)},
		{ID: uuid.New(), Kind: domain.CashKindTransport, Category: "Transport", Description: "Transport allowance 2024-01-05", Amount: decimal.NewFromInt(20000), Officer: "Budi", CreatedAt: day.AddDate(0, 0, 1)},
	}
	for _, entry := range entries {
		require.NoError(t, repo.Create(ctx, entry))
	}

	list, err := repo.List(ctx, day.Truncate(24*time.Hour), day.Truncate(24*time.Hour).AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.CashKindExpense, list[0].Kind, "newest first")

	totals, err := repo.GetTotals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 3)
	assert.Equal(t, domain.CashKindCapital, totals[0].Kind)
	assert.True(t, totals[0].Total.Equal(decimal.NewFromInt(1000000)))
	assert.Equal(t, domain.CashKindTransport, totals[2].Kind)
	assert.True(t, totals[2].Total.Equal(decimal.NewFromInt(20000)))
}

func TestTxManager_RollsBack(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	tx := NewTxManager(testDB)
	savings := NewSavingsRepository(testDB)

	errAbort := errors.New("abort")
	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, savings.Create(ctx, &domain.SavingsEntry{
			ID: uuid.New(), MemberID: "MBR-1", Deposit: decimal.NewFromInt(20000), Withdrawal: decimal.Zero, Officer: "Admin", CreatedAt: time.Now(),
		}))

		// Nested calls join the outer transaction
		return tx.WithinTx(ctx, func(ctx context.Context) error {
			return errAbort
		})
	})
	assert.ErrorIs(t, err, errAbort)

	balance, err := savings.GetBalance(ctx, "MBR-1")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestReminderKey(t *testing.T) {
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "reminder:LOAN-1:2024-01-10", reminderKey("LOAN-1", due))
}

func TestTransportKey(t *testing.T) {
	day := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "transport:Budi:2024-01-04", transportKey("Budi", day))
}
