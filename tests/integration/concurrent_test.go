package integration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/druiz/poscaja/internal/adapter/repository/postgres"
	"github.com/druiz/poscaja/internal/domain"
	"github.com/druiz/poscaja/internal/usecase"
	"github.com/druiz/poscaja/tests/testutil"
)

func TestConcurrentPayments(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	pool := testDB.Pool
	creditRepo := postgres.NewCreditRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()

	ledgerUC := usecase.NewLedgerUseCase(txManager, creditRepo, paymentRepo, auditRepo, idGen)

	t.Run("100 concurrent payments settle exactly the principal", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		cashier := testDB.CreateTestUser(ctx, "cashier", domain.RoleCashier)
		// Principal allows exactly 100 payments of 10
		credit := testDB.CreateTestCredit(ctx, "cust-conc", decimal.NewFromInt(1000))

		numPayments := 100
		paymentAmount := decimal.NewFromInt(10)

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
			errorCount   atomic.Int32
		)

		wg.Add(numPayments)

		for range numPayments {
			go func() {
				defer wg.Done()

				_, err := ledgerUC.RegisterPayment(ctx, usecase.RegisterPaymentInput{
					CreditID: credit.ID,
					Amount:   paymentAmount,
					Method:   "cash",
					UserID:   cashier.ID,
				})
				if err != nil {
					errorCount.Add(1)
				} else {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		// All 100 should succeed (1000 / 10 = 100)
		if successCount.Load() != int32(numPayments) {
			t.Errorf("expected %d successful payments, got %d (errors: %d)", numPayments, successCount.Load(), errorCount.Load())
		}

		// Stored sum must land exactly on the principal
		sum := testDB.SumPayments(ctx, credit.ID)
		if !sum.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("expected payment sum 1000, got %s", sum)
		}

		if status := testDB.CreditStatus(ctx, credit.ID); status != domain.CreditPaid {
			t.Errorf("expected credit status paid, got %s", status)
		}
	})

	t.Run("concurrent payments never exceed the principal", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		cashier := testDB.CreateTestUser(ctx, "cashier", domain.RoleCashier)
		// Principal covers only half of the attempted payments
		credit := testDB.CreateTestCredit(ctx, "cust-over", decimal.NewFromInt(100))

		numPayments := 20
		paymentAmount := decimal.NewFromInt(10) // 20 * 10 = 200 > 100

		var (
			wg               sync.WaitGroup
			successCount     atomic.Int32
			overpaymentCount atomic.Int32
			otherErrors      atomic.Int32
		)

		wg.Add(numPayments)

		for range numPayments {
			go func() {
				defer wg.Done()

				_, err := ledgerUC.RegisterPayment(ctx, usecase.RegisterPaymentInput{
					CreditID: credit.ID,
					Amount:   paymentAmount,
					Method:   "cash",
					UserID:   cashier.ID,
				})

				switch {
				case err == nil:
					successCount.Add(1)
				case errors.Is(err, domain.ErrOverpayment), errors.Is(err, domain.ErrCreditNotFound):
					// Losers that arrive after settlement see the credit
					// as no longer pending rather than as an overpayment.
					overpaymentCount.Add(1)
				default:
					otherErrors.Add(1)
				}
			}()
		}

		wg.Wait()

		// Only 10 can fit (100 / 10 = 10); every loser gets a
		// business-rule rejection, never a storage failure.
		if successCount.Load() != 10 {
			t.Errorf("expected 10 successful payments, got %d", successCount.Load())
		}

		if overpaymentCount.Load() != 10 {
			t.Errorf("expected 10 rejected payments, got %d", overpaymentCount.Load())
		}

		if otherErrors.Load() != 0 {
			t.Errorf("expected no unclassified errors, got %d", otherErrors.Load())
		}

		sum := testDB.SumPayments(ctx, credit.ID)
		if !sum.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected payment sum 100, got %s", sum)
		}
	})
}

func TestConcurrentClosures(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	closureRepo := postgres.NewClosureRepository(testDB.Pool)
	auditRepo := postgres.NewAuditRepository(testDB.Pool)
	idGen := postgres.NewULIDGenerator()

	registrarUC := usecase.NewRegistrarUseCase(closureRepo, auditRepo, idGen, nil)

	closureDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("racing general closures produce exactly one winner", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		admin := testDB.CreateTestUser(ctx, "admin", domain.RoleAdmin)

		numAttempts := 10

		var (
			wg             sync.WaitGroup
			successCount   atomic.Int32
			duplicateCount atomic.Int32
			otherErrors    atomic.Int32
		)

		wg.Add(numAttempts)

		for range numAttempts {
			go func() {
				defer wg.Done()

				_, err := registrarUC.CreateClosure(ctx, usecase.CreateClosureInput{
					Date:       closureDate,
					Amount:     decimal.NewFromInt(500),
					Difference: decimal.Zero,
					UserID:     admin.ID,
					Scope:      domain.ScopeGeneral,
				})

				switch {
				case err == nil:
					successCount.Add(1)
				case errors.Is(err, domain.ErrDuplicateClosure):
					duplicateCount.Add(1)
				default:
					otherErrors.Add(1)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() != 1 {
			t.Errorf("expected exactly 1 winning closure, got %d", successCount.Load())
		}

		if duplicateCount.Load() != int32(numAttempts-1) {
			t.Errorf("expected %d duplicate rejections, got %d", numAttempts-1, duplicateCount.Load())
		}

		if otherErrors.Load() != 0 {
			t.Errorf("expected no unclassified errors, got %d", otherErrors.Load())
		}

		var stored int
		if err := testDB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM closures`).Scan(&stored); err != nil {
			t.Fatalf("failed to count closures: %v", err)
		}

		if stored != 1 {
			t.Errorf("expected 1 stored closure, got %d", stored)
		}
	})

	t.Run("unique index rejects a duplicate insert without the pre-check", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		admin := testDB.CreateTestUser(ctx, "admin", domain.RoleAdmin)

		record := func() *domain.ClosureRecord {
			return &domain.ClosureRecord{
				ID:          idGen.Generate(),
				ClosureDate: closureDate,
				Amount:      decimal.NewFromInt(500),
				Difference:  decimal.Zero,
				UserID:      admin.ID,
				Scope:       domain.ScopeGeneral,
				CreatedAt:   time.Now().UTC(),
			}
		}

		if err := closureRepo.Create(ctx, record()); err != nil {
			t.Fatalf("first insert failed: %v", err)
		}

		// Straight to the repository: this is the path a racing loser
		// takes after passing the application-level existence check.
		err := closureRepo.Create(ctx, record())
		if !errors.Is(err, domain.ErrDuplicateClosure) {
			t.Errorf("expected ErrDuplicateClosure from the index, got %v", err)
		}
	})

	t.Run("racing personal closures are independent per user", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		alice := testDB.CreateTestUser(ctx, "alice", domain.RoleCashier)
		bob := testDB.CreateTestUser(ctx, "bob", domain.RoleCashier)

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
		)

		// Two users racing on the same date must both win their own key.
		for _, userID := range []string{alice.ID, bob.ID} {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, err := registrarUC.CreateClosure(ctx, usecase.CreateClosureInput{
					Date:       closureDate,
					Amount:     decimal.NewFromInt(200),
					Difference: decimal.Zero,
					UserID:     userID,
					Scope:      domain.ScopePersonal,
				})
				if err == nil {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() != 2 {
			t.Errorf("expected both personal closures to succeed, got %d", successCount.Load())
		}
	})
}
