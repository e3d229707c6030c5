package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/druiz/poscaja/internal/domain"
	"github.com/druiz/poscaja/internal/usecase"
)

// CreditRepository implements usecase.CreditRepository.
type CreditRepository struct {
	pool *pgxpool.Pool
}

// NewCreditRepository creates a new CreditRepository.
func NewCreditRepository(pool *pgxpool.Pool) *CreditRepository {
	return &CreditRepository{pool: pool}
}

// GetOutstandingByCustomer retrieves the customer's pending credit with
// the accumulated approved payment total. Picks the most recently
// created pending credit if more than one exists.
func (r *CreditRepository) GetOutstandingByCustomer(ctx context.Context, customerID string) (*domain.CreditView, error) {
	query := `
		SELECT c.id, c.customer_id, c.customer_first_name, c.customer_last_name,
		       c.principal, c.status, c.due_date, c.created_at, c.updated_at,
		       COALESCE(SUM(p.amount) FILTER (WHERE p.status IN ('completed', 'approved')), 0) AS total_paid
		FROM credits c
		LEFT JOIN payments p ON p.credit_id = c.id
		WHERE c.customer_id = $1 AND c.status = 'pending'
		GROUP BY c.id
		ORDER BY c.created_at DESC
		LIMIT 1
	`

	var (
		view      domain.CreditView
		principal pgtype.Numeric
		totalPaid pgtype.Numeric
		dueDate   pgtype.Date
	)

	err := r.pool.QueryRow(ctx, query, customerID).Scan(
		&view.ID,
		&view.CustomerID,
		&view.CustomerFirstName,
		&view.CustomerLastName,
		&principal,
		&view.Status,
		&dueDate,
		&view.CreatedAt,
		&view.UpdatedAt,
		&totalPaid,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCreditNotFound
		}

		return nil, err
	}

	view.Principal = numericToDecimal(principal)
	view.TotalPaid = numericToDecimal(totalPaid)
	view.DueDate = dueDate.Time

	return &view, nil
}

// GetByIDForUpdate retrieves a credit by ID with a FOR UPDATE lock. The
// lock is held until the surrounding transaction commits or rolls back.
func (r *CreditRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.CreditAccount, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT id, customer_id, customer_first_name, customer_last_name,
		       principal, status, due_date, created_at, updated_at
		FROM credits
		WHERE id = $1
		FOR UPDATE
	`

	var (
		credit    domain.CreditAccount
		principal pgtype.Numeric
		dueDate   pgtype.Date
	)

	err := pgxTx.QueryRow(ctx, query, id).Scan(
		&credit.ID,
		&credit.CustomerID,
		&credit.CustomerFirstName,
		&credit.CustomerLastName,
		&principal,
		&credit.Status,
		&dueDate,
		&credit.CreatedAt,
		&credit.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCreditNotFound
		}

		return nil, err
	}

	credit.Principal = numericToDecimal(principal)
	credit.DueDate = dueDate.Time

	return &credit, nil
}

// UpdateStatus updates the status of a credit.
func (r *CreditRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.CreditStatus, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`UPDATE credits SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, updatedAt,
	)

	return err
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}
