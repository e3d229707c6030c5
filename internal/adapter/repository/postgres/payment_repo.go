package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/druiz/poscaja/internal/domain"
	"github.com/druiz/poscaja/internal/usecase"
)

// PaymentRepository implements usecase.PaymentRepository.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// Create inserts a payment inside the caller's transaction.
func (r *PaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO payments (id, credit_id, amount, method, reference, user_id, status, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := pgxTx.Exec(ctx, query,
		payment.ID,
		payment.CreditID,
		decimalToNumeric(payment.Amount),
		payment.Method,
		payment.Reference,
		payment.UserID,
		payment.Status,
		payment.PaidAt,
		payment.CreatedAt,
	)

	return err
}

// SumApproved returns the accumulated total of payments that count
// toward the credit balance. Runs inside the caller's transaction so
// the sum is consistent with the locked credit row.
func (r *PaymentRepository) SumApproved(ctx context.Context, tx usecase.Transaction, creditID string) (decimal.Decimal, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE credit_id = $1 AND status IN ('completed', 'approved')
	`

	var total pgtype.Numeric
	if err := pgxTx.QueryRow(ctx, query, creditID).Scan(&total); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// ListViews lists payments joined with customer name and credit
// principal, newest first. search matches case-insensitively against
// the customer's first, last, or full name.
func (r *PaymentRepository) ListViews(ctx context.Context, search string, limit, offset int) ([]*domain.PaymentView, error) {
	query := `
		SELECT p.id, p.credit_id, p.amount, p.method, p.reference, p.user_id,
		       p.status, p.paid_at, p.created_at,
		       TRIM(c.customer_first_name || ' ' || c.customer_last_name) AS customer_name,
		       c.principal
		FROM payments p
		JOIN credits c ON c.id = p.credit_id
		WHERE $1 = ''
		   OR c.customer_first_name ILIKE '%' || $1 || '%'
		   OR c.customer_last_name ILIKE '%' || $1 || '%'
		   OR (c.customer_first_name || ' ' || c.customer_last_name) ILIKE '%' || $1 || '%'
		ORDER BY p.paid_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]*domain.PaymentView, 0)

	for rows.Next() {
		var (
			view      domain.PaymentView
			amount    pgtype.Numeric
			principal pgtype.Numeric
		)

		err := rows.Scan(
			&view.ID,
			&view.CreditID,
			&amount,
			&view.Method,
			&view.Reference,
			&view.UserID,
			&view.Status,
			&view.PaidAt,
			&view.CreatedAt,
			&view.CustomerName,
			&principal,
		)
		if err != nil {
			return nil, err
		}

		view.Amount = numericToDecimal(amount)
		view.Principal = numericToDecimal(principal)
		views = append(views, &view)
	}

	return views, rows.Err()
}
