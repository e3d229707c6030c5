package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/druiz/poscaja/internal/domain"
	"github.com/druiz/poscaja/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// ClosureRepository implements usecase.ClosureRepository.
type ClosureRepository struct {
	pool *pgxpool.Pool
}

// NewClosureRepository creates a new ClosureRepository.
func NewClosureRepository(pool *pgxpool.Pool) *ClosureRepository {
	return &ClosureRepository{pool: pool}
}

// Exists reports whether a closure record matches the key. For the
// general scope the user is ignored; for the personal scope it is part
// of the key.
func (r *ClosureRepository) Exists(ctx context.Context, key domain.ClosureKey) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM closures
			WHERE closure_date = $1
			  AND scope = $2
			  AND (scope = 'general' OR user_id = $3)
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, key.Date, key.Scope, key.UserID).Scan(&exists)

	return exists, err
}

// Create inserts a closure record. A concurrent insert for the same key
// loses against the partial unique indexes on closures; that constraint
// violation surfaces as ErrDuplicateClosure.
func (r *ClosureRepository) Create(ctx context.Context, record *domain.ClosureRecord) error {
	query := `
		INSERT INTO closures (id, closure_date, amount, difference, user_id, scope, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.ClosureDate,
		decimalToNumeric(record.Amount),
		decimalToNumeric(record.Difference),
		record.UserID,
		record.Scope,
		record.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrDuplicateClosure
		}

		return err
	}

	return nil
}

// List lists closure records joined with the owning user's name,
// newest date first, bounds inclusive.
func (r *ClosureRepository) List(ctx context.Context, q usecase.ClosureQuery) ([]*domain.ClosureView, error) {
	query := `
		SELECT cl.id, cl.closure_date, cl.amount, cl.difference, cl.user_id,
		       cl.scope, cl.created_at, u.name
		FROM closures cl
		JOIN users u ON u.id = cl.user_id
		WHERE cl.closure_date BETWEEN $1 AND $2
		  AND ($3::text IS NULL OR cl.scope = $3)
		  AND ($4::text IS NULL OR cl.scope = 'general' OR cl.user_id = $4)
		  AND ($5::text IS NULL OR cl.scope = 'general' OR cl.user_id = $5)
		ORDER BY cl.closure_date DESC, cl.created_at DESC
		LIMIT $6 OFFSET $7
	`

	rows, err := r.pool.Query(ctx, query,
		q.From,
		q.To,
		scopeOrNil(q.Scope),
		q.UserID,
		q.VisibleTo,
		q.Limit,
		q.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]*domain.ClosureView, 0)

	for rows.Next() {
		var (
			view       domain.ClosureView
			date       pgtype.Date
			amount     pgtype.Numeric
			difference pgtype.Numeric
		)

		err := rows.Scan(
			&view.ID,
			&date,
			&amount,
			&difference,
			&view.UserID,
			&view.Scope,
			&view.CreatedAt,
			&view.UserName,
		)
		if err != nil {
			return nil, err
		}

		view.ClosureDate = date.Time
		view.Amount = numericToDecimal(amount)
		view.Difference = numericToDecimal(difference)
		views = append(views, &view)
	}

	return views, rows.Err()
}

func scopeOrNil(scope *domain.ClosureScope) *string {
	if scope == nil {
		return nil
	}

	s := string(*scope)

	return &s
}
