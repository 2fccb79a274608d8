package paymentmethod

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/saasbase/saasbase/pkg/pg"
)

// Store reads and writes payment methods through an open tenant session.
// Every method takes the transaction the session resolver opened, so all
// statements in one request commit or roll back together.
type Store interface {
	ListActive(ctx context.Context, tx pgx.Tx) ([]PaymentMethod, error)
	Get(ctx context.Context, tx pgx.Tx, id int32) (*PaymentMethod, error)
	Create(ctx context.Context, tx pgx.Tx, pm *PaymentMethod) error
	Update(ctx context.Context, tx pgx.Tx, pm *PaymentMethod) error
	Deactivate(ctx context.Context, tx pgx.Tx, id int32) error
}

type pgStore struct{}

// NewStore creates the pgx-backed payment method store.
func NewStore() Store {
	return pgStore{}
}

const columns = `id_payment_method, name, description, is_active, requires_reference, created_at, updated_at`

func (pgStore) ListActive(ctx context.Context, tx pgx.Tx) ([]PaymentMethod, error) {
	rows, err := tx.Query(ctx,
		`SELECT `+columns+` FROM payment_method WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	defer rows.Close()

	var methods []PaymentMethod
	for rows.Next() {
		var pm PaymentMethod
		if err := rows.Scan(&pm.ID, &pm.Name, &pm.Description, &pm.IsActive,
			&pm.RequiresReference, &pm.CreatedAt, &pm.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		methods = append(methods, pm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}

	return methods, nil
}

func (pgStore) Get(ctx context.Context, tx pgx.Tx, id int32) (*PaymentMethod, error) {
	var pm PaymentMethod
	err := tx.QueryRow(ctx,
		`SELECT `+columns+` FROM payment_method WHERE id_payment_method = $1`, id,
	).Scan(&pm.ID, &pm.Name, &pm.Description, &pm.IsActive,
		&pm.RequiresReference, &pm.CreatedAt, &pm.UpdatedAt)
	if pg.IsNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payment method: %w", err)
	}
	return &pm, nil
}

func (pgStore) Create(ctx context.Context, tx pgx.Tx, pm *PaymentMethod) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO payment_method (name, description, is_active, requires_reference)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id_payment_method, created_at, updated_at`,
		pm.Name, pm.Description, pm.IsActive, pm.RequiresReference,
	).Scan(&pm.ID, &pm.CreatedAt, &pm.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert payment method: %w", err)
	}
	return nil
}

func (pgStore) Update(ctx context.Context, tx pgx.Tx, pm *PaymentMethod) error {
	tag, err := tx.Exec(ctx,
		`UPDATE payment_method
		 SET name = $2, description = $3, is_active = $4, requires_reference = $5, updated_at = now()
		 WHERE id_payment_method = $1`,
		pm.ID, pm.Name, pm.Description, pm.IsActive, pm.RequiresReference,
	)
	if err != nil {
		return fmt.Errorf("update payment method: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (pgStore) Deactivate(ctx context.Context, tx pgx.Tx, id int32) error {
	tag, err := tx.Exec(ctx,
		`UPDATE payment_method SET is_active = false, updated_at = now()
		 WHERE id_payment_method = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate payment method: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
