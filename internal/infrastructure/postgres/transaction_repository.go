package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del puerto TransactionRepository sobre
// PostgreSQL (usable con pool o tx). Las lecturas hacen JOIN con products para
// poblar ProductName; el costo NO vive en esta tabla, se deriva en el caso de uso.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const transactionColumns = `
	t.id, t.user_id, t.transaction_type, t.product_id, p.name,
	t.quantity, t.unit_price, t.total_price, t.transaction_datetime, t.created_at`

// Create persiste la transacción; el id lo asigna la secuencia (BIGSERIAL),
// que es lo que da el desempate determinista por orden de inserción.
func (r *TransactionRepo) Create(tx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, transaction_type, product_id, quantity, unit_price, total_price, transaction_datetime, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		tx.UserID, tx.Type, tx.ProductID, tx.Quantity, tx.UnitPrice, tx.TotalPrice,
		tx.TransactionDatetime, tx.CreatedAt,
	).Scan(&tx.ID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByIDAndUser obtiene una transacción con scope de propietario. (nil, nil) si no existe.
func (r *TransactionRepo) GetByIDAndUser(id int64, userID string) (*entity.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN products p ON p.id = t.product_id
		WHERE t.id = $1 AND t.user_id = $2`
	tx, err := scanTransaction(r.q.QueryRow(context.Background(), query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// ListByUser lista las transacciones del usuario. El ORDER BY fija el contrato
// de ordenamiento del kardex: fecha del hecho ASC y, a igual fecha, id ASC.
func (r *TransactionRepo) ListByUser(userID, txType string) ([]*entity.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN products p ON p.id = t.product_id
		WHERE t.user_id = $1`
	args := []any{userID}
	if txType != "" {
		query += " AND t.transaction_type = $2"
		args = append(args, txType)
	}
	query += " ORDER BY t.transaction_datetime ASC, t.id ASC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListPurchasesUpTo devuelve las compras del (usuario, producto) con fecha <=
// cutoff, inclusive: la base de acumulación del promedio ponderado.
func (r *TransactionRepo) ListPurchasesUpTo(userID, productID string, cutoff time.Time) ([]*entity.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN products p ON p.id = t.product_id
		WHERE t.user_id = $1 AND t.product_id = $2
		  AND t.transaction_type = 'purchase'
		  AND t.transaction_datetime <= $3
		ORDER BY t.transaction_datetime ASC, t.id ASC`
	rows, err := r.q.Query(context.Background(), query, userID, productID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list purchases up to: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// Update persiste los campos mutables, con scope de propietario en el WHERE.
func (r *TransactionRepo) Update(tx *entity.Transaction) error {
	query := `
		UPDATE transactions
		SET transaction_type = $3, product_id = $4, quantity = $5, unit_price = $6, total_price = $7, transaction_datetime = $8
		WHERE id = $1 AND user_id = $2`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.UserID, tx.Type, tx.ProductID, tx.Quantity, tx.UnitPrice, tx.TotalPrice,
		tx.TransactionDatetime,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

// Delete elimina la transacción (hard delete), con scope de propietario.
func (r *TransactionRepo) Delete(id int64, userID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var t entity.Transaction
	err := row.Scan(
		&t.ID, &t.UserID, &t.Type, &t.ProductID, &t.ProductName,
		&t.Quantity, &t.UnitPrice, &t.TotalPrice, &t.TransactionDatetime, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTransactions(rows pgx.Rows) ([]*entity.Transaction, error) {
	var list []*entity.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
