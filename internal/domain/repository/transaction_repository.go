package repository

import (
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// TransactionRepository define el puerto de persistencia para el kardex.
// Los métodos Get* devuelven (nil, nil) cuando el registro no existe.
type TransactionRepository interface {
	// Create persiste la transacción y asigna ID (BIGSERIAL) y CreatedAt.
	Create(tx *entity.Transaction) error
	// GetByIDAndUser obtiene una transacción con scope de propietario.
	GetByIDAndUser(id int64, userID string) (*entity.Transaction, error)
	// ListByUser lista las transacciones del usuario ordenadas por
	// transaction_datetime ASC con desempate por id ASC. txType filtra por
	// purchase|sale; vacío lista todas.
	ListByUser(userID, txType string) ([]*entity.Transaction, error)
	// ListPurchasesUpTo devuelve las compras del (usuario, producto) con
	// transaction_datetime <= cutoff: el conjunto sobre el que se acumula el
	// costo promedio ponderado.
	ListPurchasesUpTo(userID, productID string, cutoff time.Time) ([]*entity.Transaction, error)
	// Update persiste los campos mutables de la transacción (scope por propietario).
	Update(tx *entity.Transaction) error
	// Delete elimina la transacción (hard delete, scope por propietario).
	Delete(id int64, userID string) error
}
