package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del kardex.
const (
	TransactionTypePurchase = "purchase" // compra: aporta base de costo
	TransactionTypeSale     = "sale"     // venta: consume al costo promedio
)

// ValidTransactionType indica si s es un tipo de transacción conocido.
func ValidTransactionType(s string) bool {
	return s == TransactionTypePurchase || s == TransactionTypeSale
}

// Transaction representa un asiento del kardex de un usuario: una compra o una
// venta de un producto. El costo NUNCA se guarda aquí: se deriva en lectura a
// partir del historial de compras (ver internal/domain/costing), de modo que
// insertar una compra retroactiva corrige el costo de las ventas posteriores
// sin ningún paso de propagación.
//
// ID es BIGSERIAL: el orden de inserción sirve de desempate determinista
// cuando dos asientos comparten TransactionDatetime.
type Transaction struct {
	ID                  int64
	UserID              string
	Type                string // purchase | sale
	ProductID           string
	ProductName         string          // derivado (JOIN en lecturas), no se persiste
	Quantity            int64           // unidades, siempre > 0
	UnitPrice           decimal.Decimal // siempre > 0, 2 decimales
	TotalPrice          decimal.Decimal // Quantity * UnitPrice al guardar; solo cambia si se editan esos campos
	TransactionDatetime time.Time       // fecha real del hecho; clave de ordenamiento del costeo
	CreatedAt           time.Time       // fecha de registro, solo auditoría
}

// ComputeTotalPrice devuelve Quantity * UnitPrice.
func (t *Transaction) ComputeTotalPrice() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(t.Quantity))
}
