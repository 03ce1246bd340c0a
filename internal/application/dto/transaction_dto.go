package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransactionRequest body para POST /api/transactions.
type CreateTransactionRequest struct {
	TransactionType     string          `json:"transaction_type"`
	ProductID           string          `json:"product_id"`
	Quantity            int64           `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	TransactionDatetime time.Time       `json:"transaction_datetime"`
}

// UpdateTransactionRequest body para PATCH /api/transactions/:id.
// Parche tipado: solo los campos presentes se aplican, cada uno se revalida
// con las mismas reglas de la creación. Nada de mutación dinámica de campos.
type UpdateTransactionRequest struct {
	TransactionType     *string          `json:"transaction_type,omitempty"`
	ProductID           *string          `json:"product_id,omitempty"`
	Quantity            *int64           `json:"quantity,omitempty"`
	UnitPrice           *decimal.Decimal `json:"unit_price,omitempty"`
	TransactionDatetime *time.Time       `json:"transaction_datetime,omitempty"`
}

// TransactionResponse salida de una transacción. Cost se deriva en cada
// lectura (WAC a la fecha del asiento); no existe en la base de datos.
type TransactionResponse struct {
	ID                  int64           `json:"id"`
	TransactionType     string          `json:"transaction_type"`
	ProductID           string          `json:"product_id"`
	ProductName         string          `json:"product_name"`
	Quantity            int64           `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	TotalPrice          decimal.Decimal `json:"total_price"`
	TransactionDatetime time.Time       `json:"transaction_datetime"`
	Cost                decimal.Decimal `json:"cost"`
	CreatedAt           time.Time       `json:"created_at"`
}

// TransactionListResponse salida de GET /api/transactions.
type TransactionListResponse struct {
	Count        int                   `json:"count"`
	Transactions []TransactionResponse `json:"transactions"`
}

// PurchaseListResponse salida de GET /api/transactions/purchases.
type PurchaseListResponse struct {
	Count     int                   `json:"count"`
	Purchases []TransactionResponse `json:"purchases"`
}

// SaleListResponse salida de GET /api/transactions/sales.
type SaleListResponse struct {
	Count int                   `json:"count"`
	Sales []TransactionResponse `json:"sales"`
}

// MessageTransactionResponse salida de POST/PATCH: mensaje + transacción.
type MessageTransactionResponse struct {
	Message     string              `json:"message"`
	Transaction TransactionResponse `json:"transaction"`
}
