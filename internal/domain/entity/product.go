package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. Es periférico al kardex: las
// transacciones solo necesitan que el product_id resuelva a un producto
// existente. Price es el precio de lista, no interviene en el costeo.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
