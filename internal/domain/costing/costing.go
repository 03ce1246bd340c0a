// Package costing implementa el motor de costo promedio ponderado (WAC) del
// kardex (servicio de dominio, funciones puras).
//
// El costo de una transacción se deriva SIEMPRE en lectura sobre el conjunto
// de compras del (usuario, producto) con fecha <= a la de la transacción;
// nunca se guarda ni se cachea. Es un scan O(P) por lectura y es deliberado:
// al no existir un costo materializado, una compra retroactiva, una edición o
// un borrado corrigen por sí solos el costo de toda venta posterior en su
// siguiente lectura, sin pasos de recálculo en el resto del sistema.
package costing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// places decimales de la moneda. El redondeo (mitad hacia arriba) se aplica
// una sola vez, al final; la acumulación y la división van a precisión completa.
const places = 2

// AverageUnitCost calcula el costo promedio por unidad sobre el conjunto de
// compras recibido, a precisión completa (sin redondear):
//
//	avg = Σ total_price / Σ quantity
//
// Devuelve 0 si no hay unidades compradas (sin base de costo no hay promedio;
// también evita la división por cero). Las ventas no deben estar en purchases;
// la suma es independiente del orden del slice.
func AverageUnitCost(purchases []*entity.Transaction) decimal.Decimal {
	totalCost := decimal.Zero
	totalUnits := int64(0)
	for _, p := range purchases {
		totalCost = totalCost.Add(p.TotalPrice)
		totalUnits += p.Quantity
	}
	if totalUnits == 0 {
		return decimal.Zero
	}
	return totalCost.Div(decimal.NewFromInt(totalUnits))
}

// Cost calcula el atributo de costo de una transacción bajo WAC.
// purchases debe ser el conjunto de compras del mismo (usuario, producto) con
// transaction_datetime <= tx.TransactionDatetime; si tx es una compra ya
// persistida, se incluye a sí misma (corte inclusivo).
//
//   - purchase: costo promedio POR UNIDAD a esa fecha (transparencia/auditoría).
//   - sale: promedio * cantidad vendida = costo de la mercancía vendida (COGS).
//
// En ambos casos el redondeo a 2 decimales ocurre solo aquí, sobre el resultado.
func Cost(tx *entity.Transaction, purchases []*entity.Transaction) decimal.Decimal {
	avg := AverageUnitCost(purchases)
	if tx.Type == entity.TransactionTypeSale {
		return avg.Mul(decimal.NewFromInt(tx.Quantity)).Round(places)
	}
	return avg.Round(places)
}
