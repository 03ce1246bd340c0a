package usecase_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: repositorio de transacciones, catálogo, TxRunner y reloj
// fijo. Reproducen el contrato de los adaptadores Postgres (orden, scope,
// corte inclusivo) sin base de datos.
// ──────────────────────────────────────────────────────────────────────────────

type memTxRepo struct {
	seq  int64
	rows map[int64]entity.Transaction
}

func newMemTxRepo() *memTxRepo {
	return &memTxRepo{rows: map[int64]entity.Transaction{}}
}

func (r *memTxRepo) Create(tx *entity.Transaction) error {
	r.seq++
	tx.ID = r.seq
	r.rows[tx.ID] = *tx
	return nil
}

func (r *memTxRepo) GetByIDAndUser(id int64, userID string) (*entity.Transaction, error) {
	row, ok := r.rows[id]
	if !ok || row.UserID != userID {
		return nil, nil
	}
	cp := row
	return &cp, nil
}

func (r *memTxRepo) ListByUser(userID, txType string) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for _, row := range r.rows {
		if row.UserID != userID {
			continue
		}
		if txType != "" && row.Type != txType {
			continue
		}
		cp := row
		out = append(out, &cp)
	}
	// transaction_datetime ASC, desempate id ASC: el contrato del adaptador SQL
	sort.Slice(out, func(i, j int) bool {
		if out[i].TransactionDatetime.Equal(out[j].TransactionDatetime) {
			return out[i].ID < out[j].ID
		}
		return out[i].TransactionDatetime.Before(out[j].TransactionDatetime)
	})
	return out, nil
}

func (r *memTxRepo) ListPurchasesUpTo(userID, productID string, cutoff time.Time) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for _, row := range r.rows {
		if row.UserID != userID || row.ProductID != productID {
			continue
		}
		if row.Type != entity.TransactionTypePurchase {
			continue
		}
		if row.TransactionDatetime.After(cutoff) {
			continue
		}
		cp := row
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memTxRepo) Update(tx *entity.Transaction) error {
	row, ok := r.rows[tx.ID]
	if !ok || row.UserID != tx.UserID {
		return nil
	}
	r.rows[tx.ID] = *tx
	return nil
}

func (r *memTxRepo) Delete(id int64, userID string) error {
	row, ok := r.rows[id]
	if ok && row.UserID == userID {
		delete(r.rows, id)
	}
	return nil
}

type memTxRunner struct {
	repo *memTxRepo
}

func (r *memTxRunner) Run(_ context.Context, fn func(repository.TransactionRepository) error) error {
	return fn(r.repo)
}

type memProductRepo struct {
	products map[string]entity.Product
}

func (r *memProductRepo) Create(p *entity.Product) error {
	r.products[p.ID] = *p
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (r *memProductRepo) GetByName(name string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.Name == name {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		cp := p
		out = append(out, &cp)
	}
	return out, nil
}

// fixedClock reloj fijo inyectado al ciclo de vida para tests deterministas.
type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUserID  = "00000000-0000-0000-0000-0000000000aa"
	otherUserID = "00000000-0000-0000-0000-0000000000bb"
	productID   = "00000000-0000-0000-0000-0000000000p1"
)

// day1 es el 1 de enero; el reloj fijo está en el día 30, así que todas las
// fechas del escenario son pasadas y válidas.
var (
	day1  = time.Date(2022, 1, 1, 10, 0, 0, 0, time.UTC)
	clock = fixedClock{now: day1.AddDate(0, 0, 29)}
)

func day(n int) time.Time { return day1.AddDate(0, 0, n-1) }

type fixture struct {
	uc     *usecase.TransactionUseCase
	txRepo *memTxRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	txRepo := newMemTxRepo()
	productRepo := &memProductRepo{products: map[string]entity.Product{
		productID: {ID: productID, Name: "ProductA", Price: decimal.RequireFromString("2.00")},
	}}
	uc := usecase.NewTransactionUseCase(&memTxRunner{repo: txRepo}, txRepo, productRepo, clock)
	return &fixture{uc: uc, txRepo: txRepo}
}

func (f *fixture) create(t *testing.T, userID, txType string, qty int64, unitPrice string, at time.Time) *dto.TransactionResponse {
	t.Helper()
	resp, err := f.uc.Create(context.Background(), userID, dto.CreateTransactionRequest{
		TransactionType:     txType,
		ProductID:           productID,
		Quantity:            qty,
		UnitPrice:           decimal.RequireFromString(unitPrice),
		TransactionDatetime: at,
	})
	require.NoError(t, err)
	return resp
}

func assertCost(t *testing.T, expected string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(got),
		"costo esperado %s, obtenido %s", expected, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_Compra_CalculaTotalYCosto(t *testing.T) {
	f := newFixture(t)
	resp := f.create(t, testUserID, entity.TransactionTypePurchase, 150, "2.00", day(1))

	assertCost(t, "300.00", resp.TotalPrice)
	assertCost(t, "2.00", resp.Cost) // costo por unidad de la propia compra
	assert.Equal(t, "ProductA", resp.ProductName)
	assert.NotZero(t, resp.ID)
}

func TestCreate_ValidacionesPorCampo(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), testUserID, dto.CreateTransactionRequest{
		TransactionType:     "swap",
		ProductID:           productID,
		Quantity:            0,
		UnitPrice:           decimal.RequireFromString("-1.00"),
		TransactionDatetime: clock.Now().Add(time.Hour), // futura
	})
	require.Error(t, err)

	fieldErrs, ok := domain.AsFieldErrors(err)
	require.True(t, ok, "la validación debe devolver domain.FieldErrors")
	assert.Contains(t, fieldErrs, "transaction_type")
	assert.Contains(t, fieldErrs, "quantity")
	assert.Contains(t, fieldErrs, "unit_price")
	assert.Contains(t, fieldErrs, "transaction_datetime")
}

func TestCreate_ProductoInexistente_ErrorDeCampo(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), testUserID, dto.CreateTransactionRequest{
		TransactionType:     entity.TransactionTypeSale,
		ProductID:           "no-existe",
		Quantity:            1,
		UnitPrice:           decimal.RequireFromString("1.00"),
		TransactionDatetime: day(1),
	})
	fieldErrs, ok := domain.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fieldErrs, "product_id")
}

func TestCreate_NoPersisteNadaSiFallaLaValidacion(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), testUserID, dto.CreateTransactionRequest{
		TransactionType:     entity.TransactionTypePurchase,
		ProductID:           productID,
		Quantity:            -5,
		UnitPrice:           decimal.RequireFromString("2.00"),
		TransactionDatetime: day(1),
	})
	require.Error(t, err)
	assert.Empty(t, f.txRepo.rows, "un fallo de validación no debe dejar escrituras parciales")
}

// ──────────────────────────────────────────────────────────────────────────────
// Costeo retroactivo: el corazón del sistema
// ──────────────────────────────────────────────────────────────────────────────

// Escenario de referencia: compra 150@2.00 día 1, venta de 5 el día 7 cuesta
// 10.00. Insertar una compra retroactiva 10@1.50 el día 5 cambia el costo de
// esa venta a 9.84 en su siguiente lectura, sin tocar sus campos guardados.
func TestCosteo_CompraRetroactivaCorrigeVentasPosteriores(t *testing.T) {
	f := newFixture(t)
	f.create(t, testUserID, entity.TransactionTypePurchase, 150, "2.00", day(1))
	venta := f.create(t, testUserID, entity.TransactionTypeSale, 5, "2.50", day(7))
	assertCost(t, "10.00", venta.Cost)

	guardadaAntes := f.txRepo.rows[venta.ID]

	// compra retroactiva: día 5, anterior a la venta ya registrada
	f.create(t, testUserID, entity.TransactionTypePurchase, 10, "1.50", day(5))

	releida, err := f.uc.Get(testUserID, venta.ID)
	require.NoError(t, err)
	assertCost(t, "9.84", releida.Cost)

	// la venta guardada no cambió: la corrección es pura derivación en lectura
	guardadaDespues := f.txRepo.rows[venta.ID]
	assert.Equal(t, guardadaAntes.Quantity, guardadaDespues.Quantity)
	assert.True(t, guardadaAntes.UnitPrice.Equal(guardadaDespues.UnitPrice))
	assert.True(t, guardadaAntes.TotalPrice.Equal(guardadaDespues.TotalPrice))
	assert.True(t, guardadaAntes.TransactionDatetime.Equal(guardadaDespues.TransactionDatetime))
}

func TestCosteo_BorrarCompraRetiraSuAporte(t *testing.T) {
	f := newFixture(t)
	f.create(t, testUserID, entity.TransactionTypePurchase, 150, "2.00", day(1))
	retro := f.create(t, testUserID, entity.TransactionTypePurchase, 10, "1.50", day(5))
	venta := f.create(t, testUserID, entity.TransactionTypeSale, 5, "2.50", day(7))
	assertCost(t, "9.84", venta.Cost)

	require.NoError(t, f.uc.Delete(context.Background(), testUserID, retro.ID))

	releida, err := f.uc.Get(testUserID, venta.ID)
	require.NoError(t, err)
	assertCost(t, "10.00", releida.Cost)
}

func TestCosteo_VentaSinComprasPrevias_CostoCero(t *testing.T) {
	f := newFixture(t)
	// la única compra es POSTERIOR a la venta: no entra en el corte
	f.create(t, testUserID, entity.TransactionTypePurchase, 10, "2.00", day(9))
	venta := f.create(t, testUserID, entity.TransactionTypeSale, 3, "2.50", day(2))
	assertCost(t, "0.00", venta.Cost)
}

func TestCosteo_KardexAisladoPorUsuario(t *testing.T) {
	f := newFixture(t)
	f.create(t, otherUserID, entity.TransactionTypePurchase, 100, "9.99", day(1))
	f.create(t, testUserID, entity.TransactionTypePurchase, 10, "2.00", day(2))
	venta := f.create(t, testUserID, entity.TransactionTypeSale, 2, "2.50", day(3))
	// 2 * 2.00; las compras del otro usuario no cuentan
	assertCost(t, "4.00", venta.Cost)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_CantidadRecalculaSoloSuTotal(t *testing.T) {
	f := newFixture(t)
	compra := f.create(t, testUserID, entity.TransactionTypePurchase, 150, "2.00", day(1))
	venta := f.create(t, testUserID, entity.TransactionTypeSale, 5, "2.50", day(7))
	ventaGuardada := f.txRepo.rows[venta.ID]

	nuevaCantidad := int64(100)
	resp, err := f.uc.Update(context.Background(), testUserID, compra.ID, dto.UpdateTransactionRequest{
		Quantity: &nuevaCantidad,
	})
	require.NoError(t, err)
	assertCost(t, "200.00", resp.TotalPrice)

	// los campos guardados de la venta no cambiaron...
	despues := f.txRepo.rows[venta.ID]
	assert.True(t, ventaGuardada.TotalPrice.Equal(despues.TotalPrice))
	// ...pero su costo derivado sí refleja la edición en la siguiente lectura
	releida, err := f.uc.Get(testUserID, venta.ID)
	require.NoError(t, err)
	assertCost(t, "10.00", releida.Cost) // 200.00 / 100 * 5
}

func TestUpdate_FechaFutura_ErrorDeCampo(t *testing.T) {
	f := newFixture(t)
	compra := f.create(t, testUserID, entity.TransactionTypePurchase, 10, "2.00", day(1))

	futura := clock.Now().Add(time.Minute)
	_, err := f.uc.Update(context.Background(), testUserID, compra.ID, dto.UpdateTransactionRequest{
		TransactionDatetime: &futura,
	})
	fieldErrs, ok := domain.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fieldErrs, "transaction_datetime")
}

func TestUpdate_DeOtroUsuario_NotFound(t *testing.T) {
	f := newFixture(t)
	compra := f.create(t, testUserID, entity.TransactionTypePurchase, 10, "2.00", day(1))

	qty := int64(5)
	_, err := f.uc.Update(context.Background(), otherUserID, compra.ID, dto.UpdateTransactionRequest{
		Quantity: &qty,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"editar un registro ajeno debe responder NotFound, sin revelar que existe")
}

// Cambiar el tipo está permitido: convertir una venta en compra amplía la base
// de costo y mueve el costo derivado de las demás ventas en su próxima lectura.
func TestUpdate_CambioDeTipo_AfectaCosteoEnLectura(t *testing.T) {
	f := newFixture(t)
	f.create(t, testUserID, entity.TransactionTypePurchase, 10, "2.00", day(1))
	movida := f.create(t, testUserID, entity.TransactionTypeSale, 10, "4.00", day(2))
	venta := f.create(t, testUserID, entity.TransactionTypeSale, 5, "2.50", day(7))
	assertCost(t, "10.00", venta.Cost) // base: solo la compra del día 1

	tipo := entity.TransactionTypePurchase
	_, err := f.uc.Update(context.Background(), testUserID, movida.ID, dto.UpdateTransactionRequest{
		TransactionType: &tipo,
	})
	require.NoError(t, err)

	releida, err := f.uc.Get(testUserID, venta.ID)
	require.NoError(t, err)
	// base ahora: 10@2.00 + 10@4.00 -> avg 3.00; venta de 5 = 15.00
	assertCost(t, "15.00", releida.Cost)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete / Get / List
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_DeOtroUsuario_NotFound(t *testing.T) {
	f := newFixture(t)
	compra := f.create(t, testUserID, entity.TransactionTypePurchase, 10, "2.00", day(1))

	err := f.uc.Delete(context.Background(), otherUserID, compra.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, sigue := f.txRepo.rows[compra.ID]
	assert.True(t, sigue, "el registro no debe borrarse")
}

func TestGet_Inexistente_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Get(testUserID, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_OrdenPorFechaConDesempatePorID(t *testing.T) {
	f := newFixture(t)
	// registradas fuera de orden cronológico, con empate exacto en day(3)
	c1 := f.create(t, testUserID, entity.TransactionTypePurchase, 1, "1.00", day(5))
	c2 := f.create(t, testUserID, entity.TransactionTypePurchase, 1, "1.00", day(3))
	c3 := f.create(t, testUserID, entity.TransactionTypePurchase, 1, "1.00", day(3))
	c4 := f.create(t, testUserID, entity.TransactionTypeSale, 1, "1.00", day(1))

	list, err := f.uc.List(testUserID, "")
	require.NoError(t, err)
	require.Len(t, list, 4)

	var ids []int64
	for i, tx := range list {
		ids = append(ids, tx.ID)
		if i > 0 {
			assert.False(t, tx.TransactionDatetime.Before(list[i-1].TransactionDatetime),
				"el listado debe ser no-decreciente por transaction_datetime")
		}
	}
	// empate en day(3): gana el id menor (orden de inserción)
	assert.Equal(t, []int64{c4.ID, c2.ID, c3.ID, c1.ID}, ids)
}

func TestList_FiltroPorTipo(t *testing.T) {
	f := newFixture(t)
	f.create(t, testUserID, entity.TransactionTypePurchase, 10, "2.00", day(1))
	f.create(t, testUserID, entity.TransactionTypeSale, 2, "2.50", day(2))
	f.create(t, testUserID, entity.TransactionTypeSale, 3, "2.50", day(3))

	compras, err := f.uc.List(testUserID, entity.TransactionTypePurchase)
	require.NoError(t, err)
	assert.Len(t, compras, 1)

	ventas, err := f.uc.List(testUserID, entity.TransactionTypeSale)
	require.NoError(t, err)
	assert.Len(t, ventas, 2)
}
