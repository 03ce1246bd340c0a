package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/costing"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Mensajes de validación por campo (se devuelven tal cual al cliente).
const (
	msgTypeInvalid       = "tipo de transacción inválido: debe ser purchase o sale"
	msgProductNotFound   = "producto no encontrado"
	msgProductRequired   = "product_id es requerido"
	msgQuantityPositive  = "la cantidad debe ser mayor que 0"
	msgUnitPricePositive = "el precio unitario debe ser mayor que 0"
	msgDatetimeRequired  = "transaction_datetime es requerido"
	msgDatetimeFuture    = "la fecha de la transacción no puede ser futura"
)

// TransactionUseCase es el ciclo de vida del kardex: valida y persiste
// creaciones, ediciones parciales y borrados, y deriva el costo (WAC) en cada
// lectura delegando en internal/domain/costing.
//
// Ninguna operación toca los campos guardados de OTRAS transacciones: la
// autocorrección retroactiva del costo es pura derivación en lectura.
type TransactionUseCase struct {
	txRunner    TxRunner
	txRepo      repository.TransactionRepository // lecturas fuera de transacción
	productRepo repository.ProductRepository
	clock       Clock
}

// NewTransactionUseCase construye el caso de uso. clock nil usa SystemClock.
func NewTransactionUseCase(
	txRunner TxRunner,
	txRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	clock Clock,
) *TransactionUseCase {
	if clock == nil {
		clock = SystemClock{}
	}
	return &TransactionUseCase{
		txRunner:    txRunner,
		txRepo:      txRepo,
		productRepo: productRepo,
		clock:       clock,
	}
}

// Create valida y registra una transacción. total_price = quantity * unit_price
// se calcula al guardar, no en lecturas. Los errores de validación se acumulan
// por campo y se devuelven todos juntos (domain.FieldErrors).
func (uc *TransactionUseCase) Create(ctx context.Context, userID string, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	fieldErrs := domain.FieldErrors{}

	if !entity.ValidTransactionType(in.TransactionType) {
		fieldErrs["transaction_type"] = msgTypeInvalid
	}

	var product *entity.Product
	if in.ProductID == "" {
		fieldErrs["product_id"] = msgProductRequired
	} else {
		p, err := uc.productRepo.GetByID(in.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			fieldErrs["product_id"] = msgProductNotFound
		}
		product = p
	}

	if in.Quantity <= 0 {
		fieldErrs["quantity"] = msgQuantityPositive
	}
	if !in.UnitPrice.GreaterThan(decimal.Zero) {
		fieldErrs["unit_price"] = msgUnitPricePositive
	}
	if in.TransactionDatetime.IsZero() {
		fieldErrs["transaction_datetime"] = msgDatetimeRequired
	} else if in.TransactionDatetime.After(uc.clock.Now()) {
		fieldErrs["transaction_datetime"] = msgDatetimeFuture
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	tx := &entity.Transaction{
		UserID:              userID,
		Type:                in.TransactionType,
		ProductID:           in.ProductID,
		ProductName:         product.Name,
		Quantity:            in.Quantity,
		UnitPrice:           in.UnitPrice,
		TransactionDatetime: in.TransactionDatetime,
		CreatedAt:           uc.clock.Now(),
	}
	tx.TotalPrice = tx.ComputeTotalPrice()

	// validar + calcular + persistir es todo-o-nada
	if err := uc.txRunner.Run(ctx, func(txRepo repository.TransactionRepository) error {
		return txRepo.Create(tx)
	}); err != nil {
		return nil, err
	}
	return uc.toResponse(tx)
}

// Update aplica un parche tipado sobre una transacción del usuario. Cada campo
// presente se revalida con las mismas reglas de Create; si cambian quantity o
// unit_price se recalcula total_price. La fecha resultante se revalida contra
// el reloj en el momento del update. Scope por propietario: si el id no existe
// o pertenece a otro usuario, ErrNotFound (sin distinguir, para no filtrar
// la existencia de registros ajenos).
func (uc *TransactionUseCase) Update(ctx context.Context, userID string, id int64, in dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	tx, err := uc.txRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}

	fieldErrs := domain.FieldErrors{}

	newType := tx.Type
	if in.TransactionType != nil {
		// Cambiar el tipo está permitido; una venta convertida en compra (o al
		// revés) modifica la base de costo de todo el kardex en las próximas
		// lecturas. Es el comportamiento documentado, no lo prohibimos aquí.
		if !entity.ValidTransactionType(*in.TransactionType) {
			fieldErrs["transaction_type"] = msgTypeInvalid
		} else {
			newType = *in.TransactionType
		}
	}

	newProductID := tx.ProductID
	newProductName := tx.ProductName
	if in.ProductID != nil {
		if *in.ProductID == "" {
			fieldErrs["product_id"] = msgProductRequired
		} else {
			p, err := uc.productRepo.GetByID(*in.ProductID)
			if err != nil {
				return nil, err
			}
			if p == nil {
				fieldErrs["product_id"] = msgProductNotFound
			} else {
				newProductID = p.ID
				newProductName = p.Name
			}
		}
	}

	newQuantity := tx.Quantity
	if in.Quantity != nil {
		if *in.Quantity <= 0 {
			fieldErrs["quantity"] = msgQuantityPositive
		} else {
			newQuantity = *in.Quantity
		}
	}

	newUnitPrice := tx.UnitPrice
	if in.UnitPrice != nil {
		if !in.UnitPrice.GreaterThan(decimal.Zero) {
			fieldErrs["unit_price"] = msgUnitPricePositive
		} else {
			newUnitPrice = *in.UnitPrice
		}
	}

	newDatetime := tx.TransactionDatetime
	if in.TransactionDatetime != nil {
		newDatetime = *in.TransactionDatetime
	}
	if newDatetime.After(uc.clock.Now()) {
		fieldErrs["transaction_datetime"] = msgDatetimeFuture
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	tx.Type = newType
	tx.ProductID = newProductID
	tx.ProductName = newProductName
	tx.Quantity = newQuantity
	tx.UnitPrice = newUnitPrice
	tx.TransactionDatetime = newDatetime
	if in.Quantity != nil || in.UnitPrice != nil {
		tx.TotalPrice = tx.ComputeTotalPrice()
	}

	if err := uc.txRunner.Run(ctx, func(txRepo repository.TransactionRepository) error {
		return txRepo.Update(tx)
	}); err != nil {
		return nil, err
	}
	return uc.toResponse(tx)
}

// Delete elimina (hard delete) una transacción del usuario. ErrNotFound si no
// existe o no le pertenece.
func (uc *TransactionUseCase) Delete(ctx context.Context, userID string, id int64) error {
	tx, err := uc.txRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return err
	}
	if tx == nil {
		return domain.ErrNotFound
	}
	return uc.txRunner.Run(ctx, func(txRepo repository.TransactionRepository) error {
		return txRepo.Delete(id, userID)
	})
}

// Get devuelve una transacción del usuario con su costo derivado.
func (uc *TransactionUseCase) Get(userID string, id int64) (*dto.TransactionResponse, error) {
	tx, err := uc.txRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(tx)
}

// List devuelve las transacciones del usuario (txType purchase|sale filtra,
// vacío lista todas), ordenadas por transaction_datetime ASC con desempate por
// id ASC, cada una con su costo derivado a su fecha.
func (uc *TransactionUseCase) List(userID, txType string) ([]dto.TransactionResponse, error) {
	txs, err := uc.txRepo.ListByUser(userID, txType)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		r, err := uc.toResponse(tx)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

// toResponse deriva el costo de la transacción consultando el historial de
// compras a su fecha y aplicando el motor WAC. Una consulta por transacción:
// O(P) por lectura, a propósito (ver internal/domain/costing).
func (uc *TransactionUseCase) toResponse(tx *entity.Transaction) (*dto.TransactionResponse, error) {
	purchases, err := uc.txRepo.ListPurchasesUpTo(tx.UserID, tx.ProductID, tx.TransactionDatetime)
	if err != nil {
		return nil, err
	}
	return &dto.TransactionResponse{
		ID:                  tx.ID,
		TransactionType:     tx.Type,
		ProductID:           tx.ProductID,
		ProductName:         tx.ProductName,
		Quantity:            tx.Quantity,
		UnitPrice:           tx.UnitPrice,
		TotalPrice:          tx.TotalPrice,
		TransactionDatetime: tx.TransactionDatetime,
		Cost:                costing.Cost(tx, purchases),
		CreatedAt:           tx.CreatedAt,
	}, nil
}
