package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// TransactionHandler maneja las peticiones HTTP del kardex (protegido).
type TransactionHandler struct {
	uc *usecase.TransactionUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc *usecase.TransactionUseCase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar transacción (compra o venta)
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "Datos de la transacción"
// @Success      201   {object}  dto.MessageTransactionResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id requerido"})
	}
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.UserContext(), userID, in)
	if err != nil {
		return writeTransactionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageTransactionResponse{
		Message:     "transacción registrada",
		Transaction: *out,
	})
}

// List godoc
// @Summary      Listar transacciones del usuario
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TransactionListResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id requerido"})
	}
	out, err := h.uc.List(userID, "")
	if err != nil {
		return writeTransactionError(c, err)
	}
	return c.JSON(dto.TransactionListResponse{Count: len(out), Transactions: out})
}

// Purchases godoc
// @Summary      Listar solo las compras del usuario
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PurchaseListResponse
// @Router       /api/transactions/purchases [get]
func (h *TransactionHandler) Purchases(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id requerido"})
	}
	out, err := h.uc.List(userID, entity.TransactionTypePurchase)
	if err != nil {
		return writeTransactionError(c, err)
	}
	return c.JSON(dto.PurchaseListResponse{Count: len(out), Purchases: out})
}

// Sales godoc
// @Summary      Listar solo las ventas del usuario
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/transactions/sales [get]
func (h *TransactionHandler) Sales(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id requerido"})
	}
	out, err := h.uc.List(userID, entity.TransactionTypeSale)
	if err != nil {
		return writeTransactionError(c, err)
	}
	return c.JSON(dto.SaleListResponse{Count: len(out), Sales: out})
}

// GetByID godoc
// @Summary      Obtener una transacción por ID
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id requerido"})
	}
	id, err := parseTransactionID(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "transacción no encontrada"})
	}
	out, err := h.uc.Get(userID, id)
	if err != nil {
		return writeTransactionError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar parcialmente una transacción
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la transacción"
// @Param        body  body  dto.UpdateTransactionRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.MessageTransactionResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [patch]
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id requerido"})
	}
	id, err := parseTransactionID(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "transacción no encontrada"})
	}
	var in dto.UpdateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.UserContext(), userID, id, in)
	if err != nil {
		return writeTransactionError(c, err)
	}
	return c.JSON(dto.MessageTransactionResponse{
		Message:     "transacción actualizada",
		Transaction: *out,
	})
}

// Delete godoc
// @Summary      Eliminar una transacción
// @Tags         transactions
// @Security     Bearer
// @Param        id  path  int  true  "ID de la transacción"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id requerido"})
	}
	id, err := parseTransactionID(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "transacción no encontrada"})
	}
	if err := h.uc.Delete(c.UserContext(), userID, id); err != nil {
		return writeTransactionError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseTransactionID lee el :id numérico de la ruta. Un id mal formado se
// trata igual que uno inexistente.
func parseTransactionID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

// writeTransactionError mapea errores del caso de uso a HTTP: validación por
// campo a 400, no encontrado (incluye registros de otros usuarios) a 404.
func writeTransactionError(c *fiber.Ctx, err error) error {
	if fieldErrs, ok := domain.AsFieldErrors(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{Code: "VALIDATION", Errors: fieldErrs})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "transacción no encontrada"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
