package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/hotelops-api/internal/application/dto"
	"github.com/tu-usuario/hotelops-api/internal/application/ledger"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
)

// LedgerHandler maneja las peticiones HTTP del ledger de inventario (protegido).
type LedgerHandler struct {
	uc *ledger.UseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *ledger.UseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// scopeFromQuery arma el scope desde query params: department_id obligatorio,
// section_id opcional.
func scopeFromQuery(c *fiber.Ctx) entity.Scope {
	if sectionID := c.Query("section_id"); sectionID != "" {
		return entity.NewSectionScope(c.Query("department_id"), sectionID)
	}
	return entity.NewDepartmentScope(c.Query("department_id"))
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "scope, item_id, kind (in|out|adjustment|loss), quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/movements [post]
func (h *LedgerHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.RegisterMovement(c.Context(), ledger.MovementInput{
		Scope:         toScope(in.Scope),
		ItemID:        in.ItemID,
		Kind:          in.Kind,
		Quantity:      in.Quantity,
		Reason:        in.Reason,
		Reference:     in.Reference,
		ActorID:       GetUserID(c),
		AllowNegative: in.AllowNegative,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// GetBalance godoc
// @Summary      Consultar saldo de un ítem en un scope
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        department_id  query  string  true   "Departamento"
// @Param        section_id     query  string  false  "Sección (vacío = nivel departamento)"
// @Success      200  {object}  dto.BalanceResponse
// @Router       /api/ledger/balances/{item_id} [get]
func (h *LedgerHandler) GetBalance(c *fiber.Ctx) error {
	balance, err := h.uc.GetBalance(c.Context(), scopeFromQuery(c), c.Params("item_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBalanceResponse(balance))
}

// ListBalances godoc
// @Summary      Listar saldos de un scope
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BalanceResponse
// @Router       /api/ledger/balances [get]
func (h *LedgerHandler) ListBalances(c *fiber.Ctx) error {
	balances, err := h.uc.ListBalances(c.Context(), scopeFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, toBalanceResponse(b))
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos por scope, ítem y rango de fechas
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  false  "Filtrar por ítem"
// @Param        from     query  string  false  "RFC3339"
// @Param        to       query  string  false  "RFC3339"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/ledger/movements [get]
func (h *LedgerHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()

	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from debe ser RFC3339"})
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to debe ser RFC3339"})
		}
		to = &t
	}

	movs, err := h.uc.ListMovements(c.Context(), scopeFromQuery(c), c.Query("item_id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

// Reserve godoc
// @Summary      Apartar stock sin moverlo (soft reservation)
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveRequest  true  "scope, item_id, quantity"
// @Success      201   {object}  dto.ReserveResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/reservations [post]
func (h *LedgerHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	token, err := h.uc.Reserve(c.Context(), toScope(in.Scope), in.ItemID, in.Quantity, in.Reference)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReserveResponse{Token: token})
}

// Release godoc
// @Summary      Liberar un apartado de stock (idempotente)
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Success      204
// @Router       /api/ledger/reservations/{token} [delete]
func (h *LedgerHandler) Release(c *fiber.Ctx) error {
	if err := h.uc.Release(c.Context(), c.Params("token")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reconcile godoc
// @Summary      Reconciliar el saldo de un ítem contra la suma del log
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        department_id  query  string  true  "Departamento"
// @Param        item_id        query  string  true  "Ítem"
// @Success      200  {object}  dto.ReconcileResponse
// @Router       /api/ledger/reconcile [get]
func (h *LedgerHandler) Reconcile(c *fiber.Ctx) error {
	result, err := h.uc.Reconcile(c.Context(), scopeFromQuery(c), c.Query("item_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReconcileResponse{
		Scope:           toScopeDTO(result.Scope),
		ItemID:          result.ItemID,
		BalanceQuantity: result.BalanceQuantity,
		MovementSum:     result.MovementSum,
		Consistent:      result.Consistent(),
	})
}
