package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/hotelops-api/internal/application/dto"
	"github.com/tu-usuario/hotelops-api/internal/application/transfer"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
)

// TransferHandler maneja las peticiones HTTP de traslados entre scopes (protegido).
type TransferHandler struct {
	uc *transfer.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Crear traslado multi-ítem entre scopes
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "from_scope, to_scope, items"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]entity.TransferItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, entity.TransferItem{ItemID: it.ItemID, Quantity: it.Quantity})
	}
	t, err := h.uc.Create(c.Context(), transfer.CreateInput{
		FromScope: toScope(in.FromScope),
		ToScope:   toScope(in.ToScope),
		Items:     items,
		Reason:    in.Reason,
		ActorID:   GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferResponse(t))
}

// Approve godoc
// @Summary      Aprobar y aplicar un traslado (atómico, exactamente una vez)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/approve [post]
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	t, err := h.uc.Approve(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTransferResponse(t))
}

// Reject godoc
// @Summary      Rechazar un traslado pendiente
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	if err := h.uc.Reject(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Consultar un traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	t, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTransferResponse(t))
}

// List godoc
// @Summary      Listar traslados por estado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending|approved|completed|rejected"
// @Success      200  {array}  dto.TransferResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()
	list, err := h.uc.ListByStatus(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTransferResponse(t))
	}
	return c.JSON(out)
}
