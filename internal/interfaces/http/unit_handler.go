package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/hotelops-api/internal/application/dto"
	"github.com/tu-usuario/hotelops-api/internal/application/lifecycle"
)

// UnitHandler maneja el ciclo de vida de unidades y sus tareas (protegido).
type UnitHandler struct {
	uc *lifecycle.UseCase
}

// NewUnitHandler construye el handler.
func NewUnitHandler(uc *lifecycle.UseCase) *UnitHandler {
	return &UnitHandler{uc: uc}
}

// GetByID godoc
// @Summary      Consultar una unidad y su estado operativo
// @Tags         units
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UnitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/units/{id} [get]
func (h *UnitHandler) GetByID(c *fiber.Ctx) error {
	unit, err := h.uc.GetUnit(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toUnitResponse(unit))
}

// Transition godoc
// @Summary      Aplicar un evento del ciclo de vida a la unidad
// @Description  Eventos: check_in, check_out, cleaning_done, maintenance_request,
//               maintenance_verified, block, unblock. Un evento no permitido
//               desde el estado actual devuelve 409 sin tocar nada.
// @Tags         units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransitionRequest  true  "event, reason"
// @Success      200   {object}  dto.UnitResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/units/{id}/transitions [post]
func (h *UnitHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	unitID := c.Params("id")
	if err := h.uc.Transition(c.Context(), unitID, in.Event, GetUserID(c), in.Reason); err != nil {
		return respondError(c, err)
	}
	unit, err := h.uc.GetUnit(c.Context(), unitID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toUnitResponse(unit))
}

// History godoc
// @Summary      Historial de transiciones de la unidad
// @Tags         units
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UnitHistoryResponse
// @Router       /api/units/{id}/history [get]
func (h *UnitHandler) History(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()
	history, err := h.uc.History(c.Context(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.UnitHistoryResponse, 0, len(history))
	for _, hr := range history {
		out = append(out, toHistoryResponse(hr))
	}
	return c.JSON(out)
}

// ListCleaningTasks godoc
// @Summary      Tareas de limpieza abiertas de la unidad
// @Tags         housekeeping
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CleaningTaskResponse
// @Router       /api/units/{id}/cleaning-tasks [get]
func (h *UnitHandler) ListCleaningTasks(c *fiber.Ctx) error {
	tasks, err := h.uc.ListOpenCleaning(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CleaningTaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toCleaningTaskResponse(t))
	}
	return c.JSON(out)
}

// ListMaintenanceRequests godoc
// @Summary      Solicitudes de mantenimiento abiertas de la unidad
// @Tags         maintenance
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MaintenanceRequestResponse
// @Router       /api/units/{id}/maintenance-requests [get]
func (h *UnitHandler) ListMaintenanceRequests(c *fiber.Ctx) error {
	requests, err := h.uc.ListOpenMaintenance(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MaintenanceRequestResponse, 0, len(requests))
	for _, m := range requests {
		out = append(out, toMaintenanceResponse(m))
	}
	return c.JSON(out)
}

// StartCleaning godoc
// @Summary      Pasar una tarea de limpieza a IN_PROGRESS
// @Tags         housekeeping
// @Security     Bearer
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cleaning-tasks/{id}/start [post]
func (h *UnitHandler) StartCleaning(c *fiber.Ctx) error {
	if err := h.uc.StartCleaning(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CompleteCleaning godoc
// @Summary      Marcar una tarea de limpieza como COMPLETED
// @Tags         housekeeping
// @Security     Bearer
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cleaning-tasks/{id}/complete [post]
func (h *UnitHandler) CompleteCleaning(c *fiber.Ctx) error {
	if err := h.uc.CompleteCleaning(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// InspectCleaning godoc
// @Summary      Inspeccionar y cerrar una tarea de limpieza
// @Description  Si era la última tarea abierta y no hay mantenimiento pendiente,
//               la unidad vuelve a AVAILABLE en la misma transacción.
// @Tags         housekeeping
// @Security     Bearer
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cleaning-tasks/{id}/inspect [post]
func (h *UnitHandler) InspectCleaning(c *fiber.Ctx) error {
	if err := h.uc.InspectCleaning(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// StartMaintenance godoc
// @Summary      Pasar una solicitud de mantenimiento a IN_PROGRESS
// @Tags         maintenance
// @Security     Bearer
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/maintenance-requests/{id}/start [post]
func (h *UnitHandler) StartMaintenance(c *fiber.Ctx) error {
	if err := h.uc.StartMaintenance(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ResolveMaintenance godoc
// @Summary      Marcar una solicitud de mantenimiento como RESOLVED
// @Tags         maintenance
// @Security     Bearer
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/maintenance-requests/{id}/resolve [post]
func (h *UnitHandler) ResolveMaintenance(c *fiber.Ctx) error {
	if err := h.uc.ResolveMaintenance(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// VerifyMaintenance godoc
// @Summary      Verificar y cerrar una solicitud de mantenimiento
// @Description  Si era la última abierta y la unidad estaba en MAINTENANCE,
//               vuelve a AVAILABLE en la misma transacción.
// @Tags         maintenance
// @Security     Bearer
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/maintenance-requests/{id}/verify [post]
func (h *UnitHandler) VerifyMaintenance(c *fiber.Ctx) error {
	if err := h.uc.VerifyMaintenance(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
