package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/hotelops-api/internal/application/dto"
	"github.com/tu-usuario/hotelops-api/internal/domain"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// respondError mapea los errores sentinela del dominio a códigos HTTP. Los
// usecases envuelven con %w, así que la comparación es con errors.Is.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrInsufficientAvailable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_AVAILABLE", Message: "disponible insuficiente (stock reservado)"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autenticado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toScope(in dto.ScopeDTO) entity.Scope {
	return entity.Scope{DepartmentID: in.DepartmentID, SectionID: in.SectionID}
}

func toScopeDTO(s entity.Scope) dto.ScopeDTO {
	return dto.ScopeDTO{DepartmentID: s.DepartmentID, SectionID: s.SectionID}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func toBalanceResponse(b *entity.Balance) dto.BalanceResponse {
	return dto.BalanceResponse{
		Scope:     toScopeDTO(b.Scope),
		ItemID:    b.ItemID,
		Quantity:  b.Quantity,
		Reserved:  b.Reserved,
		Available: b.Available(),
		UpdatedAt: b.UpdatedAt,
	}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:         m.ID,
		Scope:      toScopeDTO(m.Scope),
		ItemID:     m.ItemID,
		Kind:       m.Kind,
		Quantity:   m.Quantity,
		Reason:     m.Reason,
		Reference:  m.Reference,
		OccurredAt: m.OccurredAt,
		CreatedBy:  m.CreatedBy,
	}
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	items := make([]dto.TransferItemDTO, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, dto.TransferItemDTO{ItemID: it.ItemID, Quantity: it.Quantity})
	}
	return dto.TransferResponse{
		ID:        t.ID,
		FromScope: toScopeDTO(t.FromScope),
		ToScope:   toScopeDTO(t.ToScope),
		Items:     items,
		Status:    t.Status,
		Reason:    t.Reason,
		CreatedAt: t.CreatedAt,
		CreatedBy: t.CreatedBy,
	}
}

func toUnitResponse(u *entity.Unit) dto.UnitResponse {
	return dto.UnitResponse{
		ID:              u.ID,
		RoomTypeID:      u.RoomTypeID,
		Number:          u.Number,
		Floor:           u.Floor,
		Status:          u.Status,
		StatusUpdatedAt: u.StatusUpdatedAt,
		Notes:           u.Notes,
	}
}

func toHistoryResponse(h *entity.UnitStatusHistory) dto.UnitHistoryResponse {
	return dto.UnitHistoryResponse{
		ID:             h.ID,
		UnitID:         h.UnitID,
		PreviousStatus: h.PreviousStatus,
		NewStatus:      h.NewStatus,
		Event:          h.Event,
		Reason:         h.Reason,
		ChangedBy:      h.ChangedBy,
		ChangedAt:      h.ChangedAt,
	}
}

func toCleaningTaskResponse(t *entity.CleaningTask) dto.CleaningTaskResponse {
	return dto.CleaningTaskResponse{
		ID:          t.ID,
		UnitID:      t.UnitID,
		Status:      t.Status,
		Priority:    t.Priority,
		AssignedTo:  t.AssignedTo,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
		InspectedAt: t.InspectedAt,
	}
}

func toMaintenanceResponse(m *entity.MaintenanceRequest) dto.MaintenanceRequestResponse {
	return dto.MaintenanceRequestResponse{
		ID:          m.ID,
		UnitID:      m.UnitID,
		Status:      m.Status,
		Priority:    m.Priority,
		ReportedBy:  m.ReportedBy,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		ResolvedAt:  m.ResolvedAt,
		VerifiedAt:  m.VerifiedAt,
	}
}

func toReservationResponse(r *entity.Reservation) dto.ReservationResponse {
	return dto.ReservationResponse{
		ID:           r.ID,
		UnitID:       r.UnitID,
		GuestID:      r.GuestID,
		CheckInDate:  r.CheckInDate,
		CheckOutDate: r.CheckOutDate,
		Status:       r.Status,
		TotalPrice:   r.TotalPrice,
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
	}
}
