package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/hotelops-api/internal/application/admission"
	"github.com/tu-usuario/hotelops-api/internal/application/dto"
	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

// BookingHandler maneja disponibilidad y reservas (protegido).
type BookingHandler struct {
	uc *admission.UseCase
}

// NewBookingHandler construye el handler.
func NewBookingHandler(uc *admission.UseCase) *BookingHandler {
	return &BookingHandler{uc: uc}
}

// SearchAvailability godoc
// @Summary      Buscar unidades disponibles para una ventana de fechas
// @Description  Ventana semiabierta [check_in, check_out): la fecha de salida
//               no choca con una entrada el mismo día. Lectura no bloqueante:
//               la reserva re-valida el solape al crearse.
// @Tags         booking
// @Security     Bearer
// @Produce      json
// @Param        check_in      query  string  true   "YYYY-MM-DD"
// @Param        check_out     query  string  true   "YYYY-MM-DD"
// @Param        room_type_id  query  string  false  "Filtrar por tipo"
// @Param        min_capacity  query  int     false  "Capacidad mínima"
// @Success      200  {array}   dto.CandidateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/availability [get]
func (h *BookingHandler) SearchAvailability(c *fiber.Ctx) error {
	var q dto.AvailabilityQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	checkIn, err := parseDate(q.CheckIn)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "check_in debe ser YYYY-MM-DD"})
	}
	checkOut, err := parseDate(q.CheckOut)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "check_out debe ser YYYY-MM-DD"})
	}
	candidates, err := h.uc.SearchAvailability(c.Context(), checkIn, checkOut, repository.AvailabilityFilter{
		RoomTypeID:  q.RoomTypeID,
		MinCapacity: q.MinCapacity,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CandidateResponse, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, dto.CandidateResponse{
			Unit:       toUnitResponse(cand.Unit),
			RoomTypeID: cand.RoomType.ID,
			RoomType:   cand.RoomType.Name,
			Capacity:   cand.RoomType.Capacity,
			Nights:     cand.Nights,
			TotalPrice: cand.TotalPrice,
		})
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear una reserva (idempotente)
// @Description  El idempotency key viaja en el header Idempotency-Key o en el
//               body (el header gana). Reintentar con el mismo key devuelve la
//               reserva existente sin duplicar. Un solape con una reserva viva
//               devuelve 409.
// @Tags         booking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave de idempotencia"
// @Param        body  body  dto.CreateReservationRequest  true  "unit_id, guest_id, fechas"
// @Success      201   {object}  dto.ReservationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reservations [post]
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	key := c.Get("Idempotency-Key")
	if key == "" {
		key = in.IdempotencyKey
	}
	checkIn, err := parseDate(in.CheckInDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "check_in_date debe ser YYYY-MM-DD"})
	}
	checkOut, err := parseDate(in.CheckOutDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "check_out_date debe ser YYYY-MM-DD"})
	}
	reservation, err := h.uc.Create(c.Context(), admission.CreateInput{
		UnitID:         in.UnitID,
		GuestID:        in.GuestID,
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		IdempotencyKey: key,
		Notes:          in.Notes,
		ActorID:        GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toReservationResponse(reservation))
}

// GetByID godoc
// @Summary      Consultar una reserva
// @Tags         booking
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReservationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id} [get]
func (h *BookingHandler) GetByID(c *fiber.Ctx) error {
	reservation, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toReservationResponse(reservation))
}

// Confirm godoc
// @Summary      Confirmar una reserva pendiente
// @Tags         booking
// @Security     Bearer
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *fiber.Ctx) error {
	if err := h.uc.Confirm(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Cancel godoc
// @Summary      Cancelar una reserva (libera la ventana)
// @Tags         booking
// @Security     Bearer
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CheckIn godoc
// @Summary      Check-in: la reserva pasa a CHECKED_IN y la unidad a OCCUPIED
// @Description  El cambio de la reserva y la transición de la unidad commitean
//               en la misma transacción.
// @Tags         booking
// @Security     Bearer
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/checkin [post]
func (h *BookingHandler) CheckIn(c *fiber.Ctx) error {
	if err := h.uc.CheckIn(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CheckOut godoc
// @Summary      Check-out: reserva a CHECKED_OUT, unidad a CLEANING, consumos al ledger
// @Tags         booking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckOutRequest  false  "amenities consumidos"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/checkout [post]
func (h *BookingHandler) CheckOut(c *fiber.Ctx) error {
	var in dto.CheckOutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	consumed := make([]admission.ConsumedItem, 0, len(in.Consumed))
	for _, ci := range in.Consumed {
		consumed = append(consumed, admission.ConsumedItem{
			Scope:    toScope(ci.Scope),
			ItemID:   ci.ItemID,
			Quantity: ci.Quantity,
		})
	}
	if err := h.uc.CheckOut(c.Context(), c.Params("id"), GetUserID(c), consumed); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListByUnit godoc
// @Summary      Reservas de una unidad
// @Tags         booking
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReservationResponse
// @Router       /api/units/{id}/reservations [get]
func (h *BookingHandler) ListByUnit(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()
	list, err := h.uc.ListByUnit(c.Context(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ReservationResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toReservationResponse(r))
	}
	return c.JSON(out)
}
