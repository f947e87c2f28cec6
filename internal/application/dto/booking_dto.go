package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AvailabilityQuery query params para GET /api/availability.
// Fechas en formato YYYY-MM-DD (días completos; fracciones se rechazan).
type AvailabilityQuery struct {
	CheckIn     string `query:"check_in"`
	CheckOut    string `query:"check_out"`
	RoomTypeID  string `query:"room_type_id"`
	MinCapacity int    `query:"min_capacity"`
}

// CandidateResponse unidad disponible con su cotización.
type CandidateResponse struct {
	Unit       UnitResponse    `json:"unit"`
	RoomTypeID string          `json:"room_type_id"`
	RoomType   string          `json:"room_type"`
	Capacity   int             `json:"capacity"`
	Nights     int             `json:"nights"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// CreateReservationRequest body para POST /api/reservations. El idempotency
// key viaja en el header Idempotency-Key o en el body; header gana.
type CreateReservationRequest struct {
	UnitID         string `json:"unit_id"`
	GuestID        string `json:"guest_id"`
	CheckInDate    string `json:"check_in_date"`  // YYYY-MM-DD
	CheckOutDate   string `json:"check_out_date"` // YYYY-MM-DD
	IdempotencyKey string `json:"idempotency_key,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// ReservationResponse reserva persistida.
type ReservationResponse struct {
	ID           string          `json:"id"`
	UnitID       string          `json:"unit_id"`
	GuestID      string          `json:"guest_id"`
	CheckInDate  time.Time       `json:"check_in_date"`
	CheckOutDate time.Time       `json:"check_out_date"`
	Status       string          `json:"status"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ConsumedItemDTO amenity consumido durante la estadía.
type ConsumedItemDTO struct {
	Scope    ScopeDTO `json:"scope"`
	ItemID   string   `json:"item_id"`
	Quantity int64    `json:"quantity"`
}

// CheckOutRequest body para POST /api/reservations/:id/checkout.
type CheckOutRequest struct {
	Consumed []ConsumedItemDTO `json:"consumed,omitempty"`
}
