package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una reserva.
const (
	ReservationStatusPending    = "PENDING"
	ReservationStatusConfirmed  = "CONFIRMED"
	ReservationStatusCheckedIn  = "CHECKED_IN"
	ReservationStatusCheckedOut = "CHECKED_OUT"
	ReservationStatusCancelled  = "CANCELLED"
)

// Reservation es una reserva de una unidad para una ventana [CheckInDate,
// CheckOutDate) semiabierta: fechas límite iguales no chocan, lo que permite
// reservas espalda con espalda. Dos reservas "vivas" del mismo unit nunca
// pueden solaparse.
type Reservation struct {
	ID             string
	UnitID         string
	GuestID        string
	CheckInDate    time.Time
	CheckOutDate   time.Time
	Status         string
	IdempotencyKey string
	TotalPrice     decimal.Decimal
	Notes          string
	CreatedAt      time.Time
	CreatedBy      string
}

// IsLive indica si la reserva ocupa la ventana a efectos de conflicto.
func (r *Reservation) IsLive() bool {
	return ReservationStatusLive(r.Status)
}

// ReservationStatusLive indica si un estado cuenta como vivo (PENDING,
// CONFIRMED o CHECKED_IN).
func ReservationStatusLive(status string) bool {
	switch status {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCheckedIn:
		return true
	}
	return false
}
