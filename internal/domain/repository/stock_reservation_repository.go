package repository

import "github.com/tu-usuario/hotelops-api/internal/domain/entity"

// StockReservationRepository puerto para los apartados de stock (tokens de
// reserve/release del ledger).
type StockReservationRepository interface {
	Create(reservation *entity.StockReservation) error
	GetByToken(token string) (*entity.StockReservation, error)
	// MarkReleased marca el token como liberado solo si seguía activo.
	// false = ya estaba liberado (release idempotente a nivel de caso de uso).
	MarkReleased(token string) (bool, error)
}
