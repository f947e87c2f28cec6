package repository

import (
	"time"

	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
)

// AvailabilityFilter filtros de búsqueda de disponibilidad.
type AvailabilityFilter struct {
	RoomTypeID  string
	MinCapacity int
}

// AvailableUnit unidad candidata con su tipo (para cotizar la estadía).
type AvailableUnit struct {
	Unit     *entity.Unit
	RoomType *entity.RoomType
}

// ReservationRepository puerto de persistencia para reservas.
type ReservationRepository interface {
	// Create inserta la reserva; ErrDuplicate si ya existe una con el mismo
	// idempotency key (constraint único).
	Create(reservation *entity.Reservation) error
	GetByID(id string) (*entity.Reservation, error)
	// GetByIdempotencyKey nil si no existe.
	GetByIdempotencyKey(key string) (*entity.Reservation, error)
	ListByUnit(unitID string, limit, offset int) ([]*entity.Reservation, error)
	// HasOverlap true si existe una reserva viva del unit cuya ventana
	// semiabierta solapa [checkIn, checkOut), excluyendo opcionalmente una.
	// Debe ejecutarse dentro de la misma tx que el insert para cerrar la
	// carrera búsqueda-creación.
	HasOverlap(unitID string, checkIn, checkOut time.Time, excludeID string) (bool, error)
	// UpdateStatusIf cambia el estado solo si el actual coincide con from.
	UpdateStatusIf(id, from, to string) (bool, error)
	// FindAvailableUnits unidades sin reserva viva solapada en la ventana,
	// con filtros opcionales. Lectura no bloqueante: la vista puede quedar
	// vieja; Create re-valida dentro de la tx.
	FindAvailableUnits(checkIn, checkOut time.Time, filter AvailabilityFilter) ([]*AvailableUnit, error)
}
