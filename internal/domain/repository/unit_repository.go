package repository

import "github.com/tu-usuario/hotelops-api/internal/domain/entity"

// UnitRepository puerto de persistencia para unidades y su historial de
// estados.
type UnitRepository interface {
	GetByID(id string) (*entity.Unit, error)
	ListByStatus(status string) ([]*entity.Unit, error)
	Create(unit *entity.Unit) error
	// UpdateStatusIf cambia el estado solo si el actual coincide con from.
	// false = cero filas afectadas (transición concurrente ganó la carrera).
	UpdateStatusIf(id, from, to string) (bool, error)

	// AppendHistory agrega la fila inmutable de la transición (misma tx que
	// el cambio de estado).
	AppendHistory(row *entity.UnitStatusHistory) error
	ListHistory(unitID string, limit, offset int) ([]*entity.UnitStatusHistory, error)
	// LastTransition última transición registrada de la unidad; nil si nunca
	// cambió de estado. Usada para restaurar el estado previo al desbloquear.
	LastTransition(unitID string) (*entity.UnitStatusHistory, error)
}
