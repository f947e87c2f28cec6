package admission

import (
	"context"

	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

// TxRunner ejecuta la admisión dentro de una transacción. El insert de la
// reserva y la re-validación de conflicto corren en la misma tx (la búsqueda
// previa no basta: dos callers pueden reservar la última unidad a la vez).
// Check-in/checkout incluyen además la transición de la unidad y, en el
// checkout, los movimientos de consumo.
type TxRunner interface {
	RunAdmission(ctx context.Context, fn func(
		reservationRepo repository.ReservationRepository,
		unitRepo repository.UnitRepository,
		cleaningRepo repository.CleaningTaskRepository,
		maintenanceRepo repository.MaintenanceRequestRepository,
		balanceRepo repository.BalanceRepository,
		movementRepo repository.MovementRepository,
	) error) error
}
