package lifecycle

import (
	"context"

	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

// TxRunner ejecuta una transición de unidad dentro de una transacción: cambio
// de estado, fila de historial y tarea asociada (limpieza/mantenimiento)
// commitean juntos o ninguno lo hace.
type TxRunner interface {
	RunLifecycle(ctx context.Context, fn func(
		unitRepo repository.UnitRepository,
		cleaningRepo repository.CleaningTaskRepository,
		maintenanceRepo repository.MaintenanceRequestRepository,
	) error) error
}
