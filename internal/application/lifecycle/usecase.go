package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tu-usuario/hotelops-api/internal/domain"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

// UseCase motor de ciclo de vida de unidades: único punto de entrada para
// todo cambio de estado operativo de una habitación. La lógica "si estado X y
// no quedan tareas, volver a AVAILABLE" vive solo aquí, en una tabla de
// transiciones explícita, en lugar de repetirse en cada caller.
type UseCase struct {
	txRunner        TxRunner
	unitRepo        repository.UnitRepository
	cleaningRepo    repository.CleaningTaskRepository
	maintenanceRepo repository.MaintenanceRequestRepository
	log             zerolog.Logger
}

// NewUseCase construye el motor.
func NewUseCase(
	txRunner TxRunner,
	unitRepo repository.UnitRepository,
	cleaningRepo repository.CleaningTaskRepository,
	maintenanceRepo repository.MaintenanceRequestRepository,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner:        txRunner,
		unitRepo:        unitRepo,
		cleaningRepo:    cleaningRepo,
		maintenanceRepo: maintenanceRepo,
		log:             log,
	}
}

// Transition aplica un evento del ciclo de vida sobre la unidad, dentro de
// una transacción. Cada transición exitosa escribe exactamente una fila de
// historial; un evento no permitido desde el estado actual devuelve
// ErrInvalidTransition y no toca nada.
func (uc *UseCase) Transition(ctx context.Context, unitID, event, actorID, reason string) error {
	if unitID == "" || event == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunLifecycle(ctx, func(
		unitRepo repository.UnitRepository,
		cleaningRepo repository.CleaningTaskRepository,
		maintenanceRepo repository.MaintenanceRequestRepository,
	) error {
		return uc.TransitionInTx(unitRepo, cleaningRepo, maintenanceRepo, unitID, event, actorID, reason)
	})
}

// TransitionInTx aplica el evento usando los repositorios del caller (misma
// transacción). Lo usa Admission para que check-in/checkout de la reserva y
// la transición de la unidad commiteen juntos.
//
// Tabla de transiciones:
//
//	AVAILABLE   --check_in------------> OCCUPIED
//	OCCUPIED    --check_out-----------> CLEANING     (crea CleaningTask)
//	CLEANING    --cleaning_done-------> AVAILABLE    (cero tareas abiertas y sin mantenimiento pendiente)
//	cualquiera  --maintenance_request-> MAINTENANCE  (abre MaintenanceRequest)
//	MAINTENANCE --maintenance_verified> AVAILABLE    (cero solicitudes abiertas)
//	cualquiera  --block---------------> BLOCKED
//	BLOCKED     --unblock-------------> estado previo
//
// Las guardas re-consultan el conjunto vivo de tareas abiertas al momento de
// la transición, nunca un conteo cacheado.
func (uc *UseCase) TransitionInTx(
	unitRepo repository.UnitRepository,
	cleaningRepo repository.CleaningTaskRepository,
	maintenanceRepo repository.MaintenanceRequestRepository,
	unitID, event, actorID, reason string,
) error {
	unit, err := unitRepo.GetByID(unitID)
	if err != nil {
		return err
	}
	if unit == nil {
		return domain.ErrNotFound
	}

	switch event {
	case entity.UnitEventCheckIn:
		if unit.Status != entity.UnitStatusAvailable {
			return domain.ErrInvalidTransition
		}
		return uc.move(unitRepo, unit, entity.UnitStatusOccupied, event, actorID, reason)

	case entity.UnitEventCheckOut:
		if unit.Status != entity.UnitStatusOccupied {
			return domain.ErrInvalidTransition
		}
		// La tarea de limpieza nace en la misma transacción que la
		// transición: no existe CLEANING sin tarea que lo sostenga.
		task := &entity.CleaningTask{
			ID:        uuid.New().String(),
			UnitID:    unit.ID,
			Status:    entity.CleaningStatusPending,
			Priority:  entity.PriorityNormal,
			Notes:     reason,
			CreatedAt: time.Now(),
		}
		if err := cleaningRepo.Create(task); err != nil {
			return err
		}
		return uc.move(unitRepo, unit, entity.UnitStatusCleaning, event, actorID, reason)

	case entity.UnitEventCleaningDone:
		if unit.Status != entity.UnitStatusCleaning {
			return domain.ErrInvalidTransition
		}
		openCleaning, err := cleaningRepo.CountOpenByUnit(unit.ID, "")
		if err != nil {
			return err
		}
		if openCleaning > 0 {
			return domain.ErrInvalidTransition
		}
		openMaintenance, err := maintenanceRepo.CountOpenByUnit(unit.ID, "")
		if err != nil {
			return err
		}
		if openMaintenance > 0 {
			return domain.ErrInvalidTransition
		}
		return uc.move(unitRepo, unit, entity.UnitStatusAvailable, event, actorID, reason)

	case entity.UnitEventMaintenanceRequest:
		request := &entity.MaintenanceRequest{
			ID:          uuid.New().String(),
			UnitID:      unit.ID,
			Status:      entity.MaintenanceStatusOpen,
			Priority:    entity.PriorityNormal,
			ReportedBy:  actorID,
			Description: reason,
			CreatedAt:   time.Now(),
		}
		if err := maintenanceRepo.Create(request); err != nil {
			return err
		}
		if unit.Status == entity.UnitStatusMaintenance {
			// Ya estaba en mantenimiento: la nueva solicitud se encola sin
			// transición (no hay fila de historial sin cambio de estado).
			return nil
		}
		return uc.move(unitRepo, unit, entity.UnitStatusMaintenance, event, actorID, reason)

	case entity.UnitEventMaintenanceVerified:
		if unit.Status != entity.UnitStatusMaintenance {
			return domain.ErrInvalidTransition
		}
		open, err := maintenanceRepo.CountOpenByUnit(unit.ID, "")
		if err != nil {
			return err
		}
		if open > 0 {
			return domain.ErrInvalidTransition
		}
		return uc.move(unitRepo, unit, entity.UnitStatusAvailable, event, actorID, reason)

	case entity.UnitEventBlock:
		// Override administrativo: permitido desde cualquier estado.
		if unit.Status == entity.UnitStatusBlocked {
			return domain.ErrInvalidTransition
		}
		return uc.move(unitRepo, unit, entity.UnitStatusBlocked, event, actorID, reason)

	case entity.UnitEventUnblock:
		if unit.Status != entity.UnitStatusBlocked {
			return domain.ErrInvalidTransition
		}
		previous := entity.UnitStatusAvailable
		last, err := unitRepo.LastTransition(unit.ID)
		if err != nil {
			return err
		}
		if last != nil && last.NewStatus == entity.UnitStatusBlocked {
			previous = last.PreviousStatus
		}
		return uc.move(unitRepo, unit, previous, event, actorID, reason)
	}
	return domain.ErrInvalidInput
}

// move cambia el estado con update condicional sobre el estado leído y
// agrega la fila de historial. Cero filas afectadas = otra transición ganó la
// carrera.
func (uc *UseCase) move(unitRepo repository.UnitRepository, unit *entity.Unit, to, event, actorID, reason string) error {
	ok, err := unitRepo.UpdateStatusIf(unit.ID, unit.Status, to)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrConflict
	}
	return unitRepo.AppendHistory(&entity.UnitStatusHistory{
		ID:             uuid.New().String(),
		UnitID:         unit.ID,
		PreviousStatus: unit.Status,
		NewStatus:      to,
		Event:          event,
		Reason:         reason,
		ChangedBy:      actorID,
		ChangedAt:      time.Now(),
	})
}
