package lifecycle

import (
	"context"
	"errors"

	"github.com/tu-usuario/hotelops-api/internal/domain"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

// Operaciones de housekeeping y mantenimiento. El cierre de la última tarea
// abierta es lo que dispara la vuelta de la unidad a AVAILABLE; cerrar una
// tarea cuando quedan otras abiertas deja el estado de la unidad intacto.

// StartCleaning pasa la tarea de PENDING a IN_PROGRESS.
func (uc *UseCase) StartCleaning(ctx context.Context, taskID, actorID string) error {
	return uc.advanceCleaning(ctx, taskID, entity.CleaningStatusPending, entity.CleaningStatusInProgress)
}

// CompleteCleaning marca la tarea como COMPLETED. La unidad sigue en CLEANING
// hasta la inspección: COMPLETED sin inspeccionar cuenta como abierta.
func (uc *UseCase) CompleteCleaning(ctx context.Context, taskID, actorID string) error {
	return uc.txRunner.RunLifecycle(ctx, func(
		_ repository.UnitRepository,
		cleaningRepo repository.CleaningTaskRepository,
		_ repository.MaintenanceRequestRepository,
	) error {
		task, err := cleaningRepo.GetByID(taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return domain.ErrNotFound
		}
		from := task.Status
		if from != entity.CleaningStatusPending && from != entity.CleaningStatusInProgress {
			return domain.ErrConflict
		}
		ok, err := cleaningRepo.UpdateStatusIf(taskID, from, entity.CleaningStatusCompleted)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		return nil
	})
}

// InspectCleaning marca la tarea COMPLETED como INSPECTED y, si era la última
// abierta de la unidad, dispara la transición CLEANING -> AVAILABLE en la
// misma transacción. Si quedan otras tareas abiertas (o hay mantenimiento
// pendiente) la unidad permanece en CLEANING.
func (uc *UseCase) InspectCleaning(ctx context.Context, taskID, actorID string) error {
	if taskID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunLifecycle(ctx, func(
		unitRepo repository.UnitRepository,
		cleaningRepo repository.CleaningTaskRepository,
		maintenanceRepo repository.MaintenanceRequestRepository,
	) error {
		task, err := cleaningRepo.GetByID(taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return domain.ErrNotFound
		}
		if task.Status != entity.CleaningStatusCompleted {
			return domain.ErrConflict
		}
		ok, err := cleaningRepo.UpdateStatusIf(taskID, entity.CleaningStatusCompleted, entity.CleaningStatusInspected)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		// La guarda de TransitionInTx re-consulta el conjunto vivo de tareas
		// abiertas; si quedan otras, el evento no aplica y la unidad no se
		// mueve (eso no es un error de esta operación).
		err = uc.TransitionInTx(unitRepo, cleaningRepo, maintenanceRepo,
			task.UnitID, entity.UnitEventCleaningDone, actorID, "limpieza inspeccionada")
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil
		}
		return err
	})
}

// StartMaintenance pasa la solicitud de OPEN a IN_PROGRESS.
func (uc *UseCase) StartMaintenance(ctx context.Context, requestID, actorID string) error {
	return uc.advanceMaintenance(ctx, requestID, entity.MaintenanceStatusOpen, entity.MaintenanceStatusInProgress)
}

// ResolveMaintenance marca la solicitud como RESOLVED. Sigue abierta hasta la
// verificación.
func (uc *UseCase) ResolveMaintenance(ctx context.Context, requestID, actorID string) error {
	return uc.txRunner.RunLifecycle(ctx, func(
		_ repository.UnitRepository,
		_ repository.CleaningTaskRepository,
		maintenanceRepo repository.MaintenanceRequestRepository,
	) error {
		request, err := maintenanceRepo.GetByID(requestID)
		if err != nil {
			return err
		}
		if request == nil {
			return domain.ErrNotFound
		}
		from := request.Status
		if from != entity.MaintenanceStatusOpen && from != entity.MaintenanceStatusInProgress {
			return domain.ErrConflict
		}
		ok, err := maintenanceRepo.UpdateStatusIf(requestID, from, entity.MaintenanceStatusResolved)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		return nil
	})
}

// VerifyMaintenance marca la solicitud RESOLVED como VERIFIED y, si era la
// última abierta, devuelve la unidad a AVAILABLE en la misma transacción.
func (uc *UseCase) VerifyMaintenance(ctx context.Context, requestID, actorID string) error {
	if requestID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunLifecycle(ctx, func(
		unitRepo repository.UnitRepository,
		cleaningRepo repository.CleaningTaskRepository,
		maintenanceRepo repository.MaintenanceRequestRepository,
	) error {
		request, err := maintenanceRepo.GetByID(requestID)
		if err != nil {
			return err
		}
		if request == nil {
			return domain.ErrNotFound
		}
		if request.Status != entity.MaintenanceStatusResolved {
			return domain.ErrConflict
		}
		ok, err := maintenanceRepo.UpdateStatusIf(requestID, entity.MaintenanceStatusResolved, entity.MaintenanceStatusVerified)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		err = uc.TransitionInTx(unitRepo, cleaningRepo, maintenanceRepo,
			request.UnitID, entity.UnitEventMaintenanceVerified, actorID, "mantenimiento verificado")
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil
		}
		return err
	})
}

// ListOpenCleaning tareas de limpieza abiertas de una unidad.
func (uc *UseCase) ListOpenCleaning(ctx context.Context, unitID string) ([]*entity.CleaningTask, error) {
	if unitID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.cleaningRepo.ListOpenByUnit(unitID)
}

// ListOpenMaintenance solicitudes de mantenimiento abiertas de una unidad.
func (uc *UseCase) ListOpenMaintenance(ctx context.Context, unitID string) ([]*entity.MaintenanceRequest, error) {
	if unitID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.maintenanceRepo.ListOpenByUnit(unitID)
}

// GetUnit devuelve la unidad con su estado actual.
func (uc *UseCase) GetUnit(ctx context.Context, unitID string) (*entity.Unit, error) {
	unit, err := uc.unitRepo.GetByID(unitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	return unit, nil
}

// History historial de transiciones de la unidad.
func (uc *UseCase) History(ctx context.Context, unitID string, limit, offset int) ([]*entity.UnitStatusHistory, error) {
	if unitID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = 50
	}
	return uc.unitRepo.ListHistory(unitID, limit, offset)
}

func (uc *UseCase) advanceCleaning(ctx context.Context, taskID, from, to string) error {
	if taskID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunLifecycle(ctx, func(
		_ repository.UnitRepository,
		cleaningRepo repository.CleaningTaskRepository,
		_ repository.MaintenanceRequestRepository,
	) error {
		task, err := cleaningRepo.GetByID(taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return domain.ErrNotFound
		}
		ok, err := cleaningRepo.UpdateStatusIf(taskID, from, to)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		return nil
	})
}

func (uc *UseCase) advanceMaintenance(ctx context.Context, requestID, from, to string) error {
	if requestID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunLifecycle(ctx, func(
		_ repository.UnitRepository,
		_ repository.CleaningTaskRepository,
		maintenanceRepo repository.MaintenanceRequestRepository,
	) error {
		request, err := maintenanceRepo.GetByID(requestID)
		if err != nil {
			return err
		}
		if request == nil {
			return domain.ErrNotFound
		}
		ok, err := maintenanceRepo.UpdateStatusIf(requestID, from, to)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		return nil
	})
}
