package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/hotelops-api/internal/application/lifecycle"
	"github.com/tu-usuario/hotelops-api/internal/domain"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
	"github.com/tu-usuario/hotelops-api/internal/infrastructure/memory"
)

type lifecycleFixture struct {
	uc       *lifecycle.UseCase
	cleaning *memory.CleaningTaskRepo
}

// newLifecycleFixture arma el motor con una unidad u-101 en el estado pedido.
func newLifecycleFixture(t *testing.T, status string) *lifecycleFixture {
	t.Helper()
	store := memory.NewStore()
	units := memory.NewUnitRepository(store)
	cleaning := memory.NewCleaningTaskRepository(store)
	require.NoError(t, units.Create(&entity.Unit{
		ID:              "u-101",
		RoomTypeID:      "std",
		Number:          "101",
		Floor:           1,
		Status:          status,
		StatusUpdatedAt: time.Now(),
	}))
	return &lifecycleFixture{
		uc: lifecycle.NewUseCase(
			memory.NewTxRunner(store),
			units,
			cleaning,
			memory.NewMaintenanceRequestRepository(store),
			zerolog.Nop(),
		),
		cleaning: cleaning,
	}
}

func (f *lifecycleFixture) status(t *testing.T) string {
	t.Helper()
	unit, err := f.uc.GetUnit(context.Background(), "u-101")
	require.NoError(t, err)
	return unit.Status
}

func (f *lifecycleFixture) transition(t *testing.T, event string) error {
	t.Helper()
	return f.uc.Transition(context.Background(), "u-101", event, "recepcion-1", "test")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestTransition_CheckIn_OcupaLaUnidad(t *testing.T) {
	f := newLifecycleFixture(t, entity.UnitStatusAvailable)
	require.NoError(t, f.transition(t, entity.UnitEventCheckIn))
	assert.Equal(t, entity.UnitStatusOccupied, f.status(t))
}

func TestTransition_CheckIn_DesdeOcupada_EsInvalida(t *testing.T) {
	f := newLifecycleFixture(t, entity.UnitStatusOccupied)
	err := f.transition(t, entity.UnitEventCheckIn)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.UnitStatusOccupied, f.status(t), "nada cambió")
}

func TestTransition_CheckOut_CreaTareaDeLimpieza(t *testing.T) {
	f := newLifecycleFixture(t, entity.UnitStatusOccupied)
	require.NoError(t, f.transition(t, entity.UnitEventCheckOut))
	assert.Equal(t, entity.UnitStatusCleaning, f.status(t))

	tasks, err := f.uc.ListOpenCleaning(context.Background(), "u-101")
	require.NoError(t, err)
	require.Len(t, tasks, 1, "no existe CLEANING sin tarea que lo sostenga")
	assert.Equal(t, entity.CleaningStatusPending, tasks[0].Status)
}

func TestTransition_CleaningDone_BloqueadaConTareasAbiertas(t *testing.T) {
	f := newLifecycleFixture(t, entity.UnitStatusOccupied)
	require.NoError(t, f.transition(t, entity.UnitEventCheckOut))

	err := f.transition(t, entity.UnitEventCleaningDone)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"la tarea creada por el checkout sigue abierta")
	assert.Equal(t, entity.UnitStatusCleaning, f.status(t))
}

func TestTransition_EventoDesconocido_EsInvalido(t *testing.T) {
	f := newLifecycleFixture(t, entity.UnitStatusAvailable)
	err := f.transition(t, "evento_inventado")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransition_UnidadInexistente_Falla(t *testing.T) {
	f := newLifecycleFixture(t, entity.UnitStatusAvailable)
	err := f.uc.Transition(context.Background(), "u-999", entity.UnitEventCheckIn, "recepcion-1", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransition_CadaTransicionEscribeUnaFilaDeHistorial(t *testing.T) {
	f := newLifecycleFixture(t, entity.UnitStatusAvailable)
	require.NoError(t, f.transition(t, entity.UnitEventCheckIn))
	require.NoError(t, f.transition(t, entity.UnitEventCheckOut))

	history, err := f.uc.History(context.Background(), "u-101", 50, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// Orden más reciente primero.
	assert.Equal(t, entity.UnitEventCheckOut, history[0].Event)
	assert.Equal(t, entity.UnitStatusOccupied, history[0].PreviousStatus)
	assert.Equal(t, entity.UnitStatusCleaning, history[0].NewStatus)
	assert.Equal(t, entity.UnitEventCheckIn, history[1].Event)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de limpieza
// ──────────────────────────────────────────────────────────────────────────────

func TestInspectCleaning_UltimaTarea_DevuelveLaUnidadADisponible(t *testing.T) {
	f := newLifecycleFixture(t, entity.UnitStatusOccupied)
	ctx := context.Background()
	require.NoError(t, f.transition(t, entity.UnitEventCheckOut))

	tasks, err := f.uc.ListOpenCleaning(ctx, "u-101")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	taskID := tasks[0].ID

	require.NoError(t, f.uc.StartCleaning(ctx, taskID, "camarera-1"))
	require.NoError(t, f.uc.CompleteCleaning(ctx, taskID, "camarera-1"))
	assert.Equal(t, entity.UnitStatusCleaning, f.status(t),
		"COMPLETED sin inspeccionar sigue contando como abierta")

	require.NoError(t, f.uc.InspectCleaning(ctx, taskID, "supervisora-1"))
	assert.Equal(t, entity.UnitStatusAvailable, f.status(t))

	open, err := f.uc.ListOpenCleaning(ctx, "u-101")
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestInspectCleaning_QuedanOtrasTareas_LaUnidadSigueEnLimpieza(t *testing.T) {
	f := newLifecycleFixture(t, entity.UnitStatusOccupied)
	ctx := context.Background()
	require.NoError(t, f.transition(t, entity.UnitEventCheckOut))

	// Housekeeping agenda una limpieza profunda además de la tarea que dejó
	// el checkout: dos tareas abiertas sostienen el estado CLEANING.
	require.NoError(t, f.cleaning.Create(&entity.CleaningTask{
		ID:        "task-profunda",
		UnitID:    "u-101",
		Status:    entity.CleaningStatusPending,
		Priority:  entity.PriorityLow,
		Notes:     "limpieza profunda trimestral",
		CreatedAt: time.Now(),
	}))

	open, err := f.uc.ListOpenCleaning(ctx, "u-101")
	require.NoError(t, err)
	require.Len(t, open, 2)

	require.NoError(t, f.uc.CompleteCleaning(ctx, open[0].ID, "camarera-1"))
	require.NoError(t, f.uc.InspectCleaning(ctx, open[0].ID, "supervisora-1"))
	assert.Equal(t, entity.UnitStatusCleaning, f.status(t),
		"con otra tarea abierta la unidad no vuelve a AVAILABLE")

	require.NoError(t, f.uc.CompleteCleaning(ctx, open[1].ID, "camarera-1"))
	require.NoError(t, f.uc.InspectCleaning(ctx, open[1].ID, "supervisora-1"))
	assert.Equal(t, entity.UnitStatusAvailable, f.status(t))
}

func TestInspectCleaning_SinCompletar_Falla(t *testing.T) {
	f := newLifecycleFixture(t, entity.UnitStatusOccupied)
	ctx := context.Background()
	require.NoError(t, f.transition(t, entity.UnitEventCheckOut))

	tasks, err := f.uc.ListOpenCleaning(ctx, "u-101")
	require.NoError(t, err)
	err = f.uc.InspectCleaning(ctx, tasks[0].ID, "supervisora-1")
	assert.ErrorIs(t, err, domain.ErrConflict,
		"solo una tarea COMPLETED se puede inspeccionar")
}

func TestInspectCleaning_ConMantenimientoPendiente_LaUnidadNoVuelve(t *testing.T) {
	f := newLifecycleFixture(t, entity.UnitStatusOccupied)
	ctx := context.Background()
	require.NoError(t, f.transition(t, entity.UnitEventCheckOut))

	// Se reporta una falla durante la limpieza: aunque la tarea se cierre,
	// la unidad queda en MAINTENANCE, no en AVAILABLE.
	require.NoError(t, f.transition(t, entity.UnitEventMaintenanceRequest))
	assert.Equal(t, entity.UnitStatusMaintenance, f.status(t))

	tasks, err := f.uc.ListOpenCleaning(ctx, "u-101")
	require.NoError(t, err)
	require.NoError(t, f.uc.CompleteCleaning(ctx, tasks[0].ID, "camarera-1"))
	require.NoError(t, f.uc.InspectCleaning(ctx, tasks[0].ID, "supervisora-1"))
	assert.Equal(t, entity.UnitStatusMaintenance, f.status(t))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de mantenimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestVerifyMaintenance_UltimaSolicitud_DevuelveLaUnidad(t *testing.T) {
	f := newLifecycleFixture(t, entity.UnitStatusAvailable)
	ctx := context.Background()
	require.NoError(t, f.transition(t, entity.UnitEventMaintenanceRequest))
	assert.Equal(t, entity.UnitStatusMaintenance, f.status(t))

	requests, err := f.uc.ListOpenMaintenance(ctx, "u-101")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	requestID := requests[0].ID

	require.NoError(t, f.uc.StartMaintenance(ctx, requestID, "tecnico-1"))
	require.NoError(t, f.uc.ResolveMaintenance(ctx, requestID, "tecnico-1"))
	assert.Equal(t, entity.UnitStatusMaintenance, f.status(t),
		"RESOLVED sin verificar sigue abierta")

	require.NoError(t, f.uc.VerifyMaintenance(ctx, requestID, "supervisora-1"))
	assert.Equal(t, entity.UnitStatusAvailable, f.status(t))
}

func TestMaintenanceRequest_YaEnMantenimiento_SoloEncola(t *testing.T) {
	f := newLifecycleFixture(t, entity.UnitStatusAvailable)
	ctx := context.Background()
	require.NoError(t, f.transition(t, entity.UnitEventMaintenanceRequest))
	require.NoError(t, f.transition(t, entity.UnitEventMaintenanceRequest),
		"una segunda solicitud se encola sin transición")

	requests, err := f.uc.ListOpenMaintenance(ctx, "u-101")
	require.NoError(t, err)
	assert.Len(t, requests, 2)

	history, err := f.uc.History(ctx, "u-101", 50, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1, "sin fila de historial cuando no hay cambio de estado")
}

func TestVerifyMaintenance_QuedanSolicitudes_LaUnidadSigue(t *testing.T) {
	f := newLifecycleFixture(t, entity.UnitStatusAvailable)
	ctx := context.Background()
	require.NoError(t, f.transition(t, entity.UnitEventMaintenanceRequest))
	require.NoError(t, f.transition(t, entity.UnitEventMaintenanceRequest))

	requests, err := f.uc.ListOpenMaintenance(ctx, "u-101")
	require.NoError(t, err)
	require.Len(t, requests, 2)

	require.NoError(t, f.uc.ResolveMaintenance(ctx, requests[0].ID, "tecnico-1"))
	require.NoError(t, f.uc.VerifyMaintenance(ctx, requests[0].ID, "supervisora-1"))
	assert.Equal(t, entity.UnitStatusMaintenance, f.status(t))

	require.NoError(t, f.uc.ResolveMaintenance(ctx, requests[1].ID, "tecnico-1"))
	require.NoError(t, f.uc.VerifyMaintenance(ctx, requests[1].ID, "supervisora-1"))
	assert.Equal(t, entity.UnitStatusAvailable, f.status(t))
}

func TestMaintenanceRequest_DesdeOcupada_EsPermitida(t *testing.T) {
	f := newLifecycleFixture(t, entity.UnitStatusOccupied)
	require.NoError(t, f.transition(t, entity.UnitEventMaintenanceRequest))
	assert.Equal(t, entity.UnitStatusMaintenance, f.status(t))
}

// ──────────────────────────────────────────────────────────────────────────────
// Block / unblock
// ──────────────────────────────────────────────────────────────────────────────

func TestBlock_DesdeCualquierEstado(t *testing.T) {
	for _, status := range []string{
		entity.UnitStatusAvailable,
		entity.UnitStatusOccupied,
		entity.UnitStatusCleaning,
		entity.UnitStatusMaintenance,
	} {
		f := newLifecycleFixture(t, status)
		require.NoError(t, f.transition(t, entity.UnitEventBlock), "desde %s", status)
		assert.Equal(t, entity.UnitStatusBlocked, f.status(t))
	}
}

func TestUnblock_RestauraElEstadoPrevio(t *testing.T) {
	f := newLifecycleFixture(t, entity.UnitStatusAvailable)
	require.NoError(t, f.transition(t, entity.UnitEventCheckIn))
	require.NoError(t, f.transition(t, entity.UnitEventBlock))
	assert.Equal(t, entity.UnitStatusBlocked, f.status(t))

	require.NoError(t, f.transition(t, entity.UnitEventUnblock))
	assert.Equal(t, entity.UnitStatusOccupied, f.status(t),
		"desbloquear vuelve al estado anterior al bloqueo")
}

func TestUnblock_SinHistorial_CaeEnDisponible(t *testing.T) {
	// Unidad sembrada directamente en BLOCKED, sin transición registrada.
	f := newLifecycleFixture(t, entity.UnitStatusBlocked)
	require.NoError(t, f.transition(t, entity.UnitEventUnblock))
	assert.Equal(t, entity.UnitStatusAvailable, f.status(t))
}

func TestBlock_YaBloqueada_EsInvalida(t *testing.T) {
	f := newLifecycleFixture(t, entity.UnitStatusBlocked)
	err := f.transition(t, entity.UnitEventBlock)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
