package admission_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/hotelops-api/internal/application/admission"
	"github.com/tu-usuario/hotelops-api/internal/application/ledger"
	"github.com/tu-usuario/hotelops-api/internal/application/lifecycle"
	"github.com/tu-usuario/hotelops-api/internal/domain"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
	"github.com/tu-usuario/hotelops-api/internal/infrastructure/memory"
)

type admissionFixture struct {
	uc          *admission.UseCase
	lifecycleUC *lifecycle.UseCase
	ledgerUC    *ledger.UseCase
	balances    *memory.BalanceRepo
	movements   *memory.MovementRepo
	hkScope     entity.Scope
}

// newAdmissionFixture arma el caso de uso completo sobre el store en memoria:
// dos unidades estándar y una doble, más el scope de housekeeping con stock de
// amenities para los consumos de checkout.
func newAdmissionFixture(t *testing.T) *admissionFixture {
	t.Helper()
	store := memory.NewStore()
	store.SeedDepartment("housekeeping", "Housekeeping")
	store.SeedItem("amenities-kit", "Kit de amenities")
	store.SeedItem("agua-botella", "Botella de agua")

	roomTypes := memory.NewRoomTypeRepository(store)
	require.NoError(t, roomTypes.Create(&entity.RoomType{
		ID: "std", Name: "Estándar", Capacity: 2,
		NightlyRate: decimal.RequireFromString("185000"),
	}))
	require.NoError(t, roomTypes.Create(&entity.RoomType{
		ID: "dbl", Name: "Doble", Capacity: 4,
		NightlyRate: decimal.RequireFromString("260000"),
	}))

	units := memory.NewUnitRepository(store)
	for _, u := range []*entity.Unit{
		{ID: "u-101", RoomTypeID: "std", Number: "101", Floor: 1, Status: entity.UnitStatusAvailable},
		{ID: "u-102", RoomTypeID: "std", Number: "102", Floor: 1, Status: entity.UnitStatusAvailable},
		{ID: "u-201", RoomTypeID: "dbl", Number: "201", Floor: 2, Status: entity.UnitStatusAvailable},
	} {
		u.StatusUpdatedAt = time.Now()
		require.NoError(t, units.Create(u))
	}

	txRunner := memory.NewTxRunner(store)
	balances := memory.NewBalanceRepository(store)
	movements := memory.NewMovementRepository(store)
	hkScope := entity.NewDepartmentScope("housekeeping")
	require.NoError(t, balances.Add(hkScope, "amenities-kit", 50))
	require.NoError(t, balances.Add(hkScope, "agua-botella", 100))

	lifecycleUC := lifecycle.NewUseCase(
		txRunner,
		units,
		memory.NewCleaningTaskRepository(store),
		memory.NewMaintenanceRequestRepository(store),
		zerolog.Nop(),
	)
	ledgerUC := ledger.NewUseCase(
		txRunner,
		balances,
		movements,
		memory.NewCatalogRepository(store),
	)
	return &admissionFixture{
		uc: admission.NewUseCase(
			txRunner,
			memory.NewReservationRepository(store),
			roomTypes,
			units,
			lifecycleUC,
			ledgerUC,
			zerolog.Nop(),
		),
		lifecycleUC: lifecycleUC,
		ledgerUC:    ledgerUC,
		balances:    balances,
		movements:   movements,
		hkScope:     hkScope,
	}
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func (f *admissionFixture) create(t *testing.T, unitID, key, in, out string) *entity.Reservation {
	t.Helper()
	res, err := f.uc.Create(context.Background(), admission.CreateInput{
		UnitID:         unitID,
		GuestID:        "huesped-1",
		CheckInDate:    day(t, in),
		CheckOutDate:   day(t, out),
		IdempotencyKey: key,
		ActorID:        "recepcion-1",
	})
	require.NoError(t, err)
	return res
}

func (f *admissionFixture) unitStatus(t *testing.T, unitID string) string {
	t.Helper()
	unit, err := f.lifecycleUC.GetUnit(context.Background(), unitID)
	require.NoError(t, err)
	return unit.Status
}

// ──────────────────────────────────────────────────────────────────────────────
// SearchAvailability
// ──────────────────────────────────────────────────────────────────────────────

func TestSearchAvailability_ExcluyeUnidadesConReservaSolapada(t *testing.T) {
	f := newAdmissionFixture(t)
	f.create(t, "u-101", "key-1", "2025-03-10", "2025-03-12")

	candidates, err := f.uc.SearchAvailability(context.Background(),
		day(t, "2025-03-11"), day(t, "2025-03-13"), repository.AvailabilityFilter{})
	require.NoError(t, err)

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.Unit.ID)
	}
	assert.NotContains(t, ids, "u-101", "comparte la noche del 11")
	assert.Contains(t, ids, "u-102")
	assert.Contains(t, ids, "u-201")
}

func TestSearchAvailability_VentanaEspaldaConEspalda_NoExcluye(t *testing.T) {
	f := newAdmissionFixture(t)
	f.create(t, "u-101", "key-1", "2025-03-10", "2025-03-12")

	candidates, err := f.uc.SearchAvailability(context.Background(),
		day(t, "2025-03-12"), day(t, "2025-03-14"), repository.AvailabilityFilter{})
	require.NoError(t, err)

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.Unit.ID)
	}
	assert.Contains(t, ids, "u-101",
		"la salida de una reserva es la entrada de la siguiente")
}

func TestSearchAvailability_ExcluyeUnidadesFueraDeServicio(t *testing.T) {
	f := newAdmissionFixture(t)
	require.NoError(t, f.lifecycleUC.Transition(context.Background(),
		"u-102", entity.UnitEventBlock, "admin-1", "remodelación"))

	candidates, err := f.uc.SearchAvailability(context.Background(),
		day(t, "2025-03-10"), day(t, "2025-03-12"), repository.AvailabilityFilter{})
	require.NoError(t, err)
	for _, c := range candidates {
		assert.NotEqual(t, "u-102", c.Unit.ID, "una unidad BLOCKED no es candidata")
	}
}

func TestSearchAvailability_CotizaTarifaPorNoches(t *testing.T) {
	f := newAdmissionFixture(t)

	candidates, err := f.uc.SearchAvailability(context.Background(),
		day(t, "2025-03-10"), day(t, "2025-03-13"),
		repository.AvailabilityFilter{RoomTypeID: "dbl"})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, 3, candidates[0].Nights)
	assert.True(t, candidates[0].TotalPrice.Equal(decimal.RequireFromString("780000")),
		"3 noches a 260000, obtuvo %s", candidates[0].TotalPrice)
}

func TestSearchAvailability_FiltraPorCapacidad(t *testing.T) {
	f := newAdmissionFixture(t)

	candidates, err := f.uc.SearchAvailability(context.Background(),
		day(t, "2025-03-10"), day(t, "2025-03-12"),
		repository.AvailabilityFilter{MinCapacity: 3})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "u-201", candidates[0].Unit.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ReservaPendienteConPrecio(t *testing.T) {
	f := newAdmissionFixture(t)
	res := f.create(t, "u-101", "key-1", "2025-03-10", "2025-03-12")

	assert.Equal(t, entity.ReservationStatusPending, res.Status)
	assert.True(t, res.TotalPrice.Equal(decimal.RequireFromString("370000")),
		"2 noches a 185000, obtuvo %s", res.TotalPrice)
	assert.Equal(t, entity.UnitStatusAvailable, f.unitStatus(t, "u-101"),
		"crear una reserva no toca el estado vivo de la unidad")
}

func TestCreate_MismoIdempotencyKey_DevuelveLaExistente(t *testing.T) {
	f := newAdmissionFixture(t)
	first := f.create(t, "u-101", "key-1", "2025-03-10", "2025-03-12")
	second := f.create(t, "u-101", "key-1", "2025-03-10", "2025-03-12")

	assert.Equal(t, first.ID, second.ID, "el reintento no duplica la reserva")

	list, err := f.uc.ListByUnit(context.Background(), "u-101", 50, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreate_VentanaSolapada_EsConflicto(t *testing.T) {
	f := newAdmissionFixture(t)
	f.create(t, "u-101", "key-1", "2025-03-10", "2025-03-12")

	_, err := f.uc.Create(context.Background(), admission.CreateInput{
		UnitID:         "u-101",
		GuestID:        "huesped-2",
		CheckInDate:    day(t, "2025-03-11"),
		CheckOutDate:   day(t, "2025-03-13"),
		IdempotencyKey: "key-2",
		ActorID:        "recepcion-1",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreate_EspaldaConEspalda_NoChoca(t *testing.T) {
	f := newAdmissionFixture(t)
	f.create(t, "u-101", "key-1", "2025-03-10", "2025-03-12")
	f.create(t, "u-101", "key-2", "2025-03-12", "2025-03-14")
}

func TestCreate_SobreReservaCancelada_NoChoca(t *testing.T) {
	f := newAdmissionFixture(t)
	res := f.create(t, "u-101", "key-1", "2025-03-10", "2025-03-12")
	require.NoError(t, f.uc.Cancel(context.Background(), res.ID))

	f.create(t, "u-101", "key-2", "2025-03-10", "2025-03-12")
}

func TestCreate_UnidadInexistente_Falla(t *testing.T) {
	f := newAdmissionFixture(t)
	_, err := f.uc.Create(context.Background(), admission.CreateInput{
		UnitID:         "u-999",
		GuestID:        "huesped-1",
		CheckInDate:    day(t, "2025-03-10"),
		CheckOutDate:   day(t, "2025-03-12"),
		IdempotencyKey: "key-1",
		ActorID:        "recepcion-1",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirm / Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirm_PasaAConfirmada(t *testing.T) {
	f := newAdmissionFixture(t)
	res := f.create(t, "u-101", "key-1", "2025-03-10", "2025-03-12")
	require.NoError(t, f.uc.Confirm(context.Background(), res.ID))

	current, err := f.uc.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusConfirmed, current.Status)
}

func TestConfirm_DosVeces_EsConflicto(t *testing.T) {
	f := newAdmissionFixture(t)
	res := f.create(t, "u-101", "key-1", "2025-03-10", "2025-03-12")
	require.NoError(t, f.uc.Confirm(context.Background(), res.ID))
	err := f.uc.Confirm(context.Background(), res.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCancel_ReservaIngresada_EsConflicto(t *testing.T) {
	f := newAdmissionFixture(t)
	res := f.create(t, "u-101", "key-1", "2025-03-10", "2025-03-12")
	require.NoError(t, f.uc.CheckIn(context.Background(), res.ID, "recepcion-1"))

	err := f.uc.Cancel(context.Background(), res.ID)
	assert.ErrorIs(t, err, domain.ErrConflict,
		"una reserva CHECKED_IN se cierra con checkout, no con cancelación")
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckIn / CheckOut
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckIn_OcupaLaUnidadEnLaMismaTransaccion(t *testing.T) {
	f := newAdmissionFixture(t)
	res := f.create(t, "u-101", "key-1", "2025-03-10", "2025-03-12")

	require.NoError(t, f.uc.CheckIn(context.Background(), res.ID, "recepcion-1"))

	current, err := f.uc.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusCheckedIn, current.Status)
	assert.Equal(t, entity.UnitStatusOccupied, f.unitStatus(t, "u-101"))
}

func TestCheckIn_UnidadNoDisponible_RevierteLaReserva(t *testing.T) {
	f := newAdmissionFixture(t)
	res := f.create(t, "u-101", "key-1", "2025-03-10", "2025-03-12")
	require.NoError(t, f.lifecycleUC.Transition(context.Background(),
		"u-101", entity.UnitEventBlock, "admin-1", "fuga de agua"))

	err := f.uc.CheckIn(context.Background(), res.ID, "recepcion-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	current, getErr := f.uc.Get(context.Background(), res.ID)
	require.NoError(t, getErr)
	assert.Equal(t, entity.ReservationStatusPending, current.Status,
		"la reserva no queda CHECKED_IN si la unidad no transicionó")
}

func TestCheckIn_DosVeces_EsConflicto(t *testing.T) {
	f := newAdmissionFixture(t)
	res := f.create(t, "u-101", "key-1", "2025-03-10", "2025-03-12")
	require.NoError(t, f.uc.CheckIn(context.Background(), res.ID, "recepcion-1"))
	err := f.uc.CheckIn(context.Background(), res.ID, "recepcion-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCheckOut_CierraReservaUnidadYConsumos(t *testing.T) {
	f := newAdmissionFixture(t)
	ctx := context.Background()
	res := f.create(t, "u-101", "key-1", "2025-03-10", "2025-03-12")
	require.NoError(t, f.uc.CheckIn(ctx, res.ID, "recepcion-1"))

	consumed := []admission.ConsumedItem{
		{Scope: f.hkScope, ItemID: "amenities-kit", Quantity: 1},
		{Scope: f.hkScope, ItemID: "agua-botella", Quantity: 4},
	}
	require.NoError(t, f.uc.CheckOut(ctx, res.ID, "recepcion-1", consumed))

	current, err := f.uc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusCheckedOut, current.Status)
	assert.Equal(t, entity.UnitStatusCleaning, f.unitStatus(t, "u-101"))

	tasks, err := f.lifecycleUC.ListOpenCleaning(ctx, "u-101")
	require.NoError(t, err)
	assert.Len(t, tasks, 1, "el checkout deja la tarea de limpieza creada")

	kits, err := f.balances.Get(f.hkScope, "amenities-kit")
	require.NoError(t, err)
	agua, err := f.balances.Get(f.hkScope, "agua-botella")
	require.NoError(t, err)
	assert.Equal(t, int64(49), kits.Quantity)
	assert.Equal(t, int64(96), agua.Quantity)

	movs, err := f.movements.ListByReference(res.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2, "un movimiento out por consumo, referenciando la reserva")
	for _, m := range movs {
		assert.Equal(t, entity.MovementKindOut, m.Kind)
	}
}

func TestCheckOut_ConsumoSinStock_RevierteTodo(t *testing.T) {
	f := newAdmissionFixture(t)
	ctx := context.Background()
	res := f.create(t, "u-101", "key-1", "2025-03-10", "2025-03-12")
	require.NoError(t, f.uc.CheckIn(ctx, res.ID, "recepcion-1"))

	err := f.uc.CheckOut(ctx, res.ID, "recepcion-1", []admission.ConsumedItem{
		{Scope: f.hkScope, ItemID: "amenities-kit", Quantity: 99},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada quedó a medias: ni la reserva ni la unidad ni el stock.
	current, getErr := f.uc.Get(ctx, res.ID)
	require.NoError(t, getErr)
	assert.Equal(t, entity.ReservationStatusCheckedIn, current.Status)
	assert.Equal(t, entity.UnitStatusOccupied, f.unitStatus(t, "u-101"))

	kits, balErr := f.balances.Get(f.hkScope, "amenities-kit")
	require.NoError(t, balErr)
	assert.Equal(t, int64(50), kits.Quantity)
}

func TestCheckOut_SinCheckIn_EsConflicto(t *testing.T) {
	f := newAdmissionFixture(t)
	res := f.create(t, "u-101", "key-1", "2025-03-10", "2025-03-12")
	err := f.uc.CheckOut(context.Background(), res.ID, "recepcion-1", nil)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCheckOut_SinConsumos_SoloCierra(t *testing.T) {
	f := newAdmissionFixture(t)
	ctx := context.Background()
	res := f.create(t, "u-101", "key-1", "2025-03-10", "2025-03-12")
	require.NoError(t, f.uc.CheckIn(ctx, res.ID, "recepcion-1"))
	require.NoError(t, f.uc.CheckOut(ctx, res.ID, "recepcion-1", nil))

	movs, err := f.movements.ListByReference(res.ID)
	require.NoError(t, err)
	assert.Empty(t, movs)
}
