package admission

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/hotelops-api/internal/application/ledger"
	"github.com/tu-usuario/hotelops-api/internal/application/lifecycle"
	"github.com/tu-usuario/hotelops-api/internal/domain"
	"github.com/tu-usuario/hotelops-api/internal/domain/booking"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

// UseCase admisión de reservas: búsqueda de disponibilidad, creación
// idempotente y check-in/checkout que arrastran la transición de la unidad en
// la misma transacción. Admission nunca muta campos de la unidad
// directamente: toda transición pasa por el motor de ciclo de vida.
type UseCase struct {
	txRunner        TxRunner
	reservationRepo repository.ReservationRepository
	roomTypeRepo    repository.RoomTypeRepository
	unitRepo        repository.UnitRepository
	lifecycleUC     *lifecycle.UseCase
	ledgerUC        *ledger.UseCase
	log             zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	reservationRepo repository.ReservationRepository,
	roomTypeRepo repository.RoomTypeRepository,
	unitRepo repository.UnitRepository,
	lifecycleUC *lifecycle.UseCase,
	ledgerUC *ledger.UseCase,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner:        txRunner,
		reservationRepo: reservationRepo,
		roomTypeRepo:    roomTypeRepo,
		unitRepo:        unitRepo,
		lifecycleUC:     lifecycleUC,
		ledgerUC:        ledgerUC,
		log:             log,
	}
}

// Candidate unidad disponible con su cotización para la ventana pedida.
type Candidate struct {
	Unit       *entity.Unit
	RoomType   *entity.RoomType
	Nights     int
	TotalPrice decimal.Decimal
}

// SearchAvailability unidades sin reserva viva solapada en [checkIn,
// checkOut), con precio = tarifa por noche * noches enteras. Lectura no
// bloqueante: el resultado puede quedar viejo y Create re-valida en su tx.
func (uc *UseCase) SearchAvailability(ctx context.Context, checkIn, checkOut time.Time, filter repository.AvailabilityFilter) ([]*Candidate, error) {
	nights, err := booking.Nights(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	available, err := uc.reservationRepo.FindAvailableUnits(checkIn, checkOut, filter)
	if err != nil {
		return nil, err
	}
	candidates := make([]*Candidate, 0, len(available))
	for _, au := range available {
		candidates = append(candidates, &Candidate{
			Unit:       au.Unit,
			RoomType:   au.RoomType,
			Nights:     nights,
			TotalPrice: booking.Quote(au.RoomType.NightlyRate, nights),
		})
	}
	return candidates, nil
}

// CreateInput entrada para crear una reserva.
type CreateInput struct {
	UnitID         string
	GuestID        string
	CheckInDate    time.Time
	CheckOutDate   time.Time
	IdempotencyKey string
	Notes          string
	ActorID        string
}

// Create crea la reserva de forma idempotente. Si ya existe una con el mismo
// idempotency key devuelve la existente (el caller puede reintentar tras un
// timeout sin duplicar). El conflicto de solape se re-valida dentro de la
// misma transacción que el insert: el perdedor de la carrera recibe
// ErrConflict y debe volver a buscar.
func (uc *UseCase) Create(ctx context.Context, input CreateInput) (*entity.Reservation, error) {
	if input.UnitID == "" || input.GuestID == "" || input.IdempotencyKey == "" {
		return nil, domain.ErrInvalidInput
	}
	nights, err := booking.Nights(input.CheckInDate, input.CheckOutDate)
	if err != nil {
		return nil, err
	}

	// Camino rápido para reintentos: el key ya tiene reserva.
	if existing, err := uc.reservationRepo.GetByIdempotencyKey(input.IdempotencyKey); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	unit, err := uc.unitRepo.GetByID(input.UnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	roomType, err := uc.roomTypeRepo.GetByID(unit.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if roomType == nil {
		return nil, domain.ErrNotFound
	}

	reservation := &entity.Reservation{
		ID:             uuid.New().String(),
		UnitID:         input.UnitID,
		GuestID:        input.GuestID,
		CheckInDate:    input.CheckInDate,
		CheckOutDate:   input.CheckOutDate,
		Status:         entity.ReservationStatusPending,
		IdempotencyKey: input.IdempotencyKey,
		TotalPrice:     booking.Quote(roomType.NightlyRate, nights),
		Notes:          input.Notes,
		CreatedAt:      time.Now(),
		CreatedBy:      input.ActorID,
	}

	err = uc.txRunner.RunAdmission(ctx, func(
		reservationRepo repository.ReservationRepository,
		_ repository.UnitRepository,
		_ repository.CleaningTaskRepository,
		_ repository.MaintenanceRequestRepository,
		_ repository.BalanceRepository,
		_ repository.MovementRepository,
	) error {
		overlap, err := reservationRepo.HasOverlap(input.UnitID, input.CheckInDate, input.CheckOutDate, "")
		if err != nil {
			return err
		}
		if overlap {
			return domain.ErrConflict
		}
		return reservationRepo.Create(reservation)
	})
	if errors.Is(err, domain.ErrDuplicate) {
		// Dos reintentos con el mismo key corrieron a la vez: el constraint
		// único decidió; devolver la fila ganadora.
		return uc.reservationRepo.GetByIdempotencyKey(input.IdempotencyKey)
	}
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

// Get devuelve una reserva.
func (uc *UseCase) Get(ctx context.Context, reservationID string) (*entity.Reservation, error) {
	reservation, err := uc.reservationRepo.GetByID(reservationID)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, domain.ErrNotFound
	}
	return reservation, nil
}

// Confirm pasa la reserva de PENDING a CONFIRMED.
func (uc *UseCase) Confirm(ctx context.Context, reservationID string) error {
	return uc.updateStatus(reservationID, entity.ReservationStatusPending, entity.ReservationStatusConfirmed)
}

// Cancel cancela una reserva viva no ingresada, liberando la ventana. Una
// reserva CHECKED_IN no se cancela: se hace checkout.
func (uc *UseCase) Cancel(ctx context.Context, reservationID string) error {
	reservation, err := uc.Get(ctx, reservationID)
	if err != nil {
		return err
	}
	switch reservation.Status {
	case entity.ReservationStatusPending, entity.ReservationStatusConfirmed:
		return uc.updateStatus(reservationID, reservation.Status, entity.ReservationStatusCancelled)
	}
	return domain.ErrConflict
}

// CheckIn marca la reserva como CHECKED_IN y transiciona la unidad a OCCUPIED
// en la misma transacción; hasta este momento la admisión no había tocado el
// estado vivo de la unidad.
func (uc *UseCase) CheckIn(ctx context.Context, reservationID, actorID string) error {
	if reservationID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunAdmission(ctx, func(
		reservationRepo repository.ReservationRepository,
		unitRepo repository.UnitRepository,
		cleaningRepo repository.CleaningTaskRepository,
		maintenanceRepo repository.MaintenanceRequestRepository,
		_ repository.BalanceRepository,
		_ repository.MovementRepository,
	) error {
		reservation, err := reservationRepo.GetByID(reservationID)
		if err != nil {
			return err
		}
		if reservation == nil {
			return domain.ErrNotFound
		}
		from := reservation.Status
		if from != entity.ReservationStatusPending && from != entity.ReservationStatusConfirmed {
			return domain.ErrConflict
		}
		ok, err := reservationRepo.UpdateStatusIf(reservationID, from, entity.ReservationStatusCheckedIn)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		return uc.lifecycleUC.TransitionInTx(unitRepo, cleaningRepo, maintenanceRepo,
			reservation.UnitID, entity.UnitEventCheckIn, actorID, "check-in reserva "+reservation.ID)
	})
}

// ConsumedItem amenity consumido durante la estadía, descontado del scope de
// housekeeping al hacer checkout.
type ConsumedItem struct {
	Scope    entity.Scope
	ItemID   string
	Quantity int64
}

// CheckOut marca la reserva como CHECKED_OUT, transiciona la unidad a
// CLEANING (creando la tarea de limpieza) y registra los consumos de
// amenities, todo en una transacción.
func (uc *UseCase) CheckOut(ctx context.Context, reservationID, actorID string, consumed []ConsumedItem) error {
	if reservationID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunAdmission(ctx, func(
		reservationRepo repository.ReservationRepository,
		unitRepo repository.UnitRepository,
		cleaningRepo repository.CleaningTaskRepository,
		maintenanceRepo repository.MaintenanceRequestRepository,
		balanceRepo repository.BalanceRepository,
		movementRepo repository.MovementRepository,
	) error {
		reservation, err := reservationRepo.GetByID(reservationID)
		if err != nil {
			return err
		}
		if reservation == nil {
			return domain.ErrNotFound
		}
		if reservation.Status != entity.ReservationStatusCheckedIn {
			return domain.ErrConflict
		}
		ok, err := reservationRepo.UpdateStatusIf(reservationID, entity.ReservationStatusCheckedIn, entity.ReservationStatusCheckedOut)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		if err := uc.lifecycleUC.TransitionInTx(unitRepo, cleaningRepo, maintenanceRepo,
			reservation.UnitID, entity.UnitEventCheckOut, actorID, "checkout reserva "+reservation.ID); err != nil {
			return err
		}
		for _, c := range consumed {
			if err := uc.ledgerUC.RegisterOutInTx(balanceRepo, movementRepo,
				c.Scope, c.ItemID, c.Quantity, "consumo estadía", reservation.ID, actorID); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListByUnit reservas de una unidad.
func (uc *UseCase) ListByUnit(ctx context.Context, unitID string, limit, offset int) ([]*entity.Reservation, error) {
	if unitID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = 20
	}
	return uc.reservationRepo.ListByUnit(unitID, limit, offset)
}

func (uc *UseCase) updateStatus(reservationID, from, to string) error {
	ok, err := uc.reservationRepo.UpdateStatusIf(reservationID, from, to)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrConflict
	}
	return nil
}
