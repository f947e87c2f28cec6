package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tu-usuario/hotelops-api/internal/domain"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

// maxAttempts intentos de la transacción de aplicación ante contención
// detectada (carrera perdida del update condicional o serialization failure).
const maxAttempts = 3

// retryBackoff espera base entre intentos.
const retryBackoff = 25 * time.Millisecond

// errLostRace: la validación fresca vio saldo suficiente pero el update
// condicional afectó cero filas (un consumidor concurrente drenó el stock
// dentro de la ventana). Se reintenta la transacción completa; si persiste,
// al caller le llega ErrInsufficientStock.
var errLostRace = fmt.Errorf("carrera perdida en update condicional: %w", domain.ErrInsufficientStock)

// errRejected: el traslado está rechazado, un estado terminal. Es conflicto
// para el caller pero no contención: reintentar no lo va a destrabar.
var errRejected = fmt.Errorf("traslado rechazado: %w", domain.ErrConflict)

// UseCase coordina traslados multi-ítem entre dos scopes como operación todo
// o nada: nunca queda el origen debitado sin el destino acreditado, ni al
// revés.
type UseCase struct {
	txRunner     TxRunner
	transferRepo repository.TransferRepository
	balanceRepo  repository.BalanceRepository
	catalogRepo  repository.CatalogRepository
	log          zerolog.Logger
}

// NewUseCase construye el coordinador.
func NewUseCase(
	txRunner TxRunner,
	transferRepo repository.TransferRepository,
	balanceRepo repository.BalanceRepository,
	catalogRepo repository.CatalogRepository,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		transferRepo: transferRepo,
		balanceRepo:  balanceRepo,
		catalogRepo:  catalogRepo,
		log:          log,
	}
}

// CreateInput entrada para crear un traslado.
type CreateInput struct {
	FromScope entity.Scope
	ToScope   entity.Scope
	Items     []entity.TransferItem
	Reason    string
	ActorID   string
}

// Create registra el traslado en pending tras validar forma, scopes y saldos
// frescos en origen. La garantía real de stock se re-verifica al aprobar: la
// lectura de aquí es informativa y puede quedar vieja.
func (uc *UseCase) Create(ctx context.Context, input CreateInput) (*entity.Transfer, error) {
	if err := uc.validateCreate(input); err != nil {
		return nil, err
	}
	for _, item := range input.Items {
		balance, err := uc.balanceRepo.Get(input.FromScope, item.ItemID)
		if err != nil {
			return nil, err
		}
		if balance.Quantity < item.Quantity {
			return nil, domain.ErrInsufficientStock
		}
	}

	transfer := &entity.Transfer{
		ID:        uuid.New().String(),
		FromScope: input.FromScope,
		ToScope:   input.ToScope,
		Items:     input.Items,
		Status:    entity.TransferStatusPending,
		Reason:    input.Reason,
		CreatedAt: time.Now(),
		CreatedBy: input.ActorID,
	}
	// Cabecera y líneas commitean juntas: un pending con lista parcial de
	// ítems sería aplicable por Approve tal cual quedó.
	err := uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		_ repository.BalanceRepository,
		_ repository.MovementRepository,
	) error {
		return transferRepo.Create(transfer)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// Approve aplica el traslado de forma atómica y exactamente una vez:
//  1. re-lee cada saldo de origen fresco dentro de la tx,
//  2. debita con update condicional (cero filas = carrera perdida),
//  3. acredita el destino (creando la fila si no existe),
//  4. agrega transfer_out en origen y transfer_in en destino referenciando el
//     traslado,
//  5. marca completed.
//
// Todo en una transacción; cualquier falla revierte el conjunto y el traslado
// queda en su estado previo para reintentar. Ante contención transitoria se
// reintenta hasta maxAttempts con backoff corto. Aprobar un traslado ya
// completed es un no-op (idempotente).
func (uc *UseCase) Approve(ctx context.Context, transferID, actorID string) (*entity.Transfer, error) {
	if transferID == "" {
		return nil, domain.ErrInvalidInput
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := uc.txRunner.RunTransfer(ctx, func(
			transferRepo repository.TransferRepository,
			balanceRepo repository.BalanceRepository,
			movementRepo repository.MovementRepository,
		) error {
			return uc.apply(transferRepo, balanceRepo, movementRepo, transferID, actorID)
		})
		if err == nil {
			return uc.transferRepo.GetByID(transferID)
		}
		if !retryable(err) {
			return nil, err
		}
		lastErr = err
		uc.log.Warn().
			Str("transfer_id", transferID).
			Int("attempt", attempt).
			Err(err).
			Msg("contención al aplicar traslado, reintentando")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryBackoff * time.Duration(attempt)):
		}
	}
	return nil, lastErr
}

// apply ejecuta los cinco pasos dentro de la transacción del caller.
func (uc *UseCase) apply(
	transferRepo repository.TransferRepository,
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
	transferID, actorID string,
) error {
	transfer, err := transferRepo.GetByID(transferID)
	if err != nil {
		return err
	}
	if transfer == nil {
		return domain.ErrNotFound
	}
	switch transfer.Status {
	case entity.TransferStatusCompleted:
		// Ya aplicado: re-aplicar no debe mover stock dos veces.
		return nil
	case entity.TransferStatusRejected:
		return errRejected
	case entity.TransferStatusPending:
		ok, err := transferRepo.UpdateStatusIf(transferID, entity.TransferStatusPending, entity.TransferStatusApproved)
		if err != nil {
			return err
		}
		if !ok {
			// Otra instancia lo movió de estado: reintentar desde cero.
			return domain.ErrConflict
		}
	case entity.TransferStatusApproved:
		// Intento anterior alcanzó a aprobar pero no a completar: continuar.
	default:
		return domain.ErrConflict
	}

	now := time.Now()
	for _, item := range transfer.Items {
		// Validación fresca: nunca reutilizar una lectura previa entre la
		// decisión y el write.
		balance, err := balanceRepo.Get(transfer.FromScope, item.ItemID)
		if err != nil {
			return err
		}
		if balance.Quantity < item.Quantity {
			return domain.ErrInsufficientStock
		}
		ok, err := balanceRepo.SubtractIfAvailable(transfer.FromScope, item.ItemID, item.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return errLostRace
		}
		if err := balanceRepo.Add(transfer.ToScope, item.ItemID, item.Quantity); err != nil {
			return err
		}

		out := &entity.StockMovement{
			ID:         uuid.New().String(),
			Scope:      transfer.FromScope,
			ItemID:     item.ItemID,
			Kind:       entity.MovementKindTransferOut,
			Quantity:   item.Quantity,
			Reason:     transfer.Reason,
			Reference:  transfer.ID,
			OccurredAt: now,
			CreatedBy:  actorID,
		}
		if err := movementRepo.Create(out); err != nil {
			return err
		}
		in := &entity.StockMovement{
			ID:         uuid.New().String(),
			Scope:      transfer.ToScope,
			ItemID:     item.ItemID,
			Kind:       entity.MovementKindTransferIn,
			Quantity:   item.Quantity,
			Reason:     transfer.Reason,
			Reference:  transfer.ID,
			OccurredAt: now,
			CreatedBy:  actorID,
		}
		if err := movementRepo.Create(in); err != nil {
			return err
		}
	}

	ok, err := transferRepo.UpdateStatusIf(transferID, entity.TransferStatusApproved, entity.TransferStatusCompleted)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrConflict
	}
	return nil
}

// Reject rechaza un traslado pendiente.
func (uc *UseCase) Reject(ctx context.Context, transferID, actorID string) error {
	if transferID == "" {
		return domain.ErrInvalidInput
	}
	transfer, err := uc.transferRepo.GetByID(transferID)
	if err != nil {
		return err
	}
	if transfer == nil {
		return domain.ErrNotFound
	}
	ok, err := uc.transferRepo.UpdateStatusIf(transferID, entity.TransferStatusPending, entity.TransferStatusRejected)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrConflict
	}
	return nil
}

// Get devuelve un traslado con sus líneas.
func (uc *UseCase) Get(ctx context.Context, transferID string) (*entity.Transfer, error) {
	transfer, err := uc.transferRepo.GetByID(transferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, domain.ErrNotFound
	}
	return transfer, nil
}

// ListByStatus lista traslados por estado.
func (uc *UseCase) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.Transfer, error) {
	if limit <= 0 {
		limit = 20
	}
	return uc.transferRepo.ListByStatus(status, limit, offset)
}

// retryable: contención transitoria (carrera del update condicional o
// conflicto de serialización que la capa postgres mapea a ErrConflict). Un
// rechazo es conflicto terminal, no contención.
func retryable(err error) bool {
	if errors.Is(err, errRejected) {
		return false
	}
	return errors.Is(err, errLostRace) || errors.Is(err, domain.ErrConflict)
}

func (uc *UseCase) validateCreate(input CreateInput) error {
	if input.FromScope.DepartmentID == "" || input.ToScope.DepartmentID == "" {
		return domain.ErrInvalidInput
	}
	if input.FromScope.Equal(input.ToScope) {
		return domain.ErrInvalidInput
	}
	if len(input.Items) == 0 {
		return domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(input.Items))
	for _, item := range input.Items {
		if item.ItemID == "" || item.Quantity <= 0 || seen[item.ItemID] {
			return domain.ErrInvalidInput
		}
		seen[item.ItemID] = true
		it, err := uc.catalogRepo.GetItem(item.ItemID)
		if err != nil {
			return err
		}
		if it == nil {
			return domain.ErrNotFound
		}
	}
	if err := uc.validateScope(input.FromScope); err != nil {
		return err
	}
	return uc.validateScope(input.ToScope)
}

func (uc *UseCase) validateScope(scope entity.Scope) error {
	dept, err := uc.catalogRepo.GetDepartment(scope.DepartmentID)
	if err != nil {
		return err
	}
	if dept == nil {
		return domain.ErrNotFound
	}
	if scope.SectionID != nil {
		section, err := uc.catalogRepo.GetSection(*scope.SectionID)
		if err != nil {
			return err
		}
		if section == nil || section.DepartmentID != scope.DepartmentID {
			return domain.ErrNotFound
		}
	}
	return nil
}
