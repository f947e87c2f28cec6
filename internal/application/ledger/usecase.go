package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/hotelops-api/internal/domain"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

// UseCase operaciones del ledger de inventario: consulta de saldos, registro
// atómico de movimientos y apartado/liberación de cantidad contra órdenes en
// curso. Todo cambio de stock pasa por RegisterMovement, de modo que el log
// de movimientos es la única fuente de verdad de "por qué cambió el saldo".
type UseCase struct {
	txRunner     TxRunner
	balanceRepo  repository.BalanceRepository
	movementRepo repository.MovementRepository
	catalogRepo  repository.CatalogRepository
}

// NewUseCase construye el caso de uso. balanceRepo y movementRepo van atados
// al pool (lecturas); las mutaciones corren por txRunner.
func NewUseCase(
	txRunner TxRunner,
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
	catalogRepo repository.CatalogRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		balanceRepo:  balanceRepo,
		movementRepo: movementRepo,
		catalogRepo:  catalogRepo,
	}
}

// MovementInput entrada para registrar un movimiento directo de stock.
// Quantity es magnitud positiva salvo adjustment, donde es el delta con signo.
// AllowNegative solo aplica a adjustment y loss: permite dejar el saldo bajo
// cero de forma explícita (conteo físico menor al teórico).
type MovementInput struct {
	Scope         entity.Scope
	ItemID        string
	Kind          string
	Quantity      int64
	Reason        string
	Reference     string
	ActorID       string
	AllowNegative bool
}

// GetBalance devuelve el saldo de un ítem en un scope. Saldo cero si no hay
// fila: ausencia significa no rastreado, no error. Lectura no bloqueante,
// puede quedar momentáneamente vieja.
func (uc *UseCase) GetBalance(ctx context.Context, scope entity.Scope, itemID string) (*entity.Balance, error) {
	if scope.DepartmentID == "" || itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.balanceRepo.Get(scope, itemID)
}

// ListBalances lista los saldos de un scope.
func (uc *UseCase) ListBalances(ctx context.Context, scope entity.Scope) ([]*entity.Balance, error) {
	if scope.DepartmentID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.balanceRepo.ListByScope(scope)
}

// RegisterMovement aplica un movimiento de stock de forma atómica: actualiza
// el saldo y agrega el registro inmutable en la misma transacción. Para
// salidas (out/loss) falla con ErrInsufficientStock si la cantidad supera el
// saldo al momento del write (update condicional, nunca una lectura cacheada).
// Los tipos transfer_in/transfer_out están reservados al coordinador de
// traslados.
func (uc *UseCase) RegisterMovement(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	if err := uc.validateMovement(input); err != nil {
		return nil, err
	}

	now := time.Now()
	mov := &entity.StockMovement{
		ID:         uuid.New().String(),
		Scope:      input.Scope,
		ItemID:     input.ItemID,
		Kind:       input.Kind,
		Quantity:   input.Quantity,
		Reason:     input.Reason,
		Reference:  input.Reference,
		OccurredAt: now,
		CreatedBy:  input.ActorID,
	}

	err := uc.txRunner.RunLedger(ctx, func(
		balanceRepo repository.BalanceRepository,
		movementRepo repository.MovementRepository,
		_ repository.StockReservationRepository,
	) error {
		if err := applyToBalance(balanceRepo, input); err != nil {
			return err
		}
		return movementRepo.Create(mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// applyToBalance aplica el efecto del movimiento sobre la fila de saldo.
func applyToBalance(balanceRepo repository.BalanceRepository, input MovementInput) error {
	switch input.Kind {
	case entity.MovementKindIn:
		return balanceRepo.Add(input.Scope, input.ItemID, input.Quantity)
	case entity.MovementKindOut:
		return subtractChecked(balanceRepo, input.Scope, input.ItemID, input.Quantity)
	case entity.MovementKindLoss:
		if input.AllowNegative {
			return balanceRepo.AddUnchecked(input.Scope, input.ItemID, -input.Quantity)
		}
		return subtractChecked(balanceRepo, input.Scope, input.ItemID, input.Quantity)
	case entity.MovementKindAdjustment:
		if input.Quantity > 0 {
			return balanceRepo.Add(input.Scope, input.ItemID, input.Quantity)
		}
		if input.AllowNegative {
			return balanceRepo.AddUnchecked(input.Scope, input.ItemID, input.Quantity)
		}
		return subtractChecked(balanceRepo, input.Scope, input.ItemID, -input.Quantity)
	}
	return domain.ErrInvalidInput
}

func subtractChecked(balanceRepo repository.BalanceRepository, scope entity.Scope, itemID string, quantity int64) error {
	ok, err := balanceRepo.SubtractIfAvailable(scope, itemID, quantity)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInsufficientStock
	}
	return nil
}

// RegisterOutInTx ejecuta una salida (out) usando los repositorios del caller
// (misma transacción). Lo usa Admission para descontar amenities consumidos
// en el mismo commit que el checkout; reference suele ser el id de la reserva.
func (uc *UseCase) RegisterOutInTx(
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
	scope entity.Scope,
	itemID string,
	quantity int64,
	reason, reference, actorID string,
) error {
	if scope.DepartmentID == "" || itemID == "" || quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if err := subtractChecked(balanceRepo, scope, itemID, quantity); err != nil {
		return err
	}
	return movementRepo.Create(&entity.StockMovement{
		ID:         uuid.New().String(),
		Scope:      scope,
		ItemID:     itemID,
		Kind:       entity.MovementKindOut,
		Quantity:   quantity,
		Reason:     reason,
		Reference:  reference,
		OccurredAt: time.Now(),
		CreatedBy:  actorID,
	})
}

// Reserve aparta cantidad contra una orden en curso: incrementa reserved sin
// tocar quantity. Falla con ErrInsufficientAvailable si la cantidad supera el
// disponible (quantity - reserved) al momento del write. Devuelve el token
// para liberar.
func (uc *UseCase) Reserve(ctx context.Context, scope entity.Scope, itemID string, quantity int64, reference string) (string, error) {
	if scope.DepartmentID == "" || itemID == "" || quantity <= 0 {
		return "", domain.ErrInvalidInput
	}
	token := uuid.New().String()
	err := uc.txRunner.RunLedger(ctx, func(
		balanceRepo repository.BalanceRepository,
		_ repository.MovementRepository,
		stockResRepo repository.StockReservationRepository,
	) error {
		ok, err := balanceRepo.ReserveIfAvailable(scope, itemID, quantity)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInsufficientAvailable
		}
		return stockResRepo.Create(&entity.StockReservation{
			Token:     token,
			Scope:     scope,
			ItemID:    itemID,
			Quantity:  quantity,
			Reference: reference,
			CreatedAt: time.Now(),
		})
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Release libera el apartado identificado por el token. Idempotente: liberar
// un token ya liberado es un no-op (seguro ante reintentos del caller).
func (uc *UseCase) Release(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunLedger(ctx, func(
		balanceRepo repository.BalanceRepository,
		_ repository.MovementRepository,
		stockResRepo repository.StockReservationRepository,
	) error {
		res, err := stockResRepo.GetByToken(token)
		if err != nil {
			return err
		}
		if res == nil {
			return domain.ErrNotFound
		}
		ok, err := stockResRepo.MarkReleased(token)
		if err != nil {
			return err
		}
		if !ok {
			// Ya liberado por un reintento anterior: no descontar dos veces.
			return nil
		}
		return balanceRepo.ReleaseReserved(res.Scope, res.ItemID, res.Quantity)
	})
}

// ListMovements lista el log de movimientos de un scope (itemID "" = todos).
func (uc *UseCase) ListMovements(ctx context.Context, scope entity.Scope, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if scope.DepartmentID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = 50
	}
	return uc.movementRepo.ListByScope(scope, itemID, from, to, limit, offset)
}

// ReconcileResult resultado del chequeo offline de reconciliación.
type ReconcileResult struct {
	Scope           entity.Scope
	ItemID          string
	BalanceQuantity int64
	MovementSum     int64
}

// Consistent indica si el saldo materializado coincide con la suma del log.
func (r *ReconcileResult) Consistent() bool {
	return r.BalanceQuantity == r.MovementSum
}

// Reconcile verifica que la suma de movimientos firmados reproduzca el saldo
// actual del ítem en el scope.
func (uc *UseCase) Reconcile(ctx context.Context, scope entity.Scope, itemID string) (*ReconcileResult, error) {
	if scope.DepartmentID == "" || itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	balance, err := uc.balanceRepo.Get(scope, itemID)
	if err != nil {
		return nil, err
	}
	sum, err := uc.movementRepo.SumByScopeItem(scope, itemID)
	if err != nil {
		return nil, err
	}
	return &ReconcileResult{
		Scope:           scope,
		ItemID:          itemID,
		BalanceQuantity: balance.Quantity,
		MovementSum:     sum,
	}, nil
}

// validateMovement valida tipo, cantidades y existencia en catálogo.
func (uc *UseCase) validateMovement(input MovementInput) error {
	if input.Scope.DepartmentID == "" || input.ItemID == "" {
		return domain.ErrInvalidInput
	}
	switch input.Kind {
	case entity.MovementKindIn, entity.MovementKindOut, entity.MovementKindLoss:
		if input.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
	case entity.MovementKindAdjustment:
		if input.Quantity == 0 {
			return domain.ErrInvalidInput
		}
	default:
		// transfer_in/transfer_out solo via el coordinador de traslados.
		return domain.ErrInvalidInput
	}

	item, err := uc.catalogRepo.GetItem(input.ItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return uc.validateScope(input.Scope)
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
