package memory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)
var _ repository.MovementRepository = (*MovementRepo)(nil)
var _ repository.StockReservationRepository = (*StockReservationRepo)(nil)

// BalanceRepo saldos en memoria. Las mutaciones condicionales replican la
// semántica del update condicional de postgres: false si el predicado no se
// cumple al momento del write.
type BalanceRepo struct {
	s    *Store
	inTx bool
}

// NewBalanceRepository construye el repo atado al store (fuera de tx).
func NewBalanceRepository(s *Store) *BalanceRepo {
	return &BalanceRepo{s: s}
}

func (r *BalanceRepo) Get(scope entity.Scope, itemID string) (*entity.Balance, error) {
	defer r.s.lockIf(r.inTx)()
	if b, ok := r.s.balances[balanceKey(scope, itemID)]; ok {
		cp := *b
		return &cp, nil
	}
	return &entity.Balance{Scope: scope, ItemID: itemID}, nil
}

func (r *BalanceRepo) ListByScope(scope entity.Scope) ([]*entity.Balance, error) {
	defer r.s.lockIf(r.inTx)()
	var list []*entity.Balance
	for _, b := range r.s.balances {
		if b.Scope.Equal(scope) {
			cp := *b
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ItemID < list[j].ItemID })
	return list, nil
}

func (r *BalanceRepo) Add(scope entity.Scope, itemID string, quantity int64) error {
	defer r.s.lockIf(r.inTx)()
	r.upsert(scope, itemID).Quantity += quantity
	return nil
}

func (r *BalanceRepo) SubtractIfAvailable(scope entity.Scope, itemID string, quantity int64) (bool, error) {
	defer r.s.lockIf(r.inTx)()
	b, ok := r.s.balances[balanceKey(scope, itemID)]
	if !ok || b.Quantity < quantity {
		return false, nil
	}
	b.Quantity -= quantity
	b.UpdatedAt = time.Now()
	return true, nil
}

func (r *BalanceRepo) AddUnchecked(scope entity.Scope, itemID string, delta int64) error {
	defer r.s.lockIf(r.inTx)()
	r.upsert(scope, itemID).Quantity += delta
	return nil
}

func (r *BalanceRepo) ReserveIfAvailable(scope entity.Scope, itemID string, quantity int64) (bool, error) {
	defer r.s.lockIf(r.inTx)()
	b, ok := r.s.balances[balanceKey(scope, itemID)]
	if !ok || b.Quantity-b.Reserved < quantity {
		return false, nil
	}
	b.Reserved += quantity
	b.UpdatedAt = time.Now()
	return true, nil
}

func (r *BalanceRepo) ReleaseReserved(scope entity.Scope, itemID string, quantity int64) error {
	defer r.s.lockIf(r.inTx)()
	if b, ok := r.s.balances[balanceKey(scope, itemID)]; ok {
		b.Reserved -= quantity
		if b.Reserved < 0 {
			b.Reserved = 0
		}
		b.UpdatedAt = time.Now()
	}
	return nil
}

// upsert requiere el lock tomado.
func (r *BalanceRepo) upsert(scope entity.Scope, itemID string) *entity.Balance {
	key := balanceKey(scope, itemID)
	b, ok := r.s.balances[key]
	if !ok {
		b = &entity.Balance{Scope: scope, ItemID: itemID}
		r.s.balances[key] = b
	}
	b.UpdatedAt = time.Now()
	return b
}

// MovementRepo log de movimientos en memoria (append-only).
type MovementRepo struct {
	s    *Store
	inTx bool
}

// NewMovementRepository construye el repo atado al store (fuera de tx).
func NewMovementRepository(s *Store) *MovementRepo {
	return &MovementRepo{s: s}
}

func (r *MovementRepo) Create(m *entity.StockMovement) error {
	defer r.s.lockIf(r.inTx)()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *MovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	defer r.s.lockIf(r.inTx)()
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *MovementRepo) ListByScope(scope entity.Scope, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	defer r.s.lockIf(r.inTx)()
	var list []*entity.StockMovement
	for _, m := range r.s.movements {
		if !m.Scope.Equal(scope) {
			continue
		}
		if itemID != "" && m.ItemID != itemID {
			continue
		}
		if from != nil && m.OccurredAt.Before(*from) {
			continue
		}
		if to != nil && !m.OccurredAt.Before(*to) {
			continue
		}
		cp := *m
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].OccurredAt.After(list[j].OccurredAt) })
	return page(list, limit, offset), nil
}

func (r *MovementRepo) ListByReference(reference string) ([]*entity.StockMovement, error) {
	defer r.s.lockIf(r.inTx)()
	var list []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.Reference == reference {
			cp := *m
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *MovementRepo) SumByScopeItem(scope entity.Scope, itemID string) (int64, error) {
	defer r.s.lockIf(r.inTx)()
	var sum int64
	for _, m := range r.s.movements {
		if m.Scope.Equal(scope) && m.ItemID == itemID {
			sum += m.Signed()
		}
	}
	return sum, nil
}

// StockReservationRepo apartados de stock en memoria.
type StockReservationRepo struct {
	s    *Store
	inTx bool
}

// NewStockReservationRepository construye el repo atado al store (fuera de tx).
func NewStockReservationRepository(s *Store) *StockReservationRepo {
	return &StockReservationRepo{s: s}
}

func (r *StockReservationRepo) Create(res *entity.StockReservation) error {
	defer r.s.lockIf(r.inTx)()
	cp := *res
	r.s.stockReservations[res.Token] = &cp
	return nil
}

func (r *StockReservationRepo) GetByToken(token string) (*entity.StockReservation, error) {
	defer r.s.lockIf(r.inTx)()
	if res, ok := r.s.stockReservations[token]; ok {
		cp := *res
		return &cp, nil
	}
	return nil, nil
}

func (r *StockReservationRepo) MarkReleased(token string) (bool, error) {
	defer r.s.lockIf(r.inTx)()
	res, ok := r.s.stockReservations[token]
	if !ok || res.ReleasedAt != nil {
		return false, nil
	}
	now := time.Now()
	res.ReleasedAt = &now
	return true, nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
