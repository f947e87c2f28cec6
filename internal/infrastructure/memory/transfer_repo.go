package memory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo traslados en memoria.
type TransferRepo struct {
	s    *Store
	inTx bool
}

// NewTransferRepository construye el repo atado al store (fuera de tx).
func NewTransferRepository(s *Store) *TransferRepo {
	return &TransferRepo{s: s}
}

func (r *TransferRepo) Create(t *entity.Transfer) error {
	defer r.s.lockIf(r.inTx)()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	cp := *t
	cp.Items = append([]entity.TransferItem(nil), t.Items...)
	r.s.transfers[t.ID] = &cp
	return nil
}

func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	defer r.s.lockIf(r.inTx)()
	t, ok := r.s.transfers[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	cp.Items = append([]entity.TransferItem(nil), t.Items...)
	return &cp, nil
}

func (r *TransferRepo) ListByStatus(status string, limit, offset int) ([]*entity.Transfer, error) {
	defer r.s.lockIf(r.inTx)()
	var list []*entity.Transfer
	for _, t := range r.s.transfers {
		if status != "" && t.Status != status {
			continue
		}
		cp := *t
		cp.Items = append([]entity.TransferItem(nil), t.Items...)
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return page(list, limit, offset), nil
}

func (r *TransferRepo) UpdateStatusIf(id, from, to string) (bool, error) {
	defer r.s.lockIf(r.inTx)()
	t, ok := r.s.transfers[id]
	if !ok || t.Status != from {
		return false, nil
	}
	t.Status = to
	return true, nil
}
