package memory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)
var _ repository.CleaningTaskRepository = (*CleaningTaskRepo)(nil)
var _ repository.MaintenanceRequestRepository = (*MaintenanceRequestRepo)(nil)

// UnitRepo unidades y su historial en memoria.
type UnitRepo struct {
	s    *Store
	inTx bool
}

// NewUnitRepository construye el repo atado al store (fuera de tx).
func NewUnitRepository(s *Store) *UnitRepo {
	return &UnitRepo{s: s}
}

func (r *UnitRepo) GetByID(id string) (*entity.Unit, error) {
	defer r.s.lockIf(r.inTx)()
	if u, ok := r.s.units[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *UnitRepo) ListByStatus(status string) ([]*entity.Unit, error) {
	defer r.s.lockIf(r.inTx)()
	var list []*entity.Unit
	for _, u := range r.s.units {
		if status == "" || u.Status == status {
			cp := *u
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Number < list[j].Number })
	return list, nil
}

func (r *UnitRepo) Create(u *entity.Unit) error {
	defer r.s.lockIf(r.inTx)()
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	cp := *u
	r.s.units[u.ID] = &cp
	return nil
}

func (r *UnitRepo) UpdateStatusIf(id, from, to string) (bool, error) {
	defer r.s.lockIf(r.inTx)()
	u, ok := r.s.units[id]
	if !ok || u.Status != from {
		return false, nil
	}
	u.Status = to
	u.StatusUpdatedAt = time.Now()
	return true, nil
}

func (r *UnitRepo) AppendHistory(row *entity.UnitStatusHistory) error {
	defer r.s.lockIf(r.inTx)()
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	cp := *row
	r.s.history = append(r.s.history, &cp)
	return nil
}

func (r *UnitRepo) ListHistory(unitID string, limit, offset int) ([]*entity.UnitStatusHistory, error) {
	defer r.s.lockIf(r.inTx)()
	var list []*entity.UnitStatusHistory
	for _, h := range r.s.history {
		if h.UnitID == unitID {
			cp := *h
			list = append(list, &cp)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].ChangedAt.After(list[j].ChangedAt) })
	return page(list, limit, offset), nil
}

func (r *UnitRepo) LastTransition(unitID string) (*entity.UnitStatusHistory, error) {
	defer r.s.lockIf(r.inTx)()
	// El historial es append-only: la última fila de la unidad es la más
	// reciente.
	for i := len(r.s.history) - 1; i >= 0; i-- {
		if r.s.history[i].UnitID == unitID {
			cp := *r.s.history[i]
			return &cp, nil
		}
	}
	return nil, nil
}

// CleaningTaskRepo tareas de limpieza en memoria.
type CleaningTaskRepo struct {
	s    *Store
	inTx bool
}

// NewCleaningTaskRepository construye el repo atado al store (fuera de tx).
func NewCleaningTaskRepository(s *Store) *CleaningTaskRepo {
	return &CleaningTaskRepo{s: s}
}

func (r *CleaningTaskRepo) Create(t *entity.CleaningTask) error {
	defer r.s.lockIf(r.inTx)()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	cp := *t
	r.s.cleaning[t.ID] = &cp
	return nil
}

func (r *CleaningTaskRepo) GetByID(id string) (*entity.CleaningTask, error) {
	defer r.s.lockIf(r.inTx)()
	if t, ok := r.s.cleaning[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (r *CleaningTaskRepo) ListOpenByUnit(unitID string) ([]*entity.CleaningTask, error) {
	defer r.s.lockIf(r.inTx)()
	var list []*entity.CleaningTask
	for _, t := range r.s.cleaning {
		if t.UnitID == unitID && t.Open() {
			cp := *t
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *CleaningTaskRepo) CountOpenByUnit(unitID, excludeID string) (int, error) {
	defer r.s.lockIf(r.inTx)()
	n := 0
	for _, t := range r.s.cleaning {
		if t.UnitID == unitID && t.Open() && t.ID != excludeID {
			n++
		}
	}
	return n, nil
}

func (r *CleaningTaskRepo) UpdateStatusIf(id, from, to string) (bool, error) {
	defer r.s.lockIf(r.inTx)()
	t, ok := r.s.cleaning[id]
	if !ok || t.Status != from {
		return false, nil
	}
	t.Status = to
	now := time.Now()
	switch to {
	case entity.CleaningStatusCompleted:
		t.CompletedAt = &now
	case entity.CleaningStatusInspected:
		t.InspectedAt = &now
	}
	return true, nil
}

// MaintenanceRequestRepo solicitudes de mantenimiento en memoria.
type MaintenanceRequestRepo struct {
	s    *Store
	inTx bool
}

// NewMaintenanceRequestRepository construye el repo atado al store (fuera de tx).
func NewMaintenanceRequestRepository(s *Store) *MaintenanceRequestRepo {
	return &MaintenanceRequestRepo{s: s}
}

func (r *MaintenanceRequestRepo) Create(m *entity.MaintenanceRequest) error {
	defer r.s.lockIf(r.inTx)()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	cp := *m
	r.s.maintenance[m.ID] = &cp
	return nil
}

func (r *MaintenanceRequestRepo) GetByID(id string) (*entity.MaintenanceRequest, error) {
	defer r.s.lockIf(r.inTx)()
	if m, ok := r.s.maintenance[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r *MaintenanceRequestRepo) ListOpenByUnit(unitID string) ([]*entity.MaintenanceRequest, error) {
	defer r.s.lockIf(r.inTx)()
	var list []*entity.MaintenanceRequest
	for _, m := range r.s.maintenance {
		if m.UnitID == unitID && m.Open() {
			cp := *m
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *MaintenanceRequestRepo) CountOpenByUnit(unitID, excludeID string) (int, error) {
	defer r.s.lockIf(r.inTx)()
	n := 0
	for _, m := range r.s.maintenance {
		if m.UnitID == unitID && m.Open() && m.ID != excludeID {
			n++
		}
	}
	return n, nil
}

func (r *MaintenanceRequestRepo) UpdateStatusIf(id, from, to string) (bool, error) {
	defer r.s.lockIf(r.inTx)()
	m, ok := r.s.maintenance[id]
	if !ok || m.Status != from {
		return false, nil
	}
	m.Status = to
	now := time.Now()
	switch to {
	case entity.MaintenanceStatusResolved:
		m.ResolvedAt = &now
	case entity.MaintenanceStatusVerified:
		m.VerifiedAt = &now
	}
	return true, nil
}
