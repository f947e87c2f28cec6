package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/hotelops-api/internal/domain"
	"github.com/tu-usuario/hotelops-api/internal/domain/booking"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)
var _ repository.RoomTypeRepository = (*RoomTypeRepo)(nil)
var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// ReservationRepo reservas en memoria. El chequeo de duplicado por
// idempotency key replica el constraint único de postgres.
type ReservationRepo struct {
	s    *Store
	inTx bool
}

// NewReservationRepository construye el repo atado al store (fuera de tx).
func NewReservationRepository(s *Store) *ReservationRepo {
	return &ReservationRepo{s: s}
}

func (r *ReservationRepo) Create(res *entity.Reservation) error {
	defer r.s.lockIf(r.inTx)()
	for _, existing := range r.s.reservations {
		if existing.IdempotencyKey == res.IdempotencyKey {
			return fmt.Errorf("reserva con idempotency key %s: %w", res.IdempotencyKey, domain.ErrDuplicate)
		}
	}
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	cp := *res
	r.s.reservations[res.ID] = &cp
	return nil
}

func (r *ReservationRepo) GetByID(id string) (*entity.Reservation, error) {
	defer r.s.lockIf(r.inTx)()
	if res, ok := r.s.reservations[id]; ok {
		cp := *res
		return &cp, nil
	}
	return nil, nil
}

func (r *ReservationRepo) GetByIdempotencyKey(key string) (*entity.Reservation, error) {
	defer r.s.lockIf(r.inTx)()
	for _, res := range r.s.reservations {
		if res.IdempotencyKey == key {
			cp := *res
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ReservationRepo) ListByUnit(unitID string, limit, offset int) ([]*entity.Reservation, error) {
	defer r.s.lockIf(r.inTx)()
	var list []*entity.Reservation
	for _, res := range r.s.reservations {
		if res.UnitID == unitID {
			cp := *res
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CheckInDate.After(list[j].CheckInDate) })
	return page(list, limit, offset), nil
}

func (r *ReservationRepo) HasOverlap(unitID string, checkIn, checkOut time.Time, excludeID string) (bool, error) {
	defer r.s.lockIf(r.inTx)()
	for _, res := range r.s.reservations {
		if res.UnitID != unitID || res.ID == excludeID || !res.IsLive() {
			continue
		}
		if booking.Overlaps(res.CheckInDate, res.CheckOutDate, checkIn, checkOut) {
			return true, nil
		}
	}
	return false, nil
}

func (r *ReservationRepo) UpdateStatusIf(id, from, to string) (bool, error) {
	defer r.s.lockIf(r.inTx)()
	res, ok := r.s.reservations[id]
	if !ok || res.Status != from {
		return false, nil
	}
	res.Status = to
	return true, nil
}

func (r *ReservationRepo) FindAvailableUnits(checkIn, checkOut time.Time, filter repository.AvailabilityFilter) ([]*repository.AvailableUnit, error) {
	defer r.s.lockIf(r.inTx)()
	var list []*repository.AvailableUnit
	for _, u := range r.s.units {
		if u.Status != entity.UnitStatusAvailable {
			continue
		}
		if filter.RoomTypeID != "" && u.RoomTypeID != filter.RoomTypeID {
			continue
		}
		rt, ok := r.s.roomTypes[u.RoomTypeID]
		if !ok {
			continue
		}
		if filter.MinCapacity > 0 && rt.Capacity < filter.MinCapacity {
			continue
		}
		occupied := false
		for _, res := range r.s.reservations {
			if res.UnitID == u.ID && res.IsLive() &&
				booking.Overlaps(res.CheckInDate, res.CheckOutDate, checkIn, checkOut) {
				occupied = true
				break
			}
		}
		if occupied {
			continue
		}
		uc, rc := *u, *rt
		list = append(list, &repository.AvailableUnit{Unit: &uc, RoomType: &rc})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Unit.Number < list[j].Unit.Number })
	return list, nil
}

// RoomTypeRepo tipos de habitación en memoria.
type RoomTypeRepo struct {
	s    *Store
	inTx bool
}

// NewRoomTypeRepository construye el repo atado al store (fuera de tx).
func NewRoomTypeRepository(s *Store) *RoomTypeRepo {
	return &RoomTypeRepo{s: s}
}

func (r *RoomTypeRepo) GetByID(id string) (*entity.RoomType, error) {
	defer r.s.lockIf(r.inTx)()
	if rt, ok := r.s.roomTypes[id]; ok {
		cp := *rt
		return &cp, nil
	}
	return nil, nil
}

func (r *RoomTypeRepo) List() ([]*entity.RoomType, error) {
	defer r.s.lockIf(r.inTx)()
	var list []*entity.RoomType
	for _, rt := range r.s.roomTypes {
		cp := *rt
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *RoomTypeRepo) Create(rt *entity.RoomType) error {
	defer r.s.lockIf(r.inTx)()
	if rt.ID == "" {
		rt.ID = uuid.New().String()
	}
	cp := *rt
	r.s.roomTypes[rt.ID] = &cp
	return nil
}

// CatalogRepo catálogo maestro en memoria (solo lectura; se puebla con los
// seed helpers del Store).
type CatalogRepo struct {
	s    *Store
	inTx bool
}

// NewCatalogRepository construye el repo atado al store (fuera de tx).
func NewCatalogRepository(s *Store) *CatalogRepo {
	return &CatalogRepo{s: s}
}

func (r *CatalogRepo) GetDepartment(id string) (*entity.Department, error) {
	defer r.s.lockIf(r.inTx)()
	if d, ok := r.s.departments[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (r *CatalogRepo) GetSection(id string) (*entity.Section, error) {
	defer r.s.lockIf(r.inTx)()
	if s, ok := r.s.sections[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *CatalogRepo) GetItem(id string) (*entity.Item, error) {
	defer r.s.lockIf(r.inTx)()
	if it, ok := r.s.items[id]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, nil
}

func (r *CatalogRepo) ListDepartments() ([]*entity.Department, error) {
	defer r.s.lockIf(r.inTx)()
	var list []*entity.Department
	for _, d := range r.s.departments {
		cp := *d
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *CatalogRepo) ListItems() ([]*entity.Item, error) {
	defer r.s.lockIf(r.inTx)()
	var list []*entity.Item
	for _, it := range r.s.items {
		cp := *it
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}
