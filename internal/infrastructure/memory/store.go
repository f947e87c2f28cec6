// Package memory implementa los puertos de persistencia sobre mapas en
// memoria, con un TxRunner que simula transacciones por snapshot/restore.
// Respaldo de los tests de casos de uso: mismo contrato que postgres, sin BD.
package memory

import (
	"sync"
	"time"

	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
)

// Store estado compartido de todos los repositorios en memoria. El mutex
// serializa las transacciones: equivale al aislamiento Serializable del
// adaptador real, sin carreras que mapear.
type Store struct {
	mu sync.Mutex

	balances          map[string]*entity.Balance
	movements         []*entity.StockMovement
	stockReservations map[string]*entity.StockReservation
	transfers         map[string]*entity.Transfer
	units             map[string]*entity.Unit
	history           []*entity.UnitStatusHistory
	cleaning          map[string]*entity.CleaningTask
	maintenance       map[string]*entity.MaintenanceRequest
	reservations      map[string]*entity.Reservation
	roomTypes         map[string]*entity.RoomType
	departments       map[string]*entity.Department
	sections          map[string]*entity.Section
	items             map[string]*entity.Item
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		balances:          make(map[string]*entity.Balance),
		stockReservations: make(map[string]*entity.StockReservation),
		transfers:         make(map[string]*entity.Transfer),
		units:             make(map[string]*entity.Unit),
		cleaning:          make(map[string]*entity.CleaningTask),
		maintenance:       make(map[string]*entity.MaintenanceRequest),
		reservations:      make(map[string]*entity.Reservation),
		roomTypes:         make(map[string]*entity.RoomType),
		departments:       make(map[string]*entity.Department),
		sections:          make(map[string]*entity.Section),
		items:             make(map[string]*entity.Item),
	}
}

// lockIf toma el mutex salvo que el caller ya lo tenga (repos atados a una
// transacción en curso). Devuelve el unlock a diferir.
func (s *Store) lockIf(held bool) func() {
	if held {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func balanceKey(scope entity.Scope, itemID string) string {
	return scope.DepartmentID + "|" + scope.SectionKey() + "|" + itemID
}

// ── Seed helpers para tests ──────────────────────────────────────────────────

// SeedDepartment registra un departamento en el catálogo.
func (s *Store) SeedDepartment(id, name string) {
	defer s.lockIf(false)()
	s.departments[id] = &entity.Department{ID: id, Name: name, CreatedAt: time.Now()}
}

// SeedSection registra una sección en el catálogo.
func (s *Store) SeedSection(id, departmentID, name string) {
	defer s.lockIf(false)()
	s.sections[id] = &entity.Section{ID: id, DepartmentID: departmentID, Name: name, CreatedAt: time.Now()}
}

// SeedItem registra un ítem en el catálogo.
func (s *Store) SeedItem(id, name string) {
	defer s.lockIf(false)()
	s.items[id] = &entity.Item{ID: id, Name: name, Unit: "und", CreatedAt: time.Now()}
}

// ── Snapshot / restore ───────────────────────────────────────────────────────

type snapshot struct {
	balances          map[string]*entity.Balance
	movementsLen      int
	stockReservations map[string]*entity.StockReservation
	transfers         map[string]*entity.Transfer
	units             map[string]*entity.Unit
	historyLen        int
	cleaning          map[string]*entity.CleaningTask
	maintenance       map[string]*entity.MaintenanceRequest
	reservations      map[string]*entity.Reservation
}

// snapshot clona el estado mutable. Los logs (movements, history) son
// append-only: basta recordar el largo. El catálogo y los room types no se
// mutan dentro de transacciones.
func (s *Store) snapshot() snapshot {
	snap := snapshot{
		balances:          make(map[string]*entity.Balance, len(s.balances)),
		movementsLen:      len(s.movements),
		stockReservations: make(map[string]*entity.StockReservation, len(s.stockReservations)),
		transfers:         make(map[string]*entity.Transfer, len(s.transfers)),
		units:             make(map[string]*entity.Unit, len(s.units)),
		historyLen:        len(s.history),
		cleaning:          make(map[string]*entity.CleaningTask, len(s.cleaning)),
		maintenance:       make(map[string]*entity.MaintenanceRequest, len(s.maintenance)),
		reservations:      make(map[string]*entity.Reservation, len(s.reservations)),
	}
	for k, v := range s.balances {
		b := *v
		snap.balances[k] = &b
	}
	for k, v := range s.stockReservations {
		r := *v
		snap.stockReservations[k] = &r
	}
	for k, v := range s.transfers {
		t := *v
		t.Items = append([]entity.TransferItem(nil), v.Items...)
		snap.transfers[k] = &t
	}
	for k, v := range s.units {
		u := *v
		snap.units[k] = &u
	}
	for k, v := range s.cleaning {
		c := *v
		snap.cleaning[k] = &c
	}
	for k, v := range s.maintenance {
		m := *v
		snap.maintenance[k] = &m
	}
	for k, v := range s.reservations {
		r := *v
		snap.reservations[k] = &r
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.balances = snap.balances
	s.movements = s.movements[:snap.movementsLen]
	s.stockReservations = snap.stockReservations
	s.transfers = snap.transfers
	s.units = snap.units
	s.history = s.history[:snap.historyLen]
	s.cleaning = snap.cleaning
	s.maintenance = snap.maintenance
	s.reservations = snap.reservations
}
