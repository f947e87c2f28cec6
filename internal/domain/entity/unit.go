package entity

import "time"

// Estados operativos de una habitación (unidad física reservable).
const (
	UnitStatusAvailable   = "AVAILABLE"
	UnitStatusOccupied    = "OCCUPIED"
	UnitStatusCleaning    = "CLEANING"
	UnitStatusMaintenance = "MAINTENANCE"
	UnitStatusBlocked     = "BLOCKED"
)

// Eventos del ciclo de vida de la unidad. Cada evento pasa por la tabla de
// transiciones del motor de ciclo de vida; no hay cambios de estado por fuera.
const (
	UnitEventCheckIn             = "check_in"
	UnitEventCheckOut            = "check_out"
	UnitEventCleaningDone        = "cleaning_done"
	UnitEventMaintenanceRequest  = "maintenance_request"
	UnitEventMaintenanceVerified = "maintenance_verified"
	UnitEventBlock               = "block"
	UnitEventUnblock             = "unblock"
)

// Unit representa una habitación física con su estado operativo actual.
type Unit struct {
	ID              string
	RoomTypeID      string
	Number          string
	Floor           int
	Status          string
	StatusUpdatedAt time.Time
	Notes           string
}

// UnitStatusHistory registro inmutable de cada transición de estado de una
// unidad, manual o automática. Exactamente una fila por transición.
type UnitStatusHistory struct {
	ID             string
	UnitID         string
	PreviousStatus string
	NewStatus      string
	Event          string
	Reason         string
	ChangedBy      string
	ChangedAt      time.Time
}

// ValidUnitStatus valida un estado de unidad.
func ValidUnitStatus(status string) bool {
	switch status {
	case UnitStatusAvailable, UnitStatusOccupied, UnitStatusCleaning,
		UnitStatusMaintenance, UnitStatusBlocked:
		return true
	}
	return false
}
