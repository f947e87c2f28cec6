package entity

import "time"

// Estados de una tarea de limpieza. Una tarea está "abierta" hasta que se
// inspecciona: COMPLETED sin inspección sigue bloqueando la vuelta a
// AVAILABLE.
const (
	CleaningStatusPending    = "PENDING"
	CleaningStatusInProgress = "IN_PROGRESS"
	CleaningStatusCompleted  = "COMPLETED"
	CleaningStatusInspected  = "INSPECTED"
)

// Estados de una solicitud de mantenimiento. Abierta hasta VERIFIED.
const (
	MaintenanceStatusOpen       = "OPEN"
	MaintenanceStatusInProgress = "IN_PROGRESS"
	MaintenanceStatusResolved   = "RESOLVED"
	MaintenanceStatusVerified   = "VERIFIED"
)

// Prioridades compartidas por tareas de limpieza y mantenimiento.
const (
	PriorityLow    = "LOW"
	PriorityNormal = "NORMAL"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// CleaningTask tarea de limpieza sobre una unidad. Mientras exista al menos
// una abierta, la unidad no puede volver a AVAILABLE.
type CleaningTask struct {
	ID          string
	UnitID      string
	Status      string
	Priority    string
	AssignedTo  string
	Notes       string
	CreatedAt   time.Time
	CompletedAt *time.Time
	InspectedAt *time.Time
}

// Open indica si la tarea sigue abierta (no inspeccionada).
func (t *CleaningTask) Open() bool {
	return t.Status != CleaningStatusInspected
}

// MaintenanceRequest solicitud de mantenimiento sobre una unidad.
type MaintenanceRequest struct {
	ID          string
	UnitID      string
	Status      string
	Priority    string
	ReportedBy  string
	AssignedTo  string
	Description string
	CreatedAt   time.Time
	ResolvedAt  *time.Time
	VerifiedAt  *time.Time
}

// Open indica si la solicitud sigue abierta (no verificada).
func (m *MaintenanceRequest) Open() bool {
	return m.Status != MaintenanceStatusVerified
}
