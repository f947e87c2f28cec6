package dto

import "time"

// TransitionRequest body para POST /api/units/:id/transitions.
type TransitionRequest struct {
	Event  string `json:"event"`
	Reason string `json:"reason,omitempty"`
}

// UnitResponse unidad con su estado operativo actual.
type UnitResponse struct {
	ID              string    `json:"id"`
	RoomTypeID      string    `json:"room_type_id"`
	Number          string    `json:"number"`
	Floor           int       `json:"floor"`
	Status          string    `json:"status"`
	StatusUpdatedAt time.Time `json:"status_updated_at"`
	Notes           string    `json:"notes,omitempty"`
}

// UnitHistoryResponse una fila del historial de transiciones.
type UnitHistoryResponse struct {
	ID             string    `json:"id"`
	UnitID         string    `json:"unit_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Event          string    `json:"event"`
	Reason         string    `json:"reason,omitempty"`
	ChangedBy      string    `json:"changed_by,omitempty"`
	ChangedAt      time.Time `json:"changed_at"`
}

// CleaningTaskResponse tarea de limpieza.
type CleaningTaskResponse struct {
	ID          string     `json:"id"`
	UnitID      string     `json:"unit_id"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	InspectedAt *time.Time `json:"inspected_at,omitempty"`
}

// MaintenanceRequestResponse solicitud de mantenimiento.
type MaintenanceRequestResponse struct {
	ID          string     `json:"id"`
	UnitID      string     `json:"unit_id"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	ReportedBy  string     `json:"reported_by,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
}
