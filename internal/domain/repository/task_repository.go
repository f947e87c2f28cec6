package repository

import "github.com/tu-usuario/hotelops-api/internal/domain/entity"

// CleaningTaskRepository puerto para tareas de limpieza. CountOpenByUnit debe
// consultar el conjunto vivo al momento de la transición, nunca un conteo
// cacheado.
type CleaningTaskRepository interface {
	Create(task *entity.CleaningTask) error
	GetByID(id string) (*entity.CleaningTask, error)
	ListOpenByUnit(unitID string) ([]*entity.CleaningTask, error)
	// CountOpenByUnit tareas abiertas (no INSPECTED) de la unidad,
	// excluyendo opcionalmente una (excludeID "" = ninguna).
	CountOpenByUnit(unitID, excludeID string) (int, error)
	// UpdateStatusIf cambia el estado solo si el actual coincide con from.
	UpdateStatusIf(id, from, to string) (bool, error)
}

// MaintenanceRequestRepository puerto para solicitudes de mantenimiento.
type MaintenanceRequestRepository interface {
	Create(request *entity.MaintenanceRequest) error
	GetByID(id string) (*entity.MaintenanceRequest, error)
	ListOpenByUnit(unitID string) ([]*entity.MaintenanceRequest, error)
	// CountOpenByUnit solicitudes abiertas (no VERIFIED) de la unidad,
	// excluyendo opcionalmente una.
	CountOpenByUnit(unitID, excludeID string) (int, error)
	UpdateStatusIf(id, from, to string) (bool, error)
}
