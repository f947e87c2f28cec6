package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

var _ repository.CleaningTaskRepository = (*CleaningTaskRepo)(nil)
var _ repository.MaintenanceRequestRepository = (*MaintenanceRequestRepo)(nil)

// CleaningTaskRepo implementación de tareas de limpieza sobre PostgreSQL
// (usable con pool o tx). UpdateStatusIf estampa completed_at/inspected_at
// al entrar a esos estados.
type CleaningTaskRepo struct {
	q Querier
}

// NewCleaningTaskRepository construye el adaptador.
func NewCleaningTaskRepository(q Querier) *CleaningTaskRepo {
	return &CleaningTaskRepo{q: q}
}

const cleaningColumns = `id, unit_id, status, priority, assigned_to, notes, created_at, completed_at, inspected_at`

// Create persiste la tarea.
func (r *CleaningTaskRepo) Create(t *entity.CleaningTask) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO cleaning_tasks (id, unit_id, status, priority, assigned_to, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.UnitID, t.Status, t.Priority, t.AssignedTo, t.Notes, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create cleaning task: %w", err)
	}
	return nil
}

// GetByID obtiene la tarea; nil si no existe.
func (r *CleaningTaskRepo) GetByID(id string) (*entity.CleaningTask, error) {
	query := `SELECT ` + cleaningColumns + ` FROM cleaning_tasks WHERE id = $1`
	t, err := scanCleaningTask(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cleaning task: %w", err)
	}
	return t, nil
}

// ListOpenByUnit tareas abiertas (no INSPECTED) de la unidad.
func (r *CleaningTaskRepo) ListOpenByUnit(unitID string) ([]*entity.CleaningTask, error) {
	query := `
		SELECT ` + cleaningColumns + ` FROM cleaning_tasks
		WHERE unit_id = $1 AND status <> $2 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, unitID, entity.CleaningStatusInspected)
	if err != nil {
		return nil, fmt.Errorf("list open cleaning tasks: %w", err)
	}
	defer rows.Close()
	var list []*entity.CleaningTask
	for rows.Next() {
		t, err := scanCleaningTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cleaning task: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// CountOpenByUnit cuenta tareas abiertas consultando el conjunto vivo (la
// guarda de la transición nunca usa un conteo cacheado).
func (r *CleaningTaskRepo) CountOpenByUnit(unitID, excludeID string) (int, error) {
	query := `
		SELECT count(*) FROM cleaning_tasks
		WHERE unit_id = $1 AND status <> $2 AND id <> $3`
	var n int
	err := r.q.QueryRow(context.Background(), query, unitID, entity.CleaningStatusInspected, excludeID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count open cleaning tasks: %w", err)
	}
	return n, nil
}

// UpdateStatusIf cambia el estado solo si el actual coincide con from,
// estampando completed_at/inspected_at según el destino.
func (r *CleaningTaskRepo) UpdateStatusIf(id, from, to string) (bool, error) {
	query := `
		UPDATE cleaning_tasks SET status = $3,
			completed_at = CASE WHEN $3 = 'COMPLETED' THEN now() ELSE completed_at END,
			inspected_at = CASE WHEN $3 = 'INSPECTED' THEN now() ELSE inspected_at END
		WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(context.Background(), query, id, from, to)
	if err != nil {
		return false, fmt.Errorf("update cleaning task status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanCleaningTask(row pgx.Row) (*entity.CleaningTask, error) {
	var t entity.CleaningTask
	err := row.Scan(&t.ID, &t.UnitID, &t.Status, &t.Priority, &t.AssignedTo,
		&t.Notes, &t.CreatedAt, &t.CompletedAt, &t.InspectedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// MaintenanceRequestRepo implementación de solicitudes de mantenimiento
// sobre PostgreSQL (usable con pool o tx).
type MaintenanceRequestRepo struct {
	q Querier
}

// NewMaintenanceRequestRepository construye el adaptador.
func NewMaintenanceRequestRepository(q Querier) *MaintenanceRequestRepo {
	return &MaintenanceRequestRepo{q: q}
}

const maintenanceColumns = `id, unit_id, status, priority, reported_by, assigned_to, description, created_at, resolved_at, verified_at`

// Create persiste la solicitud.
func (r *MaintenanceRequestRepo) Create(m *entity.MaintenanceRequest) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO maintenance_requests (id, unit_id, status, priority, reported_by, assigned_to, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.UnitID, m.Status, m.Priority, m.ReportedBy, m.AssignedTo, m.Description, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create maintenance request: %w", err)
	}
	return nil
}

// GetByID obtiene la solicitud; nil si no existe.
func (r *MaintenanceRequestRepo) GetByID(id string) (*entity.MaintenanceRequest, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_requests WHERE id = $1`
	m, err := scanMaintenanceRequest(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get maintenance request: %w", err)
	}
	return m, nil
}

// ListOpenByUnit solicitudes abiertas (no VERIFIED) de la unidad.
func (r *MaintenanceRequestRepo) ListOpenByUnit(unitID string) ([]*entity.MaintenanceRequest, error) {
	query := `
		SELECT ` + maintenanceColumns + ` FROM maintenance_requests
		WHERE unit_id = $1 AND status <> $2 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, unitID, entity.MaintenanceStatusVerified)
	if err != nil {
		return nil, fmt.Errorf("list open maintenance requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.MaintenanceRequest
	for rows.Next() {
		m, err := scanMaintenanceRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan maintenance request: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// CountOpenByUnit cuenta solicitudes abiertas del conjunto vivo.
func (r *MaintenanceRequestRepo) CountOpenByUnit(unitID, excludeID string) (int, error) {
	query := `
		SELECT count(*) FROM maintenance_requests
		WHERE unit_id = $1 AND status <> $2 AND id <> $3`
	var n int
	err := r.q.QueryRow(context.Background(), query, unitID, entity.MaintenanceStatusVerified, excludeID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count open maintenance requests: %w", err)
	}
	return n, nil
}

// UpdateStatusIf cambia el estado solo si el actual coincide con from,
// estampando resolved_at/verified_at según el destino.
func (r *MaintenanceRequestRepo) UpdateStatusIf(id, from, to string) (bool, error) {
	query := `
		UPDATE maintenance_requests SET status = $3,
			resolved_at = CASE WHEN $3 = 'RESOLVED' THEN now() ELSE resolved_at END,
			verified_at = CASE WHEN $3 = 'VERIFIED' THEN now() ELSE verified_at END
		WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(context.Background(), query, id, from, to)
	if err != nil {
		return false, fmt.Errorf("update maintenance request status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanMaintenanceRequest(row pgx.Row) (*entity.MaintenanceRequest, error) {
	var m entity.MaintenanceRequest
	err := row.Scan(&m.ID, &m.UnitID, &m.Status, &m.Priority, &m.ReportedBy,
		&m.AssignedTo, &m.Description, &m.CreatedAt, &m.ResolvedAt, &m.VerifiedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
