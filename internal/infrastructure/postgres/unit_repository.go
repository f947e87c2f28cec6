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

var _ repository.UnitRepository = (*UnitRepo)(nil)

// UnitRepo implementación de unidades y su historial sobre PostgreSQL
// (usable con pool o tx).
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador.
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

const unitColumns = `id, room_type_id, number, floor, status, status_updated_at, notes`

// GetByID obtiene la unidad; nil si no existe.
func (r *UnitRepo) GetByID(id string) (*entity.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE id = $1`
	var u entity.Unit
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&u.ID, &u.RoomTypeID, &u.Number, &u.Floor, &u.Status, &u.StatusUpdatedAt, &u.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return &u, nil
}

// ListByStatus lista unidades por estado.
func (r *UnitRepo) ListByStatus(status string) ([]*entity.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE status = $1 ORDER BY number`
	rows, err := r.q.Query(context.Background(), query, status)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	var list []*entity.Unit
	for rows.Next() {
		var u entity.Unit
		if err := rows.Scan(&u.ID, &u.RoomTypeID, &u.Number, &u.Floor, &u.Status, &u.StatusUpdatedAt, &u.Notes); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// Create persiste una unidad.
func (r *UnitRepo) Create(u *entity.Unit) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	query := `
		INSERT INTO units (id, room_type_id, number, floor, status, status_updated_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		u.ID, u.RoomTypeID, u.Number, u.Floor, u.Status, u.StatusUpdatedAt, u.Notes)
	if err != nil {
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}

// UpdateStatusIf cambia el estado solo si el actual coincide con from.
func (r *UnitRepo) UpdateStatusIf(id, from, to string) (bool, error) {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE units SET status = $3, status_updated_at = now() WHERE id = $1 AND status = $2`,
		id, from, to,
	)
	if err != nil {
		return false, fmt.Errorf("update unit status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

const historyColumns = `id, unit_id, previous_status, new_status, event, reason, changed_by, changed_at`

// AppendHistory agrega la fila inmutable de la transición.
func (r *UnitRepo) AppendHistory(row *entity.UnitStatusHistory) error {
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	query := `
		INSERT INTO unit_status_history (` + historyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		row.ID, row.UnitID, row.PreviousStatus, row.NewStatus,
		row.Event, row.Reason, row.ChangedBy, row.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("append unit history: %w", err)
	}
	return nil
}

// ListHistory historial de transiciones, más reciente primero.
func (r *UnitRepo) ListHistory(unitID string, limit, offset int) ([]*entity.UnitStatusHistory, error) {
	query := `
		SELECT ` + historyColumns + ` FROM unit_status_history
		WHERE unit_id = $1 ORDER BY changed_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, unitID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list unit history: %w", err)
	}
	defer rows.Close()
	var list []*entity.UnitStatusHistory
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit history: %w", err)
		}
		list = append(list, h)
	}
	return list, rows.Err()
}

// LastTransition última transición de la unidad; nil si no hay historial.
func (r *UnitRepo) LastTransition(unitID string) (*entity.UnitStatusHistory, error) {
	query := `
		SELECT ` + historyColumns + ` FROM unit_status_history
		WHERE unit_id = $1 ORDER BY changed_at DESC LIMIT 1`
	h, err := scanHistory(r.q.QueryRow(context.Background(), query, unitID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("last transition: %w", err)
	}
	return h, nil
}

func scanHistory(row pgx.Row) (*entity.UnitStatusHistory, error) {
	var h entity.UnitStatusHistory
	err := row.Scan(&h.ID, &h.UnitID, &h.PreviousStatus, &h.NewStatus,
		&h.Event, &h.Reason, &h.ChangedBy, &h.ChangedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}
