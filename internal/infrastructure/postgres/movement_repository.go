package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del log de movimientos sobre PostgreSQL
// (usable con pool o tx). Append-only: no hay UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, department_id, section_id, item_id, kind, quantity, reason, reference, occurred_at, created_by`

// Create persiste un movimiento de stock.
func (r *MovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.Scope.DepartmentID, sectionKey(movement.Scope.SectionID),
		movement.ItemID, movement.Kind, movement.Quantity,
		movement.Reason, movement.Reference, movement.OccurredAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID; nil si no existe.
func (r *MovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByScope lista movimientos de un scope (itemID "" = todos) en un rango
// de fechas.
func (r *MovementRepo) ListByScope(scope entity.Scope, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE department_id = $1 AND section_id = $2`
	args := []any{scope.DepartmentID, sectionKey(scope.SectionID)}
	pos := 3
	if itemID != "" {
		query += fmt.Sprintf(" AND item_id = $%d", pos)
		args = append(args, itemID)
		pos++
	}
	if from != nil {
		query += fmt.Sprintf(" AND occurred_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND occurred_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY occurred_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	return r.list(query, args...)
}

// ListByReference movimientos correlacionados por referencia (traslado, reserva).
func (r *MovementRepo) ListByReference(reference string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE reference = $1 ORDER BY occurred_at`
	return r.list(query, reference)
}

// SumByScopeItem suma los movimientos firmados: salidas restan, entradas
// suman, adjustment aporta su delta tal cual.
func (r *MovementRepo) SumByScopeItem(scope entity.Scope, itemID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE WHEN kind IN ('out', 'loss', 'transfer_out') THEN -quantity ELSE quantity END
		), 0)
		FROM stock_movements
		WHERE department_id = $1 AND section_id = $2 AND item_id = $3`
	var sum int64
	err := r.q.QueryRow(context.Background(), query,
		scope.DepartmentID, sectionKey(scope.SectionID), itemID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

func (r *MovementRepo) list(query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var sectionID string
	err := row.Scan(&m.ID, &m.Scope.DepartmentID, &sectionID, &m.ItemID, &m.Kind,
		&m.Quantity, &m.Reason, &m.Reference, &m.OccurredAt, &m.CreatedBy)
	if err != nil {
		return nil, err
	}
	m.Scope.SectionID = sectionFromKey(sectionID)
	return &m, nil
}
