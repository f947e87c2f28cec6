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

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de traslados sobre PostgreSQL (usable con pool
// o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador.
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create persiste el traslado con sus líneas.
func (r *TransferRepo) Create(t *entity.Transfer) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO transfers (id, from_department_id, from_section_id, to_department_id, to_section_id, status, reason, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.FromScope.DepartmentID, sectionKey(t.FromScope.SectionID),
		t.ToScope.DepartmentID, sectionKey(t.ToScope.SectionID),
		t.Status, t.Reason, t.CreatedAt, t.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}
	for _, item := range t.Items {
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO transfer_items (transfer_id, item_id, quantity) VALUES ($1, $2, $3)`,
			t.ID, item.ItemID, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("create transfer item: %w", err)
		}
	}
	return nil
}

// GetByID devuelve el traslado con sus líneas; nil si no existe.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	query := `
		SELECT id, from_department_id, from_section_id, to_department_id, to_section_id, status, reason, created_at, created_by
		FROM transfers WHERE id = $1`
	t, err := scanTransfer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if err := r.loadItems(t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListByStatus lista traslados por estado (status "" = todos).
func (r *TransferRepo) ListByStatus(status string, limit, offset int) ([]*entity.Transfer, error) {
	query := `
		SELECT id, from_department_id, from_section_id, to_department_id, to_section_id, status, reason, created_at, created_by
		FROM transfers`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range list {
		if err := r.loadItems(t); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// UpdateStatusIf cambia el estado solo si el actual coincide con from.
func (r *TransferRepo) UpdateStatusIf(id, from, to string) (bool, error) {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE transfers SET status = $3 WHERE id = $1 AND status = $2`,
		id, from, to,
	)
	if err != nil {
		return false, fmt.Errorf("update transfer status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TransferRepo) loadItems(t *entity.Transfer) error {
	rows, err := r.q.Query(context.Background(),
		`SELECT item_id, quantity FROM transfer_items WHERE transfer_id = $1 ORDER BY item_id`,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("load transfer items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.TransferItem
		if err := rows.Scan(&item.ItemID, &item.Quantity); err != nil {
			return fmt.Errorf("scan transfer item: %w", err)
		}
		t.Items = append(t.Items, item)
	}
	return rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	var fromSection, toSection string
	err := row.Scan(&t.ID, &t.FromScope.DepartmentID, &fromSection,
		&t.ToScope.DepartmentID, &toSection, &t.Status, &t.Reason, &t.CreatedAt, &t.CreatedBy)
	if err != nil {
		return nil, err
	}
	t.FromScope.SectionID = sectionFromKey(fromSection)
	t.ToScope.SectionID = sectionFromKey(toSection)
	return &t, nil
}
