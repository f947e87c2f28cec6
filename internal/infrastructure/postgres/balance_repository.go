package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL (usable
// con pool o tx). Las mutaciones condicionales ponen el predicado en el WHERE
// del UPDATE: si el valor almacenado ya no lo satisface al momento del write,
// cero filas afectadas y el caller decide. Sin SELECT FOR UPDATE: varias
// instancias del servidor pueden correr a la vez.
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get obtiene el saldo de un ítem en un scope; saldo cero si no hay fila.
func (r *BalanceRepo) Get(scope entity.Scope, itemID string) (*entity.Balance, error) {
	query := `
		SELECT department_id, section_id, item_id, quantity, reserved, updated_at
		FROM balances
		WHERE department_id = $1 AND section_id = $2 AND item_id = $3`
	var b entity.Balance
	var sectionID string
	err := r.q.QueryRow(context.Background(), query,
		scope.DepartmentID, sectionKey(scope.SectionID), itemID,
	).Scan(&b.Scope.DepartmentID, &sectionID, &b.ItemID, &b.Quantity, &b.Reserved, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Balance{Scope: scope, ItemID: itemID}, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	b.Scope.SectionID = sectionFromKey(sectionID)
	return &b, nil
}

// ListByScope lista los saldos de un scope.
func (r *BalanceRepo) ListByScope(scope entity.Scope) ([]*entity.Balance, error) {
	query := `
		SELECT department_id, section_id, item_id, quantity, reserved, updated_at
		FROM balances
		WHERE department_id = $1 AND section_id = $2
		ORDER BY item_id`
	rows, err := r.q.Query(context.Background(), query, scope.DepartmentID, sectionKey(scope.SectionID))
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.Balance
	for rows.Next() {
		var b entity.Balance
		var sectionID string
		if err := rows.Scan(&b.Scope.DepartmentID, &sectionID, &b.ItemID, &b.Quantity, &b.Reserved, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		b.Scope.SectionID = sectionFromKey(sectionID)
		list = append(list, &b)
	}
	return list, rows.Err()
}

// Add suma cantidad al saldo, creando la fila si no existe.
func (r *BalanceRepo) Add(scope entity.Scope, itemID string, quantity int64) error {
	query := `
		INSERT INTO balances (department_id, section_id, item_id, quantity, reserved, updated_at)
		VALUES ($1, $2, $3, $4, 0, now())
		ON CONFLICT (department_id, section_id, item_id)
		DO UPDATE SET quantity = balances.quantity + EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		scope.DepartmentID, sectionKey(scope.SectionID), itemID, quantity)
	if err != nil {
		return fmt.Errorf("add balance: %w", err)
	}
	return nil
}

// SubtractIfAvailable descuenta solo si quantity alcanza al momento del write.
func (r *BalanceRepo) SubtractIfAvailable(scope entity.Scope, itemID string, quantity int64) (bool, error) {
	query := `
		UPDATE balances
		SET quantity = quantity - $4, updated_at = now()
		WHERE department_id = $1 AND section_id = $2 AND item_id = $3
		  AND quantity >= $4`
	tag, err := r.q.Exec(context.Background(), query,
		scope.DepartmentID, sectionKey(scope.SectionID), itemID, quantity)
	if err != nil {
		return false, fmt.Errorf("subtract balance: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// AddUnchecked aplica un delta con signo sin piso en cero (ajustes con
// allow_negative explícito).
func (r *BalanceRepo) AddUnchecked(scope entity.Scope, itemID string, delta int64) error {
	query := `
		INSERT INTO balances (department_id, section_id, item_id, quantity, reserved, updated_at)
		VALUES ($1, $2, $3, $4, 0, now())
		ON CONFLICT (department_id, section_id, item_id)
		DO UPDATE SET quantity = balances.quantity + EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		scope.DepartmentID, sectionKey(scope.SectionID), itemID, delta)
	if err != nil {
		return fmt.Errorf("add unchecked balance: %w", err)
	}
	return nil
}

// ReserveIfAvailable incrementa reserved solo si el disponible alcanza.
func (r *BalanceRepo) ReserveIfAvailable(scope entity.Scope, itemID string, quantity int64) (bool, error) {
	query := `
		UPDATE balances
		SET reserved = reserved + $4, updated_at = now()
		WHERE department_id = $1 AND section_id = $2 AND item_id = $3
		  AND quantity - reserved >= $4`
	tag, err := r.q.Exec(context.Background(), query,
		scope.DepartmentID, sectionKey(scope.SectionID), itemID, quantity)
	if err != nil {
		return false, fmt.Errorf("reserve balance: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ReleaseReserved decrementa reserved sin tocar quantity. El CHECK
// reserved >= 0 de la tabla respalda el invariante ante un release de más.
func (r *BalanceRepo) ReleaseReserved(scope entity.Scope, itemID string, quantity int64) error {
	query := `
		UPDATE balances
		SET reserved = reserved - $4, updated_at = now()
		WHERE department_id = $1 AND section_id = $2 AND item_id = $3`
	_, err := r.q.Exec(context.Background(), query,
		scope.DepartmentID, sectionKey(scope.SectionID), itemID, quantity)
	if err != nil {
		return fmt.Errorf("release reserved: %w", err)
	}
	return nil
}
