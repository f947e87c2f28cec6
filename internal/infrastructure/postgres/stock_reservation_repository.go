package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

var _ repository.StockReservationRepository = (*StockReservationRepo)(nil)

// StockReservationRepo implementación de los apartados de stock sobre
// PostgreSQL (usable con pool o tx).
type StockReservationRepo struct {
	q Querier
}

// NewStockReservationRepository construye el adaptador.
func NewStockReservationRepository(q Querier) *StockReservationRepo {
	return &StockReservationRepo{q: q}
}

// Create persiste el apartado.
func (r *StockReservationRepo) Create(res *entity.StockReservation) error {
	query := `
		INSERT INTO stock_reservations (token, department_id, section_id, item_id, quantity, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		res.Token, res.Scope.DepartmentID, sectionKey(res.Scope.SectionID),
		res.ItemID, res.Quantity, res.Reference, res.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock reservation: %w", err)
	}
	return nil
}

// GetByToken obtiene el apartado; nil si no existe.
func (r *StockReservationRepo) GetByToken(token string) (*entity.StockReservation, error) {
	query := `
		SELECT token, department_id, section_id, item_id, quantity, reference, created_at, released_at
		FROM stock_reservations WHERE token = $1`
	var res entity.StockReservation
	var sectionID string
	err := r.q.QueryRow(context.Background(), query, token).Scan(
		&res.Token, &res.Scope.DepartmentID, &sectionID, &res.ItemID,
		&res.Quantity, &res.Reference, &res.CreatedAt, &res.ReleasedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock reservation: %w", err)
	}
	res.Scope.SectionID = sectionFromKey(sectionID)
	return &res, nil
}

// MarkReleased marca el token como liberado solo si seguía activo. false =
// ya liberado (el caller no debe descontar reserved dos veces).
func (r *StockReservationRepo) MarkReleased(token string) (bool, error) {
	query := `
		UPDATE stock_reservations SET released_at = now()
		WHERE token = $1 AND released_at IS NULL`
	tag, err := r.q.Exec(context.Background(), query, token)
	if err != nil {
		return false, fmt.Errorf("mark released: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
