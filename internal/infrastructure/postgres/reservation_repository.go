package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/hotelops-api/internal/domain"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo implementación de reservas sobre PostgreSQL (usable con
// pool o tx). El solape usa ventanas semiabiertas: in < out ajeno y
// out > in ajeno.
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador.
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

const reservationColumns = `id, unit_id, guest_id, check_in_date, check_out_date, status, idempotency_key, total_price, notes, created_at, created_by`

// Create inserta la reserva. ErrDuplicate si el idempotency key ya existe:
// el constraint único es la línea de meta de la carrera de creación.
func (r *ReservationRepo) Create(res *entity.Reservation) error {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	query := `
		INSERT INTO reservations (id, unit_id, guest_id, check_in_date, check_out_date, status, idempotency_key, total_price, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		res.ID, res.UnitID, res.GuestID, res.CheckInDate, res.CheckOutDate,
		res.Status, res.IdempotencyKey, res.TotalPrice, res.Notes, res.CreatedAt, res.CreatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("reserva con idempotency key %s: %w", res.IdempotencyKey, domain.ErrDuplicate)
		}
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// GetByID obtiene la reserva; nil si no existe.
func (r *ReservationRepo) GetByID(id string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

// GetByIdempotencyKey obtiene la reserva por clave; nil si no existe.
func (r *ReservationRepo) GetByIdempotencyKey(key string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE idempotency_key = $1`
	res, err := scanReservation(r.q.QueryRow(context.Background(), query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation by key: %w", err)
	}
	return res, nil
}

// ListByUnit reservas de una unidad, más recientes primero.
func (r *ReservationRepo) ListByUnit(unitID string, limit, offset int) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + ` FROM reservations
		WHERE unit_id = $1 ORDER BY check_in_date DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, unitID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

// HasOverlap true si alguna reserva viva de la unidad solapa la ventana
// semiabierta [checkIn, checkOut). Solo cuentan PENDING, CONFIRMED y
// CHECKED_IN; las canceladas y finalizadas liberan la ventana.
func (r *ReservationRepo) HasOverlap(unitID string, checkIn, checkOut time.Time, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE unit_id = $1
			  AND status IN ('PENDING', 'CONFIRMED', 'CHECKED_IN')
			  AND check_in_date < $3
			  AND check_out_date > $2
			  AND id <> $4
		)`
	var exists bool
	err := r.q.QueryRow(context.Background(), query, unitID, checkIn, checkOut, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check reservation overlap: %w", err)
	}
	return exists, nil
}

// UpdateStatusIf cambia el estado solo si el actual coincide con from.
func (r *ReservationRepo) UpdateStatusIf(id, from, to string) (bool, error) {
	query := `UPDATE reservations SET status = $3 WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(context.Background(), query, id, from, to)
	if err != nil {
		return false, fmt.Errorf("update reservation status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// FindAvailableUnits unidades AVAILABLE sin reserva viva solapada en la
// ventana. Lectura no bloqueante: la foto puede quedar vieja y Create
// re-valida dentro de la tx.
func (r *ReservationRepo) FindAvailableUnits(checkIn, checkOut time.Time, filter repository.AvailabilityFilter) ([]*repository.AvailableUnit, error) {
	query := `
		SELECT u.id, u.room_type_id, u.number, u.floor, u.status, u.status_updated_at, u.notes,
		       rt.id, rt.name, rt.description, rt.capacity, rt.nightly_rate, rt.created_at
		FROM units u
		JOIN room_types rt ON rt.id = u.room_type_id
		WHERE u.status = 'AVAILABLE'
		  AND NOT EXISTS (
			SELECT 1 FROM reservations res
			WHERE res.unit_id = u.id
			  AND res.status IN ('PENDING', 'CONFIRMED', 'CHECKED_IN')
			  AND res.check_in_date < $2
			  AND res.check_out_date > $1
		  )`
	args := []any{checkIn, checkOut}
	if filter.RoomTypeID != "" {
		args = append(args, filter.RoomTypeID)
		query += fmt.Sprintf(" AND u.room_type_id = $%d", len(args))
	}
	if filter.MinCapacity > 0 {
		args = append(args, filter.MinCapacity)
		query += fmt.Sprintf(" AND rt.capacity >= $%d", len(args))
	}
	query += " ORDER BY rt.nightly_rate, u.number"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("find available units: %w", err)
	}
	defer rows.Close()
	var list []*repository.AvailableUnit
	for rows.Next() {
		var u entity.Unit
		var rt entity.RoomType
		err := rows.Scan(&u.ID, &u.RoomTypeID, &u.Number, &u.Floor, &u.Status, &u.StatusUpdatedAt, &u.Notes,
			&rt.ID, &rt.Name, &rt.Description, &rt.Capacity, &rt.NightlyRate, &rt.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan available unit: %w", err)
		}
		list = append(list, &repository.AvailableUnit{Unit: &u, RoomType: &rt})
	}
	return list, rows.Err()
}

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	err := row.Scan(&res.ID, &res.UnitID, &res.GuestID, &res.CheckInDate, &res.CheckOutDate,
		&res.Status, &res.IdempotencyKey, &res.TotalPrice, &res.Notes, &res.CreatedAt, &res.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
