package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/hotelops-api/internal/application/admission"
	"github.com/tu-usuario/hotelops-api/internal/application/ledger"
	"github.com/tu-usuario/hotelops-api/internal/application/lifecycle"
	"github.com/tu-usuario/hotelops-api/internal/application/transfer"
	"github.com/tu-usuario/hotelops-api/internal/domain"
	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

// Ensure TxRunner implements los puertos de cada caso de uso.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ transfer.TxRunner = (*TxRunner)(nil)
var _ lifecycle.TxRunner = (*TxRunner)(nil)
var _ admission.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con
// repositorios atados a la tx. Los fallos de serialización (40001/40P01) se
// mapean a domain.ErrConflict para que las capas de arriba reintenten sin
// conocer códigos de Postgres.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunLedger transacción para movimientos y apartados del ledger.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
	stockResRepo repository.StockReservationRepository,
) error) error {
	return r.run(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return fn(NewBalanceRepository(tx), NewMovementRepository(tx), NewStockReservationRepository(tx))
	})
}

// RunTransfer transacción para la aplicación de traslados. Corre en
// serializable: la validación fresca y los débitos condicionales deciden
// sobre el mismo snapshot.
func (r *TxRunner) RunTransfer(ctx context.Context, fn func(
	transferRepo repository.TransferRepository,
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
		return fn(NewTransferRepository(tx), NewBalanceRepository(tx), NewMovementRepository(tx))
	})
}

// RunLifecycle transacción para transiciones de unidad y sus tareas.
func (r *TxRunner) RunLifecycle(ctx context.Context, fn func(
	unitRepo repository.UnitRepository,
	cleaningRepo repository.CleaningTaskRepository,
	maintenanceRepo repository.MaintenanceRequestRepository,
) error) error {
	return r.run(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return fn(NewUnitRepository(tx), NewCleaningTaskRepository(tx), NewMaintenanceRequestRepository(tx))
	})
}

// RunAdmission transacción para admisión de reservas y check-in/checkout.
// Serializable: cierra la carrera entre la re-validación de solape y el
// insert cuando dos callers reservan la última unidad a la vez.
func (r *TxRunner) RunAdmission(ctx context.Context, fn func(
	reservationRepo repository.ReservationRepository,
	unitRepo repository.UnitRepository,
	cleaningRepo repository.CleaningTaskRepository,
	maintenanceRepo repository.MaintenanceRequestRepository,
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
		return fn(
			NewReservationRepository(tx),
			NewUnitRepository(tx),
			NewCleaningTaskRepository(tx),
			NewMaintenanceRequestRepository(tx),
			NewBalanceRepository(tx),
			NewMovementRepository(tx),
		)
	})
}

// run inicia la transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("serialization failure: %w", domain.ErrConflict)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("serialization failure en commit: %w", domain.ErrConflict)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
