package memory

import (
	"context"

	"github.com/tu-usuario/hotelops-api/internal/application/admission"
	"github.com/tu-usuario/hotelops-api/internal/application/ledger"
	"github.com/tu-usuario/hotelops-api/internal/application/lifecycle"
	"github.com/tu-usuario/hotelops-api/internal/application/transfer"
	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

// Ensure TxRunner implements los puertos de cada caso de uso.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ transfer.TxRunner = (*TxRunner)(nil)
var _ lifecycle.TxRunner = (*TxRunner)(nil)
var _ admission.TxRunner = (*TxRunner)(nil)

// TxRunner simula transacciones sobre el Store: toma el mutex (serializa las
// transacciones entre sí), clona el estado y lo restaura si fn falla. Mismo
// contrato observable que el runner de postgres: o todo o nada.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner con el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// RunLedger transacción para movimientos y apartados del ledger.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
	stockResRepo repository.StockReservationRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(&BalanceRepo{s: r.s, inTx: true}, &MovementRepo{s: r.s, inTx: true}, &StockReservationRepo{s: r.s, inTx: true})
	})
}

// RunTransfer transacción para la aplicación de traslados.
func (r *TxRunner) RunTransfer(ctx context.Context, fn func(
	transferRepo repository.TransferRepository,
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(&TransferRepo{s: r.s, inTx: true}, &BalanceRepo{s: r.s, inTx: true}, &MovementRepo{s: r.s, inTx: true})
	})
}

// RunLifecycle transacción para transiciones de unidad y sus tareas.
func (r *TxRunner) RunLifecycle(ctx context.Context, fn func(
	unitRepo repository.UnitRepository,
	cleaningRepo repository.CleaningTaskRepository,
	maintenanceRepo repository.MaintenanceRequestRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(&UnitRepo{s: r.s, inTx: true}, &CleaningTaskRepo{s: r.s, inTx: true}, &MaintenanceRequestRepo{s: r.s, inTx: true})
	})
}

// RunAdmission transacción para admisión de reservas y check-in/checkout.
func (r *TxRunner) RunAdmission(ctx context.Context, fn func(
	reservationRepo repository.ReservationRepository,
	unitRepo repository.UnitRepository,
	cleaningRepo repository.CleaningTaskRepository,
	maintenanceRepo repository.MaintenanceRequestRepository,
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(
			&ReservationRepo{s: r.s, inTx: true},
			&UnitRepo{s: r.s, inTx: true},
			&CleaningTaskRepo{s: r.s, inTx: true},
			&MaintenanceRequestRepo{s: r.s, inTx: true},
			&BalanceRepo{s: r.s, inTx: true},
			&MovementRepo{s: r.s, inTx: true},
		)
	})
}

func (r *TxRunner) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snap := r.s.snapshot()
	if err := fn(); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}
