package ledger

import (
	"context"

	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el update del saldo y el append
// del movimiento sean un solo paso atómico: un crash entre ambos no es
// observable.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(
		balanceRepo repository.BalanceRepository,
		movementRepo repository.MovementRepository,
		stockResRepo repository.StockReservationRepository,
	) error) error
}
