package transfer

import (
	"context"

	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

// TxRunner ejecuta la aplicación de un traslado dentro de una transacción:
// débitos condicionales en origen, créditos en destino, ambos movimientos y
// el cambio de estado commitean juntos o ninguno lo hace.
type TxRunner interface {
	RunTransfer(ctx context.Context, fn func(
		transferRepo repository.TransferRepository,
		balanceRepo repository.BalanceRepository,
		movementRepo repository.MovementRepository,
	) error) error
}
