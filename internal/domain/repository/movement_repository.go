package repository

import (
	"time"

	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
)

// MovementRepository puerto de persistencia para el log inmutable de
// movimientos de stock. Solo Create y lecturas: los movimientos nunca se
// actualizan ni se borran.
type MovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByScope(scope entity.Scope, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByReference(reference string) ([]*entity.StockMovement, error)
	// SumByScopeItem suma los movimientos firmados de un ítem en un scope.
	// Debe reconciliar exacto con Balance.Quantity (chequeo offline).
	SumByScopeItem(scope entity.Scope, itemID string) (int64, error)
}
