package repository

import "github.com/tu-usuario/hotelops-api/internal/domain/entity"

// TransferRepository puerto de persistencia para traslados y sus líneas.
type TransferRepository interface {
	// Create persiste el traslado con sus TransferItems.
	Create(transfer *entity.Transfer) error
	// GetByID devuelve el traslado con sus líneas; nil si no existe.
	GetByID(id string) (*entity.Transfer, error)
	ListByStatus(status string, limit, offset int) ([]*entity.Transfer, error)
	// UpdateStatusIf cambia el estado solo si el actual coincide con from
	// (update condicional). false = cero filas afectadas: otro proceso ya lo
	// movió de estado.
	UpdateStatusIf(id, from, to string) (bool, error)
}
