package entity

import "time"

// Estados de un traslado de stock entre scopes.
const (
	TransferStatusPending   = "pending"
	TransferStatusApproved  = "approved"
	TransferStatusCompleted = "completed"
	TransferStatusRejected  = "rejected"
)

// Transfer es la unidad de atomicidad de un traslado multi-ítem entre dos
// scopes: o se mueven todos los ítems o ninguno. Se crea en pending, se
// valida al aprobar y sus movimientos se aplican exactamente una vez al
// pasar a completed.
type Transfer struct {
	ID        string
	FromScope Scope
	ToScope   Scope
	Items     []TransferItem
	Status    string
	Reason    string
	CreatedAt time.Time
	CreatedBy string
}

// TransferItem una línea del traslado.
type TransferItem struct {
	ItemID   string
	Quantity int64
}

// IsFinal indica si el traslado ya no admite más cambios de estado.
func (t *Transfer) IsFinal() bool {
	return t.Status == TransferStatusCompleted || t.Status == TransferStatusRejected
}
