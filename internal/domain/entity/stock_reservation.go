package entity

import "time"

// StockReservation apartado de cantidad contra órdenes en curso. Incrementa
// Reserved sin tocar Quantity; el token es la referencia para liberar.
type StockReservation struct {
	Token      string
	Scope      Scope
	ItemID     string
	Quantity   int64
	Reference  string
	CreatedAt  time.Time
	ReleasedAt *time.Time
}

// Active indica si la reserva de stock sigue vigente.
func (r *StockReservation) Active() bool {
	return r.ReleasedAt == nil
}
