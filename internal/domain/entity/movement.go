package entity

import "time"

// Tipos de movimiento de inventario. La cantidad se registra en magnitud
// positiva y el tipo codifica la dirección, salvo adjustment, que lleva el
// delta con signo (una corrección puede sumar o restar).
const (
	MovementKindIn          = "in"           // entrada (compra, reposición)
	MovementKindOut         = "out"          // salida (consumo, venta)
	MovementKindAdjustment  = "adjustment"   // ajuste manual (delta con signo)
	MovementKindLoss        = "loss"         // pérdida o daño
	MovementKindTransferOut = "transfer_out" // salida por traslado entre scopes
	MovementKindTransferIn  = "transfer_in"  // entrada por traslado entre scopes
)

// StockMovement es el registro inmutable de un cambio de stock. Nunca se
// actualiza ni se borra: la suma de movimientos firmados de un ítem en un
// scope debe reconciliar con el Balance en todo momento.
type StockMovement struct {
	ID         string
	Scope      Scope
	ItemID     string
	Kind       string
	Quantity   int64 // magnitud > 0; para adjustment, delta con signo
	Reason     string
	Reference  string // id de correlación: traslado, orden, acta de baja
	OccurredAt time.Time
	CreatedBy  string
}

// IsOutbound indica si el tipo descuenta stock del scope.
func IsOutbound(kind string) bool {
	switch kind {
	case MovementKindOut, MovementKindLoss, MovementKindTransferOut:
		return true
	}
	return false
}

// ValidMovementKind valida el tipo de movimiento.
func ValidMovementKind(kind string) bool {
	switch kind {
	case MovementKindIn, MovementKindOut, MovementKindAdjustment,
		MovementKindLoss, MovementKindTransferOut, MovementKindTransferIn:
		return true
	}
	return false
}

// Signed devuelve el efecto del movimiento sobre el saldo: negativo para
// salidas, positivo para entradas, el propio delta para adjustment.
func (m *StockMovement) Signed() int64 {
	if IsOutbound(m.Kind) {
		return -m.Quantity
	}
	return m.Quantity
}
