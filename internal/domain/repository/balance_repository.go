package repository

import "github.com/tu-usuario/hotelops-api/internal/domain/entity"

// BalanceRepository puerto para consultar/actualizar saldos por scope+ítem.
// Las mutaciones condicionales devuelven false cuando el predicado ya no se
// cumple al momento del write (otra instancia drenó el stock entre la lectura
// y la escritura); el caso de uso decide si eso es ErrInsufficientStock o un
// reintento.
type BalanceRepository interface {
	// Get devuelve el saldo actual; saldo cero si no existe fila (ausencia =
	// no rastreado, no error).
	Get(scope entity.Scope, itemID string) (*entity.Balance, error)
	ListByScope(scope entity.Scope) ([]*entity.Balance, error)

	// Add suma cantidad al saldo, creando la fila si no existe (upsert).
	Add(scope entity.Scope, itemID string, quantity int64) error
	// SubtractIfAvailable descuenta solo si quantity >= solicitado al momento
	// del write (update condicional). false = cero filas afectadas.
	SubtractIfAvailable(scope entity.Scope, itemID string, quantity int64) (bool, error)
	// AddUnchecked aplica un delta con signo sin validar el piso en cero.
	// Solo para ajustes/pérdidas con allowNegative explícito.
	AddUnchecked(scope entity.Scope, itemID string, delta int64) error

	// ReserveIfAvailable incrementa reserved solo si quantity - reserved >=
	// solicitado al momento del write.
	ReserveIfAvailable(scope entity.Scope, itemID string, quantity int64) (bool, error)
	// ReleaseReserved decrementa reserved sin tocar quantity.
	ReleaseReserved(scope entity.Scope, itemID string, quantity int64) error
}
