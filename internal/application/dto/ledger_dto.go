package dto

import "time"

// RegisterMovementRequest body para POST /api/ledger/movements.
// Quantity es magnitud positiva salvo adjustment (delta con signo).
type RegisterMovementRequest struct {
	Scope         ScopeDTO `json:"scope"`
	ItemID        string   `json:"item_id"`
	Kind          string   `json:"kind"`
	Quantity      int64    `json:"quantity"`
	Reason        string   `json:"reason,omitempty"`
	Reference     string   `json:"reference,omitempty"`
	AllowNegative bool     `json:"allow_negative,omitempty"`
}

// BalanceResponse saldo de un ítem en un scope. Available siempre derivado.
type BalanceResponse struct {
	Scope     ScopeDTO  `json:"scope"`
	ItemID    string    `json:"item_id"`
	Quantity  int64     `json:"quantity"`
	Reserved  int64     `json:"reserved"`
	Available int64     `json:"available"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MovementResponse un registro del log de movimientos.
type MovementResponse struct {
	ID         string    `json:"id"`
	Scope      ScopeDTO  `json:"scope"`
	ItemID     string    `json:"item_id"`
	Kind       string    `json:"kind"`
	Quantity   int64     `json:"quantity"`
	Reason     string    `json:"reason,omitempty"`
	Reference  string    `json:"reference,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedBy  string    `json:"created_by,omitempty"`
}

// ReserveRequest body para POST /api/ledger/reservations.
type ReserveRequest struct {
	Scope     ScopeDTO `json:"scope"`
	ItemID    string   `json:"item_id"`
	Quantity  int64    `json:"quantity"`
	Reference string   `json:"reference,omitempty"`
}

// ReserveResponse token del apartado creado.
type ReserveResponse struct {
	Token string `json:"token"`
}

// ReconcileResponse resultado del chequeo de reconciliación ledger-saldo.
type ReconcileResponse struct {
	Scope           ScopeDTO `json:"scope"`
	ItemID          string   `json:"item_id"`
	BalanceQuantity int64    `json:"balance_quantity"`
	MovementSum     int64    `json:"movement_sum"`
	Consistent      bool     `json:"consistent"`
}
