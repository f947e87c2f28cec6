package dto

import "time"

// TransferItemDTO línea de un traslado.
type TransferItemDTO struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	FromScope ScopeDTO          `json:"from_scope"`
	ToScope   ScopeDTO          `json:"to_scope"`
	Items     []TransferItemDTO `json:"items"`
	Reason    string            `json:"reason,omitempty"`
}

// TransferResponse traslado con sus líneas.
type TransferResponse struct {
	ID        string            `json:"id"`
	FromScope ScopeDTO          `json:"from_scope"`
	ToScope   ScopeDTO          `json:"to_scope"`
	Items     []TransferItemDTO `json:"items"`
	Status    string            `json:"status"`
	Reason    string            `json:"reason,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	CreatedBy string            `json:"created_by,omitempty"`
}
