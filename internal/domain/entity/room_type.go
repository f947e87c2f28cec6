package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoomType categoría de habitación con su tarifa por noche.
type RoomType struct {
	ID          string
	Name        string
	Description string
	Capacity    int
	NightlyRate decimal.Decimal
	CreatedAt   time.Time
}
