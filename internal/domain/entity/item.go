package entity

import "time"

// Item artículo de inventario con cantidad entera (insumos, amenities,
// bebidas). Los recursos de tipo servicio no llevan ledger.
type Item struct {
	ID        string
	Name      string
	SKU       string
	Unit      string // unidad de medida: und, kg, lt
	CreatedAt time.Time
}
