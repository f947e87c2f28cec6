package entity

import "time"

// Department área operativa del hotel que posee inventario (cocina,
// housekeeping, bar...).
type Department struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Section subdivisión de un departamento que puede poseer stock propio.
type Section struct {
	ID           string
	DepartmentID string
	Name         string
	CreatedAt    time.Time
}
