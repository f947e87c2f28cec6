package entity

import "time"

// Scope identifica al dueño de un saldo de inventario: un departamento y,
// opcionalmente, una sección dentro de él. SectionID nil = inventario a nivel
// de departamento.
type Scope struct {
	DepartmentID string
	SectionID    *string
}

// NewDepartmentScope construye un scope a nivel de departamento.
func NewDepartmentScope(departmentID string) Scope {
	return Scope{DepartmentID: departmentID}
}

// NewSectionScope construye un scope de sección dentro de un departamento.
func NewSectionScope(departmentID, sectionID string) Scope {
	return Scope{DepartmentID: departmentID, SectionID: &sectionID}
}

// Equal compara dos scopes campo a campo.
func (s Scope) Equal(other Scope) bool {
	if s.DepartmentID != other.DepartmentID {
		return false
	}
	if (s.SectionID == nil) != (other.SectionID == nil) {
		return false
	}
	return s.SectionID == nil || *s.SectionID == *other.SectionID
}

// SectionKey devuelve la sección como string para claves de persistencia
// ("" = nivel departamento).
func (s Scope) SectionKey() string {
	if s.SectionID == nil {
		return ""
	}
	return *s.SectionID
}

// Balance representa el saldo actual de un ítem dentro de un scope.
// Invariante: 0 <= Reserved <= Quantity. La cantidad vendible nunca se
// almacena: siempre se deriva con Available().
type Balance struct {
	Scope     Scope
	ItemID    string
	Quantity  int64
	Reserved  int64
	UpdatedAt time.Time
}

// Available devuelve la cantidad disponible (no reservada).
func (b *Balance) Available() int64 {
	return b.Quantity - b.Reserved
}
