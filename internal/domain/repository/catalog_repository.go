package repository

import "github.com/tu-usuario/hotelops-api/internal/domain/entity"

// RoomTypeRepository puerto de lectura de tipos de habitación.
type RoomTypeRepository interface {
	GetByID(id string) (*entity.RoomType, error)
	List() ([]*entity.RoomType, error)
	Create(roomType *entity.RoomType) error
}

// CatalogRepository puerto de lectura del catálogo maestro (departamentos,
// secciones e ítems) para validar scopes y referencias del ledger.
type CatalogRepository interface {
	GetDepartment(id string) (*entity.Department, error)
	GetSection(id string) (*entity.Section, error)
	GetItem(id string) (*entity.Item, error)
	ListDepartments() ([]*entity.Department, error)
	ListItems() ([]*entity.Item, error)
}
