package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
	"github.com/tu-usuario/hotelops-api/internal/domain/repository"
)

var _ repository.RoomTypeRepository = (*RoomTypeRepo)(nil)
var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// RoomTypeRepo implementación de tipos de habitación sobre PostgreSQL.
type RoomTypeRepo struct {
	q Querier
}

// NewRoomTypeRepository construye el adaptador.
func NewRoomTypeRepository(q Querier) *RoomTypeRepo {
	return &RoomTypeRepo{q: q}
}

// GetByID obtiene el tipo; nil si no existe.
func (r *RoomTypeRepo) GetByID(id string) (*entity.RoomType, error) {
	query := `SELECT id, name, description, capacity, nightly_rate, created_at FROM room_types WHERE id = $1`
	var rt entity.RoomType
	err := r.q.QueryRow(context.Background(), query, id).
		Scan(&rt.ID, &rt.Name, &rt.Description, &rt.Capacity, &rt.NightlyRate, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get room type: %w", err)
	}
	return &rt, nil
}

// List todos los tipos de habitación.
func (r *RoomTypeRepo) List() ([]*entity.RoomType, error) {
	query := `SELECT id, name, description, capacity, nightly_rate, created_at FROM room_types ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list room types: %w", err)
	}
	defer rows.Close()
	var list []*entity.RoomType
	for rows.Next() {
		var rt entity.RoomType
		if err := rows.Scan(&rt.ID, &rt.Name, &rt.Description, &rt.Capacity, &rt.NightlyRate, &rt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan room type: %w", err)
		}
		list = append(list, &rt)
	}
	return list, rows.Err()
}

// Create persiste el tipo de habitación.
func (r *RoomTypeRepo) Create(rt *entity.RoomType) error {
	if rt.ID == "" {
		rt.ID = uuid.New().String()
	}
	query := `
		INSERT INTO room_types (id, name, description, capacity, nightly_rate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		rt.ID, rt.Name, rt.Description, rt.Capacity, rt.NightlyRate, rt.CreatedAt)
	if err != nil {
		return fmt.Errorf("create room type: %w", err)
	}
	return nil
}

// CatalogRepo lectura del catálogo maestro sobre PostgreSQL.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// GetDepartment obtiene el departamento; nil si no existe.
func (r *CatalogRepo) GetDepartment(id string) (*entity.Department, error) {
	query := `SELECT id, name, created_at FROM departments WHERE id = $1`
	var d entity.Department
	err := r.q.QueryRow(context.Background(), query, id).Scan(&d.ID, &d.Name, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get department: %w", err)
	}
	return &d, nil
}

// GetSection obtiene la sección; nil si no existe.
func (r *CatalogRepo) GetSection(id string) (*entity.Section, error) {
	query := `SELECT id, department_id, name, created_at FROM sections WHERE id = $1`
	var s entity.Section
	err := r.q.QueryRow(context.Background(), query, id).Scan(&s.ID, &s.DepartmentID, &s.Name, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get section: %w", err)
	}
	return &s, nil
}

// GetItem obtiene el artículo; nil si no existe.
func (r *CatalogRepo) GetItem(id string) (*entity.Item, error) {
	query := `SELECT id, name, sku, unit, created_at FROM items WHERE id = $1`
	var it entity.Item
	err := r.q.QueryRow(context.Background(), query, id).Scan(&it.ID, &it.Name, &it.SKU, &it.Unit, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// ListDepartments todos los departamentos.
func (r *CatalogRepo) ListDepartments() ([]*entity.Department, error) {
	query := `SELECT id, name, created_at FROM departments ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Department
	for rows.Next() {
		var d entity.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// ListItems todos los artículos.
func (r *CatalogRepo) ListItems() ([]*entity.Item, error) {
	query := `SELECT id, name, sku, unit, created_at FROM items ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.SKU, &it.Unit, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
