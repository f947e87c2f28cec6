// seed carga datos demo para desarrollo local: departamentos, secciones,
// ítems, tipos de habitación, unidades y stock de apertura.
//
// Uso: go run ./cmd/seed
// Lee la configuración de BD de las mismas env vars que cmd/api.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/hotelops-api/internal/application/ledger"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
	"github.com/tu-usuario/hotelops-api/internal/infrastructure/postgres"
	"github.com/tu-usuario/hotelops-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "aplicar esquema: %v\n", err)
		os.Exit(1)
	}

	now := time.Now()

	// Catálogo: departamentos y secciones
	departments := []struct{ id, name string }{
		{"housekeeping", "Housekeeping"},
		{"cocina", "Cocina"},
		{"bar", "Bar"},
		{"mantenimiento", "Mantenimiento"},
	}
	for _, d := range departments {
		_, err := pool.Exec(ctx,
			`INSERT INTO departments (id, name, created_at) VALUES ($1, $2, $3)
			 ON CONFLICT (id) DO NOTHING`, d.id, d.name, now)
		if err != nil {
			fatal("departamento %s: %v", d.id, err)
		}
	}

	sections := []struct{ id, dept, name string }{
		{"hk-piso-1", "housekeeping", "Piso 1"},
		{"hk-piso-2", "housekeeping", "Piso 2"},
		{"bar-terraza", "bar", "Terraza"},
	}
	for _, s := range sections {
		_, err := pool.Exec(ctx,
			`INSERT INTO sections (id, department_id, name, created_at) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO NOTHING`, s.id, s.dept, s.name, now)
		if err != nil {
			fatal("sección %s: %v", s.id, err)
		}
	}

	items := []struct{ id, name, sku, unit string }{
		{"toallas", "Toallas de baño", "HK-TOA-01", "und"},
		{"sabanas", "Juego de sábanas queen", "HK-SAB-01", "und"},
		{"amenities-kit", "Kit de amenities", "HK-AME-01", "und"},
		{"agua-botella", "Agua en botella 600ml", "BAR-AGU-01", "und"},
		{"cafe", "Café molido", "COC-CAF-01", "kg"},
	}
	for _, it := range items {
		_, err := pool.Exec(ctx,
			`INSERT INTO items (id, name, sku, unit, created_at) VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO NOTHING`, it.id, it.name, it.sku, it.unit, now)
		if err != nil {
			fatal("ítem %s: %v", it.id, err)
		}
	}

	// Tipos de habitación y unidades
	roomTypes := []struct {
		id, name string
		capacity int
		rate     string
	}{
		{"std", "Estándar", 2, "120000"},
		{"dbl", "Doble superior", 4, "185000"},
		{"ste", "Suite", 2, "310000"},
	}
	for _, rt := range roomTypes {
		rate, _ := decimal.NewFromString(rt.rate)
		_, err := pool.Exec(ctx,
			`INSERT INTO room_types (id, name, capacity, nightly_rate, created_at) VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO NOTHING`, rt.id, rt.name, rt.capacity, rate, now)
		if err != nil {
			fatal("tipo de habitación %s: %v", rt.id, err)
		}
	}

	units := []struct {
		id, roomType, number string
		floor                int
	}{
		{"u-101", "std", "101", 1},
		{"u-102", "std", "102", 1},
		{"u-103", "dbl", "103", 1},
		{"u-201", "dbl", "201", 2},
		{"u-202", "ste", "202", 2},
	}
	for _, u := range units {
		_, err := pool.Exec(ctx,
			`INSERT INTO units (id, room_type_id, number, floor, status, status_updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING`,
			u.id, u.roomType, u.number, u.floor, entity.UnitStatusAvailable, now)
		if err != nil {
			fatal("unidad %s: %v", u.id, err)
		}
	}

	// Stock de apertura: entradas por el ledger para que el log reconcilie
	// desde el día cero. Solo en BD vacía: re-ejecutar el seed no debe
	// duplicar movimientos.
	var existing int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM balances`).Scan(&existing); err != nil {
		fatal("verificar saldos: %v", err)
	}
	if existing > 0 {
		fmt.Println("Saldos existentes, se omite el stock de apertura")
		return
	}

	balanceRepo := postgres.NewBalanceRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	ledgerUC := ledger.NewUseCase(txRunner, balanceRepo, movementRepo, catalogRepo)

	opening := []struct {
		scope    entity.Scope
		itemID   string
		quantity int64
	}{
		{entity.NewDepartmentScope("housekeeping"), "toallas", 200},
		{entity.NewDepartmentScope("housekeeping"), "sabanas", 120},
		{entity.NewSectionScope("housekeeping", "hk-piso-1"), "amenities-kit", 50},
		{entity.NewSectionScope("housekeeping", "hk-piso-2"), "amenities-kit", 50},
		{entity.NewDepartmentScope("bar"), "agua-botella", 300},
		{entity.NewDepartmentScope("cocina"), "cafe", 25},
	}
	for _, op := range opening {
		_, err := ledgerUC.RegisterMovement(ctx, ledger.MovementInput{
			Scope:    op.scope,
			ItemID:   op.itemID,
			Kind:     entity.MovementKindIn,
			Quantity: op.quantity,
			Reason:   "stock de apertura",
			ActorID:  "seed",
		})
		if err != nil {
			fatal("stock de apertura %s: %v", op.itemID, err)
		}
	}

	fmt.Printf("Seed completo: %d departamentos, %d ítems, %d tipos, %d unidades, %d aperturas\n",
		len(departments), len(items), len(roomTypes), len(units), len(opening))
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
