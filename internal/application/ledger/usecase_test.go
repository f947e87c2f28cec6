package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/hotelops-api/internal/application/ledger"
	"github.com/tu-usuario/hotelops-api/internal/domain"
	"github.com/tu-usuario/hotelops-api/internal/domain/entity"
	"github.com/tu-usuario/hotelops-api/internal/infrastructure/memory"
)

// newLedgerUC arma el caso de uso sobre el store en memoria con un catálogo
// mínimo: departamento housekeeping, sección hk-piso-1 e ítem toallas.
func newLedgerUC(t *testing.T) (*ledger.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.SeedDepartment("housekeeping", "Housekeeping")
	store.SeedSection("hk-piso-1", "housekeeping", "Piso 1")
	store.SeedItem("toallas", "Toallas")
	uc := ledger.NewUseCase(
		memory.NewTxRunner(store),
		memory.NewBalanceRepository(store),
		memory.NewMovementRepository(store),
		memory.NewCatalogRepository(store),
	)
	return uc, store
}

func registerIn(t *testing.T, uc *ledger.UseCase, scope entity.Scope, itemID string, qty int64) {
	t.Helper()
	_, err := uc.RegisterMovement(context.Background(), ledger.MovementInput{
		Scope:    scope,
		ItemID:   itemID,
		Kind:     entity.MovementKindIn,
		Quantity: qty,
		Reason:   "reposición",
		ActorID:  "bodeguero-1",
	})
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_EntradaCreaSaldo(t *testing.T) {
	uc, _ := newLedgerUC(t)
	scope := entity.NewDepartmentScope("housekeeping")

	mov, err := uc.RegisterMovement(context.Background(), ledger.MovementInput{
		Scope:    scope,
		ItemID:   "toallas",
		Kind:     entity.MovementKindIn,
		Quantity: 10,
		Reason:   "compra inicial",
		ActorID:  "bodeguero-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, mov.ID)

	balance, err := uc.GetBalance(context.Background(), scope, "toallas")
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance.Quantity)
	assert.Equal(t, int64(0), balance.Reserved)
}

func TestRegisterMovement_SalidaDescuentaSaldo(t *testing.T) {
	uc, _ := newLedgerUC(t)
	scope := entity.NewDepartmentScope("housekeeping")
	registerIn(t, uc, scope, "toallas", 10)

	_, err := uc.RegisterMovement(context.Background(), ledger.MovementInput{
		Scope:    scope,
		ItemID:   "toallas",
		Kind:     entity.MovementKindOut,
		Quantity: 4,
		Reason:   "entrega a pisos",
		ActorID:  "bodeguero-1",
	})
	require.NoError(t, err)

	balance, err := uc.GetBalance(context.Background(), scope, "toallas")
	require.NoError(t, err)
	assert.Equal(t, int64(6), balance.Quantity)
}

func TestRegisterMovement_SalidaMayorAlSaldo_Falla(t *testing.T) {
	uc, _ := newLedgerUC(t)
	scope := entity.NewDepartmentScope("housekeeping")
	registerIn(t, uc, scope, "toallas", 5)

	_, err := uc.RegisterMovement(context.Background(), ledger.MovementInput{
		Scope:    scope,
		ItemID:   "toallas",
		Kind:     entity.MovementKindOut,
		Quantity: 6,
		Reason:   "entrega a pisos",
		ActorID:  "bodeguero-1",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El saldo no se tocó y el movimiento rechazado no quedó en el log.
	balance, err := uc.GetBalance(context.Background(), scope, "toallas")
	require.NoError(t, err)
	assert.Equal(t, int64(5), balance.Quantity)

	movs, err := uc.ListMovements(context.Background(), scope, "toallas", nil, nil, 50, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestRegisterMovement_AjustePositivoYNegativo(t *testing.T) {
	uc, _ := newLedgerUC(t)
	scope := entity.NewDepartmentScope("housekeeping")
	registerIn(t, uc, scope, "toallas", 10)

	_, err := uc.RegisterMovement(context.Background(), ledger.MovementInput{
		Scope:    scope,
		ItemID:   "toallas",
		Kind:     entity.MovementKindAdjustment,
		Quantity: 3,
		Reason:   "conteo físico mayor",
		ActorID:  "bodeguero-1",
	})
	require.NoError(t, err)

	_, err = uc.RegisterMovement(context.Background(), ledger.MovementInput{
		Scope:    scope,
		ItemID:   "toallas",
		Kind:     entity.MovementKindAdjustment,
		Quantity: -5,
		Reason:   "conteo físico menor",
		ActorID:  "bodeguero-1",
	})
	require.NoError(t, err)

	balance, err := uc.GetBalance(context.Background(), scope, "toallas")
	require.NoError(t, err)
	assert.Equal(t, int64(8), balance.Quantity)
}

func TestRegisterMovement_AjusteBajoCero_RequiereAllowNegative(t *testing.T) {
	uc, _ := newLedgerUC(t)
	scope := entity.NewDepartmentScope("housekeeping")
	registerIn(t, uc, scope, "toallas", 3)

	input := ledger.MovementInput{
		Scope:    scope,
		ItemID:   "toallas",
		Kind:     entity.MovementKindAdjustment,
		Quantity: -5,
		Reason:   "conteo físico menor al teórico",
		ActorID:  "bodeguero-1",
	}
	_, err := uc.RegisterMovement(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	input.AllowNegative = true
	_, err = uc.RegisterMovement(context.Background(), input)
	require.NoError(t, err)

	balance, err := uc.GetBalance(context.Background(), scope, "toallas")
	require.NoError(t, err)
	assert.Equal(t, int64(-2), balance.Quantity,
		"el ajuste explícito puede dejar el saldo bajo cero")
}

func TestRegisterMovement_TiposDeTraslado_Rechazados(t *testing.T) {
	uc, _ := newLedgerUC(t)
	scope := entity.NewDepartmentScope("housekeeping")

	for _, kind := range []string{entity.MovementKindTransferOut, entity.MovementKindTransferIn} {
		_, err := uc.RegisterMovement(context.Background(), ledger.MovementInput{
			Scope:    scope,
			ItemID:   "toallas",
			Kind:     kind,
			Quantity: 1,
			ActorID:  "bodeguero-1",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput,
			"kind %s solo via el coordinador de traslados", kind)
	}
}

func TestRegisterMovement_ItemInexistente_Falla(t *testing.T) {
	uc, _ := newLedgerUC(t)

	_, err := uc.RegisterMovement(context.Background(), ledger.MovementInput{
		Scope:    entity.NewDepartmentScope("housekeeping"),
		ItemID:   "no-existe",
		Kind:     entity.MovementKindIn,
		Quantity: 1,
		ActorID:  "bodeguero-1",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterMovement_SeccionDeOtroDepartamento_Falla(t *testing.T) {
	uc, store := newLedgerUC(t)
	store.SeedDepartment("cocina", "Cocina")

	_, err := uc.RegisterMovement(context.Background(), ledger.MovementInput{
		Scope:    entity.NewSectionScope("cocina", "hk-piso-1"),
		ItemID:   "toallas",
		Kind:     entity.MovementKindIn,
		Quantity: 1,
		ActorID:  "bodeguero-1",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"la sección debe pertenecer al departamento del scope")
}

func TestRegisterMovement_ScopesSeparados_NoSeMezclan(t *testing.T) {
	uc, _ := newLedgerUC(t)
	deptScope := entity.NewDepartmentScope("housekeeping")
	sectionScope := entity.NewSectionScope("housekeeping", "hk-piso-1")

	registerIn(t, uc, deptScope, "toallas", 10)
	registerIn(t, uc, sectionScope, "toallas", 4)

	dept, err := uc.GetBalance(context.Background(), deptScope, "toallas")
	require.NoError(t, err)
	section, err := uc.GetBalance(context.Background(), sectionScope, "toallas")
	require.NoError(t, err)
	assert.Equal(t, int64(10), dept.Quantity)
	assert.Equal(t, int64(4), section.Quantity)
}

func TestGetBalance_SinFila_DevuelveCero(t *testing.T) {
	uc, _ := newLedgerUC(t)

	balance, err := uc.GetBalance(context.Background(), entity.NewDepartmentScope("housekeeping"), "toallas")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance.Quantity)
	assert.Equal(t, int64(0), balance.Reserved)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reserve / Release
// ──────────────────────────────────────────────────────────────────────────────

func TestReserve_ApartaSinTocarQuantity(t *testing.T) {
	uc, _ := newLedgerUC(t)
	scope := entity.NewDepartmentScope("housekeeping")
	registerIn(t, uc, scope, "toallas", 20)

	token, err := uc.Reserve(context.Background(), scope, "toallas", 5, "orden-77")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	balance, err := uc.GetBalance(context.Background(), scope, "toallas")
	require.NoError(t, err)
	assert.Equal(t, int64(20), balance.Quantity)
	assert.Equal(t, int64(5), balance.Reserved)
	assert.Equal(t, int64(15), balance.Available())
}

func TestReserve_MasQueElDisponible_Falla(t *testing.T) {
	uc, _ := newLedgerUC(t)
	scope := entity.NewDepartmentScope("housekeeping")
	registerIn(t, uc, scope, "toallas", 20)

	_, err := uc.Reserve(context.Background(), scope, "toallas", 5, "orden-77")
	require.NoError(t, err)

	// Quedan 15 disponibles: apartar 16 debe fallar aunque quantity sea 20.
	_, err = uc.Reserve(context.Background(), scope, "toallas", 16, "orden-78")
	assert.ErrorIs(t, err, domain.ErrInsufficientAvailable)

	balance, err := uc.GetBalance(context.Background(), scope, "toallas")
	require.NoError(t, err)
	assert.Equal(t, int64(5), balance.Reserved, "el apartado fallido no debe sumar")
}

func TestRelease_DevuelveElApartado(t *testing.T) {
	uc, _ := newLedgerUC(t)
	scope := entity.NewDepartmentScope("housekeeping")
	registerIn(t, uc, scope, "toallas", 20)

	token, err := uc.Reserve(context.Background(), scope, "toallas", 5, "orden-77")
	require.NoError(t, err)
	require.NoError(t, uc.Release(context.Background(), token))

	balance, err := uc.GetBalance(context.Background(), scope, "toallas")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance.Reserved)
	assert.Equal(t, int64(20), balance.Available())
}

func TestRelease_EsIdempotente(t *testing.T) {
	uc, _ := newLedgerUC(t)
	scope := entity.NewDepartmentScope("housekeeping")
	registerIn(t, uc, scope, "toallas", 20)

	tokenA, err := uc.Reserve(context.Background(), scope, "toallas", 5, "orden-77")
	require.NoError(t, err)
	_, err = uc.Reserve(context.Background(), scope, "toallas", 3, "orden-78")
	require.NoError(t, err)

	require.NoError(t, uc.Release(context.Background(), tokenA))
	require.NoError(t, uc.Release(context.Background(), tokenA),
		"reintentar el release no debe fallar")

	balance, err := uc.GetBalance(context.Background(), scope, "toallas")
	require.NoError(t, err)
	assert.Equal(t, int64(3), balance.Reserved,
		"el segundo release del mismo token no debe descontar dos veces")
}

func TestRelease_TokenDesconocido_Falla(t *testing.T) {
	uc, _ := newLedgerUC(t)
	err := uc.Release(context.Background(), "token-inexistente")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconcile
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_SaldoCoincideConElLog(t *testing.T) {
	uc, _ := newLedgerUC(t)
	scope := entity.NewDepartmentScope("housekeeping")
	ctx := context.Background()

	registerIn(t, uc, scope, "toallas", 10)
	_, err := uc.RegisterMovement(ctx, ledger.MovementInput{
		Scope: scope, ItemID: "toallas", Kind: entity.MovementKindOut,
		Quantity: 4, Reason: "entrega", ActorID: "bodeguero-1",
	})
	require.NoError(t, err)
	_, err = uc.RegisterMovement(ctx, ledger.MovementInput{
		Scope: scope, ItemID: "toallas", Kind: entity.MovementKindLoss,
		Quantity: 1, Reason: "toalla dañada", ActorID: "bodeguero-1",
	})
	require.NoError(t, err)
	_, err = uc.RegisterMovement(ctx, ledger.MovementInput{
		Scope: scope, ItemID: "toallas", Kind: entity.MovementKindAdjustment,
		Quantity: 2, Reason: "conteo", ActorID: "bodeguero-1",
	})
	require.NoError(t, err)

	result, err := uc.Reconcile(ctx, scope, "toallas")
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.BalanceQuantity)
	assert.Equal(t, int64(7), result.MovementSum)
	assert.True(t, result.Consistent())
}

func TestReconcile_LasReservasNoAfectanLaSuma(t *testing.T) {
	uc, _ := newLedgerUC(t)
	scope := entity.NewDepartmentScope("housekeeping")
	registerIn(t, uc, scope, "toallas", 10)

	_, err := uc.Reserve(context.Background(), scope, "toallas", 4, "orden-77")
	require.NoError(t, err)

	result, err := uc.Reconcile(context.Background(), scope, "toallas")
	require.NoError(t, err)
	assert.True(t, result.Consistent(),
		"reservar no mueve quantity ni escribe movimientos")
}
