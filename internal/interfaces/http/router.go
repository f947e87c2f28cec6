package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/hotelops-api/internal/application/admission"
	"github.com/tu-usuario/hotelops-api/internal/application/ledger"
	"github.com/tu-usuario/hotelops-api/internal/application/lifecycle"
	"github.com/tu-usuario/hotelops-api/internal/application/transfer"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC    *ledger.UseCase
	TransferUC  *transfer.UseCase
	LifecycleUC *lifecycle.UseCase
	AdmissionUC *admission.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todo el núcleo va protegido con
// Bearer Token; los roles acotan las operaciones de escritura.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Ledger de inventario (protegido)
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	ledgerGroup := protected.Group("/ledger")
	ledgerGroup.Get("/balances", ledgerHandler.ListBalances)
	ledgerGroup.Get("/balances/:item_id", ledgerHandler.GetBalance)
	ledgerGroup.Get("/movements", ledgerHandler.ListMovements)
	ledgerGroup.Post("/movements", RequireRole(RoleStorekeeper, RoleHousekeeping), ledgerHandler.RegisterMovement)
	ledgerGroup.Post("/reservations", RequireRole(RoleStorekeeper), ledgerHandler.Reserve)
	ledgerGroup.Delete("/reservations/:token", RequireRole(RoleStorekeeper), ledgerHandler.Release)
	ledgerGroup.Get("/reconcile", ledgerHandler.Reconcile)

	// Traslados entre scopes (protegido)
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers := protected.Group("/transfers")
	transfers.Post("/", RequireRole(RoleStorekeeper), transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/approve", RequireRole(RoleStorekeeper), transferHandler.Approve)
	transfers.Post("/:id/reject", RequireRole(RoleStorekeeper), transferHandler.Reject)

	// Unidades y ciclo de vida (protegido)
	unitHandler := NewUnitHandler(deps.LifecycleUC)
	bookingHandler := NewBookingHandler(deps.AdmissionUC)
	units := protected.Group("/units")
	units.Get("/:id", unitHandler.GetByID)
	units.Post("/:id/transitions", RequireRole(RoleReception, RoleHousekeeping), unitHandler.Transition)
	units.Get("/:id/history", unitHandler.History)
	units.Get("/:id/cleaning-tasks", unitHandler.ListCleaningTasks)
	units.Get("/:id/maintenance-requests", unitHandler.ListMaintenanceRequests)
	units.Get("/:id/reservations", bookingHandler.ListByUnit)

	// Housekeeping (protegido)
	cleaning := protected.Group("/cleaning-tasks", RequireRole(RoleHousekeeping))
	cleaning.Post("/:id/start", unitHandler.StartCleaning)
	cleaning.Post("/:id/complete", unitHandler.CompleteCleaning)
	cleaning.Post("/:id/inspect", unitHandler.InspectCleaning)

	// Mantenimiento (protegido)
	maintenance := protected.Group("/maintenance-requests", RequireRole(RoleHousekeeping))
	maintenance.Post("/:id/start", unitHandler.StartMaintenance)
	maintenance.Post("/:id/resolve", unitHandler.ResolveMaintenance)
	maintenance.Post("/:id/verify", unitHandler.VerifyMaintenance)

	// Disponibilidad y reservas (protegido)
	protected.Get("/availability", bookingHandler.SearchAvailability)
	reservations := protected.Group("/reservations")
	reservations.Post("/", RequireRole(RoleReception), bookingHandler.Create)
	reservations.Get("/:id", bookingHandler.GetByID)
	reservations.Post("/:id/confirm", RequireRole(RoleReception), bookingHandler.Confirm)
	reservations.Post("/:id/cancel", RequireRole(RoleReception), bookingHandler.Cancel)
	reservations.Post("/:id/checkin", RequireRole(RoleReception), bookingHandler.CheckIn)
	reservations.Post("/:id/checkout", RequireRole(RoleReception), bookingHandler.CheckOut)
}
