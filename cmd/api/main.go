package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/hotelops-api/internal/application/admission"
	"github.com/tu-usuario/hotelops-api/internal/application/ledger"
	"github.com/tu-usuario/hotelops-api/internal/application/lifecycle"
	"github.com/tu-usuario/hotelops-api/internal/application/transfer"
	"github.com/tu-usuario/hotelops-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/hotelops-api/internal/interfaces/http"
	"github.com/tu-usuario/hotelops-api/pkg/config"
	"github.com/tu-usuario/hotelops-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	balanceRepo := postgres.NewBalanceRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	unitRepo := postgres.NewUnitRepository(pool)
	cleaningRepo := postgres.NewCleaningTaskRepository(pool)
	maintenanceRepo := postgres.NewMaintenanceRequestRepository(pool)
	reservationRepo := postgres.NewReservationRepository(pool)
	roomTypeRepo := postgres.NewRoomTypeRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := ledger.NewUseCase(txRunner, balanceRepo, movementRepo, catalogRepo)
	transferUC := transfer.NewUseCase(txRunner, transferRepo, balanceRepo, catalogRepo, log.Zerolog())
	lifecycleUC := lifecycle.NewUseCase(txRunner, unitRepo, cleaningRepo, maintenanceRepo, log.Zerolog())
	admissionUC := admission.NewUseCase(txRunner, reservationRepo, roomTypeRepo, unitRepo, lifecycleUC, ledgerUC, log.Zerolog())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "HotelOps API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LedgerUC:    ledgerUC,
		TransferUC:  transferUC,
		LifecycleUC: lifecycleUC,
		AdmissionUC: admissionUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
