package main

import (
	"context"
	"strings"

	"reporteventas-backend/internal/admin"
	"reporteventas-backend/internal/audit"
	"reporteventas-backend/internal/auth"
	"reporteventas-backend/internal/cierre"
	"reporteventas-backend/internal/conciliacion"
	"reporteventas-backend/internal/config"
	"reporteventas-backend/internal/database"
	"reporteventas-backend/internal/ledger"
	"reporteventas-backend/internal/metrics"
	"reporteventas-backend/internal/models"
	"reporteventas-backend/internal/reportes"
	"reporteventas-backend/internal/server"
	"reporteventas-backend/internal/storage/gormstore"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()
	log := config.Logger()
	database.Init(cfg)

	sqlDB, err := database.DB.DB()
	if err != nil {
		log.Fatalf("No se pudo obtener la conexión SQL: %v", err)
	}
	metrics.Init(sqlDB)

	var locker cierre.Locker = cierre.NoopLocker()
	redisClients, err := config.ConnectRedis(context.Background(), cfg)
	if err != nil {
		log.Fatalf("No se pudo conectar a Redis: %v", err)
	}
	if redisClients != nil {
		defer redisClients.Close()
		locker = cierre.NewRedisLocker(redisClients.Locker, cfg.ClosingLockTTL)
	}

	store := gormstore.New(database.DB)
	svc := cierre.NewService(store, locker, log)
	calc := conciliacion.NewCalculator(store, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: server.ErrorHandler(log),
		BodyLimit:    10 * 1024 * 1024, // importación .xlsx
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(server.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")

	// Público
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Post("/external/token", auth.ExternalTokenHandler(cfg))

	// Socios externos
	external := api.Group("/external", auth.PartnerMiddleware(cfg))
	external.Get("/conciliacion-mensual", conciliacion.MonthlyConciliationHandler(calc))

	// Usuarios internos
	protected := api.Group("", auth.JWTMiddleware(cfg))
	protected.Get("/auth/me", auth.MeHandler())

	// Cierre mensual
	cm := protected.Group("/cierre-mensual")
	cm.Get("/validar/:zonaId/:anio/:mes", cierre.ValidateHandler(svc))
	cm.Get("/estado/:zonaId/:anio/:mes", cierre.StateHandler(svc))
	cm.Get("/resumen/:zonaId/:anio/:mes", cierre.SummaryHandler(svc))
	cm.Get("/control-financiero/:zonaId/:anio/:mes", conciliacion.FinancialControlHandler(calc))
	cm.Post("/cerrar", cierre.CloseHandler(svc))
	cm.Post("/reabrir", cierre.ReopenHandler(svc))
	cm.Put("/saldo-inicial", cierre.InitialBalanceHandler(svc))

	// Reportes diarios
	protected.Post("/reportes-diarios", reportes.CreateReportHandler(svc))
	protected.Post("/reportes-diarios/importar", reportes.ImportReportsHandler(svc))
	protected.Get("/reportes-diarios", reportes.ListReportsHandler())
	protected.Get("/reportes-diarios/:id", reportes.GetReportHandler())
	protected.Put("/reportes-diarios/:id", reportes.UpdateReportHandler(svc))
	protected.Post("/reportes-diarios/:id/aprobar", reportes.ReviewReportHandler(svc, models.ReportApproved))
	protected.Post("/reportes-diarios/:id/rechazar", reportes.ReviewReportHandler(svc, models.ReportRejected))

	// Entregas y gastos
	protected.Post("/entregas", ledger.CreateDeliveryHandler(svc))
	protected.Get("/entregas", ledger.ListDeliveriesHandler())
	protected.Delete("/entregas/:id", ledger.DeleteDeliveryHandler(svc))
	protected.Post("/gastos", ledger.CreateExpenseHandler(svc))
	protected.Get("/gastos", ledger.ListExpensesHandler())
	protected.Get("/gastos/resumen-mensual", ledger.MonthlyExpenseSummaryHandler())
	protected.Delete("/gastos/:id", ledger.DeleteExpenseHandler(svc))

	protected.Get("/estaciones", admin.ListStationsHandler())
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	// Administración
	adminRoutes := protected.Group("/admin", auth.RequireRole(models.RoleAdmin))
	adminRoutes.Post("/zonas", admin.CreateZoneHandler())
	adminRoutes.Get("/zonas", admin.ListZonesHandler())
	adminRoutes.Get("/zonas/:id", admin.GetZoneHandler())
	adminRoutes.Put("/zonas/:id", admin.UpdateZoneHandler())
	adminRoutes.Delete("/zonas/:id", admin.DeleteZoneHandler())
	adminRoutes.Post("/zonas/:id/estaciones", admin.CreateStationHandler())
	adminRoutes.Put("/estaciones/:id", admin.UpdateStationHandler())
	adminRoutes.Post("/zonas/:id/gerentes", admin.CreateZoneManagerHandler())
	adminRoutes.Get("/zonas/:id/gerentes", admin.ListZoneManagersHandler())
	adminRoutes.Post("/api-keys", admin.CreateAPIKeyHandler())
	adminRoutes.Get("/api-keys", admin.ListAPIKeysHandler())
	adminRoutes.Delete("/api-keys/:id", admin.RevokeAPIKeyHandler())

	log.WithField("port", cfg.HTTPPort).Info("servidor escuchando")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
