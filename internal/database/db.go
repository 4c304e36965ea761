package database

import (
	"fmt"

	"reporteventas-backend/internal/config"
	"reporteventas-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	log := config.Logger()

	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("No se pudo conectar a la base de datos: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate falló: %v", err)
	}

	log.Info("Conexión a la base de datos lista; migraciones aplicadas")
}

// Migrate crea o actualiza el esquema.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Zone{},
		&models.Station{},
		&models.User{},
		&models.DailyReport{},
		&models.Period{},
		&models.ClosurePeriod{},
		&models.MonthlySummary{},
		&models.InitialBalance{},
		&models.Delivery{},
		&models.Expense{},
		&models.APIKey{},
		&models.AuditLog{},
	)
	if err != nil {
		return err
	}

	// Importes de entregas y gastos siempre positivos.
	checks := []string{
		`ALTER TABLE deliveries DROP CONSTRAINT IF EXISTS chk_deliveries_amount`,
		`ALTER TABLE deliveries ADD CONSTRAINT chk_deliveries_amount CHECK (amount > 0)`,
		`ALTER TABLE expenses DROP CONSTRAINT IF EXISTS chk_expenses_amount`,
		`ALTER TABLE expenses ADD CONSTRAINT chk_expenses_amount CHECK (amount > 0)`,
	}
	for _, stmt := range checks {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("restricción %q: %w", stmt, err)
		}
	}
	return nil
}
