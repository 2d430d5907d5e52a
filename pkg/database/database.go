package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/careledger/careledger/internal/config"
	"github.com/careledger/careledger/internal/domain"
	"github.com/careledger/careledger/internal/domain/appointment"
	"github.com/careledger/careledger/internal/domain/insight"
	"github.com/careledger/careledger/internal/domain/patient"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:    true,
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: cfg.DSN(),
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"clinical", "auth", "audit"} // logical namespaces
	for _, schema := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	models := []any{
		&domain.User{},
		&domain.AuditLog{},
		&patient.Patient{},
		&patient.VitalsHistory{},
		&appointment.Appointment{},
		&insight.HealthPrediction{},
		&insight.MedicalImageRecord{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createConstraints(db); err != nil {
		return fmt.Errorf("creating constraints: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

// createConstraints adds the referential-integrity and search structures that
// AutoMigrate does not cover. Errors on the FK statements are swallowed so
// re-runs against an already-constrained schema stay idempotent.
func createConstraints(db *gorm.DB) error {
	statements := []string{
		`ALTER TABLE clinical.patients ADD CONSTRAINT fk_patients_created_by FOREIGN KEY (created_by) REFERENCES auth.users (id)`,
		`ALTER TABLE clinical.vitals_history ADD CONSTRAINT fk_history_patient FOREIGN KEY (patient_id) REFERENCES clinical.patients (id)`,
		`ALTER TABLE clinical.vitals_history ADD CONSTRAINT fk_history_recorded_by FOREIGN KEY (recorded_by) REFERENCES auth.users (id)`,
		`ALTER TABLE clinical.health_predictions ADD CONSTRAINT fk_predictions_patient FOREIGN KEY (patient_id) REFERENCES clinical.patients (id)`,
		`ALTER TABLE clinical.medical_images ADD CONSTRAINT fk_images_patient FOREIGN KEY (patient_id) REFERENCES clinical.patients (id)`,
		`ALTER TABLE clinical.appointments ADD CONSTRAINT fk_appointments_patient FOREIGN KEY (patient_id) REFERENCES clinical.patients (id)`,
		`ALTER TABLE clinical.appointments ADD CONSTRAINT fk_appointments_staff FOREIGN KEY (staff_id) REFERENCES auth.users (id)`,
		`ALTER TABLE audit.logs ADD CONSTRAINT fk_audit_user FOREIGN KEY (user_id) REFERENCES auth.users (id)`,
		`CREATE INDEX IF NOT EXISTS idx_history_patient_time ON clinical.vitals_history (patient_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_patients_search ON clinical.patients (lower(name), lower(code), phone)`,
	}

	for _, stmt := range statements {
		_ = db.Exec(stmt).Error
	}

	return nil
}
