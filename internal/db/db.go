package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"visitor-kiosk/config"
	"visitor-kiosk/internal/model"
)

// Models lists every table the gateway reads or writes.
var Models = []any{
	&model.Visitor{},
	&model.VisitorDoc{},
	&model.RoomBooking{},
	&model.PushSubscription{},
}

// Init opens the visitor store. The schema belongs to the registration
// system, so migrations only run when auto_migrate is set (development).
func Init(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	if cfg.AutoMigrate {
		log.Info("running database migrations")
		if err := db.AutoMigrate(Models...); err != nil {
			return nil, fmt.Errorf("automigrate failed: %w", err)
		}
	} else if err := db.AutoMigrate(&model.PushSubscription{}); err != nil {
		// Subscriptions are owned by this service even when the rest is not.
		return nil, fmt.Errorf("automigrate push_subscriptions failed: %w", err)
	}

	log.Info("database initialization complete", zap.String("driver", cfg.Driver))
	return db, nil
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.Open(cfg.DSN), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
