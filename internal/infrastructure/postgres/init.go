package postgres

import (
	"fmt"
	"log"

	"github.com/LavaJover/shvark-wallet-service/internal/config"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/migrate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB opens the wallet database and applies pending migrations when
// wallet_db.auto_migrate is set.
func InitDB(cfg *config.WalletConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.WalletDB.Dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init db: %w", err)
	}

	if cfg.WalletDB.AutoMigrate {
		if err := migrate.RunMigrations(db, cfg.WalletDB.MigrationsPath); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func MustInitDB(cfg *config.WalletConfig) *gorm.DB {
	db, err := InitDB(cfg)
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	return db
}
