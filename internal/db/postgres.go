package db

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"latribu-backend/internal/config"
)

// ErrNotConfigured DB_HOST не задан, история поисков отключена
var ErrNotConfigured = errors.New("база данных не настроена")

// ConnectPostgres подключается к Postgres с повторными попытками и настраивает пул
func ConnectPostgres(cfg config.Config, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	dsn := cfg.PostgresDSN()
	if dsn == "" {
		return nil, ErrNotConfigured
	}

	var err error
	for i := 0; i < maxAttempts; i++ {
		var db *gorm.DB
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})
		if err == nil {
			sqlDB, err := db.DB()
			if err != nil {
				return nil, fmt.Errorf("не удалось получить доступ к sql.DB: %w", err)
			}
			sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
			sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
			sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
			return db, nil
		}
		log.Printf("Попытка подключения к БД %d из %d не удалась: %v", i+1, maxAttempts, err)
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("не удалось подключиться к базе данных после %d попыток: %w", maxAttempts, err)
}
