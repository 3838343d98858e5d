package storage

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resource-curator/config"
	"resource-curator/models"
)

var (
	// ErrNotFound wird zurückgegeben, wenn ein Datensatz nicht existiert.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateURL meldet eine Verletzung des eindeutigen URL-Index.
	ErrDuplicateURL = errors.New("resource url already exists")
)

// Open verbindet sich mit PostgreSQL.
func Open(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
}

// Migrate legt alle Tabellen des Dienstes an bzw. aktualisiert sie.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Concept{},
		&models.CuratedResource{},
		&models.ResourceConcept{},
		&models.LearningProfile{},
	)
}

// isUniqueViolation erkennt Unique-Verletzungen über alle Treiber hinweg.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
