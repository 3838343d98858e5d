package storage

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resource-curator/models"
)

// ConceptStore liest Konzepte. Gepflegt werden sie vom umgebenden System.
type ConceptStore struct {
	DB *gorm.DB
}

// NewConceptStore erstellt einen ConceptStore.
func NewConceptStore(db *gorm.DB) *ConceptStore {
	return &ConceptStore{DB: db}
}

// FindByID liefert ErrNotFound für unbekannte IDs.
func (s *ConceptStore) FindByID(ctx context.Context, id uint) (*models.Concept, error) {
	var c models.Concept
	if err := s.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// CountExisting zählt, wie viele der IDs existieren.
func (s *ConceptStore) CountExisting(ctx context.Context, ids []uint) (int, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Concept{}).Where("id IN ?", ids).Count(&count).Error
	return int(count), err
}

// List liefert alle Konzepte nach ID.
func (s *ConceptStore) List(ctx context.Context) ([]models.Concept, error) {
	var out []models.Concept
	err := s.DB.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

// SeedDefaults legt fehlende Standardkonzepte an; vorhandene bleiben unverändert.
func (s *ConceptStore) SeedDefaults(names []string, logger *zap.Logger) {
	if len(names) == 0 {
		return
	}
	concepts := make([]models.Concept, len(names))
	for i, n := range names {
		concepts[i] = models.Concept{Name: n}
	}
	result := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&concepts)
	if result.Error != nil {
		logger.Warn("Failed to seed default concepts", zap.Error(result.Error))
		return
	}
	if result.RowsAffected > 0 {
		logger.Info("Default concepts seeded.", zap.Int64("count", result.RowsAffected))
	}
}
