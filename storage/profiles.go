package storage

import (
	"context"

	"gorm.io/gorm"

	"resource-curator/models"
)

// ProfileStore liest Lernprofile.
type ProfileStore struct {
	DB *gorm.DB
}

// NewProfileStore erstellt einen ProfileStore.
func NewProfileStore(db *gorm.DB) *ProfileStore {
	return &ProfileStore{DB: db}
}

// FindByUserID liefert ErrNotFound, wenn für den Nutzer kein Profil existiert.
func (s *ProfileStore) FindByUserID(ctx context.Context, userID string) (*models.LearningProfile, error) {
	var p models.LearningProfile
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}
