package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resource-curator/models"
)

// ResourceStore kapselt den Zugriff auf kuratierte Ressourcen und ihre Konzept-Kanten.
type ResourceStore struct {
	DB *gorm.DB
}

// NewResourceStore erstellt einen ResourceStore.
func NewResourceStore(db *gorm.DB) *ResourceStore {
	return &ResourceStore{DB: db}
}

// FindByURL sucht eine Ressource über ihre kanonische URL.
func (s *ResourceStore) FindByURL(ctx context.Context, url string) (*models.CuratedResource, error) {
	var res models.CuratedResource
	if err := s.DB.WithContext(ctx).Where("url = ?", url).First(&res).Error; err != nil {
		return nil, notFound(err)
	}
	return &res, nil
}

// CreateWithConcept legt Ressource und erste Konzept-Kante atomar an.
// Existiert die URL bereits, kommt ErrDuplicateURL zurück.
func (s *ResourceStore) CreateWithConcept(ctx context.Context, res *models.CuratedResource, link models.ResourceConcept) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Concepts").Create(res).Error; err != nil {
			return err
		}
		link.ResourceID = res.ID
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
		res.Concepts = []models.ResourceConcept{link}
		return nil
	})
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateURL, res.URL)
	}
	return err
}

// EnsureConcept fügt die Kante hinzu, falls sie fehlt. Eine bestehende Kante bleibt unverändert.
func (s *ResourceStore) EnsureConcept(ctx context.Context, link models.ResourceConcept) (bool, error) {
	result := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "resource_id"}, {Name: "concept_id"}},
		DoNothing: true,
	}).Create(&link)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ConceptSets liefert pro Ressource die sortierten Konzept-IDs in einer einzigen Abfrage.
func (s *ResourceStore) ConceptSets(ctx context.Context, resourceIDs []uint) (map[uint][]uint, error) {
	sets := make(map[uint][]uint, len(resourceIDs))
	if len(resourceIDs) == 0 {
		return sets, nil
	}
	var links []models.ResourceConcept
	err := s.DB.WithContext(ctx).
		Select("resource_id", "concept_id").
		Where("resource_id IN ?", resourceIDs).
		Order("resource_id, concept_id").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		sets[l.ResourceID] = append(sets[l.ResourceID], l.ConceptID)
	}
	return sets, nil
}

// FindByIDs lädt Ressourcen samt Kanten in der Reihenfolge der IDs; unbekannte IDs fehlen.
func (s *ResourceStore) FindByIDs(ctx context.Context, ids []uint) ([]models.CuratedResource, error) {
	if len(ids) == 0 {
		return []models.CuratedResource{}, nil
	}
	var found []models.CuratedResource
	if err := s.DB.WithContext(ctx).Preload("Concepts").Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.CuratedResource, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}
	out := make([]models.CuratedResource, 0, len(found))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
			delete(byID, id)
		}
	}
	return out, nil
}

// ResourcesForConcepts liefert die Vereinigung aller Ressourcen der Konzepte, nach höchster
// Relevanz und dann ID sortiert. limit <= 0 bedeutet unbegrenzt.
func (s *ResourceStore) ResourcesForConcepts(ctx context.Context, conceptIDs []uint, limit int) ([]models.CuratedResource, error) {
	if len(conceptIDs) == 0 {
		return []models.CuratedResource{}, nil
	}
	var rows []struct {
		ResourceID uint
		Relevance  int
	}
	q := s.DB.WithContext(ctx).Model(&models.ResourceConcept{}).
		Select("resource_id, MAX(relevance_score) AS relevance").
		Where("concept_id IN ?", conceptIDs).
		Group("resource_id").
		Order("relevance DESC").
		Order("resource_id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, len(rows))
	for i, r := range rows {
		ids[i] = r.ResourceID
	}
	return s.FindByIDs(ctx, ids)
}

// All lädt alle Ressourcen samt Kanten, z.B. für den Export.
func (s *ResourceStore) All(ctx context.Context) ([]models.CuratedResource, error) {
	var out []models.CuratedResource
	err := s.DB.WithContext(ctx).Preload("Concepts").Order("id").Find(&out).Error
	return out, err
}
