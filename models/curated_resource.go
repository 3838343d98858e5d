package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CuratedResource ist eine dauerhaft gespeicherte Ressource. Die URL ist eindeutig.
type CuratedResource struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	URL         string     `json:"url" gorm:"uniqueIndex;size:2048;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description" gorm:"type:text"`
	SourceType  SourceType `json:"sourceType" gorm:"index;size:32"`
	SourceName  string     `json:"sourceName" gorm:"index;size:128"`

	AuthorityScore     int `json:"authorityScore"`
	VisualRichness     int `json:"visualRichness"`
	EngagementScore    int `json:"engagementScore"`
	FreshnessScore     int `json:"freshnessScore"`
	InteractivityScore int `json:"interactivityScore"`

	// Wird nie gespeichert, sondern nach dem Laden aus den Teilwerten abgeleitet.
	CompositeQuality QualityLabel `json:"compositeQuality" gorm:"-"`

	EstimatedTimeMinutes int                                  `json:"estimatedTimeMinutes"`
	DifficultyLevel      Difficulty                           `json:"difficultyLevel" gorm:"size:32"`
	LearningStyleFit     datatypes.JSONType[LearningStyleFit] `json:"learningStyleFit"`

	ImageURL    string     `json:"imageUrl,omitempty"`
	Author      string     `json:"author,omitempty"`
	PublishDate *time.Time `json:"publishDate,omitempty"`
	DateAdded   time.Time  `json:"dateAdded"`

	Concepts []ResourceConcept `json:"concepts" gorm:"foreignKey:ResourceID;constraint:OnDelete:CASCADE"`
}

// TableName gibt explizit den Tabellennamen an.
func (CuratedResource) TableName() string {
	return "curated_resources"
}

// AfterFind setzt das abgeleitete Qualitätslabel.
func (r *CuratedResource) AfterFind(tx *gorm.DB) error {
	r.CompositeQuality = CompositeLabel(r.AuthorityScore, r.VisualRichness)
	return nil
}

// NewCuratedResource übernimmt einen Kandidaten in das Speicherformat.
func NewCuratedResource(d DiscoveredResource, canonicalURL string, now time.Time) *CuratedResource {
	return &CuratedResource{
		URL:                  canonicalURL,
		Title:                d.Title,
		Description:          d.Description,
		SourceType:           d.SourceType,
		SourceName:           d.SourceName,
		AuthorityScore:       d.AuthorityScore,
		VisualRichness:       d.VisualRichness,
		EngagementScore:      d.EngagementScore,
		FreshnessScore:       d.FreshnessScore,
		InteractivityScore:   d.InteractivityScore,
		CompositeQuality:     CompositeLabel(d.AuthorityScore, d.VisualRichness),
		EstimatedTimeMinutes: d.EstimatedTimeMinutes,
		DifficultyLevel:      d.DifficultyLevel,
		LearningStyleFit:     datatypes.NewJSONType(d.LearningStyleFit),
		ImageURL:             d.ImageURL,
		Author:               d.Author,
		PublishDate:          d.PublishDate,
		DateAdded:            now,
	}
}

// ResourceConcept ist die Relevanz-Kante zwischen Konzept und Ressource.
type ResourceConcept struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	CreatedAt time.Time `json:"-"`

	ResourceID     uint `json:"resourceId" gorm:"uniqueIndex:idx_resource_concept;not null"`
	ConceptID      uint `json:"conceptId" gorm:"uniqueIndex:idx_resource_concept;index;not null"`
	RelevanceScore int  `json:"relevanceScore"`
	IsCore         bool `json:"isCore" gorm:"default:false"`
}

// TableName gibt explizit den Tabellennamen an.
func (ResourceConcept) TableName() string {
	return "resource_concepts"
}
