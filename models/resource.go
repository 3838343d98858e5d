package models

import "time"

// SourceType klassifiziert eine Lernressource.
type SourceType string

const (
	SourceTypeVideo       SourceType = "video"
	SourceTypeArticle     SourceType = "article"
	SourceTypeInteractive SourceType = "interactive"
	SourceTypeCourse      SourceType = "course"
	SourceTypeBook        SourceType = "book"
)

// SourceTypes listet alle bekannten Typen in fester Reihenfolge.
var SourceTypes = []SourceType{SourceTypeVideo, SourceTypeArticle, SourceTypeInteractive, SourceTypeCourse, SourceTypeBook}

// Valid prüft, ob der Typ bekannt ist.
func (t SourceType) Valid() bool {
	for _, known := range SourceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Difficulty ist die geschätzte Schwierigkeitsstufe.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// QualityLabel ist die abgeleitete Gesamtqualität (high/medium/low).
type QualityLabel string

const (
	QualityHigh   QualityLabel = "high"
	QualityMedium QualityLabel = "medium"
	QualityLow    QualityLabel = "low"
)

// CompositeLabel leitet das Qualitätslabel aus Autorität (40%) und visueller Qualität (60%) ab.
// Es dient nur der Anzeige; das Ranking nutzt eine eigene Gewichtung.
func CompositeLabel(authority, visual int) QualityLabel {
	// Zehnfach skaliert, damit die Schwellen exakt greifen.
	blend := 4*authority + 6*visual
	switch {
	case blend >= 800:
		return QualityHigh
	case blend >= 500:
		return QualityMedium
	default:
		return QualityLow
	}
}

// LearningStyleFit beschreibt die Eignung für vier Lernstile (je 0-100).
type LearningStyleFit struct {
	Visual      int `json:"visual"`
	Auditory    int `json:"auditory"`
	Reading     int `json:"reading"`
	Kinesthetic int `json:"kinesthetic"`
}

// Indicators sind beim Scraping erkannte Merkmale, die nur in die Bewertung einfließen.
type Indicators struct {
	HasImage       bool
	HasDiagram     bool
	HasVideo       bool
	HasInteractive bool
	Views          int64
	Content        string
	Tier           int
}

// DiscoveredResource ist ein Kandidat aus genau einem Discovery-Lauf.
type DiscoveredResource struct {
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	SourceType  SourceType `json:"sourceType"`
	SourceName  string     `json:"sourceName"`

	AuthorityScore     int          `json:"authorityScore"`
	VisualRichness     int          `json:"visualRichness"`
	EngagementScore    int          `json:"engagementScore"`
	FreshnessScore     int          `json:"freshnessScore"`
	InteractivityScore int          `json:"interactivityScore"`
	CompositeQuality   QualityLabel `json:"compositeQuality"`
	RankingScore       float64      `json:"rankingScore"`

	EstimatedTimeMinutes int              `json:"estimatedTimeMinutes"`
	DifficultyLevel      Difficulty       `json:"difficultyLevel"`
	LearningStyleFit     LearningStyleFit `json:"learningStyleFit"`

	ImageURL    string     `json:"imageUrl,omitempty"`
	Author      string     `json:"author,omitempty"`
	PublishDate *time.Time `json:"publishDate,omitempty"`

	Indicators Indicators `json:"-"`
}
