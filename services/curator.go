package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"resource-curator/models"
	"resource-curator/storage"
)

// ResourceStore ist der Speicher, in den der Curator schreibt.
type ResourceStore interface {
	FindByURL(ctx context.Context, url string) (*models.CuratedResource, error)
	CreateWithConcept(ctx context.Context, res *models.CuratedResource, link models.ResourceConcept) error
	EnsureConcept(ctx context.Context, link models.ResourceConcept) (bool, error)
}

// CurationStatus beschreibt, was mit einem Kandidaten passiert ist.
type CurationStatus string

const (
	// CurationCreated: neue Ressource samt erster Kante.
	CurationCreated CurationStatus = "created"
	// CurationLinked: Ressource existierte, die Kante zum Konzept wurde ergänzt.
	CurationLinked CurationStatus = "linked"
	// CurationExisting: Ressource und Kante existierten bereits, nichts geändert.
	CurationExisting CurationStatus = "existing"
	// CurationSkipped: Kandidat unbrauchbar oder Speicherfehler.
	CurationSkipped CurationStatus = "skipped"
)

// CurationResult ist das Ergebnis für genau einen Kandidaten, in Eingabereihenfolge.
type CurationResult struct {
	Index      int            `json:"index"`
	URL        string         `json:"url"`
	ResourceID uint           `json:"resourceId,omitempty"`
	Status     CurationStatus `json:"status"`
	Reason     string         `json:"reason,omitempty"`
}

// CurationOptions erlaubt dem Aufrufer eine eigene Relevanz und das Core-Flag.
type CurationOptions struct {
	RelevanceScore *int
	IsCore         bool
}

// ResourceIDs liefert die IDs aller nicht übersprungenen Kandidaten in Eingabereihenfolge.
func ResourceIDs(results []CurationResult) []uint {
	ids := make([]uint, 0, len(results))
	for _, r := range results {
		if r.Status != CurationSkipped {
			ids = append(ids, r.ResourceID)
		}
	}
	return ids
}

// Curator speichert Kandidaten dedupliziert nach kanonischer URL.
type Curator struct {
	Store            ResourceStore
	Logger           *zap.Logger
	DefaultRelevance int
	Now              func() time.Time
}

// NewCurator erstellt einen Curator.
func NewCurator(store ResourceStore, logger *zap.Logger, defaultRelevance int) *Curator {
	return &Curator{Store: store, Logger: logger, DefaultRelevance: clamp(defaultRelevance), Now: time.Now}
}

// Curate verarbeitet die Kandidaten nacheinander. Jeder Kandidat ist für sich atomar;
// ein Fehler betrifft nur ihn und bricht die Schleife nie ab.
func (c *Curator) Curate(ctx context.Context, conceptID uint, candidates []models.DiscoveredResource, opts CurationOptions) []CurationResult {
	log := c.Logger.With(zap.Uint("concept_id", conceptID))
	relevance := c.DefaultRelevance
	if opts.RelevanceScore != nil {
		relevance = clamp(*opts.RelevanceScore)
	}

	results := make([]CurationResult, len(candidates))
	for i, cand := range candidates {
		res := c.curateOne(ctx, conceptID, cand, relevance, opts.IsCore)
		res.Index = i
		switch res.Status {
		case CurationSkipped:
			curationSkippedCounter.Inc()
			log.Warn("Kandidat übersprungen", zap.Int("index", i), zap.String("url", res.URL), zap.String("reason", res.Reason))
		case CurationCreated:
			curatedResourcesCounter.Inc()
		}
		results[i] = res
	}
	log.Info("Kuratierung abgeschlossen", zap.Int("candidates", len(candidates)), zap.Int("saved", len(ResourceIDs(results))))
	return results
}

func (c *Curator) curateOne(ctx context.Context, conceptID uint, cand models.DiscoveredResource, relevance int, isCore bool) CurationResult {
	canonical, ok := CanonicalURL(cand.URL)
	if !ok {
		return CurationResult{URL: cand.URL, Status: CurationSkipped, Reason: "invalid url"}
	}
	if strings.TrimSpace(cand.Title) == "" {
		return CurationResult{URL: canonical, Status: CurationSkipped, Reason: "missing title"}
	}
	if err := ctx.Err(); err != nil {
		return CurationResult{URL: canonical, Status: CurationSkipped, Reason: err.Error()}
	}

	link := models.ResourceConcept{ConceptID: conceptID, RelevanceScore: relevance, IsCore: isCore}

	existing, err := c.Store.FindByURL(ctx, canonical)
	switch {
	case err == nil:
		return c.link(ctx, existing.ID, canonical, link)
	case !errors.Is(err, storage.ErrNotFound):
		return CurationResult{URL: canonical, Status: CurationSkipped, Reason: fmt.Sprintf("lookup: %v", err)}
	}

	record := models.NewCuratedResource(sanitize(cand, canonical), canonical, c.Now())
	err = c.Store.CreateWithConcept(ctx, record, link)
	switch {
	case err == nil:
		return CurationResult{URL: canonical, ResourceID: record.ID, Status: CurationCreated}
	case errors.Is(err, storage.ErrDuplicateURL):
		// Ein paralleler Lauf war schneller: einmal erneut nachschlagen.
		existing, lookupErr := c.Store.FindByURL(ctx, canonical)
		if lookupErr != nil {
			return CurationResult{URL: canonical, Status: CurationSkipped, Reason: fmt.Sprintf("retry lookup: %v", lookupErr)}
		}
		return c.link(ctx, existing.ID, canonical, link)
	default:
		return CurationResult{URL: canonical, Status: CurationSkipped, Reason: fmt.Sprintf("create: %v", err)}
	}
}

func (c *Curator) link(ctx context.Context, resourceID uint, canonical string, link models.ResourceConcept) CurationResult {
	link.ResourceID = resourceID
	created, err := c.Store.EnsureConcept(ctx, link)
	if err != nil {
		return CurationResult{URL: canonical, Status: CurationSkipped, Reason: fmt.Sprintf("link: %v", err)}
	}
	if created {
		return CurationResult{URL: canonical, ResourceID: resourceID, Status: CurationLinked}
	}
	return CurationResult{URL: canonical, ResourceID: resourceID, Status: CurationExisting}
}

// sanitize bringt vom Aufrufer gelieferte Kandidaten in den gültigen Wertebereich.
func sanitize(d models.DiscoveredResource, canonical string) models.DiscoveredResource {
	d.URL = canonical
	d.Title = cleanText(d.Title)
	d.Description = truncateRunes(cleanText(d.Description), maxDescriptionRunes)
	if !d.SourceType.Valid() {
		d.SourceType = InferSourceType(canonical)
	}
	switch d.DifficultyLevel {
	case models.DifficultyBeginner, models.DifficultyIntermediate, models.DifficultyAdvanced:
	default:
		d.DifficultyLevel = InferDifficulty(d.Title + " " + d.Description)
	}
	d.AuthorityScore = clamp(d.AuthorityScore)
	d.VisualRichness = clamp(d.VisualRichness)
	d.EngagementScore = clamp(d.EngagementScore)
	d.FreshnessScore = clamp(d.FreshnessScore)
	d.InteractivityScore = clamp(d.InteractivityScore)
	d.LearningStyleFit = models.LearningStyleFit{
		Visual:      clamp(d.LearningStyleFit.Visual),
		Auditory:    clamp(d.LearningStyleFit.Auditory),
		Reading:     clamp(d.LearningStyleFit.Reading),
		Kinesthetic: clamp(d.LearningStyleFit.Kinesthetic),
	}
	if d.EstimatedTimeMinutes < 0 {
		d.EstimatedTimeMinutes = 0
	}
	return d
}
