package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"resource-curator/models"
)

// ConceptLister liefert alle bekannten Konzepte.
type ConceptLister interface {
	List(ctx context.Context) ([]models.Concept, error)
}

// Sweeper kuratiert periodisch alle Konzepte neu: Discovery, Ranking und Speichern.
type Sweeper struct {
	Concepts   ConceptLister
	Dispatcher *Dispatcher
	Curator    *Curator
	Limit      int
	Logger     *zap.Logger
}

// RunAll verarbeitet die Konzepte nacheinander und liefert die Zahl neu angelegter Ressourcen.
// Fehler einzelner Konzepte werden geloggt, der Lauf geht weiter.
func (s *Sweeper) RunAll(ctx context.Context) (int, error) {
	concepts, err := s.Concepts.List(ctx)
	if err != nil {
		s.Logger.Error("Fehler beim Abrufen der Konzepte", zap.Error(err))
		return 0, err
	}

	created := 0
	for _, concept := range concepts {
		if ctx.Err() != nil {
			return created, ctx.Err()
		}
		log := s.Logger.With(zap.String("concept", concept.Name))
		ranked, err := s.Dispatcher.DiscoverAndRank(ctx, concept.Name, s.Limit, time.Now())
		if err != nil {
			log.Error("Discovery für Konzept fehlgeschlagen", zap.Error(err))
			continue
		}
		for _, r := range s.Curator.Curate(ctx, concept.ID, ranked, CurationOptions{}) {
			if r.Status == CurationCreated {
				created++
			}
		}
	}
	return created, nil
}
