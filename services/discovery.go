package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"resource-curator/models"
	"resource-curator/providers"
	"resource-curator/providers/registry"
)

const (
	defaultSourceTimeout  = 10 * time.Second
	defaultArchiveTimeout = 30 * time.Second
)

// SnapshotArchiver legt einen abgeschlossenen Discovery-Lauf ab, z.B. in S3.
type SnapshotArchiver interface {
	Archive(ctx context.Context, runID, concept string, results []models.DiscoveredResource) error
}

// Dispatcher fragt alle Quellen der Registry parallel ab und führt die Ergebnisse zusammen.
// Er schreibt nie in den Speicher.
type Dispatcher struct {
	Registry      *registry.Registry
	Normalizer    *Normalizer
	Scorer        *Scorer
	Ranker        *Ranker
	Logger        *zap.Logger
	SourceTimeout time.Duration
	DefaultLimit  int
	// Archiver ist optional; Fehler beim Archivieren werden nur geloggt.
	Archiver SnapshotArchiver
}

// NewDispatcher erstellt einen Dispatcher mit den Standardkomponenten.
func NewDispatcher(reg *registry.Registry, logger *zap.Logger, sourceTimeout time.Duration, defaultLimit int) *Dispatcher {
	return &Dispatcher{
		Registry:      reg,
		Normalizer:    NewNormalizer(logger),
		Scorer:        NewScorer(),
		Ranker:        NewRanker(),
		Logger:        logger,
		SourceTimeout: sourceTimeout,
		DefaultLimit:  defaultLimit,
	}
}

// Discover liefert alle normalisierten Kandidaten aller Quellen, in Registry-Reihenfolge
// aneinandergehängt. Eine fehlerhafte oder zu langsame Quelle trägt nichts bei.
func (d *Dispatcher) Discover(ctx context.Context, concept string) ([]models.DiscoveredResource, error) {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return nil, ErrEmptyConcept
	}
	log := d.Logger.With(zap.String("concept", concept))

	sources := d.Registry.Sources()
	perSource := make([][]models.DiscoveredResource, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			perSource[i] = d.fetchSource(ctx, src, concept, log)
			return nil
		})
	}
	_ = g.Wait()

	var merged []models.DiscoveredResource
	for i, items := range perSource {
		log.Debug("Source finished", zap.String("source", sources[i].Name()), zap.Int("count", len(items)))
		merged = append(merged, items...)
	}
	merged = dedupeByURL(merged)
	log.Info("Discovery abgeschlossen", zap.Int("sources", len(sources)), zap.Int("candidates", len(merged)))
	return merged, nil
}

type fetchResult struct {
	items []providers.RawItem
	err   error
}

// fetchSource kapselt eine Quelle: eigener Timeout, Panics und Fehler werden zu einer leeren Liste.
// Eine Quelle, die ctx ignoriert, läuft nach dem Timeout im Hintergrund weiter; ihr Ergebnis wird verworfen.
func (d *Dispatcher) fetchSource(ctx context.Context, src providers.Source, concept string, log *zap.Logger) []models.DiscoveredResource {
	name := src.Name()
	timeout := d.SourceTimeout
	if timeout <= 0 {
		timeout = defaultSourceTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		sourceDurationHistogram.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	done := make(chan fetchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Source panicked", zap.String("source", name), zap.Any("panic", r))
				done <- fetchResult{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		items, err := src.Fetch(ctx, concept)
		done <- fetchResult{items: items, err: err}
	}()

	var result fetchResult
	select {
	case result = <-done:
		if result.err == nil && ctx.Err() != nil {
			result.err = ctx.Err()
		}
	case <-ctx.Done():
		result.err = ctx.Err()
	}
	if result.err != nil {
		log.Warn("Quelle fehlgeschlagen, wird übersprungen", zap.String("source", name), zap.Error(result.err))
		sourceFailuresCounter.WithLabelValues(name).Inc()
		return nil
	}
	items := result.items

	desc := src.Descriptor()
	out := make([]models.DiscoveredResource, 0, len(items))
	for _, item := range items {
		if res, ok := d.Normalizer.Normalize(desc, item); ok {
			out = append(out, res)
		}
	}
	return out
}

// DiscoverAndRank bewertet alle Kandidaten zum Zeitpunkt now und wählt höchstens limit aus.
// limit <= 0 nutzt das Standardlimit.
func (d *Dispatcher) DiscoverAndRank(ctx context.Context, concept string, limit int, now time.Time) ([]models.DiscoveredResource, error) {
	candidates, err := d.Discover(ctx, concept)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = d.DefaultLimit
	}
	for i := range candidates {
		d.Scorer.Score(&candidates[i], now)
	}
	ranked := d.Ranker.Select(candidates, limit)

	if d.Archiver != nil && len(ranked) > 0 {
		runID := uuid.NewString()
		snapshot := append([]models.DiscoveredResource(nil), ranked...)
		go d.archive(runID, concept, snapshot)
	}
	return ranked, nil
}

func (d *Dispatcher) archive(runID, concept string, results []models.DiscoveredResource) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultArchiveTimeout)
	defer cancel()
	if err := d.Archiver.Archive(ctx, runID, concept, results); err != nil {
		d.Logger.Warn("Snapshot konnte nicht archiviert werden", zap.String("run_id", runID), zap.Error(fmt.Errorf("archive %s: %w", concept, err)))
		return
	}
	d.Logger.Info("Snapshot archiviert", zap.String("run_id", runID), zap.String("concept", concept))
}
