package services

import (
	"context"

	"go.uber.org/zap"

	"resource-curator/models"
)

const strengthPerSharedConcept = 25

// GraphStore liefert die Konzept-Mengen, aus denen Kanten abgeleitet werden.
type GraphStore interface {
	ConceptSets(ctx context.Context, resourceIDs []uint) (map[uint][]uint, error)
	ResourcesForConcepts(ctx context.Context, conceptIDs []uint, limit int) ([]models.CuratedResource, error)
}

// Neighbourhood sind die Ressourcen mehrerer Konzepte samt ihrer gegenseitigen Kanten.
type Neighbourhood struct {
	Resources   []models.CuratedResource    `json:"resources"`
	Connections []models.ResourceConnection `json:"connections"`
}

// GraphBuilder berechnet Ressource-Ressource-Kanten aus gemeinsamen Konzepten.
type GraphBuilder struct {
	Store  GraphStore
	Logger *zap.Logger
}

// NewGraphBuilder erstellt einen GraphBuilder.
func NewGraphBuilder(store GraphStore, logger *zap.Logger) *GraphBuilder {
	return &GraphBuilder{Store: store, Logger: logger}
}

// Connections lädt die Konzept-Mengen in einer Abfrage und leitet daraus die Kanten ab.
func (g *GraphBuilder) Connections(ctx context.Context, resourceIDs []uint) ([]models.ResourceConnection, error) {
	if len(resourceIDs) == 0 {
		return nil, ErrInvalidIDs
	}
	ids := uniqueIDs(resourceIDs)
	sets, err := g.Store.ConceptSets(ctx, ids)
	if err != nil {
		return nil, err
	}
	conns := BuildConnections(ids, sets)
	g.Logger.Debug("Graph berechnet", zap.Int("resources", len(ids)), zap.Int("connections", len(conns)))
	return conns, nil
}

// ConceptNeighbourhood liefert die Ressourcen der Konzepte und deren gegenseitige Kanten.
func (g *GraphBuilder) ConceptNeighbourhood(ctx context.Context, conceptIDs []uint, limit int) (Neighbourhood, error) {
	if len(conceptIDs) == 0 {
		return Neighbourhood{}, ErrInvalidIDs
	}
	resources, err := g.Store.ResourcesForConcepts(ctx, uniqueIDs(conceptIDs), limit)
	if err != nil {
		return Neighbourhood{}, err
	}
	ids := make([]uint, len(resources))
	sets := make(map[uint][]uint, len(resources))
	for i, r := range resources {
		ids[i] = r.ID
		for _, link := range r.Concepts {
			sets[r.ID] = append(sets[r.ID], link.ConceptID)
		}
	}
	return Neighbourhood{Resources: resources, Connections: BuildConnections(ids, sets)}, nil
}

// BuildConnections vergleicht alle Paare in Eingabereihenfolge. Für jedes Paar mit gemeinsamen
// Konzepten entstehen zwei gerichtete Kanten gleicher Stärke min(100, 25*gemeinsam).
func BuildConnections(ids []uint, sets map[uint][]uint) []models.ResourceConnection {
	ids = uniqueIDs(ids)
	lookup := make(map[uint]map[uint]bool, len(ids))
	for _, id := range ids {
		m := make(map[uint]bool, len(sets[id]))
		for _, c := range sets[id] {
			m[c] = true
		}
		lookup[id] = m
	}

	conns := []models.ResourceConnection{}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			shared := 0
			for c := range lookup[ids[i]] {
				if lookup[ids[j]][c] {
					shared++
				}
			}
			if shared == 0 {
				continue
			}
			strength := shared * strengthPerSharedConcept
			if strength > 100 {
				strength = 100
			}
			conns = append(conns,
				models.ResourceConnection{SourceResourceID: ids[i], TargetResourceID: ids[j], ConnectionStrength: strength},
				models.ResourceConnection{SourceResourceID: ids[j], TargetResourceID: ids[i], ConnectionStrength: strength},
			)
		}
	}
	return conns
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
