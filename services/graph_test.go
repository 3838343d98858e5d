package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"resource-curator/models"
	"resource-curator/storage"
	"resource-curator/storage/storagetest"
)

func TestBuildConnections(t *testing.T) {
	sets := map[uint][]uint{
		1: {10, 11, 12, 13, 14},
		2: {10},
		3: {10, 11, 12, 13, 14},
		4: {99},
	}
	got := BuildConnections([]uint{1, 2, 3, 4, 2}, sets)
	assert.Equal(t, []models.ResourceConnection{
		{SourceResourceID: 1, TargetResourceID: 2, ConnectionStrength: 25},
		{SourceResourceID: 2, TargetResourceID: 1, ConnectionStrength: 25},
		{SourceResourceID: 1, TargetResourceID: 3, ConnectionStrength: 100},
		{SourceResourceID: 3, TargetResourceID: 1, ConnectionStrength: 100},
		{SourceResourceID: 2, TargetResourceID: 3, ConnectionStrength: 25},
		{SourceResourceID: 3, TargetResourceID: 2, ConnectionStrength: 25},
	}, got)
}

func TestBuildConnectionsWithoutSharedConcepts(t *testing.T) {
	got := BuildConnections([]uint{1, 2}, map[uint][]uint{1: {1}, 2: {2}})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestConnectionsRejectsEmptyIDs(t *testing.T) {
	g := NewGraphBuilder(storage.NewResourceStore(storagetest.Open(t)), zap.NewNop())
	_, err := g.Connections(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidIDs)
	_, err = g.ConceptNeighbourhood(context.Background(), nil, 0)
	assert.ErrorIs(t, err, ErrInvalidIDs)
}

// TestNeuralNetworksCurateAndConnect spielt das Beispiel zu Ende: beide Kandidaten werden
// gespeichert und teilen genau ein Konzept, also zwei Kanten der Stärke 25.
func TestNeuralNetworksCurateAndConnect(t *testing.T) {
	ctx := context.Background()
	db := storagetest.Open(t)
	store := storage.NewResourceStore(db)

	ranked, err := newTestDispatcher(neuralNetworkSources()...).DiscoverAndRank(ctx, "Neural Networks", 2, evalTime)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	results := NewCurator(store, zap.NewNop(), 70).Curate(ctx, 1, ranked, CurationOptions{})
	ids := ResourceIDs(results)
	require.Len(t, ids, 2)

	conns, err := NewGraphBuilder(store, zap.NewNop()).Connections(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, []models.ResourceConnection{
		{SourceResourceID: ids[0], TargetResourceID: ids[1], ConnectionStrength: 25},
		{SourceResourceID: ids[1], TargetResourceID: ids[0], ConnectionStrength: 25},
	}, conns)
}

func TestConceptNeighbourhood(t *testing.T) {
	ctx := context.Background()
	store := storage.NewResourceStore(storagetest.Open(t))
	curator := NewCurator(store, zap.NewNop(), 70)

	core := 90
	first := curator.Curate(ctx, 1, []models.DiscoveredResource{discovered("https://example.com/a", "A")}, CurationOptions{RelevanceScore: &core})
	curator.Curate(ctx, 2, []models.DiscoveredResource{discovered("https://example.com/a", "A"), discovered("https://example.com/b", "B")}, CurationOptions{})
	curator.Curate(ctx, 3, []models.DiscoveredResource{discovered("https://example.com/c", "C")}, CurationOptions{})

	hood, err := NewGraphBuilder(store, zap.NewNop()).ConceptNeighbourhood(ctx, []uint{1, 2}, 0)
	require.NoError(t, err)
	require.Len(t, hood.Resources, 2)
	assert.Equal(t, first[0].ResourceID, hood.Resources[0].ID)
	require.Len(t, hood.Connections, 2)
	assert.Equal(t, 25, hood.Connections[0].ConnectionStrength)

	limited, err := NewGraphBuilder(store, zap.NewNop()).ConceptNeighbourhood(ctx, []uint{1, 2}, 1)
	require.NoError(t, err)
	assert.Len(t, limited.Resources, 1)
	assert.Empty(t, limited.Connections)
}

// TestProperty06_GraphSymmetry prüft, dass jede Kante eine Gegenkante gleicher Stärke hat
// und Paare ohne gemeinsame Konzepte keine Kante bekommen.
func TestProperty06_GraphSymmetry(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 12).Draw(rt, "resources")
		ids := make([]uint, n)
		sets := make(map[uint][]uint, n)
		for i := range ids {
			ids[i] = uint(i + 1)
			sets[ids[i]] = rapid.SliceOfDistinct(rapid.UintRange(1, 8), func(v uint) uint { return v }).Draw(rt, "concepts")
		}

		conns := BuildConnections(ids, sets)
		strength := map[[2]uint]int{}
		for _, c := range conns {
			if c.ConnectionStrength <= 0 || c.ConnectionStrength > 100 {
				rt.Fatalf("strength %d out of range", c.ConnectionStrength)
			}
			strength[[2]uint{c.SourceResourceID, c.TargetResourceID}] = c.ConnectionStrength
		}
		for _, a := range ids {
			for _, b := range ids {
				if a == b {
					continue
				}
				if strength[[2]uint{a, b}] != strength[[2]uint{b, a}] {
					rt.Fatalf("asymmetric edge %d<->%d", a, b)
				}
				want := min(100, sharedCount(sets[a], sets[b])*25)
				if strength[[2]uint{a, b}] != want {
					rt.Fatalf("edge %d->%d has strength %d, want %d", a, b, strength[[2]uint{a, b}], want)
				}
			}
		}
	})
}

func sharedCount(a, b []uint) int {
	n := 0
	for _, x := range a {
		for _, y := range b {
			if x == y {
				n++
			}
		}
	}
	return n
}
