package services

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"resource-curator/models"
)

// TestProperty04_DiversityQuota prüft, dass bei ausreichend Kandidaten jedes Typs jede Quote erfüllt wird.
func TestProperty04_DiversityQuota(t *testing.T) {
	ranker := NewRanker()
	rapid.Check(t, func(rt *rapid.T) {
		limit := 10 * rapid.IntRange(1, 3).Draw(rt, "tens")
		var cands []models.DiscoveredResource
		for _, typ := range models.SourceTypes {
			n := limit + rapid.IntRange(0, 5).Draw(rt, "extra_"+string(typ))
			for i := 0; i < n; i++ {
				score := float64(rapid.IntRange(0, 10000).Draw(rt, "score")) / 100
				cands = append(cands, cand(fmt.Sprintf("https://%s/%d", typ, i), typ, score))
			}
		}

		got := ranker.Select(cands, limit)
		if len(got) != limit {
			rt.Fatalf("got %d results, want %d", len(got), limit)
		}
		for _, q := range ranker.Quotas {
			if n := countType(got, q.Type); n < QuotaFor(limit, q.Percent) {
				rt.Fatalf("type %s has %d results, quota %d", q.Type, n, QuotaFor(limit, q.Percent))
			}
		}
	})
}

// TestProperty05_SelectionSortedAndBounded prüft Sortierung, Obergrenze und eindeutige URLs.
func TestProperty05_SelectionSortedAndBounded(t *testing.T) {
	ranker := NewRanker()
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 40).Draw(rt, "n")
		var cands []models.DiscoveredResource
		for i := 0; i < n; i++ {
			cands = append(cands, cand(
				fmt.Sprintf("https://x/%d", rapid.IntRange(0, 30).Draw(rt, "url")),
				rapid.SampledFrom(models.SourceTypes).Draw(rt, "type"),
				float64(rapid.IntRange(0, 100).Draw(rt, "score")),
			))
		}
		limit := rapid.IntRange(1, 25).Draw(rt, "limit")

		got := ranker.Select(cands, limit)
		if len(got) > limit {
			rt.Fatalf("got %d results, limit %d", len(got), limit)
		}
		if unique := len(dedupeByURL(cands)); len(got) != min(limit, unique) {
			rt.Fatalf("got %d results, want %d", len(got), min(limit, unique))
		}
		seen := map[string]bool{}
		for i, r := range got {
			if seen[r.URL] {
				rt.Fatalf("duplicate url %s", r.URL)
			}
			seen[r.URL] = true
			if i > 0 && got[i-1].RankingScore < r.RankingScore {
				rt.Fatalf("not sorted at %d", i)
			}
		}
	})
}
