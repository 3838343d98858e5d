package services

import (
	"math"
	"sort"

	"resource-curator/models"
)

// TypeQuota ist der Anteil eines Typs an der Ergebnisliste in Prozent.
type TypeQuota struct {
	Type    models.SourceType
	Percent int
}

// DefaultQuotas gibt die Reihenfolge der Erstbefüllung vor. Bücher haben keine Quote
// und kommen nur über das Auffüllen in die Auswahl.
var DefaultQuotas = []TypeQuota{
	{Type: models.SourceTypeVideo, Percent: 30},
	{Type: models.SourceTypeInteractive, Percent: 20},
	{Type: models.SourceTypeArticle, Percent: 30},
	{Type: models.SourceTypeCourse, Percent: 20},
}

// Ranker wählt eine begrenzte, typdiverse Ergebnisliste aus bewerteten Kandidaten.
type Ranker struct {
	Quotas []TypeQuota
}

// NewRanker erstellt einen Ranker mit den Standardquoten.
func NewRanker() *Ranker {
	return &Ranker{Quotas: DefaultQuotas}
}

// QuotaFor rechnet einen Prozentanteil von limit aufgerundet in Plätze um.
func QuotaFor(limit, percent int) int {
	if limit <= 0 || percent <= 0 {
		return 0
	}
	return (limit*percent + 99) / 100
}

// Select sortiert nach Ranking-Score, füllt zuerst die Typquoten, dann die restlichen Plätze
// in Score-Reihenfolge auf und gibt höchstens limit Kandidaten absteigend sortiert zurück.
// Gleiche Scores behalten ihre Discovery-Reihenfolge.
func (r *Ranker) Select(candidates []models.DiscoveredResource, limit int) []models.DiscoveredResource {
	if limit <= 0 || len(candidates) == 0 {
		return []models.DiscoveredResource{}
	}
	sorted := sortByRankingScore(dedupeByURL(candidates))

	selected := make([]bool, len(sorted))
	count := 0
	for _, q := range r.Quotas {
		quota := QuotaFor(limit, q.Percent)
		for i := 0; i < len(sorted) && quota > 0; i++ {
			if !selected[i] && sorted[i].SourceType == q.Type {
				selected[i] = true
				quota--
				count++
			}
		}
	}
	for i := 0; i < len(sorted) && count < limit; i++ {
		if !selected[i] {
			selected[i] = true
			count++
		}
	}

	// sorted ist bereits nach Score geordnet, also bleibt die Auswahl in dieser Reihenfolge.
	out := make([]models.DiscoveredResource, 0, count)
	for i, ok := range selected {
		if ok {
			out = append(out, sorted[i])
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RankByLearningStyle ordnet Kandidaten je zur Hälfte nach Ranking-Score und nach der mit den
// Nutzergewichten gewichteten Lernstil-Eignung. Ein Nullvektor zählt als ausgewogen.
func RankByLearningStyle(candidates []models.DiscoveredResource, weights models.LearningStyleFit) []models.DiscoveredResource {
	w := normalizeWeights(weights)
	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		fit := c.LearningStyleFit
		styleScore := w[0]*float64(fit.Visual) + w[1]*float64(fit.Auditory) + w[2]*float64(fit.Reading) + w[3]*float64(fit.Kinesthetic)
		scores[i] = math.Round((0.5*c.RankingScore+0.5*styleScore)*100) / 100
	}

	idx := make([]int, len(candidates))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	out := make([]models.DiscoveredResource, len(candidates))
	for i, j := range idx {
		out[i] = candidates[j]
	}
	return out
}

func normalizeWeights(fit models.LearningStyleFit) [4]float64 {
	raw := [4]float64{
		math.Max(0, float64(fit.Visual)),
		math.Max(0, float64(fit.Auditory)),
		math.Max(0, float64(fit.Reading)),
		math.Max(0, float64(fit.Kinesthetic)),
	}
	sum := raw[0] + raw[1] + raw[2] + raw[3]
	if sum == 0 {
		return [4]float64{0.25, 0.25, 0.25, 0.25}
	}
	for i := range raw {
		raw[i] /= sum
	}
	return raw
}

func sortByRankingScore(candidates []models.DiscoveredResource) []models.DiscoveredResource {
	out := make([]models.DiscoveredResource, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RankingScore > out[j].RankingScore
	})
	return out
}

// dedupeByURL behält pro URL den ersten Kandidaten.
func dedupeByURL(candidates []models.DiscoveredResource) []models.DiscoveredResource {
	seen := make(map[string]bool, len(candidates))
	out := make([]models.DiscoveredResource, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.URL] {
			continue
		}
		seen[c.URL] = true
		out = append(out, c)
	}
	return out
}
