package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-curator/models"
)

func cand(url string, t models.SourceType, score float64) models.DiscoveredResource {
	return models.DiscoveredResource{URL: url, Title: url, SourceType: t, RankingScore: score}
}

func urls(rs []models.DiscoveredResource) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.URL
	}
	return out
}

func countType(rs []models.DiscoveredResource, t models.SourceType) int {
	n := 0
	for _, r := range rs {
		if r.SourceType == t {
			n++
		}
	}
	return n
}

func TestQuotaFor(t *testing.T) {
	assert.Equal(t, 3, QuotaFor(10, 30))
	assert.Equal(t, 2, QuotaFor(10, 20))
	assert.Equal(t, 1, QuotaFor(2, 30))
	assert.Equal(t, 2, QuotaFor(5, 30))
	assert.Equal(t, 1, QuotaFor(5, 20))
	assert.Equal(t, 0, QuotaFor(0, 30))
}

func TestSelectHonoursQuotas(t *testing.T) {
	var cands []models.DiscoveredResource
	for i := 0; i < 10; i++ {
		cands = append(cands, cand(fmt.Sprintf("https://v/%d", i), models.SourceTypeVideo, float64(90-i)))
	}
	for i := 0; i < 3; i++ {
		cands = append(cands, cand(fmt.Sprintf("https://a/%d", i), models.SourceTypeArticle, 50))
	}
	for i := 0; i < 2; i++ {
		cands = append(cands, cand(fmt.Sprintf("https://i/%d", i), models.SourceTypeInteractive, 40))
		cands = append(cands, cand(fmt.Sprintf("https://c/%d", i), models.SourceTypeCourse, 30))
	}

	got := NewRanker().Select(cands, 10)
	require.Len(t, got, 10)
	assert.Equal(t, 3, countType(got, models.SourceTypeVideo))
	assert.Equal(t, 3, countType(got, models.SourceTypeArticle))
	assert.Equal(t, 2, countType(got, models.SourceTypeInteractive))
	assert.Equal(t, 2, countType(got, models.SourceTypeCourse))
	assert.Equal(t, []string{
		"https://v/0", "https://v/1", "https://v/2",
		"https://a/0", "https://a/1", "https://a/2",
		"https://i/0", "https://i/1",
		"https://c/0", "https://c/1",
	}, urls(got))
}

func TestSelectBackfillsStarvedTypes(t *testing.T) {
	var cands []models.DiscoveredResource
	for i := 0; i < 10; i++ {
		cands = append(cands, cand(fmt.Sprintf("https://v/%d", i), models.SourceTypeVideo, float64(90-i)))
	}
	cands = append(cands, cand("https://a/0", models.SourceTypeArticle, 10))

	got := NewRanker().Select(cands, 5)
	assert.Equal(t, []string{"https://v/0", "https://v/1", "https://v/2", "https://v/3", "https://a/0"}, urls(got))
}

func TestSelectBooksOnlyViaBackfill(t *testing.T) {
	cands := []models.DiscoveredResource{
		cand("https://b/0", models.SourceTypeBook, 99),
		cand("https://b/1", models.SourceTypeBook, 98),
		cand("https://b/2", models.SourceTypeBook, 97),
		cand("https://v/0", models.SourceTypeVideo, 10),
	}
	got := NewRanker().Select(cands, 3)
	assert.Equal(t, []string{"https://b/0", "https://b/1", "https://v/0"}, urls(got))
}

func TestSelectTruncatesToLimit(t *testing.T) {
	cands := []models.DiscoveredResource{
		cand("https://c/0", models.SourceTypeCourse, 40),
		cand("https://a/0", models.SourceTypeArticle, 70),
		cand("https://i/0", models.SourceTypeInteractive, 60),
		cand("https://v/0", models.SourceTypeVideo, 80),
	}
	got := NewRanker().Select(cands, 2)
	assert.Equal(t, []string{"https://v/0", "https://a/0"}, urls(got))
}

func TestSelectStableTieBreakAndDedup(t *testing.T) {
	cands := []models.DiscoveredResource{
		cand("https://a/first", models.SourceTypeArticle, 50),
		cand("https://a/second", models.SourceTypeArticle, 50),
		cand("https://a/first", models.SourceTypeArticle, 99),
		cand("https://a/third", models.SourceTypeArticle, 50),
	}
	got := NewRanker().Select(cands, 10)
	assert.Equal(t, []string{"https://a/first", "https://a/second", "https://a/third"}, urls(got))
	assert.Equal(t, 50.0, got[0].RankingScore, "erstes Vorkommen gewinnt")
}

func TestSelectEdgeCases(t *testing.T) {
	r := NewRanker()
	assert.Empty(t, r.Select(nil, 10))
	assert.Empty(t, r.Select([]models.DiscoveredResource{cand("https://a", models.SourceTypeArticle, 1)}, 0))
	assert.NotNil(t, r.Select(nil, 10))
}

func TestRankByLearningStyle(t *testing.T) {
	visual := models.DiscoveredResource{URL: "https://visual", RankingScore: 60, LearningStyleFit: models.LearningStyleFit{Visual: 100}}
	reading := models.DiscoveredResource{URL: "https://reading", RankingScore: 70, LearningStyleFit: models.LearningStyleFit{Reading: 100}}
	cands := []models.DiscoveredResource{reading, visual}

	got := RankByLearningStyle(cands, models.LearningStyleFit{Visual: 100})
	assert.Equal(t, []string{"https://visual", "https://reading"}, urls(got))

	got = RankByLearningStyle(cands, models.LearningStyleFit{})
	assert.Equal(t, []string{"https://reading", "https://visual"}, urls(got), "Nullvektor gilt als ausgewogen")

	assert.Equal(t, "https://reading", cands[0].URL, "Eingabe bleibt unverändert")
}
