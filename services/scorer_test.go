package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"resource-curator/models"
)

var evalTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) *time.Time {
	t := evalTime.AddDate(0, 0, -d)
	return &t
}

func TestReputationTier(t *testing.T) {
	assert.Equal(t, 1, ReputationTier("https://ocw.mit.edu/courses/x", 0))
	assert.Equal(t, 1, ReputationTier("https://cs.example.edu/notes", 0))
	assert.Equal(t, 2, ReputationTier("https://en.wikipedia.org/wiki/X", 0))
	assert.Equal(t, 3, ReputationTier("https://blog.example.com/post", 0))
	assert.Equal(t, 2, ReputationTier("https://blog.example.com/post", 2), "Quellstufe verbessert die Domainstufe")
	assert.Equal(t, 1, ReputationTier("https://arxiv.org/abs/1", 3), "Quellstufe verschlechtert nie")
}

func TestAuthorityScore(t *testing.T) {
	base := models.DiscoveredResource{URL: "https://blog.example.com/post"}
	assert.Equal(t, 50, AuthorityScore(base))

	withAuthor := base
	withAuthor.Author = "Jane Doe"
	assert.Equal(t, 55, AuthorityScore(withAuthor))

	withIndicators := withAuthor
	withIndicators.Indicators.Content = "a peer-reviewed journal article, published in nature by a professor"
	assert.Equal(t, 70, AuthorityScore(withIndicators), "höchstens drei Merkmale zählen")

	top := withIndicators
	top.URL = "https://www.stanford.edu/x"
	assert.Equal(t, 100, AuthorityScore(top))
}

func TestVisualRichness(t *testing.T) {
	assert.Equal(t, 60, VisualRichness(models.DiscoveredResource{SourceType: models.SourceTypeArticle}))
	assert.Equal(t, 90, VisualRichness(models.DiscoveredResource{
		SourceType: models.SourceTypeVideo,
		Indicators: models.Indicators{HasImage: true, HasVideo: true},
	}))
	assert.Equal(t, 100, VisualRichness(models.DiscoveredResource{
		SourceType: models.SourceTypeInteractive,
		Indicators: models.Indicators{HasImage: true, HasDiagram: true, HasVideo: true},
	}))
}

func TestEngagementScore(t *testing.T) {
	r := models.DiscoveredResource{Title: "Neural nets"}
	assert.Equal(t, 30, EngagementScore(r, 60))

	r = models.DiscoveredResource{
		Title:       "How to train a neural network?",
		Description: "This tutorial walks through every step of training a small neural network, from data preparation to evaluation.",
		Indicators:  models.Indicators{Views: 2_000_000},
	}
	assert.Equal(t, 90, EngagementScore(r, 80))

	r.Indicators.Views = 150_000
	assert.Equal(t, 85, EngagementScore(r, 80))
	assert.Equal(t, 95, EngagementScore(r, 100))
}

func TestFreshnessScoreBands(t *testing.T) {
	tests := []struct {
		published *time.Time
		want      int
	}{
		{nil, 50},
		{daysAgo(-10), 100},
		{daysAgo(0), 100},
		{daysAgo(10), 100},
		{daysAgo(60), 90},
		{daysAgo(100), 80},
		{daysAgo(200), 70},
		{daysAgo(400), 60},
		{daysAgo(800), 50},
		{daysAgo(1200), 30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FreshnessScore(tt.published, evalTime))
	}
}

func TestInteractivityScore(t *testing.T) {
	assert.Equal(t, 100, InteractivityScore(models.DiscoveredResource{SourceType: models.SourceTypeInteractive, Indicators: models.Indicators{HasInteractive: true}}))
	assert.Equal(t, 70, InteractivityScore(models.DiscoveredResource{SourceType: models.SourceTypeCourse}))
	assert.Equal(t, 40, InteractivityScore(models.DiscoveredResource{SourceType: models.SourceTypeArticle, Indicators: models.Indicators{HasInteractive: true}}))
	assert.Equal(t, 20, InteractivityScore(models.DiscoveredResource{SourceType: models.SourceTypeBook}))
}

func TestScoreSetsAllFields(t *testing.T) {
	r := models.DiscoveredResource{
		URL:         "https://www.youtube.com/watch?v=aircAruvnKk",
		Title:       "But what is a neural network?",
		Description: "Taught by a university lecturer",
		Author:      "3Blue1Brown",
		SourceType:  models.SourceTypeVideo,
		Indicators:  models.Indicators{HasImage: true, HasVideo: true},
	}
	NewScorer().Score(&r, evalTime)

	assert.Equal(t, 85, r.AuthorityScore)
	assert.Equal(t, 90, r.VisualRichness)
	assert.Equal(t, 65, r.EngagementScore)
	assert.Equal(t, 50, r.FreshnessScore)
	assert.Equal(t, 50, r.InteractivityScore)
	assert.Equal(t, models.QualityHigh, r.CompositeQuality)
	assert.InDelta(t, 79.5, r.RankingScore, 1e-9)
}

func TestRankingScoreDiffersFromLabelBlend(t *testing.T) {
	r := models.DiscoveredResource{AuthorityScore: 90, VisualRichness: 60, EngagementScore: 40, FreshnessScore: 50}
	assert.InDelta(t, 64.0, RankingScore(r), 1e-9)
	assert.Equal(t, models.QualityMedium, models.CompositeLabel(90, 60))
}
