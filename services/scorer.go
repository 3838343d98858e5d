package services

import (
	"math"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"resource-curator/models"
)

// Reputationsstufen für die Autorität. Subdomains zählen zur Domain.
var (
	tierOneDomains = []string{
		"mit.edu", "stanford.edu", "harvard.edu", "berkeley.edu", "cmu.edu", "ox.ac.uk", "cam.ac.uk",
		"khanacademy.org", "arxiv.org", "europepmc.org", "ncbi.nlm.nih.gov", "nature.com", "science.org",
		"edx.org", "acm.org", "ieee.org",
	}
	tierTwoDomains = []string{
		"youtube.com", "youtu.be", "wikipedia.org", "coursera.org", "udemy.com", "openlibrary.org",
		"freecodecamp.org", "developer.mozilla.org", "medium.com", "towardsdatascience.com",
		"geeksforgeeks.org", "w3schools.com", "brilliant.org", "3blue1brown.com", "distill.pub",
	}

	authorityIndicators = []string{
		"peer-reviewed", "peer reviewed", "university", ".edu", "professor", "official documentation",
		"published in", "phd", "journal",
	}
	howToPhrases = []string{"how to", "guide", "tutorial"}
)

const (
	maxAuthorityIndicators = 3
	unknownFreshness       = 50
)

// Scorer berechnet die Teilwerte eines Kandidaten. Er ist zustandslos und deterministisch;
// die einzige Zeitabhängigkeit ist der explizit übergebene Bewertungszeitpunkt.
type Scorer struct{}

// NewScorer erstellt einen Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score setzt alle Teilwerte, das Qualitätslabel und den Ranking-Score.
func (s *Scorer) Score(r *models.DiscoveredResource, now time.Time) {
	r.AuthorityScore = AuthorityScore(*r)
	r.VisualRichness = VisualRichness(*r)
	r.EngagementScore = EngagementScore(*r, r.VisualRichness)
	r.FreshnessScore = FreshnessScore(r.PublishDate, now)
	r.InteractivityScore = InteractivityScore(*r)
	r.CompositeQuality = models.CompositeLabel(r.AuthorityScore, r.VisualRichness)
	r.RankingScore = RankingScore(*r)
}

// ReputationTier liefert 1 (Top-Domains), 2 (bekannte Plattformen) oder 3. Die Stufe der Quelle
// gilt, wenn sie besser ist als die der Domain.
func ReputationTier(rawURL string, sourceTier int) int {
	tier := 3
	if u, err := url.Parse(rawURL); err == nil {
		host := strings.ToLower(u.Hostname())
		switch {
		case hostIn(host, tierOneDomains...) || strings.HasSuffix(host, ".edu"):
			tier = 1
		case hostIn(host, tierTwoDomains...):
			tier = 2
		}
	}
	if sourceTier >= 1 && sourceTier < tier {
		tier = sourceTier
	}
	return tier
}

// AuthorityScore: Basis nach Reputationsstufe, +5 für einen Autor, +5 je Autoritätsmerkmal (max. 3).
func AuthorityScore(r models.DiscoveredResource) int {
	var score int
	switch ReputationTier(r.URL, r.Indicators.Tier) {
	case 1:
		score = 90
	case 2:
		score = 75
	default:
		score = 50
	}
	if strings.TrimSpace(r.Author) != "" {
		score += 5
	}
	text := r.Indicators.Content + " " + strings.ToLower(r.Description)
	matched := 0
	for _, ind := range authorityIndicators {
		if matched == maxAuthorityIndicators {
			break
		}
		if strings.Contains(text, ind) {
			matched++
		}
	}
	return clamp(score + 5*matched)
}

// VisualRichness: Basis 50, +10 je visuellem Merkmal, plus fester Bonus nach Typ.
func VisualRichness(r models.DiscoveredResource) int {
	score := 50
	for _, present := range []bool{r.Indicators.HasImage, r.Indicators.HasDiagram, r.Indicators.HasVideo} {
		if present {
			score += 10
		}
	}
	switch r.SourceType {
	case models.SourceTypeInteractive:
		score += 25
	case models.SourceTypeVideo:
		score += 20
	case models.SourceTypeCourse:
		score += 15
	default:
		score += 10
	}
	return clamp(score)
}

// EngagementScore: halbe visuelle Qualität plus kleine Boni für Titel, Beschreibung und Reichweite.
func EngagementScore(r models.DiscoveredResource, visual int) int {
	score := int(math.Round(0.5 * float64(visual)))
	title := strings.ToLower(r.Title)
	if strings.Contains(title, "?") {
		score += 10
	}
	if containsAny(title, howToPhrases...) {
		score += 10
	}
	if n := utf8.RuneCountInString(r.Title); n >= 20 && n <= 80 {
		score += 10
	}
	if utf8.RuneCountInString(r.Description) >= 100 {
		score += 10
	}
	switch {
	case r.Indicators.Views >= 1_000_000:
		score += 10
	case r.Indicators.Views >= 100_000:
		score += 5
	}
	return clamp(score)
}

// FreshnessScore ist eine Stufenfunktion des Alters in Tagen. Ohne Datum gilt 50,
// Daten in der Zukunft zählen als Alter 0.
func FreshnessScore(published *time.Time, now time.Time) int {
	if published == nil {
		return unknownFreshness
	}
	days := now.Sub(*published).Hours() / 24
	switch {
	case days < 30:
		return 100
	case days < 90:
		return 90
	case days < 180:
		return 80
	case days < 365:
		return 70
	case days < 730:
		return 60
	case days < 1095:
		return 50
	default:
		return 30
	}
}

// InteractivityScore: Basis nach Typ, +10 wenn interaktive Elemente erkannt wurden.
func InteractivityScore(r models.DiscoveredResource) int {
	var score int
	switch r.SourceType {
	case models.SourceTypeInteractive:
		score = 90
	case models.SourceTypeCourse:
		score = 70
	case models.SourceTypeVideo:
		score = 50
	case models.SourceTypeBook:
		score = 20
	default:
		score = 30
	}
	if r.Indicators.HasInteractive {
		score += 10
	}
	return clamp(score)
}

// RankingScore gewichtet visuelle Qualität 40%, Autorität 30%, Engagement 20% und Aktualität 10%.
// Bewusst getrennt vom Qualitätslabel (models.CompositeLabel).
func RankingScore(r models.DiscoveredResource) float64 {
	raw := 0.4*float64(r.VisualRichness) +
		0.3*float64(r.AuthorityScore) +
		0.2*float64(r.EngagementScore) +
		0.1*float64(r.FreshnessScore)
	return math.Round(raw*100) / 100
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
