package services

import (
	"html"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"resource-curator/models"
	"resource-curator/providers"
)

const maxDescriptionRunes = 500

var (
	tagRE           = regexp.MustCompile(`<[^>]*>`)
	isoDurationRE   = regexp.MustCompile(`^P(?:T)?(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)
	clockDurationRE = regexp.MustCompile(`^(?:(\d+):)?(\d{1,2}):(\d{2})$`)
	textDurationRE  = regexp.MustCompile(`(\d+)\s*(h|hr|hrs|hour|hours|m|min|mins|minute|minutes)\b`)

	trackingParams = []string{"utm_", "fbclid", "gclid", "mc_cid", "mc_eid"}

	dateLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		time.RFC1123Z,
		time.RFC1123,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"2006-01",
		"2006",
		"Jan 2, 2006",
		"January 2, 2006",
		"2 Jan 2006",
	}
)

// NormalizeHook passt das Ergebnis für eine bestimmte Quelle an.
type NormalizeHook func(item providers.RawItem, res *models.DiscoveredResource)

// Normalizer übersetzt Rohtreffer in DiscoveredResource. Unbrauchbare Treffer werden verworfen.
type Normalizer struct {
	logger *zap.Logger
	hooks  map[string]NormalizeHook
}

// NewNormalizer erstellt einen Normalizer mit den eingebauten quellspezifischen Hooks.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{
		logger: logger,
		hooks: map[string]NormalizeHook{
			"youtube": youtubeHook,
			"arxiv":   arxivHook,
		},
	}
}

// WithHook registriert einen Hook für eine Quelle.
func (n *Normalizer) WithHook(source string, hook NormalizeHook) *Normalizer {
	n.hooks[source] = hook
	return n
}

// Normalize liefert false, wenn dem Treffer ein Titel oder eine auflösbare absolute URL fehlt.
func (n *Normalizer) Normalize(desc providers.Descriptor, item providers.RawItem) (models.DiscoveredResource, bool) {
	title := cleanText(item.Title)
	if title == "" {
		return models.DiscoveredResource{}, false
	}
	resolved, ok := ResolveURL(desc.Endpoint, item.URL)
	if !ok {
		return models.DiscoveredResource{}, false
	}
	canonical, ok := CanonicalURL(resolved)
	if !ok {
		return models.DiscoveredResource{}, false
	}

	res := models.DiscoveredResource{
		URL:         canonical,
		Title:       title,
		Description: truncateRunes(cleanText(item.Description), maxDescriptionRunes),
		SourceName:  desc.Name,
		Author:      cleanText(item.Author),
		PublishDate: ParsePublishDate(item.Published),
	}
	if img, ok := ResolveURL(desc.Endpoint, item.ImageURL); ok {
		res.ImageURL = img
	}

	res.SourceType = desc.DeclaredType
	if res.SourceType == "" {
		res.SourceType = InferSourceType(canonical)
	}

	res.Indicators = detectIndicators(item, res.SourceType)
	res.Indicators.Tier = desc.Tier

	if hook, ok := n.hooks[desc.Name]; ok {
		hook(item, &res)
	}

	res.EstimatedTimeMinutes = estimateMinutes(item.Duration, res.SourceType)
	res.DifficultyLevel = InferDifficulty(res.Title + " " + res.Description)
	res.LearningStyleFit = learningStyleFit(res.SourceType, res.Indicators)
	return res, true
}

// ResolveURL löst relative URLs gegen den Endpunkt der Quelle auf. Nur http(s) mit Host gilt als absolut.
func ResolveURL(base, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if !ref.IsAbs() {
		b, err := url.Parse(base)
		if err != nil || b.Host == "" {
			return "", false
		}
		ref = b.ResolveReference(ref)
	}
	if (ref.Scheme != "http" && ref.Scheme != "https") || ref.Host == "" {
		return "", false
	}
	return ref.String(), true
}

// CanonicalURL liefert den Identitätsschlüssel einer Ressource: Schema und Host klein, ohne
// Fragment, Standard-Port, Tracking-Parameter und abschließenden Slash.
func CanonicalURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", false
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	u.Host = host
	if port != "" {
		u.Host = host + ":" + port
	}

	canonical := u.Scheme + "://" + u.Host + strings.TrimRight(u.EscapedPath(), "/")
	if query := stripTrackingParams(u.RawQuery); query != "" {
		canonical += "?" + query
	}
	return canonical, true
}

// stripTrackingParams entfernt Tracking-Parameter aus der rohen Query. Alle übrigen Paare
// bleiben in Reihenfolge und Kodierung unverändert.
func stripTrackingParams(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	pairs := strings.Split(rawQuery, "&")
	kept := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		if !isTrackingParam(pair) {
			kept = append(kept, pair)
		}
	}
	if len(kept) == len(pairs) {
		return rawQuery
	}
	return strings.Join(kept, "&")
}

func isTrackingParam(pair string) bool {
	key, _, _ := strings.Cut(pair, "=")
	if decoded, err := url.QueryUnescape(key); err == nil {
		key = decoded
	}
	key = strings.ToLower(key)
	for _, prefix := range trackingParams {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// InferSourceType rät den Typ anhand von Host und Pfad; ohne Treffer ist es ein Artikel.
func InferSourceType(rawURL string) models.SourceType {
	u, err := url.Parse(rawURL)
	if err != nil {
		return models.SourceTypeArticle
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	path := strings.ToLower(u.Path)

	switch {
	case hostIn(host, "youtube.com", "youtu.be", "vimeo.com", "dailymotion.com") ||
		strings.Contains(path, "/watch") || strings.Contains(path, "/video") || strings.HasPrefix(path, "/talks/"):
		return models.SourceTypeVideo
	case hostIn(host, "phet.colorado.edu", "codepen.io", "observablehq.com", "jsfiddle.net", "replit.com", "desmos.com", "geogebra.org") ||
		containsAny(path, "/exercise", "/simulation", "/playground", "/interactive", "/sandbox", "/quiz", "/e/"):
		return models.SourceTypeInteractive
	case hostIn(host, "coursera.org", "edx.org", "udemy.com", "udacity.com", "ocw.mit.edu") ||
		containsAny(path, "/course", "/learn/", "/specializations/", "/lecture"):
		return models.SourceTypeCourse
	case hostIn(host, "openlibrary.org", "books.google.com", "oreilly.com", "manning.com") ||
		containsAny(path, "/books/", "/book/", "/isbn/"):
		return models.SourceTypeBook
	default:
		return models.SourceTypeArticle
	}
}

// InferDifficulty liest die Schwierigkeit aus Schlüsselwörtern in Titel und Beschreibung.
func InferDifficulty(text string) models.Difficulty {
	t := " " + strings.ToLower(text) + " "
	switch {
	case containsAny(t, "advanced", "deep dive", "research", "graduate", "in-depth", "in depth", "expert", "rigorous"):
		return models.DifficultyAdvanced
	case containsAny(t, "beginner", "introduction", "intro ", "intro to", "basics", "getting started", " 101", "fundamentals", "what is", "for dummies", "explained"):
		return models.DifficultyBeginner
	default:
		return models.DifficultyIntermediate
	}
}

// ParsePublishDate versucht die gängigen Datumsformate der Quellen; unbekannt ergibt nil.
func ParsePublishDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}

// estimateMinutes liest eine Dauerangabe oder fällt auf typabhängige Standardwerte zurück.
func estimateMinutes(duration string, t models.SourceType) int {
	if m := parseDurationMinutes(duration); m > 0 {
		return m
	}
	switch t {
	case models.SourceTypeVideo:
		return 10
	case models.SourceTypeInteractive:
		return 20
	case models.SourceTypeCourse:
		return 120
	case models.SourceTypeBook:
		return 300
	default:
		return 8
	}
}

func parseDurationMinutes(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	seconds := 0
	if m := isoDurationRE.FindStringSubmatch(strings.ToUpper(s)); m != nil {
		seconds = atoi(m[1])*3600 + atoi(m[2])*60 + atoi(m[3])
	} else if m := clockDurationRE.FindStringSubmatch(s); m != nil {
		seconds = atoi(m[1])*3600 + atoi(m[2])*60 + atoi(m[3])
	} else {
		for _, m := range textDurationRE.FindAllStringSubmatch(strings.ToLower(s), -1) {
			if strings.HasPrefix(m[2], "h") {
				seconds += atoi(m[1]) * 3600
			} else {
				seconds += atoi(m[1]) * 60
			}
		}
	}
	if seconds <= 0 {
		return 0
	}
	return (seconds + 59) / 60
}

func detectIndicators(item providers.RawItem, t models.SourceType) models.Indicators {
	c := item.Content
	return models.Indicators{
		HasImage:       item.ImageURL != "" || containsAny(c, "<img", "thumbnail"),
		HasDiagram:     containsAny(c, "diagram", "<svg", "<figure", "infographic", "chart"),
		HasVideo:       t == models.SourceTypeVideo || containsAny(c, "<video", "<iframe", "youtube.com/embed", "player.vimeo.com"),
		HasInteractive: t == models.SourceTypeInteractive || containsAny(c, "<canvas", "<input", "interactive", "simulation", "exercise", "quiz"),
		Views:          item.Views,
		Content:        c,
	}
}

func learningStyleFit(t models.SourceType, ind models.Indicators) models.LearningStyleFit {
	var fit models.LearningStyleFit
	switch t {
	case models.SourceTypeVideo:
		fit = models.LearningStyleFit{Visual: 85, Auditory: 80, Reading: 30, Kinesthetic: 30}
	case models.SourceTypeInteractive:
		fit = models.LearningStyleFit{Visual: 70, Auditory: 20, Reading: 30, Kinesthetic: 95}
	case models.SourceTypeCourse:
		fit = models.LearningStyleFit{Visual: 70, Auditory: 70, Reading: 70, Kinesthetic: 60}
	case models.SourceTypeBook:
		fit = models.LearningStyleFit{Visual: 20, Auditory: 10, Reading: 95, Kinesthetic: 15}
	default:
		fit = models.LearningStyleFit{Visual: 40, Auditory: 10, Reading: 90, Kinesthetic: 20}
	}
	if ind.HasDiagram || ind.HasImage {
		fit.Visual = clamp(fit.Visual + 10)
	}
	return fit
}

func youtubeHook(_ providers.RawItem, res *models.DiscoveredResource) {
	res.SourceType = models.SourceTypeVideo
	res.Indicators.HasVideo = true
	if res.ImageURL == "" {
		if u, err := url.Parse(res.URL); err == nil {
			if id := u.Query().Get("v"); id != "" {
				res.ImageURL = "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg"
				res.Indicators.HasImage = true
			}
		}
	}
}

func arxivHook(_ providers.RawItem, res *models.DiscoveredResource) {
	if strings.HasPrefix(res.URL, "http://") {
		res.URL = "https://" + strings.TrimPrefix(res.URL, "http://")
	}
}

// cleanText entfernt Markup und normalisiert Unicode und Leerraum auf eine Zeile.
func cleanText(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(tagRE.ReplaceAllString(s, " "))
	s = normalizeUnicodeAndLigatures(s)
	return strings.Join(strings.Fields(s), " ")
}

// normalizeUnicodeAndLigatures führt NFC-Normalisierung durch und ersetzt gängige Ligaturen
func normalizeUnicodeAndLigatures(s string) string {
	replacer := strings.NewReplacer(
		"ﬁ", "fi",
		"ﬂ", "fl",
		"ﬀ", "ff",
		"ﬃ", "ffi",
		"ﬄ", "ffl",
		"\u00a0", " ",
	)
	s = replacer.Replace(s)
	normalized, _, _ := transform.String(norm.NFC, s)
	return normalized
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max])) + "…"
}

func hostIn(host string, domains ...string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
