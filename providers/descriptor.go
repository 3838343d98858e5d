package providers

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"resource-curator/models"
)

// Kind unterscheidet, wie eine Quelle abgefragt und geparst wird.
type Kind string

const (
	KindScrape Kind = "scrape"
	KindAPI    Kind = "api"
	KindFeed   Kind = "feed"
)

// Rules beschreiben, wo die Felder eines Treffers stehen. Für scrape sind es CSS-Selektoren
// (optional mit "@attr"), für api gjson-Pfade relativ zum Treffer. feed braucht keine Regeln.
type Rules struct {
	Items       string `yaml:"items"`
	Title       string `yaml:"title"`
	URL         string `yaml:"url"`
	URLTemplate string `yaml:"url_template"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Author      string `yaml:"author"`
	Published   string `yaml:"published"`
	Duration    string `yaml:"duration"`
	Views       string `yaml:"views"`
}

// Descriptor beschreibt eine Quelle. Zur Laufzeit unveränderlich.
type Descriptor struct {
	Name            string            `yaml:"name"`
	Kind            Kind              `yaml:"kind"`
	Endpoint        string            `yaml:"endpoint"`
	QueryTemplate   string            `yaml:"query_template"`
	DeclaredType    models.SourceType `yaml:"declared_type"`
	Tier            int               `yaml:"tier"`
	Rules           Rules             `yaml:"rules"`
	CredentialParam string            `yaml:"credential_param"`
	Credential      string            `yaml:"-"`
}

// Validate prüft die Pflichtfelder.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("source without name")
	}
	switch d.Kind {
	case KindScrape, KindAPI:
		if d.Rules.Items == "" || d.Rules.Title == "" || d.Rules.URL == "" {
			return fmt.Errorf("source %s: items, title and url rules are required", d.Name)
		}
	case KindFeed:
	default:
		return fmt.Errorf("source %s: unknown kind %q", d.Name, d.Kind)
	}
	if _, err := url.ParseRequestURI(d.Endpoint); err != nil {
		return fmt.Errorf("source %s: invalid endpoint: %w", d.Name, err)
	}
	if !strings.Contains(d.QueryTemplate, "{query}") {
		return fmt.Errorf("source %s: query template needs a {query} placeholder", d.Name)
	}
	if d.DeclaredType != "" && !d.DeclaredType.Valid() {
		return fmt.Errorf("source %s: unknown declared type %q", d.Name, d.DeclaredType)
	}
	return nil
}

// NeedsCredential meldet, ob die Quelle ohne Schlüssel nicht nutzbar ist.
func (d Descriptor) NeedsCredential() bool {
	return d.CredentialParam != ""
}

// BuildQueryURL setzt den Suchbegriff in das Template ein und hängt ggf. den Schlüssel an.
func BuildQueryURL(d Descriptor, query string) (string, error) {
	raw := strings.ReplaceAll(d.QueryTemplate, "{query}", url.QueryEscape(query))
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("source %s: bad query url: %w", d.Name, err)
	}
	if d.CredentialParam != "" && d.Credential != "" {
		q := u.Query()
		q.Set(d.CredentialParam, d.Credential)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// ExpandURLTemplate baut aus einem extrahierten Wert (z.B. einer Video-ID) die Treffer-URL.
func ExpandURLTemplate(template, value string) string {
	if template == "" || value == "" {
		return value
	}
	escaped := (&url.URL{Path: strings.ReplaceAll(value, " ", "_")}).EscapedPath()
	return strings.ReplaceAll(template, "{value}", escaped)
}

type descriptorFile struct {
	Sources []Descriptor `yaml:"sources"`
}

// LoadDescriptors liest eine YAML-Datei mit Quellen und ersetzt damit die Standardliste.
func LoadDescriptors(path string) ([]Descriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sources file: %w", err)
	}
	var file descriptorFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing sources file: %w", err)
	}
	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("sources file %s defines no sources", path)
	}
	return file.Sources, nil
}

// DefaultDescriptors liefert die eingebauten Quellen in Registry-Reihenfolge.
func DefaultDescriptors() []Descriptor {
	return []Descriptor{
		{
			Name:          "youtube",
			Kind:          KindAPI,
			Endpoint:      "https://www.youtube.com",
			QueryTemplate: "https://www.googleapis.com/youtube/v3/search?part=snippet&type=video&maxResults=10&q={query}",
			DeclaredType:  models.SourceTypeVideo,
			Tier:          2,
			Rules: Rules{
				Items:       "items",
				Title:       "snippet.title",
				URL:         "id.videoId",
				URLTemplate: "https://www.youtube.com/watch?v={value}",
				Description: "snippet.description",
				Image:       "snippet.thumbnails.high.url",
				Author:      "snippet.channelTitle",
				Published:   "snippet.publishedAt",
			},
			CredentialParam: "key",
		},
		{
			Name:          "khan-academy",
			Kind:          KindScrape,
			Endpoint:      "https://www.khanacademy.org",
			QueryTemplate: "https://www.khanacademy.org/search?page_search_query={query}",
			Tier:          1,
			Rules: Rules{
				Items:       "[data-test-id='search-result'], li.search-result",
				Title:       "h3, .title",
				URL:         "a@href",
				Description: "p, .description",
				Image:       "img@src",
			},
		},
		{
			Name:          "wikipedia",
			Kind:          KindAPI,
			Endpoint:      "https://en.wikipedia.org",
			QueryTemplate: "https://en.wikipedia.org/w/api.php?action=query&list=search&format=json&srlimit=10&srsearch={query}",
			DeclaredType:  models.SourceTypeArticle,
			Tier:          2,
			Rules: Rules{
				Items:       "query.search",
				Title:       "title",
				URL:         "title",
				URLTemplate: "https://en.wikipedia.org/wiki/{value}",
				Description: "snippet",
				Published:   "timestamp",
			},
		},
		{
			Name:          "mit-ocw",
			Kind:          KindScrape,
			Endpoint:      "https://ocw.mit.edu",
			QueryTemplate: "https://ocw.mit.edu/search/?q={query}",
			DeclaredType:  models.SourceTypeCourse,
			Tier:          1,
			Rules: Rules{
				Items:       "article.course-card, div.search-result",
				Title:       "h3, .course-title",
				URL:         "a@href",
				Description: ".course-description, p",
				Image:       "img@src",
				Author:      ".instructor",
			},
		},
		{
			Name:          "coursera",
			Kind:          KindScrape,
			Endpoint:      "https://www.coursera.org",
			QueryTemplate: "https://www.coursera.org/search?query={query}",
			DeclaredType:  models.SourceTypeCourse,
			Tier:          2,
			Rules: Rules{
				Items:       "[data-testid='product-card-cds'], li.ais-InfiniteHits-item",
				Title:       "h3",
				URL:         "a@href",
				Description: ".cds-CommonCard-bodyContent, p",
				Image:       "img@src",
				Author:      ".cds-CommonCard-partnerNames, .partner-name",
			},
		},
		{
			Name:          "europepmc",
			Kind:          KindAPI,
			Endpoint:      "https://europepmc.org",
			QueryTemplate: "https://www.ebi.ac.uk/europepmc/webservices/rest/search?format=json&resultType=lite&pageSize=10&query={query}",
			DeclaredType:  models.SourceTypeArticle,
			Tier:          1,
			Rules: Rules{
				Items:       "resultList.result",
				Title:       "title",
				URL:         "pmid",
				URLTemplate: "https://europepmc.org/article/MED/{value}",
				Author:      "authorString",
				Published:   "firstPublicationDate",
			},
		},
		{
			Name:          "arxiv",
			Kind:          KindFeed,
			Endpoint:      "https://arxiv.org",
			QueryTemplate: "https://export.arxiv.org/api/query?max_results=10&search_query=all:{query}",
			DeclaredType:  models.SourceTypeArticle,
			Tier:          1,
		},
		{
			Name:          "openlibrary",
			Kind:          KindAPI,
			Endpoint:      "https://openlibrary.org",
			QueryTemplate: "https://openlibrary.org/search.json?limit=10&q={query}",
			DeclaredType:  models.SourceTypeBook,
			Tier:          2,
			Rules: Rules{
				Items:       "docs",
				Title:       "title",
				URL:         "key",
				URLTemplate: "https://openlibrary.org{value}",
				Author:      "author_name.0",
				Published:   "first_publish_year",
			},
		},
	}
}
