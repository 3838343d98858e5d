// Package feed implementiert Quellen, die RSS- oder Atom-Feeds als Suchergebnis liefern.
package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"resource-curator/providers"
)

// Source liest einen Such-Feed.
type Source struct {
	desc      providers.Descriptor
	requester *providers.Requester
	Logger    *zap.Logger
}

// NewSource erstellt eine Feed-Quelle.
func NewSource(desc providers.Descriptor, requester *providers.Requester, logger *zap.Logger) *Source {
	return &Source{desc: desc, requester: requester, Logger: logger}
}

// Name gibt den Namen der Quelle zurück.
func (s *Source) Name() string {
	return s.desc.Name
}

// Descriptor gibt die Beschreibung der Quelle zurück.
func (s *Source) Descriptor() providers.Descriptor {
	return s.desc
}

// Fetch lädt den Feed und wandelt jeden Eintrag in einen Rohtreffer um.
func (s *Source) Fetch(ctx context.Context, query string) ([]providers.RawItem, error) {
	feedURL, err := providers.BuildQueryURL(s.desc, query)
	if err != nil {
		return nil, err
	}
	s.Logger.Debug("Rufe Feed auf", zap.String("url", feedURL))

	body, err := s.requester.Get(ctx, feedURL, "application/atom+xml, application/rss+xml, application/xml")
	if err != nil {
		return nil, err
	}
	return Parse(body)
}

// Parse liest einen RSS/Atom-Feed.
func Parse(body []byte) ([]providers.RawItem, error) {
	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	items := make([]providers.RawItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		item := providers.RawItem{
			Title:       strings.TrimSpace(it.Title),
			URL:         strings.TrimSpace(it.Link),
			Description: strings.TrimSpace(it.Description),
			Published:   it.Published,
			Content:     strings.ToLower(it.Content + " " + it.Description),
		}
		if it.Image != nil {
			item.ImageURL = it.Image.URL
		}
		if it.Author != nil {
			item.Author = it.Author.Name
		} else if len(it.Authors) > 0 && it.Authors[0] != nil {
			item.Author = it.Authors[0].Name
		}
		if item.Published == "" {
			item.Published = it.Updated
		}
		items = append(items, item)
	}
	return items, nil
}
