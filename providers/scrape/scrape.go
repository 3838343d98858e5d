// Package scrape implementiert Quellen, deren Treffer per CSS-Selektor aus HTML-Seiten gelesen werden.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"resource-curator/providers"
)

// Source liest Suchergebnisse aus einer HTML-Seite.
type Source struct {
	desc      providers.Descriptor
	requester *providers.Requester
	Logger    *zap.Logger
}

// NewSource erstellt eine Scrape-Quelle.
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

// Fetch lädt die Suchseite und extrahiert pro Treffer-Knoten die konfigurierten Felder.
func (s *Source) Fetch(ctx context.Context, query string) ([]providers.RawItem, error) {
	searchURL, err := providers.BuildQueryURL(s.desc, query)
	if err != nil {
		return nil, err
	}
	s.Logger.Debug("Rufe Suchseite auf", zap.String("url", searchURL))

	body, err := s.requester.Get(ctx, searchURL, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, err
	}
	return Parse(s.desc.Rules, body)
}

// Parse wendet die Regeln auf ein HTML-Dokument an.
func Parse(rules providers.Rules, body []byte) ([]providers.RawItem, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	var items []providers.RawItem
	doc.Find(rules.Items).Each(func(_ int, node *goquery.Selection) {
		html, _ := goquery.OuterHtml(node)
		item := providers.RawItem{
			Title:       extract(node, rules.Title),
			URL:         extract(node, rules.URL),
			Description: extract(node, rules.Description),
			ImageURL:    extract(node, rules.Image),
			Author:      extract(node, rules.Author),
			Published:   extract(node, rules.Published),
			Duration:    extract(node, rules.Duration),
			Views:       providers.ParseCount(extract(node, rules.Views)),
			Content:     strings.ToLower(html),
		}
		if rules.URLTemplate != "" {
			item.URL = providers.ExpandURLTemplate(rules.URLTemplate, item.URL)
		}
		items = append(items, item)
	})
	return items, nil
}

// extract liest Text oder Attribut. Regeln haben die Form "selector", "selector@attr" oder "@attr".
func extract(node *goquery.Selection, rule string) string {
	if rule == "" {
		return ""
	}
	selector, attr, hasAttr := strings.Cut(rule, "@")
	target := node
	if strings.TrimSpace(selector) != "" {
		target = node.Find(selector).First()
	}
	if target.Length() == 0 {
		return ""
	}
	if hasAttr {
		val, _ := target.Attr(attr)
		return strings.TrimSpace(val)
	}
	return strings.TrimSpace(target.Text())
}
