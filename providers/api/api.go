// Package api implementiert Quellen mit JSON-Such-APIs, deren Felder über gjson-Pfade gelesen werden.
package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"resource-curator/providers"
)

// Source fragt eine JSON-API ab.
type Source struct {
	desc      providers.Descriptor
	requester *providers.Requester
	Logger    *zap.Logger
}

// NewSource erstellt eine API-Quelle.
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

// Fetch ruft die API auf und liest die Treffer am konfigurierten Pfad.
func (s *Source) Fetch(ctx context.Context, query string) ([]providers.RawItem, error) {
	searchURL, err := providers.BuildQueryURL(s.desc, query)
	if err != nil {
		return nil, err
	}
	// Schlüssel nicht loggen
	s.Logger.Debug("Rufe Such-API auf", zap.String("template", s.desc.QueryTemplate))

	body, err := s.requester.Get(ctx, searchURL, "application/json")
	if err != nil {
		return nil, err
	}
	return Parse(s.desc.Rules, body)
}

// Parse wendet die Pfade auf eine JSON-Antwort an.
func Parse(rules providers.Rules, body []byte) ([]providers.RawItem, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid json payload")
	}
	list := gjson.GetBytes(body, rules.Items)
	if !list.IsArray() {
		return nil, fmt.Errorf("no result array at %q", rules.Items)
	}

	var items []providers.RawItem
	for _, entry := range list.Array() {
		item := providers.RawItem{
			Title:       field(entry, rules.Title),
			URL:         field(entry, rules.URL),
			Description: field(entry, rules.Description),
			ImageURL:    field(entry, rules.Image),
			Author:      field(entry, rules.Author),
			Published:   field(entry, rules.Published),
			Duration:    field(entry, rules.Duration),
			Content:     strings.ToLower(entry.Raw),
		}
		if rules.Views != "" {
			v := entry.Get(rules.Views)
			if v.Type == gjson.Number {
				item.Views = v.Int()
			} else {
				item.Views = providers.ParseCount(v.String())
			}
		}
		if rules.URLTemplate != "" {
			item.URL = providers.ExpandURLTemplate(rules.URLTemplate, item.URL)
		}
		items = append(items, item)
	}
	return items, nil
}

func field(entry gjson.Result, path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimSpace(entry.Get(path).String())
}
