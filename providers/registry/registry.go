// Package registry baut aus Quellbeschreibungen einmalig die unveränderliche Liste der Discovery-Quellen.
package registry

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"resource-curator/providers"
	"resource-curator/providers/api"
	"resource-curator/providers/feed"
	"resource-curator/providers/scrape"
)

// Options steuern, welche Quellen aktiv sind und wie sie abfragen.
type Options struct {
	// Enabled begrenzt die aktiven Quellen; leer bedeutet alle.
	Enabled       []string
	Credentials   map[string]string
	RatePerSecond float64
	Client        *http.Client
}

// Registry hält die Quellen in fester Reihenfolge. Diese Reihenfolge ist die Discovery-Reihenfolge.
type Registry struct {
	sources []providers.Source
}

// New validiert die Beschreibungen und erzeugt pro Quelle die passende Variante.
func New(descs []providers.Descriptor, opts Options, logger *zap.Logger) (*Registry, error) {
	enabled := make(map[string]bool, len(opts.Enabled))
	for _, name := range opts.Enabled {
		enabled[name] = true
	}
	known := make(map[string]bool, len(descs))

	var sources []providers.Source
	for _, desc := range descs {
		if err := desc.Validate(); err != nil {
			return nil, err
		}
		if known[desc.Name] {
			return nil, fmt.Errorf("duplicate source name %q", desc.Name)
		}
		known[desc.Name] = true

		if len(enabled) > 0 && !enabled[desc.Name] {
			continue
		}
		if cred := opts.Credentials[desc.Name]; cred != "" {
			desc.Credential = cred
		}
		if desc.NeedsCredential() && desc.Credential == "" {
			logger.Warn("Source requires a credential, skipping", zap.String("source", desc.Name))
			continue
		}

		client := opts.Client
		if client == nil {
			client = http.DefaultClient
		}
		requester := providers.NewRequester(client, opts.RatePerSecond)
		log := logger.With(zap.String("source", desc.Name))

		switch desc.Kind {
		case providers.KindScrape:
			sources = append(sources, scrape.NewSource(desc, requester, log))
		case providers.KindAPI:
			sources = append(sources, api.NewSource(desc, requester, log))
		case providers.KindFeed:
			sources = append(sources, feed.NewSource(desc, requester, log))
		}
	}

	for name := range enabled {
		if !known[name] {
			logger.Warn("Unknown source in config", zap.String("source_name", name))
		}
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no valid sources enabled")
	}
	return &Registry{sources: sources}, nil
}

// FromSources erstellt eine Registry aus fertigen Quellen, z.B. für Tests.
func FromSources(sources ...providers.Source) *Registry {
	return &Registry{sources: append([]providers.Source(nil), sources...)}
}

// Sources liefert eine Kopie der Quellen in Registry-Reihenfolge.
func (r *Registry) Sources() []providers.Source {
	return append([]providers.Source(nil), r.sources...)
}

// Names liefert die Namen der Quellen in Registry-Reihenfolge.
func (r *Registry) Names() []string {
	names := make([]string, len(r.sources))
	for i, s := range r.sources {
		names[i] = s.Name()
	}
	return names
}

// Lookup sucht eine Quelle per Name.
func (r *Registry) Lookup(name string) (providers.Source, bool) {
	for _, s := range r.sources {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}
