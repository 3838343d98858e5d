package providers

import "context"

// Source ist eine einzelne Discovery-Quelle. Jede Quelle liefert Rohtreffer in ihrer eigenen
// Reihenfolge; die Übersetzung in DiscoveredResource erfolgt erst im Normalizer.
type Source interface {
	Name() string
	Descriptor() Descriptor
	Fetch(ctx context.Context, query string) ([]RawItem, error)
}

// RawItem ist ein Treffer, wie ihn eine Quelle liefert, noch ohne Auflösung oder Bewertung.
type RawItem struct {
	Title       string
	URL         string
	Description string
	ImageURL    string
	Author      string
	Published   string
	Duration    string
	Views       int64

	// Content enthält das rohe HTML- bzw. JSON-Fragment des Treffers für die Indikator-Erkennung.
	Content string
}
