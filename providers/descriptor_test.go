package providers

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-curator/models"
)

func TestDefaultDescriptorsAreValid(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range DefaultDescriptors() {
		assert.NoError(t, d.Validate(), d.Name)
		assert.False(t, seen[d.Name], "duplicate %s", d.Name)
		seen[d.Name] = true
	}
}

func TestValidate(t *testing.T) {
	base := Descriptor{
		Name:          "docs",
		Kind:          KindAPI,
		Endpoint:      "https://docs.example.org",
		QueryTemplate: "https://docs.example.org/search?q={query}",
		Rules:         Rules{Items: "results", Title: "title", URL: "link"},
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Descriptor)
	}{
		{"no name", func(d *Descriptor) { d.Name = " " }},
		{"unknown kind", func(d *Descriptor) { d.Kind = "ftp" }},
		{"missing rules", func(d *Descriptor) { d.Rules.Items = "" }},
		{"bad endpoint", func(d *Descriptor) { d.Endpoint = "not a url" }},
		{"no placeholder", func(d *Descriptor) { d.QueryTemplate = "https://docs.example.org/search" }},
		{"bad declared type", func(d *Descriptor) { d.DeclaredType = "podcast" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base
			tt.mutate(&d)
			assert.Error(t, d.Validate())
		})
	}
}

func TestBuildQueryURL(t *testing.T) {
	d := Descriptor{
		Name:            "youtube",
		QueryTemplate:   "https://api.example.com/search?part=snippet&q={query}",
		CredentialParam: "key",
		Credential:      "abc",
	}
	got, err := BuildQueryURL(d, "Neural Networks & more")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/search?key=abc&part=snippet&q=Neural+Networks+%26+more", got)

	d.Credential = ""
	got, err = BuildQueryURL(d, "graphs")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/search?part=snippet&q=graphs", got)
}

func TestExpandURLTemplate(t *testing.T) {
	assert.Equal(t, "https://en.wikipedia.org/wiki/Neural_network", ExpandURLTemplate("https://en.wikipedia.org/wiki/{value}", "Neural network"))
	assert.Equal(t, "https://openlibrary.org/works/OL1W", ExpandURLTemplate("https://openlibrary.org{value}", "/works/OL1W"))
	assert.Equal(t, "", ExpandURLTemplate("https://x/{value}", ""))
	assert.Equal(t, "plain", ExpandURLTemplate("", "plain"))
}

func TestLoadDescriptors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	content := `sources:
  - name: mdn
    kind: scrape
    endpoint: https://developer.mozilla.org
    query_template: https://developer.mozilla.org/en-US/search?q={query}
    declared_type: article
    tier: 2
    rules:
      items: li.result
      title: h3
      url: a@href
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	descs, err := LoadDescriptors(path)
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, "mdn", descs[0].Name)
	assert.Equal(t, KindScrape, descs[0].Kind)
	assert.Equal(t, models.SourceTypeArticle, descs[0].DeclaredType)
	assert.Equal(t, "a@href", descs[0].Rules.URL)
	assert.NoError(t, descs[0].Validate())

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("sources: []\n"), 0o644))
	_, err = LoadDescriptors(empty)
	assert.Error(t, err)
}

func TestParseCount(t *testing.T) {
	tests := map[string]int64{
		"":                0,
		"1,234 views":     1234,
		"1.2M":            1200000,
		"15K views":       15000,
		"views":           0,
		"3b":              3000000000,
		"99999999999999b": math.MaxInt64,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseCount(in), in)
	}
}
