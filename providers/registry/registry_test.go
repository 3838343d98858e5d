package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resource-curator/providers"
)

func TestNewBuildsVariantsInOrder(t *testing.T) {
	reg, err := New(providers.DefaultDescriptors(), Options{
		Credentials: map[string]string{"youtube": "key"},
	}, zap.NewNop())
	require.NoError(t, err)

	names := reg.Names()
	require.NotEmpty(t, names)
	assert.Equal(t, "youtube", names[0])

	src, ok := reg.Lookup("youtube")
	require.True(t, ok)
	assert.Equal(t, "key", src.Descriptor().Credential)
}

func TestNewSkipsSourcesWithoutCredential(t *testing.T) {
	reg, err := New(providers.DefaultDescriptors(), Options{}, zap.NewNop())
	require.NoError(t, err)
	_, ok := reg.Lookup("youtube")
	assert.False(t, ok)
}

func TestNewFiltersEnabled(t *testing.T) {
	reg, err := New(providers.DefaultDescriptors(), Options{Enabled: []string{"wikipedia", "arxiv", "nope"}}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"wikipedia", "arxiv"}, reg.Names())
}

func TestNewRejectsInvalidRegistries(t *testing.T) {
	descs := providers.DefaultDescriptors()
	_, err := New(append(descs, descs[1]), Options{}, zap.NewNop())
	assert.ErrorContains(t, err, "duplicate")

	_, err = New(descs, Options{Enabled: []string{"nope"}}, zap.NewNop())
	assert.ErrorContains(t, err, "no valid sources")
}

func TestSourcesReturnsCopy(t *testing.T) {
	reg, err := New(providers.DefaultDescriptors(), Options{Enabled: []string{"wikipedia"}}, zap.NewNop())
	require.NoError(t, err)
	list := reg.Sources()
	list[0] = nil
	assert.NotNil(t, reg.Sources()[0])
}
