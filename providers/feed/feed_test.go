package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const atomPayload = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>arXiv Query</title>
  <entry>
    <title>Deep Residual Learning</title>
    <link href="http://arxiv.org/abs/1512.03385v1"/>
    <published>2015-12-10T19:51:55Z</published>
    <summary>We present a residual learning framework.</summary>
    <author><name>Kaiming He</name></author>
  </entry>
</feed>`

func TestParseAtom(t *testing.T) {
	items, err := Parse([]byte(atomPayload))
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "Deep Residual Learning", items[0].Title)
	assert.Equal(t, "http://arxiv.org/abs/1512.03385v1", items[0].URL)
	assert.Equal(t, "Kaiming He", items[0].Author)
	assert.Equal(t, "2015-12-10T19:51:55Z", items[0].Published)
	assert.Contains(t, items[0].Content, "residual learning")
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte("not a feed"))
	assert.Error(t, err)
}
