package filter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestEmptyFilterMatchesEverything(t *testing.T) {
	t.Parallel()

	f, err := New(nil)
	require.NoError(t, err)
	require.True(t, f.Matches(parse(t, "https://example.com/anything")))
}

func TestFilterOrSemantics(t *testing.T) {
	t.Parallel()

	f, err := New([]string{`\.pdf$`, `\.zip$`})
	require.NoError(t, err)

	require.True(t, f.Matches(parse(t, "https://example.com/a.pdf")))
	require.True(t, f.Matches(parse(t, "https://example.com/b.zip")))
	require.False(t, f.Matches(parse(t, "https://example.com/b.html")))
}

func TestFilterInvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := New([]string{`[`})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid filter pattern")
}
