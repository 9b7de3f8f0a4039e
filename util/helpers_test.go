package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"nan", ""},
		{" NaN ", ""},
		{"None", ""},
		{"null", ""},
		{"N/A", ""},
		{"  Fairfax ", "Fairfax"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanValue(tt.input))
		})
	}
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, Missing, DisplayOrMissing("nan"))
	assert.Equal(t, "555-1234", DisplayOrMissing("555-1234"))
	assert.Equal(t, "Organization", DisplayOr("", "Organization"))
}

func TestWebsiteHref(t *testing.T) {
	href, ok := WebsiteHref("example.org")
	assert.True(t, ok)
	assert.Equal(t, "https://example.org", href)

	href, ok = WebsiteHref("http://example.org")
	assert.True(t, ok)
	assert.Equal(t, "http://example.org", href)

	_, ok = WebsiteHref("none")
	assert.False(t, ok)
}

func TestParseCoordinate(t *testing.T) {
	v := ParseCoordinate(" 38.85 ")
	require.NotNil(t, v)
	assert.InDelta(t, 38.85, *v, 1e-9)

	assert.Nil(t, ParseCoordinate("nan"))
	assert.Nil(t, ParseCoordinate("Inf"))
	assert.Nil(t, ParseCoordinate("abc"))
	assert.Nil(t, ParseCoordinate(""))
}

func TestNormalizeZipcode(t *testing.T) {
	assert.Equal(t, "22030", NormalizeZipcode("22030.0"))
	assert.Equal(t, "02139", NormalizeZipcode("02139"))
	assert.Equal(t, "22030-1234", NormalizeZipcode("22030-1234"))
	assert.Equal(t, "", NormalizeZipcode("nan"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b ,"))
	assert.Nil(t, SplitList(""))
}

func TestGetEnvDefault(t *testing.T) {
	t.Setenv("ORGMAP_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnvDefault("ORGMAP_TEST_VALUE", "default"))
	assert.Equal(t, "default", GetEnvDefault("ORGMAP_TEST_UNSET_VALUE", "default"))
}
