package locators_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zefrenchwan/topicmaps.git/locators"
)

func TestNewLocatorAbsoluteOnly(t *testing.T) {
	loc, err := locators.NewLocator("http://sf.net/x")
	require.NoError(t, err)
	assert.Equal(t, "http://sf.net/x", loc.Reference())
	assert.False(t, loc.IsZero())

	_, err = locators.NewLocator("relative/path")
	assert.Error(t, err)

	_, err = locators.NewLocator("   ")
	assert.Error(t, err)
}

func TestLocatorEquality(t *testing.T) {
	a := locators.MustLocator("HTTP://Example.ORG/path")
	b := locators.MustLocator("http://example.org/path")
	assert.Equal(t, a, b)

	values := map[locators.Locator]int{a: 1}
	assert.Equal(t, 1, values[b])
}

func TestLocatorResolve(t *testing.T) {
	base := locators.MustLocator("http://example.org/maps/base")

	fragment, err := base.Resolve("#topic")
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/maps/base#topic", fragment.Reference())

	sibling, err := base.Resolve("other")
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/maps/other", sibling.Reference())

	absolute, err := base.Resolve("urn:x-test:value")
	require.NoError(t, err)
	assert.Equal(t, "urn:x-test:value", absolute.Reference())

	var zero locators.Locator
	_, err = zero.Resolve("#x")
	assert.Error(t, err)
}
