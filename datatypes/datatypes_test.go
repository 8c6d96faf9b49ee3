package datatypes_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zefrenchwan/topicmaps.git/datatypes"
	"github.com/zefrenchwan/topicmaps.git/locators"
)

func TestLiteralEquality(t *testing.T) {
	a := datatypes.NewStringLiteral("42")
	b := datatypes.NewIntLiteral(42)
	assert.False(t, a.IsSameAs(b), "same value, different datatype")
	assert.True(t, b.IsSameAs(datatypes.Literal{Value: "42", Datatype: datatypes.XSD_INT}))
}

func TestLiteralCoercion(t *testing.T) {
	value, err := datatypes.NewIntLiteral(-7).IntValue()
	require.NoError(t, err)
	assert.Equal(t, int32(-7), value)

	long, err := datatypes.NewLongLiteral(1 << 40).LongValue()
	require.NoError(t, err)
	assert.Equal(t, int64(1<<40), long)

	float, err := datatypes.NewFloatLiteral(1.5).FloatValue()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), float)

	decimal, err := datatypes.NewDecimalLiteral(big.NewFloat(12.25))
	require.NoError(t, err)
	parsed, err := decimal.DecimalValue()
	require.NoError(t, err)
	assert.Equal(t, 0, parsed.Cmp(big.NewFloat(12.25)))

	_, err = datatypes.NewStringLiteral("not a number").IntValue()
	assert.Error(t, err)
}

func TestLocatorLiteral(t *testing.T) {
	loc := locators.MustLocator("http://example.org/resource")
	literal := datatypes.NewLocatorLiteral(loc)
	assert.Equal(t, datatypes.XSD_ANY_URI, literal.Datatype)

	back, err := literal.LocatorValue()
	require.NoError(t, err)
	assert.Equal(t, loc, back)

	_, err = datatypes.NewLiteral("x", locators.Locator{})
	assert.Error(t, err)
}
