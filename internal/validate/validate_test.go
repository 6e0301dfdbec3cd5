package validate

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func TestLimitAndOffset(t *testing.T) {
	n, err := Limit("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, n)

	n, err = Limit(" 25 ")
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	for _, bad := range []string{"0", "-3", "ten", "1.5"} {
		_, err = Limit(bad)
		require.ErrorIs(t, err, domain.ErrValidation, "limit %q", bad)
	}

	n, err = Offset("")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = Offset("10")
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	for _, bad := range []string{"-1", "x"} {
		_, err = Offset(bad)
		require.ErrorIs(t, err, domain.ErrValidation, "offset %q", bad)
	}
}

func TestProductFields(t *testing.T) {
	name, err := Name("Blue Shirt ")
	require.NoError(t, err)
	assert.Equal(t, "Blue Shirt ", name)

	_, err = Name("   ")
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "name", fe.Field)

	price := 0.0
	p, err := Price(&price)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p)

	_, err = Price(nil)
	require.ErrorIs(t, err, domain.ErrValidation)
	neg := -0.01
	_, err = Price(&neg)
	require.ErrorIs(t, err, domain.ErrValidation)
	nan := math.NaN()
	_, err = Price(&nan)
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = Sizes(nil, false)
	require.ErrorIs(t, err, domain.ErrValidation)
	sizes, err := Sizes([]domain.Size{}, true)
	require.NoError(t, err)
	assert.Empty(t, sizes)
	_, err = Sizes([]domain.Size{{Size: "M", Quantity: 1}, {Size: "L", Quantity: -1}}, true)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "sizes[1].quantity", fe.Field)
}

func TestOrderFields(t *testing.T) {
	uid, err := UserID(" u1 ", true)
	require.NoError(t, err)
	assert.Equal(t, " u1 ", uid)
	uid, err = UserID("", true)
	require.NoError(t, err)
	assert.Equal(t, "", uid)
	_, err = UserID("", false)
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = UserID(strings.Repeat("u", 129), true)
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = Items(nil)
	require.ErrorIs(t, err, domain.ErrValidation)

	var fe *FieldError
	_, err = Items([]domain.OrderItem{{ProductID: "p", Qty: 1}, {ProductID: "q", Qty: 0}})
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "items[1].qty", fe.Field)

	_, err = Items([]domain.OrderItem{{ProductID: " ", Qty: 1}})
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "items[0].productId", fe.Field)

	items, err := Items([]domain.OrderItem{{ProductID: "p", Qty: 2}})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
