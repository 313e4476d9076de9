package order

import (
	"math"
	"testing"

	"github.com/corray333/backend-labs/lanchonete/internal/service/models/currency"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/orderitem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_ItemsTotalCents(t *testing.T) {
	o := Order{Items: []orderitem.OrderItem{
		{Quantity: 2, SalePriceCents: 599},
		{Quantity: 1, SalePriceCents: 1099},
	}}

	got, err := o.ItemsTotalCents()
	require.NoError(t, err)
	assert.Equal(t, int64(2297), got)
}

func TestOrder_ItemsTotalCents_Overflow(t *testing.T) {
	single := Order{Items: []orderitem.OrderItem{
		{Quantity: math.MaxInt64/599 + 1, SalePriceCents: 599},
	}}
	_, err := single.ItemsTotalCents()
	assert.ErrorIs(t, err, currency.ErrOutOfRange)

	summed := Order{Items: []orderitem.OrderItem{
		{Quantity: 1, SalePriceCents: math.MaxInt64},
		{Quantity: 1, SalePriceCents: 1},
	}}
	_, err = summed.ItemsTotalCents()
	assert.ErrorIs(t, err, currency.ErrOutOfRange)
}
