package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	c := Cart{Items: []Item{
		{ID: 1, Price: decimal.RequireFromString("199.50"), Quantity: 2, Selected: true, Stock: 10},
		{ID: 2, Price: decimal.RequireFromString("50"), Quantity: 1, Selected: false, Stock: 10},
		{ID: 3, Price: decimal.RequireFromString("10.25"), Quantity: 4, Selected: true, Stock: 4},
		{ID: 4, Price: decimal.RequireFromString("999"), Quantity: 1, Selected: true, Stock: 0},
	}}

	s := Summarize(c)

	assert.Equal(t, 4, s.ItemCount)
	assert.Equal(t, 8, s.Quantity)
	assert.Equal(t, 2, s.SelectedCount)
	assert.Equal(t, 6, s.SelectedQuantity)
	assert.True(t, decimal.RequireFromString("440").Equal(s.SelectedSubtotal), s.SelectedSubtotal.String())
	assert.True(t, decimal.RequireFromString("1489").Equal(s.GrandTotal), s.GrandTotal.String())
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(Cart{})
	assert.Zero(t, s.ItemCount)
	assert.True(t, s.SelectedSubtotal.IsZero())
	assert.True(t, s.GrandTotal.IsZero())
}

func TestItem_Purchasable(t *testing.T) {
	assert.True(t, Item{Selected: true, Stock: 1}.Purchasable())
	assert.False(t, Item{Selected: true}.Purchasable())
	assert.False(t, Item{Stock: 5}.Purchasable())
}
