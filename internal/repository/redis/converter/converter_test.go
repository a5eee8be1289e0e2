package converter

import (
	"encoding/json"
	"testing"

	"github.com/einspot/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartLineSlotFormat(t *testing.T) {
	conv := NewCartLineConverter()
	line := domain.CartLine{
		LineID:    "line-1",
		ProductID: "prod-1",
		Quantity:  2,
		Product: domain.ProductSnapshot{
			ID:        "prod-1",
			Name:      "Widget",
			Price:     1000,
			ImageURL:  "https://cdn.local/img",
			Category:  "tools",
			ShowPrice: true,
		},
	}

	raw, err := json.Marshal(conv.ToArrRedisModel([]domain.CartLine{line}))
	require.NoError(t, err)

	// Формат слота фиксирован, внешние потребители читают его напрямую
	assert.JSONEq(t, `[{
		"lineId": "line-1",
		"productId": "prod-1",
		"quantity": 2,
		"product": {
			"id": "prod-1",
			"name": "Widget",
			"price": 1000,
			"imageUrl": "https://cdn.local/img",
			"category": "tools",
			"showPrice": true
		}
	}]`, string(raw))

	var models []CartLineRedisModel
	require.NoError(t, json.Unmarshal(raw, &models))
	assert.Equal(t, []domain.CartLine{line}, conv.ToArrEntity(models))
}
