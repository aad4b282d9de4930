package pricesync

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AlphaDevs01/controleProducao/pkg/models"
)

func price(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func stateWithItem(code string, quantity float64, value decimal.Decimal) models.EstimateState {
	return models.EstimateState{
		Projects: []models.Project{{
			ID:   "proj-1",
			Name: "Plant retrofit",
			Routes: []models.ProjectRoute{{
				ID:        "route-1",
				ProjectID: "proj-1",
				Name:      "Assembly",
				Items: []models.ProjectItem{{
					ID:            "item-1",
					RouteID:       "route-1",
					Code:          code,
					Name:          "Line item",
					Quantity:      quantity,
					Value:         value,
					ComputedTotal: decimal.NewFromFloat(quantity).Mul(value),
				}},
			}},
		}},
		RouteTemplates: []models.RouteTemplate{{
			ID:   "tmpl-1",
			Name: "Assembly template",
			Items: []models.TemplateItem{{
				ID:       "titem-1",
				Code:     code,
				Name:     "Line item",
				Quantity: quantity,
				Value:    value,
			}},
		}},
	}
}

func TestSyncUpdatesPriceAndDerivedTotal(t *testing.T) {
	state := stateWithItem("ABC-1", 4, price(10))
	catalog := []models.CatalogProduct{{ID: "p1", Code: "ABC-1", Name: "Part", Value: price(12.5)}}

	next := Sync(catalog, state)

	item := next.Projects[0].Routes[0].Items[0]
	assert.True(t, item.Value.Equal(price(12.5)))
	assert.True(t, item.ComputedTotal.Equal(price(50)))

	// Template items take the price but have no derived total.
	assert.True(t, next.RouteTemplates[0].Items[0].Value.Equal(price(12.5)))
}

func TestSyncMatchesCodeCaseInsensitively(t *testing.T) {
	state := stateWithItem("abc-1", 2, price(1))
	catalog := []models.CatalogProduct{{Code: "ABC-1", Value: price(3)}}

	next := Sync(catalog, state)

	assert.True(t, next.Projects[0].Routes[0].Items[0].Value.Equal(price(3)))
}

func TestSyncLeavesPricesWithinEpsilonUntouched(t *testing.T) {
	state := stateWithItem("ABC-1", 4, price(10))
	catalog := []models.CatalogProduct{{Code: "ABC-1", Value: price(10.001)}}

	next := Sync(catalog, state)

	assert.True(t, next.Projects[0].Routes[0].Items[0].Value.Equal(price(10)))
	assert.True(t, next.RouteTemplates[0].Items[0].Value.Equal(price(10)))
}

func TestSyncAdoptsPriceForZeroPricedItems(t *testing.T) {
	// 0 -> 0.0005 is within epsilon, but a zero-priced item with a nonzero
	// catalog price must still be updated.
	state := stateWithItem("ABC-1", 3, decimal.Zero)
	catalog := []models.CatalogProduct{{Code: "ABC-1", Value: price(0.0005)}}

	next := Sync(catalog, state)

	item := next.Projects[0].Routes[0].Items[0]
	assert.True(t, item.Value.Equal(price(0.0005)))
	assert.True(t, item.ComputedTotal.Equal(price(0.0015)))
}

func TestSyncLeavesUnmatchedItemsAlone(t *testing.T) {
	state := stateWithItem("NO-MATCH", 4, decimal.Zero)
	catalog := []models.CatalogProduct{{Code: "OTHER", Value: price(99)}}

	next := Sync(catalog, state)

	item := next.Projects[0].Routes[0].Items[0]
	assert.True(t, item.Value.IsZero())
	assert.True(t, item.ComputedTotal.IsZero())
}

func TestSyncIsIdempotent(t *testing.T) {
	state := stateWithItem("ABC-1", 4, price(10))
	catalog := []models.CatalogProduct{{Code: "ABC-1", Value: price(12.5)}}

	once := Sync(catalog, state)
	twice := Sync(catalog, once)

	assert.Equal(t, once, twice)
}

func TestSyncDoesNotMutateInput(t *testing.T) {
	state := stateWithItem("ABC-1", 4, price(10))
	catalog := []models.CatalogProduct{{Code: "ABC-1", Value: price(12.5)}}

	Sync(catalog, state)

	assert.True(t, state.Projects[0].Routes[0].Items[0].Value.Equal(price(10)))
	assert.True(t, state.RouteTemplates[0].Items[0].Value.Equal(price(10)))
}

func TestSyncReplacesCatalogInState(t *testing.T) {
	state := stateWithItem("ABC-1", 4, price(10))
	state.Products = []models.CatalogProduct{{Code: "OLD", Value: price(1)}}
	catalog := []models.CatalogProduct{{Code: "ABC-1", Value: price(12.5)}}

	next := Sync(catalog, state)

	assert.Len(t, next.Products, 1)
	assert.Equal(t, "ABC-1", next.Products[0].Code)
}
