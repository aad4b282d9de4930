// Package pricesync recomputes cached unit prices across the estimator state
// tree whenever the product catalog changes.
package pricesync

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AlphaDevs01/controleProducao/pkg/models"
)

// Epsilon is the tolerance below which two prices are treated as equal, so
// floating-point noise never triggers spurious tree rewrites.
var Epsilon = decimal.NewFromFloat(0.001)

// Sync returns a new estimate state in which every project item and template
// item whose code matches a catalog entry carries the catalog price. Project
// items also get their derived total recomputed. Inputs are never mutated.
//
// Matching is case-insensitive on product code. Items without a catalog
// match, or whose cached price is already within Epsilon of the catalog
// price, are carried over untouched.
func Sync(catalog []models.CatalogProduct, state models.EstimateState) models.EstimateState {
	prices := make(map[string]decimal.Decimal, len(catalog))
	for _, p := range catalog {
		prices[strings.ToLower(p.Code)] = p.Value
	}

	next := state
	next.Products = append([]models.CatalogProduct(nil), catalog...)

	next.Projects = make([]models.Project, len(state.Projects))
	for i, project := range state.Projects {
		p := project
		p.Routes = make([]models.ProjectRoute, len(project.Routes))
		for j, route := range project.Routes {
			r := route
			r.Items = make([]models.ProjectItem, len(route.Items))
			for k, item := range route.Items {
				r.Items[k] = syncProjectItem(item, prices)
			}
			p.Routes[j] = r
		}
		next.Projects[i] = p
	}

	next.RouteTemplates = make([]models.RouteTemplate, len(state.RouteTemplates))
	for i, template := range state.RouteTemplates {
		t := template
		t.Items = make([]models.TemplateItem, len(template.Items))
		for j, item := range template.Items {
			t.Items[j] = syncTemplateItem(item, prices)
		}
		next.RouteTemplates[i] = t
	}

	return next
}

func syncProjectItem(item models.ProjectItem, prices map[string]decimal.Decimal) models.ProjectItem {
	price, ok := prices[strings.ToLower(item.Code)]
	if !ok || !needsUpdate(item.Value, price) {
		return item
	}
	item.Value = price
	item.ComputedTotal = decimal.NewFromFloat(item.Quantity).Mul(price)
	return item
}

func syncTemplateItem(item models.TemplateItem, prices map[string]decimal.Decimal) models.TemplateItem {
	price, ok := prices[strings.ToLower(item.Code)]
	if !ok || !needsUpdate(item.Value, price) {
		return item
	}
	item.Value = price
	return item
}

// needsUpdate reports whether a cached price should be replaced: either it
// drifted from the catalog by more than Epsilon, or the item was priced at
// zero and the catalog now has a real price for it.
func needsUpdate(cached, catalog decimal.Decimal) bool {
	if catalog.Sub(cached).Abs().GreaterThan(Epsilon) {
		return true
	}
	return cached.IsZero() && !catalog.IsZero()
}
