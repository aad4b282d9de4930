package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// The estimator state tree round-trips as a single JSON document, so the
// field names below are part of the stored format and must stay stable.

// CatalogProduct is a priced product in the estimator's shared price list.
// Codes are unique within the catalog, compared case-insensitively.
type CatalogProduct struct {
	ID    string          `json:"id"`
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// TemplateItem is a reusable blueprint line. Value is informational only:
// instantiating a template into a project always re-resolves the price from
// the current catalog.
type TemplateItem struct {
	ID       string          `json:"id"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Quantity float64         `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
}

type RouteTemplate struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Items []TemplateItem `json:"items"`
}

// ProjectItem is a costed line inside a project route. ComputedTotal is a
// derived field: it equals Quantity times Value after every mutation.
type ProjectItem struct {
	ID            string          `json:"id"`
	RouteID       string          `json:"projectRouteId"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Quantity      float64         `json:"quantity"`
	Value         decimal.Decimal `json:"value"`
	ComputedTotal decimal.Decimal `json:"totalCalculado"`
}

type ProjectRoute struct {
	ID        string        `json:"id"`
	ProjectID string        `json:"projectId"`
	Name      string        `json:"name"`
	Items     []ProjectItem `json:"items"`
}

type Project struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"createdAt"`
	Routes    []ProjectRoute `json:"routes"`
}

type EstimateConfig struct {
	EquipmentPercentage float64 `json:"equipmentPercentage"`
}

// EstimateState is the full estimator application state.
type EstimateState struct {
	Products       []CatalogProduct `json:"products"`
	RouteTemplates []RouteTemplate  `json:"routeTemplates"`
	Projects       []Project        `json:"projects"`
	Config         EstimateConfig   `json:"config"`
}
