package models

import "time"

// Input availability statuses reported by the planner.
const (
	StatusAvailable    = "available"
	StatusInsufficient = "insufficient"
	StatusUnavailable  = "unavailable"
)

// ProductionPlan is one requested production: a finished product and how many
// units of it to make. In a batch the slice order is the consumption priority.
type ProductionPlan struct {
	ProductCode string `json:"codigo_produto"`
	Quantity    int    `json:"quantidade"`
}

// InputRequirement is the planner's verdict for a single BOM input of a plan.
// AvailableQuantity is the simulated stock as it stood when the plan started
// being evaluated, before any consumption by that plan.
type InputRequirement struct {
	InputProductCode  string  `json:"codigo_produto_insumo"`
	Description       string  `json:"descricao_insumo"`
	RequiredQuantity  float64 `json:"quantidade_necessaria"`
	AvailableQuantity float64 `json:"quantidade_estoque"`
	Status            string  `json:"status"`
}

// Kinds of per-plan failure. These never abort a batch; they classify why a
// single plan could not be evaluated.
const (
	PlanErrorValidation      = "validation"
	PlanErrorProductNotFound = "product_not_found"
	PlanErrorRouteNotFound   = "route_not_found"
)

// PlanResult is the planner output for one plan. Invalid or unknown plans
// still produce a result, carrying Error instead of inputs. ErrorKind is a
// machine-readable classification kept off the wire; the message in Error is
// what clients display.
type PlanResult struct {
	ProductCode string             `json:"codigo_produto"`
	Description string             `json:"descricao_produto"`
	Quantity    int                `json:"quantidade_a_produzir"`
	Inputs      []InputRequirement `json:"insumos"`
	CanProduce  bool               `json:"pode_produzir"`
	Error       string             `json:"erro,omitempty"`
	ErrorKind   string             `json:"-"`
}

// ProductionRecord is a persisted production history row. Ordinal keeps the
// priority position a plan had when its batch was saved.
type ProductionRecord struct {
	ID                 int       `json:"id" db:"id"`
	ProductCode        string    `json:"codigo_produto" db:"codigo_produto"`
	ProductDescription *string   `json:"descricao_produto" db:"descricao_produto"`
	QuantityProduced   int       `json:"quantidade_produzida" db:"quantidade_produzida"`
	ProductionOrder    *string   `json:"ordem_producao,omitempty" db:"ordem_producao"`
	Status             string    `json:"status" db:"status"`
	Ordinal            *int      `json:"ordem,omitempty" db:"ordem"`
	ProducedAt         time.Time `json:"data_producao" db:"data_producao"`
}

// PlannedProduction is the payload accepted by the plan persistence endpoint.
// It is stored verbatim; the planner is not re-run at save time.
type PlannedProduction struct {
	ProductCode     string  `json:"codigo_produto"`
	Quantity        int     `json:"quantidade"`
	ProductionOrder *string `json:"ordem_producao,omitempty"`
}
