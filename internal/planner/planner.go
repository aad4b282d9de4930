package planner

import (
	"fmt"
	"strings"

	"github.com/AlphaDevs01/controleProducao/pkg/models"
)

// Snapshot is the read-only production data a planning call works against.
// The planner never writes through it; batch simulation happens on a local
// copy of Stock.
type Snapshot struct {
	// Stock holds the current stock quantity by product code.
	Stock map[string]int
	// Routes holds the bill of materials by final product code.
	Routes map[string]models.ProductionRoute
	// Descriptions holds product descriptions by code, used to enrich
	// results for display.
	Descriptions map[string]string
}

// CalculateBatch evaluates an ordered list of production plans against a
// simulated stock pool. Plans are processed in slice order: each plan's input
// availability is judged against whatever stock the earlier plans left
// behind, so the same batch in a different order can produce different
// results. Every submitted plan yields exactly one result; invalid or
// unknown plans report an error instead of aborting the batch.
func CalculateBatch(plans []models.ProductionPlan, snap Snapshot) []models.PlanResult {
	simulated := make(map[string]float64, len(snap.Stock))
	for code, qty := range snap.Stock {
		simulated[code] = float64(qty)
	}

	results := make([]models.PlanResult, 0, len(plans))
	for _, plan := range plans {
		results = append(results, evaluatePlan(plan, snap, simulated))
	}
	return results
}

// Calculate evaluates a single plan against the real stock snapshot. It is
// the batch of one: no simulated depletion carries over between calls.
func Calculate(plan models.ProductionPlan, snap Snapshot) models.PlanResult {
	return CalculateBatch([]models.ProductionPlan{plan}, snap)[0]
}

func evaluatePlan(plan models.ProductionPlan, snap Snapshot, simulated map[string]float64) models.PlanResult {
	result := models.PlanResult{
		ProductCode: plan.ProductCode,
		Quantity:    plan.Quantity,
	}

	if strings.TrimSpace(plan.ProductCode) == "" || plan.Quantity <= 0 {
		result.Error = "a product code and a positive quantity are required"
		result.ErrorKind = models.PlanErrorValidation
		return result
	}

	description, ok := snap.Descriptions[plan.ProductCode]
	if !ok {
		result.Error = fmt.Sprintf("product %s not found", plan.ProductCode)
		result.ErrorKind = models.PlanErrorProductNotFound
		return result
	}
	result.Description = description

	route, ok := snap.Routes[plan.ProductCode]
	if !ok {
		result.Error = fmt.Sprintf("no production route found for product %s", plan.ProductCode)
		result.ErrorKind = models.PlanErrorRouteNotFound
		return result
	}

	// First pass: classify every input against the stock as it stands at
	// the start of this plan, before this plan consumes anything.
	result.CanProduce = true
	result.Inputs = make([]models.InputRequirement, 0, len(route.Inputs))
	for _, input := range route.Inputs {
		required := input.QuantityPerUnit * float64(plan.Quantity)
		available := simulated[input.InputProductCode]

		status := models.StatusAvailable
		switch {
		case available == 0:
			status = models.StatusUnavailable
			result.CanProduce = false
		case available < required:
			status = models.StatusInsufficient
			result.CanProduce = false
		}

		result.Inputs = append(result.Inputs, models.InputRequirement{
			InputProductCode:  input.InputProductCode,
			Description:       snap.Descriptions[input.InputProductCode],
			RequiredQuantity:  required,
			AvailableQuantity: available,
			Status:            status,
		})
	}

	// Second pass: consume. Even a plan that cannot be fully produced
	// earmarks whatever stock is left, floored at zero, so that later
	// lower-priority plans see a correctly reduced pool.
	for _, input := range route.Inputs {
		required := input.QuantityPerUnit * float64(plan.Quantity)
		available := simulated[input.InputProductCode]
		consumed := required
		if available < consumed {
			consumed = available
		}
		simulated[input.InputProductCode] = available - consumed
	}

	return result
}
