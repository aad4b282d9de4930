package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AlphaDevs01/controleProducao/pkg/models"
)

func widgetSnapshot(boltStock, nutStock int) Snapshot {
	return Snapshot{
		Stock: map[string]int{"BOLT": boltStock, "NUT": nutStock, "WIDGET": 0},
		Routes: map[string]models.ProductionRoute{
			"WIDGET": {
				ID:               1,
				FinalProductCode: "WIDGET",
				Inputs: []models.RouteInput{
					{InputProductCode: "BOLT", QuantityPerUnit: 2},
					{InputProductCode: "NUT", QuantityPerUnit: 1},
				},
			},
		},
		Descriptions: map[string]string{
			"BOLT":   "Hex bolt",
			"NUT":    "Hex nut",
			"WIDGET": "Widget",
		},
	}
}

func TestCalculateSinglePlan(t *testing.T) {
	snap := widgetSnapshot(100, 3)

	result := Calculate(models.ProductionPlan{ProductCode: "WIDGET", Quantity: 2}, snap)

	assert.Empty(t, result.Error)
	assert.True(t, result.CanProduce)
	assert.Equal(t, "Widget", result.Description)
	assert.Len(t, result.Inputs, 2)

	bolt := result.Inputs[0]
	assert.Equal(t, "BOLT", bolt.InputProductCode)
	assert.Equal(t, 4.0, bolt.RequiredQuantity)
	assert.Equal(t, 100.0, bolt.AvailableQuantity)
	assert.Equal(t, models.StatusAvailable, bolt.Status)

	nut := result.Inputs[1]
	assert.Equal(t, 2.0, nut.RequiredQuantity)
	assert.Equal(t, 3.0, nut.AvailableQuantity)
	assert.Equal(t, models.StatusAvailable, nut.Status)
}

func TestCalculateBatchDepletesSimulatedStock(t *testing.T) {
	snap := widgetSnapshot(100, 3)

	plans := []models.ProductionPlan{
		{ProductCode: "WIDGET", Quantity: 2},
		{ProductCode: "WIDGET", Quantity: 2},
	}
	results := CalculateBatch(plans, snap)

	assert.Len(t, results, 2)

	// The first plan sees the full stock and succeeds.
	assert.True(t, results[0].CanProduce)
	assert.Equal(t, 3.0, results[0].Inputs[1].AvailableQuantity)

	// The second plan sees NUT stock already reduced to 1 by the first.
	second := results[1]
	assert.False(t, second.CanProduce)
	assert.Equal(t, 96.0, second.Inputs[0].AvailableQuantity)
	assert.Equal(t, models.StatusAvailable, second.Inputs[0].Status)
	assert.Equal(t, 1.0, second.Inputs[1].AvailableQuantity)
	assert.Equal(t, models.StatusInsufficient, second.Inputs[1].Status)
}

func TestCalculateBatchOrderMatters(t *testing.T) {
	snap := Snapshot{
		Stock: map[string]int{"X": 8, "A": 0, "B": 0},
		Routes: map[string]models.ProductionRoute{
			"A": {FinalProductCode: "A", Inputs: []models.RouteInput{{InputProductCode: "X", QuantityPerUnit: 0.8}}},
			"B": {FinalProductCode: "B", Inputs: []models.RouteInput{{InputProductCode: "X", QuantityPerUnit: 0.8}}},
		},
		Descriptions: map[string]string{"A": "Product A", "B": "Product B", "X": "Shared input"},
	}

	p1 := models.ProductionPlan{ProductCode: "A", Quantity: 10}
	p2 := models.ProductionPlan{ProductCode: "B", Quantity: 10}

	forward := CalculateBatch([]models.ProductionPlan{p1, p2}, snap)
	assert.True(t, forward[0].CanProduce)
	assert.False(t, forward[1].CanProduce)
	assert.Equal(t, models.StatusUnavailable, forward[1].Inputs[0].Status)

	reversed := CalculateBatch([]models.ProductionPlan{p2, p1}, snap)
	assert.True(t, reversed[0].CanProduce)
	assert.False(t, reversed[1].CanProduce)
}

func TestFailedPlanStillDepletesStock(t *testing.T) {
	snap := Snapshot{
		Stock: map[string]int{"X": 5, "A": 0},
		Routes: map[string]models.ProductionRoute{
			"A": {FinalProductCode: "A", Inputs: []models.RouteInput{{InputProductCode: "X", QuantityPerUnit: 10}}},
		},
		Descriptions: map[string]string{"A": "Product A", "X": "Scarce input"},
	}

	plans := []models.ProductionPlan{
		{ProductCode: "A", Quantity: 1},
		{ProductCode: "A", Quantity: 1},
	}
	results := CalculateBatch(plans, snap)

	// First plan is insufficient but consumes the 5 units that exist.
	assert.False(t, results[0].CanProduce)
	assert.Equal(t, 5.0, results[0].Inputs[0].AvailableQuantity)
	assert.Equal(t, models.StatusInsufficient, results[0].Inputs[0].Status)

	// Second plan finds the pool floored at zero, never negative.
	assert.Equal(t, 0.0, results[1].Inputs[0].AvailableQuantity)
	assert.Equal(t, models.StatusUnavailable, results[1].Inputs[0].Status)
}

func TestInvalidPlansDoNotBreakBatch(t *testing.T) {
	snap := widgetSnapshot(100, 100)

	plans := []models.ProductionPlan{
		{ProductCode: "WIDGET", Quantity: 2},
		{ProductCode: "", Quantity: 0},
		{ProductCode: "WIDGET", Quantity: 2},
	}
	results := CalculateBatch(plans, snap)

	assert.Len(t, results, 3)
	assert.True(t, results[0].CanProduce)
	assert.NotEmpty(t, results[1].Error)
	assert.Empty(t, results[1].Inputs)
	assert.True(t, results[2].CanProduce)

	// The invalid plan consumed nothing: the third plan sees stock reduced
	// only by the first one.
	assert.Equal(t, 96.0, results[2].Inputs[0].AvailableQuantity)
	assert.Equal(t, 98.0, results[2].Inputs[1].AvailableQuantity)
}

func TestUnknownProductAndMissingRoute(t *testing.T) {
	snap := widgetSnapshot(10, 10)
	snap.Descriptions["GADGET"] = "Gadget without a route"

	results := CalculateBatch([]models.ProductionPlan{
		{ProductCode: "GHOST", Quantity: 1},
		{ProductCode: "GADGET", Quantity: 1},
	}, snap)

	assert.Equal(t, "product GHOST not found", results[0].Error)
	assert.False(t, results[0].CanProduce)
	assert.Equal(t, "no production route found for product GADGET", results[1].Error)
}

func TestBatchDoesNotMutateRealStock(t *testing.T) {
	snap := widgetSnapshot(100, 3)

	CalculateBatch([]models.ProductionPlan{{ProductCode: "WIDGET", Quantity: 2}}, snap)

	assert.Equal(t, 100, snap.Stock["BOLT"])
	assert.Equal(t, 3, snap.Stock["NUT"])
}

func TestStatusSnapshotConsistentAcrossPlanInputs(t *testing.T) {
	// Both inputs of one plan must be judged against start-of-plan stock,
	// regardless of consumption order within the plan.
	snap := Snapshot{
		Stock: map[string]int{"X": 10, "A": 0},
		Routes: map[string]models.ProductionRoute{
			"A": {FinalProductCode: "A", Inputs: []models.RouteInput{
				{InputProductCode: "X", QuantityPerUnit: 1},
				{InputProductCode: "X", QuantityPerUnit: 1},
			}},
		},
		Descriptions: map[string]string{"A": "Product A", "X": "Input"},
	}

	results := CalculateBatch([]models.ProductionPlan{{ProductCode: "A", Quantity: 5}}, snap)

	assert.Equal(t, 10.0, results[0].Inputs[0].AvailableQuantity)
	assert.Equal(t, 10.0, results[0].Inputs[1].AvailableQuantity)
	assert.True(t, results[0].CanProduce)
}
