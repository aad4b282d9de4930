package production

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/AlphaDevs01/controleProducao/pkg/models"
)

type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) GetStockMap() (map[string]int, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockSnapshotRepository) GetDescriptionMap() (map[string]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

type MockRouteRepository struct {
	mock.Mock
}

func (m *MockRouteRepository) GetRouteMap() (map[string]models.ProductionRoute, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.ProductionRoute), args.Error(1)
}

func TestCalculateBatchDepletesAcrossPlans(t *testing.T) {
	mockSnapshots := new(MockSnapshotRepository)
	mockRoutes := new(MockRouteRepository)

	mockSnapshots.On("GetStockMap").Return(map[string]int{"NUT": 3, "BOLT": 100, "WIDGET": 0}, nil).Once()
	mockSnapshots.On("GetDescriptionMap").Return(map[string]string{
		"NUT": "Hex nut", "BOLT": "Hex bolt", "WIDGET": "Widget",
	}, nil).Once()
	mockRoutes.On("GetRouteMap").Return(map[string]models.ProductionRoute{
		"WIDGET": {FinalProductCode: "WIDGET", Inputs: []models.RouteInput{
			{InputProductCode: "BOLT", QuantityPerUnit: 2},
			{InputProductCode: "NUT", QuantityPerUnit: 1},
		}},
	}, nil).Once()

	service := NewService(nil, nil, mockSnapshots, mockRoutes)

	results, err := service.CalculateBatch([]models.ProductionPlan{
		{ProductCode: "WIDGET", Quantity: 2},
		{ProductCode: "WIDGET", Quantity: 2},
	})

	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.True(t, results[0].CanProduce)
	assert.False(t, results[1].CanProduce)
	assert.Equal(t, models.StatusInsufficient, results[1].Inputs[1].Status)

	// The snapshot is read exactly once per batch call.
	mockSnapshots.AssertExpectations(t)
	mockRoutes.AssertExpectations(t)
}

func TestCalculateBatchPropagatesSnapshotError(t *testing.T) {
	mockSnapshots := new(MockSnapshotRepository)
	mockRoutes := new(MockRouteRepository)

	mockSnapshots.On("GetStockMap").Return(nil, errors.New("connection refused")).Once()

	service := NewService(nil, nil, mockSnapshots, mockRoutes)

	results, err := service.CalculateBatch([]models.ProductionPlan{{ProductCode: "WIDGET", Quantity: 1}})

	assert.Error(t, err)
	assert.Nil(t, results)
	mockSnapshots.AssertExpectations(t)
}

func TestCalculateSingleMapsPlannerErrors(t *testing.T) {
	mockSnapshots := new(MockSnapshotRepository)
	mockRoutes := new(MockRouteRepository)

	mockSnapshots.On("GetStockMap").Return(map[string]int{}, nil)
	mockSnapshots.On("GetDescriptionMap").Return(map[string]string{"GADGET": "Gadget"}, nil)
	mockRoutes.On("GetRouteMap").Return(map[string]models.ProductionRoute{}, nil)

	service := NewService(nil, nil, mockSnapshots, mockRoutes)

	unknown, err := service.CalculateSingle(models.ProductionPlan{ProductCode: "GHOST", Quantity: 1})
	assert.NoError(t, err)
	assert.Equal(t, models.PlanErrorProductNotFound, unknown.ErrorKind)

	noRoute, err := service.CalculateSingle(models.ProductionPlan{ProductCode: "GADGET", Quantity: 1})
	assert.NoError(t, err)
	assert.Equal(t, models.PlanErrorRouteNotFound, noRoute.ErrorKind)

	invalid, err := service.CalculateSingle(models.ProductionPlan{ProductCode: "", Quantity: 0})
	assert.NoError(t, err)
	assert.Equal(t, models.PlanErrorValidation, invalid.ErrorKind)
}
