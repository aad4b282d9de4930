package estimator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AlphaDevs01/controleProducao/pkg/models"
)

// memoryStore keeps the persisted state in memory and counts saves.
type memoryStore struct {
	state   models.EstimateState
	saves   int
	failure error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{state: models.EstimateState{
		Products:       []models.CatalogProduct{},
		RouteTemplates: []models.RouteTemplate{},
		Projects:       []models.Project{},
	}}
}

func (m *memoryStore) Load() (models.EstimateState, error) {
	return m.state, nil
}

func (m *memoryStore) Save(state models.EstimateState) error {
	if m.failure != nil {
		return m.failure
	}
	m.state = state
	m.saves++
	return nil
}

func mustService(t *testing.T, store StatePersister) *Service {
	t.Helper()
	service, err := NewService(store)
	assert.NoError(t, err)
	return service
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestUpdateProductResyncsProjectPrices(t *testing.T) {
	store := newMemoryStore()
	service := mustService(t, store)

	product, err := service.AddProduct("CEM-01", "Cement bag", dec("30.00"))
	assert.NoError(t, err)

	project, err := service.CreateProject("Warehouse", nil)
	assert.NoError(t, err)
	route, err := service.AddRoute(project.ID, "Foundation", "")
	assert.NoError(t, err)
	item, err := service.AddItem(project.ID, route.ID, models.ProjectItem{
		Code: "CEM-01", Name: "Cement bag", Quantity: 4, Value: dec("30.00"),
	})
	assert.NoError(t, err)
	assert.True(t, item.ComputedTotal.Equal(dec("120.00")))

	_, err = service.UpdateProduct(product.ID, "CEM-01", "Cement bag", dec("35.50"))
	assert.NoError(t, err)

	state := service.State()
	synced := state.Projects[0].Routes[0].Items[0]
	assert.True(t, synced.Value.Equal(dec("35.50")))
	assert.True(t, synced.ComputedTotal.Equal(dec("142.00")))
}

func TestDeleteAndClearDoNotResyncPrices(t *testing.T) {
	store := newMemoryStore()
	service := mustService(t, store)

	product, err := service.AddProduct("CEM-01", "Cement bag", dec("30.00"))
	assert.NoError(t, err)

	project, _ := service.CreateProject("Warehouse", nil)
	route, _ := service.AddRoute(project.ID, "Foundation", "")
	_, err = service.AddItem(project.ID, route.ID, models.ProjectItem{
		Code: "CEM-01", Quantity: 2, Value: dec("30.00"),
	})
	assert.NoError(t, err)

	// Removing the catalog entry leaves the project's copied price alone.
	assert.NoError(t, service.DeleteProduct(product.ID))
	state := service.State()
	assert.Empty(t, state.Products)
	assert.True(t, state.Projects[0].Routes[0].Items[0].Value.Equal(dec("30.00")))

	_, err = service.AddProduct("CEM-01", "Cement bag", dec("99.99"))
	assert.NoError(t, err)
	assert.NoError(t, service.ClearProducts())

	state = service.State()
	assert.Empty(t, state.Products)
	// The add before the clear resynced to 99.99; the clear itself must not
	// touch it again.
	assert.True(t, state.Projects[0].Routes[0].Items[0].Value.Equal(dec("99.99")))
}

func TestCreateProjectResolvesPricesFromCatalogNotTemplate(t *testing.T) {
	store := newMemoryStore()
	service := mustService(t, store)

	_, err := service.AddProduct("STE-10", "Steel bar", dec("12.00"))
	assert.NoError(t, err)

	template, err := service.AddTemplate("Framing", []models.TemplateItem{
		{Code: "ste-10", Name: "Steel bar", Quantity: 8, Value: dec("7.00")},
	})
	assert.NoError(t, err)

	project, err := service.CreateProject("Tower", []string{template.ID})
	assert.NoError(t, err)

	assert.Len(t, project.Routes, 1)
	assert.Equal(t, "Framing", project.Routes[0].Name)
	item := project.Routes[0].Items[0]
	assert.Equal(t, 8.0, item.Quantity)
	// The template's cached 7.00 is ignored; the catalog's 12.00 wins, and
	// the lookup is case-insensitive.
	assert.True(t, item.Value.Equal(dec("12.00")))
	assert.True(t, item.ComputedTotal.Equal(dec("96.00")))

	// Instantiated IDs are fresh, not the template's.
	assert.NotEqual(t, template.ID, project.Routes[0].ID)
	assert.NotEqual(t, template.Items[0].ID, item.ID)
	assert.Equal(t, project.Routes[0].ID, item.RouteID)
}

func TestAddProductRejectsDuplicateCode(t *testing.T) {
	service := mustService(t, newMemoryStore())

	_, err := service.AddProduct("CEM-01", "Cement bag", dec("30.00"))
	assert.NoError(t, err)

	_, err = service.AddProduct("cem-01", "Cement bag again", dec("31.00"))
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

func TestImportProductsMergesByCode(t *testing.T) {
	store := newMemoryStore()
	service := mustService(t, store)

	_, err := service.AddProduct("CEM-01", "Cement bag", dec("30.00"))
	assert.NoError(t, err)

	applied, err := service.ImportProducts([]models.CatalogProduct{
		{Code: "CEM-01", Name: "Cement bag 50kg", Value: dec("33.00")},
		{Code: "SAND-1", Name: "Sand m3", Value: dec("80.00")},
		{Code: "", Name: "no code"},
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, applied)

	state := service.State()
	assert.Len(t, state.Products, 2)
	assert.Equal(t, "Cement bag 50kg", state.Products[0].Name)
	assert.True(t, state.Products[0].Value.Equal(dec("33.00")))
}

func TestImportTemplatesDeduplicatesByName(t *testing.T) {
	service := mustService(t, newMemoryStore())

	_, err := service.AddTemplate("Framing", []models.TemplateItem{
		{Code: "STE-10", Quantity: 8},
	})
	assert.NoError(t, err)

	applied, err := service.ImportTemplates([]models.RouteTemplate{
		{Name: "FRAMING", Items: []models.TemplateItem{{Code: "STE-12", Quantity: 4}}},
		{Name: "Roofing", Items: []models.TemplateItem{{Code: "TILE-1", Quantity: 100}}},
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, applied)

	state := service.State()
	assert.Len(t, state.RouteTemplates, 2)
	assert.Equal(t, "STE-12", state.RouteTemplates[0].Items[0].Code)
}

func TestUpdateItemRecomputesTotal(t *testing.T) {
	service := mustService(t, newMemoryStore())

	project, _ := service.CreateProject("Tower", nil)
	route, _ := service.AddRoute(project.ID, "Framing", "")
	item, err := service.AddItem(project.ID, route.ID, models.ProjectItem{
		Code: "STE-10", Quantity: 2, Value: dec("12.00"),
	})
	assert.NoError(t, err)

	item.Quantity = 5
	item.Value = dec("11.00")
	// A mismatched client-side total is overwritten by the recompute.
	item.ComputedTotal = dec("1.00")
	updated, err := service.UpdateItem(project.ID, route.ID, item)
	assert.NoError(t, err)
	assert.True(t, updated.ComputedTotal.Equal(dec("55.00")))
}

func TestFailedSaveKeepsTreeForRetry(t *testing.T) {
	store := newMemoryStore()
	service := mustService(t, store)

	store.failure = errors.New("disk full")
	_, err := service.AddProduct("CEM-01", "Cement bag", dec("30.00"))
	assert.Error(t, err)
	assert.Empty(t, store.state.Products)

	// The in-memory tree kept the product, so the next successful save
	// persists it.
	store.failure = nil
	_, err = service.AddProduct("SAND-1", "Sand m3", dec("80.00"))
	assert.NoError(t, err)
	assert.Len(t, store.state.Products, 2)
}

func TestStateReturnsACopy(t *testing.T) {
	service := mustService(t, newMemoryStore())

	_, err := service.AddProduct("CEM-01", "Cement bag", dec("30.00"))
	assert.NoError(t, err)

	state := service.State()
	state.Products[0].Code = "TAMPERED"

	assert.Equal(t, "CEM-01", service.State().Products[0].Code)
}
