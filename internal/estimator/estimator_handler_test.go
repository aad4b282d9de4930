package estimator

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/AlphaDevs01/controleProducao/pkg/models"
)

func setupRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := mustService(t, newMemoryStore())
	handler := NewEstimatorHandler(service)

	router := gin.New()
	handler.RegisterRoutes(router)
	return router, service
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAddProductEndpointSyncsState(t *testing.T) {
	router, service := setupRouter(t)

	w := performJSON(router, http.MethodPost, "/api/estimator/products", gin.H{
		"code": "CEM-01", "name": "Cement bag", "value": "30.00",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var created models.CatalogProduct
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "CEM-01", created.Code)

	state := service.State()
	assert.Len(t, state.Products, 1)
}

func TestAddProductEndpointRejectsDuplicate(t *testing.T) {
	router, _ := setupRouter(t)

	first := performJSON(router, http.MethodPost, "/api/estimator/products", gin.H{
		"code": "CEM-01", "name": "Cement bag", "value": "30.00",
	})
	assert.Equal(t, http.StatusCreated, first.Code)

	second := performJSON(router, http.MethodPost, "/api/estimator/products", gin.H{
		"code": "cem-01", "name": "Cement bag", "value": "31.00",
	})
	assert.Equal(t, http.StatusBadRequest, second.Code)
}

func TestGetStateEndpointReturnsFullTree(t *testing.T) {
	router, service := setupRouter(t)

	_, err := service.AddProduct("CEM-01", "Cement bag", dec("30.00"))
	assert.NoError(t, err)

	w := performJSON(router, http.MethodGet, "/api/estimator/state", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var state models.EstimateState
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Len(t, state.Products, 1)
	assert.NotNil(t, state.Projects)
}

func TestDeleteUnknownProductReturns404(t *testing.T) {
	router, _ := setupRouter(t)

	w := performJSON(router, http.MethodDelete, "/api/estimator/products/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
