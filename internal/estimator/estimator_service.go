package estimator

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AlphaDevs01/controleProducao/internal/pricesync"
	"github.com/AlphaDevs01/controleProducao/pkg/models"
)

var (
	ErrNotFound      = errors.New("estimator: entity not found")
	ErrDuplicateCode = errors.New("estimator: product code already exists")
	ErrValidation    = errors.New("estimator: invalid input")
)

// StatePersister abstracts the JSONB store so the service can be tested
// without a database.
type StatePersister interface {
	Load() (models.EstimateState, error)
	Save(state models.EstimateState) error
}

// Service is the single writer for the estimator state tree. Every mutation
// takes the lock, edits the in-memory tree, runs the price sync pass when the
// catalog changed in a way that affects cached prices, and persists the whole
// tree. A failed save keeps the mutated tree in memory so the next save
// attempt carries it.
type Service struct {
	mu    sync.Mutex
	state models.EstimateState
	store StatePersister
}

func NewService(store StatePersister) (*Service, error) {
	state, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Service{state: state, store: store}, nil
}

// State returns a deep copy so callers never observe in-place edits.
func (s *Service) State() models.EstimateState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// --- catalog ---

func (s *Service) AddProduct(code, name string, value decimal.Decimal) (models.CatalogProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code = strings.TrimSpace(code)
	if code == "" || strings.TrimSpace(name) == "" {
		return models.CatalogProduct{}, fmt.Errorf("%w: code and name are required", ErrValidation)
	}
	if s.findProductByCode(code) >= 0 {
		return models.CatalogProduct{}, fmt.Errorf("%w: %s", ErrDuplicateCode, code)
	}

	product := models.CatalogProduct{
		ID:    uuid.New().String(),
		Code:  code,
		Name:  strings.TrimSpace(name),
		Value: value,
	}
	s.state.Products = append(s.state.Products, product)
	s.resyncPrices()

	if err := s.store.Save(s.state); err != nil {
		return models.CatalogProduct{}, err
	}
	return product, nil
}

func (s *Service) UpdateProduct(id string, code, name string, value decimal.Decimal) (models.CatalogProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findProduct(id)
	if idx < 0 {
		return models.CatalogProduct{}, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return models.CatalogProduct{}, fmt.Errorf("%w: code is required", ErrValidation)
	}
	if other := s.findProductByCode(code); other >= 0 && other != idx {
		return models.CatalogProduct{}, fmt.Errorf("%w: %s", ErrDuplicateCode, code)
	}

	s.state.Products[idx].Code = code
	s.state.Products[idx].Name = strings.TrimSpace(name)
	s.state.Products[idx].Value = value
	s.resyncPrices()

	if err := s.store.Save(s.state); err != nil {
		return models.CatalogProduct{}, err
	}
	return s.state.Products[idx], nil
}

// DeleteProduct removes a catalog entry. Prices already copied into projects
// and templates are left as they are.
func (s *Service) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findProduct(id)
	if idx < 0 {
		return fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	s.state.Products = append(s.state.Products[:idx], s.state.Products[idx+1:]...)
	return s.store.Save(s.state)
}

// ImportProducts merges a batch into the catalog. Rows matching an existing
// code (case-insensitive) update that entry, others are appended. Returns how
// many rows were applied.
func (s *Service) ImportProducts(rows []models.CatalogProduct) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := 0
	for _, row := range rows {
		code := strings.TrimSpace(row.Code)
		if code == "" {
			continue
		}
		if idx := s.findProductByCode(code); idx >= 0 {
			s.state.Products[idx].Name = strings.TrimSpace(row.Name)
			s.state.Products[idx].Value = row.Value
		} else {
			s.state.Products = append(s.state.Products, models.CatalogProduct{
				ID:    uuid.New().String(),
				Code:  code,
				Name:  strings.TrimSpace(row.Name),
				Value: row.Value,
			})
		}
		applied++
	}
	if applied > 0 {
		s.resyncPrices()
	}

	if err := s.store.Save(s.state); err != nil {
		return 0, err
	}
	return applied, nil
}

// ClearProducts empties the catalog without touching projects or templates.
func (s *Service) ClearProducts() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Products = []models.CatalogProduct{}
	return s.store.Save(s.state)
}

// --- route templates ---

func (s *Service) AddTemplate(name string, items []models.TemplateItem) (models.RouteTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return models.RouteTemplate{}, fmt.Errorf("%w: template name is required", ErrValidation)
	}

	template := models.RouteTemplate{
		ID:    uuid.New().String(),
		Name:  name,
		Items: normalizeTemplateItems(items),
	}
	s.state.RouteTemplates = append(s.state.RouteTemplates, template)

	if err := s.store.Save(s.state); err != nil {
		return models.RouteTemplate{}, err
	}
	return template, nil
}

func (s *Service) UpdateTemplate(id, name string, items []models.TemplateItem) (models.RouteTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findTemplate(id)
	if idx < 0 {
		return models.RouteTemplate{}, fmt.Errorf("%w: template %s", ErrNotFound, id)
	}
	if name = strings.TrimSpace(name); name != "" {
		s.state.RouteTemplates[idx].Name = name
	}
	s.state.RouteTemplates[idx].Items = normalizeTemplateItems(items)

	if err := s.store.Save(s.state); err != nil {
		return models.RouteTemplate{}, err
	}
	return s.state.RouteTemplates[idx], nil
}

func (s *Service) DeleteTemplate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findTemplate(id)
	if idx < 0 {
		return fmt.Errorf("%w: template %s", ErrNotFound, id)
	}
	s.state.RouteTemplates = append(s.state.RouteTemplates[:idx], s.state.RouteTemplates[idx+1:]...)
	return s.store.Save(s.state)
}

// ImportTemplates merges a batch of templates, deduplicating by name
// case-insensitively. An incoming template whose name matches an existing one
// replaces its items.
func (s *Service) ImportTemplates(templates []models.RouteTemplate) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := 0
	for _, incoming := range templates {
		name := strings.TrimSpace(incoming.Name)
		if name == "" {
			continue
		}
		items := normalizeTemplateItems(incoming.Items)
		if idx := s.findTemplateByName(name); idx >= 0 {
			s.state.RouteTemplates[idx].Items = items
		} else {
			s.state.RouteTemplates = append(s.state.RouteTemplates, models.RouteTemplate{
				ID:    uuid.New().String(),
				Name:  name,
				Items: items,
			})
		}
		applied++
	}

	if err := s.store.Save(s.state); err != nil {
		return 0, err
	}
	return applied, nil
}

// --- projects ---

// CreateProject builds a project from the selected templates. Quantities are
// copied from the template lines but every price is re-resolved against the
// current catalog, never the template's cached value.
func (s *Service) CreateProject(name string, templateIDs []string) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Project{}, fmt.Errorf("%w: project name is required", ErrValidation)
	}

	project := models.Project{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Routes:    []models.ProjectRoute{},
	}

	prices := s.catalogPrices()
	for _, templateID := range templateIDs {
		idx := s.findTemplate(templateID)
		if idx < 0 {
			return models.Project{}, fmt.Errorf("%w: template %s", ErrNotFound, templateID)
		}
		template := s.state.RouteTemplates[idx]

		route := models.ProjectRoute{
			ID:        uuid.New().String(),
			ProjectID: project.ID,
			Name:      template.Name,
			Items:     make([]models.ProjectItem, 0, len(template.Items)),
		}
		for _, line := range template.Items {
			value := prices[strings.ToLower(line.Code)]
			item := models.ProjectItem{
				ID:       uuid.New().String(),
				RouteID:  route.ID,
				Code:     line.Code,
				Name:     line.Name,
				Quantity: line.Quantity,
				Value:    value,
			}
			item.ComputedTotal = itemTotal(item)
			route.Items = append(route.Items, item)
		}
		project.Routes = append(project.Routes, route)
	}

	s.state.Projects = append(s.state.Projects, project)
	if err := s.store.Save(s.state); err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func (s *Service) RenameProject(id, name string) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findProject(id)
	if idx < 0 {
		return models.Project{}, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	if name = strings.TrimSpace(name); name == "" {
		return models.Project{}, fmt.Errorf("%w: project name is required", ErrValidation)
	}
	s.state.Projects[idx].Name = name

	if err := s.store.Save(s.state); err != nil {
		return models.Project{}, err
	}
	return s.state.Projects[idx], nil
}

func (s *Service) DeleteProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findProject(id)
	if idx < 0 {
		return fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	s.state.Projects = append(s.state.Projects[:idx], s.state.Projects[idx+1:]...)
	return s.store.Save(s.state)
}

// --- routes within a project ---

// AddRoute adds a route to a project, from a template when templateID is set
// or blank otherwise. Template prices are re-resolved from the catalog.
func (s *Service) AddRoute(projectID, name, templateID string) (models.ProjectRoute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pIdx := s.findProject(projectID)
	if pIdx < 0 {
		return models.ProjectRoute{}, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}

	route := models.ProjectRoute{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      strings.TrimSpace(name),
		Items:     []models.ProjectItem{},
	}

	if templateID != "" {
		tIdx := s.findTemplate(templateID)
		if tIdx < 0 {
			return models.ProjectRoute{}, fmt.Errorf("%w: template %s", ErrNotFound, templateID)
		}
		template := s.state.RouteTemplates[tIdx]
		if route.Name == "" {
			route.Name = template.Name
		}
		prices := s.catalogPrices()
		for _, line := range template.Items {
			item := models.ProjectItem{
				ID:       uuid.New().String(),
				RouteID:  route.ID,
				Code:     line.Code,
				Name:     line.Name,
				Quantity: line.Quantity,
				Value:    prices[strings.ToLower(line.Code)],
			}
			item.ComputedTotal = itemTotal(item)
			route.Items = append(route.Items, item)
		}
	}
	if route.Name == "" {
		return models.ProjectRoute{}, fmt.Errorf("%w: route name is required", ErrValidation)
	}

	s.state.Projects[pIdx].Routes = append(s.state.Projects[pIdx].Routes, route)
	if err := s.store.Save(s.state); err != nil {
		return models.ProjectRoute{}, err
	}
	return route, nil
}

func (s *Service) RenameRoute(projectID, routeID, name string) (models.ProjectRoute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	route, err := s.lookupRoute(projectID, routeID)
	if err != nil {
		return models.ProjectRoute{}, err
	}
	if name = strings.TrimSpace(name); name == "" {
		return models.ProjectRoute{}, fmt.Errorf("%w: route name is required", ErrValidation)
	}
	route.Name = name

	if err := s.store.Save(s.state); err != nil {
		return models.ProjectRoute{}, err
	}
	return *route, nil
}

func (s *Service) RemoveRoute(projectID, routeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pIdx := s.findProject(projectID)
	if pIdx < 0 {
		return fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	routes := s.state.Projects[pIdx].Routes
	for i := range routes {
		if routes[i].ID == routeID {
			s.state.Projects[pIdx].Routes = append(routes[:i], routes[i+1:]...)
			return s.store.Save(s.state)
		}
	}
	return fmt.Errorf("%w: route %s", ErrNotFound, routeID)
}

// --- items within a route ---

func (s *Service) AddItem(projectID, routeID string, item models.ProjectItem) (models.ProjectItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	route, err := s.lookupRoute(projectID, routeID)
	if err != nil {
		return models.ProjectItem{}, err
	}
	if strings.TrimSpace(item.Code) == "" || item.Quantity <= 0 {
		return models.ProjectItem{}, fmt.Errorf("%w: item code and positive quantity are required", ErrValidation)
	}

	item.ID = uuid.New().String()
	item.RouteID = routeID
	item.ComputedTotal = itemTotal(item)
	route.Items = append(route.Items, item)

	if err := s.store.Save(s.state); err != nil {
		return models.ProjectItem{}, err
	}
	return item, nil
}

func (s *Service) UpdateItem(projectID, routeID string, item models.ProjectItem) (models.ProjectItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	route, err := s.lookupRoute(projectID, routeID)
	if err != nil {
		return models.ProjectItem{}, err
	}
	for i := range route.Items {
		if route.Items[i].ID == item.ID {
			item.RouteID = routeID
			item.ComputedTotal = itemTotal(item)
			route.Items[i] = item

			if err := s.store.Save(s.state); err != nil {
				return models.ProjectItem{}, err
			}
			return item, nil
		}
	}
	return models.ProjectItem{}, fmt.Errorf("%w: item %s", ErrNotFound, item.ID)
}

func (s *Service) RemoveItem(projectID, routeID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	route, err := s.lookupRoute(projectID, routeID)
	if err != nil {
		return err
	}
	for i := range route.Items {
		if route.Items[i].ID == itemID {
			route.Items = append(route.Items[:i], route.Items[i+1:]...)
			return s.store.Save(s.state)
		}
	}
	return fmt.Errorf("%w: item %s", ErrNotFound, itemID)
}

// --- config ---

func (s *Service) UpdateConfig(config models.EstimateConfig) (models.EstimateConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if config.EquipmentPercentage < 0 {
		return models.EstimateConfig{}, fmt.Errorf("%w: equipment percentage cannot be negative", ErrValidation)
	}
	s.state.Config = config

	if err := s.store.Save(s.state); err != nil {
		return models.EstimateConfig{}, err
	}
	return s.state.Config, nil
}

// --- internals, caller must hold the lock ---

func (s *Service) resyncPrices() {
	s.state = pricesync.Sync(s.state.Products, s.state)
}

func (s *Service) catalogPrices() map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(s.state.Products))
	for _, p := range s.state.Products {
		prices[strings.ToLower(strings.TrimSpace(p.Code))] = p.Value
	}
	return prices
}

func (s *Service) findProduct(id string) int {
	for i := range s.state.Products {
		if s.state.Products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) findProductByCode(code string) int {
	code = strings.ToLower(strings.TrimSpace(code))
	for i := range s.state.Products {
		if strings.ToLower(strings.TrimSpace(s.state.Products[i].Code)) == code {
			return i
		}
	}
	return -1
}

func (s *Service) findTemplate(id string) int {
	for i := range s.state.RouteTemplates {
		if s.state.RouteTemplates[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) findTemplateByName(name string) int {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := range s.state.RouteTemplates {
		if strings.ToLower(s.state.RouteTemplates[i].Name) == name {
			return i
		}
	}
	return -1
}

func (s *Service) findProject(id string) int {
	for i := range s.state.Projects {
		if s.state.Projects[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) lookupRoute(projectID, routeID string) (*models.ProjectRoute, error) {
	pIdx := s.findProject(projectID)
	if pIdx < 0 {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	routes := s.state.Projects[pIdx].Routes
	for i := range routes {
		if routes[i].ID == routeID {
			return &routes[i], nil
		}
	}
	return nil, fmt.Errorf("%w: route %s", ErrNotFound, routeID)
}

func normalizeTemplateItems(items []models.TemplateItem) []models.TemplateItem {
	normalized := make([]models.TemplateItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Code) == "" || item.Quantity <= 0 {
			continue
		}
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		normalized = append(normalized, item)
	}
	return normalized
}

func itemTotal(item models.ProjectItem) decimal.Decimal {
	return item.Value.Mul(decimal.NewFromFloat(item.Quantity))
}

func cloneState(state models.EstimateState) models.EstimateState {
	out := models.EstimateState{
		Products:       append([]models.CatalogProduct(nil), state.Products...),
		RouteTemplates: make([]models.RouteTemplate, len(state.RouteTemplates)),
		Projects:       make([]models.Project, len(state.Projects)),
		Config:         state.Config,
	}
	for i, template := range state.RouteTemplates {
		template.Items = append([]models.TemplateItem(nil), template.Items...)
		out.RouteTemplates[i] = template
	}
	for i, project := range state.Projects {
		routes := make([]models.ProjectRoute, len(project.Routes))
		for j, route := range project.Routes {
			route.Items = append([]models.ProjectItem(nil), route.Items...)
			routes[j] = route
		}
		project.Routes = routes
		out.Projects[i] = project
	}
	return out
}
