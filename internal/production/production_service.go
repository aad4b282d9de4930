package production

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/AlphaDevs01/controleProducao/internal/planner"
	"github.com/AlphaDevs01/controleProducao/internal/repository"
	"github.com/AlphaDevs01/controleProducao/pkg/models"
)

var (
	ErrInvalidPlan     = errors.New("a product code and a positive quantity are required")
	ErrProductNotFound = errors.New("product not found")
	ErrRouteNotFound   = errors.New("no production route found for this product")
)

// InsufficientStockError reports which input blocked a durable execution and
// what was actually available at execution time.
type InsufficientStockError struct {
	InputProductCode string
	Required         float64
	Available        int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: needed %v, have %d",
		e.InputProductCode, e.Required, e.Available)
}

// SnapshotRepository supplies the read snapshots the planner consumes.
type SnapshotRepository interface {
	GetStockMap() (map[string]int, error)
	GetDescriptionMap() (map[string]string, error)
}

// RouteRepository supplies every bill of materials keyed by final product.
type RouteRepository interface {
	GetRouteMap() (map[string]models.ProductionRoute, error)
}

type ProductionService struct {
	r              *repository.Repository
	productionRepo *ProductionRepository
	snapshots      SnapshotRepository
	routes         RouteRepository
}

func NewService(r *repository.Repository, pr *ProductionRepository, snapshots SnapshotRepository, routes RouteRepository) *ProductionService {
	return &ProductionService{
		r:              r,
		productionRepo: pr,
		snapshots:      snapshots,
		routes:         routes,
	}
}

// loadSnapshot reads the production data once; the planner then works on it
// without touching the database again.
func (s *ProductionService) loadSnapshot() (planner.Snapshot, error) {
	stock, err := s.snapshots.GetStockMap()
	if err != nil {
		return planner.Snapshot{}, err
	}
	descriptions, err := s.snapshots.GetDescriptionMap()
	if err != nil {
		return planner.Snapshot{}, err
	}
	routes, err := s.routes.GetRouteMap()
	if err != nil {
		return planner.Snapshot{}, err
	}

	return planner.Snapshot{
		Stock:        stock,
		Routes:       routes,
		Descriptions: descriptions,
	}, nil
}

// CalculateSingle evaluates one plan against current stock.
func (s *ProductionService) CalculateSingle(plan models.ProductionPlan) (models.PlanResult, error) {
	snap, err := s.loadSnapshot()
	if err != nil {
		return models.PlanResult{}, err
	}

	return planner.Calculate(plan, snap), nil
}

// CalculateBatch evaluates an ordered list of plans against a shared
// simulated stock pool, depleting in list order.
func (s *ProductionService) CalculateBatch(plans []models.ProductionPlan) ([]models.PlanResult, error) {
	snap, err := s.loadSnapshot()
	if err != nil {
		return nil, err
	}

	return planner.CalculateBatch(plans, snap), nil
}

// ExecuteProduction durably consumes input stock and produces the finished
// product. Sufficiency is re-validated inside the transaction at execution
// time; a stale plan result is never trusted.
func (s *ProductionService) ExecuteProduction(plan models.ProductionPlan, productionOrder *string) error {
	if strings.TrimSpace(plan.ProductCode) == "" || plan.Quantity <= 0 {
		return ErrInvalidPlan
	}

	snap, err := s.loadSnapshot()
	if err != nil {
		return err
	}
	if _, ok := snap.Descriptions[plan.ProductCode]; !ok {
		return ErrProductNotFound
	}
	route, ok := snap.Routes[plan.ProductCode]
	if !ok {
		return ErrRouteNotFound
	}

	return repository.WithTransaction(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		for _, input := range route.Inputs {
			required := input.QuantityPerUnit * float64(plan.Quantity)

			query := tx.Update("products").
				Set(goqu.Record{
					"quantidade_estoque": goqu.L("quantidade_estoque - ?", required),
				}).
				Where(goqu.Ex{"codigo": input.InputProductCode}).
				Where(goqu.L("quantidade_estoque >= ?", required))

			result, err := query.Executor().Exec()
			if err != nil {
				return fmt.Errorf("failed to consume stock of %s: %w", input.InputProductCode, err)
			}
			rows, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to check rows affected: %w", err)
			}
			if rows == 0 {
				var available int
				tx.Select("quantidade_estoque").
					From("products").
					Where(goqu.Ex{"codigo": input.InputProductCode}).
					Executor().ScanVal(&available)
				return &InsufficientStockError{
					InputProductCode: input.InputProductCode,
					Required:         required,
					Available:        available,
				}
			}
		}

		incrementQuery := tx.Update("products").
			Set(goqu.Record{
				"quantidade_estoque": goqu.L("quantidade_estoque + ?", plan.Quantity),
			}).
			Where(goqu.Ex{"codigo": plan.ProductCode})
		if _, err := incrementQuery.Executor().Exec(); err != nil {
			return fmt.Errorf("failed to add produced stock of %s: %w", plan.ProductCode, err)
		}

		return s.productionRepo.InsertProductionRecord(tx, models.ProductionRecord{
			ProductCode:      plan.ProductCode,
			QuantityProduced: plan.Quantity,
			ProductionOrder:  productionOrder,
			Status:           "completed",
			ProducedAt:       time.Now(),
		})
	})
}

// SavePlans stores an ordered batch verbatim for later re-display. The
// planner is deliberately not re-run here.
func (s *ProductionService) SavePlans(plans []models.PlannedProduction) error {
	return s.productionRepo.SavePlannedProductions(plans)
}

// GetHistory returns the 50 most recent production records.
func (s *ProductionService) GetHistory() ([]models.ProductionRecord, error) {
	return s.productionRepo.GetRecentProductions(50)
}
