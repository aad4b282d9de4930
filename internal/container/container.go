package container

import (
	"database/sql"

	"github.com/AlphaDevs01/controleProducao/internal/boms"
	"github.com/AlphaDevs01/controleProducao/internal/dashboard"
	"github.com/AlphaDevs01/controleProducao/internal/estimator"
	"github.com/AlphaDevs01/controleProducao/internal/inventory"
	"github.com/AlphaDevs01/controleProducao/internal/production"
	"github.com/AlphaDevs01/controleProducao/internal/products"
	"github.com/AlphaDevs01/controleProducao/internal/repository"
	"github.com/AlphaDevs01/controleProducao/pkg/security"
)

type Container struct {
	Repository        *repository.Repository
	LoginHandler      *security.LoginHandler
	ProductHandler    *products.ProductHandler
	BomHandler        *boms.BomHandler
	InventoryHandler  *inventory.InventoryHandler
	ProductionHandler *production.ProductionHandler
	EstimatorHandler  *estimator.EstimatorHandler
	DashboardHandler  *dashboard.DashboardHandler
}

func NewAppContainer(db *sql.DB) (*Container, error) {
	repo := repository.NewRepository(db)

	productRepo := products.NewRepository(repo)
	bomRepo := boms.NewRepository(repo)
	inventoryRepo := inventory.NewRepository(repo)
	productionRepo := production.NewRepository(repo)
	dashboardRepo := dashboard.NewDashboardRepository(repo)

	productionService := production.NewService(repo, productionRepo, inventoryRepo, bomRepo)

	estimatorStore := estimator.NewStore(repo)
	estimatorService, err := estimator.NewService(estimatorStore)
	if err != nil {
		return nil, err
	}

	return &Container{
		Repository:        repo,
		LoginHandler:      security.NewLoginHandler(repo),
		ProductHandler:    products.NewProductHandler(productRepo),
		BomHandler:        boms.NewBomHandler(bomRepo, productRepo),
		InventoryHandler:  inventory.NewInventoryHandler(inventoryRepo, productRepo),
		ProductionHandler: production.NewProductionHandler(productionService),
		EstimatorHandler:  estimator.NewEstimatorHandler(estimatorService),
		DashboardHandler:  dashboard.NewDashboardHandler(dashboardRepo),
	}, nil
}
