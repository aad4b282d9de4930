package dashboard

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/AlphaDevs01/controleProducao/internal/repository"
)

type DashboardRepository struct {
	r *repository.Repository
}

func NewDashboardRepository(r *repository.Repository) *DashboardRepository {
	return &DashboardRepository{r: r}
}

// Summary is the aggregate view the landing page renders.
type Summary struct {
	TotalProducts     int64 `json:"totalProducts"`
	TotalRoutes       int64 `json:"totalRoutes"`
	LowStockItems     int64 `json:"lowStockItems"`
	RecentProductions int64 `json:"recentProductions"`
}

func (r *DashboardRepository) GetSummary() (Summary, error) {
	var summary Summary

	count, err := r.r.GoquDBWrapper.From("products").Count()
	if err != nil {
		return summary, fmt.Errorf("failed to count products: %w", err)
	}
	summary.TotalProducts = count

	count, err = r.r.GoquDBWrapper.From("production_routes").Count()
	if err != nil {
		return summary, fmt.Errorf("failed to count production routes: %w", err)
	}
	summary.TotalRoutes = count

	// Items at exactly zero are "out", not "low"; the cutoff matches the
	// reorder threshold used on the inventory screen.
	count, err = r.r.GoquDBWrapper.From("products").
		Where(
			goqu.C("quantidade_estoque").Gt(0),
			goqu.C("quantidade_estoque").Lt(10),
		).
		Count()
	if err != nil {
		return summary, fmt.Errorf("failed to count low stock items: %w", err)
	}
	summary.LowStockItems = count

	count, err = r.r.GoquDBWrapper.From("productions").
		Where(goqu.C("data_producao").Gte(goqu.L("NOW() - INTERVAL '30 days'"))).
		Count()
	if err != nil {
		return summary, fmt.Errorf("failed to count recent productions: %w", err)
	}
	summary.RecentProductions = count

	return summary, nil
}
