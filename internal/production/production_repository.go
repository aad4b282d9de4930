package production

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/AlphaDevs01/controleProducao/internal/repository"
	"github.com/AlphaDevs01/controleProducao/pkg/models"
)

type ProductionRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ProductionRepository {
	return &ProductionRepository{repository: r}
}

// InsertProductionRecord appends one history row inside the caller's
// transaction.
func (r *ProductionRepository) InsertProductionRecord(tx *goqu.TxDatabase, record models.ProductionRecord) error {
	query := tx.Insert("productions").
		Rows(goqu.Record{
			"codigo_produto":       record.ProductCode,
			"quantidade_produzida": record.QuantityProduced,
			"ordem_producao":       record.ProductionOrder,
			"status":               record.Status,
			"ordem":                record.Ordinal,
			"data_producao":        record.ProducedAt,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert production record: %w", err)
	}

	return nil
}

// SavePlannedProductions stores an ordered plan list verbatim. The ordinal
// column preserves the priority position each plan held in the batch.
func (r *ProductionRepository) SavePlannedProductions(plans []models.PlannedProduction) error {
	return repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		now := time.Now()
		for i, plan := range plans {
			ordinal := i + 1
			record := models.ProductionRecord{
				ProductCode:      plan.ProductCode,
				QuantityProduced: plan.Quantity,
				ProductionOrder:  plan.ProductionOrder,
				Status:           "planned",
				Ordinal:          &ordinal,
				ProducedAt:       now,
			}
			if err := r.InsertProductionRecord(tx, record); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetRecentProductions returns the newest history rows, enriched with the
// product description when the product still exists.
func (r *ProductionRepository) GetRecentProductions(limit uint) ([]models.ProductionRecord, error) {
	var records []models.ProductionRecord

	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("pd.id").As("id"),
			goqu.I("pd.codigo_produto").As("codigo_produto"),
			goqu.I("p.descricao").As("descricao_produto"),
			goqu.I("pd.quantidade_produzida").As("quantidade_produzida"),
			goqu.I("pd.ordem_producao").As("ordem_producao"),
			goqu.I("pd.status").As("status"),
			goqu.I("pd.ordem").As("ordem"),
			goqu.I("pd.data_producao").As("data_producao"),
		).
		From(goqu.T("productions").As("pd")).
		LeftJoin(
			goqu.T("products").As("p"),
			goqu.On(goqu.Ex{"p.codigo": goqu.I("pd.codigo_produto")}),
		).
		Order(goqu.I("pd.data_producao").Desc(), goqu.I("pd.id").Desc()).
		Limit(limit)

	if err := query.Executor().ScanStructs(&records); err != nil {
		return nil, fmt.Errorf("failed to list productions: %w", err)
	}

	return records, nil
}
