package inventory

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/AlphaDevs01/controleProducao/internal/repository"
)

// ErrInsufficientStock is returned when a negative adjustment would push a
// product's stock below zero.
var ErrInsufficientStock = errors.New("stock adjustment would go below zero")

type InventoryRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *InventoryRepository {
	return &InventoryRepository{repository: r}
}

// GetStockMap loads current stock for every product, keyed by code. This is
// the snapshot shape the planner consumes.
func (r *InventoryRepository) GetStockMap() (map[string]int, error) {
	type stockRow struct {
		Code          string `db:"codigo"`
		StockQuantity int    `db:"quantidade_estoque"`
	}
	var rows []stockRow

	query := r.repository.GoquDBWrapper.
		Select("codigo", "quantidade_estoque").
		From("products")

	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("failed to load stock snapshot: %w", err)
	}

	stock := make(map[string]int, len(rows))
	for _, row := range rows {
		stock[row.Code] = row.StockQuantity
	}

	return stock, nil
}

// GetDescriptionMap loads product descriptions keyed by code.
func (r *InventoryRepository) GetDescriptionMap() (map[string]string, error) {
	type descRow struct {
		Code        string `db:"codigo"`
		Description string `db:"descricao"`
	}
	var rows []descRow

	query := r.repository.GoquDBWrapper.
		Select("codigo", "descricao").
		From("products")

	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("failed to load product descriptions: %w", err)
	}

	descriptions := make(map[string]string, len(rows))
	for _, row := range rows {
		descriptions[row.Code] = row.Description
	}

	return descriptions, nil
}

// AdjustStock applies a signed delta to a product's stock. The WHERE guard
// keeps the quantity from ever going negative; zero rows affected means the
// adjustment was rejected.
func (r *InventoryRepository) AdjustStock(code string, delta int) error {
	query := r.repository.GoquDBWrapper.Update("products").
		Set(goqu.Record{
			"quantidade_estoque": goqu.L("quantidade_estoque + ?", delta),
		}).
		Where(goqu.Ex{"codigo": code}).
		Where(goqu.L("quantidade_estoque + ? >= 0", delta))

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to adjust stock for %s: %w", code, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrInsufficientStock
	}

	return nil
}

// SetStock overwrites the absolute stock quantity of a product, reporting
// whether the product existed.
func (r *InventoryRepository) SetStock(code string, quantity int) (bool, error) {
	query := r.repository.GoquDBWrapper.Update("products").
		Set(goqu.Record{"quantidade_estoque": quantity}).
		Where(goqu.Ex{"codigo": code})

	result, err := query.Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to set stock for %s: %w", code, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return rows > 0, nil
}

// ResetAllStock zeroes every product's stock.
func (r *InventoryRepository) ResetAllStock() error {
	query := r.repository.GoquDBWrapper.Update("products").
		Set(goqu.Record{"quantidade_estoque": 0})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to reset stock: %w", err)
	}

	return nil
}
