package products

import (
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/AlphaDevs01/controleProducao/internal/repository"
	custom_error "github.com/AlphaDevs01/controleProducao/pkg/errors"
	"github.com/AlphaDevs01/controleProducao/pkg/models"
)

var ErrProductNotFound = sql.ErrNoRows

type ProductRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ProductRepository {
	return &ProductRepository{repository: r}
}

// columnAliases maps API filter names onto the products columns.
var columnAliases = map[string]string{
	"family": "familia",
}

func (r *ProductRepository) GetProducts(qb repository.QueryBuilder) ([]models.Product, error) {
	var products []models.Product

	query := r.repository.GoquDBWrapper.
		Select("codigo", "descricao", "familia", "quantidade_estoque").
		From("products").
		Order(goqu.I("codigo").Asc())

	if qb != nil {
		if conditions := qb.BuildConditions(columnAliases); len(conditions) > 0 {
			query = query.Where(conditions)
		}
	}

	if err := query.Executor().ScanStructs(&products); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// SearchProducts matches the term against code and description,
// case-insensitively, returning at most 10 hits.
func (r *ProductRepository) SearchProducts(term string) ([]models.Product, error) {
	var products []models.Product

	pattern := "%" + term + "%"
	query := r.repository.GoquDBWrapper.
		Select("codigo", "descricao", "familia", "quantidade_estoque").
		From("products").
		Where(goqu.Or(
			goqu.I("codigo").ILike(pattern),
			goqu.I("descricao").ILike(pattern),
		)).
		Limit(10)

	if err := query.Executor().ScanStructs(&products); err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) GetProduct(code string) (*models.Product, error) {
	var product models.Product

	query := r.repository.GoquDBWrapper.
		Select("codigo", "descricao", "familia", "quantidade_estoque").
		From("products").
		Where(goqu.Ex{"codigo": code})

	found, err := query.Executor().ScanStruct(&product)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", code, err)
	}
	if !found {
		return nil, ErrProductNotFound
	}

	return &product, nil
}

func (r *ProductRepository) PersistProduct(product *models.Product) error {
	query := r.repository.GoquDBWrapper.Insert("products").
		Rows(goqu.Record{
			"codigo":             product.Code,
			"descricao":          product.Description,
			"familia":            product.Family,
			"quantidade_estoque": product.StockQuantity,
		})

	if _, err := query.Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("duplicate product code "+product.Code, string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

func (r *ProductRepository) UpdateProduct(product *models.Product) error {
	query := r.repository.GoquDBWrapper.Update("products").
		Set(goqu.Record{
			"descricao":          product.Description,
			"familia":            product.Family,
			"quantidade_estoque": product.StockQuantity,
		}).
		Where(goqu.Ex{"codigo": product.Code})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", product.Code, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *ProductRepository) RemoveProduct(code string) error {
	query := r.repository.GoquDBWrapper.Delete("products").
		Where(goqu.Ex{"codigo": code})

	result, err := query.Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("product "+code, string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete product %s: %w", code, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrProductNotFound
	}

	return nil
}

// UpsertProducts bulk-imports catalog rows, updating existing codes in place.
func (r *ProductRepository) UpsertProducts(products []models.Product) (int, error) {
	imported := 0

	err := repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		for _, product := range products {
			query := tx.Insert("products").
				Rows(goqu.Record{
					"codigo":             product.Code,
					"descricao":          product.Description,
					"familia":            product.Family,
					"quantidade_estoque": product.StockQuantity,
				}).
				OnConflict(goqu.DoUpdate("codigo", goqu.Record{
					"descricao":          product.Description,
					"familia":            product.Family,
					"quantidade_estoque": product.StockQuantity,
				}))

			if _, err := query.Executor().Exec(); err != nil {
				return fmt.Errorf("failed to upsert product %s: %w", product.Code, err)
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return imported, nil
}
