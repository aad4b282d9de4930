package boms

import (
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/AlphaDevs01/controleProducao/internal/repository"
	custom_error "github.com/AlphaDevs01/controleProducao/pkg/errors"
	"github.com/AlphaDevs01/controleProducao/pkg/models"
)

var ErrRouteNotFound = sql.ErrNoRows

type BomRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *BomRepository {
	return &BomRepository{repository: r}
}

type routeRow struct {
	ID                      int     `db:"id"`
	FinalProductCode        string  `db:"codigo_produto_final"`
	FinalProductDescription *string `db:"descricao_produto_final"`
}

// GetRoutes lists every production route with its inputs, both enriched with
// product descriptions, ordered by final product code.
func (r *BomRepository) GetRoutes() ([]models.ProductionRoute, error) {
	var rows []routeRow

	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("pr.id").As("id"),
			goqu.I("pr.codigo_produto_final").As("codigo_produto_final"),
			goqu.I("p.descricao").As("descricao_produto_final"),
		).
		From(goqu.T("production_routes").As("pr")).
		LeftJoin(
			goqu.T("products").As("p"),
			goqu.On(goqu.Ex{"p.codigo": goqu.I("pr.codigo_produto_final")}),
		).
		Order(goqu.I("pr.codigo_produto_final").Asc())

	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("failed to list production routes: %w", err)
	}

	inputsByRoute, err := r.getInputsByRoute()
	if err != nil {
		return nil, err
	}

	routes := make([]models.ProductionRoute, 0, len(rows))
	for _, row := range rows {
		routes = append(routes, models.ProductionRoute{
			ID:                      row.ID,
			FinalProductCode:        row.FinalProductCode,
			FinalProductDescription: row.FinalProductDescription,
			Inputs:                  inputsByRoute[row.ID],
		})
	}

	return routes, nil
}

func (r *BomRepository) GetRoute(id int) (*models.ProductionRoute, error) {
	var row routeRow

	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("pr.id").As("id"),
			goqu.I("pr.codigo_produto_final").As("codigo_produto_final"),
			goqu.I("p.descricao").As("descricao_produto_final"),
		).
		From(goqu.T("production_routes").As("pr")).
		LeftJoin(
			goqu.T("products").As("p"),
			goqu.On(goqu.Ex{"p.codigo": goqu.I("pr.codigo_produto_final")}),
		).
		Where(goqu.Ex{"pr.id": id})

	found, err := query.Executor().ScanStruct(&row)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch production route %d: %w", id, err)
	}
	if !found {
		return nil, ErrRouteNotFound
	}

	inputs, err := r.getRouteInputs(id)
	if err != nil {
		return nil, err
	}

	return &models.ProductionRoute{
		ID:                      row.ID,
		FinalProductCode:        row.FinalProductCode,
		FinalProductDescription: row.FinalProductDescription,
		Inputs:                  inputs,
	}, nil
}

// GetRouteMap loads every route keyed by final product code, the shape the
// planner consumes.
func (r *BomRepository) GetRouteMap() (map[string]models.ProductionRoute, error) {
	routes, err := r.GetRoutes()
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]models.ProductionRoute, len(routes))
	for _, route := range routes {
		byCode[route.FinalProductCode] = route
	}

	return byCode, nil
}

func (r *BomRepository) RouteExistsForProduct(code string, excludeRouteID int) (bool, error) {
	query := r.repository.GoquDBWrapper.
		Select(goqu.COUNT("*")).
		From("production_routes").
		Where(goqu.Ex{"codigo_produto_final": code})
	if excludeRouteID > 0 {
		query = query.Where(goqu.I("id").Neq(excludeRouteID))
	}

	var count int64
	if _, err := query.Executor().ScanVal(&count); err != nil {
		return false, fmt.Errorf("failed to check route existence for %s: %w", code, err)
	}

	return count > 0, nil
}

func (r *BomRepository) PersistRoute(finalProductCode string, inputs []models.RouteInput) (*models.ProductionRoute, error) {
	var routeID int

	err := repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		query := tx.Insert("production_routes").
			Rows(goqu.Record{"codigo_produto_final": finalProductCode}).
			Returning("id")

		if _, err := query.Executor().ScanVal(&routeID); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return custom_error.WrapDBError("production route for "+finalProductCode, string(pqErr.Code))
			}
			return fmt.Errorf("failed to insert production route: %w", err)
		}

		return insertInputs(tx, routeID, inputs)
	})
	if err != nil {
		return nil, err
	}

	return r.GetRoute(routeID)
}

// ReplaceRoute updates the final product code and swaps the full input list.
func (r *BomRepository) ReplaceRoute(id int, finalProductCode string, inputs []models.RouteInput) (*models.ProductionRoute, error) {
	err := repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		updateQuery := tx.Update("production_routes").
			Set(goqu.Record{"codigo_produto_final": finalProductCode}).
			Where(goqu.Ex{"id": id})

		result, err := updateQuery.Executor().Exec()
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return custom_error.WrapDBError("production route for "+finalProductCode, string(pqErr.Code))
			}
			return fmt.Errorf("failed to update production route %d: %w", id, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check rows affected: %w", err)
		}
		if rows == 0 {
			return ErrRouteNotFound
		}

		deleteQuery := tx.Delete("route_inputs").Where(goqu.Ex{"route_id": id})
		if _, err := deleteQuery.Executor().Exec(); err != nil {
			return fmt.Errorf("failed to clear inputs of route %d: %w", id, err)
		}

		return insertInputs(tx, id, inputs)
	})
	if err != nil {
		return nil, err
	}

	return r.GetRoute(id)
}

func (r *BomRepository) RemoveRoute(id int) error {
	// route_inputs rows go away via ON DELETE CASCADE
	query := r.repository.GoquDBWrapper.Delete("production_routes").
		Where(goqu.Ex{"id": id})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete production route %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRouteNotFound
	}

	return nil
}

func insertInputs(tx *goqu.TxDatabase, routeID int, inputs []models.RouteInput) error {
	for _, input := range inputs {
		query := tx.Insert("route_inputs").
			Rows(goqu.Record{
				"route_id":              routeID,
				"codigo_produto_insumo": input.InputProductCode,
				"quantidade_utilizada":  input.QuantityPerUnit,
			})

		if _, err := query.Executor().Exec(); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return custom_error.WrapDBError("route input "+input.InputProductCode, string(pqErr.Code))
			}
			return fmt.Errorf("failed to insert route input %s: %w", input.InputProductCode, err)
		}
	}
	return nil
}

func (r *BomRepository) getRouteInputs(routeID int) ([]models.RouteInput, error) {
	byRoute, err := r.inputsForRoutes(goqu.Ex{"ri.route_id": routeID})
	if err != nil {
		return nil, err
	}
	return byRoute[routeID], nil
}

func (r *BomRepository) getInputsByRoute() (map[int][]models.RouteInput, error) {
	return r.inputsForRoutes(nil)
}

func (r *BomRepository) inputsForRoutes(where goqu.Ex) (map[int][]models.RouteInput, error) {
	var flat []models.RouteInputFlat

	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("ri.route_id").As("route_id"),
			goqu.I("ri.codigo_produto_insumo").As("codigo_produto_insumo"),
			goqu.I("ri.quantidade_utilizada").As("quantidade_utilizada"),
			goqu.I("p.descricao").As("descricao_insumo"),
		).
		From(goqu.T("route_inputs").As("ri")).
		LeftJoin(
			goqu.T("products").As("p"),
			goqu.On(goqu.Ex{"p.codigo": goqu.I("ri.codigo_produto_insumo")}),
		).
		Order(goqu.I("ri.id").Asc())
	if where != nil {
		query = query.Where(where)
	}

	if err := query.Executor().ScanStructs(&flat); err != nil {
		return nil, fmt.Errorf("failed to list route inputs: %w", err)
	}

	byRoute := make(map[int][]models.RouteInput)
	for _, row := range flat {
		byRoute[row.RouteID] = append(byRoute[row.RouteID], models.RouteInput{
			InputProductCode: row.InputProductCode,
			QuantityPerUnit:  row.QuantityPerUnit,
			InputDescription: row.InputDescription,
		})
	}

	return byRoute, nil
}
