package models

// ProductionRoute is the bill of materials for one finished product.
// At most one route exists per final product code.
type ProductionRoute struct {
	ID                      int          `json:"id"`
	FinalProductCode        string       `json:"codigo_produto_final"`
	FinalProductDescription *string      `json:"descricao_produto_final,omitempty"`
	Inputs                  []RouteInput `json:"insumos"`
}

// RouteInput is the quantity of one input product consumed to produce a
// single unit of the route's final product.
type RouteInput struct {
	InputProductCode string  `json:"codigo_produto_insumo"`
	QuantityPerUnit  float64 `json:"quantidade_utilizada"`
	InputDescription *string `json:"descricao_insumo,omitempty"`
}

// RouteInputFlat mirrors a joined route_inputs row.
type RouteInputFlat struct {
	RouteID          int      `db:"route_id"`
	InputProductCode string   `db:"codigo_produto_insumo"`
	QuantityPerUnit  float64  `db:"quantidade_utilizada"`
	InputDescription *string  `db:"descricao_insumo"`
}
