package models

// Product is a stock-bearing catalog entry. The code is the natural primary
// key; the same table backs finished products and raw inputs.
type Product struct {
	Code          string  `json:"codigo" db:"codigo"`
	Description   string  `json:"descricao" db:"descricao"`
	Family        *string `json:"familia,omitempty" db:"familia"`
	StockQuantity int     `json:"quantidade_estoque" db:"quantidade_estoque"`
}
