package categories

// Category は item_categories テーブルの1行を表す．
// serial_tracked と required_fields が機材バリデーションの文脈になる
type Category struct {
	CategoryID     uint     `json:"id"`
	Name           string   `json:"name"`
	SerialTracked  bool     `json:"serial_tracked"`
	RequiredFields []string `json:"required_fields"`
	IsDisabled     bool     `json:"is_disabled"`
}

type CreateCategoryRequest struct {
	Name           string   `json:"name" binding:"required"`
	SerialTracked  bool     `json:"serial_tracked"`
	RequiredFields []string `json:"required_fields"`
}

type UpdateCategoryRequest struct {
	Name           string   `json:"name" binding:"required"`
	SerialTracked  bool     `json:"serial_tracked"`
	RequiredFields []string `json:"required_fields"`
	IsDisabled     bool     `json:"is_disabled"`
}
