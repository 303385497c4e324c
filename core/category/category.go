package category

type Category struct {
	ID           int    `json:"id" db:"category_id"`
	Title        string `json:"title" db:"title"`
	Description  string `json:"description" db:"description"`
	TopProductID *int   `json:"topProductId" db:"top_product_id"`
}

type CategoryNew struct {
	Title        string `json:"title" validate:"required,max=255"`
	Description  string `json:"description" validate:"max=500"`
	TopProductID *int   `json:"topProductId"`
}

type CategoryUp struct {
	Title        *string `json:"title" validate:"omitempty,max=255"`
	Description  *string `json:"description" validate:"omitempty,max=500"`
	TopProductID *int    `json:"topProductId"`
}
