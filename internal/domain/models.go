package domain

type Size struct {
	Size     string `db:"size" json:"size"`
	Quantity int    `db:"quantity" json:"quantity"`
}

type Product struct {
	ID    string  `db:"id"`
	Name  string  `db:"name"`
	Price float64 `db:"price"`
	Sizes []Size  `db:"-"`
}

// ProductSummary is the list projection of a product; sizes are left out.
type ProductSummary struct {
	ID    string  `db:"id" json:"id"`
	Name  string  `db:"name" json:"name"`
	Price float64 `db:"price" json:"price"`
}

// OrderItem is what gets stored per line: a product reference and a quantity.
// Product name and price are not snapshotted.
type OrderItem struct {
	ProductID string `db:"product_id"`
	Qty       int    `db:"qty"`
}

type Order struct {
	ID     string      `db:"id"`
	UserID string      `db:"user_id"`
	Items  []OrderItem `db:"-"`
	Total  float64     `db:"total"`
}

type ProductDetails struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type OrderLine struct {
	Qty            int            `json:"qty"`
	ProductDetails ProductDetails `json:"productDetails"`
}

// OrderView is an order joined with the current names of the products it references.
type OrderView struct {
	ID    string      `json:"id"`
	Items []OrderLine `json:"items"`
	Total float64     `json:"total"`
}

// ProductFilter narrows a product listing. Empty fields match everything.
type ProductFilter struct {
	Name string
	Size string
}
