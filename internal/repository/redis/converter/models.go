package converter

// ProductSnapshotRedisModel — снимок карточки товара внутри строки слота корзины.
type ProductSnapshotRedisModel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"imageUrl"`
	Category  string `json:"category"`
	ShowPrice bool   `json:"showPrice"`
}

// CartLineRedisModel — строка корзины в формате слота хранения.
type CartLineRedisModel struct {
	LineID    string                    `json:"lineId"`
	ProductID string                    `json:"productId"`
	Quantity  int                       `json:"quantity"`
	Product   ProductSnapshotRedisModel `json:"product"`
}

// ProductCardRedisModel — карточка товара в кэше.
type ProductCardRedisModel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"imageUrl"`
	Category  string `json:"category"`
	ShowPrice bool   `json:"showPrice"`
}
