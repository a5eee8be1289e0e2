package domain

// PlaceholderName — сентинельное имя товара до завершения гидрации строки.
const PlaceholderName = "Loading..."

// ProductSnapshot — денормализованный снимок карточки товара внутри строки корзины.
// Принадлежит исключительно корзине и обновляется ровно один раз при гидрации.
type ProductSnapshot struct {
	ID        string
	Name      string
	Price     int64 // Цена хранится в центах
	ImageURL  string
	Category  string
	ShowPrice bool
}

// CartLine — одна строка корзины: товар, его количество и снимок карточки.
// LineID стабилен на всё время жизни строки и служит ключом для патча гидрации.
type CartLine struct {
	LineID    string
	ProductID string
	Quantity  int
	Product   ProductSnapshot
}

// NewCartLine создает строку корзины с заглушкой вместо данных товара.
func NewCartLine(lineID string, productID string, quantity int) *CartLine {
	return &CartLine{
		LineID:    lineID,
		ProductID: productID,
		Quantity:  quantity,
		Product:   NewPlaceholderSnapshot(productID),
	}
}

// NewPlaceholderSnapshot возвращает снимок-заглушку для ещё не гидрированной строки.
func NewPlaceholderSnapshot(productID string) ProductSnapshot {
	return ProductSnapshot{
		ID:        productID,
		Name:      PlaceholderName,
		Price:     0,
		ImageURL:  "",
		Category:  "",
		ShowPrice: true,
	}
}
