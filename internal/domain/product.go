package domain

// Product is the catalog view the cart-to-order pipeline consumes: current
// price, stock on hand and the variant set. The full catalog document (brand,
// images, ratings) belongs to the catalog CRUD layer and is not modelled here.
type Product struct {
	ID       string   `bson:"_id,omitempty"`
	Title    string   `bson:"title"`
	Price    float64  `bson:"price"`
	Quantity int      `bson:"quantity"`
	Sold     int      `bson:"sold"`
	Colors   []string `bson:"color"`
}

// DefaultVariant is the color a line falls back to when the client does not
// pick one.
func (p *Product) DefaultVariant() string {
	if len(p.Colors) > 0 {
		return p.Colors[0]
	}
	return DefaultColor
}

// HasVariant reports whether color is a member of the product's variant set.
func (p *Product) HasVariant(color string) bool {
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}

// StockAdjustment is one entry of the bulk update applied at order placement:
// quantity goes down by Count, sold goes up by Count.
type StockAdjustment struct {
	ProductID string
	Count     int
}
