package search

// Category buckets a stock by share price.
type Category string

const (
	CategoryLow    Category = "low"
	CategoryMedium Category = "medium"
	CategoryHigh   Category = "high"
)

// Categorize maps a share price to its category: above $100 is high,
// $10 through $100 inclusive is medium, everything below is low.
func Categorize(price float64) Category {
	switch {
	case price > 100:
		return CategoryHigh
	case price >= 10:
		return CategoryMedium
	default:
		return CategoryLow
	}
}
