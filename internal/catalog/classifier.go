package catalog

import "strings"

// ClassifyName derives a category name from a stock item name using the
// keyword conventions of the shop's historical spreadsheets.
func ClassifyName(stockName string) string {
	name := strings.ToLower(strings.TrimSpace(stockName))
	contains := func(sub string) bool { return strings.Contains(name, sub) }

	switch {
	case contains("kid"):
		switch {
		case contains("shoe"):
			return "Kid's Shoes"
		case contains("sandal"):
			return "Kid's Sandal"
		case contains("jean"):
			return "Kid's Jeans"
		case contains("shirt"):
			return "Kid's Shirt"
		case contains("bag"):
			return "Kid's Bags"
		case contains("crocks"), contains("flip"):
			return "Kid's Footwear"
		default:
			return "Kid's Wear"
		}
	case contains("men"):
		switch {
		case contains("shoe"):
			return "Men's Shoes"
		case contains("jean"):
			return "Men's Jeans"
		case contains("shirt"):
			return "Men's Shirts"
		case contains("pant"), contains("trouser"):
			return "Men's Trousers"
		case contains("cargo"):
			return "Men's Cargo"
		case contains("lower"):
			return "Men's Lower"
		default:
			return "Men's Wear"
		}
	case contains("shoe"):
		return "Shoes"
	case contains("lofer"):
		return "Lofer Shoes"
	case contains("hitway"), contains("abros"):
		return "Sports Shoes"
	default:
		return "Miscellaneous"
	}
}
