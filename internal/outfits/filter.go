package outfits

import "strings"

const CategoryAll = "All"

// Categories lists the filter values in display order.
var Categories = []string{
	CategoryAll, "Casual", "Formal", "Business", "Party", "Wedding",
	"Sports", "Travel", "Loungewear", "Traditional", "Seasonal",
}

// categoryOf maps lower-cased occasion/style labels to a category.
var categoryOf = map[string]string{
	"casual":                   "Casual",
	"formal":                   "Formal",
	"business":                 "Business",
	"office":                   "Business",
	"business / office":        "Business",
	"party":                    "Party",
	"celebration":              "Party",
	"party / celebration":      "Party",
	"wedding":                  "Wedding",
	"sports":                   "Sports",
	"active":                   "Sports",
	"sports / active":          "Sports",
	"travel":                   "Travel",
	"vacation":                 "Travel",
	"travel / vacation":        "Travel",
	"loungewear":               "Loungewear",
	"home":                     "Loungewear",
	"loungewear / home":        "Loungewear",
	"traditional":              "Traditional",
	"cultural":                 "Traditional",
	"traditional / cultural":   "Traditional",
	"seasonal":                 "Seasonal",
	"weather":                  "Seasonal",
	"seasonal / weather-based": "Seasonal",
}

// CategoryOf returns the category a metadata label belongs to, or "".
func CategoryOf(label string) string {
	return categoryOf[strings.ToLower(strings.TrimSpace(label))]
}

// Filter keeps records whose occasion or style maps to category. An empty
// category or CategoryAll returns records unchanged.
func Filter(records []Record, category string) []Record {
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return records
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Metadata == nil {
			continue
		}
		if strings.EqualFold(CategoryOf(r.Metadata.Occasion), category) ||
			strings.EqualFold(CategoryOf(r.Metadata.Style), category) {
			out = append(out, r)
		}
	}
	return out
}
