package domain

import "slices"

// CategoryAll is the filter value that matches every event. It is never
// stored on an event.
const CategoryAll = "All"

const (
	CategoryDiscover  = "Discover"
	CategoryConnect   = "Connect"
	CategorySocialize = "Socialize"
	CategoryLearn     = "Learn"
	CategoryServe     = "Serve"
)

var categories = []string{
	CategoryDiscover,
	CategoryConnect,
	CategorySocialize,
	CategoryLearn,
	CategoryServe,
}

func Categories() []string {
	return slices.Clone(categories)
}

func IsCategory(c string) bool {
	return slices.Contains(categories, c)
}

// IsCategoryFilter reports whether c can be used with FilterByCategory.
func IsCategoryFilter(c string) bool {
	return c == CategoryAll || IsCategory(c)
}

func categoryValues() []interface{} {
	values := make([]interface{}, len(categories))
	for i, c := range categories {
		values[i] = c
	}
	return values
}
