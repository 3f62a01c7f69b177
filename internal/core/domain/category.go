package domain

import "fmt"

// Category is one of the electoral races a voter votes in independently.
type Category string

const (
	CategoryPresidencial Category = "presidencial"
	CategoryDistrital    Category = "distrital"
	CategoryRegional     Category = "regional"
)

// Categories lists every category a ballot must cover, in display order.
var Categories = []Category{
	CategoryPresidencial,
	CategoryDistrital,
	CategoryRegional,
}

var categoryLabels = map[Category]string{
	CategoryPresidencial: "Presidencial",
	CategoryDistrital:    "Distrital",
	CategoryRegional:     "Regional",
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label is the human readable name shown on ballots and receipts.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Order returns the display position of c, or len(Categories) for unknown values.
func (c Category) Order() int {
	for i, known := range Categories {
		if known == c {
			return i
		}
	}
	return len(Categories)
}

func (c Category) String() string {
	return string(c)
}
