package news

import "time"

// Categories a digest is built for. Breaking is a flag on the article, not
// one of the ranked sections.
const (
	CategorySociety       = "society"
	CategoryEconomy       = "economy"
	CategoryCulture       = "culture"
	CategoryEntertainment = "entertainment"
	CategoryBreaking      = "breaking"
)

// RankedCategories returns the categories a top-N selection runs over.
func RankedCategories() []string {
	return []string{CategorySociety, CategoryEconomy, CategoryCulture, CategoryEntertainment}
}

// IsKnownCategory reports whether value is one of the article categories.
func IsKnownCategory(value string) bool {
	switch value {
	case CategorySociety, CategoryEconomy, CategoryCulture, CategoryEntertainment, CategoryBreaking:
		return true
	default:
		return false
	}
}

// Article is one candidate item inside a ranking batch. Collectors produce
// these, the dedup and rank packages consume them, and storage converts them
// from/to rows at the edges. HotScore and IsTop are the only fields the core
// mutates.
type Article struct {
	ID          int64
	Date        time.Time
	Category    string
	Title       string
	URL         string
	Source      string
	TopicKey    string
	Language    string
	Keywords    []string
	IsBreaking  bool
	IsTop       bool
	HotScore    int
	PublishedAt *time.Time
	CreatedAt   time.Time
}
